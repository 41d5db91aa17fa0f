package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/meetsy/feedback-service/internal/pagination"
	"github.com/meetsy/feedback-service/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp wires the handlers without a database; every request below is
// rejected before the service layer is reached.
func newTestApp() *fiber.App {
	app := fiber.New()

	health := NewHealthHandler(nil)
	profile := NewProfileFeedbackHandler(nil)
	appFeedback := NewAppFeedbackHandler(nil)

	app.Get("/health", health.Check)
	app.Get("/health/:echo", health.CheckEcho)

	app.Get("/feedback/profile/stats", profile.Stats)
	app.Get("/feedback/profile", profile.List)
	app.Post("/feedback/profile", profile.Create)
	app.Get("/feedback/profile/:id", profile.GetByID)
	app.Patch("/feedback/profile/:id", profile.Update)
	app.Delete("/feedback/profile/:id", profile.Delete)

	app.Get("/feedback/app", appFeedback.List)
	app.Post("/feedback/app", appFeedback.Create)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	app := newTestApp()

	t.Run("basic", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "not connected", body["db"])
		assert.NotEmpty(t, body["timestamp"])
		assert.NotEmpty(t, body["hostname"])
		assert.Nil(t, body["echo"])
		assert.Nil(t, body["path_echo"])
	})

	t.Run("query echo", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/health?echo=ping", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ping", body["echo"])
	})

	t.Run("path echo", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/health/hello?echo=ping", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "hello", body["path_echo"])
		assert.Equal(t, "ping", body["echo"])
	})
}

func TestProfileFeedbackRequestRejection(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{
			"create with malformed json", http.MethodPost, "/feedback/profile",
			`{"overall_experience":`, http.StatusBadRequest,
		},
		{
			"create with non-array tags", http.MethodPost, "/feedback/profile",
			`{"reviewer_profile_id":"11111111-1111-1111-1111-111111111111",
			  "reviewee_profile_id":"22222222-2222-2222-2222-222222222222",
			  "overall_experience":5,"tags":"praise"}`,
			http.StatusUnprocessableEntity,
		},
		{
			"create without overall rating", http.MethodPost, "/feedback/profile",
			`{"reviewer_profile_id":"11111111-1111-1111-1111-111111111111",
			  "reviewee_profile_id":"22222222-2222-2222-2222-222222222222"}`,
			http.StatusUnprocessableEntity,
		},
		{
			"create with self review", http.MethodPost, "/feedback/profile",
			`{"reviewer_profile_id":"11111111-1111-1111-1111-111111111111",
			  "reviewee_profile_id":"11111111-1111-1111-1111-111111111111",
			  "overall_experience":5}`,
			http.StatusUnprocessableEntity,
		},
		{
			"create with out of range rating", http.MethodPost, "/feedback/profile",
			`{"reviewer_profile_id":"11111111-1111-1111-1111-111111111111",
			  "reviewee_profile_id":"22222222-2222-2222-2222-222222222222",
			  "overall_experience":9}`,
			http.StatusUnprocessableEntity,
		},
		{"get with invalid id", http.MethodGet, "/feedback/profile/not-a-uuid", "", http.StatusBadRequest},
		{"patch with invalid id", http.MethodPatch, "/feedback/profile/not-a-uuid", `{}`, http.StatusBadRequest},
		{"delete with invalid id", http.MethodDelete, "/feedback/profile/not-a-uuid", "", http.StatusBadRequest},
		{"list with invalid sort", http.MethodGet, "/feedback/profile?sort=headline", "", http.StatusBadRequest},
		{"list with invalid order", http.MethodGet, "/feedback/profile?order=sideways", "", http.StatusBadRequest},
		{"list with invalid cursor", http.MethodGet, "/feedback/profile?cursor=%21%21%21", "", http.StatusBadRequest},
		{"list with invalid min_overall", http.MethodGet, "/feedback/profile?min_overall=9", "", http.StatusBadRequest},
		{"list with invalid reviewee id", http.MethodGet, "/feedback/profile?reviewee_profile_id=xyz", "", http.StatusBadRequest},
		{"list with invalid since", http.MethodGet, "/feedback/profile?since=yesterday", "", http.StatusBadRequest},
		{"stats without reviewee id", http.MethodGet, "/feedback/profile/stats", "", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, true, body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestAppFeedbackRequestRejection(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{
			"create without overall", http.MethodPost, "/feedback/app",
			`{"headline":"nice"}`, http.StatusUnprocessableEntity,
		},
		{
			"create with out of range facet", http.MethodPost, "/feedback/app",
			`{"overall":4,"usability":0}`, http.StatusUnprocessableEntity,
		},
		{"list with negative offset", http.MethodGet, "/feedback/app?offset=-1", "", http.StatusBadRequest},
		{"list with invalid sort", http.MethodGet, "/feedback/app?sort=overall_experience", "", http.StatusBadRequest},
		{"list with invalid author id", http.MethodGet, "/feedback/app?author_profile_id=nope", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	app := newTestApp()

	t.Run("semantic failure", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/feedback/profile",
			`{"reviewer_profile_id":"11111111-1111-1111-1111-111111111111",
			  "reviewee_profile_id":"22222222-2222-2222-2222-222222222222",
			  "overall_experience":5,"headline":""}`)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "headline", body["field"])
	})

	t.Run("wrong field type", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/feedback/profile",
			`{"reviewer_profile_id":"11111111-1111-1111-1111-111111111111",
			  "reviewee_profile_id":"22222222-2222-2222-2222-222222222222",
			  "overall_experience":5,"tags":"praise"}`)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "tags", body["field"])
	})
}

// respondError is driven directly: the sentinel errors are produced against a
// live database, but their status mapping must hold regardless of origin.
func TestServiceErrorStatusMapping(t *testing.T) {
	app := fiber.New()
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return respondError(c, services.ErrConflict)
	})
	app.Get("/wrapped-conflict", func(c *fiber.Ctx) error {
		return respondError(c, fmt.Errorf("create: %w", services.ErrConflict))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return respondError(c, services.ErrNotFound)
	})
	app.Get("/cursor", func(c *fiber.Ctx) error {
		return respondError(c, pagination.ErrInvalidCursor)
	})
	app.Get("/store", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("pq: connection reset by peer"))
	})

	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantMessage string
	}{
		{"conflict", "/conflict", http.StatusConflict, "feedback already exists for this match and reviewer"},
		{"wrapped conflict", "/wrapped-conflict", http.StatusConflict, ""},
		{"not found", "/missing", http.StatusNotFound, "Not found"},
		{"invalid cursor", "/cursor", http.StatusBadRequest, "Invalid cursor"},
		{"store failure", "/store", http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, true, body["error"])
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["message"])
			}
			// store failure detail stays in the log, never in the response
			assert.NotContains(t, body["message"], "connection reset")
		})
	}
}
