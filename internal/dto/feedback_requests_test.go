package dto

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
func uuidPtr(v uuid.UUID) *uuid.UUID { return &v }

func validProfileCreate() CreateProfileFeedbackRequest {
	return CreateProfileFeedbackRequest{
		ReviewerProfileID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		RevieweeProfileID: uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		OverallExperience: intPtr(5),
	}
}

func TestCreateProfileFeedbackValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateProfileFeedbackRequest)
		wantField string
	}{
		{"valid", func(r *CreateProfileFeedbackRequest) {}, ""},
		{"missing reviewer", func(r *CreateProfileFeedbackRequest) {
			r.ReviewerProfileID = uuid.Nil
		}, "reviewer_profile_id"},
		{"missing reviewee", func(r *CreateProfileFeedbackRequest) {
			r.RevieweeProfileID = uuid.Nil
		}, "reviewee_profile_id"},
		{"reviewer equals reviewee", func(r *CreateProfileFeedbackRequest) {
			r.RevieweeProfileID = r.ReviewerProfileID
		}, "reviewee_profile_id"},
		{"missing overall", func(r *CreateProfileFeedbackRequest) {
			r.OverallExperience = nil
		}, "overall_experience"},
		{"overall too low", func(r *CreateProfileFeedbackRequest) {
			r.OverallExperience = intPtr(0)
		}, "overall_experience"},
		{"overall too high", func(r *CreateProfileFeedbackRequest) {
			r.OverallExperience = intPtr(6)
		}, "overall_experience"},
		{"safety out of range", func(r *CreateProfileFeedbackRequest) {
			r.SafetyFeeling = intPtr(9)
		}, "safety_feeling"},
		{"empty headline", func(r *CreateProfileFeedbackRequest) {
			r.Headline = strPtr("")
		}, "headline"},
		{"headline too long", func(r *CreateProfileFeedbackRequest) {
			r.Headline = strPtr(strings.Repeat("x", 121))
		}, "headline"},
		{"comment too long", func(r *CreateProfileFeedbackRequest) {
			r.Comment = strPtr(strings.Repeat("x", 2001))
		}, "comment"},
		{"too many tags", func(r *CreateProfileFeedbackRequest) {
			r.Tags = make([]string, 21)
		}, "tags"},
		{"tag too long", func(r *CreateProfileFeedbackRequest) {
			r.Tags = []string{strings.Repeat("x", 65)}
		}, "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProfileCreate()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestCreateProfileFeedbackNormalizesTags(t *testing.T) {
	req := validProfileCreate()
	req.Tags = []string{"  Great-Convo ", "", "PUNCTUAL", "  "}

	require.NoError(t, req.Validate())
	assert.Equal(t, []string{"great-convo", "punctual"}, req.Tags)
}

func TestCreateProfileFeedbackTagsDefaultToEmpty(t *testing.T) {
	req := validProfileCreate()
	require.NoError(t, req.Validate())

	rec := req.ToModel()
	assert.NotNil(t, rec.Tags)
	assert.Empty(t, rec.Tags)
}

func TestUpdateProfileFeedbackChanges(t *testing.T) {
	t.Run("empty patch produces no changes", func(t *testing.T) {
		req := UpdateProfileFeedbackRequest{}
		require.NoError(t, req.Validate())
		assert.Empty(t, req.Changes())
	})

	t.Run("only provided fields appear", func(t *testing.T) {
		req := UpdateProfileFeedbackRequest{Headline: strPtr("updated")}
		require.NoError(t, req.Validate())

		changes := req.Changes()
		assert.Equal(t, map[string]interface{}{"headline": "updated"}, changes)
	})

	t.Run("would_meet_again stored as smallint", func(t *testing.T) {
		yes := true
		req := UpdateProfileFeedbackRequest{WouldMeetAgain: &yes}
		require.NoError(t, req.Validate())

		changes := req.Changes()
		assert.Equal(t, int16(1), changes["would_meet_again"])
	})

	t.Run("matching reviewer and reviewee rejected", func(t *testing.T) {
		id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
		req := UpdateProfileFeedbackRequest{
			ReviewerProfileID: uuidPtr(id),
			RevieweeProfileID: uuidPtr(id),
		}
		var vErr *ValidationError
		require.ErrorAs(t, req.Validate(), &vErr)
		assert.Equal(t, "reviewee_profile_id", vErr.Field)
	})
}

func TestCreateAppFeedbackValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       CreateAppFeedbackRequest
		wantField string
	}{
		{"valid minimal", CreateAppFeedbackRequest{Overall: intPtr(4)}, ""},
		{"missing overall", CreateAppFeedbackRequest{}, "overall"},
		{"usability out of range", CreateAppFeedbackRequest{
			Overall:   intPtr(4),
			Usability: intPtr(0),
		}, "usability"},
		{"support out of range", CreateAppFeedbackRequest{
			Overall:           intPtr(4),
			SupportExperience: intPtr(7),
		}, "support_experience"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}
