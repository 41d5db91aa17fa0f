package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/meetsy/feedback-service/internal/dto"
	"github.com/meetsy/feedback-service/internal/pagination"
	"github.com/meetsy/feedback-service/internal/services"
)

var errBadBody = errors.New("invalid request body")

// decodeBody parses the JSON request body. A field holding the wrong JSON
// type (a string where an array belongs, say) is a semantic failure and
// surfaces as a ValidationError naming the field; anything else that fails
// to parse is malformed syntax.
func decodeBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &dto.ValidationError{Field: typeErr.Field, Message: "is of the wrong type"}
		}
		return errBadBody
	}
	return nil
}

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// unrecognized is a store failure: logged with detail, surfaced generically.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *dto.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   true,
			"message": vErr.Error(),
			"field":   vErr.Field,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Not found",
		})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	case errors.Is(err, pagination.ErrInvalidCursor):
		return badRequest(c, "Invalid cursor")
	case errors.Is(err, errBadBody):
		return badRequest(c, "Invalid request body")
	default:
		slog.Error("store operation failed",
			"component", "handlers",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

// --- query parameter helpers ---

func parsePathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid id")
	}
	return id, nil
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	return &id, nil
}

func queryRating(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n := c.QueryInt(name, -1)
	if n < dto.RatingMin || n > dto.RatingMax {
		return nil, errors.New("invalid " + name)
	}
	return &n, nil
}

func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// second chance without zone, as produced by some clients
		t, err = time.Parse("2006-01-02T15:04:05", raw)
		if err != nil {
			return nil, errors.New("invalid " + name)
		}
		t = t.UTC()
	}
	return &t, nil
}

func querySort(c *fiber.Ctx, allowed ...string) (string, string, error) {
	sort := c.Query("sort", "created_at")
	ok := false
	for _, a := range allowed {
		if sort == a {
			ok = true
			break
		}
	}
	if !ok {
		return "", "", errors.New("invalid sort")
	}
	order := c.Query("order", "desc")
	if order != "asc" && order != "desc" {
		return "", "", errors.New("invalid order")
	}
	return sort, order, nil
}

// requestQuery re-parses the raw query string so links can reproduce the
// request verbatim, repeated keys included.
func requestQuery(c *fiber.Ctx) url.Values {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return url.Values{}
	}
	return q
}
