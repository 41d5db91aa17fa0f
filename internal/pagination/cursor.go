// Package pagination implements the opaque continuation tokens used by the
// list endpoints. A token pins the last-seen sort key plus the row id as a
// tie-break, so following pages stay stable while new rows are inserted.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is the decoded continuation token. Value holds the last-seen sort
// key rendered as a string: RFC3339Nano for timestamp sorts, decimal digits
// for rating sorts.
type Cursor struct {
	Sort  string `json:"s"`
	Order string `json:"o"`
	Value string `json:"v"`
	ID    string `json:"id"`
}

func Encode(c Cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses a token and verifies it was issued for the same sort column
// and direction the caller is requesting; a cursor from a differently ordered
// listing would silently skip or repeat rows.
func Decode(token, sort, order string) (Cursor, error) {
	var c Cursor
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return c, ErrInvalidCursor
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, ErrInvalidCursor
	}
	if c.Sort != sort || c.Order != order || c.ID == "" {
		return c, ErrInvalidCursor
	}
	return c, nil
}

// ClampLimit applies the default and maximum page sizes.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
