package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meetsy/feedback-service/internal/pagination"
	"gorm.io/gorm"
)

// ListFilter is the conjunction of optional predicates shared by the list and
// stats queries. Identifier fields are exact matches; Tags is OR-membership;
// Search matches headline or comment case-insensitively.
type ListFilter struct {
	RevieweeProfileID *uuid.UUID
	ReviewerProfileID *uuid.UUID
	MatchID           *uuid.UUID
	AuthorProfileID   *uuid.UUID
	Tags              []string
	MinOverall        *int
	MaxOverall        *int
	Since             *time.Time
	Search            string
}

// ListOptions carries the filter plus sort/pagination state. Sort and Order
// are validated against per-entity whitelists before they reach a query.
type ListOptions struct {
	Filter ListFilter
	Sort   string
	Order  string
	Limit  int
	Offset int
	Cursor *pagination.Cursor
}

func (f ListFilter) conditions(overallCol string) ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.RevieweeProfileID != nil {
		conds = append(conds, "reviewee_profile_id = ?")
		args = append(args, *f.RevieweeProfileID)
	}
	if f.ReviewerProfileID != nil {
		conds = append(conds, "reviewer_profile_id = ?")
		args = append(args, *f.ReviewerProfileID)
	}
	if f.MatchID != nil {
		conds = append(conds, "match_id = ?")
		args = append(args, *f.MatchID)
	}
	if f.AuthorProfileID != nil {
		conds = append(conds, "author_profile_id = ?")
		args = append(args, *f.AuthorProfileID)
	}
	if f.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *f.Since)
	}
	if f.MinOverall != nil {
		conds = append(conds, overallCol+" >= ?")
		args = append(args, *f.MinOverall)
	}
	if f.MaxOverall != nil {
		conds = append(conds, overallCol+" <= ?")
		args = append(args, *f.MaxOverall)
	}
	if len(f.Tags) > 0 {
		// OR of single-element containment checks against the JSONB array.
		ors := make([]string, 0, len(f.Tags))
		for _, tag := range f.Tags {
			doc, _ := json.Marshal([]string{tag})
			ors = append(ors, "tags @> ?")
			args = append(args, string(doc))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds, "(LOWER(COALESCE(headline, '')) LIKE ? OR LOWER(COALESCE(comment, '')) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	return conds, args
}

// whereClause renders the filter as a SQL fragment without the WHERE keyword;
// an empty string means no predicates.
func (f ListFilter) whereClause(overallCol string) (string, []interface{}) {
	conds, args := f.conditions(overallCol)
	if len(conds) == 0 {
		return "", nil
	}
	return strings.Join(conds, " AND "), args
}

func (f ListFilter) apply(q *gorm.DB, overallCol string) *gorm.DB {
	if where, args := f.whereClause(overallCol); where != "" {
		return q.Where(where, args...)
	}
	return q
}

// ParseTags splits a comma-separated tag parameter, trimming and lowercasing
// entries so they compare against the normalized stored form.
func ParseTags(csv string) []string {
	if csv == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(csv, ",") {
		if t := strings.ToLower(strings.TrimSpace(part)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// applyCursor adds the keyset predicate for a decoded continuation token.
// The row comparison pairs the sort key with the id tie-break, so rows
// inserted after the token was issued cannot shift the page window.
func applyCursor(q *gorm.DB, cur *pagination.Cursor, sortCol string) (*gorm.DB, error) {
	if cur == nil {
		return q, nil
	}

	var value interface{}
	if sortCol == "created_at" {
		t, err := time.Parse(time.RFC3339Nano, cur.Value)
		if err != nil {
			return nil, pagination.ErrInvalidCursor
		}
		value = t
	} else {
		n, err := strconv.Atoi(cur.Value)
		if err != nil {
			return nil, pagination.ErrInvalidCursor
		}
		value = n
	}

	id, err := uuid.Parse(cur.ID)
	if err != nil {
		return nil, pagination.ErrInvalidCursor
	}

	op := "<"
	if cur.Order == "asc" {
		op = ">"
	}
	return q.Where(fmt.Sprintf("(%s, id) %s (?, ?)", sortCol, op), value, id), nil
}

func orderClause(sort, order string) string {
	return sort + " " + order + ", id " + order
}

// round3 matches the 3-decimal rounding of the aggregate averages.
func round3(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*1000) / 1000
	return &r
}
