package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/meetsy/feedback-service/internal/dto"
	"github.com/meetsy/feedback-service/internal/models"
	"github.com/meetsy/feedback-service/internal/pagination"
	"gorm.io/gorm"
)

// ProfileFeedbackService owns persistence and querying for profile-to-profile
// feedback records.
type ProfileFeedbackService struct {
	db *gorm.DB
}

func NewProfileFeedbackService(db *gorm.DB) *ProfileFeedbackService {
	return &ProfileFeedbackService{db: db}
}

func (s *ProfileFeedbackService) Create(req *dto.CreateProfileFeedbackRequest) (*models.ProfileFeedback, error) {
	now := time.Now().UTC()
	rec := req.ToModel()
	rec.ID = uuid.New()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return rec, nil
}

func (s *ProfileFeedbackService) Get(id uuid.UUID) (*models.ProfileFeedback, error) {
	var rec models.ProfileFeedback
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Patch applies only the provided fields and refreshes updated_at. A patch
// with no fields returns the current row unchanged.
func (s *ProfileFeedbackService) Patch(id uuid.UUID, req *dto.UpdateProfileFeedbackRequest) (*models.ProfileFeedback, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := req.Changes()
	if len(updates) == 0 {
		return existing, nil
	}
	updates["updated_at"] = time.Now().UTC()

	err = s.db.Model(&models.ProfileFeedback{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return s.Get(id)
}

func (s *ProfileFeedbackService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.ProfileFeedback{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page plus the continuation token for the next one, or nil
// when the page was not full.
func (s *ProfileFeedbackService) List(opts ListOptions) ([]models.ProfileFeedback, *string, error) {
	limit := pagination.ClampLimit(opts.Limit)

	q := opts.Filter.apply(s.db.Model(&models.ProfileFeedback{}), "overall_experience")
	q, err := applyCursor(q, opts.Cursor, opts.Sort)
	if err != nil {
		return nil, nil, err
	}

	var rows []models.ProfileFeedback
	err = q.Order(orderClause(opts.Sort, opts.Order)).Limit(limit + 1).Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		token := pagination.Encode(pagination.Cursor{
			Sort:  opts.Sort,
			Order: opts.Order,
			Value: s.sortValue(opts.Sort, &last),
			ID:    last.ID.String(),
		})
		next = &token
	}
	return rows, next, nil
}

func (s *ProfileFeedbackService) sortValue(sort string, rec *models.ProfileFeedback) string {
	if sort == "created_at" {
		return rec.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return strconv.Itoa(int(rec.OverallExperience))
}

// ProfileStats aggregates the feedback received by one profile.
type ProfileStats struct {
	Total         int64
	AvgOverall    *float64
	Distribution  map[string]int64
	FacetAverages map[string]*float64
	TopTags       []dto.TagCount
}

// profileAgg is the scan target for the single-pass aggregate query.
type profileAgg struct {
	Total      int64
	AvgOverall *float64
	D1         int64
	D2         int64
	D3         int64
	D4         int64
	D5         int64
	AvgSafety  *float64
	AvgRespect *float64
}

// stats shapes the raw aggregates. A zero-row scan yields total 0, a zeroed
// distribution, null averages and an empty tag list.
func (a profileAgg) stats() *ProfileStats {
	return &ProfileStats{
		Total:      a.Total,
		AvgOverall: round3(a.AvgOverall),
		Distribution: map[string]int64{
			"1": a.D1, "2": a.D2, "3": a.D3, "4": a.D4, "5": a.D5,
		},
		FacetAverages: map[string]*float64{
			"safety_feeling": round3(a.AvgSafety),
			"respectfulness": round3(a.AvgRespect),
		},
		TopTags: []dto.TagCount{},
	}
}

func (s *ProfileFeedbackService) Stats(revieweeID uuid.UUID, tags []string, since *time.Time) (*ProfileStats, error) {
	filter := ListFilter{RevieweeProfileID: &revieweeID, Tags: tags, Since: since}
	where, args := filter.whereClause("overall_experience")

	var agg profileAgg
	q := s.db.Model(&models.ProfileFeedback{}).Select(`
		COUNT(*) AS total,
		AVG(overall_experience)::float8 AS avg_overall,
		COUNT(*) FILTER (WHERE overall_experience = 1) AS d1,
		COUNT(*) FILTER (WHERE overall_experience = 2) AS d2,
		COUNT(*) FILTER (WHERE overall_experience = 3) AS d3,
		COUNT(*) FILTER (WHERE overall_experience = 4) AS d4,
		COUNT(*) FILTER (WHERE overall_experience = 5) AS d5,
		AVG(NULLIF(safety_feeling, 0))::float8 AS avg_safety,
		AVG(NULLIF(respectfulness, 0))::float8 AS avg_respect`)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Scan(&agg).Error; err != nil {
		return nil, err
	}

	stats := agg.stats()
	if agg.Total == 0 {
		return stats, nil
	}

	topTags, err := topTagCounts(s.db, "feedback_profile", where, args)
	if err != nil {
		return nil, err
	}
	stats.TopTags = topTags
	return stats, nil
}

// topTagCounts unnests the JSONB tag arrays of the filtered rows and counts
// occurrences, ties broken alphabetically.
func topTagCounts(db *gorm.DB, table, where string, args []interface{}) ([]dto.TagCount, error) {
	sql := `SELECT t.tag AS tag, COUNT(*) AS count
		FROM ` + table + ` f
		CROSS JOIN LATERAL jsonb_array_elements_text(f.tags) AS t(tag)`
	if where != "" {
		sql += " WHERE " + where
	}
	sql += ` GROUP BY t.tag ORDER BY count DESC, t.tag ASC LIMIT 10`

	counts := []dto.TagCount{}
	if err := db.Raw(sql, args...).Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
