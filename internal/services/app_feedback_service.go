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

// AppFeedbackService owns persistence and querying for feedback about the
// application itself.
type AppFeedbackService struct {
	db *gorm.DB
}

func NewAppFeedbackService(db *gorm.DB) *AppFeedbackService {
	return &AppFeedbackService{db: db}
}

func (s *AppFeedbackService) Create(req *dto.CreateAppFeedbackRequest) (*models.AppFeedback, error) {
	now := time.Now().UTC()
	rec := req.ToModel()
	rec.ID = uuid.New()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *AppFeedbackService) Get(id uuid.UUID) (*models.AppFeedback, error) {
	var rec models.AppFeedback
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *AppFeedbackService) Patch(id uuid.UUID, req *dto.UpdateAppFeedbackRequest) (*models.AppFeedback, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := req.Changes()
	if len(updates) == 0 {
		return existing, nil
	}
	updates["updated_at"] = time.Now().UTC()

	err = s.db.Model(&models.AppFeedback{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *AppFeedbackService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.AppFeedback{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List serves both pagination modes. With a cursor it pages by keyset;
// otherwise it pages by Offset. The filtered total is always reported so
// page-number clients can render page counts.
func (s *AppFeedbackService) List(opts ListOptions) ([]models.AppFeedback, int64, *string, error) {
	limit := pagination.ClampLimit(opts.Limit)

	var total int64
	counted := opts.Filter.apply(s.db.Model(&models.AppFeedback{}), "overall")
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, nil, err
	}

	q := opts.Filter.apply(s.db.Model(&models.AppFeedback{}), "overall")
	var rows []models.AppFeedback

	if opts.Cursor != nil {
		q, err := applyCursor(q, opts.Cursor, opts.Sort)
		if err != nil {
			return nil, 0, nil, err
		}
		err = q.Order(orderClause(opts.Sort, opts.Order)).Limit(limit + 1).Find(&rows).Error
		if err != nil {
			return nil, 0, nil, err
		}
		var next *string
		if len(rows) > limit {
			rows = rows[:limit]
			next = s.nextToken(opts, rows[limit-1])
		}
		return rows, total, next, nil
	}

	err := q.Order(orderClause(opts.Sort, opts.Order)).
		Offset(opts.Offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, nil, err
	}

	var next *string
	if len(rows) == limit && int64(opts.Offset+len(rows)) < total {
		next = s.nextToken(opts, rows[len(rows)-1])
	}
	return rows, total, next, nil
}

func (s *AppFeedbackService) nextToken(opts ListOptions, last models.AppFeedback) *string {
	token := pagination.Encode(pagination.Cursor{
		Sort:  opts.Sort,
		Order: opts.Order,
		Value: s.sortValue(opts.Sort, &last),
		ID:    last.ID.String(),
	})
	return &token
}

func (s *AppFeedbackService) sortValue(sort string, rec *models.AppFeedback) string {
	if sort == "created_at" {
		return rec.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return strconv.Itoa(int(rec.Overall))
}

// AppStats aggregates application feedback over an optional filter.
type AppStats struct {
	Total         int64
	AvgOverall    *float64
	Distribution  map[string]int64
	FacetAverages map[string]*float64
	TopTags       []dto.TagCount
}

// appAgg is the scan target for the single-pass aggregate query.
type appAgg struct {
	Total          int64
	AvgOverall     *float64
	D1             int64
	D2             int64
	D3             int64
	D4             int64
	D5             int64
	AvgUsability   *float64
	AvgReliability *float64
	AvgPerformance *float64
	AvgSupport     *float64
}

func (a appAgg) stats() *AppStats {
	return &AppStats{
		Total:      a.Total,
		AvgOverall: round3(a.AvgOverall),
		Distribution: map[string]int64{
			"1": a.D1, "2": a.D2, "3": a.D3, "4": a.D4, "5": a.D5,
		},
		FacetAverages: map[string]*float64{
			"usability":          round3(a.AvgUsability),
			"reliability":        round3(a.AvgReliability),
			"performance":        round3(a.AvgPerformance),
			"support_experience": round3(a.AvgSupport),
		},
		TopTags: []dto.TagCount{},
	}
}

func (s *AppFeedbackService) Stats(tags []string, since *time.Time) (*AppStats, error) {
	filter := ListFilter{Tags: tags, Since: since}
	where, args := filter.whereClause("overall")

	var agg appAgg
	q := s.db.Model(&models.AppFeedback{}).Select(`
		COUNT(*) AS total,
		AVG(overall)::float8 AS avg_overall,
		COUNT(*) FILTER (WHERE overall = 1) AS d1,
		COUNT(*) FILTER (WHERE overall = 2) AS d2,
		COUNT(*) FILTER (WHERE overall = 3) AS d3,
		COUNT(*) FILTER (WHERE overall = 4) AS d4,
		COUNT(*) FILTER (WHERE overall = 5) AS d5,
		AVG(NULLIF(usability, 0))::float8 AS avg_usability,
		AVG(NULLIF(reliability, 0))::float8 AS avg_reliability,
		AVG(NULLIF(performance, 0))::float8 AS avg_performance,
		AVG(NULLIF(support_experience, 0))::float8 AS avg_support`)
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

	topTags, err := topTagCounts(s.db, "feedback_app", where, args)
	if err != nil {
		return nil, err
	}
	stats.TopTags = topTags
	return stats, nil
}
