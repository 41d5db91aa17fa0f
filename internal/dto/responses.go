package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/meetsy/feedback-service/internal/models"
)

type ProfileFeedbackResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReviewerProfileID uuid.UUID  `json:"reviewer_profile_id"`
	RevieweeProfileID uuid.UUID  `json:"reviewee_profile_id"`
	MatchID           *uuid.UUID `json:"match_id"`

	OverallExperience int16  `json:"overall_experience"`
	WouldMeetAgain    *bool  `json:"would_meet_again"`
	SafetyFeeling     *int16 `json:"safety_feeling"`
	Respectfulness    *int16 `json:"respectfulness"`

	Headline *string  `json:"headline"`
	Comment  *string  `json:"comment"`
	Tags     []string `json:"tags"`

	Links map[string]string `json:"links"`
}

func NewProfileFeedbackResponse(m *models.ProfileFeedback) ProfileFeedbackResponse {
	return ProfileFeedbackResponse{
		ID:                m.ID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		ReviewerProfileID: m.ReviewerProfileID,
		RevieweeProfileID: m.RevieweeProfileID,
		MatchID:           m.MatchID,
		OverallExperience: m.OverallExperience,
		WouldMeetAgain:    boolFromSmallint(m.WouldMeetAgain),
		SafetyFeeling:     m.SafetyFeeling,
		Respectfulness:    m.Respectfulness,
		Headline:          m.Headline,
		Comment:           m.Comment,
		Tags:              tagsOrEmpty(m.Tags),
		Links:             profileFeedbackLinks(m),
	}
}

type AppFeedbackResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AuthorProfileID *uuid.UUID `json:"author_profile_id"`

	Overall           int16  `json:"overall"`
	Usability         *int16 `json:"usability"`
	Reliability       *int16 `json:"reliability"`
	Performance       *int16 `json:"performance"`
	SupportExperience *int16 `json:"support_experience"`

	Headline *string  `json:"headline"`
	Comment  *string  `json:"comment"`
	Tags     []string `json:"tags"`

	Links map[string]string `json:"links"`
}

func NewAppFeedbackResponse(m *models.AppFeedback) AppFeedbackResponse {
	return AppFeedbackResponse{
		ID:                m.ID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		AuthorProfileID:   m.AuthorProfileID,
		Overall:           m.Overall,
		Usability:         m.Usability,
		Reliability:       m.Reliability,
		Performance:       m.Performance,
		SupportExperience: m.SupportExperience,
		Headline:          m.Headline,
		Comment:           m.Comment,
		Tags:              tagsOrEmpty(m.Tags),
		Links:             appFeedbackLinks(m),
	}
}

type ProfileFeedbackListResponse struct {
	Items      []ProfileFeedbackResponse `json:"items"`
	NextCursor *string                   `json:"next_cursor"`
	Count      int                       `json:"count"`
	Links      map[string]string         `json:"links"`
}

// PaginationMeta reports offset-mode page position for page-number clients.
type PaginationMeta struct {
	Limit          int     `json:"limit"`
	Offset         int     `json:"offset"`
	Count          int     `json:"count"`
	Total          int64   `json:"total"`
	HasNext        bool    `json:"has_next"`
	HasPrevious    bool    `json:"has_previous"`
	NextOffset     *int    `json:"next_offset"`
	PreviousOffset *int    `json:"previous_offset"`
	NextCursor     *string `json:"next_cursor"`
}

type AppFeedbackListResponse struct {
	Items      []AppFeedbackResponse `json:"items"`
	NextCursor *string               `json:"next_cursor"`
	Count      int                   `json:"count"`
	Pagination PaginationMeta        `json:"pagination"`
	Links      map[string]string     `json:"links"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type ProfileFeedbackStatsResponse struct {
	RevieweeProfileID uuid.UUID           `json:"reviewee_profile_id"`
	CountTotal        int64               `json:"count_total"`
	AvgOverall        *float64            `json:"avg_overall_experience"`
	Distribution      map[string]int64    `json:"distribution_overall_experience"`
	FacetAverages     map[string]*float64 `json:"facet_averages"`
	TopTags           []TagCount          `json:"top_tags"`
	Links             map[string]string   `json:"links"`
}

type AppFeedbackStatsResponse struct {
	CountTotal    int64               `json:"count_total"`
	AvgOverall    *float64            `json:"avg_overall"`
	Distribution  map[string]int64    `json:"distribution_overall"`
	FacetAverages map[string]*float64 `json:"facet_averages"`
	TopTags       []TagCount          `json:"top_tags"`
	Links         map[string]string   `json:"links"`
}

type HealthResponse struct {
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	Hostname      string  `json:"hostname"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	DB            string  `json:"db"`
	Echo          *string `json:"echo"`
	PathEcho      *string `json:"path_echo"`
}

func boolFromSmallint(v *int16) *bool {
	if v == nil {
		return nil
	}
	b := *v != 0
	return &b
}

func tagsOrEmpty(t models.TagList) []string {
	if t == nil {
		return []string{}
	}
	return []string(t)
}
