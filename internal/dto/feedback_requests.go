package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/meetsy/feedback-service/internal/models"
)

const (
	RatingMin = 1
	RatingMax = 5

	maxHeadlineLen = 120
	maxCommentLen  = 2000
	maxTags        = 20
	maxTagLen      = 64
)

// --- Profile feedback ---

type CreateProfileFeedbackRequest struct {
	ReviewerProfileID uuid.UUID  `json:"reviewer_profile_id"`
	RevieweeProfileID uuid.UUID  `json:"reviewee_profile_id"`
	MatchID           *uuid.UUID `json:"match_id"`

	OverallExperience *int  `json:"overall_experience"`
	WouldMeetAgain    *bool `json:"would_meet_again"`
	SafetyFeeling     *int  `json:"safety_feeling"`
	Respectfulness    *int  `json:"respectfulness"`

	Headline *string  `json:"headline"`
	Comment  *string  `json:"comment"`
	Tags     []string `json:"tags"`
}

func (r *CreateProfileFeedbackRequest) Validate() error {
	if r.ReviewerProfileID == uuid.Nil {
		return invalid("reviewer_profile_id", "is required")
	}
	if r.RevieweeProfileID == uuid.Nil {
		return invalid("reviewee_profile_id", "is required")
	}
	if r.ReviewerProfileID == r.RevieweeProfileID {
		return invalid("reviewee_profile_id", "must differ from reviewer_profile_id")
	}
	if r.OverallExperience == nil {
		return invalid("overall_experience", "is required")
	}
	if err := checkRating("overall_experience", r.OverallExperience); err != nil {
		return err
	}
	if err := checkRating("safety_feeling", r.SafetyFeeling); err != nil {
		return err
	}
	if err := checkRating("respectfulness", r.Respectfulness); err != nil {
		return err
	}
	if err := checkText("headline", r.Headline, maxHeadlineLen); err != nil {
		return err
	}
	if err := checkText("comment", r.Comment, maxCommentLen); err != nil {
		return err
	}
	tags, err := NormalizeTags(r.Tags)
	if err != nil {
		return err
	}
	r.Tags = tags
	return nil
}

// ToModel builds the persistence record; the service assigns id and
// timestamps.
func (r *CreateProfileFeedbackRequest) ToModel() *models.ProfileFeedback {
	return &models.ProfileFeedback{
		ReviewerProfileID: r.ReviewerProfileID,
		RevieweeProfileID: r.RevieweeProfileID,
		MatchID:           r.MatchID,
		OverallExperience: int16(*r.OverallExperience),
		WouldMeetAgain:    smallintFromBool(r.WouldMeetAgain),
		SafetyFeeling:     smallintFromInt(r.SafetyFeeling),
		Respectfulness:    smallintFromInt(r.Respectfulness),
		Headline:          r.Headline,
		Comment:           r.Comment,
		Tags:              models.TagList(r.Tags),
	}
}

type UpdateProfileFeedbackRequest struct {
	ReviewerProfileID *uuid.UUID `json:"reviewer_profile_id"`
	RevieweeProfileID *uuid.UUID `json:"reviewee_profile_id"`
	MatchID           *uuid.UUID `json:"match_id"`

	OverallExperience *int  `json:"overall_experience"`
	WouldMeetAgain    *bool `json:"would_meet_again"`
	SafetyFeeling     *int  `json:"safety_feeling"`
	Respectfulness    *int  `json:"respectfulness"`

	Headline *string   `json:"headline"`
	Comment  *string   `json:"comment"`
	Tags     *[]string `json:"tags"`
}

func (r *UpdateProfileFeedbackRequest) Validate() error {
	if r.ReviewerProfileID != nil && r.RevieweeProfileID != nil &&
		*r.ReviewerProfileID == *r.RevieweeProfileID {
		return invalid("reviewee_profile_id", "must differ from reviewer_profile_id")
	}
	if err := checkRating("overall_experience", r.OverallExperience); err != nil {
		return err
	}
	if err := checkRating("safety_feeling", r.SafetyFeeling); err != nil {
		return err
	}
	if err := checkRating("respectfulness", r.Respectfulness); err != nil {
		return err
	}
	if err := checkText("headline", r.Headline, maxHeadlineLen); err != nil {
		return err
	}
	if err := checkText("comment", r.Comment, maxCommentLen); err != nil {
		return err
	}
	if r.Tags != nil {
		tags, err := NormalizeTags(*r.Tags)
		if err != nil {
			return err
		}
		*r.Tags = tags
	}
	return nil
}

// Changes returns the column updates for the provided fields only. An empty
// map means the patch is a no-op.
func (r *UpdateProfileFeedbackRequest) Changes() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.ReviewerProfileID != nil {
		updates["reviewer_profile_id"] = *r.ReviewerProfileID
	}
	if r.RevieweeProfileID != nil {
		updates["reviewee_profile_id"] = *r.RevieweeProfileID
	}
	if r.MatchID != nil {
		updates["match_id"] = *r.MatchID
	}
	if r.OverallExperience != nil {
		updates["overall_experience"] = int16(*r.OverallExperience)
	}
	if r.WouldMeetAgain != nil {
		updates["would_meet_again"] = boolToSmallint(*r.WouldMeetAgain)
	}
	if r.SafetyFeeling != nil {
		updates["safety_feeling"] = int16(*r.SafetyFeeling)
	}
	if r.Respectfulness != nil {
		updates["respectfulness"] = int16(*r.Respectfulness)
	}
	if r.Headline != nil {
		updates["headline"] = *r.Headline
	}
	if r.Comment != nil {
		updates["comment"] = *r.Comment
	}
	if r.Tags != nil {
		updates["tags"] = models.TagList(*r.Tags)
	}
	return updates
}

// --- App feedback ---

type CreateAppFeedbackRequest struct {
	AuthorProfileID *uuid.UUID `json:"author_profile_id"`

	Overall           *int `json:"overall"`
	Usability         *int `json:"usability"`
	Reliability       *int `json:"reliability"`
	Performance       *int `json:"performance"`
	SupportExperience *int `json:"support_experience"`

	Headline *string  `json:"headline"`
	Comment  *string  `json:"comment"`
	Tags     []string `json:"tags"`
}

func (r *CreateAppFeedbackRequest) Validate() error {
	if r.Overall == nil {
		return invalid("overall", "is required")
	}
	if err := checkRating("overall", r.Overall); err != nil {
		return err
	}
	if err := checkRating("usability", r.Usability); err != nil {
		return err
	}
	if err := checkRating("reliability", r.Reliability); err != nil {
		return err
	}
	if err := checkRating("performance", r.Performance); err != nil {
		return err
	}
	if err := checkRating("support_experience", r.SupportExperience); err != nil {
		return err
	}
	if err := checkText("headline", r.Headline, maxHeadlineLen); err != nil {
		return err
	}
	if err := checkText("comment", r.Comment, maxCommentLen); err != nil {
		return err
	}
	tags, err := NormalizeTags(r.Tags)
	if err != nil {
		return err
	}
	r.Tags = tags
	return nil
}

func (r *CreateAppFeedbackRequest) ToModel() *models.AppFeedback {
	return &models.AppFeedback{
		AuthorProfileID:   r.AuthorProfileID,
		Overall:           int16(*r.Overall),
		Usability:         smallintFromInt(r.Usability),
		Reliability:       smallintFromInt(r.Reliability),
		Performance:       smallintFromInt(r.Performance),
		SupportExperience: smallintFromInt(r.SupportExperience),
		Headline:          r.Headline,
		Comment:           r.Comment,
		Tags:              models.TagList(r.Tags),
	}
}

type UpdateAppFeedbackRequest struct {
	AuthorProfileID *uuid.UUID `json:"author_profile_id"`

	Overall           *int `json:"overall"`
	Usability         *int `json:"usability"`
	Reliability       *int `json:"reliability"`
	Performance       *int `json:"performance"`
	SupportExperience *int `json:"support_experience"`

	Headline *string   `json:"headline"`
	Comment  *string   `json:"comment"`
	Tags     *[]string `json:"tags"`
}

func (r *UpdateAppFeedbackRequest) Validate() error {
	if err := checkRating("overall", r.Overall); err != nil {
		return err
	}
	if err := checkRating("usability", r.Usability); err != nil {
		return err
	}
	if err := checkRating("reliability", r.Reliability); err != nil {
		return err
	}
	if err := checkRating("performance", r.Performance); err != nil {
		return err
	}
	if err := checkRating("support_experience", r.SupportExperience); err != nil {
		return err
	}
	if err := checkText("headline", r.Headline, maxHeadlineLen); err != nil {
		return err
	}
	if err := checkText("comment", r.Comment, maxCommentLen); err != nil {
		return err
	}
	if r.Tags != nil {
		tags, err := NormalizeTags(*r.Tags)
		if err != nil {
			return err
		}
		*r.Tags = tags
	}
	return nil
}

func (r *UpdateAppFeedbackRequest) Changes() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.AuthorProfileID != nil {
		updates["author_profile_id"] = *r.AuthorProfileID
	}
	if r.Overall != nil {
		updates["overall"] = int16(*r.Overall)
	}
	if r.Usability != nil {
		updates["usability"] = int16(*r.Usability)
	}
	if r.Reliability != nil {
		updates["reliability"] = int16(*r.Reliability)
	}
	if r.Performance != nil {
		updates["performance"] = int16(*r.Performance)
	}
	if r.SupportExperience != nil {
		updates["support_experience"] = int16(*r.SupportExperience)
	}
	if r.Headline != nil {
		updates["headline"] = *r.Headline
	}
	if r.Comment != nil {
		updates["comment"] = *r.Comment
	}
	if r.Tags != nil {
		updates["tags"] = models.TagList(*r.Tags)
	}
	return updates
}

// --- Shared checks ---

func checkRating(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < RatingMin || *v > RatingMax {
		return invalid(field, "must be between 1 and 5")
	}
	return nil
}

func checkText(field string, v *string, maxLen int) error {
	if v == nil {
		return nil
	}
	if len(*v) == 0 {
		return invalid(field, "must not be empty")
	}
	if len(*v) > maxLen {
		return invalid(field, "exceeds maximum length")
	}
	return nil
}

// NormalizeTags trims, lowercases and drops empty entries. Normalization
// happens before persistence so tag filters and aggregates compare
// canonical forms.
func NormalizeTags(tags []string) ([]string, error) {
	if tags == nil {
		return []string{}, nil
	}
	if len(tags) > maxTags {
		return nil, invalid("tags", "cannot contain more than 20 entries")
	}
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		token := strings.ToLower(strings.TrimSpace(t))
		if token == "" {
			continue
		}
		if len(token) > maxTagLen {
			return nil, invalid("tags", "each tag must be at most 64 characters")
		}
		cleaned = append(cleaned, token)
	}
	return cleaned, nil
}

func boolToSmallint(b bool) int16 {
	if b {
		return 1
	}
	return 0
}

func smallintFromBool(b *bool) *int16 {
	if b == nil {
		return nil
	}
	v := boolToSmallint(*b)
	return &v
}

func smallintFromInt(v *int) *int16 {
	if v == nil {
		return nil
	}
	s := int16(*v)
	return &s
}
