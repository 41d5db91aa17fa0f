package models

import (
	"time"

	"github.com/google/uuid"
)

// ProfileFeedback is a rating one profile leaves about another after a
// platform-arranged meeting. At most one record may exist per
// (match_id, reviewer_profile_id) pair; rows without a match_id are exempt
// since Postgres unique indexes ignore NULLs.
type ProfileFeedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"type:timestamptz(6);not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz(6);not null" json:"updated_at"`

	ReviewerProfileID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_match_reviewer,priority:2;index" json:"reviewer_profile_id"`
	RevieweeProfileID uuid.UUID  `gorm:"type:uuid;not null;index" json:"reviewee_profile_id"`
	MatchID           *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_match_reviewer,priority:1" json:"match_id"`

	OverallExperience int16  `gorm:"type:smallint;not null" json:"overall_experience"`
	WouldMeetAgain    *int16 `gorm:"type:smallint" json:"would_meet_again"`
	SafetyFeeling     *int16 `gorm:"type:smallint" json:"safety_feeling"`
	Respectfulness    *int16 `gorm:"type:smallint" json:"respectfulness"`

	Headline *string `gorm:"size:120" json:"headline"`
	Comment  *string `gorm:"type:text" json:"comment"`
	Tags     TagList `gorm:"type:jsonb" json:"tags"`
}

func (ProfileFeedback) TableName() string { return "feedback_profile" }
