package models

import (
	"time"

	"github.com/google/uuid"
)

// AppFeedback is a rating/comment about the application itself. The author is
// optional to allow anonymous capture flows.
type AppFeedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"type:timestamptz(6);not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz(6);not null" json:"updated_at"`

	AuthorProfileID *uuid.UUID `gorm:"type:uuid;index" json:"author_profile_id"`

	Overall           int16  `gorm:"type:smallint;not null" json:"overall"`
	Usability         *int16 `gorm:"type:smallint" json:"usability"`
	Reliability       *int16 `gorm:"type:smallint" json:"reliability"`
	Performance       *int16 `gorm:"type:smallint" json:"performance"`
	SupportExperience *int16 `gorm:"type:smallint" json:"support_experience"`

	Headline *string `gorm:"size:120" json:"headline"`
	Comment  *string `gorm:"type:text" json:"comment"`
	Tags     TagList `gorm:"type:jsonb" json:"tags"`
}

func (AppFeedback) TableName() string { return "feedback_app" }
