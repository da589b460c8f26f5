package domain

import (
	"time"

	"github.com/apiwikihq/apiwiki/internal/grade"
	"github.com/bwmarrin/snowflake"
)

type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Email        string       `gorm:"type:text;not null;uniqueIndex"`
	DisplayName  string       `gorm:"type:text;not null"`
	PasswordHash string       `gorm:"type:text;not null"`
	IsAdmin      bool         `gorm:"not null;default:false"`

	// Score is only ever written by the activities trigger. The tier
	// is derived from it on read, never persisted.
	Score int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }

// Tier derives the membership tier. The admin capability flag
// short-circuits score-based tiers everywhere.
func (u *User) Tier() grade.Tier {
	if u.IsAdmin {
		return grade.TierAdmin
	}
	return grade.Calculate(u.Score)
}

type Session struct {
	Token     string       `gorm:"primaryKey;type:text"`
	UserID    snowflake.ID `gorm:"not null;index"`
	ExpiresAt time.Time    `gorm:"not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
