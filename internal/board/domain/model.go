package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Board string

const (
	BoardGeneral  Board = "general"
	BoardQnA      Board = "qna"
	BoardFeedback Board = "feedback"
)

func (b Board) Valid() bool {
	switch b {
	case BoardGeneral, BoardQnA, BoardFeedback:
		return true
	}
	return false
}

type Post struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Board     Board        `gorm:"type:text;not null;default:'general'"`
	AuthorID  snowflake.ID `gorm:"column:author_id;not null"`
	Title     string       `gorm:"not null"`
	Body      string       `gorm:"not null;default:''"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Post) TableName() string { return "posts" }

type Comment struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	PostID    snowflake.ID `gorm:"column:post_id;not null;index"`
	AuthorID  snowflake.ID `gorm:"column:author_id;not null"`
	Body      string       `gorm:"not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Comment) TableName() string { return "comments" }
