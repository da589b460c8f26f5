package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreatePost(ctx context.Context, db *gorm.DB, post *Post) error
	FindPost(ctx context.Context, db *gorm.DB, id int64) (*Post, error)
	ListPosts(ctx context.Context, db *gorm.DB, board Board, beforeID int64, limit int) ([]*Post, error)
	DeletePost(ctx context.Context, db *gorm.DB, id int64) error

	CreateComment(ctx context.Context, db *gorm.DB, comment *Comment) error
	FindComment(ctx context.Context, db *gorm.DB, id int64) (*Comment, error)
	ListComments(ctx context.Context, db *gorm.DB, postID int64) ([]Comment, error)
	DeleteComment(ctx context.Context, db *gorm.DB, id int64) error
}
