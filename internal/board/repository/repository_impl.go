package repository

import (
	"context"

	"github.com/apiwikihq/apiwiki/internal/board/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreatePost(ctx context.Context, db *gorm.DB, post *domain.Post) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO posts (id, board, author_id, title, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		string(post.Board),
		post.AuthorID,
		post.Title,
		post.Body,
		post.CreatedAt,
		post.UpdatedAt,
	).Error
}

func (r *repo) FindPost(ctx context.Context, db *gorm.DB, id int64) (*domain.Post, error) {
	var post domain.Post
	err := db.WithContext(ctx).Raw(
		`SELECT id, board, author_id, title, body, created_at, updated_at
		 FROM posts WHERE id = ?`,
		id,
	).Scan(&post).Error
	if err != nil {
		return nil, err
	}
	if post.ID == 0 {
		return nil, nil
	}
	return &post, nil
}

func (r *repo) ListPosts(ctx context.Context, db *gorm.DB, board domain.Board, beforeID int64, limit int) ([]*domain.Post, error) {
	query := `SELECT id, board, author_id, title, body, created_at, updated_at FROM posts`
	var args []interface{}

	if board != "" {
		query += ` WHERE board = ?`
		args = append(args, string(board))
		if beforeID > 0 {
			query += ` AND id < ?`
			args = append(args, beforeID)
		}
	} else if beforeID > 0 {
		query += ` WHERE id < ?`
		args = append(args, beforeID)
	}

	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	var posts []*domain.Post
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *repo) DeletePost(ctx context.Context, db *gorm.DB, id int64) error {
	if err := db.WithContext(ctx).Exec(`DELETE FROM comments WHERE post_id = ?`, id).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(`DELETE FROM posts WHERE id = ?`, id).Error
}

func (r *repo) CreateComment(ctx context.Context, db *gorm.DB, comment *domain.Comment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO comments (id, post_id, author_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
	).Error
}

func (r *repo) FindComment(ctx context.Context, db *gorm.DB, id int64) (*domain.Comment, error) {
	var comment domain.Comment
	err := db.WithContext(ctx).Raw(
		`SELECT id, post_id, author_id, body, created_at FROM comments WHERE id = ?`,
		id,
	).Scan(&comment).Error
	if err != nil {
		return nil, err
	}
	if comment.ID == 0 {
		return nil, nil
	}
	return &comment, nil
}

func (r *repo) ListComments(ctx context.Context, db *gorm.DB, postID int64) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := db.WithContext(ctx).Raw(
		`SELECT id, post_id, author_id, body, created_at
		 FROM comments WHERE post_id = ?
		 ORDER BY created_at ASC, id ASC`,
		postID,
	).Scan(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repo) DeleteComment(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM comments WHERE id = ?`, id).Error
}
