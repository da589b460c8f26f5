package domain

import (
	"context"
	"errors"
	"time"

	"github.com/apiwikihq/apiwiki/pkg/db/pagination"
)

type Service interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*PostResponse, error)
	ListPosts(ctx context.Context, req ListPostsRequest) (*ListPostsResponse, error)
	GetPost(ctx context.Context, id string) (*PostDetail, error)
	DeletePost(ctx context.Context, req DeleteRequest) error

	CreateComment(ctx context.Context, req CreateCommentRequest) (*CommentResponse, error)
	DeleteComment(ctx context.Context, req DeleteRequest) error
}

type CreatePostRequest struct {
	Board Board  `json:"board"`
	Title string `json:"title"`
	Body  string `json:"body"`

	AuthorID string `json:"-"`
}

type ListPostsRequest struct {
	Board Board `form:"board"`

	pagination.Pagination
}

type ListPostsResponse struct {
	Posts    []*PostResponse      `json:"posts"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type CreateCommentRequest struct {
	PostID string `json:"-"`
	Body   string `json:"body"`

	AuthorID string `json:"-"`
}

// DeleteRequest identifies a post or comment and the actor asking to
// remove it. Non-admins may only remove their own.
type DeleteRequest struct {
	ID           string
	ActorID      string
	ActorIsAdmin bool
}

type PostResponse struct {
	ID        string    `json:"id"`
	Board     Board     `json:"board"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostDetail struct {
	PostResponse
	Comments []CommentResponse `json:"comments"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidBoard    = errors.New("invalid_board")
	ErrInvalidTitle    = errors.New("invalid_title")
	ErrInvalidBody     = errors.New("invalid_body")
	ErrInvalidID       = errors.New("invalid_id")
	ErrPostNotFound    = errors.New("post_not_found")
	ErrCommentNotFound = errors.New("comment_not_found")
	ErrNotAuthor       = errors.New("not_author")
	ErrInvalidCursor   = errors.New("invalid_cursor")
)
