package domain

import (
	"context"
	"errors"
	"time"

	"github.com/apiwikihq/apiwiki/internal/grade"
)

type Service interface {
	Get(ctx context.Context, apiSlug string) (*Response, error)
	SaveEdit(ctx context.Context, req SaveEditRequest) (*Response, error)
	Revisions(ctx context.Context, apiSlug string, limit int) ([]RevisionResponse, error)
}

type SaveEditRequest struct {
	Slug string `json:"-"`
	Body string `json:"body"`

	EditorID string `json:"-"`
}

type Response struct {
	APISlug   string    `json:"api_slug"`
	Body      string    `json:"body"`
	Exists    bool      `json:"exists"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type RevisionResponse struct {
	ID        string    `json:"id"`
	EditorID  string    `json:"editor_id"`
	EditSize  int       `json:"edit_size"`
	CreatedAt time.Time `json:"created_at"`
}

// EditDeniedError carries the tier-limit reason verbatim to the
// client.
type EditDeniedError struct {
	Tier   grade.Tier
	Reason string
}

func (e *EditDeniedError) Error() string { return e.Reason }

var (
	ErrAPINotFound = errors.New("api_not_found")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNoChange    = errors.New("no_change")
)
