package domain

import (
	"context"
	"errors"
	"time"

	"github.com/apiwikihq/apiwiki/internal/pricing"
	"github.com/apiwikihq/apiwiki/pkg/db/pagination"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	GetBySlug(ctx context.Context, slug string) (*Detail, error)

	ListPending(ctx context.Context) ([]Response, error)
	Approve(ctx context.Context, id string) (*Response, error)
	Reject(ctx context.Context, id string) (*Response, error)

	SavePricingCSV(ctx context.Context, req SavePricingRequest) (*Detail, error)
}

type SubmitRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	BaseURL     string   `json:"base_url"`
	Tags        []string `json:"tags"`

	SubmitterID string `json:"-"`
}

type ListRequest struct {
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Query    string `form:"q"`
	Sort     string `form:"sort"`

	pagination.Pagination
}

type ListResponse struct {
	Entries  []*Response          `json:"entries"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type SavePricingRequest struct {
	Slug string `json:"-"`
	CSV  string `json:"csv"`

	ActorID      string `json:"-"`
	ActorIsAdmin bool   `json:"-"`
}

type Response struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	BaseURL     string    `json:"base_url"`
	Tags        []string  `json:"tags"`
	Status      Status    `json:"status"`
	SubmittedBy string    `json:"submitted_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Detail is the slug page payload: the entry plus its pricing CSV
// parsed for tabular display. Pricing is nil when no usable table
// exists, which the UI renders as an upload prompt.
type Detail struct {
	Response
	Pricing    *pricing.Table `json:"pricing,omitempty"`
	HasPricing bool           `json:"has_pricing"`
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrSlugTaken     = errors.New("slug_taken")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("api_not_found")
	ErrNotPending    = errors.New("api_not_pending")
	ErrNotOwner      = errors.New("not_owner")
	ErrInvalidCursor = errors.New("invalid_cursor")
)
