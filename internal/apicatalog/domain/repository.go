package domain

import (
	"context"

	"gorm.io/gorm"
)

// ListFilter narrows a catalog listing. BeforeID keys cursor
// pagination on the snowflake ordering and only applies to the
// default newest-first sort.
type ListFilter struct {
	Status   Status
	Category string
	Tag      string
	Query    string
	SortBy   string
	BeforeID int64
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, entry *APIEntry) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*APIEntry, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*APIEntry, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*APIEntry, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status Status) error
	UpdatePricing(ctx context.Context, db *gorm.DB, id int64, csv string) error
}
