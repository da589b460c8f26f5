package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// APIEntry is one listing in the catalog. The slug is derived from the
// name at submission time and never changes afterwards.
type APIEntry struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	Name        string            `gorm:"not null"`
	Slug        string            `gorm:"not null;uniqueIndex"`
	Description string            ``
	Category    string            `gorm:"not null;default:''"`
	BaseURL     string            `gorm:"column:base_url;not null;default:''"`
	Tags        pq.StringArray    `gorm:"type:text[]"`
	PricingCSV  *string           `gorm:"column:pricing_csv"`
	Status      Status            `gorm:"type:text;not null;default:'pending'"`
	SubmittedBy snowflake.ID      `gorm:"column:submitted_by;not null"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (APIEntry) TableName() string { return "api_entries" }

// HasPricing reports whether a pricing CSV has ever been saved.
func (e *APIEntry) HasPricing() bool {
	return e.PricingCSV != nil && *e.PricingCSV != ""
}
