package repository

import (
	"context"
	"strings"
	"time"

	"github.com/apiwikihq/apiwiki/internal/apicatalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const entryColumns = `id, name, slug, description, category, base_url, tags, pricing_csv,
	 status, submitted_by, metadata, created_at, updated_at`

func (r *repo) Create(ctx context.Context, db *gorm.DB, entry *domain.APIEntry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO api_entries (
			id, name, slug, description, category, base_url, tags, pricing_csv,
			status, submitted_by, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Name,
		entry.Slug,
		entry.Description,
		entry.Category,
		entry.BaseURL,
		entry.Tags,
		entry.PricingCSV,
		string(entry.Status),
		entry.SubmittedBy,
		entry.Metadata,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.APIEntry, error) {
	var entry domain.APIEntry
	err := db.WithContext(ctx).Raw(
		`SELECT `+entryColumns+` FROM api_entries WHERE id = ?`,
		id,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.APIEntry, error) {
	var entry domain.APIEntry
	err := db.WithContext(ctx).Raw(
		`SELECT `+entryColumns+` FROM api_entries WHERE slug = ?`,
		slug,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.APIEntry, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Tag != "" {
		where = append(where, "? = ANY (tags)")
		args = append(args, filter.Tag)
	}
	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if filter.BeforeID > 0 {
		where = append(where, "id < ?")
		args = append(args, filter.BeforeID)
	}

	query := `SELECT ` + entryColumns + ` FROM api_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "id DESC"
	}
	query += " ORDER BY " + sortBy

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var entries []*domain.APIEntry
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status domain.Status) error {
	return db.WithContext(ctx).Exec(
		`UPDATE api_entries SET status = ?, updated_at = ? WHERE id = ?`,
		string(status),
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) UpdatePricing(ctx context.Context, db *gorm.DB, id int64, csv string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE api_entries SET pricing_csv = ?, updated_at = ? WHERE id = ?`,
		csv,
		time.Now().UTC(),
		id,
	).Error
}
