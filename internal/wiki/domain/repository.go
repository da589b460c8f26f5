package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByAPIEntryID(ctx context.Context, db *gorm.DB, apiEntryID int64) (*WikiDocument, error)
	Create(ctx context.Context, db *gorm.DB, doc *WikiDocument) error
	UpdateBody(ctx context.Context, db *gorm.DB, doc *WikiDocument) error
	InsertRevision(ctx context.Context, db *gorm.DB, rev *WikiRevision) error
	ListRevisions(ctx context.Context, db *gorm.DB, documentID int64, limit int) ([]WikiRevision, error)
}
