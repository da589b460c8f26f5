package repository

import (
	"context"

	"github.com/apiwikihq/apiwiki/internal/wiki/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByAPIEntryID(ctx context.Context, db *gorm.DB, apiEntryID int64) (*domain.WikiDocument, error) {
	var doc domain.WikiDocument
	err := db.WithContext(ctx).Raw(
		`SELECT id, api_entry_id, body, updated_by, created_at, updated_at
		 FROM wiki_documents WHERE api_entry_id = ?`,
		apiEntryID,
	).Scan(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == 0 {
		return nil, nil
	}
	return &doc, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, doc *domain.WikiDocument) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO wiki_documents (id, api_entry_id, body, updated_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID,
		doc.APIEntryID,
		doc.Body,
		doc.UpdatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Error
}

func (r *repo) UpdateBody(ctx context.Context, db *gorm.DB, doc *domain.WikiDocument) error {
	return db.WithContext(ctx).Exec(
		`UPDATE wiki_documents SET body = ?, updated_by = ?, updated_at = ? WHERE id = ?`,
		doc.Body,
		doc.UpdatedBy,
		doc.UpdatedAt,
		doc.ID,
	).Error
}

func (r *repo) InsertRevision(ctx context.Context, db *gorm.DB, rev *domain.WikiRevision) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO wiki_revisions (id, document_id, editor_id, body, edit_size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rev.ID,
		rev.DocumentID,
		rev.EditorID,
		rev.Body,
		rev.EditSize,
		rev.CreatedAt,
	).Error
}

func (r *repo) ListRevisions(ctx context.Context, db *gorm.DB, documentID int64, limit int) ([]domain.WikiRevision, error) {
	var revs []domain.WikiRevision
	err := db.WithContext(ctx).Raw(
		`SELECT id, document_id, editor_id, body, edit_size, created_at
		 FROM wiki_revisions WHERE document_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		documentID,
		limit,
	).Scan(&revs).Error
	if err != nil {
		return nil, err
	}
	return revs, nil
}
