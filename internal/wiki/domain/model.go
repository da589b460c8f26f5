package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// WikiDocument is the single living document attached to an API
// entry. Its history lives in WikiRevision rows.
type WikiDocument struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	APIEntryID snowflake.ID `gorm:"column:api_entry_id;not null;uniqueIndex"`
	Body       string       `gorm:"not null;default:''"`
	UpdatedBy  snowflake.ID `gorm:"column:updated_by"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (WikiDocument) TableName() string { return "wiki_documents" }

// WikiRevision is an immutable snapshot taken at each accepted edit.
type WikiRevision struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	DocumentID snowflake.ID `gorm:"column:document_id;not null;index"`
	EditorID   snowflake.ID `gorm:"column:editor_id;not null"`
	Body       string       `gorm:"not null"`
	EditSize   int          `gorm:"column:edit_size;not null;default:0"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (WikiRevision) TableName() string { return "wiki_revisions" }
