package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	activitydomain "github.com/apiwikihq/apiwiki/internal/activity/domain"
	catalogrepository "github.com/apiwikihq/apiwiki/internal/apicatalog/repository"
	userrepository "github.com/apiwikihq/apiwiki/internal/user/repository"
	"github.com/apiwikihq/apiwiki/internal/wiki/domain"
	"github.com/apiwikihq/apiwiki/internal/wiki/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type activityStub struct {
	mu      sync.Mutex
	actions []activitydomain.ActionType
}

func (a *activityStub) ResolvePoints(ctx context.Context, actionType activitydomain.ActionType) int {
	return activitydomain.DefaultPoints[actionType]
}

func (a *activityStub) Record(ctx context.Context, userID string, actionType activitydomain.ActionType, explicitPoints *int) *activitydomain.Receipt {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, actionType)
	return &activitydomain.Receipt{ActivityID: "stub"}
}

func (a *activityStub) RecordLogin(ctx context.Context, userID string) *activitydomain.Receipt {
	return a.Record(ctx, userID, activitydomain.ActionLogin, nil)
}

func (a *activityStub) History(ctx context.Context, userID string, limit int) ([]activitydomain.Response, error) {
	return nil, nil
}

func (a *activityStub) ListRules(ctx context.Context) ([]activitydomain.RuleResponse, error) {
	return nil, nil
}

func (a *activityStub) PutRule(ctx context.Context, req activitydomain.PutRuleRequest) (*activitydomain.RuleResponse, error) {
	return nil, nil
}

func (a *activityStub) DeleteRule(ctx context.Context, actionType string) error { return nil }

func (a *activityStub) Actions() []activitydomain.ActionType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]activitydomain.ActionType, len(a.actions))
	copy(out, a.actions)
	return out
}

func setupWikiService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node, *activityStub) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	for _, stmt := range []string{
		`CREATE TABLE users (
			id BIGINT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE api_entries (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT,
			category TEXT NOT NULL DEFAULT '',
			base_url TEXT NOT NULL DEFAULT '',
			tags TEXT,
			pricing_csv TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			submitted_by BIGINT NOT NULL,
			metadata JSON,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE wiki_documents (
			id BIGINT PRIMARY KEY,
			api_entry_id BIGINT NOT NULL UNIQUE,
			body TEXT NOT NULL DEFAULT '',
			updated_by BIGINT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE wiki_revisions (
			id BIGINT PRIMARY KEY,
			document_id BIGINT NOT NULL,
			editor_id BIGINT NOT NULL,
			body TEXT NOT NULL,
			edit_size INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	stub := &activityStub{}

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repository.Provide(),
		Catalog:  catalogrepository.Provide(),
		Users:    userrepository.Provide(),
		Activity: stub,
	})
	return svc, db, node, stub
}

func seedWikiUser(t *testing.T, db *gorm.DB, node *snowflake.Node, score int, admin bool) snowflake.ID {
	t.Helper()
	id := node.Generate()
	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, email, display_name, password_hash, is_admin, score, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, fmt.Sprintf("%s@example.com", id.String()), "Editor", "x", admin, score, now, now,
	).Error)
	return id
}

func seedEntry(t *testing.T, db *gorm.DB, node *snowflake.Node, slug string, owner snowflake.ID) snowflake.ID {
	t.Helper()
	id := node.Generate()
	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		`INSERT INTO api_entries (id, name, slug, status, submitted_by, created_at, updated_at)
		 VALUES (?, ?, ?, 'approved', ?, ?, ?)`,
		id, slug, slug, owner, now, now,
	).Error)
	return id
}

func TestEditSize(t *testing.T) {
	cases := []struct {
		name     string
		old, new string
		want     int
	}{
		{"insertion", "Hello world", "Hello brave world", 6},
		{"deletion", "Hello brave world", "Hello world", 6},
		{"replacement", "The cat sat", "The dog sat", 3},
		{"append", "abc", "abcdef", 3},
		{"prepend", "abc", "xyzabc", 3},
		{"full rewrite", "aaaa", "bbbbbb", 6},
		{"new document", "", "fresh body", 10},
		{"truncate all", "gone", "", 4},
		{"multibyte", "café", "cafè", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, editSize(tc.old, tc.new))
		})
	}
}

func TestSaveEditNewDocumentFloor(t *testing.T) {
	svc, db, node, stub := setupWikiService(t)
	ctx := context.Background()

	bronze := seedWikiUser(t, db, node, 0, false)
	seedEntry(t, db, node, "docs-api", bronze)

	// A new document has length 0, so the tier floor alone governs.
	resp, err := svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     strings.Repeat("a", 40),
		EditorID: bronze.String(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Exists)

	actions := stub.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, activitydomain.ActionEdit, actions[0])
}

func TestSaveEditDeniedOverFloor(t *testing.T) {
	svc, db, node, _ := setupWikiService(t)
	ctx := context.Background()

	bronze := seedWikiUser(t, db, node, 0, false)
	seedEntry(t, db, node, "docs-api", bronze)

	_, err := svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     strings.Repeat("a", 60),
		EditorID: bronze.String(),
	})
	var denied *domain.EditDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Contains(t, denied.Reason, "Bronze")
	assert.Contains(t, denied.Reason, "50")
}

func TestSaveEditRatioOnLargeDocument(t *testing.T) {
	svc, db, node, _ := setupWikiService(t)
	ctx := context.Background()

	admin := seedWikiUser(t, db, node, 0, true)
	bronze := seedWikiUser(t, db, node, 0, false)
	seedEntry(t, db, node, "docs-api", admin)

	base := strings.Repeat("a", 1000)
	_, err := svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     base,
		EditorID: admin.String(),
	})
	require.NoError(t, err)

	// 10% of 1000 allows a 100-char change for bronze.
	_, err = svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     base + strings.Repeat("b", 100),
		EditorID: bronze.String(),
	})
	require.NoError(t, err)

	_, err = svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     base + strings.Repeat("b", 100) + strings.Repeat("c", 150),
		EditorID: bronze.String(),
	})
	var denied *domain.EditDeniedError
	require.ErrorAs(t, err, &denied)
}

func TestSaveEditRejectsNoChange(t *testing.T) {
	svc, db, node, _ := setupWikiService(t)
	ctx := context.Background()

	user := seedWikiUser(t, db, node, 0, false)
	seedEntry(t, db, node, "docs-api", user)

	_, err := svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     "same body",
		EditorID: user.String(),
	})
	require.NoError(t, err)

	_, err = svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     "same body",
		EditorID: user.String(),
	})
	assert.ErrorIs(t, err, domain.ErrNoChange)
}

func TestGetAndRevisions(t *testing.T) {
	svc, db, node, _ := setupWikiService(t)
	ctx := context.Background()

	user := seedWikiUser(t, db, node, 0, false)
	seedEntry(t, db, node, "docs-api", user)

	doc, err := svc.Get(ctx, "docs-api")
	require.NoError(t, err)
	assert.False(t, doc.Exists)
	assert.Empty(t, doc.Body)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrAPINotFound)

	_, err = svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     "first body",
		EditorID: user.String(),
	})
	require.NoError(t, err)
	_, err = svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     "first body, extended",
		EditorID: user.String(),
	})
	require.NoError(t, err)

	doc, err = svc.Get(ctx, "docs-api")
	require.NoError(t, err)
	assert.True(t, doc.Exists)
	assert.Equal(t, "first body, extended", doc.Body)
	assert.Equal(t, user.String(), doc.UpdatedBy)

	revs, err := svc.Revisions(ctx, "docs-api", 10)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, 10, revs[1].EditSize)
	assert.Equal(t, len(", extended"), revs[0].EditSize)
}

func TestSaveEditUnknownEditor(t *testing.T) {
	svc, db, node, _ := setupWikiService(t)
	ctx := context.Background()

	owner := seedWikiUser(t, db, node, 0, false)
	seedEntry(t, db, node, "docs-api", owner)

	_, err := svc.SaveEdit(ctx, domain.SaveEditRequest{
		Slug:     "docs-api",
		Body:     "body",
		EditorID: node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
