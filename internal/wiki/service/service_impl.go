package service

import (
	"context"
	"strings"
	"time"

	activitydomain "github.com/apiwikihq/apiwiki/internal/activity/domain"
	catalogdomain "github.com/apiwikihq/apiwiki/internal/apicatalog/domain"
	"github.com/apiwikihq/apiwiki/internal/grade"
	userdomain "github.com/apiwikihq/apiwiki/internal/user/domain"
	"github.com/apiwikihq/apiwiki/internal/wiki/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultRevisionLimit = 50

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Catalog  catalogdomain.Repository
	Users    userdomain.Repository
	Activity activitydomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	catalog  catalogdomain.Repository
	users    userdomain.Repository
	activity activitydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("wiki.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		catalog:  p.Catalog,
		users:    p.Users,
		activity: p.Activity,
	}
}

func (s *Service) Get(ctx context.Context, apiSlug string) (*domain.Response, error) {
	entry, err := s.findEntry(ctx, apiSlug)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.FindByAPIEntryID(ctx, s.db, int64(entry.ID))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return &domain.Response{APISlug: entry.Slug}, nil
	}

	return &domain.Response{
		APISlug:   entry.Slug,
		Body:      doc.Body,
		Exists:    true,
		UpdatedBy: doc.UpdatedBy.String(),
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *Service) SaveEdit(ctx context.Context, req domain.SaveEditRequest) (*domain.Response, error) {
	entry, err := s.findEntry(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	editorID, err := snowflake.ParseString(strings.TrimSpace(req.EditorID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	editor, err := s.users.FindByID(ctx, s.db, editorID.Int64())
	if err != nil {
		return nil, err
	}
	if editor == nil {
		return nil, domain.ErrInvalidID
	}

	doc, err := s.repo.FindByAPIEntryID(ctx, s.db, int64(entry.ID))
	if err != nil {
		return nil, err
	}

	oldBody := ""
	if doc != nil {
		oldBody = doc.Body
	}
	if req.Body == oldBody {
		return nil, domain.ErrNoChange
	}

	tier := editor.Tier()
	docLength := len([]rune(oldBody))
	size := editSize(oldBody, req.Body)

	decision := grade.CanEdit(tier, docLength, size)
	if !decision.CanEdit {
		return nil, &domain.EditDeniedError{Tier: tier, Reason: decision.Reason}
	}

	now := time.Now().UTC()
	if doc == nil {
		doc = &domain.WikiDocument{
			ID:         s.genID.Generate(),
			APIEntryID: entry.ID,
			Body:       req.Body,
			UpdatedBy:  editorID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Create(ctx, s.db, doc); err != nil {
			return nil, err
		}
	} else {
		doc.Body = req.Body
		doc.UpdatedBy = editorID
		doc.UpdatedAt = now
		if err := s.repo.UpdateBody(ctx, s.db, doc); err != nil {
			return nil, err
		}
	}

	rev := &domain.WikiRevision{
		ID:         s.genID.Generate(),
		DocumentID: doc.ID,
		EditorID:   editorID,
		Body:       req.Body,
		EditSize:   size,
		CreatedAt:  now,
	}
	if err := s.repo.InsertRevision(ctx, s.db, rev); err != nil {
		// The document already moved; the lost revision is logged,
		// not surfaced.
		s.log.Warn("revision append", zap.String("api_slug", entry.Slug), zap.Error(err))
	}

	s.activity.Record(ctx, editorID.String(), activitydomain.ActionEdit, nil)

	return &domain.Response{
		APISlug:   entry.Slug,
		Body:      doc.Body,
		Exists:    true,
		UpdatedBy: editorID.String(),
		UpdatedAt: now,
	}, nil
}

func (s *Service) Revisions(ctx context.Context, apiSlug string, limit int) ([]domain.RevisionResponse, error) {
	entry, err := s.findEntry(ctx, apiSlug)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.FindByAPIEntryID(ctx, s.db, int64(entry.ID))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return []domain.RevisionResponse{}, nil
	}

	if limit <= 0 || limit > defaultRevisionLimit {
		limit = defaultRevisionLimit
	}
	revs, err := s.repo.ListRevisions(ctx, s.db, int64(doc.ID), limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RevisionResponse, 0, len(revs))
	for _, rev := range revs {
		out = append(out, domain.RevisionResponse{
			ID:        rev.ID.String(),
			EditorID:  rev.EditorID.String(),
			EditSize:  rev.EditSize,
			CreatedAt: rev.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) findEntry(ctx context.Context, apiSlug string) (*catalogdomain.APIEntry, error) {
	entry, err := s.catalog.FindBySlug(ctx, s.db, strings.TrimSpace(apiSlug))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrAPINotFound
	}
	return entry, nil
}

// editSize measures the changed region between two document bodies:
// the longest common prefix and suffix are stripped and the larger
// remainder counts. A pure insertion measures the inserted text, a
// pure deletion the removed text, a replacement the larger side.
func editSize(oldBody, newBody string) int {
	o, n := []rune(oldBody), []rune(newBody)

	prefix := 0
	for prefix < len(o) && prefix < len(n) && o[prefix] == n[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(o)-prefix && suffix < len(n)-prefix &&
		o[len(o)-1-suffix] == n[len(n)-1-suffix] {
		suffix++
	}

	oldRem := len(o) - prefix - suffix
	newRem := len(n) - prefix - suffix
	if oldRem > newRem {
		return oldRem
	}
	return newRem
}
