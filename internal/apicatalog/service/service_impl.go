package service

import (
	"context"
	"strings"
	"time"

	activitydomain "github.com/apiwikihq/apiwiki/internal/activity/domain"
	"github.com/apiwikihq/apiwiki/internal/apicatalog/domain"
	"github.com/apiwikihq/apiwiki/internal/pricing"
	pkgdb "github.com/apiwikihq/apiwiki/pkg/db"
	"github.com/apiwikihq/apiwiki/pkg/db/option"
	"github.com/apiwikihq/apiwiki/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var listSortColumns = map[string]bool{
	"name":       true,
	"created_at": true,
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Activity activitydomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	activity activitydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("apicatalog.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		activity: p.Activity,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	entrySlug := slug.Make(name)
	if name == "" || entrySlug == "" {
		return nil, domain.ErrInvalidName
	}

	submitter, err := snowflake.ParseString(strings.TrimSpace(req.SubmitterID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	tags := make([]string, 0, len(req.Tags))
	for _, tag := range req.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	now := time.Now().UTC()
	entry := &domain.APIEntry{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        entrySlug,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		BaseURL:     strings.TrimSpace(req.BaseURL),
		Tags:        tags,
		Status:      domain.StatusPending,
		SubmittedBy: submitter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, s.db, entry); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	resp := toResponse(entry)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	filter := domain.ListFilter{
		Status:   domain.StatusApproved,
		Category: strings.TrimSpace(req.Category),
		Tag:      strings.TrimSpace(req.Tag),
		Query:    strings.TrimSpace(req.Query),
		Limit:    pageSize + 1,
	}

	if req.Sort == "name" {
		filter.SortBy = option.WithQuerySortBy("name", "asc", listSortColumns)
	} else {
		// Snowflake ids are time-ordered; the cursor rides on them.
		filter.SortBy = "id DESC"
		if req.PageToken != "" {
			cursor, err := pagination.DecodeCursor(req.PageToken)
			if err != nil {
				return nil, domain.ErrInvalidCursor
			}
			parsed, err := snowflake.ParseString(cursor.ID)
			if err != nil {
				return nil, domain.ErrInvalidCursor
			}
			filter.BeforeID = parsed.Int64()
		}
	}

	entries, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	entries, pageInfo := pagination.BuildCursorPageInfo(entries, pageSize, func(e *domain.APIEntry) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: e.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if req.Sort == "name" {
		// Name ordering is single-page.
		pageInfo = &pagination.PageInfo{}
	}

	out := make([]*domain.Response, 0, len(entries))
	for _, entry := range entries {
		resp := toResponse(entry)
		out = append(out, &resp)
	}

	return &domain.ListResponse{Entries: out, PageInfo: pageInfo}, nil
}

func (s *Service) GetBySlug(ctx context.Context, entrySlug string) (*domain.Detail, error) {
	entry, err := s.repo.FindBySlug(ctx, s.db, strings.TrimSpace(entrySlug))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	detail := toDetail(entry)
	return &detail, nil
}

func (s *Service) ListPending(ctx context.Context) ([]domain.Response, error) {
	entries, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Status: domain.StatusPending,
		SortBy: "id ASC",
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toResponse(entry))
	}
	return out, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*domain.Response, error) {
	entry, err := s.transition(ctx, id, domain.StatusApproved)
	if err != nil {
		return nil, err
	}

	// Best effort, like every award.
	s.activity.Record(ctx, entry.SubmittedBy.String(), activitydomain.ActionAPIApproval, nil)

	resp := toResponse(entry)
	return &resp, nil
}

func (s *Service) Reject(ctx context.Context, id string) (*domain.Response, error) {
	entry, err := s.transition(ctx, id, domain.StatusRejected)
	if err != nil {
		return nil, err
	}
	resp := toResponse(entry)
	return &resp, nil
}

func (s *Service) SavePricingCSV(ctx context.Context, req domain.SavePricingRequest) (*domain.Detail, error) {
	entry, err := s.repo.FindBySlug(ctx, s.db, strings.TrimSpace(req.Slug))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}

	if !req.ActorIsAdmin && entry.SubmittedBy.String() != strings.TrimSpace(req.ActorID) {
		return nil, domain.ErrNotOwner
	}

	action := activitydomain.ActionCSVUpload
	if entry.HasPricing() {
		action = activitydomain.ActionCSVUpdate
	}

	if err := s.repo.UpdatePricing(ctx, s.db, int64(entry.ID), req.CSV); err != nil {
		return nil, err
	}
	entry.PricingCSV = &req.CSV

	s.activity.Record(ctx, req.ActorID, action, nil)

	detail := toDetail(entry)
	return &detail, nil
}

func (s *Service) transition(ctx context.Context, id string, status domain.Status) (*domain.APIEntry, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	entry, err := s.repo.FindByID(ctx, s.db, parsed.Int64())
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if entry.Status != domain.StatusPending {
		return nil, domain.ErrNotPending
	}

	if err := s.repo.UpdateStatus(ctx, s.db, parsed.Int64(), status); err != nil {
		return nil, err
	}
	entry.Status = status
	return entry, nil
}

func toResponse(e *domain.APIEntry) domain.Response {
	return domain.Response{
		ID:          e.ID.String(),
		Name:        e.Name,
		Slug:        e.Slug,
		Description: e.Description,
		Category:    e.Category,
		BaseURL:     e.BaseURL,
		Tags:        []string(e.Tags),
		Status:      e.Status,
		SubmittedBy: e.SubmittedBy.String(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toDetail(e *domain.APIEntry) domain.Detail {
	detail := domain.Detail{Response: toResponse(e)}
	if e.PricingCSV != nil {
		if table, ok := pricing.ParseTable(*e.PricingCSV); ok {
			detail.Pricing = table
			detail.HasPricing = true
		}
	}
	return detail
}
