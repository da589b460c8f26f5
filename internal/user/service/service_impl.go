package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/apiwikihq/apiwiki/internal/user/domain"
	"github.com/apiwikihq/apiwiki/internal/user/password"
	"github.com/apiwikihq/apiwiki/internal/user/session"
	pkgdb "github.com/apiwikihq/apiwiki/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, domain.ErrInvalidEmail
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, domain.ErrInvalidDisplayName
	}

	if len(req.Password) < minPasswordLength {
		return nil, domain.ErrInvalidPassword
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, s.db, user); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return s.issueSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.repo.DeleteSession(ctx, s.db, token)
}

func (s *Service) ResolveSession(ctx context.Context, token string) (*domain.Response, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrSessionExpired
	}

	sess, err := s.repo.FindSession(ctx, s.db, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrSessionExpired
	}
	if sess.Expired(time.Now().UTC()) {
		_ = s.repo.DeleteSession(ctx, s.db, token)
		return nil, domain.ErrSessionExpired
	}

	user, err := s.repo.FindByID(ctx, s.db, int64(sess.UserID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrSessionExpired
	}

	resp := s.toResponse(user)
	return &resp, nil
}

func (s *Service) Profile(ctx context.Context, id string) (*domain.Response, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	user, err := s.repo.FindByID(ctx, s.db, parsed.Int64())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(user)
	return &resp, nil
}

func (s *Service) issueSession(ctx context.Context, user *domain.User) (*domain.AuthResponse, error) {
	now := time.Now().UTC()
	sess := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(session.DefaultTTL),
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, s.db, sess); err != nil {
		return nil, err
	}

	// Opportunistic cleanup; losing the race is harmless.
	if err := s.repo.DeleteExpiredSessions(ctx, s.db, now); err != nil {
		s.log.Debug("session cleanup", zap.Error(err))
	}

	return &domain.AuthResponse{
		User:      s.toResponse(user),
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (s *Service) toResponse(u *domain.User) domain.Response {
	return domain.Response{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsAdmin:     u.IsAdmin,
		Score:       u.Score,
		Tier:        domain.NewTierView(u),
		CreatedAt:   u.CreatedAt,
	}
}
