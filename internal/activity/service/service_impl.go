package service

import (
	"context"
	"strings"
	"time"

	"github.com/apiwikihq/apiwiki/internal/activity/domain"
	"github.com/apiwikihq/apiwiki/internal/config"
	userdomain "github.com/apiwikihq/apiwiki/internal/user/domain"
	pkgdb "github.com/apiwikihq/apiwiki/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Users  userdomain.Repository
	Points *config.PointsConfigHolder `optional:"true"`
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	users  userdomain.Repository
	points *config.PointsConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("activity.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		users:  p.Users,
		points: p.Points,
	}
}

// ResolvePoints computes the point value for an action type. The
// point-rule table is consulted for the CSV actions only; a rule miss
// or lookup failure falls through to configuration, then to the
// built-in table. Unknown types are worth 0.
func (s *Service) ResolvePoints(ctx context.Context, actionType domain.ActionType) int {
	if actionType.RuleOverridable() {
		rule, err := s.repo.FindRule(ctx, s.db, string(actionType))
		if err != nil {
			s.log.Debug("point rule lookup", zap.String("action_type", string(actionType)), zap.Error(err))
		} else if rule != nil {
			return rule.Points
		}
	}

	if value, ok := s.points.Override(string(actionType)); ok {
		return value
	}

	return domain.DefaultPoints[actionType]
}

// Record appends one ledger row. It never fails the caller: any
// problem, from a bad user id to a store outage, yields nil.
func (s *Service) Record(ctx context.Context, userID string, actionType domain.ActionType, explicitPoints *int) *domain.Receipt {
	user := s.lookupUser(ctx, userID)
	if user == nil {
		return nil
	}

	points := 0
	if explicitPoints != nil {
		points = *explicitPoints
	} else {
		points = s.ResolvePoints(ctx, actionType)
	}

	return s.append(ctx, user.ID, actionType, points)
}

// RecordLogin awards the login action at most once per UTC day.
func (s *Service) RecordLogin(ctx context.Context, userID string) *domain.Receipt {
	user := s.lookupUser(ctx, userID)
	if user == nil {
		return nil
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	count, err := s.repo.CountForUserSince(ctx, s.db, int64(user.ID), domain.ActionLogin, midnight)
	if err != nil {
		s.log.Warn("login dedupe check", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	if count > 0 {
		return nil
	}

	return s.append(ctx, user.ID, domain.ActionLogin, s.ResolvePoints(ctx, domain.ActionLogin))
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]domain.Response, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil {
		return nil, domain.ErrInvalidUser
	}
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}

	rows, err := s.repo.ListByUser(ctx, s.db, parsed.Int64(), limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Response{
			ID:         row.ID.String(),
			ActionType: row.ActionType,
			Points:     row.Points,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) ListRules(ctx context.Context) ([]domain.RuleResponse, error) {
	rules, err := s.repo.ListRules(ctx, s.db)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, domain.RuleResponse{
			ActionType: rule.ActionType,
			Points:     rule.Points,
			UpdatedAt:  rule.UpdatedAt,
		})
	}
	return out, nil
}

func (s *Service) PutRule(ctx context.Context, req domain.PutRuleRequest) (*domain.RuleResponse, error) {
	actionType := domain.ActionType(strings.TrimSpace(req.ActionType))
	if !actionType.RuleOverridable() {
		return nil, domain.ErrInvalidActionType
	}

	now := time.Now().UTC()
	rule := &domain.PointRule{
		ActionType: string(actionType),
		Points:     req.Points,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.UpsertRule(ctx, s.db, rule); err != nil {
		return nil, err
	}

	return &domain.RuleResponse{
		ActionType: rule.ActionType,
		Points:     rule.Points,
		UpdatedAt:  rule.UpdatedAt,
	}, nil
}

func (s *Service) DeleteRule(ctx context.Context, actionType string) error {
	actionType = strings.TrimSpace(actionType)
	if !domain.ActionType(actionType).RuleOverridable() {
		return domain.ErrInvalidActionType
	}
	return s.repo.DeleteRule(ctx, s.db, actionType)
}

func (s *Service) lookupUser(ctx context.Context, userID string) *userdomain.User {
	parsed, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil {
		s.log.Debug("activity for unparseable user id", zap.String("user_id", userID))
		return nil
	}

	user, err := s.users.FindByID(ctx, s.db, parsed.Int64())
	if err != nil {
		s.log.Warn("activity user lookup", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	if user == nil {
		s.log.Debug("activity for unknown user", zap.String("user_id", userID))
		return nil
	}
	return user
}

func (s *Service) append(ctx context.Context, userID snowflake.ID, actionType domain.ActionType, points int) *domain.Receipt {
	activity := &domain.Activity{
		ID:         s.genID.Generate(),
		UserID:     userID,
		ActionType: actionType,
		Points:     points,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.repo.Insert(ctx, s.db, activity)
	if err != nil && pkgdb.IsInvalidEnumErr(err) && actionType.RuleOverridable() {
		// Schemas predating the CSV action types reject the enum
		// literal. Fall back to the generic edit type but keep the
		// points already resolved for the original action.
		activity.ID = s.genID.Generate()
		activity.ActionType = domain.ActionEdit
		err = s.repo.Insert(ctx, s.db, activity)
		if err == nil {
			s.log.Info("activity recorded with legacy action type",
				zap.String("requested", string(actionType)),
				zap.Int("points", points),
			)
		}
	}
	if err != nil {
		s.log.Warn("activity append",
			zap.String("action_type", string(actionType)),
			zap.Error(err),
		)
		return nil
	}

	return &domain.Receipt{
		ActivityID:    activity.ID.String(),
		PointsAwarded: activity.Points,
	}
}
