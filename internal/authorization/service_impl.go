package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	userdomain "github.com/apiwikihq/apiwiki/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectAPIEntry  = "api_entry"
	ObjectPointRule = "point_rule"
	ObjectPost      = "post"
	ObjectComment   = "comment"
)

const (
	ActionAPIEntryViewPending = "api_entry.view_pending"
	ActionAPIEntryApprove     = "api_entry.approve"
	ActionAPIEntryReject      = "api_entry.reject"

	ActionPointRuleView   = "point_rule.view"
	ActionPointRuleManage = "point_rule.manage"

	ActionPostModerate    = "post.moderate"
	ActionCommentModerate = "comment.moderate"
)

const (
	roleAdmin  = "role:admin"
	roleMember = "role:member"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	Users    userdomain.Repository
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	users    userdomain.Repository
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		users:    p.Users,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject, roleName, err := s.resolveActor(ctx, actor)
	if err != nil {
		return err
	}

	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) resolveActor(ctx context.Context, actor string) (string, string, error) {
	if !strings.HasPrefix(actor, "user:") {
		return "", "", ErrInvalidActor
	}
	userID, err := snowflake.ParseString(strings.TrimPrefix(actor, "user:"))
	if err != nil || userID == 0 {
		return "", "", ErrInvalidActor
	}

	user, err := s.users.FindByID(ctx, s.db, userID.Int64())
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", ErrInvalidActor
	}

	role := roleMember
	if user.IsAdmin {
		role = roleAdmin
	}
	return fmt.Sprintf("user:%s", userID.String()), role, nil
}

// ensureGrouping keeps exactly one role binding per subject so a
// revoked admin flag takes effect on the next check.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{roleAdmin, ObjectAPIEntry, ActionAPIEntryViewPending},
		{roleAdmin, ObjectAPIEntry, ActionAPIEntryApprove},
		{roleAdmin, ObjectAPIEntry, ActionAPIEntryReject},

		{roleAdmin, ObjectPointRule, ActionPointRuleView},
		{roleAdmin, ObjectPointRule, ActionPointRuleManage},

		{roleAdmin, ObjectPost, ActionPostModerate},
		{roleAdmin, ObjectComment, ActionCommentModerate},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}

var Module = fx.Module("authorization.service",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)
