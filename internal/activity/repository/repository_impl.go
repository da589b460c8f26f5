package repository

import (
	"context"
	"time"

	"github.com/apiwikihq/apiwiki/internal/activity/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, activity *domain.Activity) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO activities (id, user_id, action_type, points, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		activity.ID,
		activity.UserID,
		string(activity.ActionType),
		activity.Points,
		activity.CreatedAt,
	).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID int64, limit int) ([]domain.Activity, error) {
	var rows []domain.Activity
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, action_type, points, created_at
		 FROM activities WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) CountForUserSince(ctx context.Context, db *gorm.DB, userID int64, actionType domain.ActionType, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM activities
		 WHERE user_id = ? AND action_type = ? AND created_at >= ?`,
		userID,
		string(actionType),
		since,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) FindRule(ctx context.Context, db *gorm.DB, actionType string) (*domain.PointRule, error) {
	var rule domain.PointRule
	err := db.WithContext(ctx).Raw(
		`SELECT action_type, points, created_at, updated_at
		 FROM point_rules WHERE action_type = ?`,
		actionType,
	).Scan(&rule).Error
	if err != nil {
		return nil, err
	}
	if rule.ActionType == "" {
		return nil, nil
	}
	return &rule, nil
}

func (r *repo) ListRules(ctx context.Context, db *gorm.DB) ([]domain.PointRule, error) {
	var rules []domain.PointRule
	err := db.WithContext(ctx).Raw(
		`SELECT action_type, points, created_at, updated_at
		 FROM point_rules ORDER BY action_type ASC`,
	).Scan(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) UpsertRule(ctx context.Context, db *gorm.DB, rule *domain.PointRule) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO point_rules (action_type, points, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (action_type) DO UPDATE SET points = ?, updated_at = ?`,
		rule.ActionType,
		rule.Points,
		rule.CreatedAt,
		rule.UpdatedAt,
		rule.Points,
		rule.UpdatedAt,
	).Error
}

func (r *repo) DeleteRule(ctx context.Context, db *gorm.DB, actionType string) error {
	return db.WithContext(ctx).Exec(`DELETE FROM point_rules WHERE action_type = ?`, actionType).Error
}
