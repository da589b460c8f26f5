package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, activity *Activity) error
	ListByUser(ctx context.Context, db *gorm.DB, userID int64, limit int) ([]Activity, error)
	CountForUserSince(ctx context.Context, db *gorm.DB, userID int64, actionType ActionType, since time.Time) (int64, error)

	FindRule(ctx context.Context, db *gorm.DB, actionType string) (*PointRule, error)
	ListRules(ctx context.Context, db *gorm.DB) ([]PointRule, error)
	UpsertRule(ctx context.Context, db *gorm.DB, rule *PointRule) error
	DeleteRule(ctx context.Context, db *gorm.DB, actionType string) error
}
