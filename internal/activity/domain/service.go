package domain

import (
	"context"
	"errors"
	"time"
)

// Service is the activity ledger. Recording is a best-effort side
// channel: it must never fail the primary action it accompanies, so
// Record reports failure as a nil receipt instead of an error.
type Service interface {
	ResolvePoints(ctx context.Context, actionType ActionType) int
	Record(ctx context.Context, userID string, actionType ActionType, explicitPoints *int) *Receipt
	RecordLogin(ctx context.Context, userID string) *Receipt
	History(ctx context.Context, userID string, limit int) ([]Response, error)

	ListRules(ctx context.Context) ([]RuleResponse, error)
	PutRule(ctx context.Context, req PutRuleRequest) (*RuleResponse, error)
	DeleteRule(ctx context.Context, actionType string) error
}

// Receipt confirms a persisted ledger row.
type Receipt struct {
	ActivityID    string `json:"activity_id"`
	PointsAwarded int    `json:"points_awarded"`
}

type Response struct {
	ID         string     `json:"id"`
	ActionType ActionType `json:"action_type"`
	Points     int        `json:"points"`
	CreatedAt  time.Time  `json:"created_at"`
}

type PutRuleRequest struct {
	ActionType string `json:"action_type"`
	Points     int    `json:"points"`
}

type RuleResponse struct {
	ActionType string    `json:"action_type"`
	Points     int       `json:"points"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var (
	ErrInvalidActionType = errors.New("invalid_action_type")
	ErrInvalidUser       = errors.New("invalid_user")
	ErrRuleNotFound      = errors.New("rule_not_found")
)
