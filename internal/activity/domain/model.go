package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ActionType names a point-earning user action.
type ActionType string

const (
	ActionLogin       ActionType = "login"
	ActionPost        ActionType = "post"
	ActionComment     ActionType = "comment"
	ActionEdit        ActionType = "edit"
	ActionFeedback    ActionType = "feedback"
	ActionAPIApproval ActionType = "api_approval"
	ActionCSVUpload   ActionType = "csv_upload"
	ActionCSVUpdate   ActionType = "csv_update"
)

// DefaultPoints is the built-in point value per action type. Unknown
// types are worth nothing but are still recordable.
var DefaultPoints = map[ActionType]int{
	ActionLogin:       1,
	ActionPost:        3,
	ActionComment:     2,
	ActionEdit:        4,
	ActionFeedback:    2,
	ActionAPIApproval: 10,
	ActionCSVUpload:   5,
	ActionCSVUpdate:   3,
}

// RuleOverridable reports whether a point-rule row may override the
// default for this action type. Only the CSV pricing actions consult
// the rule table; everything else uses configuration or the built-in.
func (a ActionType) RuleOverridable() bool {
	return a == ActionCSVUpload || a == ActionCSVUpdate
}

// Activity is one immutable row of the append-only ledger. The users
// score trigger aggregates Points; application code never does.
type Activity struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	UserID     snowflake.ID `gorm:"not null;index"`
	ActionType ActionType   `gorm:"column:action_type;type:text;not null"`
	Points     int          `gorm:"not null;default:0"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Activity) TableName() string { return "activities" }

// PointRule is an optional store-resident override of the default
// point value for an action type.
type PointRule struct {
	ActionType string    `gorm:"primaryKey;type:text"`
	Points     int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PointRule) TableName() string { return "point_rules" }
