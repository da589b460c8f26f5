package domain

import (
	"context"
	"errors"
	"time"

	"github.com/apiwikihq/apiwiki/internal/grade"
)

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
	ResolveSession(ctx context.Context, token string) (*Response, error)
	Profile(ctx context.Context, id string) (*Response, error)
}

type SignupRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the session token alongside the user view so
// the handler can set the cookie.
type AuthResponse struct {
	User      Response
	Token     string
	ExpiresAt time.Time
}

type Response struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	Score       int       `json:"score"`
	Tier        TierView  `json:"tier"`
	CreatedAt   time.Time `json:"created_at"`
}

// TierView is the derived grade block rendered on profiles and badges.
type TierView struct {
	Value        grade.Tier `json:"value"`
	Name         string     `json:"name"`
	Icon         string     `json:"icon"`
	NextTier     grade.Tier `json:"next_tier,omitempty"`
	PointsToNext int        `json:"points_to_next"`
	Progress     float64    `json:"progress"`
}

// NewTierView derives the tier block for a user.
func NewTierView(u *User) TierView {
	tier := u.Tier()
	info := grade.GetInfo(tier)
	return TierView{
		Value:        tier,
		Name:         info.Name,
		Icon:         info.Icon,
		NextTier:     info.NextTier,
		PointsToNext: grade.PointsToNext(u.Score, tier),
		Progress:     grade.Progress(u.Score, tier),
	}
}

var (
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidDisplayName = errors.New("invalid_display_name")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)
