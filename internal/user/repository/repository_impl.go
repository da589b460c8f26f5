package repository

import (
	"context"
	"time"

	"github.com/apiwikihq/apiwiki/internal/user/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO users (
			id, email, display_name, password_hash, is_admin, score, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.IsAdmin,
		user.Score,
		user.CreatedAt,
		user.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, display_name, password_hash, is_admin, score, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, nil
	}
	return &u, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, display_name, password_hash, is_admin, score, created_at, updated_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, nil
	}
	return &u, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, user *domain.User) error {
	if user == nil {
		return gorm.ErrInvalidData
	}
	// Score is intentionally absent: only the trigger moves it.
	return db.WithContext(ctx).Exec(
		`UPDATE users SET display_name = ?, password_hash = ?, is_admin = ?, updated_at = ?
		 WHERE id = ?`,
		user.DisplayName,
		user.PasswordHash,
		user.IsAdmin,
		user.UpdatedAt,
		user.ID,
	).Error
}

func (r *repo) CreateSession(ctx context.Context, db *gorm.DB, session *domain.Session) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		session.Token,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
	).Error
}

func (r *repo) FindSession(ctx context.Context, db *gorm.DB, token string) (*domain.Session, error) {
	var s domain.Session
	err := db.WithContext(ctx).Raw(
		`SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`,
		token,
	).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

func (r *repo) DeleteSession(ctx context.Context, db *gorm.DB, token string) error {
	return db.WithContext(ctx).Exec(`DELETE FROM sessions WHERE token = ?`, token).Error
}

func (r *repo) DeleteExpiredSessions(ctx context.Context, db *gorm.DB, before time.Time) error {
	return db.WithContext(ctx).Exec(`DELETE FROM sessions WHERE expires_at < ?`, before).Error
}
