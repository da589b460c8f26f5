package seed

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	userdomain "github.com/apiwikihq/apiwiki/internal/user/domain"
	"github.com/apiwikihq/apiwiki/internal/user/password"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@apiwiki.local"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Wiki Admin"
)

// EnsureAdminUser seeds the bootstrap admin account if no admin
// exists. Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD, with
// local-only defaults.
func EnsureAdminUser(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	if email == "" {
		email = defaultAdminEmail
	}
	pass := os.Getenv("ADMIN_PASSWORD")
	if pass == "" {
		pass = defaultAdminPassword
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Raw(`SELECT COUNT(1) FROM users WHERE is_admin`).Scan(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(pass)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		admin := &userdomain.User{
			ID:           node.Generate(),
			Email:        strings.ToLower(email),
			DisplayName:  defaultAdminDisplay,
			PasswordHash: hashed,
			IsAdmin:      true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Exec(
			`INSERT INTO users (id, email, display_name, password_hash, is_admin, score, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
			admin.ID,
			admin.Email,
			admin.DisplayName,
			admin.PasswordHash,
			admin.IsAdmin,
			admin.CreatedAt,
			admin.UpdatedAt,
		).Error
	})
}
