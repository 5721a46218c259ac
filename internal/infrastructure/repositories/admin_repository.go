package repositories

import (
	"context"
	"fmt"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

type adminRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewAdminRepository reads the admin_users allow-list.
func NewAdminRepository(database *db.Database, logger *logrus.Logger) ports.AdminRepository {
	return &adminRepository{db: database, logger: logger}
}

// IsAdmin reports whether email is present in admin_users (exact match)
func (r *adminRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM admin_users WHERE email = $1)`

	if err := r.db.DB.GetContext(ctx, &exists, query, email); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to check admin allow-list")
		}
		return false, fmt.Errorf("failed to check admin allow-list: %w", err)
	}
	return exists, nil
}
