package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/pkg/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminRepository handles database operations for AdminUser.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUsername looks up an admin; models.ErrNotFound when absent.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (models.AdminUser, error) {
	var u models.AdminUser
	err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Take(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.AdminUser{}, models.ErrNotFound
	case err != nil:
		return models.AdminUser{}, &models.StorageError{Op: "find admin", Err: err}
	}
	return u, nil
}

// EnsureAdmin creates username with password unless the username exists.
// An existing account keeps its current password.
func (r *AdminRepository) EnsureAdmin(ctx context.Context, username, password string) (models.AdminUser, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.AdminUser{}, err
	}

	u := models.AdminUser{Username: strings.TrimSpace(username), PasswordHash: hash}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(&u).Error
	if err != nil {
		return models.AdminUser{}, &models.StorageError{Op: "ensure admin", Err: err}
	}
	return r.FindByUsername(ctx, u.Username)
}
