package seeders

import (
	"context"

	"github.com/telascatalogo/telas/app/repositories"
	"github.com/telascatalogo/telas/config"
	"gorm.io/gorm"
)

func init() {
	Register("admins", SeedAdmins)
}

// SeedAdmins creates the configured admin account unless it already exists.
func SeedAdmins(ctx context.Context, db *gorm.DB) error {
	_, err := repositories.NewAdminRepository(db).EnsureAdmin(ctx, config.AdminUsername(), config.AdminPassword())
	return err
}
