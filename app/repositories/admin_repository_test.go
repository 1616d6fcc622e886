package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/repositories"
	"github.com/telascatalogo/telas/pkg/auth"
)

func TestEnsureAdminIsIdempotent(t *testing.T) {
	repo := repositories.NewAdminRepository(setupTestDB(t))
	ctx := context.Background()

	first, err := repo.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(first.PasswordHash, "admin123"))

	second, err := repo.EnsureAdmin(ctx, "admin", "otra-clave")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, auth.CheckPassword(second.PasswordHash, "admin123"), "existing password must be kept")
}

func TestFindByUsernameMissing(t *testing.T) {
	repo := repositories.NewAdminRepository(setupTestDB(t))
	_, err := repo.FindByUsername(context.Background(), "nadie")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
