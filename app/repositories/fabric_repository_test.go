package repositories_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/repositories"
	_ "github.com/telascatalogo/telas/database/migrations"
	"github.com/telascatalogo/telas/pkg/database"
	"github.com/telascatalogo/telas/pkg/migration"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db).Run()
	require.NoError(t, err)
	return db
}

// stepClock advances one second per call so created_at values are distinct.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recorder struct {
	names []string
}

func (r *recorder) notify(name string, _ interface{}) { r.names = append(r.names, name) }

func newRepo(t *testing.T) (*repositories.FabricRepository, *recorder, *stepClock) {
	clock := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	repo := repositories.NewFabricRepository(setupTestDB(t),
		repositories.WithClock(clock.Now),
		repositories.WithNotifier(rec.notify),
	)
	return repo, rec, clock
}

func fields(name, category string, price float64) models.FabricFields {
	return models.FabricFields{Name: name, Category: category, PricePerMeter: models.Price(price)}
}

func TestInsertAppliesDefaults(t *testing.T) {
	repo, rec, _ := newRepo(t)
	ctx := context.Background()

	f, err := repo.Insert(ctx, fields("Denim", "Mezclilla", 800))
	require.NoError(t, err)

	assert.NotZero(t, f.ID)
	assert.Equal(t, models.DefaultWidth, f.Width)
	assert.Equal(t, 0, f.Stock)
	assert.False(t, f.Featured)
	assert.Equal(t, "", f.Description)
	assert.True(t, f.CreatedAt.Equal(f.UpdatedAt))
	assert.Equal(t, []string{repositories.EventFabricCreated}, rec.names)
}

func TestInsertValidation(t *testing.T) {
	repo, rec, _ := newRepo(t)

	_, err := repo.Insert(context.Background(), models.FabricFields{Name: "Sin precio", Category: "Lino"})
	require.True(t, models.IsValidation(err))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, rec.names)
}

func TestGetNotFound(t *testing.T) {
	repo, _, _ := newRepo(t)
	_, err := repo.Get(context.Background(), 42)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestListOrdering(t *testing.T) {
	repo, _, _ := newRepo(t)
	ctx := context.Background()

	plainOld, _ := repo.Insert(ctx, fields("A", "Lino", 1))
	featuredOld := fields("B", "Seda", 2)
	featuredOld.Featured = true
	fOld, _ := repo.Insert(ctx, featuredOld)
	plainNew, _ := repo.Insert(ctx, fields("C", "Lino", 3))
	featuredNew := fields("D", "Seda", 4)
	featuredNew.Featured = true
	fNew, _ := repo.Insert(ctx, featuredNew)

	all, err := repo.List(ctx)
	require.NoError(t, err)

	var ids []uint
	for _, f := range all {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []uint{fNew.ID, fOld.ID, plainNew.ID, plainOld.ID}, ids)
}

func TestUpdateFullReplace(t *testing.T) {
	repo, rec, _ := newRepo(t)
	ctx := context.Background()

	in := fields("Seda", "Seda", 1200)
	in.Color = "Dorado"
	in.Stock = 15
	in.Featured = true
	orig, err := repo.Insert(ctx, in)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, orig.ID, fields("Seda Cruda", "Seda", 1100))
	require.NoError(t, err)

	assert.Equal(t, orig.ID, updated.ID)
	assert.True(t, orig.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(orig.UpdatedAt))
	assert.Equal(t, "Seda Cruda", updated.Name)
	assert.Equal(t, 1100.0, updated.PricePerMeter)
	// Omitted optional fields revert to defaults.
	assert.Equal(t, "", updated.Color)
	assert.Equal(t, 0, updated.Stock)
	assert.False(t, updated.Featured)
	assert.Equal(t, models.DefaultWidth, updated.Width)

	assert.Equal(t, []string{repositories.EventFabricCreated, repositories.EventFabricUpdated}, rec.names)
}

func TestUpdateTimestampStrictlyIncreases(t *testing.T) {
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := repositories.NewFabricRepository(setupTestDB(t),
		repositories.WithClock(func() time.Time { return frozen }),
		repositories.WithNotifier(func(string, interface{}) {}),
	)
	ctx := context.Background()

	f, err := repo.Insert(ctx, fields("Lino", "Lino", 650))
	require.NoError(t, err)
	g, err := repo.Update(ctx, f.ID, fields("Lino", "Lino", 650))
	require.NoError(t, err)
	assert.True(t, g.UpdatedAt.After(f.UpdatedAt))
}

func TestUpdateMissingAndInvalid(t *testing.T) {
	repo, _, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, 99, fields("x", "y", 1))
	assert.True(t, errors.Is(err, models.ErrNotFound))

	f, err := repo.Insert(ctx, fields("Algodón", "Algodón", 450))
	require.NoError(t, err)

	_, err = repo.Update(ctx, f.ID, models.FabricFields{Name: "", Category: "Algodón", PricePerMeter: models.Price(1)})
	require.True(t, models.IsValidation(err))

	still, err := repo.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f, still)
}

func TestDelete(t *testing.T) {
	repo, _, _ := newRepo(t)
	ctx := context.Background()

	f, err := repo.Insert(ctx, fields("Lino", "Lino", 650))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, f.ID))
	_, err = repo.Get(ctx, f.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, f.ID), models.ErrNotFound))
}

func TestIDsAreNeverReused(t *testing.T) {
	repo, _, _ := newRepo(t)
	ctx := context.Background()

	a, _ := repo.Insert(ctx, fields("A", "Lino", 1))
	b, _ := repo.Insert(ctx, fields("B", "Lino", 1))
	require.NoError(t, repo.Delete(ctx, b.ID))

	c, err := repo.Insert(ctx, fields("C", "Lino", 1))
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID)
	assert.Greater(t, b.ID, a.ID)
}

func TestSeedIfEmpty(t *testing.T) {
	repo, rec, _ := newRepo(t)
	ctx := context.Background()
	samples := []models.FabricFields{fields("A", "Lino", 1), fields("B", "Seda", 2), fields("C", "Algodón", 3)}

	n, err := repo.SeedIfEmpty(ctx, samples)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{
		repositories.EventFabricCreated,
		repositories.EventFabricCreated,
		repositories.EventFabricCreated,
	}, rec.names)

	n, err = repo.SeedIfEmpty(ctx, samples)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	repo, rec, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, fields("Propio", "Lino", 10))
	require.NoError(t, err)

	rec.names = nil
	n, err := repo.SeedIfEmpty(ctx, []models.FabricFields{fields("A", "Lino", 1)})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, rec.names)
}

func TestStorageErrorIsWrapped(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewFabricRepository(db)
	require.NoError(t, database.Close(db))

	_, err := repo.List(context.Background())
	var se *models.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "list", se.Op)
}
