package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/pkg/event"
	"github.com/telascatalogo/telas/pkg/metrics"
	"gorm.io/gorm"
)

// Catalog events fired after each successful write. The payload is the
// affected models.Fabric (for deletes only the ID is set).
const (
	EventFabricCreated = "fabric.created"
	EventFabricUpdated = "fabric.updated"
	EventFabricDeleted = "fabric.deleted"
)

// FabricRepository is the durable catalog store.
type FabricRepository struct {
	db     *gorm.DB
	now    func() time.Time
	notify func(name string, payload interface{})
}

// Option configures a FabricRepository.
type Option func(*FabricRepository)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *FabricRepository) { r.now = now }
}

// WithNotifier replaces the default event bus for write notifications.
func WithNotifier(fn func(name string, payload interface{})) Option {
	return func(r *FabricRepository) { r.notify = fn }
}

func NewFabricRepository(db *gorm.DB, opts ...Option) *FabricRepository {
	r := &FabricRepository{db: db, now: time.Now, notify: event.Fire}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *FabricRepository) timestamp() time.Time {
	return r.now().UTC()
}

// List returns every fabric, featured first, then newest first.
func (r *FabricRepository) List(ctx context.Context) ([]models.Fabric, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var fabrics []models.Fabric
	err := r.db.WithContext(ctx).
		Order("featured DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&fabrics).Error
	if err != nil {
		return nil, &models.StorageError{Op: "list", Err: err}
	}
	return fabrics, nil
}

// Get returns the fabric with id or models.ErrNotFound.
func (r *FabricRepository) Get(ctx context.Context, id uint) (models.Fabric, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	return r.get(r.db.WithContext(ctx), id)
}

func (r *FabricRepository) get(tx *gorm.DB, id uint) (models.Fabric, error) {
	var f models.Fabric
	err := tx.Where("id = ?", id).Take(&f).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.Fabric{}, models.ErrNotFound
	case err != nil:
		return models.Fabric{}, &models.StorageError{Op: "get", Err: err}
	}
	return f, nil
}

// Count returns the number of stored fabrics.
func (r *FabricRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Fabric{}).Count(&n).Error; err != nil {
		return 0, &models.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// Insert validates fields, applies defaults and stores a new fabric. The
// returned record is re-read from the store.
func (r *FabricRepository) Insert(ctx context.Context, fields models.FabricFields) (models.Fabric, error) {
	if err := fields.Validate(); err != nil {
		return models.Fabric{}, err
	}
	defer metrics.ObserveDBQuery("insert", time.Now())

	tx := r.db.WithContext(ctx)
	row, err := r.create(tx, fields)
	if err != nil {
		return models.Fabric{}, err
	}

	created, err := r.get(tx, row.ID)
	if err != nil {
		return models.Fabric{}, err
	}

	metrics.CatalogWrites.WithLabelValues("insert").Inc()
	r.notify(EventFabricCreated, created)
	return created, nil
}

func (r *FabricRepository) create(tx *gorm.DB, fields models.FabricFields) (models.Fabric, error) {
	var f models.Fabric
	fields.Apply(&f)
	ts := r.timestamp()
	f.CreatedAt, f.UpdatedAt = ts, ts

	if err := tx.Create(&f).Error; err != nil {
		return models.Fabric{}, &models.StorageError{Op: "insert", Err: err}
	}
	return f, nil
}

// Update replaces every mutable field of the fabric with id. id and
// created_at are preserved and updated_at strictly increases.
func (r *FabricRepository) Update(ctx context.Context, id uint, fields models.FabricFields) (models.Fabric, error) {
	if err := fields.Validate(); err != nil {
		return models.Fabric{}, err
	}
	defer metrics.ObserveDBQuery("update", time.Now())

	var updated models.Fabric
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.get(tx, id)
		if err != nil {
			return err
		}

		next := current
		fields.Apply(&next)
		next.UpdatedAt = r.timestamp()
		if !next.UpdatedAt.After(current.UpdatedAt) {
			next.UpdatedAt = current.UpdatedAt.Add(time.Microsecond)
		}

		res := tx.Model(&models.Fabric{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":            next.Name,
			"description":     next.Description,
			"price_per_meter": next.PricePerMeter,
			"category":        next.Category,
			"color":           next.Color,
			"material":        next.Material,
			"width":           next.Width,
			"image_url":       next.ImageURL,
			"stock":           next.Stock,
			"featured":        next.Featured,
			"updated_at":      next.UpdatedAt,
		})
		if res.Error != nil {
			return &models.StorageError{Op: "update", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}

		updated, err = r.get(tx, id)
		return err
	})
	if err != nil {
		return models.Fabric{}, err
	}

	metrics.CatalogWrites.WithLabelValues("update").Inc()
	r.notify(EventFabricUpdated, updated)
	return updated, nil
}

// Delete removes the fabric with id. Cart lines referencing it are not
// touched.
func (r *FabricRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Fabric{})
	if res.Error != nil {
		return &models.StorageError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}

	metrics.CatalogWrites.WithLabelValues("delete").Inc()
	r.notify(EventFabricDeleted, models.Fabric{ID: id})
	return nil
}

// SeedIfEmpty inserts samples when the store holds no fabrics and returns
// how many were inserted. A non-empty store is left untouched. Each inserted
// sample fires EventFabricCreated once the transaction commits.
func (r *FabricRepository) SeedIfEmpty(ctx context.Context, samples []models.FabricFields) (int, error) {
	for _, s := range samples {
		if err := s.Validate(); err != nil {
			return 0, err
		}
	}

	var inserted []models.Fabric
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Fabric{}).Count(&n).Error; err != nil {
			return &models.StorageError{Op: "seed", Err: err}
		}
		if n > 0 {
			return nil
		}
		for _, s := range samples {
			f, err := r.create(tx, s)
			if err != nil {
				return err
			}
			inserted = append(inserted, f)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, f := range inserted {
		metrics.CatalogWrites.WithLabelValues("seed").Inc()
		r.notify(EventFabricCreated, f)
	}
	return len(inserted), nil
}
