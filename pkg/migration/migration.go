// Package migration runs versioned schema changes and tracks them in the
// telas_migrations table.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20260101000000_create_fabrics_table", &CreateFabricsTable{})
//	}
//
// Run from CLI:
//
//	telas migrate             // run all pending
//	telas migrate:rollback    // rollback last batch
//	telas migrate:status      // list every migration
package migration

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/telascatalogo/telas/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(db *gorm.DB) error
	// Down reverses the migration.
	Down(db *gorm.DB) error
}

// migrationRecord is the GORM model stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "telas_migrations" }

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var (
	registryMu sync.Mutex
	registry   []registeredMigration
)

// Register adds a migration to the global registry.
// name should be timestamp-prefixed so lexical order is chronological.
func Register(name string, m Migration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, registeredMigration{name: name, m: m})
}

func registered() []registeredMigration {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]registeredMigration, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db *gorm.DB
}

// New creates a Runner backed by the provided gorm.DB.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// Status is one row of Runner.Status.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) ranSet() (map[string]migrationRecord, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	out := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

// Pending returns the migrations that have not yet been run, oldest first.
func (r *Runner) Pending() ([]string, error) {
	ran, err := r.ranSet()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, reg := range registered() {
		if _, ok := ran[reg.name]; !ok {
			names = append(names, reg.name)
		}
	}
	return names, nil
}

// Run executes all pending migrations in a single batch and returns the
// names that ran.
func (r *Runner) Run() ([]string, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	ran, err := r.ranSet()
	if err != nil {
		return nil, fmt.Errorf("migration: fetch ran: %w", err)
	}

	batch := r.nextBatch()
	var done []string

	for _, reg := range registered() {
		if _, ok := ran[reg.name]; ok {
			continue
		}
		logger.Info("migration: running", "name", reg.name)

		if err := reg.m.Up(r.db); err != nil {
			return done, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		record := migrationRecord{Name: reg.name, Batch: batch}
		if err := r.db.Create(&record).Error; err != nil {
			return done, fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
		done = append(done, reg.name)
	}

	if len(done) == 0 {
		logger.Info("migration: nothing to migrate")
		return nil, nil
	}
	logger.Info("migration: done", "ran", len(done), "batch", batch)
	return done, nil
}

// Rollback reverses all migrations from the most recent batch and returns
// the names rolled back.
func (r *Runner) Rollback() ([]string, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	last := r.nextBatch() - 1
	if last == 0 {
		return nil, nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}

	regMap := make(map[string]Migration)
	for _, reg := range registered() {
		regMap[reg.name] = reg.m
	}

	var done []string
	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return done, fmt.Errorf("migration: cannot rollback %s: %w", rec.Name, ErrNotRegistered)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		if err := m.Down(r.db); err != nil {
			return done, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return done, err
		}
		done = append(done, rec.Name)
	}

	return done, nil
}

// Status lists every registered migration and whether it has run.
func (r *Runner) Status() ([]Status, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}
	ran, err := r.ranSet()
	if err != nil {
		return nil, err
	}

	regs := registered()
	out := make([]Status, 0, len(regs))
	for _, reg := range regs {
		rec, ok := ran[reg.name]
		out = append(out, Status{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) nextBatch() int {
	var maxBatch struct{ Max int }
	r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&maxBatch)
	return maxBatch.Max + 1
}

// ErrNotRegistered is returned when the tracking table names a migration
// this binary does not know.
var ErrNotRegistered = errors.New("migration not registered")
