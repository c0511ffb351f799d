// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/pocketsage/internal/date"
	"github.com/mmynk/pocketsage/internal/models"
)

// ErrNotFound is wrapped by every lookup that finds no record.
var ErrNotFound = errors.New("not found")

// Store defines the interface for liability and habit storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	LiabilityStore
	HabitStore

	// Close releases any resources held by the store.
	Close() error
}

// LiabilityStore persists liabilities.
type LiabilityStore interface {
	// CreateLiability persists a new liability. ID and CreatedAt are filled in when empty.
	CreateLiability(ctx context.Context, l *models.Liability) error

	// GetLiability retrieves a liability by its ID.
	GetLiability(ctx context.Context, id string) (*models.Liability, error)

	// ListLiabilities returns all liabilities, oldest first.
	ListLiabilities(ctx context.Context) ([]*models.Liability, error)

	// UpdateLiability replaces the mutable fields of an existing liability.
	UpdateLiability(ctx context.Context, l *models.Liability) error

	// DeleteLiability removes a liability by ID.
	DeleteLiability(ctx context.Context, id string) error
}

// HabitStore persists habits and their daily entries.
type HabitStore interface {
	// CreateHabit persists a new habit. ID and CreatedAt are filled in when empty.
	CreateHabit(ctx context.Context, h *models.Habit) error

	// GetHabit retrieves a habit by its ID.
	GetHabit(ctx context.Context, id string) (*models.Habit, error)

	// ListHabits returns all habits ordered by name.
	ListHabits(ctx context.Context) ([]*models.Habit, error)

	// DeleteHabit removes a habit and all of its entries.
	DeleteHabit(ctx context.Context, id string) error

	// LogHabitEntry records the entry for its day, replacing any previous value.
	LogHabitEntry(ctx context.Context, e *models.HabitEntry) error

	// ListHabitEntries returns entries of a habit within [from, to], oldest first.
	// A zero from or to leaves that side of the range open.
	ListHabitEntries(ctx context.Context, habitID string, from, to date.Date) ([]*models.HabitEntry, error)
}
