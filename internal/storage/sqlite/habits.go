package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/pocketsage/internal/date"
	"github.com/mmynk/pocketsage/internal/models"
)

// CreateHabit persists a new habit to the database.
func (s *SQLiteStore) CreateHabit(ctx context.Context, h *models.Habit) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt == 0 {
		h.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO habits (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		h.ID, h.Name, h.Description, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

// GetHabit retrieves a habit by ID.
func (s *SQLiteStore) GetHabit(ctx context.Context, id string) (*models.Habit, error) {
	h := &models.Habit{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at FROM habits WHERE id = ?",
		id,
	).Scan(&h.ID, &h.Name, &h.Description, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound("habit", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return h, nil
}

// ListHabits retrieves all habits ordered by name.
func (s *SQLiteStore) ListHabits(ctx context.Context) ([]*models.Habit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, created_at FROM habits ORDER BY name, created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		h := &models.Habit{}
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}
	return habits, nil
}

// DeleteHabit removes a habit; its entries go with it through the foreign key.
func (s *SQLiteStore) DeleteHabit(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireAffected(res, "habit", id)
}

// LogHabitEntry inserts the entry or replaces the value already recorded for that day.
func (s *SQLiteStore) LogHabitEntry(ctx context.Context, e *models.HabitEntry) error {
	if _, err := s.GetHabit(ctx, e.HabitID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habit_entries (habit_id, occurred_on, value) VALUES (?, ?, ?)
		 ON CONFLICT (habit_id, occurred_on) DO UPDATE SET value = excluded.value`,
		e.HabitID, e.OccurredOn, e.Value,
	)
	if err != nil {
		return fmt.Errorf("failed to log habit entry: %w", err)
	}
	return nil
}

// ListHabitEntries retrieves the entries of a habit between from and to inclusive.
func (s *SQLiteStore) ListHabitEntries(ctx context.Context, habitID string, from, to date.Date) ([]*models.HabitEntry, error) {
	query := "SELECT habit_id, occurred_on, value FROM habit_entries WHERE habit_id = ?"
	args := []any{habitID}

	// ISO dates compare correctly as text
	if !from.IsZero() {
		query += " AND occurred_on >= ?"
		args = append(args, from)
	}
	if !to.IsZero() {
		query += " AND occurred_on <= ?"
		args = append(args, to)
	}
	query += " ORDER BY occurred_on"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.HabitEntry
	for rows.Next() {
		e := &models.HabitEntry{}
		if err := rows.Scan(&e.HabitID, &e.OccurredOn, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan habit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habit entries: %w", err)
	}
	return entries, nil
}
