package models

import "github.com/mmynk/pocketsage/internal/date"

// Habit is a daily habit the user tracks.
type Habit struct {
	// ID is the unique identifier for the habit (UUID format).
	ID string

	// Name is the display name of the habit (e.g., "Read", "No takeout").
	Name string

	// Description is optional free text.
	Description string

	// CreatedAt is the Unix timestamp when the habit was created.
	CreatedAt int64
}

// HabitEntry records the value of a habit on one day.
// A habit has at most one entry per day; logging the same day again replaces it.
type HabitEntry struct {
	HabitID string

	// OccurredOn is the day the entry is for.
	OccurredOn date.Date

	// Value is how much was done. Any value > 0 counts as completed.
	Value int
}
