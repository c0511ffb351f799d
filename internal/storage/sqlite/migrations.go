package sqlite

import "database/sql"

// schema sets up the database tables. It runs on startup and is idempotent.
// Money columns are TEXT so decimals round-trip without float loss.
const schema = `
CREATE TABLE IF NOT EXISTS liabilities (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    balance TEXT NOT NULL,
    apr TEXT NOT NULL,
    minimum_payment TEXT NOT NULL,
    due_day INTEGER NOT NULL DEFAULT 1 CHECK (due_day BETWEEN 1 AND 28),
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS habits (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS habit_entries (
    habit_id TEXT NOT NULL,
    occurred_on TEXT NOT NULL,
    value INTEGER NOT NULL,
    PRIMARY KEY (habit_id, occurred_on),
    FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_habit_entries_habit_id ON habit_entries(habit_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
