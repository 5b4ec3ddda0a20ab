package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS alliances (
    id INTEGER PRIMARY KEY,
    ticker TEXT,
    start_date TEXT,
    size INTEGER,
    has_custom_logo INTEGER,
    logo_since TEXT,
    last_checked TEXT
);

CREATE INDEX IF NOT EXISTS idx_alliances_logo ON alliances(has_custom_logo);
CREATE INDEX IF NOT EXISTS idx_alliances_logo_since ON alliances(logo_since);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
