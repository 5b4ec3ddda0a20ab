package database

import (
	"database/sql"
)

// InsertAlliance inserts a new alliance record. Metadata is first-write-wins:
// if the id already exists the insert is a no-op and false is returned.
func (db *DB) InsertAlliance(id int64, ticker, startDate *string) (bool, error) {
	result, err := db.conn.Exec(
		`INSERT OR IGNORE INTO alliances (id, ticker, start_date) VALUES (?, ?, ?)`,
		id, ticker, startDate,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// KnownIDs returns the set of persisted alliance IDs.
func (db *DB) KnownIDs() (map[int64]struct{}, error) {
	rows, err := db.conn.Query("SELECT id FROM alliances")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// UnflaggedAlliances returns alliances not yet confirmed to have a custom logo.
// Both never-classified records and records the probe previously saw with the
// placeholder logo land here, since a false classification is never written.
func (db *DB) UnflaggedAlliances() ([]Alliance, error) {
	rows, err := db.conn.Query(
		`SELECT id, ticker, start_date, size, has_custom_logo, logo_since, last_checked
		FROM alliances
		WHERE has_custom_logo IS NULL OR has_custom_logo = 0
		ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlliances(rows)
}

// MarkLogoDetected records the first-seen logo transition for an alliance.
// The logo_since guard makes the transition at-most-once: once set, later
// calls are no-ops regardless of probe results.
func (db *DB) MarkLogoDetected(id, size int64, since string) error {
	_, err := db.conn.Exec(
		`UPDATE alliances SET size = ?, has_custom_logo = 1, logo_since = ?
		WHERE id = ? AND logo_since IS NULL`,
		size, since, id,
	)
	return err
}

// EligibleAlliances returns all report-eligible alliances: confirmed logo with
// both the detection date and the founding date present. Ordered by logo_since
// descending, start_date ascending, ticker ascending for deterministic output.
func (db *DB) EligibleAlliances() ([]Alliance, error) {
	rows, err := db.conn.Query(
		`SELECT id, ticker, start_date, size, has_custom_logo, logo_since, last_checked
		FROM alliances
		WHERE has_custom_logo = 1 AND logo_since IS NOT NULL AND start_date IS NOT NULL
		ORDER BY logo_since DESC, start_date ASC, ticker ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlliances(rows)
}

// GetAlliance returns a single alliance by ID, or nil if absent.
func (db *DB) GetAlliance(id int64) (*Alliance, error) {
	row := db.conn.QueryRow(
		`SELECT id, ticker, start_date, size, has_custom_logo, logo_since, last_checked
		FROM alliances WHERE id = ?`, id,
	)
	a, err := scanAlliance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetStats returns aggregate statistics about the store.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	err := db.conn.QueryRow(
		`SELECT COUNT(*),
			COUNT(CASE WHEN has_custom_logo = 1 THEN 1 END),
			COUNT(CASE WHEN has_custom_logo IS NULL THEN 1 END),
			MAX(logo_since)
		FROM alliances`,
	).Scan(&s.TotalAlliances, &s.WithLogo, &s.Unclassified, &s.NewestLogo)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanAlliances(rows *sql.Rows) ([]Alliance, error) {
	var alliances []Alliance
	for rows.Next() {
		var a Alliance
		var hasLogo sql.NullInt64
		if err := rows.Scan(&a.ID, &a.Ticker, &a.StartDate, &a.Size,
			&hasLogo, &a.LogoSince, &a.LastChecked); err != nil {
			return nil, err
		}
		if hasLogo.Valid {
			v := hasLogo.Int64 != 0
			a.HasCustomLogo = &v
		}
		alliances = append(alliances, a)
	}
	return alliances, rows.Err()
}

func scanAlliance(row *sql.Row) (*Alliance, error) {
	var a Alliance
	var hasLogo sql.NullInt64
	if err := row.Scan(&a.ID, &a.Ticker, &a.StartDate, &a.Size,
		&hasLogo, &a.LogoSince, &a.LastChecked); err != nil {
		return nil, err
	}
	if hasLogo.Valid {
		v := hasLogo.Int64 != 0
		a.HasCustomLogo = &v
	}
	return &a, nil
}
