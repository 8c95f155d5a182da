package db

import (
	"database/sql"
	"fmt"
	"strconv"
)

// migrations is the ordered list of schema changes for databases created
// before the current schema. Index i migrates version i to version i+1.
// Fresh databases get the full schema directly and start at the latest
// version. Append new migrations at the end, never edit existing ones.
var migrations = []string{
	// Version 0 -> 1: claims gained email and features columns.
	`ALTER TABLE claims ADD COLUMN email TEXT NOT NULL DEFAULT 'N/A';
	 ALTER TABLE claims ADD COLUMN features TEXT NOT NULL DEFAULT ''`,
}

// Migrate brings the database up to the current schema version. It runs once
// at boot, before the service accepts traffic, and records the applied
// version in the settings table.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	version, err := schemaVersion(db)
	if err != nil {
		return err
	}

	for ; version < len(migrations); version++ {
		if _, err := db.Exec(migrations[version]); err != nil {
			return fmt.Errorf("applying migration %d: %w", version+1, err)
		}
		if err := setSchemaVersion(db, version+1); err != nil {
			return err
		}
	}

	return nil
}

// schemaVersion reads the recorded schema version. A database without a
// version row is fresh (the schema exec above created everything), so it is
// stamped with the latest version.
func schemaVersion(db *sql.DB) (int, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = 'schema_version'`).Scan(&value)
	if err == sql.ErrNoRows {
		latest := len(migrations)
		if err := setSchemaVersion(db, latest); err != nil {
			return 0, err
		}
		return latest, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing schema version %q: %w", value, err)
	}
	return version, nil
}

func setSchemaVersion(db *sql.DB, version int) error {
	_, err := db.Exec(
		`INSERT INTO settings (key, value) VALUES ('schema_version', ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		strconv.Itoa(version),
	)
	if err != nil {
		return fmt.Errorf("recording schema version %d: %w", version, err)
	}
	return nil
}
