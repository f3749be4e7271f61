package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database schema migration
type Migration struct {
	Version     int
	Description string
	Up          func(*sql.Tx) error
	Down        func(*sql.Tx) error
}

// migrations is the ordered list of all database migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Create schema_version table",
		Up:          migration001Up,
		Down:        migration001Down,
	},
	{
		Version:     2,
		Description: "Create runs table",
		Up:          migration002Up,
		Down:        migration002Down,
	},
	{
		Version:     3,
		Description: "Create objects and contours tables",
		Up:          migration003Up,
		Down:        migration003Down,
	},
	{
		Version:     4,
		Description: "Create clusters and cluster_members tables",
		Up:          migration004Up,
		Down:        migration004Down,
	},
}

// LatestVersion is the schema version after every migration has run.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// RunMigrations runs all pending database migrations
func (db *DB) RunMigrations() error {
	currentVersion, err := db.getCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		err := db.ExecTx(func(tx *sql.Tx) error {
			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			_, err := tx.Exec(`
				INSERT INTO schema_version (version, description, applied_at)
				VALUES (?, ?, ?)
			`, migration.Version, migration.Description, time.Now())

			return err
		})

		if err != nil {
			return err
		}
	}

	return nil
}

// RollbackTo undoes applied migrations, newest first, until the schema is
// at targetVersion. A target of 0 removes every table.
func (db *DB) RollbackTo(targetVersion int) error {
	if targetVersion < 0 || targetVersion > LatestVersion() {
		return fmt.Errorf("invalid target version %d", targetVersion)
	}

	currentVersion, err := db.getCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if migration.Version > currentVersion || migration.Version <= targetVersion {
			continue
		}

		err := db.ExecTx(func(tx *sql.Tx) error {
			// Migration 1 drops schema_version itself, so the row goes first
			if _, err := tx.Exec(`DELETE FROM schema_version WHERE version = ?`, migration.Version); err != nil {
				return err
			}
			if err := migration.Down(tx); err != nil {
				return fmt.Errorf("rollback of migration %d failed: %w", migration.Version, err)
			}
			return nil
		})

		if err != nil {
			return err
		}
	}

	return nil
}

// getCurrentVersion returns the current schema version
func (db *DB) getCurrentVersion() (int, error) {
	var tableExists bool
	err := db.conn.QueryRow(`
		SELECT COUNT(*) > 0
		FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableExists)

	if err != nil {
		return 0, err
	}

	if !tableExists {
		return 0, nil
	}

	var version int
	err = db.conn.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_version
	`).Scan(&version)

	if err != nil {
		return 0, err
	}

	return version, nil
}

// Migration 001: Schema version tracking table
func migration001Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version INTEGER NOT NULL UNIQUE,
			description TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	return err
}

func migration001Down(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS schema_version`)
	return err
}

// Migration 002: One row per pipeline run with its statistics
func migration002Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			objects INTEGER NOT NULL,
			clusters INTEGER NOT NULL,
			total_voxels INTEGER NOT NULL,
			mean_voxels REAL NOT NULL,
			stddev_voxels REAL NOT NULL,
			median_voxels REAL NOT NULL,
			outline_voxels INTEGER NOT NULL,
			closed_contours INTEGER NOT NULL,
			open_contours INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)
	`)
	return err
}

func migration002Down(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS runs`)
	return err
}

// Migration 003: Objects and their contours
func migration003Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS objects (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			object_id INTEGER NOT NULL,
			cluster_id INTEGER NOT NULL,
			corner_x INTEGER NOT NULL,
			corner_y INTEGER NOT NULL,
			corner_z INTEGER NOT NULL,
			extent_x INTEGER NOT NULL,
			extent_y INTEGER NOT NULL,
			extent_z INTEGER NOT NULL,
			voxels INTEGER NOT NULL,
			outline_voxels INTEGER NOT NULL,
			centroid_x REAL NOT NULL,
			centroid_y REAL NOT NULL,
			centroid_z REAL NOT NULL,
			variance_1 REAL NOT NULL,
			variance_2 REAL NOT NULL,
			variance_3 REAL NOT NULL,
			nearest_object INTEGER NOT NULL,
			nearest_distance REAL NOT NULL,
			PRIMARY KEY (run_id, object_id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS contours (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			object_id INTEGER NOT NULL,
			z INTEGER NOT NULL,
			points INTEGER NOT NULL,
			closed BOOLEAN NOT NULL,
			FOREIGN KEY (run_id, object_id) REFERENCES objects(run_id, object_id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_contours_object ON contours(run_id, object_id)`)
	return err
}

func migration003Down(tx *sql.Tx) error {
	if _, err := tx.Exec(`DROP TABLE IF EXISTS contours`); err != nil {
		return err
	}
	_, err := tx.Exec(`DROP TABLE IF EXISTS objects`)
	return err
}

// Migration 004: Clusters and their members
func migration004Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS clusters (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			cluster_id INTEGER NOT NULL,
			voxels INTEGER NOT NULL,
			centroid_x REAL NOT NULL,
			centroid_y REAL NOT NULL,
			centroid_z REAL NOT NULL,
			PRIMARY KEY (run_id, cluster_id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS cluster_members (
			run_id INTEGER NOT NULL,
			cluster_id INTEGER NOT NULL,
			object_id INTEGER NOT NULL,
			PRIMARY KEY (run_id, cluster_id, object_id),
			FOREIGN KEY (run_id, cluster_id) REFERENCES clusters(run_id, cluster_id) ON DELETE CASCADE
		)
	`)
	return err
}

func migration004Down(tx *sql.Tx) error {
	if _, err := tx.Exec(`DROP TABLE IF EXISTS cluster_members`); err != nil {
		return err
	}
	_, err := tx.Exec(`DROP TABLE IF EXISTS clusters`)
	return err
}
