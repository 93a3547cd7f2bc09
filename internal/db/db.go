// Package db persists daily market aggregates, item metadata and the
// world/data-center map in SQLite.
package db

import (
	"database/sql"
	"fmt"

	"github.com/seansalv/FFXIV-Market-Analyzer/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS daily_stats (
				item_id            INTEGER NOT NULL,
				world_id           INTEGER NOT NULL,
				date               TEXT NOT NULL,
				units_sold         INTEGER NOT NULL DEFAULT 0,
				total_revenue      INTEGER NOT NULL DEFAULT 0,
				avg_price          INTEGER NOT NULL DEFAULT 0,
				min_price          INTEGER,
				max_price          INTEGER,
				active_listings    INTEGER NOT NULL DEFAULT 0,
				listed_quantity    INTEGER NOT NULL DEFAULT 0,
				robust_avg_price   INTEGER,
				robust_revenue     INTEGER NOT NULL DEFAULT 0,
				robust_units_sold  INTEGER NOT NULL DEFAULT 0,
				robust_sample_size INTEGER NOT NULL DEFAULT 0,
				typical_price_30d  REAL,
				price_p90_30d      REAL,
				low_confidence     INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (item_id, world_id, date)
			);
			CREATE INDEX IF NOT EXISTS idx_daily_stats_date ON daily_stats(date);
			CREATE INDEX IF NOT EXISTS idx_daily_stats_world_date ON daily_stats(world_id, date);

			CREATE TABLE IF NOT EXISTS items (
				item_id       INTEGER PRIMARY KEY,
				name          TEXT NOT NULL,
				category      TEXT,
				craftable     INTEGER NOT NULL DEFAULT 0,
				material_cost INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS worlds (
				world_id    INTEGER PRIMARY KEY,
				name        TEXT NOT NULL,
				data_center TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_worlds_dc ON worlds(data_center);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1")
	}

	return nil
}

// SqlDB returns the underlying *sql.DB for use by other packages.
func (d *DB) SqlDB() *sql.DB {
	return d.sql
}
