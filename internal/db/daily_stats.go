package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/seansalv/FFXIV-Market-Analyzer/internal/engine"
)

// UpsertDailyStat writes one aggregated row, replacing any existing row
// for the same (item, world, date). Re-running an ingest pass with the
// same inputs therefore leaves the table unchanged.
func (d *DB) UpsertDailyStat(stat engine.DailyStat) error {
	_, err := d.sql.Exec(`
		INSERT INTO daily_stats (
			item_id, world_id, date,
			units_sold, total_revenue, avg_price, min_price, max_price,
			active_listings, listed_quantity,
			robust_avg_price, robust_revenue, robust_units_sold, robust_sample_size,
			typical_price_30d, price_p90_30d, low_confidence
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(item_id, world_id, date) DO UPDATE SET
			units_sold         = excluded.units_sold,
			total_revenue      = excluded.total_revenue,
			avg_price          = excluded.avg_price,
			min_price          = excluded.min_price,
			max_price          = excluded.max_price,
			active_listings    = excluded.active_listings,
			listed_quantity    = excluded.listed_quantity,
			robust_avg_price   = excluded.robust_avg_price,
			robust_revenue     = excluded.robust_revenue,
			robust_units_sold  = excluded.robust_units_sold,
			robust_sample_size = excluded.robust_sample_size,
			typical_price_30d  = excluded.typical_price_30d,
			price_p90_30d      = excluded.price_p90_30d,
			low_confidence     = excluded.low_confidence`,
		stat.ItemID, stat.WorldID, stat.Date,
		stat.UnitsSold, stat.TotalRevenue, stat.AvgPrice,
		nullInt(stat.MinPrice), nullInt(stat.MaxPrice),
		stat.ActiveListings, stat.ListedQuantity,
		nullInt(stat.RobustAvgPrice), stat.RobustRevenue, stat.RobustUnitsSold, stat.RobustSampleSize,
		nullFloat(stat.TypicalPrice30d), nullFloat(stat.PriceP9030d),
		boolToInt(stat.LowConfidence),
	)
	if err != nil {
		return fmt.Errorf("upsert daily stat %d/%d/%s: %w", stat.ItemID, stat.WorldID, stat.Date, err)
	}
	return nil
}

const dailyStatColumns = `
	item_id, world_id, date,
	units_sold, total_revenue, avg_price, min_price, max_price,
	active_listings, listed_quantity,
	robust_avg_price, robust_revenue, robust_units_sold, robust_sample_size,
	typical_price_30d, price_p90_30d, low_confidence`

// DailyStats returns every stored row for one item/world, ordered by date.
func (d *DB) DailyStats(itemID, worldID int32) ([]engine.DailyStat, error) {
	rows, err := d.sql.Query(
		"SELECT"+dailyStatColumns+" FROM daily_stats WHERE item_id=? AND world_id=? ORDER BY date",
		itemID, worldID,
	)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()
	return scanDailyStats(rows)
}

// DailyStatsInWindow returns rows for every item across the given worlds
// within [from, to], grouped by item. This is the ranking engine's read
// path: one query per scope, not one per item.
func (d *DB) DailyStatsInWindow(worldIDs []int32, from, to string) (map[int32][]engine.DailyStat, error) {
	if len(worldIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(worldIDs)), ",")
	args := make([]interface{}, 0, len(worldIDs)+2)
	for _, w := range worldIDs {
		args = append(args, w)
	}
	args = append(args, from, to)

	rows, err := d.sql.Query(
		"SELECT"+dailyStatColumns+" FROM daily_stats WHERE world_id IN ("+placeholders+") AND date >= ? AND date <= ? ORDER BY item_id, date",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query window: %w", err)
	}
	defer rows.Close()

	stats, err := scanDailyStats(rows)
	if err != nil {
		return nil, err
	}
	byItem := make(map[int32][]engine.DailyStat)
	for _, s := range stats {
		byItem[s.ItemID] = append(byItem[s.ItemID], s)
	}
	return byItem, nil
}

// ItemWorldKeys enumerates every distinct (item, world) stream present in
// the stats table.
func (d *DB) ItemWorldKeys() ([]engine.ItemWorldKey, error) {
	rows, err := d.sql.Query("SELECT DISTINCT item_id, world_id FROM daily_stats")
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []engine.ItemWorldKey
	for rows.Next() {
		var k engine.ItemWorldKey
		if err := rows.Scan(&k.ItemID, &k.WorldID); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// UpdateAnchor writes (or clears, when anchor is nil) the rolling anchor
// columns of an existing row without touching its stat figures.
func (d *DB) UpdateAnchor(itemID, worldID int32, date string, anchor *engine.Anchor) error {
	var typical, p90 interface{}
	if anchor != nil {
		typical, p90 = anchor.TypicalPrice, anchor.PriceP90
	}
	_, err := d.sql.Exec(
		"UPDATE daily_stats SET typical_price_30d=?, price_p90_30d=? WHERE item_id=? AND world_id=? AND date=?",
		typical, p90, itemID, worldID, date,
	)
	if err != nil {
		return fmt.Errorf("update anchor %d/%d/%s: %w", itemID, worldID, date, err)
	}
	return nil
}

// PruneDailyStats deletes rows older than retentionDays and returns the
// number removed.
func (d *DB) PruneDailyStats(retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format("2006-01-02")
	res, err := d.sql.Exec("DELETE FROM daily_stats WHERE date < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune daily stats: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanDailyStats(rows *sql.Rows) ([]engine.DailyStat, error) {
	var stats []engine.DailyStat
	for rows.Next() {
		var s engine.DailyStat
		var minP, maxP, robustAvg sql.NullInt64
		var typical, p90 sql.NullFloat64
		var lowConf int
		if err := rows.Scan(
			&s.ItemID, &s.WorldID, &s.Date,
			&s.UnitsSold, &s.TotalRevenue, &s.AvgPrice, &minP, &maxP,
			&s.ActiveListings, &s.ListedQuantity,
			&robustAvg, &s.RobustRevenue, &s.RobustUnitsSold, &s.RobustSampleSize,
			&typical, &p90, &lowConf,
		); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		s.MinPrice = minP.Int64
		s.MaxPrice = maxP.Int64
		s.RobustAvgPrice = robustAvg.Int64
		s.TypicalPrice30d = typical.Float64
		s.PriceP9030d = p90.Float64
		s.LowConfidence = lowConf != 0
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// nullInt maps the 0-means-absent convention onto SQL NULL.
func nullInt(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

func nullFloat(v float64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
