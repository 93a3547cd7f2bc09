package db

import (
	"database/sql"
	"fmt"

	"github.com/seansalv/FFXIV-Market-Analyzer/internal/engine"
)

// UpsertItems bulk-writes item metadata from the game-data import.
func (d *DB) UpsertItems(items []engine.ItemInfo) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return fmt.Errorf("upsert items begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO items (item_id, name, category, craftable, material_cost)
		VALUES (?,?,?,?,?)
		ON CONFLICT(item_id) DO UPDATE SET
			name          = excluded.name,
			category      = excluded.category,
			craftable     = excluded.craftable,
			material_cost = excluded.material_cost`)
	if err != nil {
		return fmt.Errorf("upsert items prepare: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.Exec(it.ItemID, it.Name, it.Category, boolToInt(it.Craftable), it.MaterialCost); err != nil {
			return fmt.Errorf("upsert item %d: %w", it.ItemID, err)
		}
	}
	return tx.Commit()
}

// Items returns all known item metadata keyed by item id.
func (d *DB) Items() (map[int32]engine.ItemInfo, error) {
	rows, err := d.sql.Query("SELECT item_id, name, category, craftable, material_cost FROM items")
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make(map[int32]engine.ItemInfo)
	for rows.Next() {
		var it engine.ItemInfo
		var category sql.NullString
		var craftable int
		if err := rows.Scan(&it.ItemID, &it.Name, &category, &craftable, &it.MaterialCost); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Category = category.String
		it.Craftable = craftable != 0
		items[it.ItemID] = it
	}
	return items, rows.Err()
}

// UpsertWorld registers a world and its data center.
func (d *DB) UpsertWorld(worldID int32, name, dataCenter string) error {
	_, err := d.sql.Exec(`
		INSERT INTO worlds (world_id, name, data_center) VALUES (?,?,?)
		ON CONFLICT(world_id) DO UPDATE SET
			name        = excluded.name,
			data_center = excluded.data_center`,
		worldID, name, dataCenter)
	if err != nil {
		return fmt.Errorf("upsert world %d: %w", worldID, err)
	}
	return nil
}

// ResolveScope maps a world or data-center name onto the world ids it
// covers. A world name yields one id; a data-center name yields every
// world in it. The returned label is the canonical name.
func (d *DB) ResolveScope(scope string) ([]int32, string, error) {
	var worldID int32
	var name string
	err := d.sql.QueryRow("SELECT world_id, name FROM worlds WHERE name = ? COLLATE NOCASE", scope).Scan(&worldID, &name)
	if err == nil {
		return []int32{worldID}, name, nil
	}
	if err != sql.ErrNoRows {
		return nil, "", fmt.Errorf("resolve scope: %w", err)
	}

	rows, err := d.sql.Query("SELECT world_id, data_center FROM worlds WHERE data_center = ? COLLATE NOCASE", scope)
	if err != nil {
		return nil, "", fmt.Errorf("resolve scope: %w", err)
	}
	defer rows.Close()

	var ids []int32
	var label string
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id, &label); err != nil {
			return nil, "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}
	if len(ids) == 0 {
		return nil, "", fmt.Errorf("unknown world or data center %q", scope)
	}
	return ids, label, nil
}
