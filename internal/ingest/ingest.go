// Package ingest turns market-data provider dumps into stored daily
// aggregates. It owns no statistics of its own: grouping and validation
// here, aggregation in the engine.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/seansalv/FFXIV-Market-Analyzer/internal/engine"
	"github.com/seansalv/FFXIV-Market-Analyzer/internal/logger"
)

// SalesDump is one provider file: every collected item for one world.
type SalesDump struct {
	WorldID    int32       `json:"world_id"`
	WorldName  string      `json:"world_name"`
	DataCenter string      `json:"data_center"`
	Items      []ItemSales `json:"items"`
}

// ItemSales is the collected data for one item on the dump's world.
type ItemSales struct {
	ItemID   int32     `json:"item_id"`
	Listings *Listings `json:"listings,omitempty"`
	Sales    []Sale    `json:"sales"`
}

// Listings is the active-listing snapshot at collection time.
type Listings struct {
	Count         int   `json:"count"`
	TotalQuantity int64 `json:"total_quantity"`
}

// Sale is one reported sale in provider wire shape.
type Sale struct {
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	Timestamp   int64  `json:"timestamp"` // unix seconds
	HQ          bool   `json:"hq"`
	OnMannequin bool   `json:"on_mannequin"`
	BuyerName   string `json:"buyer_name,omitempty"`
}

// LoadDump reads and parses a provider dump file.
func LoadDump(path string) (*SalesDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	var dump SalesDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("parse dump %s: %w", path, err)
	}
	if dump.WorldID == 0 {
		return nil, fmt.Errorf("dump %s has no world_id", path)
	}
	return &dump, nil
}

// LoadItems reads an item-metadata file (array of items in the game-data
// collaborator's shape).
func LoadItems(path string) ([]engine.ItemInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var raw []struct {
		ItemID       int32  `json:"item_id"`
		Name         string `json:"name"`
		Category     string `json:"category,omitempty"`
		Craftable    bool   `json:"craftable"`
		MaterialCost int64  `json:"material_cost,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse items %s: %w", path, err)
	}
	items := make([]engine.ItemInfo, 0, len(raw))
	for _, r := range raw {
		if r.ItemID == 0 {
			continue
		}
		cost := r.MaterialCost
		if cost < 0 {
			// Malformed cost means "no recipe data", not an error.
			cost = 0
		}
		items = append(items, engine.ItemInfo{
			ItemID: r.ItemID, Name: r.Name, Category: r.Category,
			Craftable: r.Craftable, MaterialCost: cost,
		})
	}
	return items, nil
}

// Store is the slice of the persistence layer ingestion writes through.
type Store interface {
	UpsertWorld(worldID int32, name, dataCenter string) error
	DailyStats(itemID, worldID int32) ([]engine.DailyStat, error)
	UpsertDailyStat(stat engine.DailyStat) error
}

// Run aggregates a dump into DailyStat rows and upserts them, returning
// the number of rows written. Dates are processed oldest first so each
// day's anchor can draw on rows written earlier in the same run; the
// listing snapshot attaches to the most recent date only.
func Run(store Store, dump *SalesDump, tun engine.Tuning) (int, error) {
	if err := store.UpsertWorld(dump.WorldID, dump.WorldName, dump.DataCenter); err != nil {
		return 0, err
	}

	written := 0
	for _, item := range dump.Items {
		n, err := runItem(store, dump.WorldID, item, tun)
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

func runItem(store Store, worldID int32, item ItemSales, tun engine.Tuning) (int, error) {
	byDate := make(map[string][]engine.SaleRecord)
	dropped := 0
	for _, s := range item.Sales {
		if s.UnitPrice <= 0 || s.Quantity <= 0 {
			dropped++
			continue
		}
		date := time.Unix(s.Timestamp, 0).UTC().Format("2006-01-02")
		byDate[date] = append(byDate[date], engine.SaleRecord{
			PricePerUnit: s.UnitPrice,
			Quantity:     s.Quantity,
			Timestamp:    s.Timestamp,
			HQ:           s.HQ,
			BuyerName:    s.BuyerName,
			OnMannequin:  s.OnMannequin,
		})
	}
	if dropped > 0 {
		logger.Warn("INGEST", fmt.Sprintf("item %d: dropped %d malformed sale records", item.ItemID, dropped))
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	// A listing snapshot with no sales still produces today's zero row.
	if len(dates) == 0 && item.Listings != nil {
		dates = append(dates, time.Now().UTC().Format("2006-01-02"))
	}
	if len(dates) == 0 {
		return 0, nil
	}
	latest := dates[len(dates)-1]

	history, err := store.DailyStats(item.ItemID, worldID)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, date := range dates {
		var listings *engine.ListingSnapshot
		if date == latest && item.Listings != nil {
			listings = &engine.ListingSnapshot{
				Count:         item.Listings.Count,
				TotalQuantity: item.Listings.TotalQuantity,
			}
		}

		anchor := engine.ComputeAnchor(history, date, tun)
		stat := engine.AggregateDay(item.ItemID, worldID, date, byDate[date], listings, anchor, tun)
		if err := store.UpsertDailyStat(stat); err != nil {
			return written, err
		}
		history = replaceRow(history, stat)
		written++
	}
	return written, nil
}

// replaceRow swaps the row for stat.Date into history, keeping it usable
// as anchor input for later dates of the same run.
func replaceRow(history []engine.DailyStat, stat engine.DailyStat) []engine.DailyStat {
	for i := range history {
		if history[i].Date == stat.Date {
			history[i] = stat
			return history
		}
	}
	return append(history, stat)
}
