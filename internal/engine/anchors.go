package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seansalv/FFXIV-Market-Analyzer/internal/stats"
)

const dateLayout = "2006-01-02"

// ComputeAnchor derives the rolling price anchor for one item/world as of
// date, from the trailing AnchorWindowDays of history strictly before that
// date. Exactly day minus 30 is inside the window; the date's own row and
// anything later never contribute, so an anchor for day D cannot be
// influenced by day D's sales.
//
// Each eligible day contributes one representative price, preferring the
// robust average over the raw one and skipping days where both are absent.
// Returns nil when the window holds no eligible day.
func ComputeAnchor(history []DailyStat, date string, tun Tuning) *Anchor {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil
	}
	cutoff := d.AddDate(0, 0, -tun.AnchorWindowDays).Format(dateLayout)

	var series []float64
	for _, row := range history {
		if row.Date >= date || row.Date < cutoff {
			continue
		}
		switch {
		case row.RobustAvgPrice > 0:
			series = append(series, float64(row.RobustAvgPrice))
		case row.AvgPrice > 0:
			series = append(series, float64(row.AvgPrice))
		}
	}
	if len(series) == 0 {
		return nil
	}
	return &Anchor{
		TypicalPrice: stats.Median(series),
		PriceP90:     stats.Percentile(series, 0.9),
	}
}

// ItemWorldKey identifies one independent aggregation stream.
type ItemWorldKey struct {
	ItemID  int32
	WorldID int32
}

// AnchorStore is the slice of the persistence layer the anchor backfill
// needs: enumerate keys, read a key's history, write anchors back.
type AnchorStore interface {
	ItemWorldKeys() ([]ItemWorldKey, error)
	DailyStats(itemID, worldID int32) ([]DailyStat, error)
	UpdateAnchor(itemID, worldID int32, date string, anchor *Anchor) error
}

// BackfillAnchors recomputes the rolling anchor for every stored row of
// every (item, world) key. Keys are independent, so they are processed in
// parallel; within a key each row's anchor uses only strictly earlier
// rows. Returns the number of rows that received a non-nil anchor.
func BackfillAnchors(ctx context.Context, store AnchorStore, tun Tuning, workers int) (int, error) {
	keys, err := store.ItemWorldKeys()
	if err != nil {
		return 0, err
	}
	if workers <= 0 {
		workers = 4
	}

	counts := make([]int, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := store.DailyStats(key.ItemID, key.WorldID)
			if err != nil {
				return err
			}
			for _, row := range rows {
				anchor := ComputeAnchor(rows, row.Date, tun)
				if err := store.UpdateAnchor(key.ItemID, key.WorldID, row.Date, anchor); err != nil {
					return err
				}
				if anchor != nil {
					counts[i]++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	return total, nil
}
