package engine

import (
	"math"

	"github.com/seansalv/FFXIV-Market-Analyzer/internal/stats"
)

// AggregateDay folds one day's sales for a single item/world into a
// DailyStat row carrying both raw and outlier-filtered figures.
//
// The function is pure: the same sales, listings and anchor always produce
// the same row, so re-running an ingest pass is safe under the store's
// upsert semantics. A day with zero sales yields all-zero raw figures and
// absent robust figures, not an error.
func AggregateDay(itemID, worldID int32, date string, sales []SaleRecord, listings *ListingSnapshot, anchor *Anchor, tun Tuning) DailyStat {
	stat := DailyStat{
		ItemID:  itemID,
		WorldID: worldID,
		Date:    date,
	}
	if listings != nil {
		stat.ActiveListings = listings.Count
		stat.ListedQuantity = listings.TotalQuantity
	}
	if anchor != nil {
		stat.TypicalPrice30d = anchor.TypicalPrice
		stat.PriceP9030d = anchor.PriceP90
	}

	// Raw figures: every reported sale counts, no filtering.
	for _, s := range sales {
		stat.UnitsSold += s.Quantity
		stat.TotalRevenue += s.PricePerUnit * s.Quantity
		if s.Quantity <= 0 {
			continue
		}
		if stat.MinPrice == 0 || s.PricePerUnit < stat.MinPrice {
			stat.MinPrice = s.PricePerUnit
		}
		if s.PricePerUnit > stat.MaxPrice {
			stat.MaxPrice = s.PricePerUnit
		}
	}
	if stat.UnitsSold > 0 {
		stat.AvgPrice = int64(math.Round(float64(stat.TotalRevenue) / float64(stat.UnitsSold)))
	}

	// Robust figures: filtered, clamped survivors. The average is the
	// median of clamped per-unit prices, not the mean, so residual skew
	// from a few legitimate-but-odd sales cannot pull it.
	fr := FilterSales(sales, anchor, tun)
	stat.RobustSampleSize = fr.SampleSize
	stat.LowConfidence = fr.LowConfidence

	if fr.SampleSize > 0 {
		effPrices := make([]float64, 0, fr.SampleSize)
		var units, revenue int64
		for _, k := range fr.Kept {
			units += k.Sale.Quantity
			revenue += k.EffectivePrice * k.Sale.Quantity
			effPrices = append(effPrices, float64(k.EffectivePrice))
		}
		stat.RobustAvgPrice = int64(math.Round(stats.Median(effPrices)))
		if !fr.LowConfidence {
			stat.RobustUnitsSold = units
			stat.RobustRevenue = revenue
		}
	}

	return stat
}
