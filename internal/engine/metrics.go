package engine

import (
	"math"
	"sort"
)

// CalcItemMetrics folds one item's DailyStat rows over a requested window
// into timeframe-level metrics.
//
// Row order is irrelevant. Velocity divides by timeframeDays, not by the
// number of rows present: a day with no row sold zero units, so the
// velocity is a true daily rate over the whole window. The average price
// is total revenue over total units, rounded. Active listings carry
// forward the most recent row with a non-zero count rather than summing
// stale snapshots.
//
// Under StatsAuto each row contributes its robust units and revenue when
// its sample was confident, and its raw figures otherwise; units and
// revenue always come from the same side of a row.
func CalcItemMetrics(rows []DailyStat, timeframeDays int, mode StatsMode, materialCost int64) ItemMetrics {
	var m ItemMetrics
	if timeframeDays <= 0 {
		return m
	}

	sorted := make([]DailyStat, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	for _, row := range sorted {
		units, revenue := selectFigures(row, mode)
		m.UnitsSold += units
		m.TotalRevenue += revenue

		if row.MinPrice > 0 && (m.MinPrice == 0 || row.MinPrice < m.MinPrice) {
			m.MinPrice = row.MinPrice
		}
		if row.MaxPrice > m.MaxPrice {
			m.MaxPrice = row.MaxPrice
		}
	}

	// Most recent non-zero listing count wins; a zero snapshot is stale,
	// not evidence of an empty board.
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].ActiveListings > 0 {
			m.ActiveListings = sorted[i].ActiveListings
			break
		}
	}

	m.SalesVelocity = float64(m.UnitsSold) / float64(timeframeDays)
	if m.UnitsSold > 0 {
		m.AvgPrice = int64(math.Round(float64(m.TotalRevenue) / float64(m.UnitsSold)))
	}

	if materialCost > 0 && m.AvgPrice > 0 {
		m.ProfitPerUnit = m.AvgPrice - materialCost
		m.MarginPercent = float64(m.ProfitPerUnit) / float64(m.AvgPrice) * 100
		m.HasCost = true
	}

	return m
}

// selectFigures picks the (units, revenue) pair a row contributes.
func selectFigures(row DailyStat, mode StatsMode) (int64, int64) {
	switch mode {
	case StatsRobustOnly:
		return row.RobustUnitsSold, row.RobustRevenue
	case StatsRawOnly:
		return row.UnitsSold, row.TotalRevenue
	default:
		if !row.LowConfidence && row.RobustSampleSize > 0 {
			return row.RobustUnitsSold, row.RobustRevenue
		}
		return row.UnitsSold, row.TotalRevenue
	}
}

// MergeWorlds collapses per-world DailyStat rows onto their dates,
// producing one row per date for data-center scope queries. Raw units and
// revenue sum across all worlds; robust figures and sample sizes sum only
// across worlds whose own sample was confident. Listing counts for the
// same date sum as well, since each world's board is a distinct pool of
// competing listings. Anchors do not survive the merge (they are
// per-world constructs). The merged WorldID is 0.
func MergeWorlds(rows []DailyStat, tun Tuning) []DailyStat {
	byDate := make(map[string]*DailyStat)
	for _, row := range rows {
		merged, ok := byDate[row.Date]
		if !ok {
			merged = &DailyStat{ItemID: row.ItemID, Date: row.Date}
			byDate[row.Date] = merged
		}
		merged.UnitsSold += row.UnitsSold
		merged.TotalRevenue += row.TotalRevenue
		if row.MinPrice > 0 && (merged.MinPrice == 0 || row.MinPrice < merged.MinPrice) {
			merged.MinPrice = row.MinPrice
		}
		if row.MaxPrice > merged.MaxPrice {
			merged.MaxPrice = row.MaxPrice
		}
		merged.ActiveListings += row.ActiveListings
		merged.ListedQuantity += row.ListedQuantity

		// Only confident rows carry robust sums; a low-confidence row's
		// robust side was zeroed at aggregation, so counting its survivors
		// into the pooled sample would mark the merged row confident while
		// its robust figures stay empty.
		if !row.LowConfidence && row.RobustSampleSize > 0 {
			merged.RobustUnitsSold += row.RobustUnitsSold
			merged.RobustRevenue += row.RobustRevenue
			merged.RobustSampleSize += row.RobustSampleSize
		}
	}

	out := make([]DailyStat, 0, len(byDate))
	for _, merged := range byDate {
		if merged.UnitsSold > 0 {
			merged.AvgPrice = int64(math.Round(float64(merged.TotalRevenue) / float64(merged.UnitsSold)))
		}
		if merged.RobustUnitsSold > 0 {
			merged.RobustAvgPrice = int64(math.Round(float64(merged.RobustRevenue) / float64(merged.RobustUnitsSold)))
		}
		merged.LowConfidence = merged.RobustSampleSize < tun.MinRobustSample
		out = append(out, *merged)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
