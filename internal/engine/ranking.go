package engine

import (
	"fmt"
	"math"
	"sort"
)

// nullScore ranks items whose strategy score is undefined (no recipe data
// under profit/roi) below every real score while keeping the order stable.
const nullScore = -math.MaxFloat64

// ParseMetric maps a user-supplied metric name onto a ranking strategy.
// Empty means the default strategy; anything unrecognized is an error
// rather than a silent fallback.
func ParseMetric(s string) (RankMetric, error) {
	switch m := RankMetric(s); m {
	case "":
		return MetricBestToSell, nil
	case MetricBestToSell, MetricRevenue, MetricVolume, MetricAvgPrice, MetricProfit, MetricROI:
		return m, nil
	default:
		return "", fmt.Errorf("unknown metric %q (bestToSell|revenue|volume|avgPrice|profit|roi)", s)
	}
}

// FilterItems applies the AND-combined filter predicates from c. A zero
// value in any filter field means that predicate is skipped.
func FilterItems(items []RankedItem, c RankCriteria) []RankedItem {
	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		categories[cat] = true
	}

	var out []RankedItem
	for _, it := range items {
		if len(categories) > 0 && !categories[it.Category] {
			continue
		}
		if c.CraftableOnly && !it.Craftable {
			continue
		}
		if c.NonCraftableOnly && it.Craftable {
			continue
		}
		if it.Metrics.SalesVelocity < c.MinVelocity {
			continue
		}
		if it.Metrics.TotalRevenue < c.MinRevenue {
			continue
		}
		if c.MaxListings > 0 && it.Metrics.ActiveListings > c.MaxListings {
			continue
		}
		if it.Metrics.AvgPrice < c.MinPrice {
			continue
		}
		out = append(out, it)
	}
	return out
}

// RankItems filters, scores and sorts items per the requested strategy,
// returning the top c.TopN along with a summary computed over the full
// filtered set before truncation. Ties keep their input order so results
// are deterministic. TopN below 1 is an error, never a silent empty list.
func RankItems(items []RankedItem, c RankCriteria, tun Tuning) ([]RankedItem, Summary, error) {
	if c.TopN < 1 {
		return nil, Summary{}, fmt.Errorf("rank: top-N must be at least 1, got %d", c.TopN)
	}

	pool := FilterItems(items, c)
	if c.Metric == MetricBestToSell {
		pool = bestToSellPool(pool, tun)
	}

	ranked := make([]RankedItem, len(pool))
	copy(ranked, pool)
	for i := range ranked {
		ranked[i].Score = scoreItem(ranked[i], c.Metric, tun)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	summary := summarize(ranked)
	if len(ranked) > c.TopN {
		ranked = ranked[:c.TopN]
	}
	return ranked, summary, nil
}

// bestToSellPool applies the stricter "best to sell" gate with staged
// relaxation, so the result set is never empty while any sales exist:
// full gate, then drop the price floor, then drop the velocity floor,
// then fall back to the whole pool.
func bestToSellPool(items []RankedItem, tun Tuning) []RankedItem {
	stages := []func(m ItemMetrics) bool{
		func(m ItemMetrics) bool {
			return m.UnitsSold > 0 && m.TotalRevenue > 0 &&
				m.SalesVelocity >= tun.BestMinVelocity && m.AvgPrice >= tun.BestMinPrice
		},
		func(m ItemMetrics) bool {
			return m.UnitsSold > 0 && m.TotalRevenue > 0 &&
				m.SalesVelocity >= tun.BestRelaxedMinVelocity
		},
		func(m ItemMetrics) bool {
			return m.UnitsSold > 0 && m.TotalRevenue > 0
		},
	}
	for _, keep := range stages {
		var pool []RankedItem
		for _, it := range items {
			if keep(it.Metrics) {
				pool = append(pool, it)
			}
		}
		if len(pool) > 0 {
			return pool
		}
	}
	return items
}

// scoreItem computes the ranking score for one item under a strategy.
func scoreItem(it RankedItem, metric RankMetric, tun Tuning) float64 {
	m := it.Metrics
	switch metric {
	case MetricRevenue:
		return float64(m.TotalRevenue)
	case MetricVolume:
		return float64(m.UnitsSold)
	case MetricAvgPrice:
		return float64(m.AvgPrice)
	case MetricProfit:
		if !m.HasCost {
			return nullScore
		}
		return float64(m.ProfitPerUnit)
	case MetricROI:
		if !m.HasCost {
			return nullScore
		}
		return m.MarginPercent
	default:
		// bestToSell: expected daily gil yield, boosted for items that
		// demonstrably move every day.
		return float64(m.AvgPrice) * m.SalesVelocity * reliabilityBonus(m.SalesVelocity, tun)
	}
}

func reliabilityBonus(velocity float64, tun Tuning) float64 {
	switch {
	case velocity >= 5:
		return tun.BonusHighVelocity
	case velocity >= 1:
		return tun.BonusMidVelocity
	case velocity >= 0.5:
		return tun.BonusLowVelocity
	default:
		return 1.0
	}
}

// summarize aggregates the full filtered set. The profit margin average
// covers only items with recipe data; it is 0 when none have any.
func summarize(items []RankedItem) Summary {
	s := Summary{TotalItems: len(items)}
	if len(items) == 0 {
		return s
	}

	var marginSum float64
	var marginCount int
	var velocitySum float64
	for _, it := range items {
		s.TotalRevenue += it.Metrics.TotalRevenue
		velocitySum += it.Metrics.SalesVelocity
		if it.Metrics.HasCost {
			marginSum += it.Metrics.MarginPercent
			marginCount++
		}
	}
	if marginCount > 0 {
		s.AvgProfitMargin = marginSum / float64(marginCount)
	}
	s.AvgSalesVelocity = velocitySum / float64(len(items))
	return s
}
