package engine

import (
	"testing"
)

func candidate(name string, m ItemMetrics) RankedItem {
	return RankedItem{ItemName: name, Metrics: m}
}

func names(items []RankedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ItemName
	}
	return out
}

func TestRankItems_RevenueOrder(t *testing.T) {
	items := []RankedItem{
		candidate("B", ItemMetrics{TotalRevenue: 50}),
		candidate("A", ItemMetrics{TotalRevenue: 100}),
	}
	got, _, err := RankItems(items, RankCriteria{Metric: MetricRevenue, TopN: 10}, DefaultTuning())
	if err != nil {
		t.Fatalf("RankItems: %v", err)
	}
	if len(got) != 2 || got[0].ItemName != "A" || got[1].ItemName != "B" {
		t.Errorf("order = %v, want [A B]", names(got))
	}
}

func TestRankItems_TiesKeepInputOrder(t *testing.T) {
	items := []RankedItem{
		candidate("first", ItemMetrics{TotalRevenue: 100}),
		candidate("second", ItemMetrics{TotalRevenue: 100}),
		candidate("third", ItemMetrics{TotalRevenue: 100}),
	}
	got, _, err := RankItems(items, RankCriteria{Metric: MetricRevenue, TopN: 10}, DefaultTuning())
	if err != nil {
		t.Fatalf("RankItems: %v", err)
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got[i].ItemName != w {
			t.Fatalf("tie order = %v, want %v", names(got), want)
		}
	}
}

func TestRankItems_TopNTruncationAndSummary(t *testing.T) {
	items := []RankedItem{
		candidate("A", ItemMetrics{TotalRevenue: 300, SalesVelocity: 3, MarginPercent: 50, HasCost: true}),
		candidate("B", ItemMetrics{TotalRevenue: 200, SalesVelocity: 2}),
		candidate("C", ItemMetrics{TotalRevenue: 100, SalesVelocity: 1, MarginPercent: 30, HasCost: true}),
	}
	got, summary, err := RankItems(items, RankCriteria{Metric: MetricRevenue, TopN: 1}, DefaultTuning())
	if err != nil {
		t.Fatalf("RankItems: %v", err)
	}
	if len(got) != 1 || got[0].ItemName != "A" {
		t.Errorf("top-1 = %v, want [A]", names(got))
	}
	// Summary covers the full filtered set, not the truncated one.
	if summary.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", summary.TotalItems)
	}
	if summary.TotalRevenue != 600 {
		t.Errorf("TotalRevenue = %d, want 600", summary.TotalRevenue)
	}
	// Margin averages only the two items with recipe data: (50+30)/2 = 40.
	if summary.AvgProfitMargin != 40 {
		t.Errorf("AvgProfitMargin = %v, want 40", summary.AvgProfitMargin)
	}
	// Velocity averages all: (3+2+1)/3 = 2.
	if summary.AvgSalesVelocity != 2 {
		t.Errorf("AvgSalesVelocity = %v, want 2", summary.AvgSalesVelocity)
	}
}

func TestRankItems_InvalidTopN(t *testing.T) {
	items := []RankedItem{candidate("A", ItemMetrics{TotalRevenue: 1})}
	if _, _, err := RankItems(items, RankCriteria{Metric: MetricRevenue, TopN: 0}, DefaultTuning()); err == nil {
		t.Errorf("TopN=0 should be an error, not an empty list")
	}
	if _, _, err := RankItems(items, RankCriteria{Metric: MetricRevenue, TopN: -3}, DefaultTuning()); err == nil {
		t.Errorf("negative TopN should be an error")
	}
}

func TestParseMetric(t *testing.T) {
	for _, name := range []string{"bestToSell", "revenue", "volume", "avgPrice", "profit", "roi"} {
		m, err := ParseMetric(name)
		if err != nil || string(m) != name {
			t.Errorf("ParseMetric(%q) = %v, %v", name, m, err)
		}
	}
	if m, err := ParseMetric(""); err != nil || m != MetricBestToSell {
		t.Errorf("ParseMetric(empty) = %v, %v, want default bestToSell", m, err)
	}
	// A typo must surface, not silently rank by the default strategy.
	if _, err := ParseMetric("bestTOsell"); err == nil {
		t.Errorf("ParseMetric accepted an unknown metric name")
	}
}

func TestRankItems_ProfitSentinelRanksLast(t *testing.T) {
	items := []RankedItem{
		candidate("no-recipe", ItemMetrics{TotalRevenue: 999999}),
		candidate("losing", ItemMetrics{ProfitPerUnit: -500, HasCost: true}),
		candidate("winning", ItemMetrics{ProfitPerUnit: 2000, HasCost: true}),
	}
	got, _, err := RankItems(items, RankCriteria{Metric: MetricProfit, TopN: 10}, DefaultTuning())
	if err != nil {
		t.Fatalf("RankItems: %v", err)
	}
	want := []string{"winning", "losing", "no-recipe"}
	for i, w := range want {
		if got[i].ItemName != w {
			t.Fatalf("profit order = %v, want %v", names(got), want)
		}
	}
}

func TestRankItems_AllNullProfitStillRanks(t *testing.T) {
	// Every score is the sentinel: degenerate but stable, never an error.
	items := []RankedItem{
		candidate("x", ItemMetrics{TotalRevenue: 10}),
		candidate("y", ItemMetrics{TotalRevenue: 20}),
	}
	got, _, err := RankItems(items, RankCriteria{Metric: MetricROI, TopN: 10}, DefaultTuning())
	if err != nil {
		t.Fatalf("RankItems: %v", err)
	}
	if len(got) != 2 || got[0].ItemName != "x" || got[1].ItemName != "y" {
		t.Errorf("degenerate order = %v, want input order [x y]", names(got))
	}
}

func TestRankItems_BestToSellScore(t *testing.T) {
	// Score = avg_price x velocity x bonus. 1000x6x1.8 = 10800,
	// 2000x2x1.5 = 6000, 3000x0.7x1.2 = 2520, 5000x0.3x1.0 = 1500.
	items := []RankedItem{
		candidate("slow", ItemMetrics{UnitsSold: 3, TotalRevenue: 15000, AvgPrice: 5000, SalesVelocity: 0.3}),
		candidate("mid", ItemMetrics{UnitsSold: 14, TotalRevenue: 28000, AvgPrice: 2000, SalesVelocity: 2}),
		candidate("fast", ItemMetrics{UnitsSold: 42, TotalRevenue: 42000, AvgPrice: 1000, SalesVelocity: 6}),
		candidate("steady", ItemMetrics{UnitsSold: 5, TotalRevenue: 15000, AvgPrice: 3000, SalesVelocity: 0.7}),
	}
	got, _, err := RankItems(items, RankCriteria{Metric: MetricBestToSell, TopN: 10}, DefaultTuning())
	if err != nil {
		t.Fatalf("RankItems: %v", err)
	}
	want := []string{"fast", "mid", "steady", "slow"}
	for i, w := range want {
		if got[i].ItemName != w {
			t.Fatalf("bestToSell order = %v, want %v", names(got), want)
		}
	}
}

func TestRankItems_BestToSellStageThreeKeepsSlowSellers(t *testing.T) {
	// One item with sales but velocity 0.1: fails the 0.2 floor and the
	// relaxed 0.5 floor, passes stage 3 (units > 0, revenue > 0).
	items := []RankedItem{
		candidate("trickle", ItemMetrics{UnitsSold: 1, TotalRevenue: 500, AvgPrice: 500, SalesVelocity: 0.1}),
	}
	got, _, err := RankItems(items, RankCriteria{Metric: MetricBestToSell, TopN: 5}, DefaultTuning())
	if err != nil {
		t.Fatalf("RankItems: %v", err)
	}
	if len(got) != 1 || got[0].ItemName != "trickle" {
		t.Errorf("result = %v, want [trickle]", names(got))
	}
}

func TestRankItems_BestToSellFullFallback(t *testing.T) {
	// No item has any sales, so every staged gate comes up empty and the
	// full set is ranked rather than returning nothing.
	items := []RankedItem{
		candidate("dead-stock", ItemMetrics{ActiveListings: 40}),
	}
	got, _, err := RankItems(items, RankCriteria{Metric: MetricBestToSell, TopN: 5}, DefaultTuning())
	if err != nil {
		t.Fatalf("RankItems: %v", err)
	}
	if len(got) != 1 || got[0].ItemName != "dead-stock" {
		t.Errorf("result = %v, want [dead-stock]", names(got))
	}
}

func TestFilterItems_Predicates(t *testing.T) {
	items := []RankedItem{
		{ItemName: "potion", Category: "Medicine", Craftable: true,
			Metrics: ItemMetrics{SalesVelocity: 2, TotalRevenue: 10000, ActiveListings: 10, AvgPrice: 300}},
		{ItemName: "ore", Category: "Stone", Craftable: false,
			Metrics: ItemMetrics{SalesVelocity: 8, TotalRevenue: 4000, ActiveListings: 90, AvgPrice: 50}},
	}

	if got := FilterItems(items, RankCriteria{Categories: []string{"Medicine"}}); len(got) != 1 || got[0].ItemName != "potion" {
		t.Errorf("category filter = %v, want [potion]", names(got))
	}
	if got := FilterItems(items, RankCriteria{CraftableOnly: true}); len(got) != 1 || got[0].ItemName != "potion" {
		t.Errorf("craftable-only = %v, want [potion]", names(got))
	}
	if got := FilterItems(items, RankCriteria{NonCraftableOnly: true}); len(got) != 1 || got[0].ItemName != "ore" {
		t.Errorf("non-craftable-only = %v, want [ore]", names(got))
	}
	if got := FilterItems(items, RankCriteria{MinVelocity: 5}); len(got) != 1 || got[0].ItemName != "ore" {
		t.Errorf("min velocity = %v, want [ore]", names(got))
	}
	if got := FilterItems(items, RankCriteria{MinRevenue: 5000}); len(got) != 1 || got[0].ItemName != "potion" {
		t.Errorf("min revenue = %v, want [potion]", names(got))
	}
	if got := FilterItems(items, RankCriteria{MaxListings: 20}); len(got) != 1 || got[0].ItemName != "potion" {
		t.Errorf("max listings = %v, want [potion]", names(got))
	}
	if got := FilterItems(items, RankCriteria{MinPrice: 100}); len(got) != 1 || got[0].ItemName != "potion" {
		t.Errorf("min price = %v, want [potion]", names(got))
	}
	// Unset filters pass everything.
	if got := FilterItems(items, RankCriteria{}); len(got) != 2 {
		t.Errorf("no filters = %v, want both items", names(got))
	}
}
