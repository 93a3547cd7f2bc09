package engine

// SaleRecord is a single completed market-board sale reported by the
// upstream data provider. Records are immutable once collected.
type SaleRecord struct {
	PricePerUnit int64
	Quantity     int64
	Timestamp    int64 // unix seconds
	HQ           bool
	BuyerName    string
	OnMannequin  bool // display listing, not a regular board sale
}

// ListingSnapshot is the current state of active listings for an item
// on one world at collection time.
type ListingSnapshot struct {
	Count         int
	TotalQuantity int64
}

// Anchor is a rolling robust price estimate derived from the trailing
// 30-day history of an item/world. It bounds outlier filtering and price
// clamping for subsequent days.
type Anchor struct {
	TypicalPrice float64 // median of the trailing daily price series
	PriceP90     float64 // 90th percentile of the same series
}

// DailyStat is one aggregated row per (item, world, date).
//
// Raw figures cover every reported sale. Robust figures cover the
// outlier-filtered, clamped survivors; RobustUnitsSold and RobustRevenue
// are zeroed when RobustSampleSize is below the confidence threshold so
// that unreliable sums never leak into multi-day aggregates.
// RobustAvgPrice is kept as a point estimate even when low-confidence.
// Zero means "absent" for MinPrice/MaxPrice, RobustAvgPrice and both
// anchor fields.
type DailyStat struct {
	ItemID  int32
	WorldID int32
	Date    string // "2006-01-02"

	UnitsSold      int64
	TotalRevenue   int64
	AvgPrice       int64
	MinPrice       int64
	MaxPrice       int64
	ActiveListings int
	ListedQuantity int64

	RobustAvgPrice   int64
	RobustRevenue    int64
	RobustUnitsSold  int64
	RobustSampleSize int

	TypicalPrice30d float64
	PriceP9030d     float64
	LowConfidence   bool
}

// ItemInfo is the per-item metadata supplied by the game-data collaborator.
// MaterialCost 0 means "no recipe data"; profit metrics stay undefined.
type ItemInfo struct {
	ItemID       int32
	Name         string
	Category     string
	Craftable    bool
	MaterialCost int64
}

// ItemMetrics is the timeframe-level fold of one item's DailyStat rows.
// ProfitPerUnit and MarginPercent are only meaningful when HasCost is true.
type ItemMetrics struct {
	UnitsSold      int64
	SalesVelocity  float64 // units per day over the full requested window
	TotalRevenue   int64
	AvgPrice       int64
	MinPrice       int64
	MaxPrice       int64
	ActiveListings int
	ProfitPerUnit  int64
	MarginPercent  float64
	HasCost        bool
}

// StatsMode selects which side of a DailyStat row feeds multi-day metrics.
type StatsMode int

const (
	// StatsAuto uses robust figures when a row's sample is confident,
	// falling back to raw figures per row otherwise.
	StatsAuto StatsMode = iota
	// StatsRobustOnly always uses robust figures (zero on low-confidence days).
	StatsRobustOnly
	// StatsRawOnly always uses unfiltered figures.
	StatsRawOnly
)

// RankMetric selects the ranking strategy.
type RankMetric string

const (
	MetricBestToSell RankMetric = "bestToSell"
	MetricRevenue    RankMetric = "revenue"
	MetricVolume     RankMetric = "volume"
	MetricAvgPrice   RankMetric = "avgPrice"
	MetricProfit     RankMetric = "profit"
	MetricROI        RankMetric = "roi"
)

// RankedItem is one candidate row flowing through the filter and ranking
// stages: item metadata joined with its timeframe metrics.
type RankedItem struct {
	ItemID     int32
	ItemName   string
	Category   string
	Craftable  bool
	ScopeLabel string // world or data-center name
	Metrics    ItemMetrics
	Score      float64
}

// RankCriteria is the recognized query configuration for the ranking
// engine. Zero values mean "no constraint" for every filter field.
type RankCriteria struct {
	Categories       []string
	CraftableOnly    bool
	NonCraftableOnly bool
	MinVelocity      float64
	MinRevenue       int64
	MaxListings      int // 0 = unset
	MinPrice         int64
	Metric           RankMetric
	TopN             int
}

// Summary is the aggregate view over the full filtered (pre-truncation)
// result set.
type Summary struct {
	TotalItems       int
	TotalRevenue     int64
	AvgProfitMargin  float64 // mean margin over items with recipe data
	AvgSalesVelocity float64
}
