package engine

import (
	"fmt"
	"sort"
	"time"
)

// QueryParams is the full recognized query configuration for one ranking
// request: scope, timeframe, stats mode and the filter/ranking criteria.
type QueryParams struct {
	Scope         string // world or data-center name
	TimeframeDays int    // 1, 7 or 30
	Mode          StatsMode
	Criteria      RankCriteria
}

// MarketStore is the slice of the persistence layer the query path reads.
type MarketStore interface {
	ResolveScope(scope string) (worldIDs []int32, label string, err error)
	DailyStatsInWindow(worldIDs []int32, from, to string) (map[int32][]DailyStat, error)
	Items() (map[int32]ItemInfo, error)
}

// Analyzer answers ranking queries from stored daily aggregates.
// Invocations are independent and share no mutable state, so an Analyzer
// may be used concurrently.
type Analyzer struct {
	Store  MarketStore
	Tuning Tuning
	Now    func() time.Time // nil = time.Now
}

// NewAnalyzer creates an Analyzer with production tuning.
func NewAnalyzer(store MarketStore) *Analyzer {
	return &Analyzer{Store: store, Tuning: DefaultTuning()}
}

// Rank resolves the scope, folds each item's rows over the timeframe and
// returns the ranked result plus the pre-truncation summary. Data-center
// scopes merge per-world rows onto dates before folding. Items with no
// rows in the window do not appear.
func (a *Analyzer) Rank(params QueryParams) ([]RankedItem, Summary, error) {
	switch params.TimeframeDays {
	case 1, 7, 30:
	default:
		return nil, Summary{}, fmt.Errorf("timeframe must be 1, 7 or 30 days, got %d", params.TimeframeDays)
	}

	worldIDs, label, err := a.Store.ResolveScope(params.Scope)
	if err != nil {
		return nil, Summary{}, err
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	to := now().UTC().Format(dateLayout)
	from := now().UTC().AddDate(0, 0, -(params.TimeframeDays - 1)).Format(dateLayout)

	byItem, err := a.Store.DailyStatsInWindow(worldIDs, from, to)
	if err != nil {
		return nil, Summary{}, err
	}
	items, err := a.Store.Items()
	if err != nil {
		return nil, Summary{}, err
	}

	candidates := make([]RankedItem, 0, len(byItem))
	for itemID, rows := range byItem {
		if len(worldIDs) > 1 {
			rows = MergeWorlds(rows, a.Tuning)
		}
		info, ok := items[itemID]
		if !ok {
			info = ItemInfo{ItemID: itemID, Name: fmt.Sprintf("Item %d", itemID)}
		}
		candidates = append(candidates, RankedItem{
			ItemID:     itemID,
			ItemName:   info.Name,
			Category:   info.Category,
			Craftable:  info.Craftable,
			ScopeLabel: label,
			Metrics:    CalcItemMetrics(rows, params.TimeframeDays, params.Mode, info.MaterialCost),
		})
	}
	// Map iteration order is random; fix it so ties rank deterministically.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ItemID < candidates[j].ItemID })

	return RankItems(candidates, params.Criteria, a.Tuning)
}
