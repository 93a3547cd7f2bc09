package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/seansalv/FFXIV-Market-Analyzer/internal/config"
	"github.com/seansalv/FFXIV-Market-Analyzer/internal/db"
	"github.com/seansalv/FFXIV-Market-Analyzer/internal/engine"
	"github.com/seansalv/FFXIV-Market-Analyzer/internal/ingest"
	"github.com/seansalv/FFXIV-Market-Analyzer/internal/logger"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "analyzer.json", "config file path")
	dbPath := flag.String("db", "", "database path (overrides config)")

	ingestPath := flag.String("ingest", "", "ingest a provider sales dump (JSON file)")
	itemsPath := flag.String("items", "", "import item metadata (JSON file)")
	backfill := flag.Bool("backfill-anchors", false, "recompute rolling price anchors for all stored history")
	prune := flag.Bool("prune", false, "delete stats older than the retention horizon")
	rank := flag.Bool("rank", false, "print the ranked market view")

	scope := flag.String("scope", "", "world or data-center name (default from config)")
	timeframe := flag.Int("timeframe", 7, "timeframe in days: 1, 7 or 30")
	metric := flag.String("metric", "bestToSell", "ranking metric: bestToSell|revenue|volume|avgPrice|profit|roi")
	mode := flag.String("mode", "auto", "stats mode: auto|robust|raw")
	topN := flag.Int("top", 0, "result count (default from config)")
	categories := flag.String("categories", "", "comma-separated category filter")
	craftableOnly := flag.Bool("craftable-only", false, "only craftable items")
	nonCraftableOnly := flag.Bool("non-craftable-only", false, "only non-craftable items")
	minVelocity := flag.Float64("min-velocity", 0, "minimum sales velocity (units/day)")
	minRevenue := flag.Int64("min-revenue", 0, "minimum total revenue (gil)")
	maxListings := flag.Int("max-listings", 0, "maximum active listings (0 = no limit)")
	minPrice := flag.Int64("min-price", 0, "minimum average price (gil)")
	flag.Parse()

	godotenv.Load()
	logger.Banner(version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("CONFIG", err.Error())
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	ran := false

	if *itemsPath != "" {
		ran = true
		items, err := ingest.LoadItems(*itemsPath)
		if err != nil {
			logger.Error("INGEST", err.Error())
			os.Exit(1)
		}
		if err := database.UpsertItems(items); err != nil {
			logger.Error("INGEST", err.Error())
			os.Exit(1)
		}
		logger.Success("INGEST", fmt.Sprintf("Imported %d items", len(items)))
	}

	if *ingestPath != "" {
		ran = true
		dump, err := ingest.LoadDump(*ingestPath)
		if err != nil {
			logger.Error("INGEST", err.Error())
			os.Exit(1)
		}
		n, err := ingest.Run(database, dump, cfg.Tuning)
		if err != nil {
			logger.Error("INGEST", err.Error())
			os.Exit(1)
		}
		logger.Success("INGEST", fmt.Sprintf("Wrote %d daily rows for world %s", n, dump.WorldName))
	}

	if *backfill {
		ran = true
		n, err := engine.BackfillAnchors(context.Background(), database, cfg.Tuning, 8)
		if err != nil {
			logger.Error("ANCHOR", err.Error())
			os.Exit(1)
		}
		logger.Success("ANCHOR", fmt.Sprintf("Backfilled %d anchors", n))
	}

	if *prune {
		ran = true
		n, err := database.PruneDailyStats(cfg.Tuning.RetentionDays)
		if err != nil {
			logger.Error("PRUNE", err.Error())
			os.Exit(1)
		}
		logger.Success("PRUNE", fmt.Sprintf("Removed %d rows older than %d days", n, cfg.Tuning.RetentionDays))
	}

	if *rank || !ran {
		if *scope == "" {
			*scope = cfg.DefaultScope
		}
		if *topN <= 0 {
			*topN = cfg.DefaultTopN
		}
		runRank(database, cfg, rankFlags{
			scope: *scope, timeframe: *timeframe, metric: *metric, mode: *mode,
			topN: *topN, categories: *categories,
			craftableOnly: *craftableOnly, nonCraftableOnly: *nonCraftableOnly,
			minVelocity: *minVelocity, minRevenue: *minRevenue,
			maxListings: *maxListings, minPrice: *minPrice,
		})
	}
}

type rankFlags struct {
	scope, metric, mode, categories string
	timeframe, topN, maxListings    int
	craftableOnly, nonCraftableOnly bool
	minVelocity                     float64
	minRevenue, minPrice            int64
}

func runRank(database *db.DB, cfg *config.Config, f rankFlags) {
	statsMode, err := parseMode(f.mode)
	if err != nil {
		logger.Error("RANK", err.Error())
		os.Exit(1)
	}
	rankMetric, err := engine.ParseMetric(f.metric)
	if err != nil {
		logger.Error("RANK", err.Error())
		os.Exit(1)
	}

	var cats []string
	if f.categories != "" {
		for _, c := range strings.Split(f.categories, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cats = append(cats, c)
			}
		}
	}

	analyzer := engine.NewAnalyzer(database)
	analyzer.Tuning = cfg.Tuning

	results, summary, err := analyzer.Rank(engine.QueryParams{
		Scope:         f.scope,
		TimeframeDays: f.timeframe,
		Mode:          statsMode,
		Criteria: engine.RankCriteria{
			Categories:       cats,
			CraftableOnly:    f.craftableOnly,
			NonCraftableOnly: f.nonCraftableOnly,
			MinVelocity:      f.minVelocity,
			MinRevenue:       f.minRevenue,
			MaxListings:      f.maxListings,
			MinPrice:         f.minPrice,
			Metric:           rankMetric,
			TopN:             f.topN,
		},
	})
	if err != nil {
		logger.Error("RANK", err.Error())
		os.Exit(1)
	}

	logger.Section(fmt.Sprintf("%s · %dd · %s", f.scope, f.timeframe, f.metric))
	fmt.Printf("%-4s %-32s %-14s %10s %8s %14s %10s %10s %8s\n",
		"#", "Item", "Category", "Sold", "Vel/d", "Revenue", "Avg", "Profit", "Lst")
	for i, r := range results {
		profit := "-"
		if r.Metrics.HasCost {
			profit = humanize.Comma(r.Metrics.ProfitPerUnit)
		}
		fmt.Printf("%-4d %-32s %-14s %10s %8.2f %14s %10s %10s %8d\n",
			i+1, truncate(r.ItemName, 32), truncate(r.Category, 14),
			humanize.Comma(r.Metrics.UnitsSold), r.Metrics.SalesVelocity,
			humanize.Comma(r.Metrics.TotalRevenue), humanize.Comma(r.Metrics.AvgPrice),
			profit, r.Metrics.ActiveListings)
	}

	logger.Section("Summary")
	logger.Stats("items matched", summary.TotalItems)
	logger.Stats("total revenue", humanize.Comma(summary.TotalRevenue)+" gil")
	logger.Stats("avg profit margin", fmt.Sprintf("%.1f%%", summary.AvgProfitMargin))
	logger.Stats("avg sales velocity", fmt.Sprintf("%.2f/day", summary.AvgSalesVelocity))
}

func parseMode(s string) (engine.StatsMode, error) {
	switch s {
	case "auto", "":
		return engine.StatsAuto, nil
	case "robust":
		return engine.StatsRobustOnly, nil
	case "raw":
		return engine.StatsRawOnly, nil
	default:
		return 0, fmt.Errorf("unknown stats mode %q (auto|robust|raw)", s)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
