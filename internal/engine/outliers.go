package engine

import (
	"math"

	"github.com/seansalv/FFXIV-Market-Analyzer/internal/stats"
)

// FilteredSale is a sale that survived outlier rejection, with the clamped
// per-unit price that downstream revenue and average figures must use.
type FilteredSale struct {
	Sale           SaleRecord
	EffectivePrice int64
}

// FilterResult is the outcome of one outlier-filtering pass over a single
// day's sales for one item/world.
type FilterResult struct {
	Kept          []FilteredSale
	Rejected      int
	SampleSize    int     // surviving count
	LowConfidence bool    // survivors below Tuning.MinRobustSample
	AnchorPrice   float64 // effective anchor applied (rolling, or same-day median)
	SameDayAnchor bool    // true when no rolling anchor existed
}

// FilterSales rejects likely-manipulated sales (RMT spikes, spoofed
// one-off listings) and clamps the survivors' prices.
//
// Stages, each operating on the survivors of the previous one:
//  1. anchor ceiling: price > anchor × AnchorCeilingMult is rejected,
//     where anchor is the rolling 30-day typical price, or the day's own
//     median when no rolling anchor exists;
//  2. statistical ceiling (only with MinRobustSample+ survivors):
//     price > min(Q3 + IQRMult×IQR, median + MADMult×MAD) is rejected,
//     the MAD bound applying only when MAD > 0;
//  3. single-unit guard for low-value items (anchor below LowValueCutoff):
//     quantity-1 sales above Q3 × SingleUnitGuardMult are rejected;
//  4. clamp: surviving prices are capped at anchor × ClampMult.
func FilterSales(sales []SaleRecord, anchor *Anchor, tun Tuning) FilterResult {
	res := FilterResult{}
	if len(sales) == 0 {
		res.LowConfidence = true
		return res
	}

	prices := make([]float64, len(sales))
	for i, s := range sales {
		prices[i] = float64(s.PricePerUnit)
	}
	dayMedian := stats.Median(prices)

	if anchor != nil && anchor.TypicalPrice > 0 {
		res.AnchorPrice = anchor.TypicalPrice
	} else {
		res.AnchorPrice = dayMedian
		res.SameDayAnchor = true
	}

	// Stage 1: anchor ceiling.
	survivors := make([]SaleRecord, 0, len(sales))
	ceiling := res.AnchorPrice * tun.AnchorCeilingMult
	for _, s := range sales {
		if res.AnchorPrice > 0 && float64(s.PricePerUnit) > ceiling {
			res.Rejected++
			continue
		}
		survivors = append(survivors, s)
	}

	// Stage 2: statistical ceiling, requires a workable sample.
	if len(survivors) >= tun.MinRobustSample {
		sp := survivorPrices(survivors)
		q1, q3 := stats.Quartiles(sp)
		iqr := q3 - q1
		med := stats.Median(sp)
		mad := stats.MAD(sp, med)

		bound := q3 + tun.IQRMult*iqr
		if mad > 0 {
			bound = math.Min(bound, med+tun.MADMult*mad)
		}

		kept := survivors[:0]
		for _, s := range survivors {
			if float64(s.PricePerUnit) > bound {
				res.Rejected++
				continue
			}
			kept = append(kept, s)
		}
		survivors = kept
	}

	// Stage 3: single-unit guard. Only for presumed low-value items, where
	// IQR rules are too loose to catch spoofed one-unit listings.
	if res.AnchorPrice > 0 && res.AnchorPrice < float64(tun.LowValueCutoff) {
		_, q3 := stats.Quartiles(survivorPrices(survivors))
		if q3 > 0 {
			guard := q3 * tun.SingleUnitGuardMult
			kept := survivors[:0]
			for _, s := range survivors {
				if s.Quantity == 1 && float64(s.PricePerUnit) > guard {
					res.Rejected++
					continue
				}
				kept = append(kept, s)
			}
			survivors = kept
		}
	}

	// Stage 4: clamp survivors so one unusual sale cannot dominate sums.
	clampCeil := res.AnchorPrice * tun.ClampMult
	res.Kept = make([]FilteredSale, 0, len(survivors))
	for _, s := range survivors {
		eff := s.PricePerUnit
		if res.AnchorPrice > 0 && float64(eff) > clampCeil {
			eff = int64(math.Round(clampCeil))
		}
		res.Kept = append(res.Kept, FilteredSale{Sale: s, EffectivePrice: eff})
	}

	res.SampleSize = len(res.Kept)
	res.LowConfidence = res.SampleSize < tun.MinRobustSample
	return res
}

func survivorPrices(sales []SaleRecord) []float64 {
	ps := make([]float64, len(sales))
	for i, s := range sales {
		ps[i] = float64(s.PricePerUnit)
	}
	return ps
}
