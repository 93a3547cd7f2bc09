package engine

// Tuning collects every threshold used by the outlier filter and the
// ranking engine so they can be adjusted and tested independently of the
// code that applies them.
type Tuning struct {
	// Outlier filter.
	AnchorCeilingMult   float64 `json:"anchor_ceiling_mult"`    // reject above anchor × this
	IQRMult             float64 `json:"iqr_mult"`               // statistical ceiling: Q3 + this × IQR
	MADMult             float64 `json:"mad_mult"`               // statistical ceiling: median + this × MAD
	ClampMult           float64 `json:"clamp_mult"`             // survivors clamped to anchor × this
	LowValueCutoff      int64   `json:"low_value_cutoff"`       // gil; below this the single-unit guard applies
	SingleUnitGuardMult float64 `json:"single_unit_guard_mult"` // reject qty-1 sales above Q3 × this
	MinRobustSample     int     `json:"min_robust_sample"`      // survivors required for confident robust figures

	// Anchors and retention.
	AnchorWindowDays int `json:"anchor_window_days"`
	RetentionDays    int `json:"retention_days"`

	// "Best to sell" floors and reliability bonus tiers.
	BestMinVelocity        float64 `json:"best_min_velocity"`
	BestMinPrice           int64   `json:"best_min_price"`
	BestRelaxedMinVelocity float64 `json:"best_relaxed_min_velocity"`
	BonusHighVelocity      float64 `json:"bonus_high_velocity"` // velocity ≥ 5/day
	BonusMidVelocity       float64 `json:"bonus_mid_velocity"`  // velocity ≥ 1/day
	BonusLowVelocity       float64 `json:"bonus_low_velocity"`  // velocity ≥ 0.5/day
}

// DefaultTuning returns the production thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		AnchorCeilingMult:   20,
		IQRMult:             3,
		MADMult:             6,
		ClampMult:           10,
		LowValueCutoff:      1000,
		SingleUnitGuardMult: 20,
		MinRobustSample:     5,

		AnchorWindowDays: 30,
		RetentionDays:    45,

		BestMinVelocity:        0.2,
		BestMinPrice:           200,
		BestRelaxedMinVelocity: 0.5,
		BonusHighVelocity:      1.8,
		BonusMidVelocity:       1.5,
		BonusLowVelocity:       1.2,
	}
}
