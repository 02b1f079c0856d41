package scoring

import (
	"fmt"
	"math"
)

// Tuning collects every curve constant the scorers use. Scorers receive a
// Tuning at construction, which keeps the engine a pure function of its
// explicit inputs: identical metrics plus an identical Tuning always
// produce an identical score.
type Tuning struct {
	FactorMax float64 `toml:"factor_max"` // Budget per factor (20)

	Curve         CurveTuning         `toml:"curve"`
	Growth        GrowthTuning        `toml:"growth"`
	Profitability ProfitabilityTuning `toml:"profitability"`
	Valuation     ValuationTuning     `toml:"valuation"`
	Quality       QualityTuning       `toml:"quality"`
	Analyst       AnalystTuning       `toml:"analyst"`
	Composite     CompositeTuning     `toml:"composite"`
}

// CurveTuning holds the z-score to points transform constants
type CurveTuning struct {
	ZClamp            float64 `toml:"z_clamp"`             // Clamp z to +/- this before the curve
	Steepness         float64 `toml:"steepness"`           // Logistic steepness
	AmplificationPerZ float64 `toml:"amplification_per_z"` // Asymmetric boost/suppression per unit z
}

// GrowthTuning holds growth factor sub-budgets
type GrowthTuning struct {
	RevenuePoints float64 `toml:"revenue_points"`
	EPSPoints     float64 `toml:"eps_points"`
}

// ProfitabilityTuning holds profitability factor sub-budgets
type ProfitabilityTuning struct {
	ROEPoints             float64 `toml:"roe_points"`
	NetMarginPoints       float64 `toml:"net_margin_points"`
	OperatingMarginPoints float64 `toml:"operating_margin_points"`
}

// Tier maps an upper bound to points. Tier tables are evaluated in order;
// the first tier whose UpTo is >= the value applies.
type Tier struct {
	UpTo   float64 `toml:"up_to"`
	Points float64 `toml:"points"`
}

// ValuationTuning holds the tiered relative-valuation tables
type ValuationTuning struct {
	MaxMeaningfulPE float64 `toml:"max_meaningful_pe"` // P/E above this (or <= 0) is not meaningful
	MinPeers        int     `toml:"min_peers"`         // Peers needed for relative valuation

	PEPoints  float64 `toml:"pe_points"`  // P/E component budget (12)
	PBPoints  float64 `toml:"pb_points"`  // P/B component budget (8)
	PBDefault float64 `toml:"pb_default"` // P/B component when data is unusable

	// Relative tables keyed on target/peer-mean ratio
	PERatioTiers []Tier  `toml:"pe_ratio_tiers"`
	PERatioFloor float64 `toml:"pe_ratio_floor"` // Points above the last tier
	PBRatioTiers []Tier  `toml:"pb_ratio_tiers"`
	PBRatioFloor float64 `toml:"pb_ratio_floor"`

	// PEG adjustment added to the P/E base
	PEGTiers         []Tier  `toml:"peg_tiers"`
	PEGDefaultAdjust float64 `toml:"peg_default_adjust"` // Adjustment above the last tier

	// Absolute fallback when too few peers report P/E
	AbsolutePETiers   []Tier  `toml:"absolute_pe_tiers"`
	AbsolutePEDefault float64 `toml:"absolute_pe_default"`
	FallbackPEGLow    float64 `toml:"fallback_peg_low"`     // PEG below this earns the bonus
	FallbackPEGHigh   float64 `toml:"fallback_peg_high"`    // PEG above this takes the penalty
	FallbackPEGBonus  float64 `toml:"fallback_peg_bonus"`   // +2
	FallbackPEGMalus  float64 `toml:"fallback_peg_malus"`   // -2
}

// MarginBand maps joint operating/net margin minimums to cash-flow proxy
// points. Bands are evaluated in order; the first band both margins clear
// applies.
type MarginBand struct {
	OperatingMin float64 `toml:"operating_min"`
	NetMin       float64 `toml:"net_min"`
	Points       float64 `toml:"points"`
}

// QualityTuning holds the four quality sub-component budgets and thresholds
type QualityTuning struct {
	DebtPoints         float64 `toml:"debt_points"`          // Inverted D/E z budget (3)
	CurrentRatioPoints float64 `toml:"current_ratio_points"` // Current ratio z budget (2)
	LowDebtEquity      float64 `toml:"low_debt_equity"`      // D/E below this is strong outright
	ModerateDebtEquity float64 `toml:"moderate_debt_equity"` // D/E below this floors at half
	DebtFloorStrong    float64 `toml:"debt_floor_strong"`
	DebtFloorModerate  float64 `toml:"debt_floor_moderate"`

	StabilityBase             float64 `toml:"stability_base"`             // Earnings stability starting point
	StabilityHealthyBonus     float64 `toml:"stability_healthy_bonus"`    // Positive margin, EPS not collapsing
	StabilityConsistencyBonus float64 `toml:"stability_consistency_bonus"`
	StabilityPenalty          float64 `toml:"stability_penalty"`
	EPSCollapseFloor          float64 `toml:"eps_collapse_floor"`   // Annual EPS growth below this is a collapse
	EPSConsistencyBand        float64 `toml:"eps_consistency_band"` // Max |quarterly - annual| for consistency

	CashFlowBands   []MarginBand `toml:"cash_flow_bands"`
	CashFlowFloor   float64      `toml:"cash_flow_floor"`   // Either margin negative
	CashFlowDefault float64      `toml:"cash_flow_default"` // No band matched

	ROESteps  []UpsideTier `toml:"roe_steps"` // Descending ROE thresholds -> points
	ROAPoints float64      `toml:"roa_points"`
	SubBudget float64      `toml:"sub_budget"` // Per-component cap (5)

	SafeguardCashFlowMin  float64 `toml:"safeguard_cash_flow_min"`
	SafeguardCapitalMin   float64 `toml:"safeguard_capital_min"`
	SafeguardStabilityMin float64 `toml:"safeguard_stability_min"`
	SafeguardFloor        float64 `toml:"safeguard_floor"`
}

// AnalystBand is one segment of the piecewise-linear consensus curve:
// points = Base + (bullishPct - MinPct) / Divisor for pct >= MinPct.
type AnalystBand struct {
	MinPct  float64 `toml:"min_pct"`
	Base    float64 `toml:"base"`
	Divisor float64 `toml:"divisor"`
}

// UpsideTier maps a lower bound on price-target upside to points
type UpsideTier struct {
	Above  float64 `toml:"above"`
	Points float64 `toml:"points"`
}

// AnalystTuning holds the consensus and price-target curves
type AnalystTuning struct {
	RecommendationPoints float64       `toml:"recommendation_points"` // Consensus budget (15)
	UpsidePoints         float64       `toml:"upside_points"`         // Price target budget (5)
	ConsensusBands       []AnalystBand `toml:"consensus_bands"`       // Descending MinPct
	UpsideTiers          []UpsideTier  `toml:"upside_tiers"`          // Descending Above
	NoTargetPoints       float64       `toml:"no_target_points"`      // Upside points without a target
}

// CompositeTuning holds the compound excellence/concern rule
type CompositeTuning struct {
	ExcellentThreshold float64 `toml:"excellent_threshold"`
	StrongThreshold    float64 `toml:"strong_threshold"`
	WeakThreshold      float64 `toml:"weak_threshold"`

	BonusExcellent4 float64 `toml:"bonus_excellent_4"`
	BonusExcellent3 float64 `toml:"bonus_excellent_3"`
	BonusStrong4    float64 `toml:"bonus_strong_4"`
	BonusStrong3    float64 `toml:"bonus_strong_3"`
	PenaltyWeak3    float64 `toml:"penalty_weak_3"`
	PenaltyWeak2    float64 `toml:"penalty_weak_2"`
}

// DefaultTuning returns the reference curve constants
func DefaultTuning() Tuning {
	return Tuning{
		FactorMax: 20,
		Curve: CurveTuning{
			ZClamp:            3.0,
			Steepness:         2.5,
			AmplificationPerZ: 0.15,
		},
		Growth: GrowthTuning{
			RevenuePoints: 10,
			EPSPoints:     10,
		},
		Profitability: ProfitabilityTuning{
			ROEPoints:             8,
			NetMarginPoints:       6,
			OperatingMarginPoints: 6,
		},
		Valuation: ValuationTuning{
			MaxMeaningfulPE: 500,
			MinPeers:        3,
			PEPoints:        12,
			PBPoints:        8,
			PBDefault:       4,
			PERatioTiers: []Tier{
				{UpTo: 0.60, Points: 12},
				{UpTo: 0.75, Points: 11.5},
				{UpTo: 0.85, Points: 10.5},
				{UpTo: 0.95, Points: 9.5},
				{UpTo: 1.05, Points: 8},
				{UpTo: 1.15, Points: 6.5},
				{UpTo: 1.30, Points: 4.5},
				{UpTo: 1.50, Points: 3},
				{UpTo: 2.00, Points: 1.5},
			},
			PERatioFloor: 0.5,
			PBRatioTiers: []Tier{
				{UpTo: 0.60, Points: 8},
				{UpTo: 0.75, Points: 7},
				{UpTo: 0.90, Points: 6},
				{UpTo: 1.10, Points: 4},
				{UpTo: 1.30, Points: 3},
				{UpTo: 1.60, Points: 2},
			},
			PBRatioFloor: 1,
			PEGTiers: []Tier{
				{UpTo: 0.5, Points: 5},
				{UpTo: 0.8, Points: 4},
				{UpTo: 1.0, Points: 2.5},
				{UpTo: 1.3, Points: 1},
				{UpTo: 1.8, Points: -0.5},
				{UpTo: 2.5, Points: -2},
			},
			PEGDefaultAdjust: -4,
			AbsolutePETiers: []Tier{
				{UpTo: 15, Points: 18},
				{UpTo: 25, Points: 15},
				{UpTo: 35, Points: 12},
				{UpTo: 50, Points: 10},
			},
			AbsolutePEDefault: 8,
			FallbackPEGLow:    1.0,
			FallbackPEGHigh:   2.0,
			FallbackPEGBonus:  2,
			FallbackPEGMalus:  -2,
		},
		Quality: QualityTuning{
			DebtPoints:         3,
			CurrentRatioPoints: 2,
			LowDebtEquity:      0.5,
			ModerateDebtEquity: 2.0,
			DebtFloorStrong:    3.0,
			DebtFloorModerate:  1.5,

			StabilityBase:             2.5,
			StabilityHealthyBonus:     1.5,
			StabilityConsistencyBonus: 1.0,
			StabilityPenalty:          1.5,
			EPSCollapseFloor:          -50,
			EPSConsistencyBand:        10,

			CashFlowBands: []MarginBand{
				{OperatingMin: 20, NetMin: 10, Points: 5},
				{OperatingMin: 15, NetMin: 8, Points: 4},
				{OperatingMin: 10, NetMin: 5, Points: 3.5},
				{OperatingMin: 5, NetMin: 2, Points: 2},
			},
			CashFlowFloor:   0.5,
			CashFlowDefault: 2.5,

			ROESteps: []UpsideTier{
				{Above: 15, Points: 3},
				{Above: 10, Points: 2.5},
				{Above: 5, Points: 1.5},
				{Above: 0, Points: 0.5},
			},
			ROAPoints: 2,
			SubBudget: 5,

			SafeguardCashFlowMin:  4,
			SafeguardCapitalMin:   3.5,
			SafeguardStabilityMin: 3.5,
			SafeguardFloor:        10,
		},
		Analyst: AnalystTuning{
			RecommendationPoints: 15,
			UpsidePoints:         5,
			ConsensusBands: []AnalystBand{
				{MinPct: 85, Base: 14, Divisor: 15},
				{MinPct: 70, Base: 11, Divisor: 5},
				{MinPct: 55, Base: 8, Divisor: 5},
				{MinPct: 40, Base: 5, Divisor: 5},
				{MinPct: 25, Base: 2.5, Divisor: 6},
				{MinPct: 0, Base: 0, Divisor: 10},
			},
			UpsideTiers: []UpsideTier{
				{Above: 30, Points: 5},
				{Above: 20, Points: 4.5},
				{Above: 10, Points: 3.5},
				{Above: 5, Points: 2.5},
				{Above: 0, Points: 1.5},
				{Above: -5, Points: 0.5},
			},
			NoTargetPoints: 1,
		},
		Composite: CompositeTuning{
			ExcellentThreshold: 17,
			StrongThreshold:    15,
			WeakThreshold:      5,
			BonusExcellent4:    15,
			BonusExcellent3:    12,
			BonusStrong4:       8,
			BonusStrong3:       5,
			PenaltyWeak3:       10,
			PenaltyWeak2:       5,
		},
	}
}

// ZToPoints maps a z-score onto [0, maxPoints].
//
// The curve is a logistic centered at z=0 (so z=0 yields exactly
// maxPoints/2), with z clamped to +/- ZClamp first and an asymmetric
// amplification of AmplificationPerZ per unit z applied after: positive
// deviations are rewarded a little more, negative ones suppressed a
// little more. The result is monotonically non-decreasing in z.
func (t Tuning) ZToPoints(z, maxPoints float64) float64 {
	c := t.Curve
	if z > c.ZClamp {
		z = c.ZClamp
	} else if z < -c.ZClamp {
		z = -c.ZClamp
	}

	points := maxPoints / (1 + math.Exp(-c.Steepness*z))
	points *= 1 + c.AmplificationPerZ*z

	return math.Max(0, math.Min(maxPoints, points))
}

// Validate checks that a tuning is internally consistent
func (t Tuning) Validate() error {
	if t.FactorMax <= 0 {
		return fmt.Errorf("factor_max must be positive, got %v", t.FactorMax)
	}
	if t.Curve.ZClamp <= 0 {
		return fmt.Errorf("curve.z_clamp must be positive, got %v", t.Curve.ZClamp)
	}
	if t.Curve.Steepness <= 0 {
		return fmt.Errorf("curve.steepness must be positive, got %v", t.Curve.Steepness)
	}

	if got := t.Growth.RevenuePoints + t.Growth.EPSPoints; got != t.FactorMax {
		return fmt.Errorf("growth sub-budgets sum to %v, want %v", got, t.FactorMax)
	}
	if got := t.Profitability.ROEPoints + t.Profitability.NetMarginPoints + t.Profitability.OperatingMarginPoints; got != t.FactorMax {
		return fmt.Errorf("profitability sub-budgets sum to %v, want %v", got, t.FactorMax)
	}
	if got := t.Valuation.PEPoints + t.Valuation.PBPoints; got != t.FactorMax {
		return fmt.Errorf("valuation sub-budgets sum to %v, want %v", got, t.FactorMax)
	}
	if got := t.Analyst.RecommendationPoints + t.Analyst.UpsidePoints; got != t.FactorMax {
		return fmt.Errorf("analyst sub-budgets sum to %v, want %v", got, t.FactorMax)
	}
	if t.Valuation.MinPeers < 1 {
		return fmt.Errorf("valuation.min_peers must be at least 1, got %d", t.Valuation.MinPeers)
	}

	if err := tiersAscending("valuation.pe_ratio_tiers", t.Valuation.PERatioTiers); err != nil {
		return err
	}
	if err := tiersAscending("valuation.pb_ratio_tiers", t.Valuation.PBRatioTiers); err != nil {
		return err
	}
	if err := tiersAscending("valuation.peg_tiers", t.Valuation.PEGTiers); err != nil {
		return err
	}
	if err := tiersAscending("valuation.absolute_pe_tiers", t.Valuation.AbsolutePETiers); err != nil {
		return err
	}

	return nil
}

// tiersAscending checks that a tier table's bounds strictly increase
func tiersAscending(name string, tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("%s must not be empty", name)
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].UpTo <= tiers[i-1].UpTo {
			return fmt.Errorf("%s bounds must strictly increase (tier %d)", name, i)
		}
	}
	return nil
}
