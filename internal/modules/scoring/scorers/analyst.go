package scorers

import (
	"fmt"
	"math"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
)

// AnalystScorer calculates the analyst factor (0-20) from recommendation
// consensus and price-target upside. It has no peer dependency.
// Components:
// - Recommendation Consensus (15): piecewise-linear curve on bullish %
// - Price Target (5): upside tiers vs the current price
type AnalystScorer struct {
	tuning scoring.Tuning
}

// NewAnalystScorer creates a new analyst scorer
func NewAnalystScorer(tuning scoring.Tuning) *AnalystScorer {
	return &AnalystScorer{tuning: tuning}
}

// Calculate calculates the analyst factor score
func (as *AnalystScorer) Calculate(
	recommendations *domain.RecommendationTrend,
	priceTarget *domain.PriceTarget,
	currentPrice float64,
) domain.FactorScore {
	t := as.tuning
	a := t.Analyst

	if recommendations == nil || recommendations.Total() == 0 {
		return domain.FactorScore{
			Score:      roundScore(t.FactorMax/2, t.FactorMax),
			Detail:     "No analyst coverage",
			Tooltip:    "No recommendation data exists for this company, so the analyst factor defaults to neutral.",
			Percentile: 50,
		}
	}

	total := recommendations.Total()
	bullishPct := float64(recommendations.StrongBuy+recommendations.Buy) / float64(total) * 100

	recPts := consensusPoints(a, bullishPct)

	upsidePts := a.NoTargetPoints
	upsideNote := "no price target available"
	if priceTarget != nil && priceTarget.Mean != nil && currentPrice > 0 {
		upside := (*priceTarget.Mean - currentPrice) / currentPrice * 100
		upsidePts = upsidePoints(a.UpsideTiers, upside, 0)
		upsideNote = fmt.Sprintf("mean target %.2f implies %.1f%% upside", *priceTarget.Mean, upside)
	}

	detail := fmt.Sprintf("Analysts: %.0f%% bullish of %d covering; %s", bullishPct, total, upsideNote)
	tooltip := fmt.Sprintf(
		"%d of %d analysts rate the company buy or strong buy (%.0f%% bullish) and %s.",
		recommendations.StrongBuy+recommendations.Buy, total, bullishPct, upsideNote,
	)

	return domain.FactorScore{
		Score:      roundScore(recPts+upsidePts, t.FactorMax),
		Detail:     detail,
		Tooltip:    tooltip,
		Percentile: roundPercentile(bullishPct),
	}
}

// consensusPoints maps the bullish percentage through the piecewise-linear
// consensus curve, capped at the recommendation budget
func consensusPoints(a scoring.AnalystTuning, bullishPct float64) float64 {
	for _, band := range a.ConsensusBands {
		if bullishPct >= band.MinPct {
			return math.Min(a.RecommendationPoints, band.Base+(bullishPct-band.MinPct)/band.Divisor)
		}
	}
	return 0
}
