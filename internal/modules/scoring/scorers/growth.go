package scorers

import (
	"fmt"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
	"github.com/aristath/peerscore/pkg/formulas"
)

// GrowthScorer calculates the growth factor (0-20) from revenue and EPS
// growth relative to the peer basket
// Components:
// - Revenue Growth (10): z-score vs peer sample through the points curve
// - EPS Growth (10): same pattern
// Quarterly year-over-year growth is preferred, annual growth is the
// fallback when the quarterly figure is unavailable.
type GrowthScorer struct {
	tuning scoring.Tuning
}

// NewGrowthScorer creates a new growth scorer
func NewGrowthScorer(tuning scoring.Tuning) *GrowthScorer {
	return &GrowthScorer{tuning: tuning}
}

// Calculate calculates the growth factor score
func (gs *GrowthScorer) Calculate(
	metrics *domain.FinancialMetrics,
	peers []domain.PeerMetrics,
	bench domain.IndustryBenchmark,
) domain.FactorScore {
	t := gs.tuning

	var revenue, eps *float64
	if metrics != nil {
		revenue = coalesce(metrics.RevenueGrowthYoY, metrics.RevenueGrowthAnnual)
		eps = coalesce(metrics.EPSGrowthYoY, metrics.EPSGrowthAnnual)
	}

	if revenue == nil && eps == nil {
		return domain.FactorScore{
			Score:      roundScore(t.FactorMax/2, t.FactorMax),
			Detail:     "Growth data unavailable",
			Tooltip:    "No revenue or EPS growth figures were reported, so the growth factor defaults to neutral.",
			Percentile: 50,
		}
	}

	peerRevenue := peerValues(peers, func(p domain.PeerMetrics) *float64 { return p.RevenueGrowth })
	peerEPS := peerValues(peers, func(p domain.PeerMetrics) *float64 { return p.EPSGrowth })

	revenuePts := componentPoints(t, revenue, bench.AvgRevenueGrowth, peerRevenue, t.Growth.RevenuePoints)
	epsPts := componentPoints(t, eps, bench.AvgEPSGrowth, peerEPS, t.Growth.EPSPoints)

	detail, tooltip := growthText(revenue, eps, bench)

	return domain.FactorScore{
		Score:      roundScore(revenuePts+epsPts, t.FactorMax),
		Detail:     detail,
		Tooltip:    tooltip,
		Percentile: growthPercentile(revenue, eps, peers),
	}
}

// componentPoints scores one metric against the peer sample: standard
// deviation around the benchmark mean, z-score, points curve. A missing
// metric earns half its budget.
func componentPoints(t scoring.Tuning, value *float64, peerMean float64, peerSample []float64, budget float64) float64 {
	if value == nil {
		return budget / 2
	}
	stdDev := formulas.StdDevAround(peerSample, peerMean)
	z := formulas.ZScore(*value, peerMean, stdDev)
	return t.ZToPoints(z, budget)
}

// growthPercentile ranks the target's average of revenue and EPS growth
// against each peer's same composite
func growthPercentile(revenue, eps *float64, peers []domain.PeerMetrics) int {
	var target float64
	switch {
	case revenue != nil && eps != nil:
		target = (*revenue + *eps) / 2
	case revenue != nil:
		target = *revenue
	case eps != nil:
		target = *eps
	default:
		return 50
	}

	composites := make([]float64, 0, len(peers))
	for _, p := range peers {
		if p.RevenueGrowth != nil && p.EPSGrowth != nil {
			composites = append(composites, (*p.RevenueGrowth+*p.EPSGrowth)/2)
		}
	}

	return roundPercentile(formulas.PercentileRank(target, composites))
}

func growthText(revenue, eps *float64, bench domain.IndustryBenchmark) (string, string) {
	revPart := "revenue growth unavailable"
	if revenue != nil {
		revPart = "revenue growth " + vsPeers(*revenue, bench.AvgRevenueGrowth)
	}
	epsPart := "EPS growth unavailable"
	if eps != nil {
		epsPart = "EPS growth " + vsPeers(*eps, bench.AvgEPSGrowth)
	}

	detail := fmt.Sprintf("Growth: %s; %s", revPart, epsPart)
	tooltip := fmt.Sprintf(
		"Revenue and EPS growth are compared against %d industry peers. Target %s and %s.",
		bench.PeerCount, revPart, epsPart,
	)
	return detail, tooltip
}
