package scorers

import (
	"fmt"
	"math"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
	"github.com/aristath/peerscore/pkg/formulas"
)

// QualityScorer calculates the quality factor (0-20) from balance-sheet
// strength, earnings stability, a cash-flow proxy and capital efficiency
// Components (each capped at 5):
// - Balance Sheet: inverted D/E z-score (3) + current ratio z-score (2)
// - Earnings Stability: margin/EPS-trend proxy around a neutral base
// - Cash-Flow Quality: banded jointly on operating and net margin
// - Capital Efficiency: ROE step curve + ROA z-score
//
// Earnings stability and cash-flow quality are proxies: the upstream
// data contains no cash-flow statements and no multi-year EPS history,
// so margins and growth figures stand in for them. Upgrading these to
// real cash-flow analysis would change the scoring semantics.
type QualityScorer struct {
	tuning scoring.Tuning
}

// NewQualityScorer creates a new quality scorer
func NewQualityScorer(tuning scoring.Tuning) *QualityScorer {
	return &QualityScorer{tuning: tuning}
}

// Calculate calculates the quality factor score
func (qs *QualityScorer) Calculate(
	metrics *domain.FinancialMetrics,
	peers []domain.PeerMetrics,
	bench domain.IndustryBenchmark,
) domain.FactorScore {
	t := qs.tuning

	if metrics == nil {
		return domain.FactorScore{
			Score:      roundScore(t.FactorMax/2, t.FactorMax),
			Detail:     "Quality data unavailable",
			Tooltip:    "No financial metrics were reported, so the quality factor defaults to neutral.",
			Percentile: 50,
		}
	}

	balance := qs.balanceSheetScore(metrics, peers, bench)
	stability := qs.earningsStabilityScore(metrics)
	cashFlow := qs.cashFlowScore(metrics)
	capital := qs.capitalEfficiencyScore(metrics, peers, bench)

	total := balance + stability + cashFlow + capital

	// Mega-cap safeguard: a company that generates cash, deploys capital
	// well and earns steadily should not land below the neutral midpoint
	// purely on leverage.
	q := t.Quality
	if cashFlow >= q.SafeguardCashFlowMin && capital >= q.SafeguardCapitalMin && stability >= q.SafeguardStabilityMin {
		total = math.Max(q.SafeguardFloor, total)
	}

	detail := fmt.Sprintf(
		"Quality: balance sheet %.1f/5, earnings stability %.1f/5, cash flow %.1f/5, capital efficiency %.1f/5",
		balance, stability, cashFlow, capital,
	)
	tooltip := fmt.Sprintf(
		"Balance-sheet strength and capital efficiency are measured against %d industry peers. "+
			"Earnings stability and cash-flow quality are proxies derived from margins and EPS trends, "+
			"since cash-flow statements are not available upstream.",
		bench.PeerCount,
	)

	return domain.FactorScore{
		Score:      roundScore(total, t.FactorMax),
		Detail:     detail,
		Tooltip:    tooltip,
		Percentile: qualityPercentile(metrics, peers),
	}
}

// balanceSheetScore combines an inverted debt/equity z-score with a
// current ratio z-score. Low absolute leverage floors the debt part so a
// conservatively financed company is not punished by a conservative peer
// group.
func (qs *QualityScorer) balanceSheetScore(
	metrics *domain.FinancialMetrics,
	peers []domain.PeerMetrics,
	bench domain.IndustryBenchmark,
) float64 {
	t := qs.tuning
	q := t.Quality

	debtPts := q.DebtPoints / 2
	if metrics.DebtToEquity != nil {
		peerDE := peerValues(peers, func(p domain.PeerMetrics) *float64 { return p.DebtToEquity })
		stdDev := formulas.StdDevAround(peerDE, bench.AvgDebtToEquity)
		z := formulas.ZScore(*metrics.DebtToEquity, bench.AvgDebtToEquity, stdDev)
		debtPts = t.ZToPoints(-z, q.DebtPoints) // Lower leverage is better

		if *metrics.DebtToEquity < q.LowDebtEquity {
			debtPts = math.Max(debtPts, q.DebtFloorStrong)
		} else if *metrics.DebtToEquity < q.ModerateDebtEquity {
			debtPts = math.Max(debtPts, q.DebtFloorModerate)
		}
	}

	crPts := q.CurrentRatioPoints / 2
	if metrics.CurrentRatio != nil {
		peerCR := peerValues(peers, func(p domain.PeerMetrics) *float64 { return p.CurrentRatio })
		stdDev := formulas.StdDevAround(peerCR, bench.AvgCurrentRatio)
		z := formulas.ZScore(*metrics.CurrentRatio, bench.AvgCurrentRatio, stdDev)
		crPts = t.ZToPoints(z, q.CurrentRatioPoints)
	}

	return clamp(debtPts+crPts, 0, q.SubBudget)
}

// earningsStabilityScore proxies multi-year earnings stability from the
// current margin and EPS trajectory: profitable and not collapsing earns
// a bonus, consistent quarterly vs annual growth earns another, anything
// else is penalized. Missing inputs leave the neutral base untouched.
func (qs *QualityScorer) earningsStabilityScore(metrics *domain.FinancialMetrics) float64 {
	q := qs.tuning.Quality

	score := q.StabilityBase

	annualEPS := coalesce(metrics.EPSGrowthAnnual, metrics.EPSGrowthYoY)
	if metrics.NetMargin != nil && annualEPS != nil {
		if *metrics.NetMargin > 0 && *annualEPS > q.EPSCollapseFloor {
			score += q.StabilityHealthyBonus
			if metrics.EPSGrowthYoY != nil && metrics.EPSGrowthAnnual != nil &&
				math.Abs(*metrics.EPSGrowthYoY-*metrics.EPSGrowthAnnual) < q.EPSConsistencyBand {
				score += q.StabilityConsistencyBonus
			}
		} else {
			score -= q.StabilityPenalty
		}
	}

	return clamp(score, 0, q.SubBudget)
}

// cashFlowScore proxies cash-flow quality from operating and net margin
// jointly, since cash-flow statements are unavailable upstream
func (qs *QualityScorer) cashFlowScore(metrics *domain.FinancialMetrics) float64 {
	q := qs.tuning.Quality

	if metrics.OperatingMargin == nil || metrics.NetMargin == nil {
		return q.CashFlowDefault
	}

	om := *metrics.OperatingMargin
	nm := *metrics.NetMargin

	if om < 0 || nm < 0 {
		return q.CashFlowFloor
	}
	for _, band := range q.CashFlowBands {
		if om > band.OperatingMin && nm > band.NetMin {
			return band.Points
		}
	}
	return q.CashFlowDefault
}

// capitalEfficiencyScore combines an absolute ROE step curve (ROIC proxy)
// with an ROA z-score against the peers
func (qs *QualityScorer) capitalEfficiencyScore(
	metrics *domain.FinancialMetrics,
	peers []domain.PeerMetrics,
	bench domain.IndustryBenchmark,
) float64 {
	t := qs.tuning
	q := t.Quality

	roePts := 0.0
	if metrics.ROE != nil {
		roePts = upsidePoints(q.ROESteps, *metrics.ROE, 0)
	}

	roaPts := q.ROAPoints / 2
	if metrics.ROA != nil {
		peerROA := peerValues(peers, func(p domain.PeerMetrics) *float64 { return p.ROA })
		stdDev := formulas.StdDevAround(peerROA, bench.AvgROA)
		z := formulas.ZScore(*metrics.ROA, bench.AvgROA, stdDev)
		roaPts = t.ZToPoints(z, q.ROAPoints)
	}

	return clamp(roePts+roaPts, 0, q.SubBudget)
}

// qualityPercentile ranks the target's ROE against the peers, the closest
// single proxy for overall quality standing
func qualityPercentile(metrics *domain.FinancialMetrics, peers []domain.PeerMetrics) int {
	if metrics.ROE == nil {
		return 50
	}
	peerROE := peerValues(peers, func(p domain.PeerMetrics) *float64 { return p.ROE })
	return roundPercentile(formulas.PercentileRank(*metrics.ROE, peerROE))
}
