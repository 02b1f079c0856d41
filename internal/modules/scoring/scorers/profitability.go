package scorers

import (
	"fmt"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
	"github.com/aristath/peerscore/pkg/formulas"
)

// ProfitabilityScorer calculates the profitability factor (0-20) from
// margins and returns relative to the peer basket
// Components:
// - ROE (8): z-score vs peers through the points curve
// - Net Margin (6): same pattern
// - Operating Margin (6): same pattern
type ProfitabilityScorer struct {
	tuning scoring.Tuning
}

// NewProfitabilityScorer creates a new profitability scorer
func NewProfitabilityScorer(tuning scoring.Tuning) *ProfitabilityScorer {
	return &ProfitabilityScorer{tuning: tuning}
}

// Calculate calculates the profitability factor score
func (ps *ProfitabilityScorer) Calculate(
	metrics *domain.FinancialMetrics,
	peers []domain.PeerMetrics,
	bench domain.IndustryBenchmark,
) domain.FactorScore {
	t := ps.tuning

	if metrics == nil || (metrics.ROE == nil && metrics.NetMargin == nil && metrics.OperatingMargin == nil) {
		return domain.FactorScore{
			Score:      roundScore(t.FactorMax/2, t.FactorMax),
			Detail:     "Profitability data unavailable",
			Tooltip:    "No ROE or margin figures were reported, so the profitability factor defaults to neutral.",
			Percentile: 50,
		}
	}

	peerROE := peerValues(peers, func(p domain.PeerMetrics) *float64 { return p.ROE })
	peerNet := peerValues(peers, func(p domain.PeerMetrics) *float64 { return p.NetMargin })
	peerOp := peerValues(peers, func(p domain.PeerMetrics) *float64 { return p.OperatingMargin })

	roePts := componentPoints(t, metrics.ROE, bench.AvgROE, peerROE, t.Profitability.ROEPoints)
	netPts := componentPoints(t, metrics.NetMargin, bench.AvgNetMargin, peerNet, t.Profitability.NetMarginPoints)
	opPts := componentPoints(t, metrics.OperatingMargin, bench.AvgOperatingMargin, peerOp, t.Profitability.OperatingMarginPoints)

	detail, tooltip := profitabilityText(metrics, bench)

	return domain.FactorScore{
		Score:      roundScore(roePts+netPts+opPts, t.FactorMax),
		Detail:     detail,
		Tooltip:    tooltip,
		Percentile: profitabilityPercentile(metrics, peers),
	}
}

// profitabilityPercentile ranks the target's average of ROE, net margin
// and operating margin against each peer's same composite
func profitabilityPercentile(metrics *domain.FinancialMetrics, peers []domain.PeerMetrics) int {
	sum := 0.0
	n := 0
	for _, v := range []*float64{metrics.ROE, metrics.NetMargin, metrics.OperatingMargin} {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 50
	}
	target := sum / float64(n)

	composites := make([]float64, 0, len(peers))
	for _, p := range peers {
		if p.ROE != nil && p.NetMargin != nil && p.OperatingMargin != nil {
			composites = append(composites, (*p.ROE+*p.NetMargin+*p.OperatingMargin)/3)
		}
	}

	return roundPercentile(formulas.PercentileRank(target, composites))
}

func profitabilityText(metrics *domain.FinancialMetrics, bench domain.IndustryBenchmark) (string, string) {
	part := func(label string, v *float64, peerMean float64) string {
		if v == nil {
			return label + " unavailable"
		}
		return label + " " + vsPeers(*v, peerMean)
	}

	roe := part("ROE", metrics.ROE, bench.AvgROE)
	net := part("net margin", metrics.NetMargin, bench.AvgNetMargin)
	op := part("operating margin", metrics.OperatingMargin, bench.AvgOperatingMargin)

	detail := fmt.Sprintf("Profitability: %s; %s; %s", roe, net, op)
	tooltip := fmt.Sprintf(
		"ROE, net margin and operating margin are compared against %d industry peers. Target %s, %s, %s.",
		bench.PeerCount, roe, net, op,
	)
	return detail, tooltip
}
