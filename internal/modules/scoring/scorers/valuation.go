package scorers

import (
	"fmt"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
	"github.com/aristath/peerscore/pkg/formulas"
)

// ValuationScorer calculates the valuation factor (0-20) from P/E, P/B
// and PEG using tiered relative-position tables
// Components:
// - P/E vs peer mean (12): 10-tier ratio table plus PEG adjustment
// - P/B vs peer mean (8): 7-tier ratio table
//
// Tier tables are used instead of a raw z-score: valuation multiples
// cluster tightly around the peer mean, and a continuous curve would be
// oversensitive exactly where discrimination matters least.
type ValuationScorer struct {
	tuning scoring.Tuning
}

// NewValuationScorer creates a new valuation scorer
func NewValuationScorer(tuning scoring.Tuning) *ValuationScorer {
	return &ValuationScorer{tuning: tuning}
}

// Calculate calculates the valuation factor score
func (vs *ValuationScorer) Calculate(
	metrics *domain.FinancialMetrics,
	peers []domain.PeerMetrics,
	bench domain.IndustryBenchmark,
) domain.FactorScore {
	t := vs.tuning
	v := t.Valuation

	var pe, pb, peg *float64
	if metrics != nil {
		pe = metrics.PERatio
		pb = metrics.PBRatio
		peg = metrics.PEGRatio
	}

	// Earnings not meaningful: negative, zero or implausible P/E
	if pe == nil || *pe <= 0 || *pe > v.MaxMeaningfulPE {
		return domain.FactorScore{
			Score:      roundScore(t.FactorMax/2, t.FactorMax),
			Detail:     "Valuation: P/E not meaningful",
			Tooltip:    "The P/E ratio is missing, negative or implausibly high, so earnings-based valuation is skipped and the factor defaults to neutral.",
			Percentile: 50,
		}
	}

	peerPEs := usablePeerPEs(peers, v.MaxMeaningfulPE)

	// Too few peers for a stable relative ratio: absolute thresholds
	if len(peerPEs) < v.MinPeers {
		return vs.absoluteFallback(*pe, peg, peerPEs)
	}

	peerMeanPE := formulas.Mean(peerPEs)
	peRatio := *pe / peerMeanPE

	peComponent := tierPoints(v.PERatioTiers, peRatio, v.PERatioFloor)
	if peg != nil {
		peComponent += tierPoints(v.PEGTiers, *peg, v.PEGDefaultAdjust)
	}
	peComponent = clamp(peComponent, 0, v.PEPoints)

	pbComponent, pbNote := vs.pbComponent(pb, peers)

	detail := fmt.Sprintf("Valuation: P/E %.1f vs peer avg %.1f (%.2fx); %s", *pe, peerMeanPE, peRatio, pbNote)
	tooltip := fmt.Sprintf(
		"P/E of %.1f is %.2fx the peer mean of %.1f across %d usable peers. %s PEG and P/B refine the base score.",
		*pe, peRatio, peerMeanPE, len(peerPEs), pegNote(peg),
	)

	return domain.FactorScore{
		Score:      roundScore(peComponent+pbComponent, t.FactorMax),
		Detail:     detail,
		Tooltip:    tooltip,
		Percentile: valuationPercentile(*pe, peerPEs),
	}
}

// absoluteFallback scores on absolute P/E thresholds when the peer basket
// is too thin for relative valuation
func (vs *ValuationScorer) absoluteFallback(pe float64, peg *float64, peerPEs []float64) domain.FactorScore {
	t := vs.tuning
	v := t.Valuation

	points := tierPoints(v.AbsolutePETiers, pe, v.AbsolutePEDefault)
	if peg != nil {
		if *peg < v.FallbackPEGLow {
			points += v.FallbackPEGBonus
		} else if *peg > v.FallbackPEGHigh {
			points += v.FallbackPEGMalus
		}
	}

	return domain.FactorScore{
		Score:  roundScore(clamp(points, 0, t.FactorMax), t.FactorMax),
		Detail: fmt.Sprintf("Valuation: P/E %.1f on absolute thresholds (thin peer data)", pe),
		Tooltip: fmt.Sprintf(
			"Fewer than %d peers report a usable P/E, so the score falls back to absolute P/E thresholds. %s",
			v.MinPeers, pegNote(peg),
		),
		Percentile: valuationPercentile(pe, peerPEs),
	}
}

// pbComponent scores price-to-book against the peer mean, or returns the
// neutral default when data is too thin
func (vs *ValuationScorer) pbComponent(pb *float64, peers []domain.PeerMetrics) (float64, string) {
	v := vs.tuning.Valuation

	peerPBs := make([]float64, 0, len(peers))
	for _, p := range peers {
		if p.PBRatio != nil && *p.PBRatio > 0 {
			peerPBs = append(peerPBs, *p.PBRatio)
		}
	}

	if pb == nil || *pb <= 0 || len(peerPBs) < v.MinPeers {
		return v.PBDefault, "P/B data unavailable"
	}

	peerMeanPB := formulas.Mean(peerPBs)
	pbRatio := *pb / peerMeanPB
	return tierPoints(v.PBRatioTiers, pbRatio, v.PBRatioFloor),
		fmt.Sprintf("P/B %.2f vs peer avg %.2f", *pb, peerMeanPB)
}

// valuationPercentile inverts the P/E rank: a lower multiple than the
// peers means a higher standing
func valuationPercentile(pe float64, peerPEs []float64) int {
	return roundPercentile(100 - formulas.PercentileRank(pe, peerPEs))
}

// usablePeerPEs filters the basket down to meaningful P/E values
func usablePeerPEs(peers []domain.PeerMetrics, maxPE float64) []float64 {
	values := make([]float64, 0, len(peers))
	for _, p := range peers {
		if p.PERatio != nil && *p.PERatio > 0 && *p.PERatio <= maxPE {
			values = append(values, *p.PERatio)
		}
	}
	return values
}

func pegNote(peg *float64) string {
	if peg == nil {
		return "No PEG ratio was available."
	}
	return fmt.Sprintf("PEG ratio is %.2f.", *peg)
}
