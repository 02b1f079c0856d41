package scorers

import (
	"fmt"
	"math"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
)

// ScoreInput is the complete input contract for one scoring invocation.
// All fields are read-only to the engine.
type ScoreInput struct {
	Symbol          string
	Industry        string
	CurrentPrice    float64
	Metrics         *domain.FinancialMetrics
	Peers           []domain.PeerMetrics
	Recommendations *domain.RecommendationTrend
	PriceTarget     *domain.PriceTarget
}

// CompanyScorer runs the full peer-relative scoring pipeline: benchmark
// once, five independent factor scorers, then the composite reduction.
//
// The scorer is stateless and a pure function of its input plus its
// tuning; any number of invocations may run concurrently.
type CompanyScorer struct {
	tuning        scoring.Tuning
	benchmark     *BenchmarkBuilder
	growth        *GrowthScorer
	profitability *ProfitabilityScorer
	valuation     *ValuationScorer
	quality       *QualityScorer
	analyst       *AnalystScorer
}

// NewCompanyScorer creates a company scorer with the given tuning
func NewCompanyScorer(tuning scoring.Tuning) *CompanyScorer {
	return &CompanyScorer{
		tuning:        tuning,
		benchmark:     NewBenchmarkBuilder(),
		growth:        NewGrowthScorer(tuning),
		profitability: NewProfitabilityScorer(tuning),
		valuation:     NewValuationScorer(tuning),
		quality:       NewQualityScorer(tuning),
		analyst:       NewAnalystScorer(tuning),
	}
}

// Score computes the composite score and its auditable breakdown. It is
// total: every missing or degenerate input degrades to a documented
// neutral, never an error.
func (cs *CompanyScorer) Score(input ScoreInput) domain.CompanyScore {
	bench := cs.benchmark.Build(input.Industry, input.Peers)

	growth := cs.growth.Calculate(input.Metrics, input.Peers, bench)
	profitability := cs.profitability.Calculate(input.Metrics, input.Peers, bench)
	valuation := cs.valuation.Calculate(input.Metrics, input.Peers, bench)
	quality := cs.quality.Calculate(input.Metrics, input.Peers, bench)
	analyst := cs.analyst.Calculate(input.Recommendations, input.PriceTarget, input.CurrentPrice)

	factors := []domain.FactorScore{growth, profitability, valuation, quality, analyst}
	final, bonus, penalty := cs.compositeFrom(factors)

	breakdown := domain.ScoreBreakdown{
		Growth:        growth,
		Profitability: profitability,
		Valuation:     valuation,
		Quality:       quality,
		Analyst:       analyst,
		Description:   compositeDescription(final, bonus, penalty, bench),
		Peers: domain.PeerContext{
			Industry:  bench.Industry,
			PeerCount: bench.PeerCount,
			Percentiles: map[string]int{
				"growth":        growth.Percentile,
				"profitability": profitability.Percentile,
				"valuation":     valuation.Percentile,
				"quality":       quality.Percentile,
				"analyst":       analyst.Percentile,
			},
		},
	}

	return domain.CompanyScore{
		Symbol:    input.Symbol,
		Composite: final,
		Breakdown: breakdown,
		Benchmark: bench,
	}
}

// compositeFrom reduces the five factor scores to the final composite:
// plain sum, compound bonus minus penalty, clamp to [0, 100]
func (cs *CompanyScorer) compositeFrom(factors []domain.FactorScore) (final int, bonus, penalty float64) {
	rawTotal := 0
	for _, f := range factors {
		rawTotal += f.Score
	}

	bonus, penalty = cs.compoundAdjustment(factors)
	final = int(clamp(math.Round(float64(rawTotal)+bonus-penalty), 0, 100))
	return final, bonus, penalty
}

// compoundAdjustment counts how many factors cross the excellent, strong
// and weak thresholds and converts the counts into a bonus and a penalty.
// Broad excellence is rewarded beyond the plain sum; broad weakness is
// penalized beyond it.
func (cs *CompanyScorer) compoundAdjustment(factors []domain.FactorScore) (bonus, penalty float64) {
	c := cs.tuning.Composite

	excellent, strong, weak := 0, 0, 0
	for _, f := range factors {
		s := float64(f.Score)
		if s >= c.ExcellentThreshold {
			excellent++
		}
		if s >= c.StrongThreshold {
			strong++
		}
		if s <= c.WeakThreshold {
			weak++
		}
	}

	switch {
	case excellent >= 4:
		bonus = c.BonusExcellent4
	case excellent >= 3:
		bonus = c.BonusExcellent3
	case strong >= 4:
		bonus = c.BonusStrong4
	case strong >= 3:
		bonus = c.BonusStrong3
	}

	switch {
	case weak >= 3:
		penalty = c.PenaltyWeak3
	case weak >= 2:
		penalty = c.PenaltyWeak2
	}

	return bonus, penalty
}

// compositeDescription builds the human-readable composite summary
func compositeDescription(final int, bonus, penalty float64, bench domain.IndustryBenchmark) string {
	desc := fmt.Sprintf("Composite %d/100 (%s) vs %d %s peers",
		final, ratingLabel(final), bench.PeerCount, bench.Industry)

	if bonus > 0 {
		desc += fmt.Sprintf(", includes +%.0f breadth bonus", bonus)
	}
	if penalty > 0 {
		desc += fmt.Sprintf(", includes -%.0f weakness penalty", penalty)
	}

	return desc
}

// ratingLabel maps a composite score onto a display rating
func ratingLabel(score int) string {
	switch {
	case score >= 85:
		return "exceptional"
	case score >= 70:
		return "strong"
	case score >= 55:
		return "above average"
	case score >= 45:
		return "average"
	case score >= 30:
		return "below average"
	default:
		return "weak"
	}
}
