package scorers

import (
	"reflect"
	"testing"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
)

func factorScores(scores ...int) []domain.FactorScore {
	factors := make([]domain.FactorScore, len(scores))
	for i, s := range scores {
		factors[i] = domain.FactorScore{Score: s}
	}
	return factors
}

func TestCompositeFrom(t *testing.T) {
	scorer := NewCompanyScorer(scoring.DefaultTuning())

	tests := []struct {
		name        string
		description string
		scores      []int
		wantFinal   int
		wantBonus   float64
		wantPenalty float64
	}{
		{
			name:        "Five excellent factors clamp at the ceiling",
			scores:      []int{18, 18, 18, 18, 18},
			wantFinal:   100, // raw 90 + 15 = 105, clamped
			wantBonus:   15,
			wantPenalty: 0,
			description: "excellent>=4 earns +15 and the sum clamps at 100",
		},
		{
			name:        "Three weak factors take the full penalty",
			scores:      []int{3, 3, 3, 15, 15},
			wantFinal:   29, // raw 39 - 10
			wantBonus:   0,
			wantPenalty: 10,
			description: "weak>=3 costs 10; two strong factors earn no bonus tier",
		},
		{
			name:        "Three excellent factors",
			scores:      []int{17, 17, 17, 10, 10},
			wantFinal:   83, // raw 71 + 12
			wantBonus:   12,
			wantPenalty: 0,
			description: "excellent>=3 earns +12",
		},
		{
			name:        "Four strong factors",
			scores:      []int{16, 16, 16, 16, 10},
			wantFinal:   82, // raw 74 + 8
			wantBonus:   8,
			wantPenalty: 0,
			description: "strong>=4 earns +8 when excellence is not broad enough",
		},
		{
			name:        "Bonus and penalty can coexist",
			scores:      []int{3, 3, 15, 15, 15},
			wantFinal:   51, // raw 51 + 5 - 5
			wantBonus:   5,
			wantPenalty: 5,
			description: "strong>=3 earns +5 while weak>=2 costs 5",
		},
		{
			name:        "Middling scores take no adjustment",
			scores:      []int{10, 10, 10, 10, 10},
			wantFinal:   50,
			wantBonus:   0,
			wantPenalty: 0,
			description: "No threshold crossed",
		},
		{
			name:        "All weak floors at zero",
			scores:      []int{0, 0, 0, 0, 0},
			wantFinal:   0, // raw 0 - 10, clamped
			wantBonus:   0,
			wantPenalty: 10,
			description: "The penalty cannot push the composite below 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, bonus, penalty := scorer.compositeFrom(factorScores(tt.scores...))

			if final != tt.wantFinal || bonus != tt.wantBonus || penalty != tt.wantPenalty {
				t.Errorf("compositeFrom() = (%d, %v, %v), want (%d, %v, %v)\nDescription: %s",
					final, bonus, penalty, tt.wantFinal, tt.wantBonus, tt.wantPenalty, tt.description)
			}
		})
	}
}

func scoreFixture() ScoreInput {
	return ScoreInput{
		Symbol:       "ACME",
		Industry:     "Semiconductors",
		CurrentPrice: 100,
		Metrics: &domain.FinancialMetrics{
			RevenueGrowthYoY: f(18),
			EPSGrowthYoY:     f(15),
			EPSGrowthAnnual:  f(12),
			ROE:              f(22),
			NetMargin:        f(14),
			OperatingMargin:  f(21),
			PERatio:          f(24),
			PBRatio:          f(3.5),
			PEGRatio:         f(1.2),
			DebtToEquity:     f(0.8),
			CurrentRatio:     f(2.1),
			ROA:              f(9),
		},
		Peers: []domain.PeerMetrics{
			{Symbol: "PEER1", RevenueGrowth: f(10), EPSGrowth: f(8), ROE: f(15), NetMargin: f(10),
				OperatingMargin: f(15), PERatio: f(28), PBRatio: f(4), DebtToEquity: f(1.1),
				CurrentRatio: f(1.8), ROA: f(6), Momentum1M: f(2), Momentum3M: f(5)},
			{Symbol: "PEER2", RevenueGrowth: f(14), EPSGrowth: f(11), ROE: f(18), NetMargin: f(12),
				OperatingMargin: f(18), PERatio: f(32), PBRatio: f(5), DebtToEquity: f(0.9),
				CurrentRatio: f(2.0), ROA: f(7), Momentum1M: f(-1), Momentum3M: f(3)},
			{Symbol: "PEER3", RevenueGrowth: f(7), EPSGrowth: f(5), ROE: f(12), NetMargin: f(8),
				OperatingMargin: f(12), PERatio: f(22), PBRatio: f(3), DebtToEquity: f(1.4),
				CurrentRatio: f(1.5), ROA: f(5), Momentum1M: f(4), Momentum3M: f(9)},
		},
		Recommendations: &domain.RecommendationTrend{StrongBuy: 8, Buy: 6, Hold: 4, Sell: 1},
		PriceTarget:     &domain.PriceTarget{Mean: f(118), High: f(140), Low: f(95)},
	}
}

func TestCompanyScorerEndToEnd(t *testing.T) {
	scorer := NewCompanyScorer(scoring.DefaultTuning())

	got := scorer.Score(scoreFixture())

	if got.Symbol != "ACME" {
		t.Errorf("Symbol = %q, want ACME", got.Symbol)
	}
	if got.Composite < 0 || got.Composite > 100 {
		t.Errorf("Composite = %d out of range [0, 100]", got.Composite)
	}
	if got.Benchmark.PeerCount != 3 || got.Benchmark.Industry != "Semiconductors" {
		t.Errorf("Benchmark = %+v, want 3 Semiconductors peers", got.Benchmark)
	}

	for name, factor := range map[string]domain.FactorScore{
		"growth":        got.Breakdown.Growth,
		"profitability": got.Breakdown.Profitability,
		"valuation":     got.Breakdown.Valuation,
		"quality":       got.Breakdown.Quality,
		"analyst":       got.Breakdown.Analyst,
	} {
		if factor.Score < 0 || factor.Score > 20 {
			t.Errorf("%s score %d out of range [0, 20]", name, factor.Score)
		}
		if factor.Percentile < 0 || factor.Percentile > 100 {
			t.Errorf("%s percentile %d out of range [0, 100]", name, factor.Percentile)
		}
		if factor.Detail == "" || factor.Tooltip == "" {
			t.Errorf("%s is missing rationale text", name)
		}
		if got.Breakdown.Peers.Percentiles[name] != factor.Percentile {
			t.Errorf("%s percentile map entry does not match the factor", name)
		}
	}

	if got.Breakdown.Description == "" {
		t.Errorf("Breakdown description should not be empty")
	}
}

func TestCompanyScorerDeterminism(t *testing.T) {
	scorer := NewCompanyScorer(scoring.DefaultTuning())

	first := scorer.Score(scoreFixture())
	second := scorer.Score(scoreFixture())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Identical inputs produced different outputs:\n%+v\n%+v", first, second)
	}
}

func TestCompanyScorerEmptyPeerBasket(t *testing.T) {
	input := scoreFixture()
	input.Peers = nil

	got := NewCompanyScorer(scoring.DefaultTuning()).Score(input)

	// Zero peer spread forces neutral z-scores for the relative factors
	// and valuation falls back to absolute thresholds. Analyst scoring
	// has no peer dependency and is unaffected.
	if got.Breakdown.Growth.Score != 10 {
		t.Errorf("Growth = %d, want 10 with no peers", got.Breakdown.Growth.Score)
	}
	if got.Breakdown.Profitability.Score != 10 {
		t.Errorf("Profitability = %d, want 10 with no peers", got.Breakdown.Profitability.Score)
	}

	// P/E 24 on the absolute table (15 base) adjusted by PEG 1.2 (+0)
	if got.Breakdown.Valuation.Score != 15 {
		t.Errorf("Valuation = %d, want 15 via the absolute fallback", got.Breakdown.Valuation.Score)
	}

	withPeers := NewCompanyScorer(scoring.DefaultTuning()).Score(scoreFixture())
	if got.Breakdown.Analyst != withPeers.Breakdown.Analyst {
		t.Errorf("Analyst factor should not depend on peers")
	}

	if got.Composite < 0 || got.Composite > 100 {
		t.Errorf("Composite = %d out of range even with no peers", got.Composite)
	}
}
