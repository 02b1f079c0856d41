package scorers

import (
	"strings"
	"testing"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
)

func qualityPeers() []domain.PeerMetrics {
	return []domain.PeerMetrics{
		{Symbol: "AAA", DebtToEquity: f(1.0), CurrentRatio: f(2.0), ROE: f(12), ROA: f(6)},
		{Symbol: "BBB", DebtToEquity: f(1.0), CurrentRatio: f(2.0), ROE: f(12), ROA: f(6)},
		{Symbol: "CCC", DebtToEquity: f(1.0), CurrentRatio: f(2.0), ROE: f(12), ROA: f(6)},
	}
}

func TestQualityScorerMissingBundle(t *testing.T) {
	peers := qualityPeers()
	bench := NewBenchmarkBuilder().Build("Industrials", peers)

	got := NewQualityScorer(scoring.DefaultTuning()).Calculate(nil, peers, bench)

	if got.Score != 10 || got.Percentile != 50 {
		t.Errorf("got {score:%d, percentile:%d}, want neutral {10, 50}", got.Score, got.Percentile)
	}
}

func TestQualityScorerSolidCompany(t *testing.T) {
	peers := qualityPeers()
	bench := NewBenchmarkBuilder().Build("Industrials", peers)

	// Matches the peers on leverage and liquidity (z=0 everywhere),
	// profitable and consistent on earnings, healthy margins:
	// balance 2.5 + stability 5 + cash flow 3.5 + capital 4 = 15
	metrics := &domain.FinancialMetrics{
		DebtToEquity:    f(1.0),
		CurrentRatio:    f(2.0),
		NetMargin:       f(8),
		OperatingMargin: f(12),
		EPSGrowthYoY:    f(5),
		EPSGrowthAnnual: f(5),
		ROE:             f(20),
		ROA:             f(6),
	}

	got := NewQualityScorer(scoring.DefaultTuning()).Calculate(metrics, peers, bench)

	if got.Score != 15 {
		t.Errorf("Score = %d, want 15", got.Score)
	}
	if got.Percentile != 100 {
		t.Errorf("Percentile = %d, want 100 (ROE above every peer)", got.Percentile)
	}
	if !strings.Contains(got.Tooltip, "proxies") {
		t.Errorf("Tooltip should state the proxy limitation, got %q", got.Tooltip)
	}
}

func TestQualityScorerLowLeverageFloor(t *testing.T) {
	// Peers are even less levered than the target, so the raw inverted
	// z-score would collapse the debt sub-score. Absolute leverage below
	// 0.5 floors it at full strength instead.
	peers := []domain.PeerMetrics{
		{Symbol: "AAA", DebtToEquity: f(0.05)},
		{Symbol: "BBB", DebtToEquity: f(0.10)},
		{Symbol: "CCC", DebtToEquity: f(0.15)},
	}
	bench := NewBenchmarkBuilder().Build("Software", peers)

	metrics := &domain.FinancialMetrics{DebtToEquity: f(0.3)}

	got := NewQualityScorer(scoring.DefaultTuning()).Calculate(metrics, peers, bench)

	// balance 3+1=4, stability 2.5, cash flow 2.5, capital 1
	if got.Score != 10 {
		t.Errorf("Score = %d, want 10 (debt floor holds the score up)", got.Score)
	}
}

func TestQualityScorerCollapsingEarnings(t *testing.T) {
	peers := qualityPeers()
	bench := NewBenchmarkBuilder().Build("Industrials", peers)

	// Negative margins: stability penalty and cash-flow floor both bite
	metrics := &domain.FinancialMetrics{
		DebtToEquity:    f(1.0),
		CurrentRatio:    f(2.0),
		NetMargin:       f(-5),
		OperatingMargin: f(-2),
		EPSGrowthAnnual: f(-60),
		ROE:             f(-8),
		ROA:             f(6),
	}

	got := NewQualityScorer(scoring.DefaultTuning()).Calculate(metrics, peers, bench)

	// balance 2.5 + stability 1 + cash flow 0.5 + capital 1 = 5
	if got.Score != 5 {
		t.Errorf("Score = %d, want 5", got.Score)
	}
	if got.Percentile != 0 {
		t.Errorf("Percentile = %d, want 0 (ROE below every peer)", got.Percentile)
	}
}

func TestQualityScorerSafeguardConditions(t *testing.T) {
	// A cash-generative, efficient, steady company keeps a double-digit
	// quality score regardless of its leverage standing
	peers := qualityPeers()
	bench := NewBenchmarkBuilder().Build("Industrials", peers)

	metrics := &domain.FinancialMetrics{
		DebtToEquity:    f(3.0), // Heavily levered vs peers
		NetMargin:       f(12),
		OperatingMargin: f(25),
		EPSGrowthYoY:    f(8),
		EPSGrowthAnnual: f(10),
		ROE:             f(25),
		ROA:             f(6),
	}

	got := NewQualityScorer(scoring.DefaultTuning()).Calculate(metrics, peers, bench)

	if got.Score < 10 {
		t.Errorf("Score = %d, want >= 10 (mega-cap safeguard)", got.Score)
	}
}
