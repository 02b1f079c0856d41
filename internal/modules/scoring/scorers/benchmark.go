package scorers

import (
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
	"github.com/aristath/peerscore/pkg/formulas"
)

// BenchmarkBuilder aggregates a peer basket into one industry benchmark
// record. The benchmark is recomputed per request and never cached: it
// only exists for the lifetime of a scoring invocation.
type BenchmarkBuilder struct{}

// NewBenchmarkBuilder creates a new benchmark builder
func NewBenchmarkBuilder() *BenchmarkBuilder {
	return &BenchmarkBuilder{}
}

// Build computes the arithmetic mean of every named metric across the
// peers that reported it. Absent values are ignored; a metric nobody
// reported averages to 0. The peer list is never mutated.
func (bb *BenchmarkBuilder) Build(industry string, peers []domain.PeerMetrics) domain.IndustryBenchmark {
	mean := func(pick func(domain.PeerMetrics) *float64) float64 {
		return formulas.Mean(peerValues(peers, pick))
	}

	return domain.IndustryBenchmark{
		Industry:           industry,
		PeerCount:          len(peers),
		AvgRevenueGrowth:   mean(func(p domain.PeerMetrics) *float64 { return p.RevenueGrowth }),
		AvgEPSGrowth:       mean(func(p domain.PeerMetrics) *float64 { return p.EPSGrowth }),
		AvgROE:             mean(func(p domain.PeerMetrics) *float64 { return p.ROE }),
		AvgNetMargin:       mean(func(p domain.PeerMetrics) *float64 { return p.NetMargin }),
		AvgOperatingMargin: mean(func(p domain.PeerMetrics) *float64 { return p.OperatingMargin }),
		AvgPERatio:         mean(func(p domain.PeerMetrics) *float64 { return p.PERatio }),
		AvgPBRatio:         mean(func(p domain.PeerMetrics) *float64 { return p.PBRatio }),
		AvgDebtToEquity:    mean(func(p domain.PeerMetrics) *float64 { return p.DebtToEquity }),
		AvgCurrentRatio:    mean(func(p domain.PeerMetrics) *float64 { return p.CurrentRatio }),
		AvgROA:             mean(func(p domain.PeerMetrics) *float64 { return p.ROA }),
		AvgMomentum1M:      mean(func(p domain.PeerMetrics) *float64 { return p.Momentum1M }),
		AvgMomentum3M:      mean(func(p domain.PeerMetrics) *float64 { return p.Momentum3M }),
	}
}
