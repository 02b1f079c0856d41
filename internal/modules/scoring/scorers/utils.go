package scorers

import (
	"fmt"
	"math"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
)

// roundScore rounds a running point total to the nearest integer and
// clamps it to [0, max]
func roundScore(points, max float64) int {
	rounded := math.Round(points)
	if rounded < 0 {
		return 0
	}
	if rounded > max {
		return int(max)
	}
	return int(rounded)
}

// roundPercentile rounds a percentile rank to an integer in [0, 100]
func roundPercentile(p float64) int {
	rounded := math.Round(p)
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return int(rounded)
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// coalesce returns the first non-nil value, or nil
func coalesce(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// peerValues extracts one metric across a peer basket, skipping peers
// that did not report it
func peerValues(peers []domain.PeerMetrics, pick func(domain.PeerMetrics) *float64) []float64 {
	values := make([]float64, 0, len(peers))
	for _, p := range peers {
		if v := pick(p); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// tierPoints walks an ascending tier table and returns the points of the
// first tier whose bound covers v, or floor past the last tier
func tierPoints(tiers []scoring.Tier, v, floor float64) float64 {
	for _, tier := range tiers {
		if v <= tier.UpTo {
			return tier.Points
		}
	}
	return floor
}

// upsidePoints walks a descending lower-bound table and returns the
// points of the first tier v exceeds, or floor below the last tier
func upsidePoints(tiers []scoring.UpsideTier, v, floor float64) float64 {
	for _, tier := range tiers {
		if v > tier.Above {
			return tier.Points
		}
	}
	return floor
}

// vsPeers formats a raw value against its peer mean, e.g.
// "12.3% (above peer avg 8.1%)"
func vsPeers(value, peerMean float64) string {
	relation := "below"
	if value > peerMean {
		relation = "above"
	} else if value == peerMean {
		relation = "at"
	}
	return fmt.Sprintf("%.1f%% (%s peer avg %.1f%%)", value, relation, peerMean)
}
