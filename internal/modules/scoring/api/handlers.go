package api

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/aristath/peerscore/internal/modules/scoring/domain"
	"github.com/aristath/peerscore/internal/modules/scoring/scorers"
	"github.com/aristath/peerscore/pkg/formulas"
	"github.com/rs/zerolog"
)

// Handlers provides HTTP handlers for the scoring module
type Handlers struct {
	scorer   *scorers.CompanyScorer
	tuning   scoring.Tuning
	maxPeers int
	log      zerolog.Logger
}

// NewHandlers creates a new scoring handlers instance
func NewHandlers(log zerolog.Logger, tuning scoring.Tuning, maxPeers int) *Handlers {
	return &Handlers{
		scorer:   scorers.NewCompanyScorer(tuning),
		tuning:   tuning,
		maxPeers: maxPeers,
		log:      log.With().Str("module", "scoring_handlers").Logger(),
	}
}

// ScoreRequest represents a request to score a company against its peers
type ScoreRequest struct {
	Symbol          string                      `json:"symbol"`
	Industry        string                      `json:"industry,omitempty"`
	CurrentPrice    float64                     `json:"current_price"`
	Metrics         *domain.FinancialMetrics    `json:"metrics,omitempty"`
	Peers           []domain.PeerMetrics        `json:"peers,omitempty"`
	Recommendations *domain.RecommendationTrend `json:"recommendations,omitempty"`
	PriceTarget     *domain.PriceTarget         `json:"price_target,omitempty"`
	DailyPrices     []float64                   `json:"daily_prices,omitempty"`
}

// MomentumInfo holds display momentum derived from the target's close series
type MomentumInfo struct {
	OneMonth   *float64 `json:"one_month,omitempty"`
	ThreeMonth *float64 `json:"three_month,omitempty"`
}

// ScoreResponse represents the response from scoring
type ScoreResponse struct {
	Score    *domain.CompanyScore `json:"score,omitempty"`
	Momentum *MomentumInfo        `json:"momentum,omitempty"`
	Error    *string              `json:"error,omitempty"`
}

// HandleScoreCompany handles POST /api/scoring/score
// Runs the full peer-relative scoring pipeline once and returns the
// composite score, breakdown and industry benchmark
func (h *Handlers) HandleScoreCompany(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode score request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Symbol == "" {
		h.writeError(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	// The engine assumes a bounded basket; enforce the bound at the edge
	peers := req.Peers
	if h.maxPeers > 0 && len(peers) > h.maxPeers {
		h.log.Warn().
			Str("symbol", req.Symbol).
			Int("peers", len(peers)).
			Int("max", h.maxPeers).
			Msg("Peer list truncated")
		peers = peers[:h.maxPeers]
	}

	score := h.scorer.Score(scorers.ScoreInput{
		Symbol:          req.Symbol,
		Industry:        req.Industry,
		CurrentPrice:    req.CurrentPrice,
		Metrics:         req.Metrics,
		Peers:           peers,
		Recommendations: req.Recommendations,
		PriceTarget:     req.PriceTarget,
	})

	resp := ScoreResponse{Score: &score}

	// Display extra: momentum from the close series when one is supplied
	if len(req.DailyPrices) > 0 {
		resp.Momentum = &MomentumInfo{
			OneMonth:   formulas.Momentum(req.DailyPrices, formulas.MomentumPeriod1M),
			ThreeMonth: formulas.Momentum(req.DailyPrices, formulas.MomentumPeriod3M),
		}
	}

	h.log.Debug().
		Str("symbol", req.Symbol).
		Int("composite", score.Composite).
		Int("peers", len(peers)).
		Msg("Company scored")

	h.writeJSON(w, resp)
}

// HandleGetTuning handles GET /api/scoring/tuning
// Returns the active tuning constants for inspection
func (h *Handlers) HandleGetTuning(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.tuning)
}

// writeJSON writes a JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	errMsg := message
	h.writeJSON(w, ScoreResponse{Error: &errMsg})
}
