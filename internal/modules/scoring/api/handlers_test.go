package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/peerscore/internal/modules/scoring"
)

func testHandlers(maxPeers int) *Handlers {
	return NewHandlers(zerolog.Nop(), scoring.DefaultTuning(), maxPeers)
}

func postScore(t *testing.T, h *Handlers, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/scoring/score", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleScoreCompany(rec, req)
	return rec
}

func decodeScore(t *testing.T, rec *httptest.ResponseRecorder) ScoreResponse {
	t.Helper()
	var resp ScoreResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleScoreCompany(t *testing.T) {
	body := []byte(`{
		"symbol": "ACME",
		"industry": "Semiconductors",
		"current_price": 100,
		"metrics": {"roe": 22, "net_margin": 14, "pe_ratio": 24, "peg_ratio": 1.2},
		"peers": [
			{"symbol": "PEER1", "roe": 15, "net_margin": 10, "pe_ratio": 28},
			{"symbol": "PEER2", "roe": 18, "net_margin": 12, "pe_ratio": 32},
			{"symbol": "PEER3", "roe": 12, "net_margin": 8, "pe_ratio": 22}
		],
		"recommendations": {"strong_buy": 8, "buy": 6, "hold": 4, "sell": 1},
		"price_target": {"mean": 118}
	}`)

	rec := postScore(t, testHandlers(50), body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeScore(t, rec)
	require.NotNil(t, resp.Score)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Momentum)

	assert.Equal(t, "ACME", resp.Score.Symbol)
	assert.Equal(t, 3, resp.Score.Benchmark.PeerCount)
	assert.GreaterOrEqual(t, resp.Score.Composite, 0)
	assert.LessOrEqual(t, resp.Score.Composite, 100)
	assert.Len(t, resp.Score.Breakdown.Peers.Percentiles, 5)
}

func TestHandleScoreCompanyInvalidBody(t *testing.T) {
	rec := postScore(t, testHandlers(50), []byte(`{"symbol": `))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeScore(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid request body", *resp.Error)
	assert.Nil(t, resp.Score)
}

func TestHandleScoreCompanyMissingSymbol(t *testing.T) {
	rec := postScore(t, testHandlers(50), []byte(`{"industry": "Banks"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeScore(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Symbol is required", *resp.Error)
}

func TestHandleScoreCompanyTruncatesPeers(t *testing.T) {
	var peers []string
	for i := 0; i < 10; i++ {
		peers = append(peers, fmt.Sprintf(`{"symbol": "P%d", "pe_ratio": %d}`, i, 20+i))
	}
	body := []byte(fmt.Sprintf(`{
		"symbol": "ACME",
		"metrics": {"pe_ratio": 24},
		"peers": [%s]
	}`, strings.Join(peers, ",")))

	rec := postScore(t, testHandlers(4), body)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeScore(t, rec)
	require.NotNil(t, resp.Score)
	assert.Equal(t, 4, resp.Score.Benchmark.PeerCount)
}

func TestHandleScoreCompanyMomentum(t *testing.T) {
	closes := make([]float64, 70)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	payload := ScoreRequest{Symbol: "ACME", DailyPrices: closes}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := postScore(t, testHandlers(50), body)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeScore(t, rec)
	require.NotNil(t, resp.Momentum)
	require.NotNil(t, resp.Momentum.OneMonth)
	require.NotNil(t, resp.Momentum.ThreeMonth)
	assert.Greater(t, *resp.Momentum.OneMonth, 0.0)
	assert.Greater(t, *resp.Momentum.ThreeMonth, *resp.Momentum.OneMonth)
}

func TestHandleGetTuning(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/scoring/tuning", nil)
	rec := httptest.NewRecorder()
	testHandlers(50).HandleGetTuning(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var tuning map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tuning))
	assert.NotEmpty(t, tuning)
}
