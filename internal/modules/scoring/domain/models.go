package domain

// FinancialMetrics holds the target company's fundamentals. Every field is
// optional: upstream providers routinely omit metrics, and absence must
// degrade gracefully rather than fail.
type FinancialMetrics struct {
	RevenueGrowthYoY    *float64 `json:"revenue_growth_yoy,omitempty"`    // Quarterly year-over-year %
	RevenueGrowthAnnual *float64 `json:"revenue_growth_annual,omitempty"` // Annual fallback %
	EPSGrowthYoY        *float64 `json:"eps_growth_yoy,omitempty"`
	EPSGrowthAnnual     *float64 `json:"eps_growth_annual,omitempty"`
	ROE                 *float64 `json:"roe,omitempty"`
	NetMargin           *float64 `json:"net_margin,omitempty"`
	OperatingMargin     *float64 `json:"operating_margin,omitempty"`
	PERatio             *float64 `json:"pe_ratio,omitempty"`
	PBRatio             *float64 `json:"pb_ratio,omitempty"`
	PEGRatio            *float64 `json:"peg_ratio,omitempty"`
	DebtToEquity        *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio        *float64 `json:"current_ratio,omitempty"`
	ROA                 *float64 `json:"roa,omitempty"`
}

// PeerMetrics is one peer company's metric record
type PeerMetrics struct {
	Symbol          string   `json:"symbol"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EPSGrowth       *float64 `json:"eps_growth,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	PERatio         *float64 `json:"pe_ratio,omitempty"`
	PBRatio         *float64 `json:"pb_ratio,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio    *float64 `json:"current_ratio,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	Momentum1M      *float64 `json:"momentum_1m,omitempty"`
	Momentum3M      *float64 `json:"momentum_3m,omitempty"`
}

// IndustryBenchmark aggregates a peer basket into per-metric means.
// Derived and ephemeral: recomputed on every request, never stored.
// Each mean covers only the peers that reported that metric; a metric
// nobody reported averages to 0.
type IndustryBenchmark struct {
	Industry           string  `json:"industry"`
	PeerCount          int     `json:"peer_count"`
	AvgRevenueGrowth   float64 `json:"avg_revenue_growth"`
	AvgEPSGrowth       float64 `json:"avg_eps_growth"`
	AvgROE             float64 `json:"avg_roe"`
	AvgNetMargin       float64 `json:"avg_net_margin"`
	AvgOperatingMargin float64 `json:"avg_operating_margin"`
	AvgPERatio         float64 `json:"avg_pe_ratio"`
	AvgPBRatio         float64 `json:"avg_pb_ratio"`
	AvgDebtToEquity    float64 `json:"avg_debt_to_equity"`
	AvgCurrentRatio    float64 `json:"avg_current_ratio"`
	AvgROA             float64 `json:"avg_roa"`
	AvgMomentum1M      float64 `json:"avg_momentum_1m"`
	AvgMomentum3M      float64 `json:"avg_momentum_3m"`
}

// RecommendationTrend holds analyst recommendation counts for the most
// recent period
type RecommendationTrend struct {
	StrongBuy  int `json:"strong_buy"`
	Buy        int `json:"buy"`
	Hold       int `json:"hold"`
	Sell       int `json:"sell"`
	StrongSell int `json:"strong_sell"`
}

// Total returns the number of covering analysts
func (r RecommendationTrend) Total() int {
	return r.StrongBuy + r.Buy + r.Hold + r.Sell + r.StrongSell
}

// PriceTarget holds analyst price target statistics
type PriceTarget struct {
	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
	High   *float64 `json:"high,omitempty"`
	Low    *float64 `json:"low,omitempty"`
}

// FactorScore is one factor's result: an integer score within the factor
// budget, human-readable rationale, and the target's percentile standing
type FactorScore struct {
	Score      int    `json:"score"`
	Detail     string `json:"detail"`
	Tooltip    string `json:"tooltip"`
	Percentile int    `json:"percentile"`
}

// PeerContext describes the basket a score was computed against
type PeerContext struct {
	Industry    string         `json:"industry"`
	PeerCount   int            `json:"peer_count"`
	Percentiles map[string]int `json:"percentiles"`
}

// ScoreBreakdown is the auditable decomposition of a composite score
type ScoreBreakdown struct {
	Growth        FactorScore `json:"growth"`
	Profitability FactorScore `json:"profitability"`
	Valuation     FactorScore `json:"valuation"`
	Quality       FactorScore `json:"quality"`
	Analyst       FactorScore `json:"analyst"`
	Description   string      `json:"description"`
	Peers         PeerContext `json:"peers"`
}

// CompanyScore is the engine's complete output for one invocation
type CompanyScore struct {
	Symbol    string            `json:"symbol"`
	Composite int               `json:"composite"`
	Breakdown ScoreBreakdown    `json:"breakdown"`
	Benchmark IndustryBenchmark `json:"benchmark"`
}
