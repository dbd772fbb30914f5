package backtest

import (
	"encoding/json"

	"github.com/axiome/analytics/internal/modules/risk"
	"github.com/vmihailenco/msgpack/v5"
)

// Result is the full back-test payload
type Result struct {
	RunID               string                         `json:"runId"`
	EquityCurve         []ComparisonPoint              `json:"equityCurve"`
	CumulativeReturn    []ComparisonPoint              `json:"cumulativeReturn"`
	DrawdownData        []risk.UnderwaterPoint         `json:"drawdownData"`
	MonthlyHeatmap      []HeatmapCell                  `json:"monthlyHeatmap"`
	YearlyReturns       []YearlyReturn                 `json:"yearlyReturns"`
	RiskMetrics         risk.Metrics                   `json:"riskMetrics"`
	Summary             Summary                        `json:"summary"`
	PositionAttribution []PositionContribution         `json:"positionAttribution"`
	TradeLog            []TradeLogEntry                `json:"tradeLog"`
	WeightHistory       []WeightSample                 `json:"weightHistory"`
	RollingVolatility   []risk.RollingVolatilityPoint  `json:"rollingVolatility"`
	RollingCorrelation  []risk.RollingCorrelationPoint `json:"rollingCorrelation"`
	UnderwaterData      []risk.UnderwaterPoint         `json:"underwaterData"`
}

// ComparisonPoint pairs the portfolio and benchmark value of one day
type ComparisonPoint struct {
	Date      string  `json:"date"`
	Portfolio float64 `json:"portfolio"`
	Benchmark float64 `json:"benchmark"`
}

// HeatmapCell is one month's compounded return in percent
type HeatmapCell struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Value float64 `json:"value"`
}

// YearlyReturn compares calendar-year returns in percent
type YearlyReturn struct {
	Year      int     `json:"year"`
	Portfolio float64 `json:"portfolio"`
	Benchmark float64 `json:"benchmark"`
}

// Summary holds the headline KPIs
type Summary struct {
	InitialCapital       float64 `json:"initialCapital"`
	FinalValue           float64 `json:"finalValue"`
	TotalReturn          float64 `json:"totalReturn"`
	CAGR                 float64 `json:"cagr"`
	BenchmarkTotalReturn float64 `json:"benchmarkTotalReturn"`
	MaxDrawdown          float64 `json:"maxDrawdown"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	SortinoRatio         float64 `json:"sortinoRatio"`
	Volatility           float64 `json:"volatility"`
	CalmarRatio          float64 `json:"calmarRatio"`
	WinRate              float64 `json:"winRate"`
	BestDay              float64 `json:"bestDay"`
	WorstDay             float64 `json:"worstDay"`
	TradingDays          int     `json:"tradingDays"`
	RebalanceEvents      int     `json:"rebalanceEvents"`
}

// PositionContribution is an additive approximation of one symbol's share of
// the return: Σ daily return × fixed target weight. It ignores drift and
// compounding, so contributions do not sum exactly to the portfolio return.
type PositionContribution struct {
	Symbol       string  `json:"symbol"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	TotalReturn  float64 `json:"totalReturn"`
}

// WeightSample is the drifted allocation, in percent, on one sampled day.
// It serialises flat: {"date": "...", "<SYMBOL>": pct, ...}.
type WeightSample struct {
	Date    string
	Weights map[string]float64
}

func (w WeightSample) flat() map[string]interface{} {
	out := make(map[string]interface{}, len(w.Weights)+1)
	for sym, pct := range w.Weights {
		out[sym] = pct
	}
	out["date"] = w.Date
	return out
}

// MarshalJSON flattens the sample
func (w WeightSample) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.flat())
}

// UnmarshalJSON reads the flat form back
func (w *WeightSample) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	w.Weights = make(map[string]float64, len(raw))
	for key, value := range raw {
		if key == "date" {
			if err := json.Unmarshal(value, &w.Date); err != nil {
				return err
			}
			continue
		}
		var pct float64
		if err := json.Unmarshal(value, &pct); err != nil {
			return err
		}
		w.Weights[key] = pct
	}
	return nil
}

var _ msgpack.CustomEncoder = WeightSample{}

// EncodeMsgpack flattens the sample like MarshalJSON
func (w WeightSample) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(w.flat())
}

// EmptyResult is returned when the back-test cannot run: every list is
// empty and every number is zero.
func EmptyResult() *Result {
	return &Result{
		EquityCurve:         []ComparisonPoint{},
		CumulativeReturn:    []ComparisonPoint{},
		DrawdownData:        []risk.UnderwaterPoint{},
		MonthlyHeatmap:      []HeatmapCell{},
		YearlyReturns:       []YearlyReturn{},
		PositionAttribution: []PositionContribution{},
		TradeLog:            []TradeLogEntry{},
		WeightHistory:       []WeightSample{},
		RollingVolatility:   []risk.RollingVolatilityPoint{},
		RollingCorrelation:  []risk.RollingCorrelationPoint{},
		UnderwaterData:      []risk.UnderwaterPoint{},
	}
}
