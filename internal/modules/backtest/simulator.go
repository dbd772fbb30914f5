package backtest

import (
	"math"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/series"
	"github.com/axiome/analytics/pkg/formulas"
)

const (
	// TradeThreshold is the smallest weight change, as a fraction, recorded in the trade log.
	TradeThreshold = 0.001
	// WeightSampleEvery is the trading-day interval between weight history samples.
	WeightSampleEvery = 20
)

// TradeDelta is a weight change in percentage points
type TradeDelta struct {
	Symbol string  `json:"symbol"`
	Delta  float64 `json:"delta"`
}

// TradeLogEntry records one rebalance
type TradeLogEntry struct {
	Date       string       `json:"date"`
	TotalValue float64      `json:"totalValue"`
	Trades     []TradeDelta `json:"trades"`
}

// Simulation is the raw walk-forward output
type Simulation struct {
	Dates         []time.Time
	Values        []float64
	Returns       []float64
	TradeLog      []TradeLogEntry
	WeightHistory []WeightSample
}

// Simulate grows dollar positions by each day's return and resets them to the
// target weights on rebalance dates. Weight samples are taken every
// WeightSampleEvery days and on every rebalance date, after drift and before
// the reset. Symbols missing from returns are held flat.
func Simulate(returns *series.ReturnMatrix, symbols []string, target map[string]float64, capital float64, rebalance map[time.Time]bool) *Simulation {
	positions := make([]float64, len(symbols))
	cols := make([][]float64, len(symbols))
	for j, sym := range symbols {
		positions[j] = capital * target[sym]
		cols[j] = returns.ColumnOrZero(sym)
	}

	sim := &Simulation{
		Dates:         returns.Dates,
		Values:        make([]float64, returns.Len()),
		Returns:       make([]float64, returns.Len()),
		TradeLog:      []TradeLogEntry{},
		WeightHistory: []WeightSample{},
	}

	prev := capital
	for i, d := range returns.Dates {
		total := 0.0
		for j := range positions {
			positions[j] *= 1 + cols[j][i]
			total += positions[j]
		}

		if prev != 0 {
			sim.Returns[i] = total/prev - 1
		}
		sim.Values[i] = total

		rebalanceDay := rebalance[d]
		if i%WeightSampleEvery == 0 || rebalanceDay {
			sim.WeightHistory = append(sim.WeightHistory, sampleWeights(d, symbols, positions, total))
		}

		if rebalanceDay && total > 0 {
			trades := []TradeDelta{}
			for j, sym := range symbols {
				delta := target[sym] - positions[j]/total
				positions[j] = total * target[sym]
				if math.Abs(delta) > TradeThreshold {
					trades = append(trades, TradeDelta{Symbol: sym, Delta: formulas.Round(delta*100, 2)})
				}
			}
			sim.TradeLog = append(sim.TradeLog, TradeLogEntry{
				Date:       domain.FormatDay(d),
				TotalValue: formulas.Round(total, 2),
				Trades:     trades,
			})
		}

		prev = total
	}

	return sim
}

func sampleWeights(d time.Time, symbols []string, positions []float64, total float64) WeightSample {
	w := WeightSample{Date: domain.FormatDay(d), Weights: make(map[string]float64, len(symbols))}
	for j, sym := range symbols {
		if total > 0 {
			w.Weights[sym] = formulas.Round(positions[j]/total*100, 2)
		} else {
			w.Weights[sym] = 0
		}
	}
	return w
}
