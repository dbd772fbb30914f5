// Package report renders analytics and back-test results as PNG charts.
package report

import (
	"errors"
	"fmt"

	"github.com/axiome/analytics/internal/modules/allocation"
	"github.com/axiome/analytics/internal/modules/analytics"
	"github.com/axiome/analytics/internal/modules/backtest"
	"github.com/vicanso/go-charts/v2"
)

// ErrNoData is returned when there is nothing to plot
var ErrNoData = errors.New("no data to chart")

const (
	chartWidth  = 1000
	chartHeight = 560
)

// EquityChart plots a back-test equity curve against its benchmark
func EquityChart(res *backtest.Result) ([]byte, error) {
	if res == nil || len(res.EquityCurve) == 0 {
		return nil, ErrNoData
	}

	labels := make([]string, len(res.EquityCurve))
	portfolio := make([]float64, len(res.EquityCurve))
	benchmark := make([]float64, len(res.EquityCurve))
	for i, p := range res.EquityCurve {
		labels[i] = p.Date
		portfolio[i] = p.Portfolio
		benchmark[i] = p.Benchmark
	}

	s := res.Summary
	subtitle := fmt.Sprintf("Return: %.2f%% | CAGR: %.2f%% | Sharpe: %.2f | MaxDD: %.2f%%",
		s.TotalReturn, s.CAGR, s.SharpeRatio, s.MaxDrawdown)

	return lineChart("Back-test equity", subtitle, labels, []string{"Portfolio", "Benchmark"}, [][]float64{portfolio, benchmark})
}

// PerformanceChart plots growth of 100 for a portfolio and its benchmark
func PerformanceChart(res *analytics.PortfolioAnalytics) ([]byte, error) {
	if res == nil || len(res.PerformanceData) == 0 {
		return nil, ErrNoData
	}

	labels := make([]string, len(res.PerformanceData))
	portfolio := make([]float64, len(res.PerformanceData))
	benchmark := make([]float64, len(res.PerformanceData))
	for i, p := range res.PerformanceData {
		labels[i] = p.Date
		portfolio[i] = p.Portfolio
		benchmark[i] = p.Benchmark
	}

	m := res.RiskMetrics
	subtitle := fmt.Sprintf("Ann. return: %.2f%% | Vol: %.2f%% | Sharpe: %.2f | Beta: %.2f",
		m.AnnualizedReturn, m.AnnualizedVolatility, m.SharpeRatio, m.Beta)

	return lineChart("Portfolio performance (indexed to 100)", subtitle, labels, []string{"Portfolio", "Benchmark"}, [][]float64{portfolio, benchmark})
}

// AllocationChart renders allocation items as a pie
func AllocationChart(title string, items []allocation.Item) ([]byte, error) {
	if len(items) == 0 {
		return nil, ErrNoData
	}

	values := make([]float64, len(items))
	names := make([]string, len(items))
	for i, item := range items {
		values[i] = item.Value
		names[i] = fmt.Sprintf("%s (%.1f%%)", item.Name, item.Value)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc(title),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: names,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render allocation chart: %w", err)
	}

	return p.Bytes()
}

func lineChart(title, subtitle string, labels, names []string, values [][]float64) ([]byte, error) {
	yMin, yMax := bounds(values)

	// Roughly one x label per month of trading days
	split := len(labels) / 21
	if split < 3 {
		split = 3
	}
	if split > 12 {
		split = 12
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	p, err := charts.Render(
		charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: split,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// bounds returns the padded y-axis range over every series
func bounds(values [][]float64) (float64, float64) {
	first := true
	var lo, hi float64
	for _, series := range values {
		for _, v := range series {
			if first {
				lo, hi, first = v, v, false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	padding := (hi - lo) * 0.05
	if padding == 0 {
		padding = hi * 0.05
	}
	if padding == 0 {
		padding = 1
	}
	return lo - padding, hi + padding
}
