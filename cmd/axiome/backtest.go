package main

import (
	"github.com/axiome/analytics/internal/modules/backtest"
	backtesthandlers "github.com/axiome/analytics/internal/modules/backtest/handlers"
	"github.com/axiome/analytics/internal/report"
	"github.com/axiome/analytics/internal/utils"
	"github.com/spf13/cobra"
)

type backtestFlags struct {
	weights      string
	holdingsFile string
	start        string
	end          string
	capital      float64
	benchmark    string
	frequency    string
	chart        string
}

func newBacktestCmd(a *app) *cobra.Command {
	f := &backtestFlags{}

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Simulate a periodically rebalanced portfolio",
		Example: `  axiome backtest --weights AAPL=0.6,AGG=0.4 --start 2020-01-01 --end 2023-12-31
  axiome backtest --holdings holdings.json --start 2022-01-01 --end 2023-12-31 --frequency quarterly --prices prices.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := f.request()
			if err != nil {
				return err
			}
			req, err := body.Validate()
			if err != nil {
				return err
			}

			prices, _, cleanup, err := a.sources()
			if err != nil {
				return err
			}
			defer cleanup()

			svc := backtest.NewService(prices, backtest.Config{
				DefaultBenchmark:     a.cfg.Analytics.Benchmark,
				DefaultCapital:       a.cfg.Analytics.InitialCapital,
				MaxConcurrentFetches: a.cfg.Analytics.MaxConcurrentFetches,
			}, a.log)

			result := svc.RunBacktest(cmd.Context(), req)

			if f.chart != "" {
				err := a.writeChart(f.chart, "equity", func() ([]byte, error) { return report.EquityChart(result) })
				if err != nil {
					return err
				}
			}

			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&f.weights, "weights", "", "target weights, e.g. AAPL=0.6,AGG=0.4")
	cmd.Flags().StringVar(&f.holdingsFile, "holdings", "", "JSON file with a holdings array")
	cmd.Flags().StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&f.capital, "capital", 0, "initial capital (default from config)")
	cmd.Flags().StringVar(&f.benchmark, "benchmark", "", "benchmark symbol (default from config)")
	cmd.Flags().StringVar(&f.frequency, "frequency", string(backtest.FrequencyNone), "rebalance frequency: none, monthly, quarterly, semi-annual, annual")
	cmd.Flags().StringVar(&f.chart, "chart", "", "write an equity chart PNG to this path")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// request assembles the same body the HTTP endpoint accepts
func (f *backtestFlags) request() (backtesthandlers.Request, error) {
	body := backtesthandlers.Request{
		StartDate:          f.start,
		EndDate:            f.end,
		InitialCapital:     f.capital,
		Benchmark:          f.benchmark,
		RebalanceFrequency: f.frequency,
	}

	if f.weights != "" {
		weights, err := utils.ParseWeights(f.weights)
		if err != nil {
			return body, err
		}
		body.Weights = weights
	}

	if f.holdingsFile != "" {
		inputs, err := readHoldingInputs(f.holdingsFile)
		if err != nil {
			return body, err
		}
		body.Holdings = inputs
	}

	return body, nil
}
