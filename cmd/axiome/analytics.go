package main

import (
	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/analytics"
	analyticshandlers "github.com/axiome/analytics/internal/modules/analytics/handlers"
	"github.com/axiome/analytics/internal/report"
	"github.com/spf13/cobra"
)

func newAnalyticsCmd(a *app) *cobra.Command {
	var (
		holdingsFile string
		start, end   string
		benchmark    string
		chart        string
		allocChart   string
	)

	cmd := &cobra.Command{
		Use:     "analytics",
		Short:   "Compute the analytics dashboard for a set of holdings",
		Example: "  axiome analytics --holdings holdings.json --start 2023-01-01 --chart perf.png",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readHoldingInputs(holdingsFile)
			if err != nil {
				return err
			}

			body := analyticshandlers.Request{
				Holdings:  inputs,
				Benchmark: benchmark,
				StartDate: start,
				EndDate:   end,
			}
			req, err := body.Validate()
			if err != nil {
				return err
			}

			prices, metadata, cleanup, err := a.sources()
			if err != nil {
				return err
			}
			defer cleanup()

			svc := analytics.NewService(prices, metadata, domain.SystemClock{}, analytics.Config{
				DefaultBenchmark:     a.cfg.Analytics.Benchmark,
				MaxConcurrentFetches: a.cfg.Analytics.MaxConcurrentFetches,
			}, a.log)

			result := svc.ComputeAnalytics(cmd.Context(), req)

			if chart != "" {
				err := a.writeChart(chart, "performance", func() ([]byte, error) { return report.PerformanceChart(result) })
				if err != nil {
					return err
				}
			}
			if allocChart != "" {
				err := a.writeChart(allocChart, "allocation", func() ([]byte, error) {
					return report.AllocationChart("Sector allocation", result.AllocationBySector)
				})
				if err != nil {
					return err
				}
			}

			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&holdingsFile, "holdings", "", "JSON file with a holdings array")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD), default two years before end")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&benchmark, "benchmark", "", "benchmark symbol (default from config)")
	cmd.Flags().StringVar(&chart, "chart", "", "write a performance chart PNG to this path")
	cmd.Flags().StringVar(&allocChart, "allocation-chart", "", "write a sector allocation pie PNG to this path")
	_ = cmd.MarkFlagRequired("holdings")

	return cmd
}
