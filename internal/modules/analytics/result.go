package analytics

import (
	"github.com/axiome/analytics/internal/modules/allocation"
	"github.com/axiome/analytics/internal/modules/risk"
)

// PortfolioAnalytics is the analytics payload of one portfolio
type PortfolioAnalytics struct {
	RiskMetrics         risk.Metrics                   `json:"riskMetrics"`
	PerformanceData     []PerformancePoint             `json:"performanceData"`
	MonthlyReturns      []MonthlyReturn                `json:"monthlyReturns"`
	ReturnDistribution  []risk.DistributionBin         `json:"returnDistribution"`
	AllocationByClass   []allocation.Item              `json:"allocationByClass"`
	AllocationBySector  []allocation.Item              `json:"allocationBySector"`
	AllocationByCountry []allocation.Item              `json:"allocationByCountry"`
	CorrelationMatrix   risk.CorrelationMatrix         `json:"correlationMatrix"`
	DrawdownData        []risk.DrawdownPoint           `json:"drawdownData"`
	RollingVolatility   []risk.RollingVolatilityPoint  `json:"rollingVolatility"`
	RollingCorrelation  []risk.RollingCorrelationPoint `json:"rollingCorrelation"`
}

// PerformancePoint tracks growth of 100 and cumulative return in percent
type PerformancePoint struct {
	Date            string  `json:"date"`
	Portfolio       float64 `json:"portfolio"`
	Benchmark       float64 `json:"benchmark"`
	PortfolioReturn float64 `json:"portfolioReturn"`
	BenchmarkReturn float64 `json:"benchmarkReturn"`
}

// MonthlyReturn compares one month's compounded returns in percent
type MonthlyReturn struct {
	Month     string  `json:"month"` // e.g. "Jan 24"
	Portfolio float64 `json:"portfolio"`
	Benchmark float64 `json:"benchmark"`
}

// EmptyAnalytics is returned when there is not enough data to analyse
func EmptyAnalytics() *PortfolioAnalytics {
	return &PortfolioAnalytics{
		PerformanceData:     []PerformancePoint{},
		MonthlyReturns:      []MonthlyReturn{},
		ReturnDistribution:  []risk.DistributionBin{},
		AllocationByClass:   []allocation.Item{},
		AllocationBySector:  []allocation.Item{},
		AllocationByCountry: []allocation.Item{},
		CorrelationMatrix:   risk.CorrelationMatrix{Labels: []string{}, Data: [][]float64{}},
		DrawdownData:        []risk.DrawdownPoint{},
		RollingVolatility:   []risk.RollingVolatilityPoint{},
		RollingCorrelation:  []risk.RollingCorrelationPoint{},
	}
}
