package risk

import "github.com/axiome/analytics/pkg/formulas"

// CorrelationMatrix is the pairwise Pearson correlation of component returns
type CorrelationMatrix struct {
	Labels []string    `json:"labels"`
	Data   [][]float64 `json:"data"`
}

// NewCorrelationMatrix correlates every pair of columns. Undefined
// correlations (a flat column) are reported as 0; values are rounded to 2 places.
func NewCorrelationMatrix(labels []string, columns [][]float64) CorrelationMatrix {
	data := make([][]float64, len(columns))
	for i := range columns {
		data[i] = make([]float64, len(columns))
		for j := range columns {
			if j < i {
				data[i][j] = data[j][i]
				continue
			}
			data[i][j] = formulas.Round(formulas.Correlation(columns[i], columns[j]), 2)
		}
	}

	out := CorrelationMatrix{Labels: labels, Data: data}
	if out.Labels == nil {
		out.Labels = []string{}
	}
	return out
}
