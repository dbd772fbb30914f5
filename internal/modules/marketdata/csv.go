package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/axiome/analytics/internal/domain"
)

// ParsePricesCSV reads daily prices from CSV with a header row. Required
// columns are date and close; symbol is required unless defaultSymbol is set,
// and adjusted_close (or adj_close) is optional. Column names are case-insensitive.
func ParsePricesCSV(r io.Reader, defaultSymbol string) ([]domain.PricePoint, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	dateIdx, okDate := cols["date"]
	closeIdx, okClose := cols["close"]
	if !okDate || !okClose {
		return nil, errors.New("CSV header must contain date and close columns")
	}
	symbolIdx, okSymbol := cols["symbol"]
	if !okSymbol && defaultSymbol == "" {
		return nil, errors.New("CSV header has no symbol column and no default symbol was given")
	}
	adjIdx, okAdj := cols["adjusted_close"]
	if !okAdj {
		adjIdx, okAdj = cols["adj_close"]
	}

	var points []domain.PricePoint
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := domain.ParseDay(strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date: %w", line, err)
		}
		closePrice, err := strconv.ParseFloat(strings.TrimSpace(record[closeIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid close: %w", line, err)
		}

		p := domain.PricePoint{Symbol: defaultSymbol, Date: date, Close: closePrice}
		if okSymbol && strings.TrimSpace(record[symbolIdx]) != "" {
			p.Symbol = strings.ToUpper(strings.TrimSpace(record[symbolIdx]))
		}
		if okAdj {
			if raw := strings.TrimSpace(record[adjIdx]); raw != "" {
				adj, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid adjusted close: %w", line, err)
				}
				p.AdjustedClose = &adj
			}
		}
		points = append(points, p)
	}

	return points, nil
}
