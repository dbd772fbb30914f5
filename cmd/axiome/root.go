package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/axiome/analytics/internal/config"
	"github.com/axiome/analytics/internal/di"
	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/marketdata"
	"github.com/axiome/analytics/internal/report"
	"github.com/axiome/analytics/internal/version"
	"github.com/axiome/analytics/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is the state shared by all sub-commands
type app struct {
	cfg *config.Config
	log zerolog.Logger

	// flags
	configFile string
	dataDir    string
	logLevel   string
	priceFiles []string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "axiome",
		Short:         "Portfolio analytics and back-testing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML config overlay (overrides AXIOME_CONFIG)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory holding market.db (overrides AXIOME_DATA_DIR)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringSliceVar(&a.priceFiles, "prices", nil, "CSV price files to use instead of market.db (repeatable)")

	root.AddCommand(
		newVersionCmd(),
		newImportCmd(a),
		newBacktestCmd(a),
		newAnalyticsCmd(a),
		newBackupCmd(a),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "axiome %s (%s)\n", version.Version, version.Commit)
		},
	}
}

func (a *app) init(stderr io.Writer) error {
	if a.configFile != "" {
		os.Setenv("AXIOME_CONFIG", a.configFile)
	}
	if a.dataDir != "" {
		os.Setenv("AXIOME_DATA_DIR", a.dataDir)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	// Logs go to stderr so stdout stays machine readable
	a.log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true, Output: stderr})
	return nil
}

// sources returns the price and metadata providers for a run plus a cleanup
// function. CSV files given with --prices take precedence over market.db.
func (a *app) sources() (domain.PriceHistoryProvider, domain.MetadataProvider, func(), error) {
	if len(a.priceFiles) > 0 {
		provider := marketdata.NewMemoryProvider()
		for _, path := range a.priceFiles {
			points, err := readPriceFile(path, "")
			if err != nil {
				return nil, nil, nil, err
			}
			valid, _ := a.validate(path, points)
			provider.AddPrices(valid...)
		}
		a.log.Debug().Strs("symbols", provider.Symbols()).Msg("Loaded prices from CSV")
		return provider, provider, func() {}, nil
	}

	container, err := di.InitializeDatabases(a.cfg, a.log)
	if err != nil {
		return nil, nil, nil, err
	}
	store := marketdata.NewHistoryStore(container.MarketDB.Conn(), a.log)
	return store, store, func() { container.Close() }, nil
}

func readPriceFile(path, symbol string) ([]domain.PricePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	points, err := marketdata.ParsePricesCSV(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// validate drops points that cannot be priced, logging each rejection
func (a *app) validate(path string, points []domain.PricePoint) ([]domain.PricePoint, int) {
	valid, rejected := marketdata.ValidatePoints(points)
	for _, r := range rejected {
		a.log.Warn().Str("file", path).Str("symbol", r.Symbol).Str("date", r.Date).Str("reason", r.Reason).Msg("Rejected price")
	}
	return valid, len(rejected)
}

func readHoldingInputs(path string) ([]domain.HoldingInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings file: %w", err)
	}

	var inputs []domain.HoldingInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse holdings file %s: %w", path, err)
	}
	return inputs, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeChart renders and writes a PNG. An empty result only logs a warning so
// the JSON payload is still printed.
func (a *app) writeChart(path, name string, render func() ([]byte, error)) error {
	png, err := render()
	if errors.Is(err, report.ErrNoData) {
		a.log.Warn().Str("chart", name).Str("path", path).Msg("Nothing to chart, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s chart: %w", name, err)
	}

	if err := os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	a.log.Info().Str("chart", name).Str("path", path).Msg("Chart written")
	return nil
}
