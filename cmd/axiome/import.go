package main

import (
	"fmt"
	"strings"

	"github.com/axiome/analytics/internal/di"
	"github.com/axiome/analytics/internal/modules/marketdata"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var symbol string

	cmd := &cobra.Command{
		Use:   "import <file.csv>...",
		Short: "Import daily prices from CSV into market.db",
		Long: `Import daily prices from CSV files with a header row.
Required columns are date (YYYY-MM-DD) and close; symbol is required unless
--symbol is given, and adjusted_close is optional.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := di.InitializeDatabases(a.cfg, a.log)
			if err != nil {
				return err
			}
			defer container.Close()

			store := marketdata.NewHistoryStore(container.MarketDB.Conn(), a.log)
			ctx := cmd.Context()

			total, rejectedTotal := 0, 0
			for _, path := range args {
				points, err := readPriceFile(path, strings.ToUpper(strings.TrimSpace(symbol)))
				if err != nil {
					return err
				}

				valid, rejected := a.validate(path, points)
				if err := store.SavePrices(ctx, valid); err != nil {
					return err
				}

				total += len(valid)
				rejectedTotal += rejected
			}

			if err := container.MarketDB.WALCheckpoint("TRUNCATE"); err != nil {
				a.log.Warn().Err(err).Msg("WAL checkpoint after import failed")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d prices (%d rejected) into %s\n", total, rejectedTotal, container.MarketDB.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "symbol for files without a symbol column")
	return cmd
}

