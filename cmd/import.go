package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tunematch/internal/catalog"
	"tunematch/internal/logger"
)

var (
	importCSV string
	importDB  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert a CSV catalog into a SQLite catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		c, err := catalog.LoadCSVFile(importCSV, loadOptions())
		if err != nil {
			return err
		}

		src, err := catalog.OpenSQLite(importDB)
		if err != nil {
			return err
		}
		defer src.Close()

		if err := src.Import(cmd.Context(), c); err != nil {
			return err
		}

		logger.Info("catalog imported",
			logger.String("csv", importCSV),
			logger.String("db", importDB),
			logger.Int("songs", c.Len()),
			logger.Int("skipped", c.Skipped()),
			logger.Duration("took", time.Since(start)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d songs into %s (%d rows skipped)\n", c.Len(), importDB, c.Skipped())
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSV, "csv", "", "source CSV file")
	importCmd.Flags().StringVar(&importDB, "db", "", "destination SQLite file")
	_ = importCmd.MarkFlagRequired("csv")
	_ = importCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(importCmd)
}
