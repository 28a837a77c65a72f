package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tunematch/internal/catalog"
	"tunematch/internal/config"
	"tunematch/internal/logger"
	"tunematch/internal/matcher"
	"tunematch/internal/recommender"
)

var (
	cfg         *config.Config
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "tunematch",
	Short: "TuneMatch recommends songs with similar audio features.",
	Long: `TuneMatch resolves a song name against a catalog of tracks with audio
features and returns the catalog songs nearest to it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if catalogPath != "" {
			cfg.CatalogPath = catalogPath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger.InitLogger(cfg.Log)
		if !cfg.EnvFileLoaded {
			logger.Debug("no .env file found, using environment and defaults")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file (.csv or .db), overrides CATALOG_PATH")
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadOptions() catalog.LoadOptions {
	return catalog.LoadOptions{Strict: cfg.CatalogStrict}
}

// openStore loads the configured catalog and publishes it.
func openStore(ctx context.Context) (*catalog.Store, error) {
	c, err := catalog.Load(ctx, cfg.CatalogPath, loadOptions())
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
	}
	logger.Info("catalog loaded",
		logger.String("path", cfg.CatalogPath),
		logger.Int("songs", c.Len()),
		logger.Int("skipped", c.Skipped()),
		logger.String("version", c.Version()),
	)
	return catalog.NewStore(c, cfg.CatalogPath, loadOptions()), nil
}

func newEngine(store *catalog.Store, opts ...recommender.Option) *recommender.Engine {
	opts = append(opts, recommender.WithMatcherOptions(matcher.WithThreshold(cfg.MatchThreshold)))
	return recommender.NewEngine(store, opts...)
}
