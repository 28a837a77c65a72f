package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tunematch/internal/cache"
	"tunematch/internal/logger"
	"tunematch/internal/recommender"
	"tunematch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}

	var engineOpts []recommender.Option
	if cfg.RedisAddr != "" {
		rc, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			// The cache is optional; serve without it.
			logger.Warn("redis unavailable, recommendation cache disabled", logger.ErrorField(err))
		} else {
			defer rc.Close()
			engineOpts = append(engineOpts, recommender.WithCache(cache.NewBreakerCache(rc, cache.DefaultBreakerOptions())))
			logger.Info("recommendation cache enabled", logger.String("addr", cfg.RedisAddr), logger.Duration("ttl", cfg.CacheTTL))
		}
	}

	if cfg.CatalogWatch {
		go func() {
			if err := store.Watch(ctx); err != nil {
				logger.Error("catalog watcher stopped", logger.ErrorField(err))
			}
		}()
	}

	srv := server.New(newEngine(store, engineOpts...), server.Options{
		DefaultRecommendations: cfg.DefaultRecommendations,
		MaxRecommendations:     cfg.MaxRecommendations,
		RateLimitRPS:           cfg.RateLimitRPS,
		RateLimitBurst:         cfg.RateLimitBurst,
	})
	return srv.ListenAndServe(ctx, ":"+cfg.Port)
}
