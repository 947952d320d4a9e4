package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sbenjam1n/pisces/internal/config"
	"github.com/sbenjam1n/pisces/internal/db"
	"github.com/sbenjam1n/pisces/internal/ensemble"
	"github.com/sbenjam1n/pisces/internal/queue"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg          *config.Config
	logger       *zap.Logger
	verbose      bool
	ensemblePath string

	rootCmd = &cobra.Command{
		Use:   "pisces",
		Short: "Pisces: analysis samples, oscillation channels and signal/background predictions",
		Long: `Pisces classifies analysis samples by selection, beam polarity and detector,
packs them into compact identities, and splits their predictions into
signal and background oscillation channels.

Inspect the vocabulary:
  pisces sample list
  pisces channels --far

Predict from an ensemble file:
  pisces predict --weights numutonue=0.05 --shift xsec_ma=1`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err = newLogger(cfg.LogLevel, verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&ensemblePath, "ensemble", "", "ensemble file (default $PISCES_ENSEMBLE_FILE)")

	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(ensembleCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(workerCmd)
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w\nSet PISCES_DATABASE_URL environment variable", err)
	}
	return pool, nil
}

func connectRedis() (*redis.Client, error) {
	rdb, err := queue.ConnectRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("%w\nSet PISCES_REDIS_URL environment variable", err)
	}
	return rdb, nil
}

func migrationsDir() string {
	return filepath.Join(cfg.ProjectRoot, "migrations")
}

func loadEnsemble() (*ensemble.Ensemble, error) {
	path := ensemblePath
	if path == "" {
		path = cfg.EnsembleFile
	}
	e, err := ensemble.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("ensemble loaded", zap.String("path", path), zap.Int("samples", len(e.Samples)))
	return e, nil
}
