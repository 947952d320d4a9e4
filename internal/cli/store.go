package cli

import (
	"context"
	"fmt"

	"github.com/sbenjam1n/pisces/internal/db"
	"github.com/sbenjam1n/pisces/internal/pisces"
	"github.com/sbenjam1n/pisces/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Save and load channels and samples",
}

var storeSaveChannelCmd = &cobra.Command{
	Use:   "save-channel <name>",
	Short: "Save an oscillation channel under --dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := pisces.NewOscChannel(args[0])
		if err != nil {
			return err
		}
		return withStore(cmd, func(ctx context.Context, st pisces.Store, dir string) error {
			if err := c.SaveTo(ctx, st, dir, c.Name()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s/%s\n", dir, c.Name())
			return nil
		})
	},
}

var storeLoadChannelCmd = &cobra.Command{
	Use:   "load-channel <name>",
	Short: "Load an oscillation channel from --dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st pisces.Store, dir string) error {
			c, err := pisces.LoadOscChannel(ctx, st, dir, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s %s from=%d to=%d\n",
				c.Name(), c.Curr(), c.Sign(), c.Flav(), c.From(), c.To())
			return nil
		})
	},
}

var storeSaveSampleCmd = &cobra.Command{
	Use:   "save-sample <id|tag>",
	Short: "Save a sample's category and exposure under --dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := parseSample(args[0])
		if err != nil {
			return err
		}
		// Prefer the configured sample so its exposure is saved too.
		if e, err := loadEnsemble(); err == nil {
			if configured, ok := e.Lookup(s.ID()); ok {
				s = configured
			}
		} else {
			logger.Debug("saving bare category", zap.Error(err))
		}
		return withStore(cmd, func(ctx context.Context, st pisces.Store, dir string) error {
			if err := s.SaveTo(ctx, st, dir, s.Tag()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s/%s\n", dir, s.Tag())
			return nil
		})
	},
}

var storeLoadSampleCmd = &cobra.Command{
	Use:   "load-sample <tag>",
	Short: "Load a sample from --dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st pisces.Store, dir string) error {
			s, err := pisces.LoadSample(ctx, st, dir, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (id %d) auxiliary=%t\n", s.Tag(), s.ID(), s.IsAuxiliary())
			if pot, err := s.POT(); err == nil {
				fmt.Fprintf(out, "  pot:      %g\n", pot)
			}
			if lt, err := s.Livetime(); err == nil {
				fmt.Fprintf(out, "  livetime: %g\n", lt)
			}
			return nil
		})
	},
}

// withStore opens the --backend store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st pisces.Store, dir string) error) error {
	backend, _ := cmd.Flags().GetString("backend")
	dir, _ := cmd.Flags().GetString("dir")
	ctx := context.Background()

	switch backend {
	case "memory":
		return fn(ctx, store.NewMemory(), dir)
	case "postgres":
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(ctx, store.NewPostgres(pool), dir)
	case "redis":
		rdb, err := connectRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()
		return fn(ctx, store.NewRedis(rdb, cfg.StorePrefix), dir)
	}
	return fmt.Errorf("unknown backend %q (memory, postgres, redis)", backend)
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations for the postgres store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool, migrationsDir()); err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("dir", migrationsDir()))
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{storeSaveChannelCmd, storeLoadChannelCmd, storeSaveSampleCmd, storeLoadSampleCmd} {
		c.Flags().String("backend", "postgres", "store backend: memory, postgres or redis")
		c.Flags().String("dir", "pisces", "directory to save under")
		storeCmd.AddCommand(c)
	}
	dbCmd.AddCommand(dbMigrateCmd)
}
