package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrostermann/buddypool/internal/config"
	"github.com/mrostermann/buddypool/pool"
)

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:   "buddyctl",
		Short: "Drive a buddy-system memory pool from the command line",
		Long: `buddyctl initializes one buddy-system memory pool per process and
lets you allocate, free, and inspect it interactively. It holds no
persisted state — state lives only for the lifetime of the process,
per the allocator's own no-persisted-state contract.`,
		SilenceUsage: true,
	}

	config.BindFlags(root.PersistentFlags())

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(root.PersistentFlags())
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	}

	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd, &cfg)
	}

	root.AddCommand(newPoolCmd(&cfg))

	return root
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func newSyncPool(cfg *config.Config) *pool.SyncPool {
	return pool.New(newLogger(cfg.Verbose))
}
