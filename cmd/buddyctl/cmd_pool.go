package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrostermann/buddypool/internal/config"
)

// newPoolCmd exists for --help discoverability: it only prints the list of
// commands the repl understands and drives no pool itself. All pool
// operations go through the repl started by the root command.
func newPoolCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Describe the pool subcommands available inside the repl",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), `Available repl commands:
  init [size_bytes]   acquire a region and initialize the pool (default --pool-size; 0 = buddy.DefaultK)
  alloc <bytes>       allocate; prints the offset of the returned pointer from the pool base
  free <offset>       free a block previously printed by alloc
  stats               print free-list occupancy
  destroy             release the pool's region
  exit                leave the repl (destroys the pool first, if still live)`)
			return nil
		},
	}
	return cmd
}
