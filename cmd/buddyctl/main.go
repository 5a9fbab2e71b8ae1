// Command buddyctl is an interactive/scriptable driver over a single
// pool.SyncPool. The diagnostic-printing concern spec.md §1 explicitly
// pushes out of the allocator core lives entirely in this package.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
