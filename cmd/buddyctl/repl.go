package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mrostermann/buddypool/internal/config"
	"github.com/mrostermann/buddypool/pool"
)

// runREPL drives a single pool.SyncPool from line-oriented commands read
// from cmd's input, writing replies to cmd's output. It holds no state
// beyond the life of this call.
func runREPL(cmd *cobra.Command, cfg *config.Config) error {
	sp := newSyncPool(cfg)
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	fmt.Fprintln(out, "buddyctl: type \"pool\" for command help, \"exit\" to quit")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "exit" || fields[0] == "quit" {
			break
		}
		if err := dispatch(out, sp, cfg, fields); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}

	if err := sp.Destroy(); err != nil {
		return errors.Wrap(err, "destroy pool on exit")
	}
	return nil
}

func dispatch(out io.Writer, sp *pool.SyncPool, cfg *config.Config, fields []string) error {
	switch fields[0] {
	case "init":
		return cmdInit(out, sp, cfg, fields[1:])
	case "alloc":
		return cmdAlloc(out, sp, fields[1:])
	case "free":
		return cmdFree(out, sp, fields[1:])
	case "stats":
		return cmdStats(out, sp)
	case "destroy":
		return sp.Destroy()
	default:
		return errors.Errorf("unknown command %q (type \"pool\" for help)", fields[0])
	}
}

func cmdInit(out io.Writer, sp *pool.SyncPool, cfg *config.Config, args []string) error {
	size := uint64(cfg.PoolSizeBytes)
	if len(args) > 0 {
		parsed, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return errors.Wrap(err, "parse size_bytes")
		}
		size = parsed
	}
	if err := sp.Init(uintptr(size), nil, cfg.Bounds()); err != nil {
		return err
	}
	fmt.Fprintln(out, "pool initialized")
	return nil
}

func cmdAlloc(out io.Writer, sp *pool.SyncPool, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: alloc <bytes>")
	}
	bytes, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return errors.Wrap(err, "parse bytes")
	}

	ptr, err := sp.Allocate(uint(bytes))
	if err != nil {
		return err
	}
	if ptr == nil {
		return errors.New("allocate returned nil (size 0 or uninitialized pool)")
	}

	offset := uintptr(ptr) - sp.Base()
	fmt.Fprintf(out, "offset=0x%x\n", offset)
	return nil
}

func cmdFree(out io.Writer, sp *pool.SyncPool, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: free <offset>")
	}
	offset, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return errors.Wrap(err, "parse offset")
	}
	sp.Free(unsafe.Pointer(sp.Base() + uintptr(offset)))
	fmt.Fprintln(out, "freed")
	return nil
}

func cmdStats(out io.Writer, sp *pool.SyncPool) error {
	st, err := sp.Stat()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "kval_m=%d num_bytes=%d free_bytes=%d reserved=%v\n",
		st.KvalM, st.NumBytes, st.FreeBytes, st.ReservedHint)
	for k, n := range st.FreeBlocks[:st.KvalM+1] {
		if n > 0 {
			fmt.Fprintf(out, "  k=%d blocks=%d\n", k, n)
		}
	}
	return nil
}
