// Package bperrors defines the sentinel errors returned by the buddy
// allocator packages (buddy, region, pool).
package bperrors

import "github.com/pkg/errors"

// ErrOutOfMemory is returned by Pool.Allocate when no free list at or above
// the requested level has a block to hand out.
var ErrOutOfMemory = errors.New("buddypool: out of memory")

// ErrPoolUninitialized is returned by pool.SyncPool operations invoked before
// Init (or after Destroy). buddy.Pool itself does not return it: its
// Allocate returns (nil, nil) and its Free does nothing in that case.
var ErrPoolUninitialized = errors.New("buddypool: pool not initialized")

// ErrRegionAcquire wraps a failure to obtain the backing memory region from
// a region.Provider during Init.
var ErrRegionAcquire = errors.New("buddypool: failed to acquire backing region")

// Wrap attaches msg as context to cause, matching the pack's
// github.com/pkg/errors idiom of wrapping a lower-level cause under a
// package sentinel.
func Wrap(cause error, msg string) error {
	return errors.Wrap(cause, msg)
}
