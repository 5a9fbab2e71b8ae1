// Package region provides the raw, pre-reserved address space that a
// buddy.Pool manages. Acquiring and releasing that space is explicitly out
// of scope for the buddy allocator core (see spec §1); this package is the
// external collaborator the core consumes a base address and length from.
package region

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/mrostermann/buddypool/bperrors"
)

// Provider acquires and releases a contiguous byte range for a Pool to
// manage. Package buddy computes buddy addresses from offsets relative to
// the returned base, so blocks are aligned to their size relative to base
// whatever the base's own alignment. Acquire does not align the base to n:
// Anonymous returns the page-aligned address mmap gives it, so blocks larger
// than a page are not guaranteed to be aligned to their size in absolute
// address terms.
type Provider interface {
	// Acquire reserves exactly n bytes and returns their base address.
	Acquire(n uintptr) (base uintptr, err error)
	// Release returns a region previously obtained from Acquire. Passing a
	// base/n pair that was not returned by Acquire is a programming error.
	Release(base uintptr, n uintptr) error
}

// Anonymous acquires memory via an anonymous, private mmap mapping — the
// same mechanism the reference allocator uses directly inside its init/
// destroy routines, pulled out here behind Provider.
type Anonymous struct{}

var _ Provider = Anonymous{}

// Acquire maps n bytes of zeroed, read-write, anonymous memory.
func (Anonymous) Acquire(n uintptr) (uintptr, error) {
	data, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return 0, bperrors.Wrap(err, "mmap anonymous region")
	}
	return uintptr(unsafe.Pointer(&data[0])), nil
}

// Release unmaps the n bytes at base.
func (Anonymous) Release(base uintptr, n uintptr) error {
	if base == 0 {
		return nil
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(base)), n)
	if err := unix.Munmap(buf); err != nil {
		return bperrors.Wrap(err, "munmap region")
	}
	return nil
}
