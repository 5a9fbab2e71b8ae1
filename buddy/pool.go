// Package buddy implements the buddy-system memory allocator core: the
// block header layout, the per-power-of-two free-list discipline, the
// split-on-allocate recursion, the buddy-address computation, and the
// coalesce-on-free loop.
//
// Pool is deliberately single-threaded and holds no lock of its own (see
// the concurrent wrapper in package pool for that); it is deliberately
// silent and holds no logger; and it is deliberately ignorant of where its
// backing memory comes from, consuming only a region.Provider. Every other
// concern lives one layer up.
package buddy

import (
	"unsafe"

	"github.com/google/uuid"

	"github.com/mrostermann/buddypool/bperrors"
	"github.com/mrostermann/buddypool/region"
)

// Pool owns one contiguous region of size 2^KvalM bytes and services
// allocate/free requests against it in power-of-two units.
type Pool struct {
	ID        uuid.UUID
	kvalM     uint
	smallestK uint
	numBytes  uintptr
	base      uintptr
	avail     []Avail
	provider  region.Provider
}

// Init establishes pool over a freshly acquired region of exactly
// 2^kvalM bytes, where kvalM is derived from sizeBytes (bounds.DefaultK
// when sizeBytes is 0, clamped to [bounds.MinK, bounds.MaxK-1] otherwise).
// bounds.MaxK is itself clamped to the package's hard ceiling MaxK, since
// 1<<kval must stay a valid uintptr shift. provider supplies the backing
// memory; pass nil to use region.Anonymous. Pass DefaultBounds() for
// bounds to get the reference allocator's own constants.
func Init(pool *Pool, sizeBytes uintptr, provider region.Provider, bounds Bounds) error {
	if provider == nil {
		provider = region.Anonymous{}
	}
	if bounds == (Bounds{}) {
		bounds = DefaultBounds()
	}
	if bounds.MaxK == 0 || bounds.MaxK > MaxK {
		bounds.MaxK = MaxK
	}

	var kval uint
	if sizeBytes == 0 {
		kval = bounds.DefaultK
	} else {
		kval = BytesToK(sizeBytes)
	}
	if kval < bounds.MinK {
		kval = bounds.MinK
	}
	if kval >= bounds.MaxK {
		kval = bounds.MaxK - 1
	}

	*pool = Pool{}
	pool.ID = uuid.New()
	pool.kvalM = kval
	pool.smallestK = bounds.SmallestK
	pool.numBytes = uintptr(1) << kval
	pool.provider = provider

	base, err := provider.Acquire(pool.numBytes)
	if err != nil {
		return bperrors.Wrap(bperrors.ErrRegionAcquire, err.Error())
	}
	pool.base = base

	pool.avail = make([]Avail, kval+1)
	for i := range pool.avail {
		pool.avail[i].next = &pool.avail[i]
		pool.avail[i].prev = &pool.avail[i]
		pool.avail[i].kval = uint16(i)
		pool.avail[i].tag = BlockUnused
	}

	first := (*Avail)(unsafe.Pointer(pool.base))
	first.tag = BlockAvail
	first.kval = uint16(kval)
	insertBlock(&pool.avail[kval], first)

	return nil
}

// Initialized reports whether pool has a live backing region, i.e. whether
// Init has succeeded and Destroy has not since been called.
func (p *Pool) Initialized() bool {
	return p != nil && p.base != 0
}

// Destroy releases pool's backing region and zeroes the struct so it can be
// reinitialized with Init. Outstanding reserved pointers become invalid;
// detecting their later use is out of scope.
func Destroy(pool *Pool) error {
	if pool == nil || pool.base == 0 {
		return nil
	}
	err := pool.provider.Release(pool.base, pool.numBytes)
	*pool = Pool{}
	if err != nil {
		return bperrors.Wrap(err, "release backing region")
	}
	return nil
}

// Stats is a read-only snapshot of a Pool's free-list occupancy. It carries
// no algorithmic weight — it exists purely so callers (notably cmd/buddyctl)
// can report on a Pool without reaching into its internals.
type Stats struct {
	KvalM        uint
	NumBytes     uintptr
	FreeBlocks   []int // FreeBlocks[k] = number of free blocks of size 2^k
	FreeBytes    uintptr
	ReservedHint bool // true if FreeBytes < NumBytes, i.e. something is outstanding
}

// Stat walks pool's free lists and reports their current occupancy. It does
// not mutate any block or list. Calling it on an uninitialized pool returns
// a zero Stats rather than indexing into a nil avail slice.
func (p *Pool) Stat() Stats {
	if !p.Initialized() {
		return Stats{}
	}
	st := Stats{KvalM: p.kvalM, NumBytes: p.numBytes, FreeBlocks: make([]int, p.kvalM+1)}
	for k := uint(0); k <= p.kvalM; k++ {
		head := &p.avail[k]
		for b := head.next; b != head; b = b.next {
			st.FreeBlocks[k]++
			st.FreeBytes += uintptr(1) << k
		}
	}
	st.ReservedHint = st.FreeBytes < st.NumBytes
	return st
}

// Base returns the pool's region base address. Offsets reported by a
// caller-facing layer (e.g. cmd/buddyctl) are relative to this address.
func (p *Pool) Base() uintptr {
	return p.base
}

// OffsetOf returns ptr's distance from the pool's base address, the inverse
// of PointerAt.
func (p *Pool) OffsetOf(ptr unsafe.Pointer) uintptr {
	return uintptr(ptr) - p.base
}

// PointerAt returns the caller-visible pointer at the given offset from
// base. It is the caller's responsibility to pass an offset previously
// returned by OffsetOf for a still-live allocation.
func (p *Pool) PointerAt(offset uintptr) unsafe.Pointer {
	return unsafe.Pointer(p.base + offset)
}

func headerFromUser(ptr unsafe.Pointer) *Avail {
	return (*Avail)(unsafe.Pointer(uintptr(ptr) - headerSize))
}

func userFromHeader(block *Avail) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(block)) + headerSize)
}
