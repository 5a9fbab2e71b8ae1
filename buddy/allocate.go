package buddy

import (
	"unsafe"

	"github.com/mrostermann/buddypool/bperrors"
)

// Allocate reserves a block able to hold requestedBytes and returns a
// pointer to its caller-visible region (immediately past the header). It
// returns (nil, nil) for requestedBytes == 0 or an uninitialized pool — an
// invalid-argument case that never sets an error, per the allocator's error
// taxonomy. It returns (nil, ErrOutOfMemory) when no free list at or above
// the computed level has a block to hand out.
func (p *Pool) Allocate(requestedBytes uint) (unsafe.Pointer, error) {
	if p == nil || p.base == 0 || requestedBytes == 0 {
		return nil, nil
	}

	k := BytesToK(uintptr(requestedBytes) + headerSize)
	if k < p.smallestK {
		k = p.smallestK
	}

	j := k
	for j <= p.kvalM && p.avail[j].next == &p.avail[j] {
		j++
	}
	if j > p.kvalM {
		return nil, bperrors.ErrOutOfMemory
	}

	block := removeFirst(&p.avail[j])

	for j > k {
		j--
		buddyAddr := uintptr(unsafe.Pointer(block)) + (uintptr(1) << j)
		buddy := (*Avail)(unsafe.Pointer(buddyAddr))
		buddy.kval = uint16(j)
		buddy.tag = BlockAvail
		insertBlock(&p.avail[j], buddy)

		block.kval = uint16(j)
	}

	block.tag = BlockReserved

	return userFromHeader(block), nil
}
