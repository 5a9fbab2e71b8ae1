package buddy

import "unsafe"

// BuddyOf returns the header address of block's buddy: the block it would
// merge with to form the enclosing 2^(k+1) region. It is a programming
// error to call BuddyOf on the whole-pool block (block.kval == p.kvalM);
// that block has no buddy.
//
// BuddyOf is an involution: BuddyOf(p, BuddyOf(p, b)) == b, because flipping
// the same bit twice returns the original offset.
func (p *Pool) BuddyOf(block *Avail) *Avail {
	offset := uintptr(unsafe.Pointer(block)) - p.base
	buddyOffset := offset ^ (uintptr(1) << block.kval)
	return (*Avail)(unsafe.Pointer(p.base + buddyOffset))
}
