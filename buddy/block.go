package buddy

import "unsafe"

// Tag values a block header can carry.
const (
	BlockReserved uint16 = 0 // handed to a caller
	BlockAvail    uint16 = 1 // on a free list
	BlockUnused   uint16 = 3 // sentinel role only
)

// Avail is the header every block — free or reserved — begins with. Its
// size is fixed and is included in the 2^kval bytes a block occupies; the
// caller-visible region starts immediately after it.
//
// next and prev are undefined while tag == BlockReserved; the header bytes
// themselves remain intact regardless of tag so a freed block can always be
// relinked.
type Avail struct {
	tag  uint16
	kval uint16
	next *Avail
	prev *Avail
}

// headerSize is the fixed per-block overhead, used throughout the package
// to translate between header addresses and caller-visible addresses.
const headerSize = unsafe.Sizeof(Avail{})
