package buddy

// Default bounds on the pool exponent kval_m and on any individual block's
// kval. Values match the reference allocator's defaults exactly. These are
// no longer baked into Init directly — they are the values DefaultBounds
// hands back, and a caller (see internal/config) may override any of them
// per Pool via a Bounds value.
const (
	DefaultK  uint = 30 // pool size used when Init is called with size 0: 2^30 bytes
	MinK      uint = 20 // smallest pool exponent Init will honor
	MaxK      uint = 48 // hard ceiling on any Bounds.MaxK; one past the largest usable exponent
	SmallestK uint = 6  // smallest block the allocator will ever carve
)

// Bounds parameterizes Init: the pool exponent used when the caller asks
// for size 0, the floor and ceiling Init clamps the computed exponent to,
// and the smallest block Allocate will ever carve. Every field mirrors one
// of the package-level default constants above.
type Bounds struct {
	DefaultK  uint
	MinK      uint
	MaxK      uint
	SmallestK uint
}

// DefaultBounds returns the reference allocator's own constants as a
// Bounds value, for callers that don't need to override anything.
func DefaultBounds() Bounds {
	return Bounds{DefaultK: DefaultK, MinK: MinK, MaxK: MaxK, SmallestK: SmallestK}
}
