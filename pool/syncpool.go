// Package pool adds the single concern spec §5 explicitly carves out of the
// buddy core: thread safety. SyncPool wraps a *buddy.Pool behind one mutex
// and, optionally, structured logging — neither of which the core itself
// knows anything about.
package pool

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/mrostermann/buddypool/bperrors"
	"github.com/mrostermann/buddypool/buddy"
	"github.com/mrostermann/buddypool/region"
)

// SyncPool serializes every public operation on an embedded buddy.Pool with
// a single mutex, matching spec §5: "a multi-threaded wrapper, if built,
// must take a single mutex guarding every public operation; finer-grained
// locking is not required."
type SyncPool struct {
	mu     sync.Mutex
	core   buddy.Pool
	log    *zap.Logger
	sizeHi uintptr
}

// New creates an uninitialized SyncPool. log may be nil, in which case
// operations proceed silently.
func New(log *zap.Logger) *SyncPool {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncPool{log: log}
}

// Init establishes the backing pool. provider may be nil to use
// region.Anonymous; bounds may be the zero value to use buddy.DefaultBounds().
func (s *SyncPool) Init(sizeBytes uintptr, provider region.Provider, bounds buddy.Bounds) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := buddy.Init(&s.core, sizeBytes, provider, bounds); err != nil {
		s.log.Warn("pool init failed", zap.Uintptr("size_bytes", sizeBytes), zap.Error(err))
		return err
	}
	s.sizeHi = sizeBytes
	s.log.Info("pool initialized",
		zap.String("pool_id", s.core.ID.String()),
		zap.Uintptr("requested_bytes", sizeBytes),
	)
	return nil
}

// Destroy releases the backing pool.
func (s *SyncPool) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.core.ID.String()
	err := buddy.Destroy(&s.core)
	if err != nil {
		s.log.Warn("pool destroy failed", zap.String("pool_id", id), zap.Error(err))
		return err
	}
	s.log.Info("pool destroyed", zap.String("pool_id", id))
	return nil
}

// Allocate reserves requestedBytes and logs the outcome at debug (success)
// or warn (out of memory) level. Unlike buddy.Pool.Allocate, calling it
// against a pool that was never Init'd (or was since Destroy'd) returns
// ErrPoolUninitialized rather than a silent (nil, nil) — the core returns
// the same (nil, nil) for a zero-byte request and for a pool that was never
// initialized, so SyncPool callers could not otherwise tell the two apart.
func (s *SyncPool) Allocate(requestedBytes uint) (unsafe.Pointer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.core.Initialized() {
		s.log.Warn("allocate called on uninitialized pool", zap.Uint("requested_bytes", requestedBytes))
		return nil, bperrors.ErrPoolUninitialized
	}

	ptr, err := s.core.Allocate(requestedBytes)
	if err != nil {
		s.log.Warn("allocate failed",
			zap.String("pool_id", s.core.ID.String()),
			zap.Uint("requested_bytes", requestedBytes),
			zap.Error(err),
		)
		return nil, err
	}
	s.log.Debug("allocate",
		zap.String("pool_id", s.core.ID.String()),
		zap.Uint("requested_bytes", requestedBytes),
		zap.Bool("ok", ptr != nil),
	)
	return ptr, nil
}

// Free releases a pointer returned by Allocate. Calling it against an
// uninitialized pool logs ErrPoolUninitialized instead of reaching into
// buddy.Pool.Free, which would silently no-op on its own base == 0 check.
func (s *SyncPool) Free(ptr unsafe.Pointer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.core.Initialized() {
		s.log.Warn("free called on uninitialized pool", zap.Error(bperrors.ErrPoolUninitialized))
		return
	}

	s.core.Free(ptr)
	s.log.Debug("free", zap.String("pool_id", s.core.ID.String()))
}

// Stat returns a read-only snapshot of the pool's free-list occupancy. It
// returns ErrPoolUninitialized instead of a zero Stats when called before
// Init (or after Destroy), so callers can tell "empty pool" apart from
// "no pool yet."
func (s *SyncPool) Stat() (buddy.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.core.Initialized() {
		return buddy.Stats{}, bperrors.ErrPoolUninitialized
	}
	return s.core.Stat(), nil
}

// Base exposes the pool's region base address, used by cmd/buddyctl to
// translate between block offsets (used on the wire/CLI surface) and the
// raw pointers buddy.Pool operates on.
func (s *SyncPool) Base() uintptr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Base()
}
