package buddy

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrostermann/buddypool/bperrors"
)

func checkPoolFull(t *testing.T, pool *Pool) {
	t.Helper()
	for i := uint(0); i < pool.kvalM; i++ {
		head := &pool.avail[i]
		assert.Equal(t, head, head.next, "avail[%d] next not self", i)
		assert.Equal(t, head, head.prev, "avail[%d] prev not self", i)
		assert.Equal(t, BlockUnused, head.tag)
		assert.Equal(t, uint16(i), head.kval)
	}

	tail := &pool.avail[pool.kvalM]
	assert.Equal(t, BlockAvail, tail.next.tag)
	assert.Equal(t, tail, tail.next.next)
	assert.Equal(t, tail, tail.prev.prev)
	assert.Equal(t, tail.next, (*Avail)(unsafe.Pointer(pool.base)))
}

func checkPoolEmpty(t *testing.T, pool *Pool) {
	t.Helper()
	for i := uint(0); i <= pool.kvalM; i++ {
		head := &pool.avail[i]
		assert.Equal(t, head, head.next, "avail[%d] next not self", i)
		assert.Equal(t, head, head.prev, "avail[%d] prev not self", i)
		assert.Equal(t, BlockUnused, head.tag)
		assert.Equal(t, uint16(i), head.kval)
	}
}

func TestAllocateOneByte(t *testing.T) {
	var pool Pool
	size := uintptr(1) << MinK
	require.NoError(t, Init(&pool, size, nil, DefaultBounds()))

	mem, err := pool.Allocate(1)
	require.NoError(t, err)
	require.NotNil(t, mem)

	pool.Free(mem)
	checkPoolFull(t, &pool)
	require.NoError(t, Destroy(&pool))
}

func TestAllocateWholePool(t *testing.T) {
	var pool Pool
	size := uintptr(1) << MinK
	require.NoError(t, Init(&pool, size, nil, DefaultBounds()))

	ask := size - headerSize
	mem, err := pool.Allocate(uint(ask))
	require.NoError(t, err)
	require.NotNil(t, mem)

	hdr := (*Avail)(unsafe.Pointer(uintptr(mem) - headerSize))
	assert.Equal(t, uint16(MinK), hdr.kval)
	assert.Equal(t, BlockReserved, hdr.tag)
	checkPoolEmpty(t, &pool)

	fail, err := pool.Allocate(5)
	assert.Nil(t, fail)
	assert.ErrorIs(t, err, bperrors.ErrOutOfMemory)

	pool.Free(mem)
	checkPoolFull(t, &pool)
	require.NoError(t, Destroy(&pool))
}

func TestInitAcrossSizes(t *testing.T) {
	for i := MinK; i <= DefaultK; i++ {
		size := uintptr(1) << i
		var pool Pool
		require.NoError(t, Init(&pool, size, nil, DefaultBounds()))
		checkPoolFull(t, &pool)
		require.NoError(t, Destroy(&pool))
	}
}

func TestBuddyOfIsInvolution(t *testing.T) {
	var pool Pool
	require.NoError(t, Init(&pool, 0, nil, DefaultBounds()))
	defer Destroy(&pool)

	for _, size := range []uint{64, 128, 256, 512} {
		p1, err := pool.Allocate(size)
		require.NoError(t, err)
		p2, err := pool.Allocate(size)
		require.NoError(t, err)

		b1 := headerFromUser(p1)
		b2 := headerFromUser(p2)

		assert.Equal(t, b1, pool.BuddyOf(pool.BuddyOf(b1)))
		assert.Equal(t, b2, pool.BuddyOf(pool.BuddyOf(b2)))

		pool.Free(p1)
		pool.Free(p2)
	}
}

func TestAllocateMultipleSizesNoOverlap(t *testing.T) {
	var pool Pool
	require.NoError(t, Init(&pool, 0, nil, DefaultBounds()))
	defer Destroy(&pool)

	sizes := []uint{32, 64, 128, 256, 512}
	ptrs := make([]unsafe.Pointer, len(sizes))

	for i, size := range sizes {
		p, err := pool.Allocate(size)
		require.NoError(t, err)
		require.NotNil(t, p)
		ptrs[i] = p

		buf := unsafe.Slice((*byte)(p), size)
		for j := range buf {
			buf[j] = byte(i + 1)
		}
	}

	for i, size := range sizes {
		buf := unsafe.Slice((*byte)(ptrs[i]), size)
		for j := range buf {
			assert.Equal(t, byte(i+1), buf[j])
		}
	}

	for _, p := range ptrs {
		pool.Free(p)
	}
	checkPoolFull(t, &pool)
}

func TestAllocateBoundaryKValues(t *testing.T) {
	var pool Pool
	require.NoError(t, Init(&pool, 0, nil, DefaultBounds()))
	defer Destroy(&pool)

	ptrs := make([]unsafe.Pointer, 0, 4)
	for k := uint(6); k <= 9; k++ {
		size := (uintptr(1) << k) - headerSize
		p, err := pool.Allocate(uint(size))
		require.NoError(t, err)
		require.NotNil(t, p)

		hdr := headerFromUser(p)
		assert.Equal(t, uint16(k), hdr.kval)
		ptrs = append(ptrs, p)
	}

	for _, p := range ptrs {
		pool.Free(p)
	}
	checkPoolFull(t, &pool)
}

func TestFreeCoalesceCascade(t *testing.T) {
	var pool Pool
	poolSize := uintptr(1) << 24 // 16 MiB
	require.NoError(t, Init(&pool, poolSize, nil, DefaultBounds()))
	defer Destroy(&pool)

	blocks := make([]unsafe.Pointer, 8)
	for i := range blocks {
		p, err := pool.Allocate(1024)
		require.NoError(t, err)
		require.NotNil(t, p)
		blocks[i] = p
	}

	for _, p := range blocks {
		pool.Free(p)
	}

	large, err := pool.Allocate(8192)
	require.NoError(t, err)
	require.NotNil(t, large)

	pool.Free(large)
	checkPoolFull(t, &pool)
}

func TestFreeEdgeCases(t *testing.T) {
	var pool Pool
	require.NoError(t, Init(&pool, 0, nil, DefaultBounds()))
	defer Destroy(&pool)

	pool.Free(nil)

	ptr, err := pool.Allocate(64)
	require.NoError(t, err)

	var nilPool *Pool
	nilPool.Free(ptr)

	pool.Free(ptr)
	pool.Free(ptr) // double free, must be a no-op

	checkPoolFull(t, &pool)
}

func TestBytesToKSatisfiesP1(t *testing.T) {
	for _, bytes := range []uintptr{1, 2, 3, 4, 5, 63, 64, 65, 1023, 1024, 1025} {
		k := BytesToK(bytes)
		assert.GreaterOrEqual(t, uintptr(1)<<k, bytes)
		if k > 0 {
			assert.Less(t, uintptr(1)<<(k-1), bytes)
		}
	}
}

func TestAllocateZeroBytesReturnsNil(t *testing.T) {
	var pool Pool
	require.NoError(t, Init(&pool, 0, nil, DefaultBounds()))
	defer Destroy(&pool)

	p, err := pool.Allocate(0)
	assert.Nil(t, p)
	assert.NoError(t, err)
}

func TestAllocateUninitializedPoolReturnsNil(t *testing.T) {
	var pool Pool
	p, err := pool.Allocate(16)
	assert.Nil(t, p)
	assert.NoError(t, err)
}
