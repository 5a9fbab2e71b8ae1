package pool

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/mrostermann/buddypool/buddy"
)

func TestSyncPoolRoundTrip(t *testing.T) {
	sp := New(zaptest.NewLogger(t))
	require.NoError(t, sp.Init(uintptr(1)<<buddy.MinK, nil, buddy.DefaultBounds()))
	defer sp.Destroy()

	ptr, err := sp.Allocate(1)
	require.NoError(t, err)
	require.NotNil(t, ptr)

	stat, err := sp.Stat()
	require.NoError(t, err)
	assert.Less(t, stat.FreeBytes, stat.NumBytes)

	sp.Free(ptr)
	stat, err = sp.Stat()
	require.NoError(t, err)
	assert.Equal(t, stat.NumBytes, stat.FreeBytes)
}

func TestSyncPoolConcurrentAllocateFree(t *testing.T) {
	sp := New(zap.NewNop())
	require.NoError(t, sp.Init(0, nil, buddy.DefaultBounds()))
	defer sp.Destroy()

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			ptr, err := sp.Allocate(128)
			if err != nil || ptr == nil {
				return
			}
			sp.Free(ptr)
		}()
	}
	wg.Wait()

	stat, err := sp.Stat()
	require.NoError(t, err)
	assert.Equal(t, stat.NumBytes, stat.FreeBytes)
}

func TestSyncPoolAllocateAfterExhaustion(t *testing.T) {
	sp := New(zap.NewNop())
	require.NoError(t, sp.Init(uintptr(1)<<buddy.MinK, nil, buddy.DefaultBounds()))
	defer sp.Destroy()

	ask := (uintptr(1) << buddy.MinK) - unsafe.Sizeof(buddy.Avail{})
	_, err := sp.Allocate(uint(ask))
	require.NoError(t, err)

	_, err = sp.Allocate(1)
	assert.Error(t, err)
}
