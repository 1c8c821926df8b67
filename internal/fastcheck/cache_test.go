package fastcheck

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupMissOnEmptyCache(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	_, ok := c.Lookup("nope")
	assert.False(t, ok)
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	want := &Result{Hash: "abc", Success: true}
	c.Store("abc", want)

	got, ok := c.Lookup("abc")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestInvalidateForcesMiss(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	c.Store("abc", &Result{Hash: "abc"})
	c.Invalidate("abc")

	_, ok := c.Lookup("abc")
	assert.False(t, ok)
}

func TestEvictionDropsLeastRecentlyUsed(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Store("a", &Result{Hash: "a"})
	c.Store("b", &Result{Hash: "b"})
	// touch "a" so "b" becomes the least recently used entry.
	_, _ = c.Lookup("a")
	c.Store("c", &Result{Hash: "c"})

	_, aOk := c.Lookup("a")
	_, bOk := c.Lookup("b")
	_, cOk := c.Lookup("c")
	assert.True(t, aOk)
	assert.False(t, bOk)
	assert.True(t, cOk)
	assert.Equal(t, 2, c.Len())
}

func TestGetOrBuildRunsBuildExactlyOnceUnderConcurrentCallers(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	var calls int32
	release := make(chan struct{})
	build := func() *Result {
		atomic.AddInt32(&calls, 1)
		<-release
		return &Result{Hash: "x", Success: true}
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*Result, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GetOrBuild("x", build)
		}(i)
	}

	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls)
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, "x", r.Hash)
	}

	cached, ok := c.Lookup("x")
	require.True(t, ok)
	assert.True(t, cached.Success)
}

func TestGetOrBuildReusesCachedResultWithoutRebuilding(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	c.Store("x", &Result{Hash: "x", Success: true})

	called := false
	got := c.GetOrBuild("x", func() *Result {
		called = true
		return &Result{Hash: "x", Success: false}
	})

	assert.False(t, called)
	assert.True(t, got.Success)
}
