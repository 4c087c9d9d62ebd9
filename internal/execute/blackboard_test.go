package execute

import (
	"fmt"
	"sync"
	"testing"

	"github.com/joeycumines/goap/internal/goap"
	"github.com/stretchr/testify/require"
)

func TestBlackboard_BasicOperations(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	require.Nil(t, bb.Get("missing"))
	require.False(t, bb.Has("missing"))
	require.Equal(t, 0, bb.Len())

	bb.Set("key", "value")
	require.Equal(t, "value", bb.Get("key"))
	require.True(t, bb.Has("key"))

	_, ok := bb.Bool("key")
	require.False(t, ok)
	bb.Set("flag", true)
	v, ok := bb.Bool("flag")
	require.True(t, ok)
	require.True(t, v)

	require.Equal(t, map[string]any{"key": "value", "flag": true}, bb.Snapshot())

	bb.Delete("key")
	require.False(t, bb.Has("key"))
	require.Equal(t, 1, bb.Len())
}

func TestBlackboard_LoadState(t *testing.T) {
	t.Parallel()

	ap := goap.NewActionPlanner()
	ws := goap.NewWorldState()
	require.NoError(t, ap.SetAtom(&ws, "hungry", true))
	require.NoError(t, ap.SetAtom(&ws, "tired", false))
	other := goap.NewWorldState()
	require.NoError(t, ap.SetAtom(&other, "bored", true))

	bb := new(Blackboard)
	bb.Set("note", 1)
	bb.Set("bored", false)
	bb.Load(ap, ws)

	require.Equal(t, map[string]any{"hungry": true, "tired": false, "note": 1}, bb.Snapshot())
	require.Equal(t, ws, bb.State(ap))

	bb.Set("tired", "very")
	got := bb.State(ap)
	require.True(t, got.Cares(0))
	require.False(t, got.Cares(1))
}

func TestBlackboard_Concurrent(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d-%d", i, j)
				bb.Set(key, j)
				_ = bb.Get(key)
				_ = bb.Snapshot()
			}
		}(i)
	}
	wg.Wait()
	require.Equal(t, 800, bb.Len())
}
