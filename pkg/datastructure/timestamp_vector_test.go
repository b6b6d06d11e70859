package datastructure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimestampVectorDefaults(t *testing.T) {
	tv := NewTimestampVector[uint32](4, 77)
	require.Equal(t, uint32(77), tv.Get(0))
	require.False(t, tv.Has(0))
}

func TestTimestampVectorStepTimeClears(t *testing.T) {
	tv := NewTimestampVector[uint32](4, 0)
	tv.Set(1, 10)
	tv.Set(3, 30)
	require.True(t, tv.Has(1))
	require.Equal(t, uint32(30), tv.Get(3))

	tv.StepTime()

	for i := Index(0); i < 4; i++ {
		require.False(t, tv.Has(i))
		require.Equal(t, uint32(0), tv.Get(i))
	}

	// stale values never resurface after new writes
	tv.Set(1, 11)
	require.Equal(t, uint32(11), tv.Get(1))
	require.False(t, tv.Has(3))
}
