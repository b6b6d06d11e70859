package datastructure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoolSet(t *testing.T) {
	bs := NewBoolSet(10)
	bs.Set(2)
	bs.Set(7)
	bs.Set(2)

	require.True(t, bs.Has(2))
	require.True(t, bs.Has(7))
	require.False(t, bs.Has(3))
	require.Equal(t, 2, bs.Size())
	require.Equal(t, []Index{2, 7}, bs.Items())

	bs.Clear()
	for i := Index(0); i < 10; i++ {
		require.False(t, bs.Has(i))
	}
	require.Equal(t, 0, bs.Size())

	bs.Set(1)
	require.Equal(t, []Index{1}, bs.Items())
}
