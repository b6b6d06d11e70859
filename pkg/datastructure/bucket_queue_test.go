package datastructure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBucketQueuePopMin(t *testing.T) {
	q := NewBucketQueue(10)
	q.Push(IDIntKeyPair{ID: 0, Key: 3})
	q.Push(IDIntKeyPair{ID: 1, Key: -2})
	q.Push(IDIntKeyPair{ID: 2, Key: 5})
	q.Push(IDIntKeyPair{ID: 3, Key: -2})

	require.False(t, q.Empty())
	first := q.Pop()
	require.Equal(t, -2, first.Key)
	second := q.Pop()
	require.Equal(t, -2, second.Key)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 3, q.Pop().Key)
	require.Equal(t, 5, q.Pop().Key)
	require.True(t, q.Empty())
}

func TestBucketQueueChangeKey(t *testing.T) {
	q := NewBucketQueue(10)
	q.Push(IDIntKeyPair{ID: 0, Key: 4})
	q.Push(IDIntKeyPair{ID: 1, Key: 2})
	q.Push(IDIntKeyPair{ID: 2, Key: 4})

	require.Equal(t, 4, q.GetKey(0))
	q.ChangeKey(IDIntKeyPair{ID: 0, Key: -1})
	require.Equal(t, -1, q.GetKey(0))

	require.Equal(t, Index(0), q.Pop().ID)
	require.Equal(t, Index(1), q.Pop().ID)
	require.Equal(t, Index(2), q.Pop().ID)
}

func TestBucketQueueContainsAndErase(t *testing.T) {
	q := NewBucketQueue(5)
	q.Push(IDIntKeyPair{ID: 1, Key: 0})
	q.Push(IDIntKeyPair{ID: 2, Key: 0})
	q.Push(IDIntKeyPair{ID: 3, Key: 1})

	require.True(t, q.ContainsID(1))
	require.False(t, q.ContainsID(0))
	require.False(t, q.ContainsID(99))

	q.EraseID(1)
	require.False(t, q.ContainsID(1))
	require.True(t, q.ContainsID(2))

	require.Equal(t, Index(2), q.Pop().ID)
	require.Equal(t, Index(3), q.Pop().ID)
	require.True(t, q.Empty())
}
