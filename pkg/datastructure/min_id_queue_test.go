package datastructure

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinIDQueuePopsInKeyOrder(t *testing.T) {
	q := NewMinIDQueue(100)
	rng := rand.New(rand.NewSource(7))
	keys := make([]uint32, 0, 100)
	for id := Index(0); id < 100; id++ {
		k := uint32(rng.Intn(10000))
		keys = append(keys, k)
		q.Push(IDKeyPair{ID: id, Key: k})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	popped := make([]uint32, 0, 100)
	for !q.Empty() {
		popped = append(popped, q.Pop().Key)
	}
	require.Equal(t, keys, popped)
}

func TestMinIDQueueDecreaseKey(t *testing.T) {
	q := NewMinIDQueue(5)
	q.Push(IDKeyPair{ID: 0, Key: 50})
	q.Push(IDKeyPair{ID: 1, Key: 40})
	q.Push(IDKeyPair{ID: 2, Key: 30})

	require.True(t, q.ContainsID(1))
	require.Equal(t, uint32(40), q.GetKey(1))

	q.DecreaseKey(IDKeyPair{ID: 1, Key: 10})
	require.Equal(t, uint32(10), q.GetKey(1))
	require.Equal(t, IDKeyPair{ID: 1, Key: 10}, q.Peek())

	first := q.Pop()
	require.Equal(t, Index(1), first.ID)
	require.False(t, q.ContainsID(1))
	require.Equal(t, Index(2), q.Pop().ID)
	require.Equal(t, Index(0), q.Pop().ID)
	require.True(t, q.Empty())
}

// the id -> position table must stay exact through arbitrary interleaved
// operations
func TestMinIDQueueIndexInvariant(t *testing.T) {
	const n = 64
	q := NewMinIDQueue(n)
	rng := rand.New(rand.NewSource(11))
	key := make(map[Index]uint32)

	for step := 0; step < 5000; step++ {
		id := Index(rng.Intn(n))
		switch rng.Intn(3) {
		case 0:
			if !q.ContainsID(id) {
				k := uint32(rng.Intn(100000) + 1000)
				q.Push(IDKeyPair{ID: id, Key: k})
				key[id] = k
			}
		case 1:
			if q.ContainsID(id) && key[id] > 0 {
				k := uint32(rng.Intn(int(key[id])))
				q.DecreaseKey(IDKeyPair{ID: id, Key: k})
				key[id] = k
			}
		case 2:
			if !q.Empty() {
				p := q.Pop()
				require.Equal(t, key[p.ID], p.Key)
				delete(key, p.ID)
			}
		}
		for id, k := range key {
			require.True(t, q.ContainsID(id))
			require.Equal(t, k, q.GetKey(id))
		}
	}
}

func TestMinIDQueueClear(t *testing.T) {
	q := NewMinIDQueue(10)
	q.Push(IDKeyPair{ID: 3, Key: 1})
	q.Push(IDKeyPair{ID: 4, Key: 2})
	q.Clear()

	require.True(t, q.Empty())
	require.False(t, q.ContainsID(3))
	require.False(t, q.ContainsID(4))

	q.Push(IDKeyPair{ID: 3, Key: 9})
	require.Equal(t, IDKeyPair{ID: 3, Key: 9}, q.Peek())
}
