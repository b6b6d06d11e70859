package datastructure

import "math"

// IDIntKeyPair is a BucketQueue entry. Keys are signed because edge
// differences during contraction ordering can go negative.
type IDIntKeyPair struct {
	ID  Index
	Key int
}

// BucketQueue is an integer-keyed bucket priority queue used for the
// bottom-up contraction order. Each id is present at most once.
type BucketQueue struct {
	buckets  map[int][]Index
	indexVec []Index // id -> position inside its bucket, INVALID_ID marks absent
	keyVec   []int
}

func NewBucketQueue(size int) *BucketQueue {
	indexVec := make([]Index, size)
	for i := range indexVec {
		indexVec[i] = INVALID_ID
	}
	return &BucketQueue{
		buckets:  make(map[int][]Index),
		indexVec: indexVec,
		keyVec:   make([]int, size),
	}
}

func (q *BucketQueue) Push(p IDIntKeyPair) {
	bucket := q.buckets[p.Key]
	q.indexVec[p.ID] = Index(len(bucket))
	q.keyVec[p.ID] = p.Key
	q.buckets[p.Key] = append(bucket, p.ID)
}

func (q *BucketQueue) Peek() IDIntKeyPair {
	smallestKey := math.MaxInt
	for key := range q.buckets {
		if key < smallestKey {
			smallestKey = key
		}
	}
	bucket := q.buckets[smallestKey]
	return IDIntKeyPair{ID: bucket[len(bucket)-1], Key: smallestKey}
}

func (q *BucketQueue) Pop() IDIntKeyPair {
	ret := q.Peek()
	bucket := q.buckets[ret.Key]
	q.buckets[ret.Key] = bucket[:len(bucket)-1]
	if len(q.buckets[ret.Key]) == 0 {
		delete(q.buckets, ret.Key)
	}
	q.indexVec[ret.ID] = INVALID_ID
	return ret
}

func (q *BucketQueue) EraseID(id Index) {
	key := q.keyVec[id]
	bucket := q.buckets[key]
	last := bucket[len(bucket)-1]
	bucket[q.indexVec[id]] = last
	q.indexVec[last] = q.indexVec[id]
	q.buckets[key] = bucket[:len(bucket)-1]
	if len(q.buckets[key]) == 0 {
		delete(q.buckets, key)
	}
	q.indexVec[id] = INVALID_ID
}

func (q *BucketQueue) ChangeKey(p IDIntKeyPair) {
	q.EraseID(p.ID)
	q.Push(p)
}

func (q *BucketQueue) GetKey(id Index) int {
	return q.keyVec[id]
}

func (q *BucketQueue) ContainsID(id Index) bool {
	if int(id) >= len(q.indexVec) {
		return false
	}
	return q.indexVec[id] != INVALID_ID
}

func (q *BucketQueue) Empty() bool {
	return len(q.buckets) == 0
}
