package sequence

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Iterator is an immutable, chainable iterator over T.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// From creates an Iterator over a slice.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{seq: slices.Values(data)}
}

// FromSeq wraps a standard library sequence.
func FromSeq[T any](seq iter.Seq[T]) *Iterator[T] {
	return &Iterator[T]{seq: seq}
}

// FromMap iterates over the values of data in key order.
func FromMap[K cmp.Ordered, T any](data map[K]T) *Iterator[T] {
	keys := slices.Sorted(maps.Keys(data))
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for _, k := range keys {
				if !yield(data[k]) {
					return
				}
			}
		},
	}
}

func (i *Iterator[T]) Seq() iter.Seq[T] {
	return i.seq
}

// Pull converts the iterator into a next/stop pair.
func (i *Iterator[T]) Pull() (next func() (T, bool), stop func()) {
	return iter.Pull(i.seq)
}

// Collect exhausts the iterator into a slice.
func (i *Iterator[T]) Collect() []T {
	return slices.Collect(i.seq)
}

// Filter keeps the elements matching pred.
func (i *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for v := range i.seq {
				if pred(v) && !yield(v) {
					return
				}
			}
		},
	}
}

// SortBy returns the elements ordered by key. Equal keys keep their order.
func SortBy[T any, K cmp.Ordered](i *Iterator[T], key func(T) K) *Iterator[T] {
	data := i.Collect()
	slices.SortStableFunc(data, func(a, b T) int { return cmp.Compare(key(a), key(b)) })
	return From(data)
}

// Map transforms every element.
func Map[T, R any](i *Iterator[T], fn func(T) R) *Iterator[R] {
	return &Iterator[R]{
		seq: func(yield func(R) bool) {
			for v := range i.seq {
				if !yield(fn(v)) {
					return
				}
			}
		},
	}
}

// Count consumes the iterator and returns the number of elements.
func (i *Iterator[T]) Count() int {
	n := 0
	for range i.seq {
		n++
	}
	return n
}
