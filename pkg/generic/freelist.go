package generic

// FreeList keeps released values for reuse. Unlike Pool it never drops
// values behind the caller's back, so a value is only handed out again
// after an explicit Put. It is not safe for concurrent use.
type FreeList[T any] struct {
	items    []T
	generate func() T
	max      int
}

// NewFreeList returns a free list that holds at most max released values.
// A max of zero or less means no limit.
func NewFreeList[T any](generate func() T, max int) *FreeList[T] {
	return &FreeList[T]{generate: generate, max: max}
}

func (f *FreeList[T]) Get() T {
	n := len(f.items)
	if n == 0 {
		return f.generate()
	}
	v := f.items[n-1]
	var zero T
	f.items[n-1] = zero
	f.items = f.items[:n-1]
	return v
}

func (f *FreeList[T]) Put(value T) {
	if f.max > 0 && len(f.items) >= f.max {
		return
	}
	f.items = append(f.items, value)
}

// Len is the number of values waiting for reuse.
func (f *FreeList[T]) Len() int { return len(f.items) }
