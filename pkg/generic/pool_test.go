package generic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFreeList_Reuse(t *testing.T) {
	created := 0
	list := NewFreeList(func() *bytes.Buffer {
		created++
		return new(bytes.Buffer)
	}, 2)

	a := list.Get()
	b := list.Get()
	c := list.Get()
	require.Equal(t, 3, created)

	list.Put(a)
	list.Put(b)
	list.Put(c)
	require.Equal(t, 2, list.Len())

	require.Same(t, b, list.Get())
	require.Same(t, a, list.Get())
	require.Equal(t, 0, list.Len())

	list.Get()
	require.Equal(t, 4, created)
}

func TestPool_Generate(t *testing.T) {
	p := NewHotPool(func() []byte { return make([]byte, 0, 16) }, 2)
	buf := p.Get()
	require.Equal(t, 16, cap(buf))
	p.Put(buf[:0])
}

func TestPool_Reset(t *testing.T) {
	p := NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }).
		WithReset(func(b *bytes.Buffer) *bytes.Buffer {
			b.Reset()
			return b
		})
	buf := p.Get()
	buf.WriteString("pose")
	p.Put(buf)
	require.Zero(t, buf.Len())
}
