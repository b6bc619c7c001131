package sequence

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIterator_Chain(t *testing.T) {
	t.Run("Filter Map Collect", func(t *testing.T) {
		even := From([]int{1, 2, 3, 4, 5, 6}).Filter(func(v int) bool { return v%2 == 0 })
		got := Map(even, strconv.Itoa).Collect()
		require.Equal(t, []string{"2", "4", "6"}, got)
	})

	t.Run("Early Stop", func(t *testing.T) {
		seen := 0
		for v := range From([]int{1, 2, 3, 4}).Filter(func(int) bool { seen++; return true }).Seq() {
			if v == 2 {
				break
			}
		}
		require.Equal(t, 2, seen)

		next, stop := From([]string{"a", "b"}).Pull()
		defer stop()
		v, ok := next()
		require.True(t, ok)
		require.Equal(t, "a", v)
	})

	t.Run("Map In Key Order", func(t *testing.T) {
		got := FromMap(map[string]int{"c": 3, "a": 1, "b": 2}).Collect()
		require.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("Sort By", func(t *testing.T) {
		type pair struct {
			key  string
			rank int
		}
		in := From([]pair{{"x", 2}, {"y", 1}, {"z", 2}})
		got := SortBy(in, func(p pair) int { return p.rank }).Collect()
		require.Equal(t, []pair{{"y", 1}, {"x", 2}, {"z", 2}}, got)
		require.Equal(t, 3, in.Count())
	})
}
