package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 6, 1},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{14, 6, 3},
		{5, 0, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.n, tt.size), "TotalPages(%d, %d)", tt.n, tt.size)
	}
}

func TestPaginate_Slices(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, Paginate(items, 1, 6))
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12}, Paginate(items, 2, 6))
	assert.Equal(t, []int{13, 14}, Paginate(items, 3, 6))
}

func TestPaginate_OutOfRangeIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Empty(t, Paginate(items, 0, 2))
	assert.Empty(t, Paginate(items, 3, 2))
	assert.Empty(t, Paginate([]int{}, 1, 6))
	assert.False(t, ValidPage(0, 3, 2))
	assert.False(t, ValidPage(3, 3, 2))
	assert.True(t, ValidPage(1, 0, 6))
}

func TestPaginate_CoversListExactly(t *testing.T) {
	for n := 0; n <= 20; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		for size := 1; size <= 7; size++ {
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				var joined []int
				for page := 1; page <= TotalPages(n, size); page++ {
					chunk := Paginate(items, page, size)
					assert.LessOrEqual(t, len(chunk), size)
					joined = append(joined, chunk...)
				}
				if n == 0 {
					assert.Empty(t, joined)
					return
				}
				assert.Equal(t, items, joined)
			})
		}
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{9, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageWindow(tt.current, tt.total), "PageWindow(%d, %d)", tt.current, tt.total)
	}
}
