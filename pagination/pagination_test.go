package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		limit     int
		offset    int
		wantLen   int
		wantFirst int
		wantLimit int
		wantMore  bool
	}{
		{"first page", 10, 3, 0, 3, 0, 3, true},
		{"middle page", 10, 3, 3, 3, 3, 3, true},
		{"last partial page", 10, 3, 9, 1, 9, 3, false},
		{"exact end", 6, 3, 3, 3, 3, 3, false},
		{"zero limit uses default", 120, 0, 0, 50, 0, 50, true},
		{"negative limit uses default", 20, -1, 0, 20, 0, 50, false},
		{"limit capped at max", 600, 1000, 0, 500, 0, 500, true},
		{"negative offset clamps", 5, 2, -4, 2, 0, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Window(seq(tt.n), tt.limit, tt.offset)
			assert.Len(t, p.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirst, p.Items[0])
			assert.Equal(t, tt.n, p.Total)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantMore, p.HasMore)
		})
	}
}

func TestWindowPastEnd(t *testing.T) {
	p := Window(seq(5), 10, 5)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 5, p.Total)
	assert.False(t, p.HasMore)

	p = Window[string](nil, 10, 0)
	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.Total)
}

func TestWindowDoesNotAlias(t *testing.T) {
	src := seq(4)
	p := Window(src, 2, 0)
	p.Items[0] = 99
	assert.Equal(t, 0, src[0])
}

func TestBoundedCustomLimits(t *testing.T) {
	p := Bounded(seq(30), 0, 0, 10, 20)
	assert.Len(t, p.Items, 10)
	p = Bounded(seq(30), 25, 0, 10, 20)
	assert.Equal(t, 20, p.Limit)
}
