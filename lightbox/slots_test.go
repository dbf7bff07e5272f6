package lightbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		index, n, want int
	}{
		{0, 3, 0},
		{-1, 3, 2},
		{3, 3, 0},
		{-4, 3, 2},
		{7, 3, 1},
		{5, 1, 0},
		{2, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Wrap(tt.index, tt.n), "Wrap(%d, %d)", tt.index, tt.n)
	}
}

func TestSlotsSingleItem(t *testing.T) {
	prev, cur, next := Slots(0, 1)
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{prev, cur, next})
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "animating", OpenAnimating.String())
	assert.False(t, Closed.IsOpen())
	assert.True(t, OpenDragging.IsOpen())
}
