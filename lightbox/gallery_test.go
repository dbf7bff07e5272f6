package lightbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGalleryOpenAt(t *testing.T) {
	r := &fakeRenderer{}
	lb := New(r, width(1000))
	g := NewGallery(lb, abc(), nil)

	g.OpenAt(2)
	assert.True(t, lb.IsOpen())
	assert.Equal(t, 2, lb.Index())
	assert.True(t, lb.HasNavigation())

	lb.Close()
	g.OpenAt(5)
	assert.False(t, lb.IsOpen(), "out of range index is ignored")
}

func TestGalleryHeroDoesNotReplaceGallery(t *testing.T) {
	r := &fakeRenderer{}
	grid := &fakeGrid{}
	lb := New(r, width(1000), WithGridSync(grid))
	g := NewGallery(lb, abc(), &Item{Src: "hero.jpg", Caption: "Hero"})
	assert.True(t, g.HasHero())

	g.OpenAt(1)
	lb.Close()
	g.OpenHero()
	assert.Equal(t, 1, lb.Len())
	assert.Equal(t, 0, lb.Index())
	assert.False(t, lb.HasNavigation())
	assert.Equal(t, "Hero", r.caption)
	assert.False(t, r.navShow)
	lb.Close()
	assert.Equal(t, []int{1}, grid.calls, "hero session does not scroll the grid")

	g.OpenAt(2)
	assert.Equal(t, 3, lb.Len())
	assert.Len(t, g.Items(), 3)
	assert.Equal(t, [3]string{"b.jpg", "c.jpg", "a.jpg"}, r.srcs())
}

func TestGalleryWithoutHero(t *testing.T) {
	lb := New(&fakeRenderer{}, width(1000))
	g := NewGallery(lb, nil, nil)
	g.OpenHero()
	g.OpenAt(0)
	assert.False(t, lb.IsOpen())
}
