package lightbox

// Gallery holds the two image populations read from the page: the
// multi-image gallery and the optional single hero image. They are never
// merged; opening the hero only swaps the active collection for that
// session.
type Gallery struct {
	lb    *Lightbox
	items []Item
	hero  *Item
}

// NewGallery binds the populations to lb. items is copied and not observed
// afterwards.
func NewGallery(lb *Lightbox, items []Item, hero *Item) *Gallery {
	g := &Gallery{lb: lb, items: append([]Item(nil), items...)}
	if hero != nil {
		h := *hero
		g.hero = &h
	}
	return g
}

// Items returns the gallery population.
func (g *Gallery) Items() []Item { return g.items }

// HasHero reports whether a hero image was found.
func (g *Gallery) HasHero() bool { return g.hero != nil }

// OpenAt opens the gallery population at index with navigation when it has
// more than one image.
func (g *Gallery) OpenAt(index int) {
	if index < 0 || index >= len(g.items) {
		return
	}
	g.lb.Open(g.items, index, len(g.items) > 1)
}

// OpenHero opens the hero image on its own, without navigation.
func (g *Gallery) OpenHero() {
	if g.hero == nil {
		return
	}
	g.lb.Open([]Item{*g.hero}, 0, false)
}
