// Package lightbox implements the full-screen gallery viewer as an explicit
// state machine. It owns the active image collection, the current index and
// drag tracking, and drives a Renderer with a three-slot track
// (previous, current, next) laid out side by side, each one viewport wide.
//
// A Lightbox is owned by a single event loop and is not safe for concurrent
// use. Renderer, GridSyncer and Scheduler callbacks are expected to be
// delivered on that same loop.
package lightbox

import (
	"math"
	"time"
)

// DefaultCommitThreshold is the fraction of the viewport width a drag must
// exceed to navigate.
const DefaultCommitThreshold = 0.2

// Renderer is the surface the lightbox draws onto.
type Renderer interface {
	// SetSlots displays the three track images.
	SetSlots(prev, current, next Item)
	// SetTrack moves the track to offset pixels. When animate is false the
	// move must be immediate; when true the renderer animates and later
	// reports completion through Lightbox.TransitionEnd.
	SetTrack(offset float64, animate bool)
	// Show makes the overlay visible and locks page scrolling.
	Show()
	// Hide hides the overlay and restores page scrolling.
	Hide()
}

// CaptionRenderer is implemented by renderers that have a caption area.
type CaptionRenderer interface {
	SetCaption(text string, visible bool)
}

// NavRenderer is implemented by renderers that have prev/next controls.
type NavRenderer interface {
	SetNavVisible(visible bool)
}

// Viewport reports the current viewport width in pixels.
type Viewport interface {
	Width() float64
}

// ViewportFunc adapts a function to Viewport.
type ViewportFunc func() float64

// Width calls f.
func (f ViewportFunc) Width() float64 { return f() }

// GridSyncer scrolls the underlying gallery grid so the element at index is
// at its nearest visible edge, without animation.
type GridSyncer interface {
	ScrollIntoView(index int)
}

// Scheduler runs f after d on the lightbox's event loop. The returned
// function cancels the call if it has not run yet.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func())
}

// Option configures a Lightbox.
type Option func(*Lightbox)

// WithGridSync sets the grid scrolled into place on close.
func WithGridSync(g GridSyncer) Option {
	return func(lb *Lightbox) {
		lb.grid = g
	}
}

// WithCommitThreshold overrides DefaultCommitThreshold. Values outside
// (0, 1] are ignored.
func WithCommitThreshold(fraction float64) Option {
	return func(lb *Lightbox) {
		if fraction > 0 && fraction <= 1 {
			lb.threshold = fraction
		}
	}
}

// WithTransitionTimeout releases a pending slide reset if no completion
// notification arrives within d. Without it a lost notification leaves the
// lightbox animating until the next drag or key press.
func WithTransitionTimeout(d time.Duration, s Scheduler) Option {
	return func(lb *Lightbox) {
		if d > 0 && s != nil {
			lb.timeout = d
			lb.sched = s
		}
	}
}

type drag struct {
	startX float64
	lastX  float64
}

// Lightbox is the gallery viewer state.
type Lightbox struct {
	r        Renderer
	caption  CaptionRenderer
	nav      NavRenderer
	viewport Viewport
	grid     GridSyncer

	threshold float64
	timeout   time.Duration
	sched     Scheduler

	phase      Phase
	items      []Item
	index      int
	navigation bool
	drag       drag
	dragOffset float64

	// token identifies the in-flight slide; zero when none is pending.
	token     uint64
	nextToken uint64
	stopTimer func()

	onClose func()
}

// New creates a closed Lightbox drawing onto r. Optional capabilities of r
// (CaptionRenderer, NavRenderer) are detected here once.
func New(r Renderer, vp Viewport, opts ...Option) *Lightbox {
	lb := &Lightbox{
		r:         r,
		viewport:  vp,
		threshold: DefaultCommitThreshold,
	}
	if c, ok := r.(CaptionRenderer); ok {
		lb.caption = c
	}
	if n, ok := r.(NavRenderer); ok {
		lb.nav = n
	}
	for _, opt := range opts {
		opt(lb)
	}
	return lb
}

// Phase returns the current lifecycle phase.
func (lb *Lightbox) Phase() Phase { return lb.phase }

// IsOpen reports whether the overlay is visible.
func (lb *Lightbox) IsOpen() bool { return lb.phase.IsOpen() }

// Index returns the current index into the active collection.
func (lb *Lightbox) Index() int { return lb.index }

// Len returns the size of the active collection.
func (lb *Lightbox) Len() int { return len(lb.items) }

// HasNavigation reports whether prev/next navigation is enabled for the
// current session.
func (lb *Lightbox) HasNavigation() bool { return lb.navigation }

// PendingReset reports whether a slide animation is awaiting completion.
func (lb *Lightbox) PendingReset() bool { return lb.token != 0 }

// DragOffset returns the track offset relative to rest while dragging.
func (lb *Lightbox) DragOffset() float64 { return lb.dragOffset }

// SlotIndices returns the prev, current and next indices around the
// committed index. While a slide is animating the renderer still shows the
// previous triple; it catches up when the reset completes.
func (lb *Lightbox) SlotIndices() (prev, current, next int) {
	return Slots(lb.index, len(lb.items))
}

// Current returns the item in the current slot.
func (lb *Lightbox) Current() (Item, bool) {
	if len(lb.items) == 0 {
		return Item{}, false
	}
	return lb.items[lb.index], true
}

// OnClose registers f to run after the overlay is hidden.
func (lb *Lightbox) OnClose(f func()) { lb.onClose = f }

// Open shows items starting at start. Navigation is enabled only when
// requested and the collection has more than one item. An empty collection
// is ignored.
func (lb *Lightbox) Open(items []Item, start int, navigation bool) {
	if len(items) == 0 {
		return
	}
	lb.releaseToken()
	lb.items = items
	lb.index = Wrap(start, len(items))
	lb.navigation = navigation && len(items) > 1
	lb.drag = drag{}
	lb.dragOffset = 0
	lb.phase = OpenStatic

	lb.r.Show()
	lb.render()
	lb.rest(false)
}

// Close hides the overlay. When navigation was enabled the grid is first
// scrolled to the current image so the page is already in place when the
// overlay disappears.
func (lb *Lightbox) Close() {
	if !lb.phase.IsOpen() {
		return
	}
	if lb.token != 0 {
		lb.completeReset()
	}
	if lb.navigation && lb.grid != nil {
		lb.grid.ScrollIntoView(lb.index)
	}
	lb.drag = drag{}
	lb.dragOffset = 0
	lb.phase = Closed
	lb.r.Hide()
	if lb.onClose != nil {
		lb.onClose()
	}
}

// Prev moves to the previous image without animation.
func (lb *Lightbox) Prev() {
	if lb.phase.IsOpen() && lb.navigation {
		lb.GoTo(lb.index-1, 0)
	}
}

// Next moves to the next image without animation.
func (lb *Lightbox) Next() {
	if lb.phase.IsOpen() && lb.navigation {
		lb.GoTo(lb.index+1, 0)
	}
}

// GoTo moves to target, wrapping in both directions. A zero direction
// switches instantly. A negative direction slides the track towards the next
// slot, a positive one towards the previous slot; the slots are swapped only
// once TransitionEnd reports the slide finished.
func (lb *Lightbox) GoTo(target, direction int) {
	if !lb.phase.IsOpen() || len(lb.items) == 0 {
		return
	}
	if lb.token != 0 {
		lb.completeReset()
	}
	lb.index = Wrap(target, len(lb.items))
	lb.drag = drag{}
	lb.dragOffset = 0

	if direction == 0 {
		lb.phase = OpenStatic
		lb.render()
		lb.rest(false)
		return
	}

	w := lb.viewport.Width()
	x := 0.0
	if direction < 0 {
		x = -2 * w
	}
	lb.phase = OpenAnimating
	lb.acquireToken()
	lb.r.SetTrack(x, true)
}

// TransitionEnd is the completion notification for an animated slide.
// Notifications with no slide pending are ignored.
func (lb *Lightbox) TransitionEnd() {
	if lb.token == 0 {
		return
	}
	lb.completeReset()
}

// DragStart begins tracking a gesture at x. A pending slide reset is
// completed first.
func (lb *Lightbox) DragStart(x float64) {
	if !lb.phase.IsOpen() || !lb.navigation {
		return
	}
	if lb.token != 0 {
		lb.completeReset()
	}
	lb.phase = OpenDragging
	lb.drag = drag{startX: x, lastX: x}
	lb.dragOffset = 0
}

// DragMove follows the pointer with no animation.
func (lb *Lightbox) DragMove(x float64) {
	if lb.phase != OpenDragging || !lb.navigation {
		return
	}
	lb.drag.lastX = x
	lb.dragOffset = x - lb.drag.startX
	lb.r.SetTrack(-lb.viewport.Width()+lb.dragOffset, false)
}

// DragEnd finishes the gesture. A displacement strictly greater than the
// commit threshold navigates; anything shorter snaps back.
func (lb *Lightbox) DragEnd() {
	if lb.phase != OpenDragging {
		return
	}
	d := lb.drag.lastX - lb.drag.startX
	lb.phase = OpenStatic
	lb.drag = drag{}
	lb.dragOffset = 0

	w := lb.viewport.Width()
	if math.Abs(d) > w*lb.threshold {
		if d > 0 {
			lb.GoTo(lb.index-1, 1)
		} else {
			lb.GoTo(lb.index+1, -1)
		}
		return
	}
	lb.r.SetTrack(-w, true)
}

func (lb *Lightbox) render() {
	prev, cur, next := Slots(lb.index, len(lb.items))
	lb.r.SetSlots(lb.items[prev], lb.items[cur], lb.items[next])
	if lb.caption != nil {
		text := lb.items[cur].Caption
		lb.caption.SetCaption(text, text != "")
	}
	if lb.nav != nil {
		lb.nav.SetNavVisible(lb.navigation)
	}
}

func (lb *Lightbox) rest(animate bool) {
	lb.r.SetTrack(-lb.viewport.Width(), animate)
}

func (lb *Lightbox) acquireToken() {
	lb.nextToken++
	tok := lb.nextToken
	lb.token = tok
	if lb.sched == nil {
		return
	}
	lb.stopTimer = lb.sched.AfterFunc(lb.timeout, func() {
		if lb.token == tok {
			lb.completeReset()
		}
	})
}

func (lb *Lightbox) releaseToken() {
	lb.token = 0
	if lb.stopTimer != nil {
		lb.stopTimer()
		lb.stopTimer = nil
	}
}

// completeReset swaps in the slots for the committed index and snaps the
// track back to rest.
func (lb *Lightbox) completeReset() {
	lb.releaseToken()
	if lb.phase == OpenAnimating {
		lb.phase = OpenStatic
	}
	lb.render()
	lb.rest(false)
}
