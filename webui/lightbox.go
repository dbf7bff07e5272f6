//go:build js && wasm

package webui

import (
	"fmt"
	"time"

	"honnef.co/go/js/dom/v2"

	"github.com/eringen/petsite/lightbox"
)

// reducedMotionTimeout bounds a slide when transitions may be disabled and
// transitionend never fires.
const reducedMotionTimeout = 400 * time.Millisecond

type domRenderer struct {
	overlay   dom.Element
	container dom.HTMLElement
	images    [3]dom.Element
	caption   dom.HTMLElement
	navPrev   dom.Element
	navNext   dom.Element

	gate  overlayGate
	frame int // pending hide frame, 0 when none
}

func (r *domRenderer) SetSlots(prev, current, next lightbox.Item) {
	for i, it := range [3]lightbox.Item{prev, current, next} {
		img := r.images[i]
		if img == nil {
			continue
		}
		img.SetAttribute("src", it.Src)
		img.SetAttribute("alt", it.Caption)
	}
}

func (r *domRenderer) SetTrack(offset float64, animate bool) {
	if animate {
		r.container.Class().Remove("is-dragging")
	} else {
		r.container.Class().Add("is-dragging")
	}
	r.container.Style().SetProperty("transform", fmt.Sprintf("translateX(%gpx)", offset), "")
}

func (r *domRenderer) Show() {
	r.gate.show()
	if r.frame != 0 {
		window.CancelAnimationFrame(r.frame)
		r.frame = 0
	}
	r.overlay.Class().Add("is-open")
	r.overlay.SetAttribute("aria-hidden", "false")
	if b := body(); b != nil {
		b.Style().SetProperty("overflow", "hidden", "")
	}
}

// Hide waits a frame so a grid scroll issued just before has landed. A
// Show in the meantime wins.
func (r *domRenderer) Hide() {
	current := r.gate.hide()
	if r.frame != 0 {
		window.CancelAnimationFrame(r.frame)
	}
	r.frame = window.RequestAnimationFrame(func(time.Duration) {
		r.frame = 0
		if !current() {
			return
		}
		r.overlay.Class().Remove("is-open")
		r.overlay.SetAttribute("aria-hidden", "true")
		if b := body(); b != nil {
			b.Style().RemoveProperty("overflow")
		}
	})
}

func (r *domRenderer) SetCaption(text string, visible bool) {
	if r.caption == nil {
		return
	}
	r.caption.SetTextContent(text)
	if visible {
		r.caption.Style().RemoveProperty("display")
	} else {
		r.caption.Style().SetProperty("display", "none", "")
	}
}

func (r *domRenderer) SetNavVisible(visible bool) {
	for _, b := range []dom.Element{r.navPrev, r.navNext} {
		if b == nil {
			continue
		}
		if visible {
			b.Class().Remove("is-hidden")
		} else {
			b.Class().Add("is-hidden")
		}
	}
}

type gridSyncer []dom.Element

func (g gridSyncer) ScrollIntoView(index int) {
	if index < 0 || index >= len(g) {
		return
	}
	el := g[index]
	grid := el.ParentElement()
	if grid != nil {
		grid.Class().Add("instant-scroll")
	}
	el.Underlying().Call("scrollIntoView", map[string]any{"block": "nearest", "inline": "start"})
	if grid != nil {
		grid.Class().Remove("instant-scroll")
	}
}

type timeoutScheduler struct{}

func (timeoutScheduler) AfterFunc(d time.Duration, f func()) func() {
	return afterFunc(d, f)
}

func initLightbox() *lightbox.Lightbox {
	overlay := document.GetElementByID("lightbox")
	if overlay == nil {
		return nil
	}
	r := &domRenderer{
		overlay:   overlay,
		container: htmlElement(overlay.QuerySelector(".lightbox__container")),
		caption:   htmlElement(overlay.QuerySelector(".lightbox__caption")),
		navPrev:   overlay.QuerySelector(".lightbox__nav--prev"),
		navNext:   overlay.QuerySelector(".lightbox__nav--next"),
	}
	for i, sel := range []string{".lightbox__image--prev", ".lightbox__image--current", ".lightbox__image--next"} {
		r.images[i] = overlay.QuerySelector(sel)
	}
	if r.container == nil {
		return nil
	}

	elements := queryAll(".gallery__item[data-lightbox]")
	items := make([]lightbox.Item, len(elements))
	for i, el := range elements {
		items[i] = lightbox.Item{Src: dataset(el, "lightbox"), Caption: dataset(el, "alt")}
	}

	opts := []lightbox.Option{lightbox.WithGridSync(gridSyncer(elements))}
	if mediaMatches("(prefers-reduced-motion: reduce)") {
		opts = append(opts, lightbox.WithTransitionTimeout(reducedMotionTimeout, timeoutScheduler{}))
	}
	vp := lightbox.ViewportFunc(func() float64 { return float64(window.InnerWidth()) })
	lb := lightbox.New(r, vp, opts...)

	var hero *lightbox.Item
	heroEl := query(".hero__image-wrapper[data-lightbox]")
	if heroEl != nil {
		hero = &lightbox.Item{Src: dataset(heroEl, "lightbox"), Caption: dataset(heroEl, "alt")}
	}
	g := lightbox.NewGallery(lb, items, hero)

	for i, el := range elements {
		on(el, "click", func(dom.Event) { g.OpenAt(i) })
	}
	if hero != nil {
		on(heroEl, "click", func(dom.Event) { g.OpenHero() })
	}
	if r.navPrev != nil {
		on(r.navPrev, "click", func(dom.Event) { lb.Prev() })
	}
	if r.navNext != nil {
		on(r.navNext, "click", func(dom.Event) { lb.Next() })
	}
	if c := overlay.QuerySelector(".lightbox__close"); c != nil {
		on(c, "click", func(dom.Event) { lb.Close() })
	}
	on(overlay, "click", func(ev dom.Event) {
		if same(ev.Target(), overlay) {
			lb.Close()
		}
	})
	on(document, "keydown", func(ev dom.Event) {
		if lb.Key(eventKey(ev)) {
			ev.PreventDefault()
		}
	})

	on(r.container, "touchstart", func(ev dom.Event) {
		lb.DragStart(touchX(ev))
	})
	onActive(r.container, "touchmove", func(ev dom.Event) {
		if lb.Phase() != lightbox.OpenDragging {
			return
		}
		ev.PreventDefault()
		lb.DragMove(touchX(ev))
	})
	on(r.container, "touchend", func(dom.Event) { lb.DragEnd() })
	on(r.container, "touchcancel", func(dom.Event) { lb.DragEnd() })
	on(r.container, "transitionend", func(ev dom.Event) {
		if same(ev.Target(), r.container) {
			lb.TransitionEnd()
		}
	})
	return lb
}

func touchX(ev dom.Event) float64 {
	touches := ev.Underlying().Get("touches")
	if touches.Length() == 0 {
		return 0
	}
	return touches.Index(0).Get("clientX").Float()
}
