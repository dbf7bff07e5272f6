//go:build js && wasm

// Package webui binds the lightbox, theme and menu state machines to the
// browser DOM. It is compiled to WebAssembly by cmd/petsite-web.
package webui

import (
	"syscall/js"
	"time"

	"honnef.co/go/js/dom/v2"
)

var (
	window   = dom.GetWindow()
	document = window.Document()
)

func query(sel string) dom.Element {
	return document.QuerySelector(sel)
}

func queryAll(sel string) []dom.Element {
	return document.QuerySelectorAll(sel)
}

func htmlElement(el dom.Element) dom.HTMLElement {
	h, _ := el.(dom.HTMLElement)
	return h
}

func body() dom.HTMLElement {
	if d, ok := document.(dom.HTMLDocument); ok {
		return d.Body()
	}
	return nil
}

func same(a dom.Element, b dom.Element) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Underlying().Equal(b.Underlying())
}

// on registers fn for event on target. Handlers live as long as the page.
func on(target dom.EventTarget, event string, fn func(ev dom.Event)) {
	target.AddEventListener(event, false, fn)
}

// onActive registers fn with {passive: false} so it may call
// preventDefault during touch moves; AddEventListener takes no options.
func onActive(target dom.EventTarget, event string, fn func(ev dom.Event)) {
	opts := js.ValueOf(map[string]any{"passive": false})
	target.Underlying().Call("addEventListener", event, js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(dom.WrapEvent(args[0]))
		return nil
	}), opts)
}

// afterFunc runs f after d. The callback is released when it runs or when
// stop cancels it.
func afterFunc(d time.Duration, f func()) (stop func()) {
	var cb js.Func
	shot := &oneShot{release: func() { cb.Release() }}
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		if shot.settle() {
			f()
		}
		return nil
	})
	id := window.Underlying().Call("setTimeout", cb, d.Milliseconds())
	return func() {
		if shot.settle() {
			window.Underlying().Call("clearTimeout", id)
		}
	}
}

func mediaMatches(q string) bool {
	return window.Underlying().Call("matchMedia", q).Get("matches").Bool()
}

func dataset(el dom.Element, key string) string {
	if h := htmlElement(el); h != nil {
		return h.Dataset()[key]
	}
	return ""
}

func eventKey(ev dom.Event) string {
	return ev.Underlying().Get("key").String()
}

func smoothScrollTo(top float64) {
	window.Underlying().Call("scrollTo", map[string]any{"top": top, "behavior": "smooth"})
}
