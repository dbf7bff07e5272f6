//go:build js && wasm

package webui

import (
	"syscall/js"
	"time"

	"honnef.co/go/js/dom/v2"

	"github.com/eringen/petsite/theme"
)

const darkQuery = "(prefers-color-scheme: dark)"

// localStore wraps localStorage. Storage can throw when disabled, in which
// case preferences are simply not persisted.
type localStore struct {
	ls js.Value
}

func (s localStore) Get(key string) (v string, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = "", false
		}
	}()
	if s.ls.IsUndefined() || s.ls.IsNull() {
		return "", false
	}
	item := s.ls.Call("getItem", key)
	if item.IsNull() || item.IsUndefined() {
		return "", false
	}
	return item.String(), true
}

func (s localStore) Set(key, value string) {
	defer func() { _ = recover() }()
	if !s.ls.IsUndefined() && !s.ls.IsNull() {
		s.ls.Call("setItem", key, value)
	}
}

type rootElement struct {
	el dom.Element
}

func (r rootElement) SetTheme(t theme.Theme) {
	r.el.SetAttribute("data-theme", string(t))
}

func (r rootElement) Theme() theme.Theme {
	return theme.Parse(r.el.GetAttribute("data-theme"))
}

func (r rootElement) Transition(d time.Duration) {
	r.el.Class().Add(theme.TransitionClass)
	afterFunc(d, func() { r.el.Class().Remove(theme.TransitionClass) })
}

func initTheme() *theme.Switcher {
	var ls js.Value
	func() {
		defer func() { _ = recover() }()
		ls = window.Underlying().Get("localStorage")
	}()
	sw := theme.NewSwitcher(localStore{ls: ls}, rootElement{el: document.DocumentElement()})

	if toggle := document.GetElementByID("theme-toggle"); toggle != nil {
		on(toggle, "click", func(dom.Event) { sw.Toggle(mediaMatches(darkQuery)) })
	}
	mql := window.Underlying().Call("matchMedia", darkQuery)
	mql.Call("addEventListener", "change", js.FuncOf(func(js.Value, []js.Value) any {
		sw.SystemChanged()
		return nil
	}))
	return sw
}
