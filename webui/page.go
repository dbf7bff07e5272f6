//go:build js && wasm

package webui

import (
	"time"

	"honnef.co/go/js/dom/v2"

	"github.com/eringen/petsite/filters"
	"github.com/eringen/petsite/theme"
)

type menuView struct {
	toggle dom.Element
	nav    dom.Element
}

func (v menuView) SetExpanded(expanded bool) {
	if expanded {
		v.toggle.SetAttribute("aria-expanded", "true")
		v.nav.Class().Add("is-open")
		return
	}
	v.toggle.SetAttribute("aria-expanded", "false")
	v.nav.Class().Remove("is-open")
}

func initMenu() *theme.Menu {
	toggle := query(".header__menu-toggle")
	nav := query(".header__nav")
	if toggle == nil || nav == nil {
		return theme.NewMenu(nil)
	}
	m := theme.NewMenu(menuView{toggle: toggle, nav: nav})
	on(toggle, "click", func(dom.Event) { m.Toggle() })
	on(document, "keydown", func(ev dom.Event) {
		if eventKey(ev) == "Escape" {
			m.Close()
		}
	})
	return m
}

// initSmoothScroll scrolls in-page anchors below the sticky header.
func initSmoothScroll(m *theme.Menu) {
	for _, link := range queryAll(`a[href^="#"]`) {
		on(link, "click", func(ev dom.Event) {
			href := link.GetAttribute("href")
			if href == "#" {
				return
			}
			target := query(href)
			if target == nil {
				return
			}
			ev.PreventDefault()
			offset := 0.0
			if h := htmlElement(query(".header")); h != nil {
				offset = h.OffsetHeight()
			}
			top := target.Underlying().Call("getBoundingClientRect").Get("top").Float() +
				window.Underlying().Get("pageYOffset").Float() - offset
			smoothScrollTo(top)
			m.Close()
		})
	}
}

func initLogoScroll() {
	logo := query(".header__logo")
	if logo == nil {
		return
	}
	on(logo, "click", func(ev dom.Event) {
		p := window.Underlying().Get("location").Get("pathname").String()
		if p == "/" || p == "/index.html" {
			ev.PreventDefault()
			smoothScrollTo(0)
		}
	})
}

// updateAges refreshes [data-dob] elements so a cached page still shows the
// current age.
func updateAges(now time.Time) {
	for _, el := range queryAll("[data-dob]") {
		dob, ok := filters.ParseISO(dataset(el, "dob"))
		if !ok {
			continue
		}
		el.SetTextContent(filters.Age(dob, now))
	}
}

// Init wires every component found on the current page.
func Init(now func() time.Time) {
	initTheme()
	m := initMenu()
	initSmoothScroll(m)
	initLogoScroll()
	updateAges(now())
	initLightbox()
}
