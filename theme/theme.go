// Package theme holds the state logic behind the site's colour-scheme toggle
// and the mobile navigation menu. The browser bindings live in webui.
package theme

import "time"

// Theme is an explicit colour scheme. The zero value means no explicit
// choice, so the system preference applies.
type Theme string

const (
	None  Theme = ""
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey is the preference store key holding the saved theme.
const StorageKey = "theme"

// TransitionClass is added to the root element while colours animate.
const TransitionClass = "theme-transition"

// TransitionDuration is how long TransitionClass stays on.
const TransitionDuration = 300 * time.Millisecond

// Parse converts a stored value into a Theme. Unknown values yield None.
func Parse(s string) Theme {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s)
	default:
		return None
	}
}

// Toggle returns the theme that follows current. Without an explicit theme
// the opposite of the system preference is chosen.
func Toggle(current Theme, systemDark bool) Theme {
	switch current {
	case Dark:
		return Light
	case Light:
		return Dark
	default:
		if systemDark {
			return Light
		}
		return Dark
	}
}

// Store is a string key-value preference store such as localStorage.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Root is the element carrying the data-theme attribute.
type Root interface {
	SetTheme(t Theme)
	Theme() Theme
	// Transition adds TransitionClass and removes it after d.
	Transition(d time.Duration)
}

// Switcher applies and toggles the saved theme.
type Switcher struct {
	store Store
	root  Root
}

// NewSwitcher creates a Switcher and applies any saved preference to root.
func NewSwitcher(store Store, root Root) *Switcher {
	s := &Switcher{store: store, root: root}
	if v, ok := store.Get(StorageKey); ok {
		if t := Parse(v); t != None {
			root.SetTheme(t)
		}
	}
	return s
}

// Toggle flips the theme, saves it and returns the new value.
func (s *Switcher) Toggle(systemDark bool) Theme {
	s.root.Transition(TransitionDuration)
	next := Toggle(s.root.Theme(), systemDark)
	s.root.SetTheme(next)
	s.store.Set(StorageKey, string(next))
	return next
}

// SystemChanged reacts to a change of the system colour scheme. CSS follows
// the system on its own, so only the transition is played, and only when
// no explicit theme has been saved.
func (s *Switcher) SystemChanged() {
	if v, ok := s.store.Get(StorageKey); ok && v != "" {
		return
	}
	s.root.Transition(TransitionDuration)
}
