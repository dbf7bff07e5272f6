package theme

// MenuView is the mobile navigation toggle and panel.
type MenuView interface {
	SetExpanded(expanded bool)
}

// Menu tracks whether the mobile navigation is open.
type Menu struct {
	view MenuView
	open bool
}

// NewMenu returns a closed menu. A nil view makes every call a no-op.
func NewMenu(view MenuView) *Menu {
	return &Menu{view: view}
}

// IsOpen reports whether the menu is expanded.
func (m *Menu) IsOpen() bool { return m.open }

// Toggle opens a closed menu and closes an open one.
func (m *Menu) Toggle() {
	if m.view == nil {
		return
	}
	m.open = !m.open
	m.view.SetExpanded(m.open)
}

// Close collapses the menu. It is used for Escape and anchor navigation.
func (m *Menu) Close() {
	if m.view == nil {
		return
	}
	m.open = false
	m.view.SetExpanded(false)
}
