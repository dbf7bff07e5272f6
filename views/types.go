package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/petsite/petdata"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // absolute og:image URL
}

// NavLink is one entry of the header navigation.
type NavLink struct {
	Label  string
	Anchor string // section id on the home page, without '#'
}

// DefaultNav lists the home page sections.
var DefaultNav = []NavLink{
	{Label: "About", Anchor: "about"},
	{Label: "Gallery", Anchor: "gallery"},
	{Label: "Health", Anchor: "health"},
	{Label: "Routine", Anchor: "routine"},
	{Label: "Contact", Anchor: "contact"},
}

// Images renders responsive images. The build's optimiser implements it.
type Images interface {
	Picture(src, alt, class, loading string) templ.Component
	URL(ctx context.Context, src string, width int, format string) string
}

// LayoutData is everything the page shell needs.
type LayoutData struct {
	Site   petdata.Site
	Meta   PageMeta
	Year   int
	Home   bool // nav links are in-page anchors on the home page
	Nav    []NavLink
	Styles []string // stylesheet URLs
	Script string   // entry script URL
}
