package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Layout wraps body in the document shell: head metadata, header with the
// menu and theme toggles, and footer.
func Layout(d LayoutData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		lang := d.Site.Language
		if lang == "" {
			lang = "en"
		}
		h.raw("<!doctype html><html")
		h.attr("lang", lang)
		h.raw("><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		head(h, d)
		h.raw("</head><body>")
		header(h, d)
		h.raw(`<main id="main" class="main">`)
		h.component(body)
		h.raw("</main>")
		footer(h, d)
		if d.Script != "" {
			h.raw("<script")
			h.attr("src", d.Script)
			h.raw(" defer></script>")
		}
		h.raw("</body></html>")
		return h.err
	})
}

func head(h *html, d LayoutData) {
	title := d.Meta.Title
	if title == "" {
		title = d.Site.Title
	} else if d.Site.Title != "" && title != d.Site.Title {
		title += " | " + d.Site.Title
	}
	desc := d.Meta.Description
	if desc == "" {
		desc = d.Site.Description
	}
	ogType := d.Meta.OGType
	if ogType == "" {
		ogType = "website"
	}

	h.elem("title", "", title)
	meta(h, "name", "description", desc)
	meta(h, "name", "keywords", d.Site.Keywords)
	meta(h, "name", "author", d.Site.Author)
	if d.Meta.URL != "" {
		h.raw(`<link rel="canonical"`)
		h.attr("href", d.Meta.URL)
		h.raw(">")
	}
	meta(h, "property", "og:title", title)
	meta(h, "property", "og:description", desc)
	meta(h, "property", "og:type", ogType)
	meta(h, "property", "og:url", d.Meta.URL)
	meta(h, "property", "og:image", d.Meta.Image)
	meta(h, "property", "og:site_name", d.Site.Title)
	meta(h, "name", "twitter:card", "summary_large_image")
	h.raw(`<meta name="color-scheme" content="light dark">`)
	for _, href := range d.Styles {
		h.raw(`<link rel="stylesheet"`)
		h.attr("href", href)
		h.raw(">")
	}
	h.raw(`<link rel="icon" href="/assets/logos/favicon.svg" type="image/svg+xml">`)

	ld := WebsiteJsonLD(d.Site)
	if !d.Home {
		ld = WebPageJsonLD(d.Site, d.Meta)
	}
	h.raw(`<script type="application/ld+json">`)
	h.raw(jsonLDEscape(ld))
	h.raw("</script>")
}

func meta(h *html, key, name, content string) {
	if content == "" {
		return
	}
	h.raw("<meta")
	h.attr(key, name)
	h.attr("content", content)
	h.raw(">")
}

func header(h *html, d LayoutData) {
	nav := d.Nav
	if nav == nil {
		nav = DefaultNav
	}
	h.raw(`<header class="header"><div class="header__inner">`)
	h.raw(`<a class="header__logo" href="/">`)
	h.text(d.Site.Title)
	h.raw("</a>")
	h.raw(`<button class="header__menu-toggle" type="button" aria-expanded="false" aria-controls="site-nav" aria-label="Menu"><span class="header__menu-icon"></span></button>`)
	h.raw(`<nav class="header__nav" id="site-nav" aria-label="Main">`)
	for _, l := range nav {
		h.raw(`<a class="header__link"`)
		h.attr("href", navHref(l.Anchor, d.Home))
		h.raw(">")
		h.text(l.Label)
		h.raw("</a>")
	}
	h.raw("</nav>")
	h.raw(`<button id="theme-toggle" class="header__theme-toggle" type="button" aria-label="Toggle dark mode"><span class="header__theme-icon"></span></button>`)
	h.raw("</div></header>")
}

func footer(h *html, d LayoutData) {
	owner := d.Site.Author
	if owner == "" {
		owner = d.Site.Title
	}
	h.raw(`<footer class="footer"><p class="footer__copy">&copy; `)
	h.raw(strconv.Itoa(d.Year))
	if owner != "" {
		h.raw(" ")
		h.text(owner)
	}
	h.raw("</p></footer>")
}
