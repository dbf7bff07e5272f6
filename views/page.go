package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Page renders a markdown content page. body is trusted goldmark output.
func Page(title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<article class="section page"><div class="section__inner prose">`)
		if title != "" {
			h.elem("h1", "page__title", title)
		}
		h.raw(body)
		h.raw("</div></article>")
		return h.err
	})
}

// NotFound renders the 404 page body.
func NotFound() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="section not-found"><div class="section__inner">`+
			`<h1 class="section__title">Page not found</h1>`+
			`<p>Nothing lives at this address. It may have wandered off.</p>`+
			`<p><a class="button" href="/">Back home</a></p>`+
			`</div></section>`)
		return err
	})
}

// Raw wraps trusted HTML as a component.
func Raw(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}
