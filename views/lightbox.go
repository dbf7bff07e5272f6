package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Lightbox renders the empty viewer shell driven by the browser module.
// It starts hidden; images are filled in when a photo is opened.
func Lightbox() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="lightbox" class="lightbox" role="dialog" aria-modal="true" aria-hidden="true" aria-label="Photo viewer">`+
			`<button class="lightbox__close" type="button" aria-label="Close">&times;</button>`+
			`<button class="lightbox__nav lightbox__nav--prev" type="button" aria-label="Previous photo">&#8249;</button>`+
			`<div class="lightbox__viewport"><div class="lightbox__container">`+
			`<img class="lightbox__image lightbox__image--prev" alt="">`+
			`<img class="lightbox__image lightbox__image--current" alt="">`+
			`<img class="lightbox__image lightbox__image--next" alt="">`+
			`</div></div>`+
			`<button class="lightbox__nav lightbox__nav--next" type="button" aria-label="Next photo">&#8250;</button>`+
			`<p class="lightbox__caption" aria-live="polite"></p>`+
			`</div>`)
		return err
	})
}
