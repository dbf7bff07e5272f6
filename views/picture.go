package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Source is one <source> element of a <picture>.
type Source struct {
	Type   string // MIME type, e.g. "image/jpeg"
	Srcset string
	Sizes  string
}

// PictureData describes a responsive image. Src, Width and Height belong to
// the fallback <img>.
type PictureData struct {
	Sources []Source
	Src     string
	Alt     string
	Class   string
	Loading string // default "lazy"
	Width   int
	Height  int
}

// Img renders a plain <img>, or nothing when src is empty.
func Img(src, alt, class, loading string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if src == "" {
			return nil
		}
		h := newHTML(ctx, w)
		h.raw("<img")
		h.attr("src", src)
		imgAttrs(h, alt, class, loading)
		h.raw(">")
		return h.err
	})
}

// Picture renders a <picture> with one <source> per entry and a sized
// fallback <img>.
func Picture(p PictureData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw("<picture>")
		for _, s := range p.Sources {
			h.raw("<source")
			h.attr("type", s.Type)
			h.attr("srcset", s.Srcset)
			h.optAttr("sizes", s.Sizes)
			h.raw(">")
		}
		h.raw("<img")
		h.attr("src", p.Src)
		imgAttrs(h, p.Alt, p.Class, p.Loading)
		if p.Width > 0 && p.Height > 0 {
			h.intAttr("width", p.Width)
			h.intAttr("height", p.Height)
		}
		h.raw("></picture>")
		return h.err
	})
}

func imgAttrs(h *html, alt, class, loading string) {
	if loading == "" {
		loading = "lazy"
	}
	h.attr("alt", alt)
	h.optAttr("class", class)
	h.attr("loading", loading)
}
