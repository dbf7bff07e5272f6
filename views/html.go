package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// html accumulates writes and keeps the first error, so components can be
// written top to bottom without checking every call.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"`, escaping value.
func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// optAttr writes the attribute only when value is non-empty.
func (h *html) optAttr(name, value string) {
	if value != "" {
		h.attr(name, value)
	}
}

func (h *html) intAttr(name string, v int) {
	h.raw(" " + name + `="` + strconv.Itoa(v) + `"`)
}

// elem writes <tag class="class">text</tag>.
func (h *html) elem(tag, class, text string) {
	h.raw("<" + tag)
	h.optAttr("class", class)
	h.raw(">")
	h.text(text)
	h.raw("</" + tag + ">")
}

func (h *html) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func (h *html) list(class string, items []string) {
	if len(items) == 0 {
		return
	}
	h.raw("<ul")
	h.optAttr("class", class)
	h.raw(">")
	for _, it := range items {
		h.elem("li", "", it)
	}
	h.raw("</ul>")
}
