package petsite

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// Transform rewrites an output file before it is written. Lower Priority
// runs first.
type Transform struct {
	Name     string
	Priority int
	Apply    func(content []byte, outputPath string) ([]byte, error)
}

// Transforms is an ordered registry of named transforms.
type Transforms struct {
	list []Transform
}

// Add registers t, replacing any transform with the same name. Equal
// priorities keep registration order.
func (ts *Transforms) Add(t Transform) {
	ts.list = slices.DeleteFunc(ts.list, func(o Transform) bool { return o.Name == t.Name })
	i := len(ts.list)
	for j, o := range ts.list {
		if t.Priority < o.Priority {
			i = j
			break
		}
	}
	ts.list = slices.Insert(ts.list, i, t)
}

// Names lists the registered transforms in run order.
func (ts *Transforms) Names() []string {
	out := make([]string, len(ts.list))
	for i, t := range ts.list {
		out[i] = t.Name
	}
	return out
}

// Run applies every transform to content in order.
func (ts *Transforms) Run(content []byte, outputPath string) ([]byte, error) {
	var err error
	for _, t := range ts.list {
		content, err = t.Apply(content, outputPath)
		if err != nil {
			return nil, fmt.Errorf("transform %s on %s: %w", t.Name, outputPath, err)
		}
	}
	return content, nil
}

var jsMediaType = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`)

// NewMinifier returns a minifier for HTML with inline CSS and JS.
func NewMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &html.Minifier{KeepDocumentTags: true, KeepEndTags: true, KeepQuotes: true})
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(jsMediaType, js.Minify)
	return m
}

// MinifyHTML collapses whitespace and drops comments in .html outputs of
// production builds. Everything else passes through unchanged.
func MinifyHTML(production bool) Transform {
	m := NewMinifier()
	return Transform{
		Name:     "minify-html",
		Priority: 100,
		Apply: func(content []byte, outputPath string) ([]byte, error) {
			if !production || !isHTML(outputPath) {
				return content, nil
			}
			return m.Bytes("text/html", content)
		},
	}
}

// LiveReload injects the reload client before </body> of .html outputs.
func LiveReload(scriptURL string) Transform {
	tag := []byte(`<script src="` + scriptURL + `" defer></script>`)
	closing := []byte("</body>")
	return Transform{
		Name:     "livereload",
		Priority: 50,
		Apply: func(content []byte, outputPath string) ([]byte, error) {
			if !isHTML(outputPath) {
				return content, nil
			}
			i := bytes.LastIndex(content, closing)
			if i < 0 {
				return append(content, tag...), nil
			}
			out := make([]byte, 0, len(content)+len(tag))
			out = append(out, content[:i]...)
			out = append(out, tag...)
			return append(out, content[i:]...), nil
		},
	}
}
