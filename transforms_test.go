package petsite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<!doctype html>
<html>
  <head>
    <!-- comment -->
    <style> body { color : red ; } </style>
  </head>
  <body>
    <p>  Hello   there  </p>
  </body>
</html>`

func TestMinifyHTMLProduction(t *testing.T) {
	tr := MinifyHTML(true)
	out, err := tr.Apply([]byte(sampleHTML), "dist/index.html")
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "<!-- comment -->")
	assert.NotContains(t, s, "\n")
	assert.Contains(t, s, "color:red")
	assert.Less(t, len(out), len(sampleHTML))
}

func TestMinifyHTMLSkipsDevelopment(t *testing.T) {
	tr := MinifyHTML(false)
	out, err := tr.Apply([]byte(sampleHTML), "dist/index.html")
	require.NoError(t, err)
	assert.Equal(t, sampleHTML, string(out))
}

func TestMinifyHTMLSkipsNonHTML(t *testing.T) {
	tr := MinifyHTML(true)
	in := "<urlset>\n  <url/>\n</urlset>"
	out, err := tr.Apply([]byte(in), "dist/sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestLiveReloadInjectsBeforeBody(t *testing.T) {
	tr := LiveReload("/__livereload.js")
	out, err := tr.Apply([]byte("<html><body><p>x</p></body></html>"), "dist/index.html")
	require.NoError(t, err)
	assert.Equal(t, `<html><body><p>x</p><script src="/__livereload.js" defer></script></body></html>`, string(out))

	out, err = tr.Apply([]byte("plain"), "dist/robots.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain", string(out))
}

func TestTransformsOrderAndReplace(t *testing.T) {
	var ts Transforms
	appendTag := func(tag string) func([]byte, string) ([]byte, error) {
		return func(b []byte, _ string) ([]byte, error) { return append(b, tag...), nil }
	}
	ts.Add(Transform{Name: "late", Priority: 10, Apply: appendTag("L")})
	ts.Add(Transform{Name: "early", Priority: 1, Apply: appendTag("E")})
	ts.Add(Transform{Name: "also-late", Priority: 10, Apply: appendTag("A")})
	assert.Equal(t, []string{"early", "late", "also-late"}, ts.Names())

	out, err := ts.Run(nil, "x.html")
	require.NoError(t, err)
	assert.Equal(t, "ELA", string(out))

	ts.Add(Transform{Name: "early", Priority: 20, Apply: appendTag("e")})
	assert.Equal(t, []string{"late", "also-late", "early"}, ts.Names())
}

func TestTransformsRunError(t *testing.T) {
	var ts Transforms
	boom := errors.New("boom")
	ts.Add(Transform{Name: "bad", Apply: func([]byte, string) ([]byte, error) { return nil, boom }})
	_, err := ts.Run([]byte("x"), "a.html")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad")
}
