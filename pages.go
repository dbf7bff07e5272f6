package petsite

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

// FrontMatter is the optional YAML header of a markdown page.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Permalink   string `yaml:"permalink"`
	Draft       bool   `yaml:"draft"`
}

// Page is a rendered markdown file from the views directory.
type Page struct {
	FrontMatter
	Source string // path relative to the views directory, slash separated
	URL    string // "/story/"
	Output string // path relative to the output directory, e.g. "story/index.html"
	HTML   string // rendered body
	Home   bool   // index.md, merged into the home page
}

var frontMatterDelim = []byte("---")

// newMarkdown returns the goldmark renderer used for pages. Raw HTML in
// pages is kept.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// splitFrontMatter separates a leading "---" YAML block from the body.
// Content without one has empty front matter.
func splitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(src, frontMatterDelim) {
		return fm, src, nil
	}
	rest := src[len(frontMatterDelim):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return fm, src, nil
	}
	rest = rest[nl+1:]

	var header []byte
	for len(rest) > 0 {
		line := rest
		next := []byte(nil)
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, next = rest[:i], rest[i+1:]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterDelim) {
			if err := yaml.Unmarshal(header, &fm); err != nil {
				return FrontMatter{}, nil, fmt.Errorf("front matter: %w", err)
			}
			return fm, next, nil
		}
		header = append(header, line...)
		header = append(header, '\n')
		rest = next
	}
	return FrontMatter{}, nil, fmt.Errorf("front matter: missing closing ---")
}

// LoadPages renders every **/*.md file under dir. Drafts are skipped in
// production. Pages are returned ordered by URL.
func LoadPages(dir string, production bool) ([]Page, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "**/*.md")
	if err != nil {
		return nil, err
	}
	md := newMarkdown()

	seen := make(map[string]string)
	var pages []Page
	for _, rel := range matches {
		src, err := fs.ReadFile(fsys, rel)
		if err != nil {
			return nil, err
		}
		fm, body, err := splitFrontMatter(src)
		if err != nil {
			return nil, fmt.Errorf("petsite: %s: %w", rel, err)
		}
		if fm.Draft && production {
			continue
		}
		var buf bytes.Buffer
		if err := md.Convert(body, &buf); err != nil {
			return nil, fmt.Errorf("petsite: render %s: %w", rel, err)
		}

		p := Page{FrontMatter: fm, Source: rel, HTML: buf.String()}
		p.URL, p.Output, p.Home = pageRoute(rel, fm.Permalink)
		if prev, ok := seen[p.Output]; ok {
			return nil, fmt.Errorf("petsite: %s and %s both write %s", prev, rel, p.Output)
		}
		seen[p.Output] = rel
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].URL < pages[j].URL })
	return pages, nil
}

// pageRoute maps a source path or permalink to its URL and output file.
func pageRoute(rel, permalink string) (url, output string, home bool) {
	if permalink != "" {
		p := "/" + strings.TrimPrefix(path.Clean("/"+permalink), "/")
		switch {
		case strings.HasSuffix(p, ".html"):
			return p, strings.TrimPrefix(p, "/"), false
		case p == "/":
			return "/", "index.html", true
		default:
			return p + "/", strings.TrimPrefix(p, "/") + "/index.html", false
		}
	}

	stem := strings.TrimSuffix(rel, path.Ext(rel))
	if stem == "index" {
		return "/", "index.html", true
	}
	stem = strings.TrimSuffix(stem, "/index")
	segs := strings.Split(stem, "/")
	for i, s := range segs {
		segs[i] = Slugify(s)
	}
	slug := strings.Join(segs, "/")
	return "/" + slug + "/", slug + "/index.html", false
}
