package petsite

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the given site paths as absolute URLs.
func renderSitemap(base string, paths []string, lastMod string) ([]byte, error) {
	urls := make([]sitemapURL, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, sitemapURL{Loc: AbsoluteURL(base, p), LastMod: lastMod})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(sitemap); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// renderRobots allows everything and points crawlers at the sitemap.
func renderRobots(base string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	if base != "" {
		fmt.Fprintf(&b, "\nSitemap: %s\n", BuildURL(base, "sitemap.xml"))
	}
	return []byte(b.String())
}
