package views

import (
	"encoding/json"
	"strings"

	"github.com/eringen/petsite/petdata"
)

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for the site.
// site.URL is expected to be absolute already.
func WebsiteJsonLD(site petdata.Site) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Title,
		"url":      site.URL,
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	if site.Language != "" {
		data["inLanguage"] = site.Language
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebPageJsonLD produces a Schema.org WebPage JSON-LD block for a content page.
func WebPageJsonLD(site petdata.Site, meta PageMeta) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebPage",
		"name":     meta.Title,
		"url":      meta.URL,
		"isPartOf": map[string]string{
			"@type": "WebSite",
			"name":  site.Title,
			"url":   site.URL,
		},
	}
	if meta.Description != "" {
		data["description"] = meta.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// navHref links to a home page section, in-page when already on the home page.
func navHref(anchor string, home bool) string {
	if home {
		return "#" + anchor
	}
	return "/#" + anchor
}

// jsonLDEscape keeps a JSON-LD payload from closing its <script> element.
func jsonLDEscape(s string) string {
	return strings.ReplaceAll(s, "</", `<\/`)
}
