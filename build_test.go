package petsite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/petsite/petdata"
)

// writeProject lays out a small site under a temp dir and returns a config
// pointing at it.
func writeProject(t *testing.T, env string) SiteConfig {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src")
	files := map[string]string{
		"data/site.json":   `{"title":"Mochi","description":"A cat called Mochi.","url":"https://mochi.example","language":"en","author":"Sam"}`,
		"data/pet.json":    `{"name":"Mochi","species":"Cat","dob":"14-03-2021","heroImage":"hero.png","heroAlt":"Mochi asleep","gallery":[{"src":"g1.png","alt":"Sun"},{"src":"g2.png","alt":"Box"}],"routine":{"morningFeed":"7am","walks":2}}`,
		"data/health.json": `{"vet":{"name":"Dr Paws","phone":"+44 1234"},"vaccinations":[{"name":"Rabies","date":"01-02-2024","nextDue":"01-02-2025"}]}`,
		"data/owner.json":  `{"name":"Sam","phone":"+44 7000","email":"sam@example.com"}`,

		"views/index.md": "---\ndescription: Mochi's home page.\n---\n\nHello from **Mochi**.\n",
		"views/about.md": "---\ntitle: About Mochi\n---\n\nA very good cat.\n",
		"views/draft.md": "---\ntitle: Secret\ndraft: true\n---\n\nNot yet.\n",

		"assets/styles/main.css":  "body { color: red; }\n",
		"assets/scripts/main.js":  "console.log('hi');\n",
		"assets/public/robots.md": "kept\n",
		"assets/public/.DS_Store": "junk",
	}
	for rel, body := range files {
		p := filepath.Join(src, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	images := filepath.Join(src, "assets", "images")
	writePNG(t, images, "hero.png", 600, 400)
	writePNG(t, images, "g1.png", 500, 500)
	writePNG(t, images, "g2.png", 300, 200)

	return SiteConfig{
		SourceDir:   src,
		OutputDir:   filepath.Join(root, "dist"),
		CacheDir:    filepath.Join(root, ".cache"),
		BaseURL:     "https://mochi.example",
		Environment: env,
	}
}

func newTestSite(t *testing.T, cfg SiteConfig, opts ...Option) *Site {
	t.Helper()
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func readOutput(t *testing.T, s *Site, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(s.Config.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func TestBuildDevelopment(t *testing.T) {
	clock := func() time.Time { return time.Date(2031, 6, 1, 12, 0, 0, 0, time.UTC) }
	s := newTestSite(t, writeProject(t, EnvDevelopment), WithClock(clock))

	r, err := s.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/about/", "/draft/"}, r.URLs)
	assert.Equal(t, 4, r.Pages)
	assert.Equal(t, EnvDevelopment, r.Environment)
	assert.Empty(t, r.Warnings)
	assert.Zero(t, r.ImagesEncoded)
	assert.Positive(t, r.Assets)
	assert.Positive(t, r.Bytes)

	home := readOutput(t, s, "index.html")
	assert.Contains(t, home, "<title>Mochi</title>")
	assert.Contains(t, home, "Hello from <strong>Mochi</strong>.")
	assert.Contains(t, home, `content="Mochi&#39;s home page."`)
	assert.Contains(t, home, `src="/assets/images/hero.png"`)
	assert.Contains(t, home, `data-lightbox="/assets/images/g1.png"`)
	assert.Contains(t, home, `data-alt="Box"`)
	assert.Contains(t, home, `<link rel="stylesheet" href="/assets/styles/main.css">`)
	assert.Contains(t, home, `src="/assets/scripts/main.js"`)
	assert.Contains(t, home, "&copy; 2031")
	assert.Contains(t, home, `id="lightbox"`)

	assert.Contains(t, home, `"url":"https://mochi.example/"`)

	about := readOutput(t, s, "about/index.html")
	assert.Contains(t, about, "About Mochi")
	assert.Contains(t, about, `href="https://mochi.example/about/"`)

	assert.Contains(t, readOutput(t, s, "404.html"), "Page not found")
	sitemap := readOutput(t, s, "sitemap.xml")
	assert.Contains(t, sitemap, "<loc>https://mochi.example/about/</loc>")
	assert.Contains(t, sitemap, "<lastmod>2031-06-01</lastmod>")
	assert.Contains(t, readOutput(t, s, "robots.txt"), "Sitemap: https://mochi.example/sitemap.xml")

	assert.FileExists(t, filepath.Join(s.Config.OutputDir, "assets", "styles", "main.css"))
	assert.FileExists(t, filepath.Join(s.Config.OutputDir, "assets", "images", "hero.png"))
	assert.FileExists(t, filepath.Join(s.Config.OutputDir, "robots.md"))
	assert.NoFileExists(t, filepath.Join(s.Config.OutputDir, ".DS_Store"))
	assert.NoDirExists(t, filepath.Join(s.Config.OutputDir, "assets", "images", "optimised"))
}

func TestBuildProductionReusesImages(t *testing.T) {
	s := newTestSite(t, writeProject(t, EnvProduction))
	ctx := context.Background()

	first, err := s.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/about/"}, first.URLs, "drafts are skipped in production")
	assert.Positive(t, first.ImagesEncoded)
	assert.Zero(t, first.ImagesFailed)

	home := readOutput(t, s, "index.html")
	assert.Contains(t, home, `content="https://mochi.example/assets/images/optimised/hero-600w.jpeg"`)
	assert.Contains(t, home, "/assets/images/optimised/g1-400w.jpeg 400w")
	assert.Contains(t, home, `data-lightbox="/assets/images/optimised/g2-300w.jpeg"`)

	second, err := s.Build(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.ImagesEncoded)
	assert.Positive(t, second.ImagesReused)
	assert.FileExists(t, filepath.Join(s.Config.OutputDir, "assets", "images", "optimised", "hero-200w.jpeg"))

	builds, err := s.Store.ListBuilds(10)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.Equal(t, second.ID, builds[0].ID)
	assert.Equal(t, first.ImagesEncoded, builds[1].ImagesEncoded)
}

func TestBuildWithoutManifest(t *testing.T) {
	s := newTestSite(t, writeProject(t, EnvProduction), WithoutManifest())
	require.Nil(t, s.Store)

	_, err := s.Build(context.Background())
	require.NoError(t, err)
	second, err := s.Build(context.Background())
	require.NoError(t, err)
	assert.Positive(t, second.ImagesEncoded)
	assert.Zero(t, second.ImagesReused)
	assert.NoFileExists(t, filepath.Join(s.Config.CacheDir, "manifest.db"))
}

func TestBuildMissingPhotoWarns(t *testing.T) {
	cfg := writeProject(t, EnvProduction)
	require.NoError(t, os.Remove(filepath.Join(cfg.SourceDir, "assets", "images", "g2.png")))
	s := newTestSite(t, cfg)

	r, err := s.Build(context.Background())
	require.NoError(t, err)
	assert.Positive(t, r.ImagesFailed)
	joined := strings.Join(r.Warnings, "\n")
	assert.Contains(t, joined, "photo g2.png not found")
	assert.Contains(t, joined, "image g2.png")
}

func TestBuildLiveReloadScript(t *testing.T) {
	cfg := writeProject(t, EnvDevelopment)
	cfg.LiveReload = true
	s := newTestSite(t, cfg)

	_, err := s.Build(context.Background())
	require.NoError(t, err)
	home := readOutput(t, s, "index.html")
	assert.Contains(t, home, `<script src="/__livereload.js" defer></script></body>`)
}

func TestBuildMissingData(t *testing.T) {
	cfg := writeProject(t, EnvDevelopment)
	require.NoError(t, os.Remove(filepath.Join(cfg.SourceDir, "data", "owner.json")))
	s := newTestSite(t, cfg)

	_, err := s.Build(context.Background())
	assert.True(t, errors.Is(err, petdata.ErrDataMissing))
}

func TestBuildCanceled(t *testing.T) {
	s := newTestSite(t, writeProject(t, EnvDevelopment))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildProgress(t *testing.T) {
	p := &countingProgress{}
	s := newTestSite(t, writeProject(t, EnvProduction), WithProgress(p))

	_, err := s.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, p.max)
	assert.Equal(t, p.max, p.added)
}

func TestIgnored(t *testing.T) {
	patterns := []string{"**/.DS_Store", "**/*.psd", "drafts/**"}
	assert.True(t, ignored(".DS_Store", patterns))
	assert.True(t, ignored("a/b/.DS_Store", patterns))
	assert.True(t, ignored("raw/cat.psd", patterns))
	assert.True(t, ignored("drafts/x.jpg", patterns))
	assert.False(t, ignored("cat.jpg", patterns))
}

func TestFormatBuild(t *testing.T) {
	got := FormatBuild(BuildRecord{
		ID:            "abc",
		Environment:   EnvProduction,
		StartedAt:     time.Now(),
		Duration:      1500 * time.Millisecond,
		Pages:         3,
		Bytes:         2048,
		ImagesEncoded: 4,
	})
	assert.Contains(t, got, "abc")
	assert.Contains(t, got, "3 pages")
	assert.Contains(t, got, "2.0 kB")
	assert.Contains(t, got, "images 4 new / 0 reused")
	assert.Contains(t, got, "1.5s")
}
