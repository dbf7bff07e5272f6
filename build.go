package petsite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/eringen/petsite/filters"
	"github.com/eringen/petsite/petdata"
	"github.com/eringen/petsite/views"
)

const (
	ogImageWidth = 1200
	mainScript   = "assets/scripts/main.js"
)

// Report summarises a finished build.
type Report struct {
	ID            string
	Environment   string
	StartedAt     time.Time
	Duration      time.Duration
	Pages         int
	URLs          []string // site paths of rendered pages, "/" first
	Assets        int      // non-HTML files in the output
	Bytes         int64    // total size of the output
	ImagesEncoded int
	ImagesReused  int
	ImagesFailed  int
	Warnings      []string
}

type passthrough struct {
	from string
	to   string // relative to the output directory
}

func (s *Site) passthroughs() []passthrough {
	a := s.Config.AssetsDir
	return []passthrough{
		{from: filepath.Join(a, "images"), to: "assets/images"},
		{from: filepath.Join(a, "logos"), to: "assets/logos"},
		{from: filepath.Join(a, "scripts"), to: "assets/scripts"},
		{from: filepath.Join(a, "styles"), to: "assets/styles"},
		{from: filepath.Join(a, "public"), to: ""},
	}
}

// Build renders the site into the output directory. Builds are serialised.
func (s *Site) Build(ctx context.Context) (*Report, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()
	r := &Report{
		ID:          uuid.NewString(),
		Environment: s.Config.Environment,
		StartedAt:   s.now(),
	}
	log := s.log.With("build", r.ID)
	log.Info("Build started", "environment", r.Environment, "output", s.Config.OutputDir)

	err := s.build(ctx, r, log)
	r.Duration = time.Since(start)
	s.Metrics.ObserveBuild(r.Duration, r, err)
	if err != nil {
		log.Error("Build failed", "error", err, "took", r.Duration.Round(time.Millisecond))
		return nil, err
	}

	if s.Store != nil {
		rec := BuildRecord{
			ID:            r.ID,
			Environment:   r.Environment,
			StartedAt:     r.StartedAt,
			Duration:      r.Duration,
			Pages:         r.Pages,
			Assets:        r.Assets,
			Bytes:         r.Bytes,
			ImagesEncoded: r.ImagesEncoded,
			ImagesReused:  r.ImagesReused,
			Warnings:      len(r.Warnings),
		}
		if err := s.Store.RecordBuild(rec); err != nil {
			log.Warn("Could not record build", "error", err)
		}
	}
	log.Info("Build complete",
		"pages", r.Pages,
		"assets", r.Assets,
		"size", humanize.Bytes(uint64(r.Bytes)),
		"images_encoded", r.ImagesEncoded,
		"images_reused", r.ImagesReused,
		"warnings", len(r.Warnings),
		"took", r.Duration.Round(time.Millisecond),
	)
	return r, nil
}

func (s *Site) build(ctx context.Context, r *Report, log *slog.Logger) error {
	cfg := s.Config
	out := cfg.OutputDir

	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("petsite: clean %s: %w", out, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("petsite: create %s: %w", out, err)
	}

	data, err := petdata.Load(cfg.DataDir)
	if err != nil {
		return err
	}
	base := cfg.BaseURL
	if base == "" {
		base = data.Site.URL
	}
	if base != "" {
		data.Site.URL = AbsoluteURL(base, "/")
	}
	pages, err := LoadPages(cfg.ViewsDir, cfg.Production())
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.Warnings = append(r.Warnings, s.missingPhotos(data)...)
	for _, w := range r.Warnings {
		log.Warn("Missing photo", "detail", w)
	}

	opt := newOptimiser(cfg, r.ID, s.Store, s.Metrics, log, s.progress)
	if s.progress != nil && cfg.Production() {
		s.progress.ChangeMax(imageRequests(data))
	}

	now := s.now()
	layout := views.LayoutData{
		Site:   data.Site,
		Year:   filters.CurrentYear(now),
		Styles: s.stylesheets(),
	}
	if _, err := os.Stat(filepath.Join(cfg.AssetsDir, "scripts", "main.js")); err == nil {
		layout.Script = "/" + mainScript
	}

	write := func(rel string, content []byte) error {
		content, err := s.Transforms.Run(content, rel)
		if err != nil {
			return err
		}
		p := filepath.Join(out, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		return os.WriteFile(p, content, 0o644)
	}
	renderPage := func(rel string, d views.LayoutData, body templ.Component) error {
		var buf bytes.Buffer
		if err := views.Layout(d, body).Render(ctx, &buf); err != nil {
			return fmt.Errorf("petsite: render %s: %w", rel, err)
		}
		return write(rel, buf.Bytes())
	}

	// Home page.
	home := layout
	home.Home = true
	home.Meta = views.PageMeta{
		Title:       data.Site.Title,
		Description: data.Site.Description,
		URL:         AbsoluteURL(base, "/"),
	}
	if hero := data.Pet.HeroImage; hero != "" {
		if u := opt.URL(ctx, hero, ogImageWidth, FormatJPEG); u != "" {
			home.Meta.Image = AbsoluteURL(base, u)
		}
	}
	hd := views.HomeData{Data: data, Now: now, Images: opt}
	for _, p := range pages {
		if p.Home {
			hd.Content = views.Raw(p.HTML)
			if p.Description != "" {
				home.Meta.Description = p.Description
			}
		}
	}
	if err := renderPage("index.html", home, views.Home(hd)); err != nil {
		return err
	}
	r.URLs = append(r.URLs, "/")

	for _, p := range pages {
		if p.Home {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		d := layout
		d.Meta = views.PageMeta{
			Title:       p.Title,
			Description: p.Description,
			URL:         AbsoluteURL(base, p.URL),
			OGType:      "article",
		}
		if err := renderPage(p.Output, d, views.Page(p.Title, p.HTML)); err != nil {
			return err
		}
		r.URLs = append(r.URLs, p.URL)
	}

	nf := layout
	nf.Meta = views.PageMeta{Title: "Page not found"}
	if err := renderPage("404.html", nf, views.NotFound()); err != nil {
		return err
	}
	r.Pages = len(r.URLs) + 1

	for _, pt := range s.passthroughs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := copyTree(pt.from, filepath.Join(out, filepath.FromSlash(pt.to)), cfg.Ignore)
		if err != nil {
			return fmt.Errorf("petsite: copy %s: %w", pt.from, err)
		}
		if n > 0 {
			log.Debug("Copied assets", "from", pt.from, "to", "/"+pt.to, "files", n)
		}
	}

	sitemap, err := renderSitemap(base, r.URLs, now.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("petsite: sitemap: %w", err)
	}
	if err := write("sitemap.xml", sitemap); err != nil {
		return err
	}
	if err := write("robots.txt", renderRobots(base)); err != nil {
		return err
	}

	r.ImagesEncoded = int(opt.encoded.Load())
	r.ImagesReused = int(opt.reused.Load())
	r.ImagesFailed = int(opt.failed.Load())
	r.Warnings = append(r.Warnings, opt.Warnings()...)
	return r.measure(out)
}

// measure counts output files and bytes.
func (r *Report) measure(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		r.Bytes += info.Size()
		if !isHTML(p) {
			r.Assets++
		}
		return nil
	})
}

// missingPhotos lists referenced photos that are not on disk.
func (s *Site) missingPhotos(d petdata.Data) []string {
	dir := filepath.Join(s.Config.AssetsDir, "images")
	var out []string
	check := func(src string) {
		if src == "" {
			return
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(src))); err != nil {
			out = append(out, fmt.Sprintf("photo %s not found in %s", src, dir))
		}
	}
	check(d.Pet.HeroImage)
	for _, p := range d.Pet.Gallery {
		check(p.Src)
	}
	return out
}

// imageRequests is the number of distinct optimiser calls the home page
// makes: a picture and a lightbox URL per photo, plus the og:image.
func imageRequests(d petdata.Data) int {
	n := 2 * len(d.Pet.Gallery)
	if d.Pet.HeroImage != "" {
		n += 3
	}
	return n
}

func (s *Site) stylesheets() []string {
	dir := filepath.Join(s.Config.AssetsDir, "styles")
	matches, err := doublestar.Glob(os.DirFS(dir), "*.css")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, "/assets/styles/"+m)
	}
	return out
}

// ignored reports whether rel matches any doublestar pattern.
func ignored(rel string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// copyTree copies src into dst, skipping ignored paths. A missing src
// copies nothing.
func copyTree(src, dst string, ignore []string) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ignored(rel, ignore) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := copyFile(p, filepath.Join(dst, filepath.FromSlash(rel))); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// FormatBuild renders a recorded build as one line for the builds command.
func FormatBuild(b BuildRecord) string {
	return fmt.Sprintf("%s  %s  %-11s  %d pages  %d assets  %s  images %d new / %d reused  %d warnings  %s",
		b.ID, b.StartedAt.Local().Format("2006-01-02 15:04:05"), b.Environment,
		b.Pages, b.Assets, humanize.Bytes(uint64(b.Bytes)),
		b.ImagesEncoded, b.ImagesReused, b.Warnings, b.Duration.Round(time.Millisecond))
}

// isHTML reports whether an output path is a rendered page.
func isHTML(p string) bool {
	return strings.HasSuffix(p, ".html")
}
