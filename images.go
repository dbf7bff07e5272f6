package petsite

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/a-h/templ"
	"github.com/gen2brain/webp"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/eringen/petsite/views"
)

// Output formats.
const (
	FormatWebP = "webp"
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

const (
	imagesURLPath   = "/assets/images"
	optimisedSubdir = "optimised"
	defaultURLWidth = 1920
	heroSizes       = "(min-width: 768px) 280px, 200px"
	gallerySizes    = "(min-width: 768px) 386px, calc(100vw - 3rem)"
)

var (
	heroWidths    = []int{200, 400, 560}
	galleryWidths = []int{400, 600, 800}
)

func supportedFormat(f string) bool {
	return f == FormatWebP || f == FormatJPEG || f == FormatPNG
}

func mimeType(format string) string {
	return "image/" + format
}

// Variant is one encoded size of a source image.
type Variant struct {
	URL    string
	Width  int
	Height int
}

// ImageMetadata maps each output format to its variants, ascending by width.
type ImageMetadata map[string][]Variant

// EncodeError reports a source image that could not be optimised.
type EncodeError struct {
	Src string
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("petsite: optimise %s: %v", e.Src, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// OriginalURL is the passthrough URL of src.
func OriginalURL(src string) string {
	return imagesURLPath + "/" + strings.TrimPrefix(src, "/")
}

// BuildSrcset formats variants as a srcset attribute value.
func BuildSrcset(vs []Variant) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, fmt.Sprintf("%s %dw", v.URL, v.Width))
	}
	return strings.Join(parts, ", ")
}

// Optimiser produces responsive variants of the photos under the assets
// images directory. One Optimiser serves one build; encoded files are kept
// in the cache directory and copied into the output.
type Optimiser struct {
	srcDir     string // <assets>/images
	cacheDir   string // <cache>/optimised
	outDir     string // <output>/assets/images/optimised
	formats    []string
	quality    int
	production bool
	buildID    string

	cache    *ImageCache
	store    *Store // nil when the manifest is disabled
	metrics  *Metrics
	log      *slog.Logger
	progress Progress

	encoded, reused, failed atomic.Int64

	mu       sync.Mutex
	warnings []string
}

func newOptimiser(cfg SiteConfig, buildID string, store *Store, metrics *Metrics, log *slog.Logger, progress Progress) *Optimiser {
	return &Optimiser{
		srcDir:     filepath.Join(cfg.AssetsDir, "images"),
		cacheDir:   filepath.Join(cfg.CacheDir, optimisedSubdir),
		outDir:     filepath.Join(cfg.OutputDir, "assets", "images", optimisedSubdir),
		formats:    cfg.ImageFormats,
		quality:    cfg.ImageQuality,
		production: cfg.Production(),
		buildID:    buildID,
		cache:      NewImageCache(),
		store:      store,
		metrics:    metrics,
		log:        log,
		progress:   progress,
	}
}

func (o *Optimiser) shouldOptimise(src string) bool {
	return o.production && strings.ToLower(filepath.Ext(src)) != ".svg"
}

// Process encodes src at each requested width and format. Widths larger
// than the source collapse to the source width.
func (o *Optimiser) Process(ctx context.Context, src string, widths []int, formats []string) (ImageMetadata, error) {
	return o.cache.Get(cacheKey(src, widths, formats), func() (ImageMetadata, error) {
		meta, err := o.process(ctx, src, widths, formats)
		if o.progress != nil {
			_ = o.progress.Add(1)
		}
		return meta, err
	})
}

func (o *Optimiser) process(ctx context.Context, src string, widths []int, formats []string) (ImageMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, f := range formats {
		if !supportedFormat(f) {
			return nil, &EncodeError{Src: src, Err: fmt.Errorf("unsupported format %q", f)}
		}
	}

	inPath := filepath.Join(o.srcDir, filepath.FromSlash(src))
	info, err := os.Stat(inPath)
	if err != nil {
		return nil, &EncodeError{Src: src, Err: err}
	}
	fingerprint := fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano())

	cfg, err := decodeConfig(inPath)
	if err != nil {
		return nil, &EncodeError{Src: src, Err: err}
	}
	if err := os.MkdirAll(o.cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image cache dir: %w", err)
	}
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create optimised dir: %w", err)
	}

	base := strings.TrimSuffix(path.Base(filepath.ToSlash(src)), filepath.Ext(src))
	var img image.Image
	meta := make(ImageMetadata, len(formats))
	for _, w := range targetWidths(widths, cfg.Width) {
		h := scaledHeight(cfg.Width, cfg.Height, w)
		var scaled image.Image
		for _, format := range formats {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			name := fmt.Sprintf("%s-%dw.%s", base, w, format)
			cached := filepath.Join(o.cacheDir, name)
			v := Variant{URL: path.Join(imagesURLPath, optimisedSubdir, name), Width: w, Height: h}

			if !o.fresh(src, fingerprint, w, format, cached) {
				if scaled == nil {
					if img == nil {
						if img, err = decodeFile(inPath); err != nil {
							o.metrics.IncImage("failed")
							return nil, &EncodeError{Src: src, Err: err}
						}
					}
					scaled = resize(img, w, h)
				}
				size, err := encodeFile(cached, scaled, format, o.quality)
				if err != nil {
					o.metrics.IncImage("failed")
					return nil, &EncodeError{Src: src, Err: err}
				}
				o.encoded.Add(1)
				o.metrics.IncImage("encoded")
				if o.store != nil {
					rec := VariantRecord{Src: src, Fingerprint: fingerprint, Width: w, Height: h, Format: format, File: name, Size: size, BuildID: o.buildID}
					if err := o.store.SaveVariant(rec); err != nil {
						o.log.Warn("Could not record image variant", "src", src, "file", name, "error", err)
					}
				}
			} else {
				o.reused.Add(1)
				o.metrics.IncImage("reused")
			}

			if err := copyFile(cached, filepath.Join(o.outDir, name)); err != nil {
				return nil, fmt.Errorf("copy %s: %w", name, err)
			}
			meta[format] = append(meta[format], v)
		}
	}
	return meta, nil
}

// fresh reports whether the manifest holds an encode of the same source
// fingerprint and the encoded file is still on disk.
func (o *Optimiser) fresh(src, fingerprint string, width int, format, cached string) bool {
	if o.store == nil {
		return false
	}
	rec, err := o.store.LookupVariant(src, width, format)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			o.log.Debug("Manifest lookup failed", "src", src, "error", err)
		}
		return false
	}
	if rec.Fingerprint != fingerprint {
		return false
	}
	_, err = os.Stat(cached)
	return err == nil
}

// Picture renders a responsive <picture> for src, or a plain <img> when
// the image is not optimised. Encoder failures are logged and render
// nothing.
func (o *Optimiser) Picture(src, alt, class, loading string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if src == "" {
			return nil
		}
		if !o.shouldOptimise(src) {
			return views.Img(OriginalURL(src), alt, class, loading).Render(ctx, w)
		}

		widths, sizes := galleryWidths, gallerySizes
		if strings.Contains(class, "hero") {
			widths, sizes = heroWidths, heroSizes
		}
		meta, err := o.Process(ctx, src, widths, o.formats)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			o.warn(src, err)
			return nil
		}

		p := views.PictureData{Alt: alt, Class: class, Loading: loading}
		for _, f := range o.formats {
			p.Sources = append(p.Sources, views.Source{Type: mimeType(f), Srcset: BuildSrcset(meta[f]), Sizes: sizes})
		}
		fallback := meta[o.formats[len(o.formats)-1]]
		if len(fallback) > 0 {
			largest := fallback[len(fallback)-1]
			p.Src, p.Width, p.Height = largest.URL, largest.Width, largest.Height
		}
		return views.Picture(p).Render(ctx, w)
	})
}

// URL returns the URL of a single optimised variant of src, or the
// original URL when the image is not optimised. width defaults to 1920
// and format to jpeg. Encoder failures are logged and yield "".
func (o *Optimiser) URL(ctx context.Context, src string, width int, format string) string {
	if src == "" || !o.shouldOptimise(src) {
		return OriginalURL(src)
	}
	if width <= 0 {
		width = defaultURLWidth
	}
	if format == "" {
		format = FormatJPEG
	}
	meta, err := o.Process(ctx, src, []int{width}, []string{format})
	if err != nil {
		o.warn(src, err)
		return ""
	}
	vs := meta[format]
	if len(vs) == 0 {
		return ""
	}
	return vs[0].URL
}

func (o *Optimiser) warn(src string, err error) {
	o.failed.Add(1)
	o.log.Warn("Could not optimise image", "src", src, "error", err)
	o.mu.Lock()
	o.warnings = append(o.warnings, fmt.Sprintf("image %s: %v", src, err))
	o.mu.Unlock()
}

// Warnings returns the warnings recorded so far.
func (o *Optimiser) Warnings() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.warnings)
}

// targetWidths caps each width at the source width, then dedupes and sorts.
// No widths means the source width alone.
func targetWidths(widths []int, srcWidth int) []int {
	if len(widths) == 0 {
		return []int{srcWidth}
	}
	out := make([]int, 0, len(widths))
	for _, w := range widths {
		if w <= 0 || w > srcWidth {
			w = srcWidth
		}
		out = append(out, w)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func scaledHeight(srcW, srcH, w int) int {
	if srcW == 0 {
		return 0
	}
	h := (srcH*w + srcW/2) / srcW
	if h < 1 {
		h = 1
	}
	return h
}

func decodeConfig(p string) (image.Config, error) {
	f, err := os.Open(p)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, fmt.Errorf("decode image: empty %dx%d", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

func decodeFile(p string) (image.Image, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func resize(img image.Image, w, h int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == w && bounds.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// encodeFile writes img to p through a temporary file and returns the
// encoded size.
func encodeFile(p string, img image.Image, format string, quality int) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(p), ".encode-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	switch format {
	case FormatWebP:
		err = webp.Encode(tmp, img, webp.Options{Quality: quality})
	case FormatJPEG:
		err = jpeg.Encode(tmp, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(tmp, img)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("encode %s: %w", format, err)
	}
	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return 0, err
	}
	return info.Size(), nil
}
