package petsite

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// SiteConfig holds all configuration for a petsite build.
type SiteConfig struct {
	SourceDir string `koanf:"source_dir"` // default "src"
	OutputDir string `koanf:"output_dir"` // default "dist"
	DataDir   string `koanf:"data_dir"`   // default <source>/data
	ViewsDir  string `koanf:"views_dir"`  // default <source>/views
	AssetsDir string `koanf:"assets_dir"` // default <source>/assets

	BaseURL     string `koanf:"base_url"`    // overrides site.json url
	Environment string `koanf:"environment"` // "development" (default) or "production"

	CacheDir     string   `koanf:"cache_dir"`     // encoded images and their SQLite manifest (default ".cache")
	ImageQuality int      `koanf:"image_quality"` // webp and JPEG quality (default 80)
	ImageFormats []string `koanf:"image_formats"` // output formats, preferred first (default ["webp", "jpeg"])
	Ignore       []string `koanf:"ignore"`        // doublestar patterns skipped when copying assets

	Addr          string        `koanf:"addr"`           // dev server listen address (default ":8080")
	LiveReload    bool          `koanf:"live_reload"`    // inject the reload script in dev builds
	WatchDebounce time.Duration `koanf:"watch_debounce"` // default 300ms
}

func (c *SiteConfig) setDefaults() {
	if c.SourceDir == "" {
		c.SourceDir = "src"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(c.SourceDir, "data")
	}
	if c.ViewsDir == "" {
		c.ViewsDir = filepath.Join(c.SourceDir, "views")
	}
	if c.AssetsDir == "" {
		c.AssetsDir = filepath.Join(c.SourceDir, "assets")
	}
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}
	if c.CacheDir == "" {
		c.CacheDir = ".cache"
	}
	if c.ImageQuality <= 0 || c.ImageQuality > 100 {
		c.ImageQuality = 80
	}
	if len(c.ImageFormats) == 0 {
		c.ImageFormats = []string{FormatWebP, FormatJPEG}
	}
	if c.Ignore == nil {
		c.Ignore = []string{"**/.DS_Store", "**/Thumbs.db", "**/*.psd"}
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = 300 * time.Millisecond
	}
}

// Production reports whether this is a production build. Only production
// builds optimise images and minify HTML.
func (c SiteConfig) Production() bool {
	return c.Environment == EnvProduction
}

// Validate checks values that defaults cannot repair.
func (c SiteConfig) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("petsite: invalid environment %q: must be development or production", c.Environment)
	}
	for _, f := range c.ImageFormats {
		if !supportedFormat(f) {
			return fmt.Errorf("petsite: unsupported image format %q", f)
		}
	}
	out := filepath.Clean(c.OutputDir)
	if out == filepath.Clean(c.SourceDir) || out == filepath.Clean(c.CacheDir) || out == "." || out == "/" {
		return fmt.Errorf("petsite: output_dir %q must be a separate directory", c.OutputDir)
	}
	return nil
}

// LoadConfig reads an optional .env file, then the YAML file at path if it
// exists, then PETSITE_* environment overrides (PETSITE_OUTPUT_DIR ->
// output_dir). NODE_ENV=production selects a production build when no
// environment is configured.
func LoadConfig(path string) (SiteConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Debug("Skipping .env", "error", err)
	}

	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return SiteConfig{}, fmt.Errorf("petsite: reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return SiteConfig{}, fmt.Errorf("petsite: accessing config %s: %w", path, err)
	}

	if err := k.Load(env.ProviderWithValue("PETSITE_", ".", envValue), nil); err != nil {
		return SiteConfig{}, fmt.Errorf("petsite: loading env overrides: %w", err)
	}

	var cfg SiteConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("petsite: unmarshalling config: %w", err)
	}
	if cfg.Environment == "" && os.Getenv("NODE_ENV") == EnvProduction {
		cfg.Environment = EnvProduction
	}
	cfg.setDefaults()
	return cfg, nil
}

// listKeys are config keys whose environment values are comma separated.
var listKeys = map[string]bool{"image_formats": true, "ignore": true}

// envValue maps PETSITE_OUTPUT_DIR to output_dir and splits list values.
func envValue(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, "PETSITE_"))
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			items = append(items, v)
		}
	}
	return key, items
}

// Option configures additional Site behavior.
type Option func(*Site)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Site) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now, used for ages and vaccination status.
func WithClock(now func() time.Time) Option {
	return func(s *Site) {
		if now != nil {
			s.now = now
		}
	}
}

// WithProgress reports image optimisation progress.
func WithProgress(p Progress) Option {
	return func(s *Site) {
		s.progress = p
	}
}

// WithoutManifest disables the cross-build image manifest; every build
// encodes all images again.
func WithoutManifest() Option {
	return func(s *Site) {
		s.noManifest = true
	}
}
