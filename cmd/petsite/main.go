package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/schollz/progressbar/v3"

	"github.com/eringen/petsite"
)

// version is set at build time via ldflags.
var version = "dev"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"petsite.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Production bool   `short:"p" help:"Optimise images and minify HTML (same as NODE_ENV=production)"`
		Output     string `short:"o" help:"Output directory (overrides config)"`
		Progress   bool   `help:"Show an image optimisation progress bar"`
		NoManifest bool   `help:"Ignore the image manifest and encode every image again"`
	} `cmd:"" help:"Build the site"`

	Serve struct {
		Port         int  `help:"Port to listen on (overrides config addr)"`
		NoLiveReload bool `help:"Do not inject the live reload script"`
	} `cmd:"" help:"Build, serve and rebuild on change"`

	New struct {
		Dir string `arg:"" help:"Directory to create"`
		Yes bool   `short:"y" help:"Accept defaults without prompting"`
	} `cmd:"" help:"Create a new petsite project"`

	Builds struct {
		Limit int `short:"n" help:"Number of builds to list" default:"10"`
	} `cmd:"" help:"List recent builds from the manifest"`

	Version struct{} `cmd:"" help:"Print the petsite version"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("petsite"),
		kong.Description("A static profile site for one pet."),
	)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "build":
		err = runBuild(ctx, logger)
	case "serve":
		err = runServe(ctx, logger)
	case "new <dir>":
		err = runNew(CLI.New.Dir, CLI.New.Yes)
	case "builds":
		err = runBuilds(logger)
	case "version":
		fmt.Printf("petsite %s\n", version)
	default:
		err = fmt.Errorf("unknown command %q", kctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}

func loadConfig() (petsite.SiteConfig, error) {
	cfg, err := petsite.LoadConfig(CLI.Config)
	if err != nil {
		return petsite.SiteConfig{}, err
	}
	return cfg, nil
}

func runBuild(ctx context.Context, logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if CLI.Build.Production {
		cfg.Environment = petsite.EnvProduction
	}
	if CLI.Build.Output != "" {
		cfg.OutputDir = CLI.Build.Output
	}

	opts := []petsite.Option{petsite.WithLogger(logger)}
	var bar *progressbar.ProgressBar
	if CLI.Build.Progress && cfg.Production() {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Optimising images"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetWriter(os.Stderr),
		)
		opts = append(opts, petsite.WithProgress(bar))
	}
	if CLI.Build.NoManifest {
		opts = append(opts, petsite.WithoutManifest())
	}

	site, err := petsite.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer site.Close()

	report, err := site.Build(ctx)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		logger.Warn("Build warning", "detail", w)
	}
	return nil
}

func runServe(ctx context.Context, logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.LiveReload = !CLI.Serve.NoLiveReload
	if CLI.Serve.Port > 0 {
		cfg.Addr = ":" + strconv.Itoa(CLI.Serve.Port)
	}

	site, err := petsite.New(cfg, petsite.WithLogger(logger))
	if err != nil {
		return err
	}
	defer site.Close()
	return site.Serve(ctx)
}

func runBuilds(logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	site, err := petsite.New(cfg, petsite.WithLogger(logger))
	if err != nil {
		return err
	}
	defer site.Close()

	builds, err := site.Store.ListBuilds(CLI.Builds.Limit)
	if err != nil {
		return err
	}
	for _, b := range builds {
		fmt.Println(petsite.FormatBuild(b))
	}
	return nil
}
