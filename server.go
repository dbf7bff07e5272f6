package petsite

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/petsite/views"
)

// Server serves the output directory for local development, with live
// reload and build metrics.
type Server struct {
	Echo *echo.Echo
	Hub  *ReloadHub

	site *Site
	log  *slog.Logger
}

// NewServer wires routes and middleware for s.
func (s *Site) NewServer() *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		Echo: e,
		Hub:  NewReloadHub(s.Metrics, s.log),
		site: s,
		log:  s.log,
	}
	srv.setupMiddleware()
	srv.setupRoutes()
	return srv
}

func (srv *Server) setupRoutes() {
	e := srv.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET(liveReloadScriptPath, echo.WrapHandler(http.StripPrefix("/__", http.FileServer(http.FS(embeddedFS)))))
	e.GET(liveReloadPath, echo.WrapHandler(srv.Hub))
	e.GET("/metrics", echo.WrapHandler(srv.site.Metrics.Handler()))

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  srv.site.Config.OutputDir,
		Index: "index.html",
	}))
}

func (srv *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusNotFound {
		page, rerr := os.ReadFile(filepath.Join(srv.site.Config.OutputDir, "404.html"))
		if rerr == nil {
			_ = c.HTMLBlob(http.StatusNotFound, page)
			return
		}
		// No build output yet.
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound())
		return
	}
	if he == nil || he.Code >= 500 {
		srv.log.Error("Server error", "uri", c.Request().RequestURI, "error", err)
	}
	srv.Echo.DefaultHTTPErrorHandler(err, c)
}

// Reload tells connected browsers to reload.
func (srv *Server) Reload() {
	srv.Hub.Broadcast()
}

// Start listens on addr until ctx is done, then shuts down gracefully.
func (srv *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv.Echo.Listener = ln
	srv.log.Info("Dev server listening", "url", "http://"+displayAddr(ln.Addr()))

	errc := make(chan error, 1)
	go func() {
		if err := srv.Echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	srv.Hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Echo.Shutdown(shutdownCtx); err != nil {
		srv.log.Warn("HTTP server shutdown error", "error", err)
	}
	return nil
}

func displayAddr(a net.Addr) string {
	host, port, err := net.SplitHostPort(a.String())
	if err != nil {
		return a.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

// Serve builds the site, starts the dev server and rebuilds on change
// until ctx is done. A failing rebuild keeps serving the previous output.
func (s *Site) Serve(ctx context.Context) error {
	if _, err := s.Build(ctx); err != nil {
		return err
	}
	srv := s.NewServer()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- s.Watch(ctx, func(ctx context.Context) {
			s.log.Info("Change detected; rebuilding site")
			if _, err := s.Build(ctx); err != nil {
				return
			}
			srv.Reload()
		})
	}()

	err := srv.Start(ctx, s.Config.Addr)
	cancel()
	if werr := <-watchErr; err == nil {
		err = werr
	}
	return err
}
