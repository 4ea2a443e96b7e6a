package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-visacheck/components/visacheck"
	"github.com/goliatone/go-visacheck/internal/config"
	"github.com/goliatone/go-visacheck/pkg/openapi"
	"github.com/goliatone/go-visacheck/pkg/palette"
	"github.com/goliatone/go-visacheck/pkg/render/template/pongo"
)

// Server owns the HTTP server and its routes.
type Server struct {
	cfg     config.Config
	logger  *logrus.Logger
	handler http.Handler
}

// New builds the route table. Extra component options are applied after the
// ones derived from cfg.
func New(cfg config.Config, logger *logrus.Logger, fns ...visacheck.OptionFn) (*Server, error) {
	if logger == nil {
		return nil, errors.New("server: logger is required")
	}

	selector, err := palette.NewSelector(cfg.Theme, cfg.Variant)
	if err != nil {
		return nil, fmt.Errorf("server: theme: %w", err)
	}
	doc, err := openapi.Default()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	pal, err := selector.Default()
	if err != nil {
		return nil, fmt.Errorf("server: theme: %w", err)
	}
	assetsPrefix := path.Dir(pal.AssetURL(palette.AssetStylesheet))
	if assetsPrefix == "." || assetsPrefix == "/" {
		assetsPrefix = "/assets"
	}

	options := []visacheck.OptionFn{
		visacheck.WithPalette(selector),
		visacheck.WithLogger(logger),
		visacheck.WithLinkedStylesheet(),
	}
	if cfg.TemplateDir != "" {
		engine, err := pongo.New(pongo.WithBaseDir(cfg.TemplateDir), pongo.WithFS(visacheck.TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("server: templates: %w", err)
		}
		options = append(options, visacheck.WithTemplates(engine, ""))
	}
	options = append(options, fns...)
	component := visacheck.New(options...)

	mux := http.NewServeMux()
	if _, err := component.RegisterRoutes(mux, ""); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	mux.Handle(assetsPrefix+"/", visacheck.AssetsHandler(assetsPrefix))
	mux.Handle("/openapi.json", doc.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		cfg:     cfg,
		logger:  logger,
		handler: WithRequestLogging(logger, mux),
	}, nil
}

// Handler returns the fully wrapped route table.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// within the configured grace period.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ErrorLog:          newErrorLog(s.logger),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.logger.WithField("addr", ln.Addr().String()).Info("listening")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		s.logger.WithField("grace", s.cfg.ShutdownGrace.String()).Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})
	return group.Wait()
}
