// Package gateway exposes the chat core over HTTP: the chat turn endpoint,
// a websocket variant, the knowledge admin API, health, and metrics.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/concierge-chat/concierge/internal/composer"
	"github.com/concierge-chat/concierge/internal/config"
	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/internal/session"
)

// Deps are the injected collaborators. Transcripts and Tracer are optional.
type Deps struct {
	Store       *knowledge.Store
	Searcher    *knowledge.Searcher
	Composer    *composer.Composer
	Sessions    session.Store
	Transcripts session.TranscriptStore
	Tracer      trace.Tracer
}

// Gateway is the HTTP server around the chat core. It owns no business
// logic: every handler delegates to the injected store, searcher, composer,
// and session store.
type Gateway struct {
	cfg         config.GatewayConfig
	logger      *slog.Logger
	store       *knowledge.Store
	searcher    *knowledge.Searcher
	composer    *composer.Composer
	sessions    session.Store
	transcripts session.TranscriptStore
	tracer      trace.Tracer
	metrics     *Metrics
	server      *http.Server
	startedAt   time.Time
}

// New creates a gateway. Deps.Store, Searcher, Composer, and Sessions are
// required; nil Transcripts disables persistence and nil Tracer disables
// spans.
func New(cfg config.GatewayConfig, logger *slog.Logger, deps Deps) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		cfg:         cfg,
		logger:      logger,
		store:       deps.Store,
		searcher:    deps.Searcher,
		composer:    deps.Composer,
		sessions:    deps.Sessions,
		transcripts: deps.Transcripts,
		tracer:      deps.Tracer,
		metrics:     NewMetrics(deps.Sessions, deps.Store),
	}
}

// Start binds the listener and serves in a background goroutine.
func (g *Gateway) Start() error {
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.cfg.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.cfg.ReadTimeout,
		WriteTimeout: g.cfg.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.cfg.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.cfg.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully within the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.cfg.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
