package web

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vitos/crypto_market_dash/internal/usecase"
)

type Server struct {
	router *http.ServeMux
	server *http.Server
	market *usecase.MarketService
	logger *zap.Logger

	defaultCurrency string
	defaultCount    int
}

func NewServer(
	port int,
	market *usecase.MarketService,
	defaultCurrency string,
	defaultCount int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:          http.NewServeMux(),
		market:          market,
		logger:          logger,
		defaultCurrency: defaultCurrency,
		defaultCount:    defaultCount,
	}
	s.routes()

	handler := Logging(logger)(CORS(nil)(s.router))
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}
	return s
}

func (s *Server) routes() {
	// Dashboard aggregate
	s.router.HandleFunc("GET /api/overview", s.handleOverview)

	// Market listing
	s.router.HandleFunc("GET /api/markets", s.handleMarkets)

	// Global aggregates
	s.router.HandleFunc("GET /api/global", s.handleGlobal)

	// Trending
	s.router.HandleFunc("GET /api/trending", s.handleTrending)

	// Per-coin detail and history
	s.router.HandleFunc("GET /api/coins/{id}", s.handleCoinDetail)
	s.router.HandleFunc("GET /api/coins/{id}/history", s.handlePriceHistory)

	// Health
	s.router.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware-wrapped handler chain, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
