// Package api provides the HTTP REST API server for equitybrief.
//
// It exposes the enriched news endpoint and the company reference-data
// projections, plus health and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seenimoa/equitybrief/internal/config"
	"github.com/seenimoa/equitybrief/internal/feed"
	"github.com/seenimoa/equitybrief/internal/logger"
	"github.com/seenimoa/equitybrief/internal/store"
	"github.com/seenimoa/equitybrief/pkg/models"
)

// CompanyStore is the read surface of the company document store.
type CompanyStore interface {
	ListSymbols(ctx context.Context) ([]string, error)
	Company(ctx context.Context, symbol string) (*models.CompanyData, error)
	Field(ctx context.Context, symbol, field string) (any, error)
}

// NewsService produces the enriched news list for a symbol.
type NewsService interface {
	LatestNews(ctx context.Context, symbol string) ([]models.NewsItem, error)
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	store  CompanyStore
	news   NewsService
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, store CompanyStore, news NewsService) *Server {
	srv := &Server{
		cfg:   cfg,
		store: store,
		news:  news,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(requestMetrics)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Get("/news/{symbol}", s.handleNews)

	r.Get("/companies", s.handleListSymbols)
	r.Route("/company/{symbol}", func(r chi.Router) {
		r.Get("/", s.handleCompany)
		r.Get("/income_statement", s.handleField(models.FieldIncomeStatement, "Income statement not found"))
		r.Get("/balance_sheet", s.handleField(models.FieldBalanceSheet, "Balance sheet not found"))
		r.Get("/cash_flow", s.handleField(models.FieldCashFlow, "Cash flow not found"))
		r.Get("/pros", s.handleField(models.FieldPros, "Pros not found"))
		r.Get("/cons", s.handleField(models.FieldCons, "Cons not found"))
		r.Get("/about", s.handleField(models.FieldAbout, "About info not found"))
	})

	return r
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"sentiment_model":  s.cfg.Inference.SentimentModel,
		"summarizer_model": s.cfg.Inference.SummarizerModel,
	})
}

// handleNews serves GET /news/{symbol}: a best-effort, time-ordered list of
// enriched news items. Only feed-level failure produces an error response
// (503); an empty list is a valid 200.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	items, err := s.news.LatestNews(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, feed.ErrFeedUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "Unable to fetch news")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if items == nil {
		items = []models.NewsItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleListSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := s.store.ListSymbols(r.Context())
	if err != nil {
		writeStoreError(w, err, "No companies found.")
		return
	}
	writeJSON(w, http.StatusOK, symbols)
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	company, err := s.store.Company(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		writeStoreError(w, err, "Company not found")
		return
	}
	writeJSON(w, http.StatusOK, company)
}

// handleField builds the handler for one projected company sub-document.
func (s *Server) handleField(field, notFoundMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value, err := s.store.Field(r.Context(), chi.URLParam(r, "symbol"), field)
		if err != nil {
			writeStoreError(w, err, notFoundMsg)
			return
		}
		writeJSON(w, http.StatusOK, value)
	}
}

// ============================================================
// Response helpers
// ============================================================

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Error("write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Detail: msg})
}

// writeStoreError maps store sentinel errors to 404 and everything else to
// a 500 with a generic message.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrCompanyNotFound) || errors.Is(err, store.ErrFieldNotFound) {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	writeError(w, http.StatusInternalServerError, fmt.Sprintf("store error: %v", err))
}
