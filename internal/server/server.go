// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package server exposes a layout store over HTTP.
//
// Routes:
//   - GET /         service info
//   - GET /stocks   records, filtered by ?sector= and ?marketCap=
//   - GET /layout   placed points of the filtered records
//   - GET /report   verification report of the whole layout
//
// Filtering only selects entries of the stored layout; it never triggers a
// recomputation.
package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2dChan/stocksphere"
	"github.com/2dChan/stocksphere/stock"
)

// Server serves one store.
type Server struct {
	store   *stocksphere.Store
	logger  *log.Logger
	origins []string
}

func New(store *stocksphere.Store, logger *log.Logger, allowedOrigins []string) *Server {
	return &Server{store: store, logger: logger, origins: allowedOrigins}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)
	r.Use(s.cors)

	r.Get("/", s.handleIndex)
	r.Get("/stocks", s.handleStocks)
	r.Get("/layout", s.handleLayout)
	r.Get("/report", s.handleReport)
	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "elapsed", time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && slices.Contains(s.origins, origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Vector is a JSON position.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Node is a placed stock as served by /layout.
type Node struct {
	stock.Record
	Position Vector  `json:"position"`
	Size     float64 `json:"size"`
	Fallback bool    `json:"fallback,omitempty"`
}

// NewNode converts a placed point.
func NewNode(p stocksphere.PlacedPoint) Node {
	return Node{
		Record:   p.Record,
		Position: Vector{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z},
		Size:     p.Size,
		Fallback: p.Fallback,
	}
}

func filterFrom(r *http.Request) stock.Filter {
	q := r.URL.Query()
	return stock.Filter{Sector: q.Get("sector"), MarketCap: stock.Category(q.Get("marketCap"))}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Stock sphere server is running",
		"endpoints":  []string{"/stocks", "/layout", "/report"},
		"stockCount": len(s.store.Records()),
	})
}

func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, filterFrom(r).Apply(s.store.Records()))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	visible := filterFrom(r).Apply(s.store.Records())
	points := s.store.Select(visible)
	nodes := make([]Node, len(points))
	for i, p := range points {
		nodes[i] = NewNode(p)
	}
	s.writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Report())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}
