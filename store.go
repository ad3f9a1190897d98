// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/2dChan/stocksphere/stock"
	"github.com/golang/geo/r3"
)

// DatasetKey identifies a dataset by the fields that affect placement, in
// input order. Display fields such as price do not change it.
func DatasetKey(records []stock.Record) string {
	h := sha256.New()
	for _, r := range records {
		h.Write([]byte(r.Symbol))
		h.Write([]byte{0})
		h.Write([]byte(r.Sector))
		h.Write([]byte{0})
		h.Write([]byte(r.MarketCapCategory))
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Store holds the layout of one dataset. The layout is computed on first use
// and kept until the dataset changes, so a stock's position does not depend on
// which subset is being displayed. Reads are safe for concurrent use.
type Store struct {
	engine *Engine

	mu      sync.RWMutex
	records []stock.Record
	key     string
	built   bool
	builds  int

	points    []PlacedPoint
	index     map[string]int
	positions map[string]r3.Vector
	sizes     map[string]float64
	report    *Report
}

func NewStore(e *Engine) *Store {
	return &Store{engine: e}
}

func (s *Store) Engine() *Engine {
	return s.engine
}

// Load sets the dataset. The current layout is dropped only if the dataset
// differs; otherwise the placed points pick up the new quote fields.
func (s *Store) Load(records []stock.Record) {
	key := DatasetKey(records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]stock.Record(nil), records...)
	if key != s.key {
		s.key = key
		s.invalidateLocked()
		return
	}
	for _, r := range s.records {
		if i, ok := s.index[r.Symbol]; ok {
			s.points[i].Record = r
		}
	}
}

// Invalidate drops the current layout; the next read recomputes it.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked()
}

func (s *Store) invalidateLocked() {
	s.built = false
	s.points = nil
	s.index = nil
	s.positions = nil
	s.sizes = nil
	s.report = nil
}

// Records returns the loaded dataset.
func (s *Store) Records() []stock.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Builds returns how many times a layout has been computed.
func (s *Store) Builds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builds
}

// rlock returns with the read lock held and a layout built for the loaded
// dataset. The caller must release the read lock.
func (s *Store) rlock() {
	for {
		s.mu.RLock()
		if s.built {
			return
		}
		s.mu.RUnlock()
		s.build()
	}
}

func (s *Store) build() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.built {
		return
	}
	points := s.engine.Place(s.records)
	s.index = make(map[string]int, len(points))
	s.positions = make(map[string]r3.Vector, len(points))
	s.sizes = make(map[string]float64, len(points))
	for i, p := range points {
		s.index[p.Record.Symbol] = i
		s.positions[p.Record.Symbol] = p.Position
		s.sizes[p.Record.Symbol] = p.Size
	}
	s.points = points
	s.report = s.engine.Verify(points)
	s.built = true
	s.builds++
	s.engine.opts.Logger.Info("layout computed", "stocks", len(points), "violations", len(s.report.Violations))
}

// Position returns the position of symbol.
func (s *Store) Position(symbol string) (r3.Vector, bool) {
	s.rlock()
	defer s.mu.RUnlock()
	p, ok := s.positions[symbol]
	return p, ok
}

// Size returns the node radius of symbol.
func (s *Store) Size(symbol string) (float64, bool) {
	s.rlock()
	defer s.mu.RUnlock()
	v, ok := s.sizes[symbol]
	return v, ok
}

// Points returns every placed point in placement order.
func (s *Store) Points() []PlacedPoint {
	s.rlock()
	defer s.mu.RUnlock()
	return append([]PlacedPoint(nil), s.points...)
}

// Select returns the placed points of the given records, in their order.
// Records unknown to the dataset are skipped. Select never recomputes a
// layout beyond the one for the loaded dataset.
func (s *Store) Select(records []stock.Record) []PlacedPoint {
	s.rlock()
	defer s.mu.RUnlock()
	out := make([]PlacedPoint, 0, len(records))
	for _, r := range records {
		if i, ok := s.index[r.Symbol]; ok {
			out = append(out, s.points[i])
		}
	}
	return out
}

// Report returns the verification report of the current layout.
func (s *Store) Report() *Report {
	s.rlock()
	defer s.mu.RUnlock()
	return s.report
}
