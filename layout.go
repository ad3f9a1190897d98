// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package stocksphere places stocks on the surface of a sphere, one angular
// region per sector, so that no two nodes overlap and sectors stay apart.

package stocksphere

import (
	"math"

	"github.com/2dChan/stocksphere/region"
	"github.com/2dChan/stocksphere/stock"
	"github.com/golang/geo/r3"
)

// PlacedPoint is a record's node on the sphere.
type PlacedPoint struct {
	Record   stock.Record
	Position r3.Vector
	Size     float64
	// Region is the index into the engine's table.
	Region int
	// Fallback is set when the node was placed by the fallback resolver
	// and may overlap its neighbors.
	Fallback bool
}

// Engine computes sphere layouts. It is not safe for concurrent use: the
// random source is shared between calls.
type Engine struct {
	table  region.Table
	opts   Options
	phases []phase
}

// NewEngine returns an engine over the given region table.
func NewEngine(table region.Table, setters ...Option) (*Engine, error) {
	if len(table) == 0 {
		return nil, region.ErrEmptyTable
	}
	opts := defaultOptions()
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	opts.fillDefaults()

	e := &Engine{table: table, opts: opts}
	e.phases = []phase{
		{RandomStrategy{Rand: opts.Rand, Jitter: opts.Jitter, PoleMargin: opts.PoleMargin}, opts.RandomAttempts},
		{GridStrategy{Rand: opts.Rand, Jitter: opts.Jitter, PoleMargin: opts.PoleMargin}, opts.GridAttempts},
	}
	return e, nil
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) Table() region.Table {
	return e.table
}

// MinDistance returns the intra-sector gap for a sector of n nodes.
func (e *Engine) MinDistance(primary bool, n int) float64 {
	base := e.opts.BaseMinDistance
	if primary {
		base = e.opts.PrimaryMinDistance
	}
	return math.Max(base, math.Sqrt(float64(n))*e.opts.DensityFactor)
}

// sectorState is the placement context of the sector being laid out.
type sectorState struct {
	sector  string
	region  region.Region
	index   int
	size    int
	minDist float64
	placed  []PlacedPoint
}

// Place lays out records sector by sector in discovery order and returns one
// point per record in placement order. Placement never fails: when the search
// budget runs out the fallback resolver picks a best-effort position.
func (e *Engine) Place(records []stock.Record) []PlacedPoint {
	if len(records) == 0 {
		return nil
	}

	groups := groupBySector(records)
	sectors := make([]string, len(groups))
	for i, g := range groups {
		sectors[i] = g.sector
	}
	assign := e.table.Assign(sectors)

	log := e.opts.Logger
	points := make([]PlacedPoint, 0, len(records))
	for _, g := range groups {
		ri := assign.Index[g.sector]
		st := &sectorState{
			sector:  g.sector,
			region:  e.table[ri],
			index:   ri,
			size:    len(g.records),
			minDist: e.MinDistance(g.sector == assign.Primary, len(g.records)),
		}
		log.Debug("placing sector", "sector", g.sector, "region", st.region.Name,
			"stocks", st.size, "minDistance", st.minDist)

		for i, rec := range g.records {
			size := SizeOf(rec.MarketCapCategory, e.opts.Rand)
			p := PlacedPoint{Record: rec, Size: size, Region: ri}

			pos, ok := e.search(st, size, points)
			if !ok {
				log.Warn("no collision-free position, using fallback",
					"symbol", rec.Symbol, "sector", g.sector,
					"attempts", e.opts.RandomAttempts+e.opts.GridAttempts)
				pos = e.fallback(st, i, size, points)
				p.Fallback = true
			}
			p.Position = pos

			st.placed = append(st.placed, p)
			points = append(points, p)
		}
		log.Debug("placed sector", "sector", g.sector, "stocks", len(st.placed))
	}
	return points
}

// search runs the candidate strategies in order and returns the first
// candidate clear of both the sector's nodes and every other sector's nodes.
func (e *Engine) search(st *sectorState, size float64, global []PlacedPoint) (r3.Vector, bool) {
	for _, ph := range e.phases {
		for attempt := 1; attempt <= ph.attempts; attempt++ {
			c := ph.strategy.Candidate(st.region, attempt, st.size).ToCartesian(e.opts.SphereRadius)
			if e.clear(st, c, size, global) {
				e.opts.Logger.Debug("candidate accepted", "sector", st.sector,
					"strategy", ph.strategy.Name(), "attempt", attempt)
				return c, true
			}
		}
	}
	return r3.Vector{}, false
}

func (e *Engine) clear(st *sectorState, c r3.Vector, size float64, global []PlacedPoint) bool {
	for _, p := range st.placed {
		if collides(c, size, p.Position, p.Size, st.minDist) {
			return false
		}
	}
	for _, p := range global {
		if p.Record.Sector == st.sector {
			continue
		}
		if collides(c, size, p.Position, p.Size, e.opts.InterSectorGap) {
			return false
		}
	}
	return true
}
