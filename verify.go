// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import (
	"github.com/2dChan/stocksphere/s2delaunay"
	"github.com/golang/geo/r3"
)

// Violation is a pair of nodes closer than their required distance.
type Violation struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	SectorA     string  `json:"sectorA"`
	SectorB     string  `json:"sectorB"`
	Distance    float64 `json:"distance"`
	Required    float64 `json:"required"`
	InterSector bool    `json:"interSector"`
	// Fallback is set when either node came from the fallback resolver.
	Fallback bool `json:"fallback"`
}

// CentroidDistance is the distance between the mean positions of two sectors.
type CentroidDistance struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	Distance float64 `json:"distance"`
	TooClose bool    `json:"tooClose"`
}

// Border is the closest pair of node centers between two sectors that touch
// on the triangulation of all nodes.
type Border struct {
	SectorA  string  `json:"sectorA"`
	SectorB  string  `json:"sectorB"`
	A        string  `json:"a"`
	B        string  `json:"b"`
	Distance float64 `json:"distance"`
}

// Report is the outcome of a verification pass.
type Report struct {
	Violations []Violation        `json:"violations"`
	Centroids  []CentroidDistance `json:"centroids"`
	Borders    []Border           `json:"borders"`
}

// IntraSector returns the violations between nodes of the same sector.
func (r *Report) IntraSector() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if !v.InterSector {
			out = append(out, v)
		}
	}
	return out
}

// InterSector returns the violations between nodes of different sectors.
func (r *Report) InterSector() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.InterSector {
			out = append(out, v)
		}
	}
	return out
}

// Verify checks points, as returned by Place, against the spacing rules and
// reports every violation. It never modifies the points.
func (e *Engine) Verify(points []PlacedPoint) *Report {
	rep := &Report{}
	log := e.opts.Logger
	if len(points) == 0 {
		return rep
	}

	var sectors []string
	members := make(map[string][]int)
	for i, p := range points {
		s := p.Record.Sector
		if _, ok := members[s]; !ok {
			sectors = append(sectors, s)
		}
		members[s] = append(members[s], i)
	}
	assign := e.table.Assign(sectors)
	minDist := make(map[string]float64, len(sectors))
	for _, s := range sectors {
		minDist[s] = e.MinDistance(s == assign.Primary, len(members[s]))
	}

	for i := range points {
		for j := i + 1; j < len(points); j++ {
			a, b := points[i], points[j]
			inter := a.Record.Sector != b.Record.Sector
			gap := e.opts.InterSectorGap
			if !inter {
				gap = minDist[a.Record.Sector]
			}
			d := a.Position.Distance(b.Position)
			need := a.Size + b.Size + gap
			if d >= need {
				continue
			}
			v := Violation{
				A: a.Record.Symbol, B: b.Record.Symbol,
				SectorA: a.Record.Sector, SectorB: b.Record.Sector,
				Distance: d, Required: need,
				InterSector: inter,
				Fallback:    a.Fallback || b.Fallback,
			}
			rep.Violations = append(rep.Violations, v)
			log.Warn("overlap detected", "a", v.A, "b", v.B, "distance", d, "required", need, "interSector", inter)
		}
	}

	centroids := make([]r3.Vector, len(sectors))
	for k, s := range sectors {
		var sum r3.Vector
		for _, i := range members[s] {
			sum = sum.Add(points[i].Position)
		}
		centroids[k] = sum.Mul(1 / float64(len(members[s])))
	}
	for i := range sectors {
		for j := i + 1; j < len(sectors); j++ {
			d := centroids[i].Distance(centroids[j])
			cd := CentroidDistance{A: sectors[i], B: sectors[j], Distance: d, TooClose: d < e.opts.MinCentroidDistance}
			rep.Centroids = append(rep.Centroids, cd)
			if cd.TooClose {
				log.Warn("sectors may be too close", "a", cd.A, "b", cd.B, "distance", d)
			}
		}
	}

	rep.Borders = e.borders(points, sectors)

	log.Debug("verified layout", "stocks", len(points), "violations", len(rep.Violations),
		"borders", len(rep.Borders))
	return rep
}

// borders finds, for every pair of sectors sharing a triangulation edge, the
// shortest such edge. With exactly two sectors it is their closest pair.
func (e *Engine) borders(points []PlacedPoint, sectors []string) []Border {
	if len(sectors) < 2 || len(points) < 4 {
		return nil
	}
	pos := make([]r3.Vector, len(points))
	for i, p := range points {
		pos[i] = p.Position
	}
	tri, err := s2delaunay.FromPositions(pos)
	if err != nil {
		e.opts.Logger.Debug("skipping sector borders", "err", err)
		return nil
	}

	order := make(map[string]int, len(sectors))
	for i, s := range sectors {
		order[s] = i
	}
	type key struct{ a, b int }
	best := make(map[key]Border)
	for _, ed := range tri.Edges() {
		pa, pb := points[ed.A], points[ed.B]
		sa, sb := order[pa.Record.Sector], order[pb.Record.Sector]
		if sa == sb {
			continue
		}
		if sa > sb {
			sa, sb = sb, sa
			pa, pb = pb, pa
		}
		d := pa.Position.Distance(pb.Position)
		k := key{sa, sb}
		if b, ok := best[k]; ok && b.Distance <= d {
			continue
		}
		best[k] = Border{
			SectorA: sectors[sa], SectorB: sectors[sb],
			A: pa.Record.Symbol, B: pb.Record.Symbol,
			Distance: d,
		}
	}

	var out []Border
	for i := range sectors {
		for j := i + 1; j < len(sectors); j++ {
			if b, ok := best[key{i, j}]; ok {
				out = append(out, b)
			}
		}
	}
	return out
}
