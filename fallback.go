// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import (
	"math"

	"github.com/2dChan/stocksphere/region"
	"github.com/golang/geo/r3"
)

// SpiralStart returns the deterministic fallback start direction for the
// index-th node of a sector in region r, before jitter and clamping.
func SpiralStart(r region.Region, index int) Spherical {
	radius := math.Min(0.8, 0.2+float64(index)*0.1)
	angle := float64(index) * GoldenAngle
	return Spherical{
		Theta: r.Theta + math.Cos(angle)*radius*r.ThetaRange,
		Phi:   r.Phi + math.Sin(angle)*radius*r.PhiRange,
	}
}

// fallback starts on a golden-angle spiral around the region center and
// pushes the node away from overlapping nodes for a bounded number of passes.
// Sector members repel within the sector's minimum distance and nodes of
// other sectors within the inter-sector gap. The result is accepted whether
// or not overlaps remain.
func (e *Engine) fallback(st *sectorState, index int, size float64, global []PlacedPoint) r3.Vector {
	s := SpiralStart(st.region, index)
	s.Theta += (e.opts.Rand.Float64() - 0.5) * e.opts.Jitter
	s.Phi += (e.opts.Rand.Float64() - 0.5) * e.opts.Jitter
	s.Phi = clampPolar(s.Phi, e.opts.PoleMargin)
	pos := s.ToCartesian(e.opts.SphereRadius)

	for range e.opts.RelaxPasses {
		var push r3.Vector
		moved := false
		repel := func(p PlacedPoint, gap float64) {
			d := pos.Distance(p.Position)
			need := size + p.Size + gap
			if d >= need {
				return
			}
			moved = true
			push = push.Add(pos.Sub(p.Position).Normalize().Mul((need - d) * e.opts.PushFactor))
		}
		for _, p := range st.placed {
			repel(p, st.minDist)
		}
		for _, p := range global {
			if p.Record.Sector != st.sector {
				repel(p, e.opts.InterSectorGap)
			}
		}
		if !moved {
			break
		}
		pos = project(pos.Add(push), e.opts.SphereRadius, e.opts.PoleMargin)
	}
	return pos
}
