// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import (
	"math"

	"github.com/2dChan/stocksphere/region"
)

// Strategy proposes candidate directions inside a region.
// attempt counts from 1 within the strategy's own budget.
type Strategy interface {
	Name() string
	Candidate(r region.Region, attempt, sectorSize int) Spherical
}

// RandomStrategy samples uniformly over the region window plus jitter.
type RandomStrategy struct {
	Rand       Rand
	Jitter     float64
	PoleMargin float64
}

func (RandomStrategy) Name() string { return "random" }

func (s RandomStrategy) Candidate(r region.Region, _, _ int) Spherical {
	theta := r.Theta + (s.Rand.Float64()-0.5)*r.ThetaRange
	phi := r.Phi + (s.Rand.Float64()-0.5)*r.PhiRange
	theta += (s.Rand.Float64() - 0.5) * s.Jitter
	phi += (s.Rand.Float64() - 0.5) * s.Jitter
	return Spherical{Theta: theta, Phi: clampPolar(phi, s.PoleMargin)}
}

// GridStrategy walks a square grid of ceil(sqrt(2n)) cells per side over the
// region window, one cell per attempt, jittering each cell center.
type GridStrategy struct {
	Rand       Rand
	Jitter     float64
	PoleMargin float64
}

func (GridStrategy) Name() string { return "grid" }

func gridSize(sectorSize int) int {
	return max(1, int(math.Ceil(math.Sqrt(float64(2*sectorSize)))))
}

func (s GridStrategy) Candidate(r region.Region, attempt, sectorSize int) Spherical {
	n := gridSize(sectorSize)
	gx := attempt % n
	gy := attempt / n

	thetaStep := r.ThetaRange / float64(n)
	phiStep := r.PhiRange / float64(n)

	theta := r.Theta - r.ThetaRange/2 + (float64(gx)+0.5)*thetaStep
	phi := clampPolar(r.Phi-r.PhiRange/2+(float64(gy)+0.5)*phiStep, s.PoleMargin)

	theta += (s.Rand.Float64() - 0.5) * s.Jitter
	phi += (s.Rand.Float64() - 0.5) * s.Jitter
	return Spherical{Theta: theta, Phi: clampPolar(phi, s.PoleMargin)}
}

type phase struct {
	strategy Strategy
	attempts int
}
