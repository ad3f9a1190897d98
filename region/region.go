// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package region defines the angular windows on the sphere reserved for sectors.

package region

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

var (
	ErrEmptyTable    = errors.New("region: table has no regions")
	ErrInvalidRegion = errors.New("region: invalid region")
)

// Region is an angular window centered at (Theta, Phi).
// Theta is the azimuth, Phi the polar angle measured from the +Y pole.
// Members are spread over Theta±ThetaRange/2 and Phi±PhiRange/2 before jitter.
type Region struct {
	Name       string
	Theta      float64
	Phi        float64
	ThetaRange float64
	PhiRange   float64
}

// Center returns the unit direction of the region center.
func (r Region) Center() r3.Vector {
	sp := math.Sin(r.Phi)
	return r3.Vector{X: sp * math.Cos(r.Theta), Y: math.Cos(r.Phi), Z: sp * math.Sin(r.Theta)}
}

func (r Region) validate() error {
	if r.ThetaRange < 0 || r.PhiRange < 0 {
		return fmt.Errorf("%w %q: negative range", ErrInvalidRegion, r.Name)
	}
	if r.Phi < 0 || r.Phi > math.Pi {
		return fmt.Errorf("%w %q: phi %v outside [0 π]", ErrInvalidRegion, r.Name, r.Phi)
	}
	for _, v := range []float64{r.Theta, r.Phi, r.ThetaRange, r.PhiRange} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w %q: non-finite angle", ErrInvalidRegion, r.Name)
		}
	}
	return nil
}

// Table is an ordered list of regions. The first region is the primary one:
// the sector that owns it gets the wider intra-sector spacing.
type Table []Region

// NewTable validates regions and returns them as a Table.
func NewTable(regions ...Region) (Table, error) {
	if len(regions) == 0 {
		return nil, ErrEmptyTable
	}
	seen := make(map[string]bool, len(regions))
	for _, r := range regions {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if r.Name != "" {
			if seen[r.Name] {
				return nil, fmt.Errorf("%w %q: duplicate name", ErrInvalidRegion, r.Name)
			}
			seen[r.Name] = true
		}
	}
	t := make(Table, len(regions))
	copy(t, regions)
	return t, nil
}

// Default returns the five-region table: one isolated polar cap and four
// equatorial/southern windows, no two centers closer than 50°.
func Default() Table {
	return Table{
		{Name: "Technology", Theta: 0, Phi: math.Pi / 12, ThetaRange: math.Pi / 5, PhiRange: math.Pi / 8},
		{Name: "Energy", Theta: math.Pi, Phi: math.Pi / 2, ThetaRange: math.Pi / 8, PhiRange: math.Pi / 10},
		{Name: "Finance", Theta: 5 * math.Pi / 3, Phi: math.Pi / 2, ThetaRange: math.Pi / 8, PhiRange: math.Pi / 10},
		{Name: "Healthcare", Theta: 2 * math.Pi / 3, Phi: 5 * math.Pi / 6, ThetaRange: math.Pi / 8, PhiRange: math.Pi / 10},
		{Name: "Consumer", Theta: 4 * math.Pi / 3, Phi: 5 * math.Pi / 6, ThetaRange: math.Pi / 8, PhiRange: math.Pi / 10},
	}
}

// Index returns the position of the region with the given name, or -1.
func (t Table) Index(name string) int {
	for i, r := range t {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// Assignment maps sectors to region indices.
type Assignment struct {
	// Index is the region index per sector.
	Index map[string]int
	// Primary is the sector owning region 0, or "" if none does.
	Primary string
}

// Assign maps sectors, given in discovery order, to regions.
// A sector named like a region gets that region. Other sectors take the
// next unclaimed region in table order; once every region is claimed they
// wrap around by discovery index, sharing regions with earlier sectors.
func (t Table) Assign(sectors []string) Assignment {
	a := Assignment{Index: make(map[string]int, len(sectors))}
	if len(t) == 0 {
		return a
	}

	claimed := make([]bool, len(t))
	claim := func(s string, i int) {
		a.Index[s] = i
		claimed[i] = true
		if i == 0 {
			a.Primary = s
		}
	}
	for _, s := range sectors {
		if i := t.Index(s); i >= 0 && !claimed[i] {
			claim(s, i)
		}
	}

	next := 0
	for k, s := range sectors {
		if _, ok := a.Index[s]; ok {
			continue
		}
		for next < len(t) && claimed[next] {
			next++
		}
		if next < len(t) {
			claim(s, next)
			continue
		}
		a.Index[s] = k % len(t)
	}
	return a
}

// MinCenterDistance returns the smallest chord distance between two region
// centers on a sphere of the given radius. It returns +Inf for fewer than two regions.
func (t Table) MinCenterDistance(radius float64) float64 {
	d := math.Inf(1)
	for i := range t {
		for j := i + 1; j < len(t); j++ {
			d = math.Min(d, t[i].Center().Mul(radius).Distance(t[j].Center().Mul(radius)))
		}
	}
	return d
}
