// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import (
	"math"

	"github.com/golang/geo/r3"
)

// GoldenAngle spreads successive spiral offsets as evenly as possible.
const GoldenAngle = 2.39996

// Spherical is a direction in Y-up spherical coordinates.
// Theta is the azimuth in the XZ plane, Phi the polar angle from +Y.
type Spherical struct {
	Theta float64
	Phi   float64
}

// ToCartesian returns the point at radius r in direction s.
func (s Spherical) ToCartesian(r float64) r3.Vector {
	sp := math.Sin(s.Phi)
	return r3.Vector{
		X: r * sp * math.Cos(s.Theta),
		Y: r * math.Cos(s.Phi),
		Z: r * sp * math.Sin(s.Theta),
	}
}

// SphericalFromCartesian returns the direction of v. The zero vector maps to Phi = 0.
func SphericalFromCartesian(v r3.Vector) Spherical {
	n := v.Norm()
	if n == 0 {
		return Spherical{}
	}
	return Spherical{
		Theta: math.Atan2(v.Z, v.X),
		Phi:   math.Acos(math.Max(-1, math.Min(1, v.Y/n))),
	}
}

// clampPolar keeps phi at least margin away from both poles.
func clampPolar(phi, margin float64) float64 {
	return math.Max(margin, math.Min(math.Pi-margin, phi))
}

// project moves v onto the sphere of radius r, keeping the polar angle
// inside the pole margin. A zero vector is returned unchanged.
func project(v r3.Vector, r, margin float64) r3.Vector {
	if v.Norm() == 0 {
		return v
	}
	s := SphericalFromCartesian(v)
	if s.Phi >= margin && s.Phi <= math.Pi-margin {
		return v.Normalize().Mul(r)
	}
	s.Phi = clampPolar(s.Phi, margin)
	return s.ToCartesian(r)
}

// collides reports whether spheres of radius ra at a and rb at b are closer than gap.
func collides(a r3.Vector, ra float64, b r3.Vector, rb float64, gap float64) bool {
	return a.Distance(b) < ra+rb+gap
}
