// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import (
	"math"
	"testing"

	"github.com/2dChan/stocksphere/region"
	"github.com/golang/geo/r3"
)

// Helpers

// seqRand returns its values in a cycle.
type seqRand struct {
	vals []float64
	n    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.n%len(r.vals)]
	r.n++
	return v
}

func constRand(v float64) *seqRand {
	return &seqRand{vals: []float64{v}}
}

func mustNewEngine(t *testing.T, setters ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(region.Default(), setters...)
	if err != nil {
		t.Fatalf("NewEngine(...) error = %v, want nil", err)
	}
	return e
}

func polarAngle(v r3.Vector) float64 {
	return math.Acos(v.Y / v.Norm())
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
