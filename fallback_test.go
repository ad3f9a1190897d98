// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import (
	"math"
	"testing"

	"github.com/2dChan/stocksphere/region"
	"github.com/2dChan/stocksphere/stock"
	"github.com/2dChan/stocksphere/utils"
)

func TestEngine_Place_Fallback(t *testing.T) {
	const radius = 25.0
	e := mustNewEngine(t, WithAttempts(0, 0), WithJitter(0), WithRand(constRand(0.5)))
	records := utils.GenerateRecords(utils.Sectors, 8, stock.MidCap)
	points := e.Place(records)

	if len(points) != len(records) {
		t.Fatalf("len(Place(...)) = %d, want %d", len(points), len(records))
	}
	for i, p := range points {
		if !p.Fallback {
			t.Errorf("Place(...)[%d].Fallback = false, want true", i)
		}
		if n := p.Position.Norm(); math.Abs(n-radius) > 1e-6*radius {
			t.Errorf("Place(...)[%d] |position| = %v, want %v", i, n, radius)
		}
		if phi := polarAngle(p.Position); phi < DefaultPoleMargin-1e-9 || phi > math.Pi-DefaultPoleMargin+1e-9 {
			t.Errorf("Place(...)[%d] phi = %v, want in [0.1 π-0.1]", i, phi)
		}
	}

	// Alone on the sphere, the first node of a sector has nothing to push against.
	for _, sector := range utils.Sectors {
		e := mustNewEngine(t, WithAttempts(0, 0), WithJitter(0), WithRand(constRand(0.5)))
		p := e.Place(utils.GenerateRecords([]string{sector}, 3, stock.MidCap))[0]
		s := SpiralStart(e.Table()[p.Region], 0)
		s.Phi = clampPolar(s.Phi, DefaultPoleMargin)
		if want := s.ToCartesian(radius); p.Position.Distance(want) > 1e-9 {
			t.Errorf("Place(%s)[0] = %v, want spiral start %v", sector, p.Position, want)
		}
	}
}

func TestEngine_Place_RelaxationSeparates(t *testing.T) {
	records := utils.GenerateRecords([]string{"Energy"}, 2, stock.LargeCap)
	fixed := func(passes int) float64 {
		e := mustNewEngine(t, WithAttempts(0, 0), WithJitter(0), WithRand(constRand(0.5)),
			WithRelaxation(passes, DefaultPushFactor))
		p := e.Place(records)
		return p[0].Position.Distance(p[1].Position)
	}

	still, relaxed := fixed(0), fixed(DefaultRelaxPasses)
	if relaxed <= still {
		t.Errorf("relaxed distance = %v, want more than unrelaxed %v", relaxed, still)
	}
}

func TestEngine_Place_RelaxationSeparatesSectors(t *testing.T) {
	table, err := region.NewTable(
		region.Region{Name: "Energy", Theta: 0, Phi: math.Pi / 2},
		region.Region{Name: "Finance", Theta: 0.1, Phi: math.Pi / 2},
	)
	if err != nil {
		t.Fatalf("region.NewTable(...) error = %v, want nil", err)
	}
	records := []stock.Record{
		{Symbol: "XOM", Sector: "Energy", MarketCapCategory: stock.LargeCap},
		{Symbol: "JPM", Sector: "Finance", MarketCapCategory: stock.LargeCap},
	}
	fixed := func(passes int) float64 {
		e, err := NewEngine(table, WithAttempts(0, 0), WithJitter(0), WithRand(constRand(0.5)),
			WithRelaxation(passes, DefaultPushFactor))
		if err != nil {
			t.Fatalf("NewEngine(...) error = %v, want nil", err)
		}
		p := e.Place(records)
		return p[0].Position.Distance(p[1].Position)
	}

	// Two large caps of size 2.55 need 2.55+2.55+8 between sectors.
	still, relaxed := fixed(0), fixed(DefaultRelaxPasses)
	if relaxed <= still {
		t.Errorf("relaxed distance = %v, want more than unrelaxed %v", relaxed, still)
	}
	if relaxed < 12.5 {
		t.Errorf("relaxed distance = %v, want close to the inter-sector need of 13.1", relaxed)
	}
}

func TestSpiralStart(t *testing.T) {
	r := region.Region{Theta: 1, Phi: 1.5, ThetaRange: 0.4, PhiRange: 0.2}
	tests := []struct {
		index  int
		radius float64
	}{
		{0, 0.2},
		{1, 0.3},
		{4, 0.6},
		{6, 0.8},
		{20, 0.8},
	}
	for _, tt := range tests {
		s := SpiralStart(r, tt.index)
		angle := float64(tt.index) * GoldenAngle
		wantTheta := r.Theta + math.Cos(angle)*tt.radius*r.ThetaRange
		wantPhi := r.Phi + math.Sin(angle)*tt.radius*r.PhiRange
		if !approxEqual(s.Theta, wantTheta, 1e-12) || !approxEqual(s.Phi, wantPhi, 1e-12) {
			t.Errorf("SpiralStart(r, %d) = %+v, want {%v %v}", tt.index, s, wantTheta, wantPhi)
		}
	}
}
