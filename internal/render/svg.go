// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package render draws a flat map of a sphere layout as SVG.
package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/golang/geo/s2"

	"github.com/2dChan/stocksphere"
	"github.com/2dChan/stocksphere/s2delaunay"
	"github.com/2dChan/stocksphere/stock"
)

const (
	backgroundStyle = "fill:rgb(10,10,10)"
	labelStyle      = "fill:rgb(220,220,220);font-size:10px;font-family:sans-serif"
	meshStyle       = "stroke:rgb(70,70,70);stroke-width:1"
	fallbackStroke  = "stroke:rgb(255,255,255);stroke-dasharray:2,2;stroke-width:1"
	highStroke      = "stroke:rgb(36,143,225);stroke-width:2"
)

var palette = []string{
	"rgb(255,107,71)",
	"rgb(74,158,255)",
	"rgb(92,249,137)",
	"rgb(240,200,60)",
	"rgb(200,110,240)",
	"rgb(80,220,220)",
	"rgb(240,120,180)",
}

// Map renders layouts with a plate carrée projection.
type Map struct {
	Width  int
	Radius float64
	Labels bool
	// Mesh draws the triangulation joining neighboring nodes.
	Mesh bool
}

// Height is half the width: the projection spans 360° by 180°.
func (m Map) Height() int {
	return m.Width / 2
}

// toScreen maps a Y-up layout position to pixel coordinates.
func (m Map) toScreen(p s2.Point) (int, int) {
	xScale := float64(m.Width)
	proj := s2.NewPlateCarreeProjection(xScale)

	r2p := proj.Project(p)

	x := (r2p.X + xScale) / (2 * xScale)
	y := (-r2p.Y + xScale/2) / xScale

	return int(x * float64(m.Width)), int(y * float64(m.Height()))
}

// pixels converts a node radius in layout units to pixels along the equator.
func (m Map) pixels(size float64) int {
	return max(1, int(math.Round(size*float64(m.Width)/(2*math.Pi*m.Radius))))
}

// Render writes points as circles colored by sector.
func (m Map) Render(w io.Writer, points []stocksphere.PlacedPoint) error {
	if m.Width <= 0 || m.Radius <= 0 {
		return fmt.Errorf("render: invalid map %dpx radius %v", m.Width, m.Radius)
	}

	colors := make(map[string]string)
	for _, p := range points {
		if _, ok := colors[p.Record.Sector]; !ok {
			colors[p.Record.Sector] = palette[len(colors)%len(palette)]
		}
	}

	canvas := svg.New(w)
	canvas.Start(m.Width, m.Height())
	canvas.Rect(0, 0, m.Width, m.Height(), backgroundStyle)

	sites := make(s2.PointVector, len(points))
	for i, p := range points {
		// Layout Y is the pole; S2 latitude is measured against Z.
		sites[i] = s2.PointFromCoords(p.Position.X, -p.Position.Z, p.Position.Y)
	}
	if m.Mesh {
		m.drawMesh(canvas, sites)
	}

	for i, p := range points {
		x, y := m.toScreen(sites[i])

		style := "fill:" + colors[p.Record.Sector] + ";fill-opacity:0.9"
		switch {
		case p.Fallback:
			style += ";" + fallbackStroke
		case stock.IsAt52WeekHigh(p.Record):
			style += ";" + highStroke
		}
		canvas.Circle(x, y, m.pixels(p.Size), style)
		if m.Labels {
			canvas.Text(x+m.pixels(p.Size)+2, y+3, p.Record.Symbol, labelStyle)
		}
	}
	canvas.End()
	return nil
}

func (m Map) drawMesh(canvas *svg.SVG, sites s2.PointVector) {
	dt, err := s2delaunay.NewTriangulation(sites)
	if err != nil {
		return
	}
	for _, e := range dt.Edges() {
		a, b := sites[e.A], sites[e.B]
		lngA := s2.LatLngFromPoint(a).Lng.Radians()
		lngB := s2.LatLngFromPoint(b).Lng.Radians()
		// Skip edges that cross the antimeridian
		if math.Abs(lngA-lngB) > math.Pi {
			continue
		}
		x1, y1 := m.toScreen(a)
		x2, y2 := m.toScreen(b)
		canvas.Line(x1, y1, x2, y2, meshStyle)
	}
}
