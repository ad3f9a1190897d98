// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides sample datasets and seeded generators for layouts and tests.

package utils

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/2dChan/stocksphere/stock"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Sectors are the sector names of the default region table.
var Sectors = []string{"Technology", "Energy", "Finance", "Healthcare", "Consumer"}

var categories = []stock.Category{stock.SmallCap, stock.MidCap, stock.LargeCap}

// GenerateRandomPoints generates a vector of random points on the S2 sphere.
// The seed parameter ensures reproducibility.
func GenerateRandomPoints(cnt int, seed int64) s2.PointVector {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	sites := make(s2.PointVector, cnt)

	for i := range cnt {
		sites[i] = s2.PointFromLatLng(s2.LatLng{
			Lat: s1.Angle((random.Float64() - 0.5) * math.Pi),
			Lng: s1.Angle((random.Float64()*2 - 1) * math.Pi),
		})
	}

	return sites
}

// GenerateRecords returns perSector records for each sector, all in category c,
// grouped by sector. Symbols are "<sector initial><index>", e.g. "T00".
func GenerateRecords(sectors []string, perSector int, c stock.Category) []stock.Record {
	out := make([]stock.Record, 0, len(sectors)*perSector)
	for _, s := range sectors {
		initial := "X"
		if s != "" {
			initial = s[:1]
		}
		for i := range perSector {
			out = append(out, stock.Record{
				Symbol:            fmt.Sprintf("%s%02d", initial, i),
				Name:              fmt.Sprintf("%s stock %d", s, i),
				Sector:            s,
				MarketCapCategory: c,
			})
		}
	}
	return out
}

// GenerateRandomRecords returns cnt records with random sectors, categories
// and quotes. The seed parameter ensures reproducibility.
func GenerateRandomRecords(cnt int, sectors []string, seed int64) []stock.Record {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	out := make([]stock.Record, cnt)
	for i := range cnt {
		high := 10 + random.Float64()*990
		out[i] = stock.Record{
			Symbol:            fmt.Sprintf("R%04d", i),
			Name:              fmt.Sprintf("Random %d", i),
			Sector:            sectors[random.Intn(len(sectors))],
			Price:             high * (0.6 + random.Float64()*0.4),
			Returns1Y:         random.Float64()*80 - 30,
			WeekHigh52:        high,
			MarketCapCategory: categories[random.Intn(len(categories))],
		}
	}
	return out
}

// DummyRecords is the built-in dataset used when no quote source is reachable.
func DummyRecords() []stock.Record {
	rec := func(sym, name, sector string, price, change, returns, returns1Y, high, mcap float64, c stock.Category) stock.Record {
		return stock.Record{
			Symbol: sym, Name: name, Sector: sector,
			Price: price, Change: change, Returns: returns, Returns1Y: returns1Y,
			WeekHigh52: high, MarketCap: mcap, MarketCapCategory: c,
		}
	}
	const (
		L = stock.LargeCap
		M = stock.MidCap
		S = stock.SmallCap
	)
	return []stock.Record{
		rec("AAPL", "Apple Inc.", "Technology", 150, 2.5, 15, 25, 180, 2.5e12, L),
		rec("MSFT", "Microsoft Corp.", "Technology", 280, 1.8, 12, 18, 290, 2.2e12, L),
		rec("GOOGL", "Alphabet Inc.", "Technology", 2800, -1.2, 8, 12, 3000, 1.8e12, L),
		rec("META", "Meta Platforms", "Technology", 330, 3.2, 20, 35, 340, 8e11, L),
		rec("NVDA", "NVIDIA Corp.", "Technology", 450, 4.1, 25, 45, 460, 5e10, M),
		rec("AMD", "Advanced Micro Devices", "Technology", 120, 2.8, 18, 28, 125, 4.5e10, M),
		rec("XOM", "Exxon Mobil", "Energy", 110, -0.8, -5, -8, 125, 4.5e11, L),
		rec("CVX", "Chevron Corp.", "Energy", 160, -1.5, -8, -12, 175, 3e11, L),
		rec("COP", "ConocoPhillips", "Energy", 120, 0.7, 3, 5, 122, 8e10, M),
		rec("SLB", "Schlumberger", "Energy", 55, -2.1, -12, -15, 70, 8e9, S),
		rec("JPM", "JPMorgan Chase", "Finance", 140, 1.1, 10, 15, 145, 4.2e11, L),
		rec("BAC", "Bank of America", "Finance", 35, -0.5, -2, 2, 42, 2.8e11, L),
		rec("WFC", "Wells Fargo", "Finance", 45, 0.3, 5, 8, 48, 1.8e11, M),
		rec("GS", "Goldman Sachs", "Finance", 320, 2.2, 14, 20, 325, 1.1e11, M),
		rec("JNJ", "Johnson & Johnson", "Healthcare", 170, 0.9, 7, 12, 175, 4.5e11, L),
		rec("UNH", "UnitedHealth", "Healthcare", 480, 2.8, 18, 25, 485, 4.5e11, L),
		rec("PFE", "Pfizer Inc.", "Healthcare", 40, -2.1, -12, -18, 55, 2.2e11, M),
		rec("ABBV", "AbbVie Inc.", "Healthcare", 145, 1.5, 9, 14, 150, 2.6e11, M),
		rec("AMZN", "Amazon.com", "Consumer", 3200, 3.5, 22, 30, 3250, 1.6e12, L),
		rec("WMT", "Walmart Inc.", "Consumer", 145, 0.8, 6, 9, 148, 4e11, L),
		rec("TSLA", "Tesla Inc.", "Consumer", 700, -5.2, -15, -20, 900, 7e11, L),
		rec("HD", "Home Depot", "Consumer", 310, 1.9, 11, 16, 315, 3.2e11, L),
	}
}
