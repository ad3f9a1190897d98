// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import "github.com/2dChan/stocksphere/stock"

// DefaultSize is the radius of nodes with an unknown market-cap category.
const DefaultSize = 0.65

type sizeRange struct {
	min, spread float64
}

var sizeRanges = map[stock.Category]sizeRange{
	stock.SmallCap: {0.5, 0.1},
	stock.MidCap:   {1.1, 0.1},
	stock.LargeCap: {2.4, 0.3},
}

// SizeOf returns a node radius for the category, jittered within its range.
// Unknown categories get DefaultSize and draw nothing from rnd.
func SizeOf(c stock.Category, rnd Rand) float64 {
	sr, ok := sizeRanges[c]
	if !ok {
		return DefaultSize
	}
	return sr.min + rnd.Float64()*sr.spread
}
