// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stock

// Filter selects a visible subset of records. Empty or All fields match everything.
type Filter struct {
	Sector    string
	MarketCap Category
}

func (f Filter) matches(r Record) bool {
	if f.Sector != "" && f.Sector != All && r.Sector != f.Sector {
		return false
	}
	if f.MarketCap != "" && f.MarketCap != All && r.MarketCapCategory != f.MarketCap {
		return false
	}
	return true
}

// Apply returns the matching records in input order. The input is not modified.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	return out
}
