// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package stock holds the stock records laid out on the sphere, together with
// the helpers that turn scraped quote data into records and filter them.

package stock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is a market-cap size class.
type Category string

const (
	SmallCap Category = "Small Cap"
	MidCap   Category = "Mid Cap"
	LargeCap Category = "Large Cap"
)

// All matches every sector or category in a Filter.
const All = "All"

var ErrInvalidMarketCap = errors.New("stock: invalid market cap")

// Record is a stock as consumed by the layout engine. Only Symbol, Sector and
// MarketCapCategory affect placement; the rest is carried for display.
type Record struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Sector            string   `json:"sector"`
	Price             float64  `json:"price"`
	Change            float64  `json:"change"`
	Returns           float64  `json:"returns"`
	Returns1Y         float64  `json:"returns1Y"`
	WeekHigh52        float64  `json:"weekHigh52"`
	MarketCap         float64  `json:"marketCap"`
	MarketCapCategory Category `json:"marketCapCategory"`
}

// RawRecord is the quote format served by the scraper backend. Percentages and
// market caps arrive as display strings ("+1.05%", "2.99T").
type RawRecord struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	Price     float64 `json:"price"`
	Change1D  string  `json:"change1D"`
	Return1Y  string  `json:"return1Y"`
	High52W   float64 `json:"high52W"`
	MarketCap string  `json:"marketCap"`
}

var (
	trillion = decimal.New(1, 12)
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)

	largeCapFloor = decimal.New(7, 12)
	midCapFloor   = decimal.New(12, 11)
)

// ParseMarketCap parses strings like "2.99T", "$1.09B" or "450M".
// An empty string is zero.
func ParseMarketCap(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidMarketCap, s, err)
	}
	switch {
	case strings.Contains(s, "T"):
		d = d.Mul(trillion)
	case strings.Contains(s, "B"):
		d = d.Mul(billion)
	case strings.Contains(s, "M"):
		d = d.Mul(million)
	}
	return d.InexactFloat64(), nil
}

// CategoryFor classifies a market cap value.
func CategoryFor(marketCap float64) Category {
	v := decimal.NewFromFloat(marketCap)
	switch {
	case v.GreaterThanOrEqual(largeCapFloor):
		return LargeCap
	case v.GreaterThanOrEqual(midCapFloor):
		return MidCap
	default:
		return SmallCap
	}
}

// ParsePercentage parses strings like "+1.05%" or "-2.85%". Unparseable input is zero.
func ParsePercentage(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// Transform converts raw quotes into records. The one-day change doubles as
// the current returns figure.
//
// Every quote yields a record. A quote whose market cap cannot be parsed is
// kept with a zero market cap, which classifies as Small Cap, and the parse
// errors are joined into the returned error.
func Transform(raw []RawRecord) ([]Record, error) {
	out := make([]Record, 0, len(raw))
	var errs []error
	for _, r := range raw {
		mc, err := ParseMarketCap(r.MarketCap)
		if err != nil {
			errs = append(errs, fmt.Errorf("stock %s: %w", r.Symbol, err))
			mc = 0
		}
		change := ParsePercentage(r.Change1D)
		out = append(out, Record{
			Symbol:            r.Symbol,
			Name:              r.Name,
			Sector:            r.Sector,
			Price:             r.Price,
			Change:            change,
			Returns:           change,
			Returns1Y:         ParsePercentage(r.Return1Y),
			WeekHigh52:        r.High52W,
			MarketCap:         mc,
			MarketCapCategory: CategoryFor(mc),
		})
	}
	return out, errors.Join(errs...)
}

// LoadJSON decodes a JSON array of either raw quotes or records.
// Arrays whose elements carry "marketCapCategory" are taken as records.
// Raw quotes go through Transform, so an ErrInvalidMarketCap error comes with
// the full record set.
func LoadJSON(r io.Reader) ([]Record, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("stock: decode: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &probe); err != nil {
		return nil, fmt.Errorf("stock: decode: %w", err)
	}
	if _, ok := probe["marketCapCategory"]; ok {
		recs := make([]Record, len(items))
		for i, it := range items {
			if err := json.Unmarshal(it, &recs[i]); err != nil {
				return nil, fmt.Errorf("stock: decode record %d: %w", i, err)
			}
		}
		return recs, nil
	}

	raw := make([]RawRecord, len(items))
	for i, it := range items {
		if err := json.Unmarshal(it, &raw[i]); err != nil {
			return nil, fmt.Errorf("stock: decode quote %d: %w", i, err)
		}
	}
	return Transform(raw)
}

// IsAt52WeekHigh reports whether the price is within 95% of the 52-week high.
func IsAt52WeekHigh(r Record) bool {
	if r.WeekHigh52 <= 0 {
		return false
	}
	return r.Price/r.WeekHigh52 >= 0.95
}

// FormatMarketCap renders a market cap as "$2.5T", "$80.0B", "$450.0M" or "$1234".
func FormatMarketCap(v float64) string {
	d := decimal.NewFromFloat(v)
	switch {
	case d.GreaterThanOrEqual(trillion):
		return "$" + d.Div(trillion).StringFixed(1) + "T"
	case d.GreaterThanOrEqual(billion):
		return "$" + d.Div(billion).StringFixed(1) + "B"
	case d.GreaterThanOrEqual(million):
		return "$" + d.Div(million).StringFixed(1) + "M"
	default:
		return "$" + d.StringFixed(0)
	}
}

// Sectors returns the distinct sectors in discovery order.
func Sectors(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.Sector] {
			seen[r.Sector] = true
			out = append(out, r.Sector)
		}
	}
	return out
}
