// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import (
	"sync"
	"testing"

	"github.com/2dChan/stocksphere/region"
	"github.com/2dChan/stocksphere/stock"
	"github.com/2dChan/stocksphere/utils"
	"github.com/google/go-cmp/cmp"
)

func TestDatasetKey(t *testing.T) {
	records := utils.GenerateRecords(utils.Sectors, 3, stock.SmallCap)
	key := DatasetKey(records)

	quoted := append([]stock.Record(nil), records...)
	quoted[0].Price = 123.45
	quoted[0].Returns1Y = -3
	if got := DatasetKey(quoted); got != key {
		t.Errorf("DatasetKey(...) changed with display fields: %s, want %s", got, key)
	}

	moved := append([]stock.Record(nil), records...)
	moved[0].Sector = "Finance"
	if got := DatasetKey(moved); got == key {
		t.Errorf("DatasetKey(...) unchanged after sector change")
	}

	if got := DatasetKey(records[1:]); got == key {
		t.Errorf("DatasetKey(...) unchanged after dropping a record")
	}
}

func TestStore_FilterIndependence(t *testing.T) {
	records := utils.GenerateRecords(utils.Sectors, 10, stock.MidCap)
	s := mustNewStore(t, records)

	before := make(map[string]PlacedPoint)
	for _, p := range s.Points() {
		before[p.Record.Symbol] = p
	}

	var subset []stock.Record
	for i := 0; i < len(records) && len(subset) < 12; i += 4 {
		subset = append(subset, records[i])
	}
	if len(subset) != 12 {
		t.Fatalf("len(subset) = %d, want 12", len(subset))
	}

	got := s.Select(subset)
	if len(got) != len(subset) {
		t.Fatalf("len(Select(...)) = %d, want %d", len(got), len(subset))
	}
	for i, p := range got {
		sym := subset[i].Symbol
		if diff := cmp.Diff(before[sym], p); diff != "" {
			t.Errorf("Select(...) %s mismatch (-want +got):\n%s", sym, diff)
		}
		pos, ok := s.Position(sym)
		if !ok || pos != before[sym].Position {
			t.Errorf("Position(%q) = %v, %v, want %v, true", sym, pos, ok, before[sym].Position)
		}
		size, ok := s.Size(sym)
		if !ok || size != before[sym].Size {
			t.Errorf("Size(%q) = %v, %v, want %v, true", sym, size, ok, before[sym].Size)
		}
	}

	filtered := stock.Filter{Sector: "Energy", MarketCap: stock.MidCap}.Apply(records)
	for _, p := range s.Select(filtered) {
		if p.Position != before[p.Record.Symbol].Position {
			t.Errorf("Select(Energy) %s moved", p.Record.Symbol)
		}
	}

	if got := s.Builds(); got != 1 {
		t.Errorf("Builds() = %d, want 1", got)
	}
}

func TestStore_Load(t *testing.T) {
	records := utils.GenerateRecords(utils.Sectors, 4, stock.LargeCap)
	s := mustNewStore(t, records)
	s.Points()

	// Same placement inputs with fresh quotes keep the layout.
	quoted := append([]stock.Record(nil), records...)
	quoted[2].Price = 99
	s.Load(quoted)
	s.Points()
	if got := s.Builds(); got != 1 {
		t.Errorf("Builds() after reloading same dataset = %d, want 1", got)
	}
	if got := s.Records()[2].Price; got != 99 {
		t.Errorf("Records()[2].Price = %v, want 99", got)
	}
	sel := s.Select(quoted[2:3])
	if len(sel) != 1 || sel[0].Record.Price != 99 {
		t.Errorf("Select(%s) = %+v, want the reloaded price 99", quoted[2].Symbol, sel)
	}
	if got := s.Points()[2].Record.Price; got != 99 {
		t.Errorf("Points()[2].Record.Price = %v, want 99", got)
	}

	s.Load(records[:10])
	if got := len(s.Points()); got != 10 {
		t.Errorf("len(Points()) after new dataset = %d, want 10", got)
	}
	if got := s.Builds(); got != 2 {
		t.Errorf("Builds() after new dataset = %d, want 2", got)
	}
}

func TestStore_Invalidate(t *testing.T) {
	s := mustNewStore(t, utils.GenerateRecords(utils.Sectors, 2, stock.SmallCap))
	s.Points()
	s.Invalidate()
	if got := s.Builds(); got != 1 {
		t.Errorf("Builds() right after Invalidate() = %d, want 1", got)
	}
	s.Report()
	if got := s.Builds(); got != 2 {
		t.Errorf("Builds() after Invalidate() and read = %d, want 2", got)
	}
}

func TestStore_UnknownSymbol(t *testing.T) {
	s := mustNewStore(t, utils.DummyRecords())
	if _, ok := s.Position("NOPE"); ok {
		t.Errorf("Position(%q) ok = true, want false", "NOPE")
	}
	if _, ok := s.Size("NOPE"); ok {
		t.Errorf("Size(%q) ok = true, want false", "NOPE")
	}
	got := s.Select([]stock.Record{{Symbol: "NOPE"}, {Symbol: "AAPL"}})
	if len(got) != 1 || got[0].Record.Symbol != "AAPL" {
		t.Errorf("Select(NOPE, AAPL) = %v, want only AAPL", got)
	}
}

func TestStore_Empty(t *testing.T) {
	s := mustNewStore(t, nil)
	if got := s.Points(); len(got) != 0 {
		t.Errorf("Points() = %v, want empty", got)
	}
	rep := s.Report()
	if rep == nil || len(rep.Violations) != 0 {
		t.Errorf("Report() = %+v, want empty report", rep)
	}
}

func TestStore_PointsCopy(t *testing.T) {
	s := mustNewStore(t, utils.DummyRecords())
	p := s.Points()
	want := p[0].Position
	p[0].Position = p[0].Position.Mul(2)
	if got := s.Points()[0].Position; got != want {
		t.Errorf("Points()[0].Position = %v after caller mutation, want %v", got, want)
	}
}

func TestStore_ConcurrentReads(t *testing.T) {
	records := utils.GenerateRecords(utils.Sectors, 6, stock.MidCap)
	s := mustNewStore(t, records)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Position(records[i%len(records)].Symbol)
			s.Select(records[:i])
		}()
	}
	wg.Wait()

	if got := s.Builds(); got != 1 {
		t.Errorf("Builds() = %d after concurrent reads, want 1", got)
	}
}

func TestStore_ReadsDuringInvalidate(t *testing.T) {
	records := utils.GenerateRecords(utils.Sectors, 2, stock.SmallCap)
	s := mustNewStore(t, records)
	sym := records[3].Symbol

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 20 {
			s.Invalidate()
		}
	}()
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if _, ok := s.Position(sym); !ok {
					t.Errorf("Position(%q) ok = false during Invalidate, want true", sym)
					return
				}
				if _, ok := s.Size(sym); !ok {
					t.Errorf("Size(%q) ok = false during Invalidate, want true", sym)
					return
				}
			}
		}()
	}
	wg.Wait()
}

// Benchmarks

func BenchmarkStore_Select(b *testing.B) {
	records := utils.GenerateRandomRecords(500, utils.Sectors, 0)
	e, err := NewEngine(region.Default(), WithSeed(0))
	if err != nil {
		b.Fatalf("NewEngine(...) error = %v, want nil", err)
	}
	s := NewStore(e)
	s.Load(records)
	s.Points()
	subset := stock.Filter{Sector: "Finance"}.Apply(records)

	b.ReportAllocs()
	for b.Loop() {
		s.Select(subset)
	}
}

// Helpers

func mustNewStore(t *testing.T, records []stock.Record) *Store {
	t.Helper()
	s := NewStore(mustNewEngine(t, WithSeed(5)))
	s.Load(records)
	return s
}
