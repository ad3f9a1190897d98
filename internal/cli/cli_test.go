// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/2dChan/stocksphere/stock"
	"github.com/2dChan/stocksphere/utils"
)

const quotes = `[
  {"symbol":"RELIANCE","name":"Reliance","sector":"Energy","price":2900,"change1D":"+1.05%","return1Y":"-3.2%","high52W":3000,"marketCap":"19.6T"},
  {"symbol":"TCS","name":"Tata Consultancy","sector":"Technology","price":3900,"change1D":"-0.4%","return1Y":"+12%","high52W":4200,"marketCap":"1.4T"},
  {"symbol":"HDFCBANK","name":"HDFC Bank","sector":"Finance","price":1600,"change1D":"+0.2%","return1Y":"+8%","high52W":1700,"marketCap":"900B"}
]`

func TestLayoutCommand_SampleData(t *testing.T) {
	doc := mustRunLayout(t, "--seed", "3")
	if len(doc.Nodes) != 22 {
		t.Fatalf("layout returned %d nodes, want 22", len(doc.Nodes))
	}
	if doc.Radius != 25 {
		t.Errorf("layout radius = %v, want 25", doc.Radius)
	}
}

func TestLayoutCommand_FilterKeepsPositions(t *testing.T) {
	all := mustRunLayout(t, "--seed", "3")
	energy := mustRunLayout(t, "--seed", "3", "--sector", "Energy")

	bySymbol := make(map[string]layoutNode)
	for _, n := range all.Nodes {
		bySymbol[n.Symbol] = n
	}
	if len(energy.Nodes) != 4 {
		t.Fatalf("layout --sector Energy returned %d nodes, want 4", len(energy.Nodes))
	}
	for _, n := range energy.Nodes {
		if diff := cmp.Diff(bySymbol[n.Symbol], n); diff != "" {
			t.Errorf("layout --sector Energy %s mismatch (-want +got):\n%s", n.Symbol, diff)
		}
	}
}

func TestLayoutCommand_InputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	if err := os.WriteFile(path, []byte(quotes), 0o600); err != nil {
		t.Fatalf("os.WriteFile(...) error = %v, want nil", err)
	}
	doc := mustRunLayout(t, "--seed", "1", "--input", path)

	var got []string
	for _, n := range doc.Nodes {
		got = append(got, n.Symbol+"/"+string(n.MarketCapCategory))
	}
	want := []string{"RELIANCE/Large Cap", "TCS/Mid Cap", "HDFCBANK/Small Cap"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout --input mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutCommand_InputFileBadMarketCap(t *testing.T) {
	const feed = `[
  {"symbol":"RELIANCE","sector":"Energy","price":2900,"marketCap":"19.6T"},
  {"symbol":"XYZ","sector":"Finance","price":12,"marketCap":"N/A"}
]`
	path := filepath.Join(t.TempDir(), "quotes.json")
	if err := os.WriteFile(path, []byte(feed), 0o600); err != nil {
		t.Fatalf("os.WriteFile(...) error = %v, want nil", err)
	}
	var logs bytes.Buffer
	doc := mustRunLayoutLog(t, &logs, "--seed", "1", "--input", path)

	var got []string
	for _, n := range doc.Nodes {
		got = append(got, n.Symbol+"/"+string(n.MarketCapCategory))
	}
	want := []string{"RELIANCE/Large Cap", "XYZ/Small Cap"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout --input mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(logs.String(), "falling back to sample data") {
		t.Errorf("layout logs = %q, want no fallback to sample data", logs.String())
	}
}

func TestLayoutCommand_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, quotes)
	}))
	defer srv.Close()

	doc := mustRunLayout(t, "--seed", "1", "--url", srv.URL)
	if len(doc.Nodes) != 3 {
		t.Errorf("layout --url returned %d nodes, want 3", len(doc.Nodes))
	}
}

func TestLayoutCommand_FallbackToSample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "scraper down", http.StatusBadGateway)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"--input", filepath.Join(t.TempDir(), "missing.json")}},
		{"failing url", []string{"--url", srv.URL}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			doc := mustRunLayoutLog(t, &logs, append([]string{"--seed", "2"}, tt.args...)...)
			if len(doc.Nodes) != len(utils.DummyRecords()) {
				t.Errorf("layout returned %d nodes, want sample dataset of %d", len(doc.Nodes), len(utils.DummyRecords()))
			}
			if !strings.Contains(logs.String(), "falling back to sample data") {
				t.Errorf("layout logs = %q, want fallback warning", logs.String())
			}
		})
	}
}

func TestLayoutCommand_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	var out bytes.Buffer
	c := New(&out, io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"layout", "--seed", "1", "-o", path})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout -o error = %v, want nil", err)
	}
	if out.Len() != 0 {
		t.Errorf("layout -o wrote %d bytes to stdout, want 0", out.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile(%s) error = %v, want nil", path, err)
	}
	var doc layoutDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("json.Unmarshal(layout) error = %v, want nil", err)
	}
	if len(doc.Nodes) != 22 {
		t.Errorf("layout -o wrote %d nodes, want 22", len(doc.Nodes))
	}
}

func TestOutputFile_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out")
	for _, cmd := range []string{"layout", "render"} {
		t.Run(cmd, func(t *testing.T) {
			c := New(io.Discard, io.Discard, LogInfo)
			root := c.RootCommand()
			root.SetArgs([]string{cmd, "--seed", "1", "-o", path})
			root.SetErr(io.Discard)
			if err := root.ExecuteContext(context.Background()); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("%s -o %s error = %v, want %v", cmd, path, err, os.ErrNotExist)
			}
		})
	}
}

func TestLayoutCommand_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocksphere.ini")
	if err := os.WriteFile(path, []byte("radius=1"), 0o600); err != nil {
		t.Fatalf("os.WriteFile(...) error = %v, want nil", err)
	}
	c := New(io.Discard, io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"layout", "--config", path})
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Errorf("layout --config %s error = nil, want non-nil", path)
	}
}

func TestRenderCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sphere.svg")
	c := New(io.Discard, io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"render", "--seed", "1", "--width", "600", "--sector", "Finance", "-o", path})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render error = %v, want nil", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile(%s) error = %v, want nil", path, err)
	}
	if got := strings.Count(string(data), "<circle"); got != 4 {
		t.Errorf("render --sector Finance drew %d circles, want 4", got)
	}
}

func TestServeCommand_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(io.Discard, io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"serve", "--seed", "1", "--addr", "127.0.0.1:0"})
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("serve with canceled context error = %v, want %v", err, context.Canceled)
	}
}

// Helpers

// layoutNode mirrors the JSON written for each node.
type layoutNode struct {
	stock.Record
	Position struct {
		X, Y, Z float64
	} `json:"position"`
	Size     float64 `json:"size"`
	Fallback bool    `json:"fallback"`
}

type layoutDoc struct {
	Radius     float64      `json:"radius"`
	Nodes      []layoutNode `json:"nodes"`
	Violations int          `json:"violations"`
}

func mustRunLayout(t *testing.T, args ...string) layoutDoc {
	t.Helper()
	return mustRunLayoutLog(t, io.Discard, args...)
}

func mustRunLayoutLog(t *testing.T, logw io.Writer, args ...string) layoutDoc {
	t.Helper()
	var out bytes.Buffer
	c := New(&out, logw, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"layout"}, args...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout %v error = %v, want nil", args, err)
	}

	var doc layoutDoc
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("json.Unmarshal(layout %v) error = %v, want nil", args, err)
	}
	return doc
}
