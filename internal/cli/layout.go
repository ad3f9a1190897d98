// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/2dChan/stocksphere/internal/server"
	"github.com/2dChan/stocksphere/stock"
)

// layoutOutput is the JSON document written by the layout command.
type layoutOutput struct {
	Radius     float64       `json:"radius"`
	Nodes      []server.Node `json:"nodes"`
	Violations int           `json:"violations"`
}

func (c *CLI) layoutCommand() *cobra.Command {
	var (
		src    sourceFlags
		output string
		filter stock.Filter
		report bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute sphere positions and sizes as JSON",
		Long: `Compute sphere positions and sizes as JSON.

The layout is computed once for the full dataset; --sector and --market-cap
only select which nodes are written, so positions do not depend on them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), src, filter, output, report)
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&filter.Sector, "sector", "", "only write stocks of this sector")
	cmd.Flags().StringVar((*string)(&filter.MarketCap), "market-cap", "", `only write stocks of this category ("Small Cap", "Mid Cap", "Large Cap")`)
	cmd.Flags().BoolVar(&report, "report", false, "log the verification report")
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, src sourceFlags, filter stock.Filter, output string, report bool) (err error) {
	store, _, err := c.newStore(src)
	if err != nil {
		return err
	}
	store.Load(c.loadRecords(ctx, src))

	prog := newProgress(c.Logger)
	points := store.Select(filter.Apply(store.Records()))
	rep := store.Report()
	prog.done(fmt.Sprintf("Placed %d stocks", len(store.Records())))

	if report {
		for _, cd := range rep.Centroids {
			c.Logger.Info("sector distance", "a", cd.A, "b", cd.B, "distance", fmt.Sprintf("%.1f", cd.Distance))
		}
		for _, b := range rep.Borders {
			c.Logger.Info("sector border", "a", b.SectorA, "b", b.SectorB, "between", b.A+"/"+b.B,
				"distance", fmt.Sprintf("%.2f", b.Distance))
		}
	}

	doc := layoutOutput{
		Radius:     store.Engine().Options().SphereRadius,
		Nodes:      make([]server.Node, len(points)),
		Violations: len(rep.Violations),
	}
	for i, p := range points {
		doc.Nodes[i] = server.NewNode(p)
	}

	w := c.out
	if output != "" {
		f, ferr := os.Create(output)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", output, cerr)
			}
		}()
		w = f
	}
	if err := writeJSON(w, doc); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	if output != "" {
		c.Logger.Info("wrote layout", "file", output)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
