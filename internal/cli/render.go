// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2dChan/stocksphere/internal/render"
	"github.com/2dChan/stocksphere/stock"
)

const defaultWidth = 1500

func (c *CLI) renderCommand() *cobra.Command {
	var (
		src    sourceFlags
		output string
		width  int
		labels bool
		filter stock.Filter
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the layout as an SVG map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), src, filter, output, width, labels)
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "sphere.svg", "output SVG file")
	cmd.Flags().IntVar(&width, "width", defaultWidth, "image width in pixels")
	cmd.Flags().BoolVar(&labels, "labels", true, "draw stock symbols")
	cmd.Flags().StringVar(&filter.Sector, "sector", "", "only draw stocks of this sector")
	cmd.Flags().StringVar((*string)(&filter.MarketCap), "market-cap", "", "only draw stocks of this category")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, src sourceFlags, filter stock.Filter, output string, width int, labels bool) (err error) {
	store, _, err := c.newStore(src)
	if err != nil {
		return err
	}
	store.Load(c.loadRecords(ctx, src))
	points := store.Select(filter.Apply(store.Records()))

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", output, cerr)
		}
	}()

	m := render.Map{Width: width, Radius: store.Engine().Options().SphereRadius, Labels: labels}
	if err := m.Render(f, points); err != nil {
		return fmt.Errorf("render %s: %w", output, err)
	}
	c.Logger.Info("wrote map", "file", output, "stocks", len(points))
	return nil
}
