// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/2dChan/stocksphere/stock"
	"github.com/2dChan/stocksphere/utils"
)

const fetchTimeout = 10 * time.Second

// loadRecords reads records from the file or URL in f. Any failure falls back
// to the sample dataset so that there is always something to lay out.
func (c *CLI) loadRecords(ctx context.Context, f sourceFlags) []stock.Record {
	var (
		recs []stock.Record
		err  error
		src  string
	)
	switch {
	case f.input != "":
		src = f.input
		recs, err = readRecordsFile(f.input)
	case f.url != "":
		src = f.url
		recs, err = fetchRecords(ctx, f.url)
	default:
		c.Logger.Info("no input given, using sample data")
		return utils.DummyRecords()
	}
	switch {
	case errors.Is(err, stock.ErrInvalidMarketCap) && len(recs) > 0:
		c.Logger.Warn("unparseable market caps classified as Small Cap", "source", src, "err", err)
	case err != nil:
		c.Logger.Warn("falling back to sample data", "source", src, "err", err)
		return utils.DummyRecords()
	}
	c.Logger.Info("loaded stocks", "source", src, "count", len(recs))
	return recs
}

func readRecordsFile(path string) ([]stock.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return stock.LoadJSON(f)
}

func fetchRecords(ctx context.Context, url string) ([]stock.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return stock.LoadJSON(resp.Body)
}
