// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/2dChan/stocksphere/internal/server"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var (
		src  sourceFlags
		addr string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stocks and their layout over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), src, addr)
		},
	}
	src.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, :4000)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, src sourceFlags, addr string) error {
	store, cfg, err := c.newStore(src)
	if err != nil {
		return err
	}
	store.Load(c.loadRecords(ctx, src))
	if addr == "" {
		addr = cfg.Server.Addr
	}

	prog := newProgress(c.Logger)
	store.Points()
	prog.done("Computed layout")

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(store, c.Logger, cfg.Server.AllowedOrigins).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "stocks", len(store.Records()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		c.Logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
