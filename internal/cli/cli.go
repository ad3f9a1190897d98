// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package cli implements the stocksphere command-line interface.
//
// # Commands
//
//   - layout: compute positions and sizes and write them as JSON
//   - serve: serve records and the layout over HTTP
//   - render: draw the layout as an SVG map
//
// All commands read records from --input (JSON file) or --url and fall back
// to the built-in sample dataset when neither is usable. Layout settings come
// from --config (YAML or TOML); --seed overrides the configured seed.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/2dChan/stocksphere"
	"github.com/2dChan/stocksphere/internal/config"
)

const appName = "stocksphere"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer
}

// New creates a CLI logging to logw and writing command output to out.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(logw, level), out: out}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// sourceFlags are shared by every command that needs records and an engine.
type sourceFlags struct {
	input  string
	url    string
	config string
	seed   int64
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "records JSON file")
	cmd.Flags().StringVar(&f.url, "url", "", "records endpoint, e.g. http://localhost:4000/stocks")
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "config file (.yaml, .yml or .toml)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed (0: from config or clock)")
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stocksphere lays out stocks on a sphere, clustered by sector",
		SilenceUsage: true,
	}
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	return root
}

// newStore loads config and builds the engine and store. It does not compute the layout.
func (c *CLI) newStore(f sourceFlags) (*stocksphere.Store, *config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, nil, err
	}
	if f.seed != 0 {
		cfg.Sphere.Seed = f.seed
	}
	table, err := cfg.Table()
	if err != nil {
		return nil, nil, fmt.Errorf("regions: %w", err)
	}
	opts := append(cfg.EngineOptions(), stocksphere.WithLogger(c.Logger))
	engine, err := stocksphere.NewEngine(table, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize engine: %w", err)
	}
	return stocksphere.NewStore(engine), cfg, nil
}
