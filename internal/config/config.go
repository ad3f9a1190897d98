// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package config loads layout and server settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/2dChan/stocksphere"
	"github.com/2dChan/stocksphere/region"
)

var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Config holds all stocksphere settings. Angles are in degrees.
type Config struct {
	Sphere   SphereConfig   `yaml:"sphere" toml:"sphere"`
	Search   SearchConfig   `yaml:"search" toml:"search"`
	Spacing  SpacingConfig  `yaml:"spacing" toml:"spacing"`
	Fallback FallbackConfig `yaml:"fallback" toml:"fallback"`
	Verify   VerifyConfig   `yaml:"verify" toml:"verify"`
	Regions  []RegionConfig `yaml:"regions" toml:"regions"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
}

type SphereConfig struct {
	Radius float64 `yaml:"radius" toml:"radius"`
	// Seed makes layouts reproducible. Zero means seeded from the clock.
	Seed int64 `yaml:"seed" toml:"seed"`
}

type SearchConfig struct {
	RandomAttempts int     `yaml:"random_attempts" toml:"random_attempts"`
	GridAttempts   int     `yaml:"grid_attempts" toml:"grid_attempts"`
	JitterDeg      float64 `yaml:"jitter_deg" toml:"jitter_deg"`
	PoleMarginDeg  float64 `yaml:"pole_margin_deg" toml:"pole_margin_deg"`
}

type SpacingConfig struct {
	InterSectorGap     float64 `yaml:"inter_sector_gap" toml:"inter_sector_gap"`
	PrimaryMinDistance float64 `yaml:"primary_min_distance" toml:"primary_min_distance"`
	BaseMinDistance    float64 `yaml:"base_min_distance" toml:"base_min_distance"`
	DensityFactor      float64 `yaml:"density_factor" toml:"density_factor"`
}

type FallbackConfig struct {
	RelaxPasses int     `yaml:"relax_passes" toml:"relax_passes"`
	PushFactor  float64 `yaml:"push_factor" toml:"push_factor"`
}

type VerifyConfig struct {
	MinCentroidDistance float64 `yaml:"min_centroid_distance" toml:"min_centroid_distance"`
}

type RegionConfig struct {
	Name          string  `yaml:"name" toml:"name"`
	ThetaDeg      float64 `yaml:"theta_deg" toml:"theta_deg"`
	PhiDeg        float64 `yaml:"phi_deg" toml:"phi_deg"`
	ThetaRangeDeg float64 `yaml:"theta_range_deg" toml:"theta_range_deg"`
	PhiRangeDeg   float64 `yaml:"phi_range_deg" toml:"phi_range_deg"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr" toml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`
}

func deg(v float64) float64 { return v * math.Pi / 180 }
func toDeg(v float64) float64 { return v * 180 / math.Pi }

// Default returns the built-in configuration.
func Default() *Config {
	def := region.Default()
	regions := make([]RegionConfig, len(def))
	for i, r := range def {
		regions[i] = RegionConfig{
			Name:          r.Name,
			ThetaDeg:      toDeg(r.Theta),
			PhiDeg:        toDeg(r.Phi),
			ThetaRangeDeg: toDeg(r.ThetaRange),
			PhiRangeDeg:   toDeg(r.PhiRange),
		}
	}
	return &Config{
		Sphere: SphereConfig{Radius: stocksphere.DefaultSphereRadius},
		Search: SearchConfig{
			RandomAttempts: stocksphere.DefaultRandomAttempts,
			GridAttempts:   stocksphere.DefaultGridAttempts,
			JitterDeg:      toDeg(stocksphere.DefaultJitter),
			PoleMarginDeg:  toDeg(stocksphere.DefaultPoleMargin),
		},
		Spacing: SpacingConfig{
			InterSectorGap:     stocksphere.DefaultInterSectorGap,
			PrimaryMinDistance: stocksphere.DefaultPrimaryMinDistance,
			BaseMinDistance:    stocksphere.DefaultBaseMinDistance,
			DensityFactor:      stocksphere.DefaultDensityFactor,
		},
		Fallback: FallbackConfig{
			RelaxPasses: stocksphere.DefaultRelaxPasses,
			PushFactor:  stocksphere.DefaultPushFactor,
		},
		Verify:  VerifyConfig{MinCentroidDistance: stocksphere.DefaultMinCentroidDistance},
		Regions: regions,
		Server: ServerConfig{
			Addr:           ":4000",
			AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"},
		},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .yaml/.yml or .toml. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Table converts the configured regions.
func (c *Config) Table() (region.Table, error) {
	regions := make([]region.Region, len(c.Regions))
	for i, r := range c.Regions {
		regions[i] = region.Region{
			Name:       r.Name,
			Theta:      deg(r.ThetaDeg),
			Phi:        deg(r.PhiDeg),
			ThetaRange: deg(r.ThetaRangeDeg),
			PhiRange:   deg(r.PhiRangeDeg),
		}
	}
	return region.NewTable(regions...)
}

// EngineOptions converts the layout settings into engine options.
func (c *Config) EngineOptions() []stocksphere.Option {
	opts := []stocksphere.Option{
		stocksphere.WithSphereRadius(c.Sphere.Radius),
		stocksphere.WithAttempts(c.Search.RandomAttempts, c.Search.GridAttempts),
		stocksphere.WithJitter(deg(c.Search.JitterDeg)),
		stocksphere.WithPoleMargin(deg(c.Search.PoleMarginDeg)),
		stocksphere.WithInterSectorGap(c.Spacing.InterSectorGap),
		stocksphere.WithMinDistances(c.Spacing.PrimaryMinDistance, c.Spacing.BaseMinDistance),
		stocksphere.WithDensityFactor(c.Spacing.DensityFactor),
		stocksphere.WithRelaxation(c.Fallback.RelaxPasses, c.Fallback.PushFactor),
		stocksphere.WithMinCentroidDistance(c.Verify.MinCentroidDistance),
	}
	if c.Sphere.Seed != 0 {
		opts = append(opts, stocksphere.WithSeed(c.Sphere.Seed))
	}
	return opts
}
