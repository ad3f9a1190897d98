// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Defaults. Spacing values assume a sphere of DefaultSphereRadius.
const (
	DefaultSphereRadius        = 25.0
	DefaultRandomAttempts      = 100
	DefaultGridAttempts        = 100
	DefaultInterSectorGap      = 8.0
	DefaultPrimaryMinDistance  = 2.5
	DefaultBaseMinDistance     = 1.5
	DefaultDensityFactor       = 0.3
	DefaultJitter              = 1.0
	DefaultPoleMargin          = 0.1
	DefaultRelaxPasses         = 10
	DefaultPushFactor          = 0.5
	DefaultMinCentroidDistance = 15.0
)

var ErrInvalidOption = errors.New("stocksphere: invalid option")

// Rand is the source of all randomness used by the engine.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Float64 returns a number in [0, 1).
	Float64() float64
}

// Options configures an Engine.
type Options struct {
	SphereRadius float64

	RandomAttempts int
	GridAttempts   int

	InterSectorGap     float64
	PrimaryMinDistance float64
	BaseMinDistance    float64
	DensityFactor      float64

	// Jitter is the full width of the uniform angular noise added to every
	// candidate, in radians.
	Jitter     float64
	PoleMargin float64

	RelaxPasses int
	PushFactor  float64

	MinCentroidDistance float64

	Rand   Rand
	Logger *log.Logger
}

func defaultOptions() Options {
	return Options{
		SphereRadius:        DefaultSphereRadius,
		RandomAttempts:      DefaultRandomAttempts,
		GridAttempts:        DefaultGridAttempts,
		InterSectorGap:      DefaultInterSectorGap,
		PrimaryMinDistance:  DefaultPrimaryMinDistance,
		BaseMinDistance:     DefaultBaseMinDistance,
		DensityFactor:       DefaultDensityFactor,
		Jitter:              DefaultJitter,
		PoleMargin:          DefaultPoleMargin,
		RelaxPasses:         DefaultRelaxPasses,
		PushFactor:          DefaultPushFactor,
		MinCentroidDistance: DefaultMinCentroidDistance,
	}
}

// Option sets a field of Options. It returns an error for out-of-range values.
type Option func(*Options) error

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidOption, name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidOption, name, v)
	}
	return nil
}

func WithSphereRadius(r float64) Option {
	return func(o *Options) error {
		if err := positive("sphere radius", r); err != nil {
			return err
		}
		o.SphereRadius = r
		return nil
	}
}

// WithAttempts sets the budgets of the random and grid search phases.
func WithAttempts(random, grid int) Option {
	return func(o *Options) error {
		if random < 0 || grid < 0 {
			return fmt.Errorf("%w: attempts must be non-negative, got %d/%d", ErrInvalidOption, random, grid)
		}
		o.RandomAttempts = random
		o.GridAttempts = grid
		return nil
	}
}

func WithInterSectorGap(gap float64) Option {
	return func(o *Options) error {
		if err := nonNegative("inter-sector gap", gap); err != nil {
			return err
		}
		o.InterSectorGap = gap
		return nil
	}
}

// WithMinDistances sets the base intra-sector gap for the primary sector and for all others.
func WithMinDistances(primary, base float64) Option {
	return func(o *Options) error {
		if err := nonNegative("primary min distance", primary); err != nil {
			return err
		}
		if err := nonNegative("base min distance", base); err != nil {
			return err
		}
		o.PrimaryMinDistance = primary
		o.BaseMinDistance = base
		return nil
	}
}

func WithDensityFactor(f float64) Option {
	return func(o *Options) error {
		if err := nonNegative("density factor", f); err != nil {
			return err
		}
		o.DensityFactor = f
		return nil
	}
}

func WithJitter(j float64) Option {
	return func(o *Options) error {
		if err := nonNegative("jitter", j); err != nil {
			return err
		}
		o.Jitter = j
		return nil
	}
}

// WithPoleMargin sets the minimum polar angle distance kept from either pole.
func WithPoleMargin(m float64) Option {
	return func(o *Options) error {
		if !(m > 0) || m >= math.Pi/2 {
			return fmt.Errorf("%w: pole margin must be in (0 π/2), got %v", ErrInvalidOption, m)
		}
		o.PoleMargin = m
		return nil
	}
}

// WithRelaxation configures the fallback resolver's push passes.
func WithRelaxation(passes int, pushFactor float64) Option {
	return func(o *Options) error {
		if passes < 0 {
			return fmt.Errorf("%w: relax passes must be non-negative, got %d", ErrInvalidOption, passes)
		}
		if err := positive("push factor", pushFactor); err != nil {
			return err
		}
		o.RelaxPasses = passes
		o.PushFactor = pushFactor
		return nil
	}
}

func WithMinCentroidDistance(d float64) Option {
	return func(o *Options) error {
		if err := nonNegative("min centroid distance", d); err != nil {
			return err
		}
		o.MinCentroidDistance = d
		return nil
	}
}

// WithRand sets the random source. Options apply in order, so a later
// WithSeed replaces it.
func WithRand(r Rand) Option {
	return func(o *Options) error {
		if r == nil {
			return fmt.Errorf("%w: nil random source", ErrInvalidOption)
		}
		o.Rand = r
		return nil
	}
}

// WithSeed seeds a math/rand source for reproducible layouts. It replaces
// a random source set by an earlier WithRand.
func WithSeed(seed int64) Option {
	return func(o *Options) error {
		//nolint:gosec
		o.Rand = rand.New(rand.NewSource(seed))
		return nil
	}
}

func WithLogger(l *log.Logger) Option {
	return func(o *Options) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidOption)
		}
		o.Logger = l
		return nil
	}
}

func (o *Options) fillDefaults() {
	if o.Rand == nil {
		//nolint:gosec
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}
