package light

import (
	crand "math/rand/v2"

	"github.com/flashlight-go/flashlight/dataset"
)

// Defaults shared by the analysis operations.
const (
	// DefaultMaxLevels caps the cardinality of a categorical grid.
	DefaultMaxLevels = 25
	// DefaultBins is the number of equal steps of a continuous grid,
	// yielding DefaultBins+1 grid points.
	DefaultBins = 19
	// DefaultRepetitions is the number of permutation repetitions.
	DefaultRepetitions = 1
)

// OpOption configures a single analysis call. Options that do not apply to
// the called operation are ignored.
type OpOption func(*opConfig)

type opConfig struct {
	update      []Option
	gridPoints  []dataset.Value
	maxLevels   int
	nBins       int
	maxRows     int
	seed        uint64
	seeded      bool
	center      bool
	profileType ProfileType
	variables   []string
	varsSet     bool
	repetitions int
	lower       *bool
}

func newOpConfig(opts []OpOption) opConfig {
	cfg := opConfig{
		maxLevels:   DefaultMaxLevels,
		nBins:       DefaultBins,
		repetitions: DefaultRepetitions,
		profileType: PartialDependence,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithUpdate applies bundle options to each member for the duration of the
// call. Explicit call-time values take precedence over collection defaults
// and the member's own settings.
func WithUpdate(opts ...Option) OpOption {
	return func(c *opConfig) {
		c.update = append(c.update, opts...)
	}
}

// WithGridPoints sets explicit evaluation grid points, overriding automatic
// grid construction.
func WithGridPoints(points ...dataset.Value) OpOption {
	return func(c *opConfig) {
		c.gridPoints = append([]dataset.Value(nil), points...)
	}
}

// WithMaxLevels sets the cardinality cap for categorical grids.
func WithMaxLevels(n int) OpOption {
	return func(c *opConfig) {
		c.maxLevels = n
	}
}

// WithBins sets the number of equal steps for continuous grids; the grid
// has n+1 points.
func WithBins(n int) OpOption {
	return func(c *opConfig) {
		c.nBins = n
	}
}

// WithMaxRows caps the number of rows considered by ICE and Importance.
// When the data exceeds the cap, rows are sampled uniformly at random, once
// per bundle, so every variable and grid point sees the same subset.
func WithMaxRows(n int) OpOption {
	return func(c *opConfig) {
		c.maxRows = n
	}
}

// WithSeed fixes the random seed for subsampling and permutation,
// making a run reproducible.
func WithSeed(seed uint64) OpOption {
	return func(c *opConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// WithCenter centers ICE profiles by subtracting, from each observation's
// trace, its own prediction at the first grid point.
func WithCenter(center bool) OpOption {
	return func(c *opConfig) {
		c.center = center
	}
}

// WithProfileType selects what Profile aggregates per grid point.
func WithProfileType(t ProfileType) OpOption {
	return func(c *opConfig) {
		c.profileType = t
	}
}

// WithVariables sets the candidate variables of an Importance call. The
// default is every column except response, weight and grouping columns.
// An empty list yields an empty result table.
func WithVariables(names ...string) OpOption {
	return func(c *opConfig) {
		c.variables = append([]string(nil), names...)
		c.varsSet = true
	}
}

// WithRepetitions sets the number of permutation repetitions averaged per
// importance value.
func WithRepetitions(n int) OpOption {
	return func(c *opConfig) {
		c.repetitions = n
	}
}

// WithLowerIsBetter overrides the improvement direction of every metric for
// the duration of an Importance call.
func WithLowerIsBetter(lower bool) OpOption {
	return func(c *opConfig) {
		c.lower = &lower
	}
}

// rng returns a seeded source when WithSeed was given, otherwise a source
// drawing fresh randomness.
func (c opConfig) rng() *crand.Rand {
	seed := c.seed
	if !c.seeded {
		seed = crand.Uint64()
	}
	return crand.New(crand.NewPCG(seed, seed))
}
