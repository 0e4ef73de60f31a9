package Bench

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is returned by LoadConfig and New for out of range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config of an experiment run.
type Config struct {
	// Coordinates are drawn from [1,CoordMax].
	CoordMax uint32 `yaml:"coord_max"`
	// Repeat is the number of queries timed per measurement.
	Repeat int   `yaml:"repeat"`
	Seed   int64 `yaml:"seed"`
	// DataLengths are the point counts of the length sweeps.
	DataLengths []uint32 `yaml:"data_lengths"`
	// QueryRanges are query sides as fractions of the coordinate range for the range sweep, each
	// in [0,1].
	QueryRanges []float64 `yaml:"query_ranges"`
	// QueryRange is the query side fraction used by the length sweeps, in [0,1].
	QueryRange float64 `yaml:"query_range"`
	Workers    int     `yaml:"workers"`
	// Kinds of index to measure, see Kinds.
	Kinds []string `yaml:"kinds"`
}

var DefaultConfig = Config{
	CoordMax:    1000000,
	Repeat:      100,
	Seed:        0,
	DataLengths: []uint32{1000, 10000, 100000},
	QueryRanges: []float64{0.01, 0.05, 0.1, 0.2},
	QueryRange:  0.05,
	Workers:     4,
	Kinds:       []string{KindOrgNaive, KindOrgSmart, KindFc},
}

// LoadConfig from a yaml file. Fields missing from the file keep their defaults, and a missing
// file gives DefaultConfig.
func LoadConfig(filename string) (*Config, error) {
	c := DefaultConfig
	b, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, c.validate()
}

// Save the config as yaml.
func (c *Config) Save(filename string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}

func (c *Config) validate() error {
	switch {
	case c.CoordMax == 0:
		return fmt.Errorf("%w: coord_max must be positive", ErrInvalidConfig)
	case c.Repeat < 0:
		return fmt.Errorf("%w: repeat=%d", ErrInvalidConfig, c.Repeat)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers=%d", ErrInvalidConfig, c.Workers)
	case !validFrac(c.QueryRange):
		return fmt.Errorf("%w: query_range=%v", ErrInvalidConfig, c.QueryRange)
	}
	for _, f := range c.QueryRanges {
		if !validFrac(f) {
			return fmt.Errorf("%w: query_ranges has %v", ErrInvalidConfig, f)
		}
	}
	for _, k := range c.Kinds {
		if _, err := NewIndex(k); err != nil {
			return err
		}
	}
	return nil
}

func validFrac(f float64) bool {
	return 0 <= f && f <= 1
}
