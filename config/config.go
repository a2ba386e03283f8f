package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/semvec/vector"
	"github.com/hupe1980/semvec/vocabulary"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a term-vector build.
type Config struct {
	Dimension                 int      `yaml:"dimension"`
	VectorType                string   `yaml:"vectortype"`
	SeedLength                int      `yaml:"seedlength"`
	BinaryVectorDecimalPlaces int      `yaml:"binaryvectordecimalplaces"`
	MinFrequency              int      `yaml:"minfrequency"`
	MaxFrequency              int      `yaml:"maxfrequency"`
	MaxNonAlphabetChars       int      `yaml:"maxnonalphabetchars"`
	ContentsFields            []string `yaml:"contentsfields"`
	DocVectorsFile            string   `yaml:"docvectorsfile"`
	TermVectorsFile           string   `yaml:"termvectorsfile"`
	IndexPath                 string   `yaml:"indexpath"`
	Compression               string   `yaml:"compression"`
	Workers                   int      `yaml:"workers"`
	Verbose                   bool     `yaml:"verbose"`

	adjustments []string
}

// Default returns a configuration with every option at its default.
func Default() *Config {
	return &Config{
		Dimension:                 200,
		VectorType:                "real",
		SeedLength:                10,
		BinaryVectorDecimalPlaces: vector.DefaultDecimalPlaces,
		MinFrequency:              0,
		MaxFrequency:              math.MaxInt,
		MaxNonAlphabetChars:       math.MaxInt,
		ContentsFields:            []string{"contents"},
		DocVectorsFile:            "docvectors",
		TermVectorsFile:           "incremental_termvectors",
		Compression:               "none",
		Workers:                   1,
	}
}

// Parse applies leading command line flags to a default configuration and
// returns it with the remaining arguments. Flags take the form -name value
// or --name value; boolean flags take no value. Parsing stops at the first
// argument that does not start with '-'. The result is validated.
func Parse(args []string) (*Config, []string, error) {
	cfg := Default()
	rest, err := cfg.Apply(args)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

// ParseHeader parses the flag string stored at the start of a vector stream.
// Headers usually name only the vector type and dimension, so a default
// seed length longer than the dimension is shortened instead of rejected.
func ParseHeader(header string) (*Config, error) {
	cfg := Default()
	if _, err := cfg.Apply(strings.Fields(header)); err != nil {
		return nil, err
	}
	if cfg.Dimension > 0 && cfg.SeedLength > cfg.Dimension {
		cfg.SeedLength = cfg.Dimension
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply applies leading flags in args to c and returns the remaining
// arguments. It does not validate.
func (c *Config) Apply(args []string) ([]string, error) {
	i := 0
	for i < len(args) && strings.HasPrefix(args[i], "-") {
		name := strings.TrimLeft(args[i], "-")
		if name == "" {
			i++
			continue
		}
		opt, ok := Lookup(name)
		if !ok {
			return nil, &Error{Option: name, Err: ErrUnknownOption}
		}
		if opt.Kind == KindBool {
			if err := opt.Set(c, "true"); err != nil {
				return nil, err
			}
			i++
			continue
		}
		if i+1 >= len(args) {
			return nil, &Error{Option: opt.Name, Err: ErrMissingValue}
		}
		if err := opt.Set(c, args[i+1]); err != nil {
			return nil, err
		}
		i += 2
	}
	return args[i:], nil
}

// Validate checks the configuration and makes dependent settings
// compatible: binary vectors need a dimension that is a multiple of 64 and
// a seed length of half the dimension. Changes made are reported by
// Adjustments.
func (c *Config) Validate() error {
	if _, err := vector.ParseType(c.VectorType); err != nil {
		return invalid("vectortype", c.VectorType, "valid values are binary, real, complex")
	}
	if c.Dimension <= 0 {
		return invalid("dimension", fmt.Sprint(c.Dimension), "must be positive")
	}
	if c.BinaryVectorDecimalPlaces < 0 {
		return invalid("binaryvectordecimalplaces", fmt.Sprint(c.BinaryVectorDecimalPlaces), "must not be negative")
	}
	if c.MinFrequency > c.MaxFrequency {
		return invalid("minfrequency", fmt.Sprint(c.MinFrequency), "exceeds maxfrequency %d", c.MaxFrequency)
	}
	if len(c.ContentsFields) == 0 {
		return &Error{Option: "contentsfields", Err: ErrMissingValue}
	}
	if c.DocVectorsFile == "" {
		return &Error{Option: "docvectorsfile", Err: ErrMissingValue}
	}
	switch c.Compression {
	case "", "none", "zstd", "lz4":
	default:
		return invalid("compression", c.Compression, "valid values are none, zstd, lz4")
	}
	if c.Workers < 1 {
		return invalid("workers", fmt.Sprint(c.Workers), "must be at least 1")
	}

	c.makeCompatible()

	if c.SeedLength < 0 || c.SeedLength > c.Dimension {
		return invalid("seedlength", fmt.Sprint(c.SeedLength), "must be within [0, dimension %d]", c.Dimension)
	}
	return nil
}

func (c *Config) makeCompatible() {
	if strings.ToLower(c.VectorType) != "binary" {
		return
	}
	if c.Dimension%64 != 0 {
		c.Dimension = (1 + c.Dimension/64) * 64
		c.adjustments = append(c.adjustments,
			fmt.Sprintf("dimension of binary vectors must be a multiple of 64, set to %d", c.Dimension))
	}
	if c.SeedLength != c.Dimension/2 {
		c.SeedLength = c.Dimension / 2
		c.adjustments = append(c.adjustments,
			fmt.Sprintf("binary vectors must be balanced, seedlength set to %d", c.SeedLength))
	}
}

// Adjustments returns every change Validate has made to the configuration.
// Validating again keeps the list.
func (c *Config) Adjustments() []string { return c.adjustments }

// Type returns the configured vector type. It must only be called on a
// validated configuration.
func (c *Config) Type() vector.Type {
	t, _ := vector.ParseType(c.VectorType)
	return t
}

// VectorOptions returns the options for creating vectors of this configuration.
func (c *Config) VectorOptions() []vector.Option {
	return []vector.Option{vector.WithDecimalPlaces(c.BinaryVectorDecimalPlaces)}
}

// Filter returns the vocabulary filter described by the configuration.
func (c *Config) Filter() vocabulary.Filter {
	return vocabulary.Filter{
		Fields:              c.ContentsFields,
		MinFrequency:        c.MinFrequency,
		MaxFrequency:        c.MaxFrequency,
		MaxNonAlphabetChars: c.MaxNonAlphabetChars,
	}
}

// Header renders the flag string written at the start of vector streams
// produced with this configuration.
func (c *Config) Header() string {
	return fmt.Sprintf("-vectortype %s -dimension %d", strings.ToLower(c.VectorType), c.Dimension)
}

// Args renders every option that differs from its default as flags.
func (c *Config) Args() []string {
	def := Default()
	var args []string
	for _, o := range Schema {
		v := o.Get(c)
		if v == o.Get(def) {
			continue
		}
		if o.Kind == KindBool {
			args = append(args, "-"+o.Name)
			continue
		}
		args = append(args, "-"+o.Name, v)
	}
	return args
}

// Load reads a YAML configuration file. Missing options keep their defaults.
// If the file does not exist, the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	for i, f := range cfg.ContentsFields {
		cfg.ContentsFields[i] = strings.ToLower(f)
	}
	cfg.VectorType = strings.ToLower(cfg.VectorType)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Usage renders the option list for command line help.
func Usage() string {
	var b strings.Builder
	for _, o := range Schema {
		fmt.Fprintf(&b, "  -%s", o.Name)
		if o.Kind != KindBool {
			fmt.Fprintf(&b, " <%s>", o.Kind)
		}
		fmt.Fprintf(&b, "\n        %s", o.Description)
		if len(o.Values) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(o.Values, "|"))
		}
		if o.Default != "" && o.Kind != KindBool {
			fmt.Fprintf(&b, " (default %s)", o.Default)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
