package config

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind is the value kind of an option.
type Kind int

const (
	KindInt Kind = iota
	KindString
	KindStringList
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindStringList:
		return "list"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Option describes one configuration setting.
type Option struct {
	Name        string
	Aliases     []string
	Kind        Kind
	Default     string
	Values      []string // allowed values, empty means any
	Description string

	set func(c *Config, value string) error
	get func(c *Config) string
}

// Schema lists every option in the order it is documented.
var Schema = []*Option{
	{
		Name: "dimension", Kind: KindInt, Default: "200",
		Description: "Dimension of semantic vector space",
		set:         intSetter("dimension", func(c *Config) *int { return &c.Dimension }),
		get:         func(c *Config) string { return strconv.Itoa(c.Dimension) },
	},
	{
		Name: "vectortype", Kind: KindString, Default: "real",
		Values:      []string{"binary", "real", "complex"},
		Description: "Ground field for vectors: real, binary or complex",
		set:         func(c *Config, v string) error { c.VectorType = v; return nil },
		get:         func(c *Config) string { return c.VectorType },
	},
	{
		Name: "seedlength", Kind: KindInt, Default: "10",
		Description: "Number of +1 and number of -1 entries in a sparse random vector",
		set:         intSetter("seedlength", func(c *Config) *int { return &c.SeedLength }),
		get:         func(c *Config) string { return strconv.Itoa(c.SeedLength) },
	},
	{
		Name: "binaryvectordecimalplaces", Kind: KindInt, Default: "2",
		Description: "Number of decimal places kept in weighted superpositions of binary vectors",
		set:         intSetter("binaryvectordecimalplaces", func(c *Config) *int { return &c.BinaryVectorDecimalPlaces }),
		get:         func(c *Config) string { return strconv.Itoa(c.BinaryVectorDecimalPlaces) },
	},
	{
		Name: "minfrequency", Kind: KindInt, Default: "0",
		Description: "Minimum aggregate frequency of a term",
		set:         intSetter("minfrequency", func(c *Config) *int { return &c.MinFrequency }),
		get:         func(c *Config) string { return strconv.Itoa(c.MinFrequency) },
	},
	{
		Name: "maxfrequency", Kind: KindInt, Default: strconv.Itoa(math.MaxInt),
		Description: "Maximum aggregate frequency of a term",
		set:         intSetter("maxfrequency", func(c *Config) *int { return &c.MaxFrequency }),
		get:         func(c *Config) string { return strconv.Itoa(c.MaxFrequency) },
	},
	{
		Name: "maxnonalphabetchars", Kind: KindInt, Default: strconv.Itoa(math.MaxInt),
		Description: "Maximum number of non-alphabet characters in a term (-1 for any number)",
		set:         intSetter("maxnonalphabetchars", func(c *Config) *int { return &c.MaxNonAlphabetChars }),
		get:         func(c *Config) string { return strconv.Itoa(c.MaxNonAlphabetChars) },
	},
	{
		Name: "contentsfields", Kind: KindStringList, Default: "contents",
		Description: "Comma separated index fields whose terms receive vectors",
		set: func(c *Config, v string) error {
			c.ContentsFields = splitList(v)
			return nil
		},
		get: func(c *Config) string { return strings.Join(c.ContentsFields, ",") },
	},
	{
		Name: "docvectorsfile", Kind: KindString, Default: "docvectors",
		Description: "Document vector stream to read",
		set:         func(c *Config, v string) error { c.DocVectorsFile = v; return nil },
		get:         func(c *Config) string { return c.DocVectorsFile },
	},
	{
		Name: "termvectorsfile", Kind: KindString, Default: "incremental_termvectors",
		Description: "Term vector output to write",
		set:         func(c *Config, v string) error { c.TermVectorsFile = v; return nil },
		get:         func(c *Config) string { return c.TermVectorsFile },
	},
	{
		Name: "indexpath", Aliases: []string{"luceneindexpath"}, Kind: KindString, Default: "",
		Description: "Path of the term-frequency index",
		set:         func(c *Config, v string) error { c.IndexPath = v; return nil },
		get:         func(c *Config) string { return c.IndexPath },
	},
	{
		Name: "compression", Kind: KindString, Default: "none",
		Values:      []string{"none", "zstd", "lz4"},
		Description: "Compression of written vector streams",
		set:         func(c *Config, v string) error { c.Compression = v; return nil },
		get:         func(c *Config) string { return c.Compression },
	},
	{
		Name: "workers", Kind: KindInt, Default: "1",
		Description: "Number of term shards accumulated in parallel",
		set:         intSetter("workers", func(c *Config) *int { return &c.Workers }),
		get:         func(c *Config) string { return strconv.Itoa(c.Workers) },
	},
	{
		Name: "verbose", Kind: KindBool, Default: "false",
		Description: "Log debug output",
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return invalid("verbose", v, "not a boolean")
			}
			c.Verbose = b
			return nil
		},
		get: func(c *Config) string { return strconv.FormatBool(c.Verbose) },
	},
}

// Lookup returns the option named name or one of its aliases.
func Lookup(name string) (*Option, bool) {
	name = strings.ToLower(name)
	for _, o := range Schema {
		if o.Name == name || slices.Contains(o.Aliases, name) {
			return o, true
		}
	}
	return nil, false
}

// Set parses value and assigns it to the option in c. Values outside the
// allowed set are rejected.
func (o *Option) Set(c *Config, value string) error {
	if len(o.Values) > 0 {
		value = strings.ToLower(value)
	}
	if len(o.Values) > 0 && !slices.Contains(o.Values, value) {
		return invalid(o.Name, value, "valid values are %s", strings.Join(o.Values, ", "))
	}
	return o.set(c, value)
}

// Get renders the current value of the option in c.
func (o *Option) Get(c *Config) string { return o.get(c) }

func intSetter(name string, field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalid(name, v, "not an integer")
		}
		*field(c) = n
		return nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(strings.ToLower(v), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
