package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/semvec/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 200, cfg.Dimension)
	assert.Equal(t, vector.TypeReal, cfg.Type())
	assert.Equal(t, 10, cfg.SeedLength)
	assert.Equal(t, 2, cfg.BinaryVectorDecimalPlaces)
	assert.Equal(t, math.MaxInt, cfg.MaxFrequency)
	assert.Equal(t, []string{"contents"}, cfg.ContentsFields)
	assert.Equal(t, "docvectors", cfg.DocVectorsFile)
	assert.Empty(t, cfg.Adjustments())
}

func TestDefaultMatchesSchema(t *testing.T) {
	cfg := Default()
	for _, o := range Schema {
		assert.Equal(t, o.Default, o.Get(cfg), o.Name)
	}
}

func TestParse(t *testing.T) {
	cfg, rest, err := Parse([]string{
		"-dimension", "512", "--vectortype", "Complex", "-contentsfields", "Contents,Title",
		"-minfrequency", "3", "-maxnonalphabetchars", "-1", "-verbose", "docvectors.bin", "index",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"docvectors.bin", "index"}, rest)
	assert.Equal(t, 512, cfg.Dimension)
	assert.Equal(t, vector.TypeComplex, cfg.Type())
	assert.Equal(t, []string{"contents", "title"}, cfg.ContentsFields)
	assert.Equal(t, 3, cfg.MinFrequency)
	assert.Equal(t, -1, cfg.MaxNonAlphabetChars)
	assert.True(t, cfg.Verbose)
}

func TestParse_Alias(t *testing.T) {
	cfg, _, err := Parse([]string{"-luceneindexpath", "/tmp/index"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/index", cfg.IndexPath)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		target error
		option string
	}{
		{"Unknown", []string{"-nosuchflag", "1"}, ErrUnknownOption, "nosuchflag"},
		{"Missing", []string{"-dimension"}, ErrMissingValue, "dimension"},
		{"NotInt", []string{"-dimension", "abc"}, ErrInvalidValue, "dimension"},
		{"NotAllowed", []string{"-vectortype", "quaternion"}, ErrInvalidValue, "vectortype"},
		{"NonPositive", []string{"-dimension", "0"}, ErrInvalidValue, "dimension"},
		{"FrequencyBounds", []string{"-minfrequency", "5", "-maxfrequency", "4"}, ErrInvalidValue, "minfrequency"},
		{"SeedTooLong", []string{"-dimension", "8", "-seedlength", "9"}, ErrInvalidValue, "seedlength"},
		{"Workers", []string{"-workers", "0"}, ErrInvalidValue, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}

func TestValidate_BinaryCoupling(t *testing.T) {
	cfg, _, err := Parse([]string{"-vectortype", "binary", "-dimension", "200"})
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Dimension)
	assert.Equal(t, 128, cfg.SeedLength)
	assert.Len(t, cfg.Adjustments(), 2)

	// A second pass finds nothing to change but keeps the record.
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Adjustments(), 2)
	assert.Contains(t, cfg.Adjustments()[0], "multiple of 64")

	cfg, _, err = Parse([]string{"-vectortype", "binary", "-dimension", "128", "-seedlength", "64"})
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Dimension)
	assert.Equal(t, 64, cfg.SeedLength)
	assert.Empty(t, cfg.Adjustments())
}

func TestParseHeader(t *testing.T) {
	cfg, err := ParseHeader("-vectortype real -dimension 200")
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Dimension)
	assert.Equal(t, vector.TypeReal, cfg.Type())

	cfg, err = ParseHeader(" -dimension\t64\n-vectortype binary ")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Dimension)
	assert.Equal(t, vector.TypeBinary, cfg.Type())

	cfg, err = ParseHeader("-vectortype complex -dimension 4")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.SeedLength)

	_, err = ParseHeader("-bogus 1")
	assert.ErrorIs(t, err, ErrUnknownOption)

	header := Default().Header()
	round, err := ParseHeader(header)
	require.NoError(t, err)
	assert.Equal(t, Default().Dimension, round.Dimension)
}

func TestArgs(t *testing.T) {
	cfg := Default()
	cfg.Dimension = 64
	cfg.Verbose = true

	assert.Equal(t, []string{"-dimension", "64", "-verbose"}, cfg.Args())

	parsed, rest, err := Parse(cfg.Args())
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, 64, parsed.Dimension)
	assert.True(t, parsed.Verbose)
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "semvec.yaml")

	cfg := Default()
	cfg.Dimension = 300
	cfg.VectorType = "complex"
	cfg.ContentsFields = []string{"contents", "title"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300, loaded.Dimension)
	assert.Equal(t, vector.TypeComplex, loaded.Type())
	assert.Equal(t, []string{"contents", "title"}, loaded.ContentsFields)
	assert.Equal(t, "docvectors", loaded.DocVectorsFile)
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semvec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vectortype: Binary\ndimension: 100\ncontentsfields: [Body]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, vector.TypeBinary, cfg.Type())
	assert.Equal(t, 128, cfg.Dimension)
	assert.Equal(t, 64, cfg.SeedLength)
	assert.Equal(t, []string{"body"}, cfg.ContentsFields)
	assert.Equal(t, 2, cfg.BinaryVectorDecimalPlaces)
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Dimension, cfg.Dimension)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semvec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vectortype: quaternion\n"), 0o644))

	_, err := Load(path)
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "vectortype", cfgErr.Option)
}

func TestUsage(t *testing.T) {
	usage := Usage()
	for _, name := range []string{"-dimension", "-seedlength", "-minfrequency", "-maxnonalphabetchars"} {
		assert.True(t, strings.Contains(usage, name), name)
	}
}

func TestFilter(t *testing.T) {
	cfg := Default()
	cfg.MinFrequency = 2
	f := cfg.Filter()
	assert.Equal(t, 2, f.MinFrequency)
	assert.Equal(t, []string{"contents"}, f.Fields)
}
