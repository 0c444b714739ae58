package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseSize(t *testing.T) {
	cases := map[string]Size{
		"0":        0,
		"1024":     1024,
		"24B":      24,
		"4K":       4 << 10,
		"4KB":      4 << 10,
		"4KiB":     4 << 10,
		"1MiB":     1 << 20,
		"3 MiB":    3 << 20,
		" 2M ":     2 << 20,
		"1GiB":     1 << 30,
		"-1":       -1,
		"1048552":  1048552,
		"1048552B": 1048552,
	}
	for in, want := range cases {
		got, err := ParseSize(in)
		require.NoError(t, err, "ParseSize(%q)", in)
		assert.Equal(t, want, got, "ParseSize(%q)", in)
	}
}

func TestParseSize_Invalid(t *testing.T) {
	for _, in := range []string{"", "MiB", "1.5MiB", "ten", "1TiB", "99999999999G"} {
		_, err := ParseSize(in)
		require.Error(t, err, "ParseSize(%q)", in)
	}
}

func TestSize_String(t *testing.T) {
	assert.Equal(t, "3MiB", Size(3<<20).String())
	assert.Equal(t, "2GiB", Size(2<<30).String())
	assert.Equal(t, "1KiB", Size(1024).String())
	assert.Equal(t, "1048552B", Size(1048552).String())
	assert.Equal(t, "0B", Size(0).String())
}

func TestSize_UnmarshalYAML(t *testing.T) {
	var v struct {
		A Size   `yaml:"a"`
		B Size   `yaml:"b"`
		C []Size `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 2MiB\nb: 100\nc: [1K, 2K]\n"), &v))
	assert.Equal(t, Size(2<<20), v.A)
	assert.Equal(t, Size(100), v.B)
	assert.Equal(t, []Size{1024, 2048}, v.C)

	err := yaml.Unmarshal([]byte("a: [1, 2]\n"), &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scalar")
}
