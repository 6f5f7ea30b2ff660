package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTezToMutezString(t *testing.T) {
	cases := map[string]string{
		"1.5":      "1500000",
		"1":        "1000000",
		"0":        "0",
		"":         "0",
		"0.000001": "1",
		".25":      "250000",
		"12.":      "12000000",
		" 3.1 ":    "3100000",
	}
	for in, want := range cases {
		got, err := TezToMutezString(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestTezToMutez_Invalid(t *testing.T) {
	for _, in := range []string{"-1", "1.2.3", "abc", "1.0000001", "1e6"} {
		_, err := TezToMutez(in)
		assert.Error(t, err, in)
	}
}

func TestMutezToTez(t *testing.T) {
	assert.Equal(t, "1.500000", MutezToTez(1500000))
	assert.Equal(t, "0.000001", MutezToTez(1))
	assert.Equal(t, "0.000000", MutezToTez(0))
}

func TestParseMutez(t *testing.T) {
	n, err := ParseMutez("1500000")
	require.NoError(t, err)
	assert.Equal(t, uint64(1500000), n)

	_, err = ParseMutez("1.5")
	assert.Error(t, err)
}
