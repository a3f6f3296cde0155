package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDollars(t *testing.T) {
	tests := map[string]int64{
		"12":        1200,
		"12.5":      1250,
		"$1,234.56": 123456,
		"0.005":     1,
		"0":         0,
	}
	for in, want := range tests {
		got, err := parseDollars(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "lots", "-5"} {
		_, err := parseDollars(bad)
		require.Error(t, err, bad)
	}
}

func TestFormatCents(t *testing.T) {
	require.Equal(t, "$0.00", formatCents(0))
	require.Equal(t, "$12.05", formatCents(1205))
	require.Equal(t, "$1,234,567.89", formatCents(123456789))
	require.Equal(t, "-$1,000.00", formatCents(-100000))
}

func TestQuantityArg(t *testing.T) {
	q, err := quantityArg([]string{"x"}, 1)
	require.NoError(t, err)
	require.Equal(t, 1.0, q)

	q, err = quantityArg([]string{"x", "2.5"}, 1)
	require.NoError(t, err)
	require.Equal(t, 2.5, q)

	_, err = quantityArg([]string{"x", "0"}, 1)
	require.Error(t, err)
}
