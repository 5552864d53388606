package bank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"500", 50000},
		{"500.00", 50000},
		{"500.5", 50050},
		{"500.55", 50055},
		{"0.01", 1},
		{"-3.00", -300},
		{" 7.25 ", 725},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseAmountRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", ".", "1.", ".5", "1.234", "abc", "1,50", "1.2.3", "-"} {
		_, err := ParseAmount(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseAmountRejectsOverflow(t *testing.T) {
	// Values whose minor-unit representation exceeds int64 must fail, not
	// wrap around into a positive garbage amount.
	for _, in := range []string{
		"200000000000000000",
		"9223372036854775807",
		"92233720368547758.08",
		"99999999999999999999.99",
	} {
		_, err := ParseAmount(in)
		assert.Error(t, err, "input %q", in)
	}

	// The largest representable amount still parses.
	got, err := ParseAmount("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "500.00", FormatAmount(50000))
	assert.Equal(t, "0.01", FormatAmount(1))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "-3.50", FormatAmount(-350))
	// Exact above float64's 2^53 integer range.
	assert.Equal(t, "92233720368547758.07", FormatAmount(math.MaxInt64))
}

func TestParseFormatRoundTrip(t *testing.T) {
	got, err := ParseAmount(FormatAmount(123456))
	require.NoError(t, err)
	assert.Equal(t, int64(123456), got)
}
