package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"$1,234.56", "1234.56"},
		{"1234.56", "1234.56"},
		{" $99 ", "99"},
		{"(45.10)", "-45.10"},
		{"", "0"},
	}
	for _, c := range cases {
		got, err := Currency(c.in)
		require.NoError(t, err, c.in)
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)), "%s => %s", c.in, got)
	}

	_, err := Currency("N/A")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "N/A")
}

func TestInteger(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1,024", 1024},
		{"42", 42},
		{"42.0", 42},
		{"", 0},
	}
	for _, c := range cases {
		got, err := Integer(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := Integer("12.5")
	assert.Error(t, err)
	_, err = Integer("many")
	assert.Error(t, err)
}

func TestPercent(t *testing.T) {
	got, err := Percent("12.5%")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("12.5")))

	got, err = Percent("98")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(98)))

	got, err = Percent("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = Percent("n/a%")
	assert.Error(t, err)
}
