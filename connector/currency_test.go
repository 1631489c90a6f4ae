package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCurrency(t *testing.T) {
	usd, ok := FindCurrency("USD")
	require.True(t, ok)
	assert.Equal(t, "USD", usd.Code())
	assert.Equal(t, "840", usd.Numeric())
	assert.Equal(t, 2, usd.Decimals())

	vnd, ok := FindCurrency("vnd")
	require.True(t, ok, "lookup must be case insensitive")
	assert.Equal(t, "VND", vnd.Code())
	assert.Equal(t, "704", vnd.Numeric())
	assert.Equal(t, 0, vnd.Decimals())

	jpy, ok := FindCurrency("JPY")
	require.True(t, ok)
	assert.Equal(t, 0, jpy.Decimals())

	_, ok = FindCurrency("XXX")
	assert.False(t, ok)
}

func TestCurrenciesTable(t *testing.T) {
	all := Currencies()
	assert.NotEmpty(t, all)

	seen := map[string]bool{}
	for _, c := range all {
		assert.Len(t, c.Code(), 3)
		assert.False(t, seen[c.Code()], "duplicate code %s", c.Code())
		seen[c.Code()] = true
	}
	assert.True(t, seen["EUR"])
	assert.True(t, seen["GBP"])
}
