package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesCurrency(t *testing.T) {
	m, err := New(9500, "eur")
	require.NoError(t, err)
	assert.Equal(t, Money{Amount: 9500, Currency: "EUR"}, m)

	_, err = New(100, "euro")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestAddRequiresMatchingCurrency(t *testing.T) {
	sum, err := Must(9500, "EUR").Add(Must(7200, "EUR"))
	require.NoError(t, err)
	assert.Equal(t, int64(16700), sum.Amount)

	_, err = Must(100, "EUR").Add(Must(100, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMultiply(t *testing.T) {
	assert.Equal(t, int64(28500), Must(9500, "EUR").Multiply(3).Amount)
	assert.True(t, Must(0, "EUR").IsZero())
}
