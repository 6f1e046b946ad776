package broker

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, errNegativeAmount)

	b, err := New(decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, b.Cash().Equal(decimal.NewFromInt(1000)))
	assert.True(t, b.StartCash().Equal(decimal.NewFromInt(1000)))
}

func TestCredit(t *testing.T) {
	t.Parallel()
	b, err := New(decimal.Zero)
	require.NoError(t, err)
	assert.ErrorIs(t, b.Credit(decimal.NewFromInt(-5)), errNegativeAmount)
	require.NoError(t, b.Credit(decimal.NewFromFloat(12.5)))
	require.NoError(t, b.Credit(decimal.Zero))
	assert.True(t, b.Cash().Equal(decimal.NewFromFloat(12.5)))
	assert.True(t, b.StartCash().IsZero())
}

func TestDebit(t *testing.T) {
	t.Parallel()
	b, err := New(decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.ErrorIs(t, b.Debit(decimal.NewFromInt(-1)), errNegativeAmount)
	assert.ErrorIs(t, b.Debit(decimal.NewFromFloat(100.01)), ErrInsufficientFunds)
	assert.True(t, b.Cash().Equal(decimal.NewFromInt(100)), "failed debit must not change cash")

	require.NoError(t, b.Debit(decimal.NewFromInt(40)))
	require.NoError(t, b.Debit(decimal.NewFromInt(60)))
	assert.True(t, b.Cash().IsZero())
	assert.ErrorIs(t, b.Debit(decimal.NewFromFloat(0.01)), ErrInsufficientFunds)
}
