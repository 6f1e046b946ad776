package kline

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func candle(offset time.Duration, c float64) Candle {
	return Candle{
		Time:  start.Add(offset),
		Open:  NewPrice(c),
		High:  NewPrice(c + 1),
		Low:   NewPrice(c - 1),
		Close: NewPrice(c),
	}
}

func TestParseField(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in  string
		out Field
	}{
		{"open", Open}, {"HIGH", High}, {" low ", Low}, {"close", Close}, {"", Close},
	} {
		f, err := ParseField(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.out, f)
	}
	_, err := ParseField("vwap")
	assert.ErrorIs(t, err, ErrUnsupportedField)
	assert.Equal(t, "unset", UnsetField.String())
}

func TestFieldJSON(t *testing.T) {
	t.Parallel()
	type holder struct {
		F Field `json:"f"`
	}
	b, err := json.Marshal(holder{F: High})
	require.NoError(t, err)
	assert.Equal(t, `{"f":"high"}`, string(b))

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"f":"low"}`), &h))
	assert.Equal(t, Low, h.F)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"f":"mid"}`), &h), ErrUnsupportedField)
}

func TestNewPrice(t *testing.T) {
	t.Parallel()
	assert.False(t, NewPrice(math.NaN()).Valid)
	assert.False(t, NewPrice(math.Inf(1)).Valid)
	p := NewPrice(1.5)
	assert.True(t, p.Valid)
	assert.True(t, p.Decimal.Equal(decimal.NewFromFloat(1.5)))
}

func TestCandlePrice(t *testing.T) {
	t.Parallel()
	c := candle(0, 100)
	for f, want := range map[Field]float64{Open: 100, High: 101, Low: 99, Close: 100} {
		p, ok := c.Price(f)
		assert.True(t, ok)
		assert.True(t, p.Equal(decimal.NewFromFloat(want)), f.String())
	}
	_, ok := c.Price(UnsetField)
	assert.False(t, ok)
	assert.True(t, c.IsComplete())

	c.High = NewPrice(math.NaN())
	assert.False(t, c.IsComplete())
	_, ok = c.Price(High)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, Validate(nil), ErrEmptyDataFeed)
	assert.ErrorIs(t, Validate([]Candle{{}}), ErrMalformedTimestamp)
	assert.ErrorIs(t, Validate([]Candle{candle(time.Hour, 1), candle(0, 1)}), ErrMalformedTimestamp)
	assert.ErrorIs(t, Validate([]Candle{candle(0, 1), candle(0, 1)}), ErrMalformedTimestamp)
	assert.NoError(t, Validate([]Candle{candle(0, 1), candle(time.Minute, 1)}))
}

func TestStream(t *testing.T) {
	t.Parallel()
	s := NewStream([]Candle{candle(0, 1), candle(time.Minute, 2), candle(2*time.Minute, 3)})
	assert.Nil(t, s.Latest())
	assert.Empty(t, s.History())
	assert.Equal(t, 3, s.Len())

	c, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, start, c.Time)
	assert.Equal(t, c, s.Latest())
	assert.Len(t, s.History(), 1)

	_, ok = s.Next()
	require.True(t, ok)
	_, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, 3, s.Offset())
	_, ok = s.Next()
	assert.False(t, ok)
	assert.Len(t, s.History(), 3)

	s.Reset()
	assert.Zero(t, s.Offset())
	assert.Nil(t, s.Latest())
}

func TestSortCandles(t *testing.T) {
	t.Parallel()
	c := []Candle{candle(2*time.Minute, 3), candle(0, 1), candle(time.Minute, 2)}
	SortCandles(c)
	assert.NoError(t, Validate(c))
	assert.Equal(t, start, c[0].Time)
}
