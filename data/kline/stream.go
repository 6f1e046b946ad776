package kline

import "slices"

// NewStream returns a cursor positioned before the first candle
func NewStream(candles []Candle) *Stream {
	return &Stream{candles: candles}
}

// Next will return the next candle in the list and also shift the offset one
func (s *Stream) Next() (*Candle, bool) {
	if len(s.candles) <= s.offset {
		return nil, false
	}
	ret := &s.candles[s.offset]
	s.offset++
	s.latest = ret
	return ret, true
}

// Latest will return the most recently consumed candle
func (s *Stream) Latest() *Candle {
	return s.latest
}

// History will return every consumed candle including the latest
func (s *Stream) History() []Candle {
	return s.candles[:s.offset:s.offset]
}

// Offset returns the number of consumed candles
func (s *Stream) Offset() int {
	return s.offset
}

// Len returns the length of the whole series
func (s *Stream) Len() int {
	return len(s.candles)
}

// Reset returns the cursor to the start
func (s *Stream) Reset() {
	s.offset = 0
	s.latest = nil
}

// SortCandles sorts a series by timestamp, keeping the order of equal times
func SortCandles(candles []Candle) {
	slices.SortStableFunc(candles, func(a, b Candle) int {
		return a.Time.Compare(b.Time)
	})
}
