package math

import (
	"math"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ArithmeticAverage is the basic form of averaging: the sum of all values
// divided by the number of values
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumOfValues float64
	for x := range values {
		sumOfValues += values[x]
	}
	return sumOfValues / float64(len(values))
}

// SampleStandardDeviation measures the dispersion of a dataset relative to
// its mean using the n-1 denominator
func SampleStandardDeviation(vals []float64) float64 {
	if len(vals) <= 1 {
		return 0
	}
	mean := ArithmeticAverage(vals)
	var combined float64
	for i := range vals {
		combined += math.Pow(vals[i]-mean, 2)
	}
	return math.Sqrt(combined / float64(len(vals)-1))
}

// CalculateSharpeRatio returns sqrt(n) * mean / sample standard deviation of
// the supplied periodic returns. A zero deviation or fewer than two returns
// yields zero
func CalculateSharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	stdDev := SampleStandardDeviation(returns)
	if stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}
	return math.Sqrt(float64(len(returns))) * ArithmeticAverage(returns) / stdDev
}

// RollingSum returns the trailing window sum for every index. Windows at the
// start of the series which are not yet full sum what is available
func RollingSum(values []float64, window int) []float64 {
	if window <= 0 {
		return nil
	}
	resp := make([]float64, len(values))
	var running float64
	for i := range values {
		running += values[i]
		if i >= window {
			running -= values[i-window]
		}
		resp[i] = running
	}
	return resp
}

// DecimalPercentageChange returns (now - then) / then as a fraction. A zero
// starting value has no defined change and returns zero
func DecimalPercentageChange(now, then decimal.Decimal) decimal.Decimal {
	if then.IsZero() {
		return decimal.Zero
	}
	return now.Sub(then).Div(then)
}

// DecimalPercentageGainOrLoss returns the change between two values as a
// percentage
func DecimalPercentageGainOrLoss(now, then decimal.Decimal) decimal.Decimal {
	return DecimalPercentageChange(now, then).Mul(oneHundred)
}

// DecimalArithmeticAverage returns the mean of the supplied values
func DecimalArithmeticAverage(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values))))
}

// DecimalsToFloats converts a decimal slice for float based statistics
func DecimalsToFloats(values []decimal.Decimal) []float64 {
	resp := make([]float64, len(values))
	for i := range values {
		resp[i] = values[i].InexactFloat64()
	}
	return resp
}
