package base

import "fmt"

// PositiveFloat parses a custom setting value decoded from JSON
func PositiveFloat(key string, v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, fmt.Errorf("%w provided %v value could not be parsed: %v", ErrInvalidCustomSettings, key, v)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%w provided %v value must be greater than zero: %v", ErrInvalidCustomSettings, key, v)
	}
	return f, nil
}

// Hour parses an hour of the day custom setting
func Hour(key string, v any) (int, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, fmt.Errorf("%w provided %v value could not be parsed: %v", ErrInvalidCustomSettings, key, v)
	}
	if f < 0 || f > 23 || f != float64(int(f)) {
		return 0, fmt.Errorf("%w provided %v must be a whole hour between 0 and 23: %v", ErrInvalidCustomSettings, key, v)
	}
	return int(f), nil
}
