package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
)

// decimalTokenPattern extracts signed decimal tokens from range-encoded values like "10,20".
var decimalTokenPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// ParseNumber coerces a raw sample value to a number. Strings yield their single
// decimal token, or the mean of the first two when the value encodes a range.
func ParseNumber(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return ptr(float64(v))
	case int64:
		return ptr(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return finite(f)
	case string:
		return parseNumericString(v)
	default:
		return nil
	}
}

func parseNumericString(s string) *float64 {
	tokens := decimalTokenPattern.FindAllString(s, 2)
	values := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		values = append(values, f)
	}
	switch len(values) {
	case 0:
		return nil
	case 1:
		return ptr(values[0])
	default:
		return ptr((values[0] + values[1]) / 2)
	}
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func ptr[T any](v T) *T {
	return &v
}
