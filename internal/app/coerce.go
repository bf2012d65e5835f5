package app

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

/********** tiny helpers **********/

// lookupStr returns the trimmed string at key, and whether key held a string.
func lookupStr(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// floatFlexible: number from float64/int/json.Number/numeric string
// (decimal comma accepted, "8,5" -> 8.5).
func floatFlexible(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0, false
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// intFlexible: like floatFlexible but the value must be whole.
func intFlexible(v any) (int, bool) {
	f, ok := floatFlexible(v)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
