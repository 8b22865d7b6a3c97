package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
)

// toFloat converts any Go numeric value to float64. Booleans and strings are
// not numbers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// wholeNumber reports the value of an integral number. Floats qualify only
// when whole; json.Number may exceed the int64 range.
func wholeNumber(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		if f, ok := parseWhole(string(n)); ok {
			return f, true
		}
	}

	f, ok := toFloat(v)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	return f, true
}

// parseWhole parses base-10 integer text of any size.
func parseWhole(text string) (float64, bool) {
	i, ok := new(big.Int).SetString(strings.TrimSpace(text), 10)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	return f, true
}

// numberOption reads a numeric option. ok is false when the option is absent.
func numberOption(options map[string]any, key string) (value float64, ok bool, err error) {
	raw, present := options[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	f, isNum := toFloat(raw)
	if !isNum {
		return 0, false, fmt.Errorf("invalid %s option: %v", key, raw)
	}
	return f, true, nil
}

// stringOption reads a string option. ok is false when the option is absent.
func stringOption(options map[string]any, key string) (value string, ok bool, err error) {
	raw, present := options[key]
	if !present || raw == nil {
		return "", false, nil
	}
	s, isStr := raw.(string)
	if !isStr {
		return "", false, fmt.Errorf("invalid %s option: %v", key, raw)
	}
	return s, true, nil
}

// listOption reads a list option of any element type.
func listOption(options map[string]any, key string) ([]any, bool) {
	raw, present := options[key]
	if !present || raw == nil {
		return nil, false
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// sameValue compares enum members: numbers by value, everything else deeply.
func sameValue(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func joinValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// formatBound renders an option bound without a trailing ".0" for whole numbers.
func formatBound(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(f)
}
