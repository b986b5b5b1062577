package translator

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const dash = "—"

func orDash(s string) string {
	if s == "" {
		return dash
	}
	return s
}

// stringify renders a decoded JSON value as raw text; objects and arrays
// come out as compact JSON.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return dash
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
