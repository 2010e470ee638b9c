package bot

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Sentinel replaces any placeholder that cannot be resolved.
const Sentinel = "[No disponible]"

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*\}\}`)

// groupingThreshold is the smallest value rendered with thousands separators.
const groupingThreshold = 1000

var localePrinter = message.NewPrinter(language.LatinAmericanSpanish)

// Interpolate substitutes every {{path.to.value}} placeholder in template
// with the value found at that path in variables. Unresolvable placeholders
// become the sentinel. Numbers of 1000 and above are rendered with
// locale-aware grouping. Pure: neither template nor variables are mutated.
func Interpolate(template string, variables map[string]interface{}) string {
	if !strings.Contains(template, "{{") {
		return template
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		path := placeholderPattern.FindStringSubmatch(match)[1]
		if variables == nil {
			return Sentinel
		}
		value, ok := resolvePath(variables, path)
		if !ok || value == nil {
			return Sentinel
		}
		return formatValue(value)
	})
}

// resolvePath walks the variable bag along dot-separated keys, descending
// through nested objects.
func resolvePath(variables map[string]interface{}, path string) (interface{}, bool) {
	keys := strings.Split(path, ".")

	var current interface{} = variables
	for _, key := range keys {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// formatValue stringifies a resolved value, applying locale grouping to
// numbers at or above the threshold.
func formatValue(value interface{}) string {
	if f, ok := asFloat(value); ok {
		if f >= groupingThreshold {
			if f == math.Trunc(f) {
				return localePrinter.Sprint(number.Decimal(int64(f)))
			}
			return localePrinter.Sprint(number.Decimal(f))
		}
		if f == math.Trunc(f) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// asFloat coerces the numeric types the JSON variable bag can carry.
func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
