package gen

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// literal renders a value produced by an expr-lang body as Go source.
// Arrays and maps render as composite literals with the type elided, which
// is valid for elements of an array literal.
func literal(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", fmt.Errorf("nil value")
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		return strconv.Quote(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	case float32:
		return floatLiteral(float64(v), 32)
	case float64:
		return floatLiteral(v, 64)
	case []any:
		elems := make([]string, len(v))

		for i, e := range v {
			lit, err := literal(e)
			if err != nil {
				return "", fmt.Errorf("element %d: %w", i, err)
			}

			elems[i] = lit
		}

		return "{" + strings.Join(elems, ", ") + "}", nil
	case map[string]any:
		keys := slices.Sorted(maps.Keys(v))
		elems := make([]string, len(keys))

		for i, k := range keys {
			lit, err := literal(v[k])
			if err != nil {
				return "", fmt.Errorf("key %q: %w", k, err)
			}

			elems[i] = strconv.Quote(k) + ": " + lit
		}

		return "{" + strings.Join(elems, ", ") + "}", nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

func floatLiteral(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite value %v", f)
	}

	s := strconv.FormatFloat(f, 'g', -1, bits)

	// Integer-valued floats keep a fraction so they stay float constants.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s, nil
}
