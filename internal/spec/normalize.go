package spec

import (
	"fmt"
	"time"
)

// Normalize converts decoded YAML values into JSON-compatible values.
// Mappings become map[string]any with every key in its text form (YAML
// decodes `200:` as an int key); sequences are normalized element-wise.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = Normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[keyString(k)] = Normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = Normalize(e)
		}
		return out
	default:
		return v
	}
}

// NormalizeMap is Normalize for a top-level mapping.
func NormalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out, _ := Normalize(m).(map[string]any)
	return out
}

func keyString(k any) string {
	switch key := k.(type) {
	case string:
		return key
	case time.Time:
		return key.Format(time.RFC3339)
	case nil:
		return "null"
	default:
		return fmt.Sprint(key)
	}
}

// DeepCopy returns a copy of v sharing no maps or slices with it.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = DeepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = DeepCopy(e)
		}
		return out
	default:
		return v
	}
}
