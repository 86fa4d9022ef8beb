package transcoder

import "github.com/wippyai/rbuf/value"

// ToGo converts a value tree into plain Go values: bool, nil, float64,
// string, []any and map[string]any. A repeated object key keeps its last value.
func ToGo(v value.Value) any {
	switch t := v.(type) {
	case value.Boolean:
		return bool(t)
	case value.Number:
		return float64(t)
	case value.String:
		return string(t)
	case value.Array:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToGo(item)
		}
		return out
	case value.Object:
		out := make(map[string]any, len(t))
		for _, m := range t {
			out[m.Key] = ToGo(m.Value)
		}
		return out
	default:
		return nil
	}
}
