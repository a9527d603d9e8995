// Package attrs reads and extends slog-style key-value attribute slices.
package attrs

// ExtractString extracts a string value from a key-value attribute slice.
// The slice should be formatted as [key1, value1, key2, value2, ...].
// Returns empty string if the key is not found or the value is not a string.
func ExtractString(attrs []any, key string) string {
	for i := 0; i < len(attrs)-1; i += 2 {
		k, ok := attrs[i].(string)
		if !ok {
			continue
		}
		if k == key {
			if v, ok := attrs[i+1].(string); ok {
				return v
			}
		}
	}
	return ""
}

// With returns a new slice holding attrs followed by kv. attrs is never
// modified, so callers may reuse it.
func With(attrs []any, kv ...any) []any {
	out := make([]any, 0, len(attrs)+len(kv))
	out = append(out, attrs...)
	return append(out, kv...)
}
