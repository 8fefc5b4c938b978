// Package attrs reads values back out of slog-style key/value argument lists.
package attrs

func lookup(kv []any, key string) (any, bool) {
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok && k == key {
			return kv[i+1], true
		}
	}
	return nil, false
}

// ExtractString returns the string stored under key, or "".
func ExtractString(kv []any, key string) string {
	v, _ := lookup(kv, key)
	s, _ := v.(string)
	return s
}

// ExtractInt returns the int stored under key and whether one was present.
func ExtractInt(kv []any, key string) (int, bool) {
	v, _ := lookup(kv, key)
	n, ok := v.(int)
	return n, ok
}
