package textutil

import "strings"

// Ternary returns a when cond holds and b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// Or returns value without surrounding whitespace, or fallback when nothing
// is left. Config fields and API values that arrive blank use it to pick
// their defaults.
func Or(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
