package api

import "strings"

// Helpers used by the wire -> view conversions. Absent values collapse to the zero
// value, absent lists to an empty slice, and optional strings stay nil.

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func firstStr(ps ...*string) string {
	for _, p := range ps {
		if p != nil && *p != "" {
			return *p
		}
	}
	return ""
}

func optStr(ps ...*string) *string {
	for _, p := range ps {
		if p != nil && strings.TrimSpace(*p) != "" {
			v := *p
			return &v
		}
	}
	return nil
}

func flag(ps ...*bool) bool {
	for _, p := range ps {
		if p != nil {
			return *p
		}
	}
	return false
}

type number interface {
	~int | ~int64 | ~float64
}

func num[T number](ps ...*T) T {
	for _, p := range ps {
		if p != nil {
			return *p
		}
	}
	var zero T
	return zero
}

func optNum[T number](ps ...*T) *T {
	for _, p := range ps {
		if p != nil {
			v := *p
			return &v
		}
	}
	return nil
}

func list[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func mapList[W, V any](in []W, fn func(W) V) []V {
	out := make([]V, 0, len(in))
	for _, w := range in {
		out = append(out, fn(w))
	}
	return out
}

func dict(in map[string]any) map[string]any {
	if in == nil {
		return map[string]any{}
	}
	return in
}

func ptr[T any](v T) *T { return &v }

// hasMore reports whether rows exist past the current page.
func hasMore(offset, n, total int) bool {
	return offset+n < total
}
