package cache

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Key is an ordered tuple [resource, operation, significant params...]. Two reads
// with equal keys share one fetch and one cache entry.
type Key []string

// K builds a key. Strings, integers and booleans are used as-is; anything else is
// JSON-encoded so that structs of list params compare by value.
func K(resource string, parts ...any) Key {
	k := make(Key, 0, 1+len(parts))
	k = append(k, resource)
	for _, p := range parts {
		k = append(k, segment(p))
	}
	return k
}

func segment(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// String encodes the key with each element path-escaped and joined by "/", so
// that element boundaries survive in flat key spaces.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, s := range k {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

// HasPrefix compares element-wise: ["config","agents"] is a prefix of
// ["config","agents","list"] but not of ["config","agents-v2"].
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (k Key) Equal(o Key) bool {
	return len(k) == len(o) && k.HasPrefix(o)
}
