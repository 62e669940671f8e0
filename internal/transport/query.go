package transport

import (
	"net/url"
	"strconv"
	"strings"
)

// Query builds a query string where unset values are left out instead of being
// sent as empty strings.
type Query struct {
	v url.Values
}

func NewQuery() *Query {
	return &Query{v: url.Values{}}
}

// Str sets key when value is not blank.
func (q *Query) Str(key, value string) *Query {
	if strings.TrimSpace(value) != "" {
		q.v.Set(key, value)
	}
	return q
}

// OptStr sets key when value is non-nil, even if it is empty.
func (q *Query) OptStr(key string, value *string) *Query {
	if value != nil {
		q.v.Set(key, *value)
	}
	return q
}

// Int sets key when value is positive. Zero means "let the server decide".
func (q *Query) Int(key string, value int) *Query {
	if value > 0 {
		q.v.Set(key, strconv.Itoa(value))
	}
	return q
}

// OptInt sets key when value is non-nil, including zero.
func (q *Query) OptInt(key string, value *int) *Query {
	if value != nil {
		q.v.Set(key, strconv.Itoa(*value))
	}
	return q
}

// Bool always sets key.
func (q *Query) Bool(key string, value bool) *Query {
	q.v.Set(key, strconv.FormatBool(value))
	return q
}

func (q *Query) OptBool(key string, value *bool) *Query {
	if value != nil {
		q.v.Set(key, strconv.FormatBool(*value))
	}
	return q
}

func (q *Query) Values() url.Values {
	if q == nil {
		return url.Values{}
	}
	out := make(url.Values, len(q.v))
	for k, v := range q.v {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	return q.v.Encode()
}
