// Package sorting orders slices by a user-facing spec such as
// "rating-desc,title-asc".
package sorting

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	Asc  = "asc"
	Desc = "desc"
)

type Key struct {
	Field string
	Desc  bool
}

func (k Key) String() string {
	if k.Desc {
		return k.Field + "-" + Desc
	}
	return k.Field + "-" + Asc
}

// Fields maps a field name to the value it sorts on.
type Fields[T any] map[string]func(T) any

// ParseSpec splits a spec into keys. The direction follows the last '-' of
// each key and defaults to ascending.
func ParseSpec(spec string) ([]Key, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	parts := strings.Split(spec, ",")
	keys := make([]Key, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty key in %q", domain.ErrInvalidSort, spec)
		}
		field, dir := part, Asc
		if i := strings.LastIndex(part, "-"); i >= 0 {
			field, dir = part[:i], strings.ToLower(part[i+1:])
		}
		if field == "" {
			return nil, fmt.Errorf("%w: missing field in %q", domain.ErrInvalidSort, part)
		}
		switch dir {
		case Asc, Desc:
		default:
			return nil, fmt.Errorf("%w: unknown direction %q", domain.ErrInvalidSort, dir)
		}
		keys = append(keys, Key{Field: field, Desc: dir == Desc})
	}
	return keys, nil
}

type options struct {
	lang language.Tag
}

type Option func(*options)

// WithLanguage sets the collation used for text fields.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// Sort returns items ordered by spec. An empty spec returns items as-is;
// otherwise the result is a stable-sorted copy and items is left untouched.
func Sort[T any](items []T, spec string, fields Fields[T], opts ...Option) ([]T, error) {
	keys, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return items, nil
	}
	for _, k := range keys {
		if _, ok := fields[k.Field]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidSort, k.Field)
		}
	}

	o := options{lang: language.Und}
	for _, opt := range opts {
		opt(&o)
	}
	col := collate.New(o.lang)

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		for _, k := range keys {
			get := fields[k.Field]
			c := compareValues(col, get(a), get(b))
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return sorted, nil
}

func compareValues(col *collate.Collator, a, b any) int {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return col.CompareString(as, bs)
		}
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	return col.CompareString(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
