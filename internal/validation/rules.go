package validation

import (
	"strconv"
	"strings"
)

// Field declares a scalar field that is trimmed before its checks run and
// HTML-escaped after them.
func Field(name string, checks ...Check) Rule {
	return Rule{
		Field:      name,
		Transforms: []Transform{Trim},
		Checks:     checks,
		Sanitizers: []Transform{Escape},
	}
}

// OptionalField is like Field but skips its checks when the cleaned value
// is empty.
func OptionalField(name string, checks ...Check) Rule {
	r := Field(name, checks...)
	r.Optional = true
	return r
}

// ListField declares a multi-valued field; each element is cleaned and
// checked on its own.
func ListField(name string, checks ...Check) Rule {
	r := Field(name, checks...)
	r.List = true
	return r
}

// WithDefault substitutes def for an empty value before checks run.
func (r Rule) WithDefault(def string) Rule {
	r.Transforms = append(append([]Transform{}, r.Transforms...), Default(def))
	return r
}

func Required(msg string) Check {
	return Check{Tag: "required", Message: msg}
}

func MinLen(n int, msg string) Check {
	return Check{Tag: "min=" + strconv.Itoa(n), Message: msg}
}

func MaxLen(n int, msg string) Check {
	return Check{Tag: "max=" + strconv.Itoa(n), Message: msg}
}

// ISODate accepts yyyy-mm-dd.
func ISODate(msg string) Check {
	return Check{Tag: "datetime=2006-01-02", Message: msg}
}

// OneOf accepts only the listed values. Values must not contain spaces.
func OneOf(values []string, msg string) Check {
	return Check{Tag: "oneof=" + strings.Join(values, " "), Message: msg}
}

// Trim removes leading and trailing white space.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Default returns a transform that replaces an empty value with def.
func Default(def string) Transform {
	return func(s string) string {
		if s == "" {
			return def
		}
		return s
	}
}

var escapes = map[byte]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&#x27;",
	'/':  "&#x2F;",
	'\\': "&#x5C;",
	'`':  "&#96;",
}

// Escape replaces HTML-significant characters with entities. An ampersand
// that already opens one of the produced entities is kept, which makes
// Escape idempotent.
func Escape(s string) string {
	if !strings.ContainsAny(s, "&<>\"'/\\`") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '&' && startsEntity(s[i:]) {
			b.WriteByte(c)
			continue
		}
		if e, ok := escapes[c]; ok {
			b.WriteString(e)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func startsEntity(s string) bool {
	for _, e := range escapes {
		if strings.HasPrefix(s, e) {
			return true
		}
	}
	return false
}
