// Package validation sanitizes and checks submitted form fields.
//
// A Pipeline is an ordered list of field rules. Running it is a pure
// function of its input: every declared field is transformed (so a
// redisplayed form always shows cleaned values) and every failing check adds
// one FieldError, in field declaration order and then check order.
//
//	p := validation.New(
//		validation.Field("title", validation.Required("Title must not be empty.")),
//	)
//	clean, errs := p.Run(validation.Input{"title": {"  Dune "}})
package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Input is the raw submission, shaped like url.Values.
type Input map[string][]string

// Transform rewrites a single value before checks run.
type Transform func(string) string

// Check is one predicate on a value. Tag is a go-playground/validator tag
// evaluated with Var; Message is reported when it fails.
type Check struct {
	Tag     string
	Message string
}

// Rule declares how one field is cleaned and checked. Transforms run before
// the checks, Sanitizers after them; both run whether or not checks pass.
type Rule struct {
	Field      string
	List       bool
	Optional   bool
	Transforms []Transform
	Checks     []Check
	Sanitizers []Transform
}

// FieldError is a failed check on a field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Sanitized holds the transformed value(s) of every declared field.
type Sanitized map[string][]string

// Get returns the first value of field, or "".
func (s Sanitized) Get(field string) string {
	if v := s[field]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// List returns all values of field. Never nil.
func (s Sanitized) List(field string) []string {
	if v := s[field]; v != nil {
		return v
	}
	return []string{}
}

type Pipeline struct {
	rules []Rule
}

func New(rules ...Rule) *Pipeline {
	return &Pipeline{rules: rules}
}

// Rules returns the declared rules in order.
func (p *Pipeline) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Run sanitizes in and evaluates every check. The returned error slice is
// empty when the submission is valid.
func (p *Pipeline) Run(in Input) (Sanitized, []FieldError) {
	clean := make(Sanitized, len(p.rules))
	errs := []FieldError{}

	for _, rule := range p.rules {
		values := normalize(in[rule.Field], rule.List)
		for i, v := range values {
			v = apply(v, rule.Transforms)
			if !rule.Optional || v != "" {
				for _, check := range rule.Checks {
					if validate.Var(v, check.Tag) != nil {
						errs = append(errs, FieldError{Field: rule.Field, Message: check.Message})
					}
				}
			}
			values[i] = apply(v, rule.Sanitizers)
		}
		clean[rule.Field] = values
	}

	return clean, errs
}

func apply(v string, transforms []Transform) string {
	for _, t := range transforms {
		v = t(v)
	}
	return v
}

// normalize coerces the raw values of a field. List fields: absent → empty,
// one value → singleton, many → as-is. Scalar fields always yield exactly one
// value (the first submitted, or "").
func normalize(raw []string, list bool) []string {
	if list {
		out := make([]string, len(raw))
		copy(out, raw)
		return out
	}
	if len(raw) == 0 {
		return []string{""}
	}
	return []string{raw[0]}
}
