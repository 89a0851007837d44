// Package filter compiles request parameters into a boolean filter
// expression over document metadata and evaluates it in-process.
//
// Each non-reserved parameter name is split into a metadata key and an
// optional operator suffix ("city__in=a,b"); a missing suffix means equality.
// Repeated values for the same key and operator combine with OR, distinct
// key/operator groups combine with AND, producing an AND-of-OR tree.
package filter

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Reserved parameter names excluded from metadata interpretation. "key" is
// claimed by the authentication gate.
var reserved = map[string]bool{
	"q":        true,
	"page":     true,
	"ordering": true,
	"ranking":  true,
	"index":    true,
	"key":      true,
}

// Operator identifies a metadata comparison operation.
type Operator string

// The closed set of recognized operators.
const (
	OpEq         Operator = "eq"
	OpNe         Operator = "ne"
	OpGe         Operator = "ge"
	OpGt         Operator = "gt"
	OpLe         Operator = "le"
	OpLt         Operator = "lt"
	OpIn         Operator = "in"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startswith"
	OpEndsWith   Operator = "endswith"
	OpRegex      Operator = "regex"
)

var operators = map[Operator]bool{
	OpEq: true, OpNe: true, OpGe: true, OpGt: true, OpLe: true, OpLt: true,
	OpIn: true, OpContains: true, OpStartsWith: true, OpEndsWith: true,
	OpRegex: true,
}

// Predicate is a single comparison of a metadata value against an operand.
// For OpIn, Values holds the comma-split alternatives; every other operator
// uses Value. Regex predicates carry their pattern pre-compiled.
type Predicate struct {
	Key    string
	Op     Operator
	Value  string
	Values []string

	pattern *regexp.Regexp
}

// Group is a set of predicates for one (key, operator) pair, combined with OR.
type Group struct {
	Key        string
	Op         Operator
	Predicates []Predicate
}

// Expression is the compiled filter: groups combined with AND.
type Expression struct {
	Groups []Group

	filters map[string][]string
}

// IsEmpty reports whether the expression has no predicates.
func (e Expression) IsEmpty() bool {
	return len(e.Groups) == 0
}

// Filters returns the resolved parameter map the expression was compiled
// from, keyed by the raw parameter name. It is reported back to callers in
// search responses.
func (e Expression) Filters() map[string][]string {
	if e.filters == nil {
		return map[string][]string{}
	}
	return e.filters
}

// Compile builds a filter expression from request parameters. Reserved names
// are ignored. Compile is a pure function: identical parameter maps always
// produce identical expressions.
func Compile(params url.Values) (Expression, error) {
	names := make([]string, 0, len(params))
	for name := range params {
		if reserved[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	expr := Expression{filters: make(map[string][]string)}

	for _, name := range names {
		key, op, err := splitParam(name)
		if err != nil {
			return Expression{}, err
		}

		group := Group{Key: key, Op: op}
		for _, value := range params[name] {
			pred, err := newPredicate(key, op, value, name)
			if err != nil {
				return Expression{}, err
			}
			group.Predicates = append(group.Predicates, pred)
		}

		expr.Groups = append(expr.Groups, group)
		expr.filters[name] = append([]string(nil), params[name]...)
	}

	return expr, nil
}

// splitParam separates a parameter name into its metadata key and operator.
func splitParam(name string) (string, Operator, error) {
	idx := strings.LastIndex(name, "__")
	if idx == -1 {
		return name, OpEq, nil
	}

	key, suffix := name[:idx], Operator(name[idx+2:])
	if !operators[suffix] {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidOperator, name)
	}
	return key, suffix, nil
}

func newPredicate(key string, op Operator, value, param string) (Predicate, error) {
	if value == "" && op != OpEq && op != OpNe {
		return Predicate{}, fmt.Errorf("%w: %s", ErrEmptyValue, param)
	}

	pred := Predicate{Key: key, Op: op, Value: value}

	switch op {
	case OpIn:
		parts := strings.Split(value, ",")
		pred.Values = make([]string, 0, len(parts))
		for _, part := range parts {
			pred.Values = append(pred.Values, strings.TrimSpace(part))
		}
	case OpRegex:
		pattern, err := regexp.Compile(value)
		if err != nil {
			return Predicate{}, fmt.Errorf("%w: %s", ErrInvalidRegex, param)
		}
		pred.pattern = pattern
	}

	return pred, nil
}
