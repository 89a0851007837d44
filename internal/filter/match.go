package filter

import (
	"strconv"
	"strings"
)

// Match evaluates the expression against a document's materialized metadata.
// A predicate matches only when the key is present with a satisfying value;
// every group must match (AND) with any predicate within a group sufficing
// (OR).
func (e Expression) Match(metadata map[string]string) bool {
	for _, group := range e.Groups {
		if !group.match(metadata) {
			return false
		}
	}
	return true
}

func (g Group) match(metadata map[string]string) bool {
	for _, pred := range g.Predicates {
		if pred.match(metadata) {
			return true
		}
	}
	return false
}

func (p Predicate) match(metadata map[string]string) bool {
	stored, ok := metadata[p.Key]
	if !ok {
		return false
	}

	switch p.Op {
	case OpEq:
		return stored == p.Value
	case OpNe:
		return stored != p.Value
	case OpGe:
		return compare(stored, p.Value) >= 0
	case OpGt:
		return compare(stored, p.Value) > 0
	case OpLe:
		return compare(stored, p.Value) <= 0
	case OpLt:
		return compare(stored, p.Value) < 0
	case OpIn:
		for _, candidate := range p.Values {
			if stored == candidate {
				return true
			}
		}
		return false
	case OpContains:
		return strings.Contains(fold(stored), fold(p.Value))
	case OpStartsWith:
		return strings.HasPrefix(fold(stored), fold(p.Value))
	case OpEndsWith:
		return strings.HasSuffix(fold(stored), fold(p.Value))
	case OpRegex:
		return p.pattern.MatchString(stored)
	}
	return false
}

// compare orders two metadata values. Values are untyped strings; when both
// sides parse as numbers the comparison is numeric, otherwise lexical.
func compare(stored, operand string) int {
	sn, serr := strconv.ParseFloat(stored, 64)
	on, oerr := strconv.ParseFloat(operand, 64)
	if serr == nil && oerr == nil {
		switch {
		case sn < on:
			return -1
		case sn > on:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(stored, operand)
}

// fold lowercases for the case-insensitive substring operators, mirroring
// ILIKE semantics.
func fold(s string) string {
	return strings.ToLower(s)
}
