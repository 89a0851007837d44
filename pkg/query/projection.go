// Package query constructs SQL queries using a fluent API with automatic
// parameter numbering, along with field projection and ordering utilities.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps logical field names to the columns of a single table.
// It centralizes the field-to-column translation used by builders and
// ordering parsers so that callers never hand-write column lists.
type ProjectionMap struct {
	schema string
	table  string
	alias  string
	fields []string
	cols   map[string]string
}

// NewProjectionMap creates a projection for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		cols:   make(map[string]string),
	}
}

// Project registers a column under the given logical field name.
// Registration order determines column order in generated SELECT lists.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.fields = append(p.fields, field)
	p.cols[field] = fmt.Sprintf("%s.%s", p.alias, column)
	return p
}

// Table returns the aliased table reference for FROM clauses.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the qualified column for a logical field name.
// Unknown fields panic; they indicate a programming error, not user input.
func (p *ProjectionMap) Column(field string) string {
	col, ok := p.cols[field]
	if !ok {
		panic(fmt.Sprintf("query: unmapped field %q on %s.%s", field, p.schema, p.table))
	}
	return col
}

// Columns returns the full qualified column list for SELECT clauses.
func (p *ProjectionMap) Columns() string {
	cols := make([]string, len(p.fields))
	for i, f := range p.fields {
		cols[i] = p.cols[f]
	}
	return strings.Join(cols, ", ")
}
