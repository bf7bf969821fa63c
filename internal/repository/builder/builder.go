package builder

import (
	"fmt"
	"strings"
)

type statementKind int

const (
	kindNone statementKind = iota
	kindSelect
	kindInsert
	kindUpdate
	kindDelete
)

// SQLBuilder helps construct PostgreSQL statements dynamically.
// Placeholders are written as "?" and numbered ($1, $2, ...) by Build in statement order.
type SQLBuilder struct {
	kind      statementKind
	table     string
	columns   []string
	values    []interface{}
	sets      []fragment
	joins     []string
	where     []fragment
	orderBy   []string
	limit     int
	offset    int
	returning []string
}

// fragment is a piece of SQL with its "?" placeholders' arguments.
type fragment struct {
	sql  string
	args []interface{}
}

// NewSQLBuilder creates a new instance of SQLBuilder.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.kind = kindSelect
	b.columns = cols
	return b
}

// Count turns the statement into a SELECT COUNT(*).
func (b *SQLBuilder) Count() *SQLBuilder {
	return b.Select("COUNT(*)")
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.kind = kindInsert
	b.table = table
	b.columns = cols
	return b
}

// Update specifies the table to update.
func (b *SQLBuilder) Update(table string) *SQLBuilder {
	b.kind = kindUpdate
	b.table = table
	return b
}

// Delete specifies the table to delete from.
func (b *SQLBuilder) Delete(table string) *SQLBuilder {
	b.kind = kindDelete
	b.table = table
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Set adds a column assignment to an UPDATE.
func (b *SQLBuilder) Set(col string, val interface{}) *SQLBuilder {
	b.sets = append(b.sets, fragment{sql: col + " = ?", args: []interface{}{val}})
	return b
}

// Values specifies the values for insertion.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.values = vals
	return b
}

// Where adds a condition; conditions are combined with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, fragment{sql: condition, args: args})
	return b
}

// WhereIn adds "col IN (...)". An empty value list matches no rows.
func (b *SQLBuilder) WhereIn(col string, vals ...interface{}) *SQLBuilder {
	if len(vals) == 0 {
		return b.Where("1 = 0")
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", ")
	return b.Where(fmt.Sprintf("%s IN (%s)", col, marks), vals...)
}

// Join adds a JOIN clause.
func (b *SQLBuilder) Join(joinType, table, on string) *SQLBuilder {
	b.joins = append(b.joins, fmt.Sprintf("%s JOIN %s ON %s", joinType, table, on))
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	if order != "" {
		b.orderBy = append(b.orderBy, order)
	}
	return b
}

// Limit adds a LIMIT clause.
func (b *SQLBuilder) Limit(limit int) *SQLBuilder {
	b.limit = limit
	return b
}

// Offset adds an OFFSET clause.
func (b *SQLBuilder) Offset(offset int) *SQLBuilder {
	b.offset = offset
	return b
}

// Returning adds a RETURNING clause to INSERT, UPDATE or DELETE.
func (b *SQLBuilder) Returning(cols ...string) *SQLBuilder {
	b.returning = cols
	return b
}

// HasWhere reports whether any condition was added.
func (b *SQLBuilder) HasWhere() bool {
	return len(b.where) > 0
}

// BuildSafe is Build with a check that every fragment has as many arguments as placeholders.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	check := func(f fragment) error {
		if n := strings.Count(f.sql, "?"); n != len(f.args) {
			return fmt.Errorf("placeholder count (%d) does not match argument count (%d) in %q", n, len(f.args), f.sql)
		}
		return nil
	}
	for _, f := range b.sets {
		if err := check(f); err != nil {
			return "", nil, err
		}
	}
	for _, f := range b.where {
		if err := check(f); err != nil {
			return "", nil, err
		}
	}
	if b.kind == kindInsert && len(b.values) != len(b.columns) {
		return "", nil, fmt.Errorf("insert has %d columns but %d values", len(b.columns), len(b.values))
	}
	if b.kind == kindNone {
		return "", nil, fmt.Errorf("no statement kind selected")
	}
	sql, args := b.Build()
	return sql, args, nil
}

// Build constructs the final SQL string and arguments. It does not modify the builder.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	bind := func(f fragment) string {
		var out strings.Builder
		parts := strings.Split(f.sql, "?")
		for i, part := range parts {
			out.WriteString(part)
			if i < len(parts)-1 {
				args = append(args, argAt(f.args, i))
				out.WriteString(fmt.Sprintf("$%d", len(args)))
			}
		}
		return out.String()
	}

	switch b.kind {
	case kindSelect:
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(b.table)
		for _, join := range b.joins {
			sb.WriteString(" ")
			sb.WriteString(join)
		}
	case kindInsert:
		sb.WriteString("INSERT INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES (")
		placeholders := make([]string, len(b.values))
		for i, v := range b.values {
			args = append(args, v)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		sb.WriteString(strings.Join(placeholders, ", "))
		sb.WriteString(")")
	case kindUpdate:
		sb.WriteString("UPDATE ")
		sb.WriteString(b.table)
		sb.WriteString(" SET ")
		setClauses := make([]string, len(b.sets))
		for i, s := range b.sets {
			setClauses[i] = bind(s)
		}
		sb.WriteString(strings.Join(setClauses, ", "))
	case kindDelete:
		sb.WriteString("DELETE FROM ")
		sb.WriteString(b.table)
	}

	if len(b.where) > 0 && b.kind != kindInsert {
		conditions := make([]string, len(b.where))
		for i, w := range b.where {
			conditions[i] = bind(w)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	if b.kind == kindSelect {
		if len(b.orderBy) > 0 {
			sb.WriteString(" ORDER BY ")
			sb.WriteString(strings.Join(b.orderBy, ", "))
		}
		if b.limit > 0 {
			sb.WriteString(fmt.Sprintf(" LIMIT %d", b.limit))
		}
		if b.offset > 0 {
			sb.WriteString(fmt.Sprintf(" OFFSET %d", b.offset))
		}
	} else if len(b.returning) > 0 {
		sb.WriteString(" RETURNING ")
		sb.WriteString(strings.Join(b.returning, ", "))
	}

	return sb.String(), args
}

func argAt(args []interface{}, i int) interface{} {
	if i < len(args) {
		return args[i]
	}
	return nil
}
