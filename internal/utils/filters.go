package utils

import (
	"fmt"
	"strings"
)

// QueryFilter accumulates WHERE conditions with positional placeholders so
// that handlers never concatenate values into SQL. Each condition is an
// expression ending right before its placeholder, e.g. "user_id =".
type QueryFilter struct {
	conditions []string
	args       []interface{}
	limit      int
	offset     int
	paginated  bool
}

func NewQueryFilter() *QueryFilter {
	return &QueryFilter{}
}

// Where adds a condition that is always applied.
func (qf *QueryFilter) Where(expr string, value interface{}) *QueryFilter {
	qf.conditions = append(qf.conditions, expr)
	qf.args = append(qf.args, value)
	return qf
}

// WhereIf adds the condition only when apply is true. Used for optional
// query parameters.
func (qf *QueryFilter) WhereIf(apply bool, expr string, value interface{}) *QueryFilter {
	if apply {
		return qf.Where(expr, value)
	}
	return qf
}

// Paginate appends LIMIT and OFFSET to the built query.
func (qf *QueryFilter) Paginate(limit, offset int) *QueryFilter {
	qf.limit = limit
	qf.offset = offset
	qf.paginated = true
	return qf
}

// Args returns the placeholder arguments in order, including pagination.
func (qf *QueryFilter) Args() []interface{} {
	args := make([]interface{}, len(qf.args))
	copy(args, qf.args)
	if qf.paginated {
		args = append(args, qf.limit, qf.offset)
	}
	return args
}

// Build assembles the final query: base + WHERE clause + suffix (ORDER BY,
// GROUP BY) + pagination. Placeholders are numbered from startIndex upward.
func (qf *QueryFilter) Build(base, suffix string) string {
	return qf.buildFrom(base, suffix, 1)
}

func (qf *QueryFilter) buildFrom(base, suffix string, startIndex int) string {
	var sb strings.Builder
	sb.WriteString(base)

	index := startIndex
	for i, cond := range qf.conditions {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(fmt.Sprintf("%s $%d", cond, index))
		index++
	}

	if suffix != "" {
		sb.WriteString(" ")
		sb.WriteString(suffix)
	}

	if qf.paginated {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", index, index+1))
	}

	return sb.String()
}

// UpdateSet accumulates SET assignments for a partial UPDATE. Only the
// columns that were actually provided end up in the statement.
type UpdateSet struct {
	columns []string
	args    []interface{}
}

func NewUpdateSet() *UpdateSet {
	return &UpdateSet{}
}

// Set adds a column assignment.
func (us *UpdateSet) Set(column string, value interface{}) *UpdateSet {
	us.columns = append(us.columns, column)
	us.args = append(us.args, value)
	return us
}

// SetIf adds the assignment only when apply is true.
func (us *UpdateSet) SetIf(apply bool, column string, value interface{}) *UpdateSet {
	if apply {
		return us.Set(column, value)
	}
	return us
}

// Empty reports whether no assignment was added.
func (us *UpdateSet) Empty() bool {
	return len(us.columns) == 0
}

// Build assembles "UPDATE table SET ... WHERE ... RETURNING ..." with the
// filter placeholders numbered after the assignment placeholders. Returns
// the statement and the combined argument list.
func (us *UpdateSet) Build(table string, filter *QueryFilter, returning string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")

	for i, column := range us.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s = $%d", column, i+1))
	}

	suffix := ""
	if returning != "" {
		suffix = "RETURNING " + returning
	}

	query := filter.buildFrom(sb.String(), suffix, len(us.columns)+1)

	args := make([]interface{}, 0, len(us.args)+len(filter.args))
	args = append(args, us.args...)
	args = append(args, filter.Args()...)

	return query, args
}
