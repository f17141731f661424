package query

import (
	"fmt"
	"strings"

	"github.com/safing/objectbase/database/accessor"
)

// Example:
// q.New().Where(
//   q.And(
//     q.Where("a", q.GreaterThan, 0),
//     q.Where("b", q.Equals, 0),
//     q.Or(
//       q.Where("c", q.StartsWith, "x"),
//       q.Where("d", q.Contains, "y"),
//     ),
//   ),
// )

// Query contains a compiled query. Building and checking a query modifies
// it, so a query must not be changed while another goroutine uses it.
// Use Copy to derive a query from a shared one.
type Query struct {
	checked bool
	where   Condition
	limit   int
	offset  int
}

// New creates a new query.
func New() *Query {
	return &Query{}
}

// Copy returns a copy of the query. Conditions are immutable and shared.
func (q *Query) Copy() *Query {
	c := *q
	return &c
}

// Where adds filtering.
func (q *Query) Where(condition Condition) *Query {
	q.where = condition
	q.checked = false
	return q
}

// Limit limits the number of returned results.
func (q *Query) Limit(limit int) *Query {
	q.limit = limit
	return q
}

// Offset sets the query offset.
func (q *Query) Offset(offset int) *Query {
	q.offset = offset
	return q
}

// Check checks for errors in the query.
func (q *Query) Check() (*Query, error) {
	if q.checked {
		return q, nil
	}

	if q.limit < 0 || q.offset < 0 {
		return nil, &PredicateError{Msg: "limit and offset must not be negative"}
	}

	// check condition
	if q.where != nil {
		err := q.where.check()
		if err != nil {
			return nil, err
		}
	} else {
		q.where = &noCond{}
	}

	q.checked = true
	return q, nil
}

// MustBeValid checks for errors in the query and panics if there is an error.
func (q *Query) MustBeValid() *Query {
	_, err := q.Check()
	if err != nil {
		panic(err)
	}
	return q
}

// IsChecked returns whether they query was checked.
func (q *Query) IsChecked() bool {
	return q.checked
}

// Matches checks whether the query matches the supplied data object.
// The query must be checked first.
func (q *Query) Matches(acc accessor.Accessor) bool {
	if q.where == nil {
		return true
	}
	return q.where.complies(acc)
}

// Window applies offset and limit to a result count and returns the
// resulting start and end positions.
func (q *Query) Window(total int) (start, end int) {
	start = q.offset
	if start > total {
		start = total
	}
	end = total
	if q.limit > 0 && q.limit < end-start {
		end = start + q.limit
	}
	return start, end
}

// Print returns the string representation of the query.
func (q *Query) Print() string {
	var where string
	if q.where != nil {
		where = q.where.string()
	}
	if where != "" {
		if strings.HasPrefix(where, "(") {
			where = where[1 : len(where)-1]
		}
		where = fmt.Sprintf(" where %s", where)
	}

	var limit string
	if q.limit > 0 {
		limit = fmt.Sprintf(" limit %d", q.limit)
	}

	var offset string
	if q.offset > 0 {
		offset = fmt.Sprintf(" offset %d", q.offset)
	}

	return fmt.Sprintf("query%s%s%s", where, limit, offset)
}
