package filter

import (
	"strconv"
	"strings"
)

type fragmentKind int

const (
	kindDisabled fragmentKind = iota
	kindEverything
	kindNothing
	kindPredicate
)

// Fragment is one composable boolean condition over a table's rows.
// Condition SQL uses ? for every argument position; Render numbers
// them as postgres $n placeholders. A ? may appear nowhere else in
// the SQL. Fragments are immutable values, so composing, discarding
// or re-rendering them is always safe.
//
// Two states match every row and differ only under negation. A
// disabled fragment means "no condition": it drops out of any
// combination and stays disabled when negated, the result of a filter
// with an empty value. The everything fragment is the condition TRUE
// and negates to the nothing fragment, the result of a filter whose
// value the column rejected.
type Fragment struct {
	kind fragmentKind
	sql  string
	args []interface{}
}

// Disabled returns the inert fragment of a switched-off filter. The
// zero Fragment value is disabled.
func Disabled() Fragment {
	return Fragment{kind: kindDisabled}
}

// Everything returns the fragment matching every row
func Everything() Fragment {
	return Fragment{kind: kindEverything}
}

// Nothing returns the fragment matching no row
func Nothing() Fragment {
	return Fragment{kind: kindNothing}
}

// NewFragment creates a predicate fragment from condition SQL and its
// arguments
func NewFragment(sql string, args ...interface{}) Fragment {
	return Fragment{kind: kindPredicate, sql: sql, args: args}
}

// IsDisabled reports whether the fragment is a switched-off filter
func (f Fragment) IsDisabled() bool {
	return f.kind == kindDisabled
}

// IsEverything reports whether the fragment is the TRUE condition
func (f Fragment) IsEverything() bool {
	return f.kind == kindEverything
}

// IsNothing reports whether the fragment matches no row
func (f Fragment) IsNothing() bool {
	return f.kind == kindNothing
}

// Not returns the logical complement of the fragment. Disabled
// fragments stay disabled: negating a filter that is off does not
// switch it on.
func (f Fragment) Not() Fragment {
	switch f.kind {
	case kindDisabled:
		return f
	case kindEverything:
		return Nothing()
	case kindNothing:
		return Everything()
	}
	return Fragment{kind: kindPredicate, sql: "NOT (" + f.sql + ")", args: f.args}
}

// And returns a fragment matching rows that match both operands
func (f Fragment) And(other Fragment) Fragment {
	if f.kind == kindDisabled {
		return other
	}
	if other.kind == kindDisabled {
		return f
	}
	if f.kind == kindNothing || other.kind == kindNothing {
		return Nothing()
	}
	if f.kind == kindEverything {
		return other
	}
	if other.kind == kindEverything {
		return f
	}
	return combine(f, other, " AND ")
}

// Or returns a fragment matching rows that match either operand
func (f Fragment) Or(other Fragment) Fragment {
	if f.kind == kindDisabled {
		return other
	}
	if other.kind == kindDisabled {
		return f
	}
	if f.kind == kindEverything || other.kind == kindEverything {
		return Everything()
	}
	if f.kind == kindNothing {
		return other
	}
	if other.kind == kindNothing {
		return f
	}
	return combine(f, other, " OR ")
}

func combine(a, b Fragment, op string) Fragment {
	args := make([]interface{}, 0, len(a.args)+len(b.args))
	args = append(args, a.args...)
	args = append(args, b.args...)
	return Fragment{
		kind: kindPredicate,
		sql:  "(" + a.sql + op + b.sql + ")",
		args: args,
	}
}

// Render returns the condition as SQL with positional placeholders
// numbered from start, plus the matching arguments
func (f Fragment) Render(start int) (string, []interface{}) {
	switch f.kind {
	case kindDisabled, kindEverything:
		return "TRUE", nil
	case kindNothing:
		return "FALSE", nil
	}
	var b strings.Builder
	n := start
	for i := 0; i < len(f.sql); i++ {
		if f.sql[i] == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteByte(f.sql[i])
	}
	return b.String(), f.args
}
