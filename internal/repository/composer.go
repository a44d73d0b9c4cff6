package repository

import (
	"fmt"
	"strings"
)

// composer assembles a query from a base template plus conditionally
// appended fragments. Each fragment carries its own bound arguments, so the
// argument list can never drift out of order with the placeholders in the
// final text: a fragment and its values are attached atomically, and Build
// refuses templates whose placeholder count disagrees with the argument
// count.
type composer struct {
	sb   strings.Builder
	args []interface{}
	err  error
}

// newComposer starts a query from the base template and its arguments.
func newComposer(base string, args ...interface{}) *composer {
	c := &composer{}
	c.Append(base, args...)
	return c
}

// Append adds a fragment and its bound arguments. The fragment must contain
// exactly one '?' per argument.
func (c *composer) Append(fragment string, args ...interface{}) *composer {
	if c.err != nil {
		return c
	}
	if n := strings.Count(fragment, "?"); n != len(args) {
		c.err = fmt.Errorf("fragment %q has %d placeholders but %d arguments", fragment, n, len(args))
		return c
	}
	c.sb.WriteString(fragment)
	c.args = append(c.args, args...)
	return c
}

// AppendIf adds the fragment only when cond holds, keeping optional
// predicates and their parameters together.
func (c *composer) AppendIf(cond bool, fragment string, args ...interface{}) *composer {
	if !cond {
		return c
	}
	return c.Append(fragment, args...)
}

// Build returns the assembled query text and the argument list in
// placeholder order.
func (c *composer) Build() (string, []interface{}, error) {
	if c.err != nil {
		return "", nil, c.err
	}
	return c.sb.String(), c.args, nil
}
