package virtdata

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ParseError reports a binding expression that could not be turned into a mapper.
type ParseError struct {
	Expr   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("virtdata: cannot parse %q: %s", e.Expr, e.Reason)
}

// Example documents one usage of a registered function.
type Example struct {
	Expr string
	Desc string
}

type constructor struct {
	arity    int
	build    func(args []int64) LongUnaryOperator
	examples []Example
}

var registry = map[string]constructor{
	"Max": {
		arity: 1,
		build: func(args []int64) LongUnaryOperator { return NewMax(args[0]) },
		examples: []Example{
			{Expr: "Max(42L)", Desc: "take the value of 42L or the input, which ever is greater"},
			{Expr: "Max(-42L)", Desc: "take the value of -42L or the input, which ever is greater"},
		},
	},
}

var callPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*\(([^()]*)\)\s*$`)

// Parse builds a mapper from an expression such as "Max(42L)".
func Parse(expr string) (LongUnaryOperator, error) {
	m := callPattern.FindStringSubmatch(expr)
	if m == nil {
		return nil, &ParseError{Expr: expr, Reason: "expected Name(args)"}
	}

	name, rawArgs := m[1], strings.TrimSpace(m[2])
	c, ok := registry[name]
	if !ok {
		return nil, &ParseError{Expr: expr, Reason: fmt.Sprintf("unknown function %s", name)}
	}

	var args []int64
	if rawArgs != "" {
		for _, a := range strings.Split(rawArgs, ",") {
			v, err := parseLong(a)
			if err != nil {
				return nil, &ParseError{Expr: expr, Reason: err.Error()}
			}
			args = append(args, v)
		}
	}

	if len(args) != c.arity {
		return nil, &ParseError{
			Expr:   expr,
			Reason: fmt.Sprintf("%s takes %d argument(s), got %d", name, c.arity, len(args)),
		}
	}

	return c.build(args), nil
}

// Functions lists registered function names in sorted order.
func Functions() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Examples returns the usage examples for a registered function.
func Examples(name string) []Example {
	c, ok := registry[name]
	if !ok {
		return nil
	}
	out := make([]Example, len(c.examples))
	copy(out, c.examples)
	return out
}

func parseLong(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "L"), "l")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid long %q", s)
	}
	return v, nil
}

func formatCall(name string, args ...int64) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strconv.FormatInt(a, 10) + "L"
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}
