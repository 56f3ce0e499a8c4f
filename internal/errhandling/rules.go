package errhandling

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Rule applies Response to errors whose name or message matches Pattern.
type Rule struct {
	Pattern  *regexp.Regexp
	Response Response
}

// ParseRule parses "pattern=response[,response...]", e.g. "OpenError=retry,warn".
func ParseRule(s string) (Rule, error) {
	idx := strings.LastIndex(s, "=")
	if idx <= 0 {
		return Rule{}, fmt.Errorf("error rule %q: expected pattern=response", s)
	}

	re, err := regexp.Compile(strings.TrimSpace(s[:idx]))
	if err != nil {
		return Rule{}, fmt.Errorf("error rule %q: %w", s, err)
	}

	resp, err := ParseResponse(s[idx+1:])
	if err != nil {
		return Rule{}, fmt.Errorf("error rule %q: %w", s, err)
	}

	return Rule{Pattern: re, Response: resp}, nil
}

func ParseRules(specs []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for _, s := range specs {
		r, err := ParseRule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// matches reports whether any name in the chain, or the message, matches.
func (r Rule) matches(names []string, msg string) bool {
	for _, n := range names {
		if r.Pattern.MatchString(n) {
			return true
		}
	}
	return r.Pattern.MatchString(msg)
}

func (r Rule) String() string {
	return r.Pattern.String() + "=" + r.Response.String()
}

// Named lets an error report its own classification name.
type Named interface {
	ErrorName() string
}

// GenericName labels errors that carry no type of their own.
const GenericName = "error"

// ErrorNames lists the name of every typed error in the chain, outermost
// first. A Named error contributes its ErrorName; other errors contribute
// their package-qualified type, e.g. "url.Error". Plain wrappers from
// errors.New and fmt.Errorf are skipped.
func ErrorNames(err error) []string {
	var names []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		if n, ok := e.(Named); ok {
			names = append(names, n.ErrorName())
			continue
		}
		t := fmt.Sprintf("%T", e)
		switch t {
		case "*errors.errorString", "*fmt.wrapError", "*fmt.wrapErrors":
			continue
		}
		names = append(names, strings.TrimLeft(t, "*"))
	}
	return names
}

// ErrorName is the innermost typed error in the chain, or GenericName when
// there is none. It is bounded by the set of error types, so it is safe as
// a metric label.
func ErrorName(err error) string {
	if err == nil {
		return ""
	}
	names := ErrorNames(err)
	if len(names) == 0 {
		return GenericName
	}
	return names[len(names)-1]
}
