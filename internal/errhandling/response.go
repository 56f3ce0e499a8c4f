package errhandling

import (
	"fmt"
	"strings"
)

// Response is a set of actions to take for a classified error.
type Response uint8

const (
	Stop Response = 1 << iota
	Warn
	Retry
	Histogram
	Count
	Ignore
)

var responseNames = []struct {
	r    Response
	name string
}{
	{Stop, "stop"},
	{Warn, "warn"},
	{Retry, "retry"},
	{Histogram, "histogram"},
	{Count, "count"},
	{Ignore, "ignore"},
}

func (r Response) Has(other Response) bool {
	return r&other != 0
}

func (r Response) String() string {
	var parts []string
	for _, n := range responseNames {
		if r.Has(n.r) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParseResponse parses a comma separated list such as "warn,count".
func ParseResponse(s string) (Response, error) {
	var r Response
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for _, n := range responseNames {
			if n.name == part {
				r |= n.r
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown error response %q", part)
		}
	}
	if r == 0 {
		return 0, fmt.Errorf("empty error response %q", s)
	}
	return r, nil
}
