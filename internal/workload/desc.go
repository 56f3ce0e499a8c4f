package workload

import "sort"

// Set is an unordered collection of unique names.
type Set map[string]struct{}

func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order, for display only.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

func (s Set) clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for item := range s {
		out[item] = struct{}{}
	}
	return out
}

// Desc describes one workload file: where it lives, the scenarios it
// declares in presentation order, and the template variables it accepts.
// A Desc is never modified after construction.
type Desc struct {
	yamlPath      string
	scenarioNames []string
	templates     Set
}

// NewDesc stores its arguments verbatim. No validation is done here.
func NewDesc(yamlPath string, scenarioNames []string, templates Set) Desc {
	var names []string
	if scenarioNames != nil {
		names = make([]string, len(scenarioNames))
		copy(names, scenarioNames)
	}
	return Desc{
		yamlPath:      yamlPath,
		scenarioNames: names,
		templates:     templates.clone(),
	}
}

func (d Desc) YAMLPath() string {
	return d.yamlPath
}

func (d Desc) ScenarioNames() []string {
	if d.scenarioNames == nil {
		return nil
	}
	out := make([]string, len(d.scenarioNames))
	copy(out, d.scenarioNames)
	return out
}

func (d Desc) Templates() Set {
	return d.templates.clone()
}
