package workload

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrNoScenarios = errors.New("workload has no scenarios")

var (
	// TEMPLATE(name) or TEMPLATE(name,default)
	templateCall = regexp.MustCompile(`TEMPLATE\(\s*([A-Za-z0-9_.\-]+)`)
	// <<name>> or <<name:default>>
	templateAngle = regexp.MustCompile(`<<([A-Za-z0-9_.\-]+)(?::[^>]*)?>>`)
)

// Load reads a workload YAML file and describes it.
func Load(path string) (Desc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Desc{}, fmt.Errorf("read workload %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse describes workload YAML already in memory. path is recorded as given.
func Parse(path string, data []byte) (Desc, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Desc{}, fmt.Errorf("parse workload %s: %w", path, err)
	}

	scenarios := scenarioNames(&doc)
	if len(scenarios) == 0 {
		return Desc{}, fmt.Errorf("%s: %w", path, ErrNoScenarios)
	}

	return NewDesc(path, scenarios, templateNames(data)), nil
}

// Discover walks dir and describes every workload file with scenarios.
// Files that fail to parse are logged and skipped.
func Discover(dir string, logger *zap.Logger) ([]Desc, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var found []Desc
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}

		desc, err := Load(path)
		switch {
		case errors.Is(err, ErrNoScenarios):
			logger.Debug("Skipping file without scenarios", zap.String("path", path))
			return nil
		case err != nil:
			logger.Warn("Skipping unreadable workload", zap.String("path", path), zap.Error(err))
			return nil
		}

		found = append(found, desc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover workloads in %s: %w", dir, err)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].YAMLPath() < found[j].YAMLPath()
	})
	return found, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func scenarioNames(doc *yaml.Node) []string {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "scenarios" {
			continue
		}
		scenarios := root.Content[i+1]
		if scenarios.Kind != yaml.MappingNode {
			return nil
		}
		// mapping keys keep document order
		var names []string
		for j := 0; j+1 < len(scenarios.Content); j += 2 {
			names = append(names, scenarios.Content[j].Value)
		}
		return names
	}
	return nil
}

func templateNames(data []byte) Set {
	s := NewSet()
	for _, re := range []*regexp.Regexp{templateCall, templateAngle} {
		for _, m := range re.FindAllSubmatch(data, -1) {
			s[string(m[1])] = struct{}{}
		}
	}
	return s
}
