package generator

import (
	"fmt"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// aiplatformModule is pinned to the release line the rendered runner and
// submission service are written against.
const aiplatformModule = "cloud.google.com/go/aiplatform@v1.68.0"

// baselineModules are unioned in whenever requirements are inferred rather
// than declared.
var baselineModules = []string{
	"cloud.google.com/go/bigquery",
	"cloud.google.com/go/pubsub",
	"cloud.google.com/go/storage",
	"google.golang.org/api",
}

// synthesizeRequirements builds the component-base dependency list. When
// any component declares packages the declared union is used verbatim;
// otherwise requirements are inferred from the rendered task sources and
// unioned with the baseline. Either way the orchestration module is pinned,
// empties dropped, and the result sorted and deduplicated.
func synthesizeRequirements(components []*domain.ComponentSpec) ([]byte, error) {
	var modules []string
	declared := false
	for _, c := range components {
		if len(c.Packages) > 0 {
			declared = true
			modules = append(modules, c.Packages...)
		}
	}
	if !declared {
		inferred, err := inferModules(components)
		if err != nil {
			return nil, err
		}
		modules = append(inferred, baselineModules...)
	}
	modules = append(modules, aiplatformModule)

	seen := make(map[string]struct{}, len(modules))
	var out []string
	for _, m := range modules {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return []byte(strings.Join(out, "\n") + "\n"), nil
}

// inferModules parses each rendered task source and collects its
// non-stdlib import paths. Standard library packages have no dot in
// their first path segment and need no install step.
func inferModules(components []*domain.ComponentSpec) ([]string, error) {
	var modules []string
	for _, c := range components {
		src, err := renderTaskSource(c)
		if err != nil {
			return nil, err
		}
		fset := token.NewFileSet()
		parsed, err := parser.ParseFile(fset, c.Name+".go", src, parser.ImportsOnly)
		if err != nil {
			return nil, fmt.Errorf("parse rendered task %s: %w", c.Name, err)
		}
		for _, spec := range parsed.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			first := path
			if i := strings.IndexByte(path, '/'); i >= 0 {
				first = path[:i]
			}
			if strings.Contains(first, ".") {
				modules = append(modules, path)
			}
		}
	}
	return modules, nil
}
