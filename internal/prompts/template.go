package prompts

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var variableRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Template is one version of a named prompt. Variables use {{ name }}.
type Template struct {
	Name    string
	Version string
	Text    string
}

// Format substitutes vars into the template. Every variable the template
// references must be supplied.
func (t *Template) Format(vars map[string]string) (string, error) {
	missing := map[string]struct{}{}
	out := variableRe.ReplaceAllStringFunc(t.Text, func(m string) string {
		name := variableRe.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		missing[name] = struct{}{}
		return m
	})
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for n := range missing {
			names = append(names, n)
		}
		sort.Strings(names)
		return "", fmt.Errorf("%w: %s in prompt %s", ErrMissingVariable, strings.Join(names, ", "), t.ref())
	}
	return out, nil
}

// Variables lists the distinct variable names in order of first use.
func (t *Template) Variables() []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range variableRe.FindAllStringSubmatch(t.Text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// String returns the raw template text.
func (t *Template) String() string {
	return t.Text
}

func (t *Template) ref() string {
	if t.Version == "" {
		return t.Name
	}
	return t.Name + "/" + t.Version
}
