package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

//go:embed templates.yaml
var builtinYAML []byte

var (
	builtinOnce sync.Once
	builtin     map[string]Category
	builtinErr  error
)

// Entry is one canned template.
type Entry struct {
	Description string `yaml:"description"`
	// Requires is a semver constraint on the target Python version.
	Requires string `yaml:"requires"`
	Text     string `yaml:"text"`
}

// Category groups the subtypes of one domain.
type Category struct {
	Description string           `yaml:"description"`
	Subtypes    map[string]Entry `yaml:"subtypes"`
}

// Library is a read-only template table. It is safe for concurrent use.
type Library struct {
	categories map[string]Category
	target     *semver.Version
}

// Builtin returns the embedded library.
func Builtin() (*Library, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = parse(builtinYAML, "templates.yaml")
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	return &Library{categories: builtin}, nil
}

// Load returns the built-in library extended with every *.yaml file in dir.
// User entries replace built-in entries with the same key. A missing dir is
// not an error.
func Load(dir string) (*Library, error) {
	lib, err := Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return lib, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing templates in %s: %w", dir, err)
	}
	if len(files) == 0 {
		return lib, nil
	}
	sort.Strings(files)

	merged := make(map[string]Category, len(lib.categories))
	for name, cat := range lib.categories {
		merged[name] = cloneCategory(cat)
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading templates file %s: %w", path, err)
		}
		user, err := parse(data, path)
		if err != nil {
			return nil, err
		}
		for name, cat := range user {
			existing, ok := merged[name]
			if !ok {
				merged[name] = cat
				continue
			}
			if cat.Description != "" {
				existing.Description = cat.Description
			}
			for sub, e := range cat.Subtypes {
				existing.Subtypes[sub] = e
			}
			merged[name] = existing
		}
	}

	return &Library{categories: merged}, nil
}

// WithTarget returns a view of l that gates entries on the given Python
// version. An empty version disables gating.
func (l *Library) WithTarget(version string) (*Library, error) {
	if version == "" {
		return &Library{categories: l.categories}, nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("parsing target version %q: %w", version, err)
	}
	return &Library{categories: l.categories, target: v}, nil
}

// Lookup returns the template text for category and subtype, or a comment
// stating the combination is unavailable.
func (l *Library) Lookup(category, subtype string) string {
	e, ok := l.Entry(category, subtype)
	if !ok {
		return Unavailable(category, subtype)
	}
	if l.target != nil && e.Requires != "" {
		// Constraints were checked when the table was parsed.
		c, _ := semver.NewConstraint(e.Requires)
		if !c.Check(l.target) {
			return fmt.Sprintf("# Template '%s/%s' is unavailable: requires Python %s (target %s).",
				category, subtype, e.Requires, l.target.Original())
		}
	}
	return strings.TrimRight(e.Text, "\n")
}

// Entry returns the raw entry for category and subtype.
func (l *Library) Entry(category, subtype string) (Entry, bool) {
	cat, ok := l.categories[category]
	if !ok {
		return Entry{}, false
	}
	e, ok := cat.Subtypes[subtype]
	return e, ok
}

// HasCategory reports whether category is in the table.
func (l *Library) HasCategory(category string) bool {
	_, ok := l.categories[category]
	return ok
}

// Categories returns the category names in sorted order.
func (l *Library) Categories() []string {
	names := make([]string, 0, len(l.categories))
	for name := range l.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the description of category.
func (l *Library) Describe(category string) string {
	return l.categories[category].Description
}

// Subtypes returns the subtype names of category in sorted order.
func (l *Library) Subtypes(category string) []string {
	cat := l.categories[category]
	names := make([]string, 0, len(cat.Subtypes))
	for name := range cat.Subtypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unavailable is the placeholder emitted for a missing template.
func Unavailable(category, subtype string) string {
	return fmt.Sprintf("# Template '%s/%s' is unavailable.", category, subtype)
}

func parse(data []byte, source string) (map[string]Category, error) {
	var cats map[string]Category
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", source, err)
	}
	for name, cat := range cats {
		if cat.Subtypes == nil {
			cat.Subtypes = map[string]Entry{}
			cats[name] = cat
		}
		for sub, e := range cat.Subtypes {
			if strings.TrimSpace(e.Text) == "" {
				return nil, fmt.Errorf("template %s/%s in %s has no text", name, sub, source)
			}
			if e.Requires == "" {
				continue
			}
			if _, err := semver.NewConstraint(e.Requires); err != nil {
				return nil, fmt.Errorf("template %s/%s in %s: invalid requires %q: %w", name, sub, source, e.Requires, err)
			}
		}
	}
	return cats, nil
}

func cloneCategory(c Category) Category {
	subs := make(map[string]Entry, len(c.Subtypes))
	for k, v := range c.Subtypes {
		subs[k] = v
	}
	return Category{Description: c.Description, Subtypes: subs}
}
