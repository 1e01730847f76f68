// Package schema holds the schema.org type rules used to judge structured data: required and
// recommended properties per type, the type hierarchy used for specificity, and the AI-priority flags.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// RootType is the root of the type hierarchy.
const RootType = "Thing"

// ErrUnknownType is returned by Lookup for types with no registered rule.
var ErrUnknownType = errors.New("unknown schema type")

// Rule describes one schema.org type.
type Rule struct {
	Type        string
	Parent      string
	Required    []string
	Recommended []string
	// GoogleRequired is the subset of Required that gates rich-result eligibility.
	GoogleRequired []string
	AIPriority     bool
}

// Registry is an immutable, id-indexed table of rules with memoized depths.
// It is safe for concurrent use.
type Registry struct {
	rules    map[string]Rule
	depths   map[string]int
	maxDepth int
}

// Option adjusts the rule table before the registry is validated.
type Option func(map[string]Rule)

// WithAIPriorityTypes replaces the AI-priority flags: exactly the listed types are flagged.
func WithAIPriorityTypes(types ...string) Option {
	return func(rules map[string]Rule) {
		flagged := make(map[string]bool, len(types))
		for _, t := range types {
			flagged[NormalizeType(t)] = true
		}
		for name, r := range rules {
			r.AIPriority = flagged[name]
			rules[name] = r
		}
	}
}

// WithGoogleRequired overrides the Google-required subset of the listed types.
func WithGoogleRequired(subsets map[string][]string) Option {
	return func(rules map[string]Rule) {
		for name, props := range subsets {
			name = NormalizeType(name)
			r, ok := rules[name]
			if !ok {
				continue
			}
			r.GoogleRequired = slices.Clone(props)
			rules[name] = r
		}
	}
}

// New validates rules and builds a registry. Every parent must be registered, the parent chain must
// be acyclic and end at RootType, and GoogleRequired must be a subset of Required.
func New(rules []Rule, opts ...Option) (*Registry, error) {
	table := make(map[string]Rule, len(rules))
	for _, r := range rules {
		if r.Type == "" {
			return nil, errors.New("schema rule without a type name")
		}
		if _, dup := table[r.Type]; dup {
			return nil, fmt.Errorf("duplicate schema rule %q", r.Type)
		}
		r.Required = slices.Clone(r.Required)
		r.Recommended = slices.Clone(r.Recommended)
		r.GoogleRequired = slices.Clone(r.GoogleRequired)
		table[r.Type] = r
	}

	for _, opt := range opts {
		opt(table)
	}

	root, ok := table[RootType]
	if !ok {
		return nil, fmt.Errorf("schema registry needs a %q root rule", RootType)
	}
	if root.Parent != "" {
		return nil, fmt.Errorf("root type %q cannot have a parent", RootType)
	}

	reg := &Registry{rules: table, depths: make(map[string]int, len(table))}
	for name, r := range table {
		if name != RootType && r.Parent == "" {
			return nil, fmt.Errorf("schema type %q has no parent", name)
		}
		for _, p := range r.GoogleRequired {
			if !slices.Contains(r.Required, p) {
				return nil, fmt.Errorf("schema type %q: google-required property %q is not required", name, p)
			}
		}
		depth, err := reg.walkDepth(name)
		if err != nil {
			return nil, err
		}
		reg.depths[name] = depth
		reg.maxDepth = max(reg.maxDepth, depth)
	}

	return reg, nil
}

// walkDepth counts the hops from name to the root.
func (r *Registry) walkDepth(name string) (int, error) {
	depth := 0
	visited := make(map[string]bool)
	for cur := name; cur != RootType; depth++ {
		if visited[cur] {
			return 0, fmt.Errorf("schema type %q: cycle in parent chain at %q", name, cur)
		}
		visited[cur] = true
		rule, ok := r.rules[cur]
		if !ok {
			return 0, fmt.Errorf("schema type %q: parent %q is not registered", name, cur)
		}
		cur = rule.Parent
	}
	return depth, nil
}

// Lookup returns the rule for name. Unregistered types yield an error wrapping ErrUnknownType.
func (r *Registry) Lookup(name string) (Rule, error) {
	rule, ok := r.rules[NormalizeType(name)]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	rule.Required = slices.Clone(rule.Required)
	rule.Recommended = slices.Clone(rule.Recommended)
	rule.GoogleRequired = slices.Clone(rule.GoogleRequired)
	return rule, nil
}

// RuleFor returns the rule for name, or an empty rule carrying only the name for unknown types.
func (r *Registry) RuleFor(name string) Rule {
	rule, err := r.Lookup(name)
	if err != nil {
		return Rule{Type: NormalizeType(name)}
	}
	return rule
}

// Known reports whether name has a registered rule.
func (r *Registry) Known(name string) bool {
	_, ok := r.rules[NormalizeType(name)]
	return ok
}

// SpecificityDepth returns the number of ancestor hops from name to the root; 0 for unknown types.
func (r *Registry) SpecificityDepth(name string) int {
	return r.depths[NormalizeType(name)]
}

// MaxDepth returns the deepest specificity depth in the registry.
func (r *Registry) MaxDepth() int {
	return r.maxDepth
}

// IsAIPriority reports whether name is flagged as an AI-priority type.
func (r *Registry) IsAIPriority(name string) bool {
	return r.rules[NormalizeType(name)].AIPriority
}

// Ancestors returns the parent chain of name from its parent up to the root.
func (r *Registry) Ancestors(name string) []string {
	var chain []string
	rule, ok := r.rules[NormalizeType(name)]
	for ok && rule.Parent != "" {
		chain = append(chain, rule.Parent)
		rule, ok = r.rules[rule.Parent]
	}
	return chain
}

// Types returns every registered type name, sorted.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var vocabularyPrefixes = []string{
	"https://schema.org/",
	"http://schema.org/",
	"https://www.schema.org/",
	"http://www.schema.org/",
	"schema:",
}

// NormalizeType strips schema.org vocabulary prefixes: "schema:Article" and
// "https://schema.org/Article" both become "Article".
func NormalizeType(name string) string {
	name = strings.TrimSpace(name)
	for _, prefix := range vocabularyPrefixes {
		if len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
			return name[len(prefix):]
		}
	}
	return name
}
