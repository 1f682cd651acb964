package resolve

import (
	"fmt"
	"regexp"

	"github.com/samber/lo"
)

// Registry is an ordered collection of strategies. Registration order decides
// which strategy wins when two results have the same confidence.
type Registry struct {
	strategies []Strategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make([]Strategy, 0)}
}

// Register appends a strategy. Names must be unique.
func (r *Registry) Register(s Strategy) error {
	if s.Name == "" {
		return fmt.Errorf("strategy name is required")
	}
	if s.Pattern == nil || s.Handler == nil {
		return fmt.Errorf("strategy %s needs a pattern and a handler", s.Name)
	}
	if _, exists := r.Lookup(s.Name); exists {
		return fmt.Errorf("strategy %s already registered", s.Name)
	}
	r.strategies = append(r.strategies, s)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(s Strategy) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Lookup finds a strategy by name.
func (r *Registry) Lookup(name string) (Strategy, bool) {
	return lo.Find(r.strategies, func(s Strategy) bool {
		return s.Name == name
	})
}

// Strategies returns the strategies in registration order.
func (r *Registry) Strategies() []Strategy {
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Names returns the strategy names in registration order.
func (r *Registry) Names() []string {
	return lo.Map(r.strategies, func(s Strategy, _ int) string {
		return s.Name
	})
}

// Applicable returns the strategies whose pattern matches the file name or
// our side of the conflict, in registration order.
func (r *Registry) Applicable(fileName string, ours []string) []Strategy {
	return lo.Filter(r.strategies, func(s Strategy, _ int) bool {
		return s.Matches(fileName, ours)
	})
}

// Without returns a copy of the registry minus the named strategies.
// Unknown names are reported as an error.
func (r *Registry) Without(names ...string) (*Registry, error) {
	for _, n := range names {
		if _, ok := r.Lookup(n); !ok {
			return nil, fmt.Errorf("unknown strategy: %s", n)
		}
	}

	out := NewRegistry()
	out.strategies = lo.Reject(r.strategies, func(s Strategy, _ int) bool {
		return lo.Contains(names, s.Name)
	})
	return out, nil
}

// Default returns the built-in strategies in their canonical order.
func Default() *Registry {
	r := NewRegistry()

	r.MustRegister(Strategy{
		Name:        "packageJson",
		Description: "merge dependency groups, keep the higher version",
		Pattern:     regexp.MustCompile(`package\.json$`),
		Handler:     ResolveManifest,
	})
	r.MustRegister(Strategy{
		Name:        "packageLock",
		Description: "regenerate lock files with the package manager",
		Pattern:     lockFilePattern,
		Handler:     ResolveLockFile,
	})
	r.MustRegister(Strategy{
		Name:        "changelog",
		Description: "merge changelog entries newest first",
		Pattern:     regexp.MustCompile(`CHANGELOG\.md$`),
		Handler:     ResolveChangelog,
	})
	r.MustRegister(Strategy{
		Name:        "imports",
		Description: "union and sort import statements",
		Pattern:     regexp.MustCompile(`(?m)^import\s+`),
		Handler:     ResolveImports,
	})
	r.MustRegister(Strategy{
		Name:        "version",
		Description: "keep the higher version string",
		Pattern:     regexp.MustCompile(`version["']\s*:\s*["']`),
		Handler:     ResolveVersion,
	})
	r.MustRegister(Strategy{
		Name:        "config",
		Description: "deep merge JSON, YAML and TOML objects",
		Pattern:     regexp.MustCompile(`\.(json|yaml|yml|toml)$`),
		Handler:     ResolveConfig,
	})

	return r
}
