// Package analyze matches conflict regions against resolution strategies
// and collects the candidate resolutions for review.
package analyze

import (
	"path/filepath"

	"github.com/utkarsh5026/mergehint/pkg/merge"
	"github.com/utkarsh5026/mergehint/pkg/resolve"
	"go.uber.org/zap"
)

// ManualStrategy names the fallback suggestion produced when no strategy
// could resolve a region.
const ManualStrategy = "manual"

// Suggestion is a resolution candidate tagged with the strategy that made it.
type Suggestion struct {
	Strategy string `json:"strategy"`
	resolve.Result
	// Hints are only set on the manual fallback
	Hints []string `json:"hints,omitempty"`
}

// RegionReport holds everything the analyzer found for one region.
type RegionReport struct {
	// Index is the position of the region in its file (0-based)
	Index int `json:"index"`
	// Region is the parsed conflict
	Region *merge.Region `json:"region"`
	// Suggestions are the usable candidates in registration order, or the
	// manual fallback
	Suggestions []Suggestion `json:"suggestions"`
	// Rejected are strategies that matched but could not produce anything
	Rejected []Suggestion `json:"rejected,omitempty"`
}

// Best returns the preferred suggestion of the region.
func (r RegionReport) Best() (Suggestion, bool) {
	return Best(r.Suggestions)
}

// Analyzer runs a strategy registry against conflict regions.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	registry *resolve.Registry
	logger   *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// New creates an analyzer. A nil registry means resolve.Default().
func New(registry *resolve.Registry, opts ...Option) *Analyzer {
	if registry == nil {
		registry = resolve.Default()
	}
	a := &Analyzer{
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the candidate resolutions for one region of the file at
// path. When no strategy produces a resolution or an action, the result is
// a single manual suggestion with confidence 0 and generic hints.
func (a *Analyzer) Analyze(path string, r *merge.Region) []Suggestion {
	return a.AnalyzeRegion(path, 0, r).Suggestions
}

// AnalyzeRegion is Analyze plus the bookkeeping used by reports.
func (a *Analyzer) AnalyzeRegion(path string, index int, r *merge.Region) RegionReport {
	report := RegionReport{Index: index, Region: r}
	fileName := filepath.Base(path)

	in := resolve.Input{
		Path:   path,
		Ours:   r.Ours,
		Theirs: r.Theirs,
		Base:   r.Base,
	}

	for _, s := range a.registry.Applicable(fileName, r.Ours) {
		res := s.Handler(in)
		a.logger.Debug("strategy evaluated",
			zap.String("file", path),
			zap.Int("conflict", index+1),
			zap.String("strategy", s.Name),
			zap.Float64("confidence", res.Confidence),
			zap.Bool("usable", res.Usable()),
		)

		suggestion := Suggestion{Strategy: s.Name, Result: res}
		if res.Usable() {
			report.Suggestions = append(report.Suggestions, suggestion)
		} else {
			report.Rejected = append(report.Rejected, suggestion)
		}
	}

	if len(report.Suggestions) == 0 {
		report.Suggestions = []Suggestion{{
			Strategy: ManualStrategy,
			Result: resolve.Result{
				Confidence:  0,
				Explanation: "Manual resolution required",
			},
			Hints: Hints(r),
		}}
	}

	return report
}

// Best picks the suggestion with the highest confidence. On a tie the
// earlier one, which comes from the earlier registered strategy, wins.
func Best(suggestions []Suggestion) (Suggestion, bool) {
	if len(suggestions) == 0 {
		return Suggestion{}, false
	}

	best := suggestions[0]
	for _, s := range suggestions[1:] {
		if s.Confidence > best.Confidence {
			best = s
		}
	}
	return best, true
}
