package resolve

import (
	"fmt"
	"regexp"
	"strings"
)

// Action tags a result that needs an external step instead of a textual edit.
type Action string

const (
	// ActionNone means the result is a plain textual resolution
	ActionNone Action = ""

	// ActionRegenerate means the file should be regenerated from its source
	// manifest by a package manager
	ActionRegenerate Action = "regenerate"
)

// Input is the read-only view of a conflict region handed to a strategy.
// Handlers must not modify the slices.
type Input struct {
	// Path is the path of the conflicted file
	Path string
	// Ours holds the lines of our version
	Ours []string
	// Theirs holds the lines of their version
	Theirs []string
	// Base holds the common ancestor lines, empty when the conflict
	// was written without diff3 markers
	Base []string
}

// Result is the outcome of resolving one region with one strategy.
type Result struct {
	// Lines is the proposed content, nil when the strategy could not resolve
	Lines []string `json:"lines,omitempty"`
	// Confidence is a heuristic in [0, 1]
	Confidence float64 `json:"confidence"`
	// Explanation describes what the strategy did
	Explanation string `json:"explanation"`
	// Action is set when the result requires an external step
	Action Action `json:"action,omitempty"`
	// Command is the suggested command for ActionRegenerate
	Command string `json:"command,omitempty"`
}

// Resolved reports whether the result carries replacement lines.
func (r Result) Resolved() bool {
	return r.Lines != nil
}

// Usable reports whether the result is worth showing: either it resolves
// the region or it asks for an external action.
func (r Result) Usable() bool {
	return r.Resolved() || r.Action != ActionNone
}

// resolved builds a successful textual result.
func resolved(lines []string, confidence float64, explanation string) Result {
	if lines == nil {
		lines = []string{}
	}
	return Result{Lines: lines, Confidence: confidence, Explanation: explanation}
}

// failed builds a result with zero confidence and no lines.
func failed(format string, args ...any) Result {
	return Result{Explanation: fmt.Sprintf(format, args...)}
}

// Handler resolves a region.
type Handler func(in Input) Result

// Strategy is a named resolution rule.
type Strategy struct {
	// Name is the unique key of the strategy
	Name string
	// Description is a short human readable summary
	Description string
	// Pattern is tested against the file base name and the joined "ours" block
	Pattern *regexp.Regexp
	// Handler produces the resolution
	Handler Handler
}

// Matches reports whether the strategy applies to a file name or to the
// content of our side of a conflict.
func (s Strategy) Matches(fileName string, ours []string) bool {
	if s.Pattern.MatchString(fileName) {
		return true
	}
	return s.Pattern.MatchString(strings.Join(ours, "\n"))
}
