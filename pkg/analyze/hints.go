package analyze

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/utkarsh5026/mergehint/pkg/merge"
	"github.com/utkarsh5026/mergehint/pkg/similarity"
)

const (
	HintTheirsAdds      = "Their side adds new content"
	HintOursAdds        = "Our side adds new content"
	HintFormattingOnly  = "Changes are very similar - likely formatting differences"
	HintVeryDifferent   = "Changes are very different - careful review needed"
	HintOutstandingTask = "Contains TODO comments - check if tasks are completed"
)

var taskMarker = regexp.MustCompile(`\b(TODO|FIXME|XXX)`)

// Hints describes a region that no strategy could resolve.
func Hints(r *merge.Region) []string {
	hints := make([]string, 0)

	if len(r.Ours) == 0 {
		hints = append(hints, HintTheirsAdds)
	}
	if len(r.Theirs) == 0 {
		hints = append(hints, HintOursAdds)
	}

	score := similarity.Similarity(strings.Join(r.Ours, "\n"), strings.Join(r.Theirs, "\n"))
	switch {
	case score > 0.8:
		hints = append(hints, HintFormattingOnly)
	case score < 0.2:
		hints = append(hints, HintVeryDifferent)
	}

	hasTask := func(line string) bool { return taskMarker.MatchString(line) }
	if lo.SomeBy(r.Ours, hasTask) || lo.SomeBy(r.Theirs, hasTask) {
		hints = append(hints, HintOutstandingTask)
	}

	return hints
}
