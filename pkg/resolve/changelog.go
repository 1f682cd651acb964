package resolve

import (
	"regexp"
	"slices"
	"sort"
)

// changelogHeading starts a new entry: "## 2024-01-31", "# [1.4.0]", ...
var changelogHeading = regexp.MustCompile(`^##?\s*\[?(\d{4}-\d{2}-\d{2}|\d+\.\d+\.\d+)`)

type changelogEntry struct {
	token string
	lines []string
}

// ResolveChangelog keeps the entries of both sides and orders the dated or
// versioned ones newest first.
//
// Tokens are compared as raw strings, which is only right for ISO dates and
// uniformly formatted versions. Entries without a token keep their position.
func ResolveChangelog(in Input) Result {
	entries := splitChangelog(slices.Concat(in.Ours, in.Theirs))

	var slots []int
	for i, e := range entries {
		if e.token != "" {
			slots = append(slots, i)
		}
	}

	dated := make([]changelogEntry, len(slots))
	for i, slot := range slots {
		dated[i] = entries[slot]
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].token > dated[j].token
	})
	for i, slot := range slots {
		entries[slot] = dated[i]
	}

	lines := make([]string, 0, len(in.Ours)+len(in.Theirs))
	for _, e := range entries {
		lines = append(lines, e.lines...)
	}

	return resolved(lines, 0.7, "Merged changelog entries chronologically")
}

func splitChangelog(lines []string) []changelogEntry {
	var entries []changelogEntry
	var current *changelogEntry

	for _, line := range lines {
		if m := changelogHeading.FindStringSubmatch(line); m != nil {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &changelogEntry{token: m[1], lines: []string{line}}
			continue
		}
		if current == nil {
			current = &changelogEntry{}
		}
		current.lines = append(current.lines, line)
	}

	if current != nil {
		entries = append(entries, *current)
	}
	return entries
}
