package resolve

import (
	"fmt"
	"regexp"
	"strings"
)

var versionAssignment = regexp.MustCompile(`["']?version["']?\s*:\s*["']([^"']+)["']`)

// ResolveVersion keeps our lines but bumps the version to the higher of the
// two sides.
func ResolveVersion(in Input) Result {
	ours, okOurs := extractVersion(in.Ours)
	theirs, okTheirs := extractVersion(in.Theirs)
	if !okOurs || !okTheirs {
		return failed("Could not detect version numbers")
	}

	higher := HigherVersion(ours, theirs)

	lines := make([]string, len(in.Ours))
	for i, line := range in.Ours {
		lines[i] = replaceVersionToken(line, higher)
	}

	return resolved(lines, 0.8, fmt.Sprintf("Using higher version: %s", higher))
}

func extractVersion(lines []string) (string, bool) {
	m := versionAssignment.FindStringSubmatch(strings.Join(lines, " "))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func replaceVersionToken(line, v string) string {
	var b strings.Builder
	last := 0
	for _, loc := range versionAssignment.FindAllStringSubmatchIndex(line, -1) {
		b.WriteString(line[last:loc[2]])
		b.WriteString(v)
		last = loc[3]
	}
	b.WriteString(line[last:])
	return b.String()
}
