package merge

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	// ConflictMarkerStart marks the beginning of "ours" section
	ConflictMarkerStart = "<<<<<<<"

	// ConflictMarkerSeparator separates "ours" from "theirs"
	ConflictMarkerSeparator = "======="

	// ConflictMarkerEnd marks the end of "theirs" section
	ConflictMarkerEnd = ">>>>>>>"

	// ConflictMarkerBase marks the beginning of "base" section (for diff3 style)
	ConflictMarkerBase = "|||||||"
)

// Side names one of the variants of a conflict region.
type Side string

const (
	SideOurs   Side = "ours"
	SideBase   Side = "base"
	SideTheirs Side = "theirs"
)

// ParseSide converts a user supplied version name into a Side.
// Git's stage numbers (1 base, 2 ours, 3 theirs) are accepted too.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "ours", "2":
		return SideOurs, nil
	case "theirs", "3":
		return SideTheirs, nil
	case "base", "1":
		return SideBase, nil
	default:
		return "", fmt.Errorf("invalid version: %s (must be 'ours', 'theirs', or 'base')", s)
	}
}

// Region is one conflict block found in a file.
type Region struct {
	// StartLine is the line of the <<<<<<< marker (0-indexed)
	StartLine int `json:"startLine"`

	// MiddleLine is the line of the ||||||| marker, or -1 when the
	// conflict was written without a base section
	MiddleLine int `json:"middleLine"`

	// EndLine is the line of the >>>>>>> marker (0-indexed)
	EndLine int `json:"endLine"`

	// OursLabel is the text after the start marker (e.g., "HEAD")
	OursLabel string `json:"oursLabel,omitempty"`

	// BaseLabel is the text after the base marker, if any
	BaseLabel string `json:"baseLabel,omitempty"`

	// TheirsLabel is the text after the end marker (e.g., "feature-branch")
	TheirsLabel string `json:"theirsLabel,omitempty"`

	// Ours holds the lines of our version. Never nil.
	Ours []string `json:"ours"`

	// Theirs holds the lines of their version. Never nil.
	Theirs []string `json:"theirs"`

	// Base holds the common ancestor lines. Nil unless a base marker was seen.
	Base []string `json:"base,omitempty"`
}

// HasBase reports whether the region was written in diff3 style.
func (r *Region) HasBase() bool {
	return r.MiddleLine >= 0
}

// Lines returns the content of the given side.
func (r *Region) Lines(side Side) []string {
	switch side {
	case SideOurs:
		return r.Ours
	case SideTheirs:
		return r.Theirs
	case SideBase:
		return r.Base
	default:
		return nil
	}
}

// String returns a short description such as "lines 3-9".
func (r *Region) String() string {
	return fmt.Sprintf("lines %d-%d", r.StartLine+1, r.EndLine+1)
}

// SplitLines splits file content into lines the way the parser sees them.
// A trailing "\r" is removed from every line.
func SplitLines(content []byte) []string {
	raw := strings.Split(string(content), "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Parse extracts all conflict regions from file content, in file order.
func Parse(content []byte) []*Region {
	return ParseLines(SplitLines(content))
}

// ParseLines extracts all conflict regions from lines, in file order.
//
// Malformed input is never an error. A region that is still open at the end
// of the input is dropped. A start marker seen while a region is open
// discards the open region. Base, separator and end markers outside of a
// region are ignored.
func ParseLines(lines []string) []*Region {
	var regions []*Region
	var current *Region
	var section Side

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, ConflictMarkerStart):
			current = &Region{
				StartLine:  i,
				MiddleLine: -1,
				EndLine:    -1,
				OursLabel:  markerLabel(line),
				Ours:       make([]string, 0),
				Theirs:     make([]string, 0),
			}
			section = SideOurs

		case strings.HasPrefix(line, ConflictMarkerBase):
			if current == nil {
				continue
			}
			current.MiddleLine = i
			current.BaseLabel = markerLabel(line)
			if current.Base == nil {
				current.Base = make([]string, 0)
			}
			section = SideBase

		case strings.HasPrefix(line, ConflictMarkerSeparator):
			if current == nil {
				continue
			}
			section = SideTheirs

		case strings.HasPrefix(line, ConflictMarkerEnd):
			if current == nil {
				continue
			}
			current.EndLine = i
			current.TheirsLabel = markerLabel(line)
			regions = append(regions, current)
			current = nil
			section = ""

		case current != nil:
			switch section {
			case SideOurs:
				current.Ours = append(current.Ours, line)
			case SideBase:
				current.Base = append(current.Base, line)
			case SideTheirs:
				current.Theirs = append(current.Theirs, line)
			}
		}
	}

	return regions
}

func markerLabel(line string) string {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) > 1 {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// HasConflictMarkers reports whether any line opens or closes a conflict.
// A bare separator line is not enough: "=======" also underlines setext
// headings in Markdown.
func HasConflictMarkers(content []byte) bool {
	for _, line := range SplitLines(content) {
		if strings.HasPrefix(line, ConflictMarkerStart) || strings.HasPrefix(line, ConflictMarkerEnd) {
			return true
		}
	}
	return false
}

// LineEnding returns "\r\n" when the first line of content ends with it and
// "\n" otherwise.
func LineEnding(content []byte) string {
	i := bytes.IndexByte(content, '\n')
	if i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Markers writes the region back in conflict-marker form, the inverse of
// ParseLines. The base section is written only for diff3 regions.
func (r *Region) Markers() []string {
	out := make([]string, 0, len(r.Ours)+len(r.Base)+len(r.Theirs)+4)

	out = append(out, markerLine(ConflictMarkerStart, r.OursLabel))
	out = append(out, r.Ours...)
	if r.HasBase() {
		out = append(out, markerLine(ConflictMarkerBase, r.BaseLabel))
		out = append(out, r.Base...)
	}
	out = append(out, ConflictMarkerSeparator)
	out = append(out, r.Theirs...)

	return append(out, markerLine(ConflictMarkerEnd, r.TheirsLabel))
}

func markerLine(marker, label string) string {
	if label == "" {
		return marker
	}
	return marker + " " + label
}

// Splice rewrites lines, replacing each region that has an entry in
// replacements with those lines. Regions without a replacement keep their
// markers. regions must come from parsing the same lines.
func Splice(lines []string, regions []*Region, replacements map[int][]string) ([]string, error) {
	out := make([]string, 0, len(lines))
	next := 0

	for idx, r := range regions {
		if r.StartLine < next || r.EndLine >= len(lines) || r.StartLine >= r.EndLine {
			return nil, fmt.Errorf("conflict %d (%s) does not fit the content", idx+1, r)
		}

		repl, ok := replacements[idx]
		if !ok {
			continue
		}

		out = append(out, lines[next:r.StartLine]...)
		out = append(out, repl...)
		next = r.EndLine + 1
	}

	out = append(out, lines[next:]...)
	return out, nil
}

// KeepSide resolves every region in content by keeping one side. The line
// ending of content is preserved.
func KeepSide(content []byte, side Side) ([]byte, error) {
	lines := SplitLines(content)
	regions := ParseLines(lines)
	if len(regions) == 0 {
		return content, nil
	}

	replacements := make(map[int][]string, len(regions))
	for i, r := range regions {
		if side == SideBase && !r.HasBase() {
			return nil, fmt.Errorf("conflict %d (%s) has no base version", i+1, r)
		}
		replacements[i] = r.Lines(side)
	}

	out, err := Splice(lines, regions, replacements)
	if err != nil {
		return nil, err
	}
	return []byte(strings.Join(out, LineEnding(content))), nil
}
