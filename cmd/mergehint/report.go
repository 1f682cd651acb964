package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/utkarsh5026/mergehint/cmd/ui"
	"github.com/utkarsh5026/mergehint/pkg/analyze"
	"github.com/utkarsh5026/mergehint/pkg/resolve"
)

type textRenderer struct {
	w             io.Writer
	previewLines  int
	minConfidence float64
	showAll       bool
	verbose       bool
}

func (r textRenderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r textRenderer) render(paths []string, reports []analyze.FileReport) {
	r.printf("%s Merge Conflict Resolution Helper\n\n", ui.IconRobot)

	r.printf("Found %d files with conflicts:\n\n", len(paths))
	for _, p := range paths {
		r.printf("  - %s\n", ui.Cyan(p))
	}
	r.printf("\n")

	for _, report := range reports {
		r.renderFile(report)
	}

	r.renderSummary(reports)
}

func (r textRenderer) renderFile(report analyze.FileReport) {
	if !report.HasConflicts() {
		r.printf("%s %s - No conflicts found\n", ui.Green(ui.IconCheck), report.Path)
		return
	}

	total := len(report.Regions)
	r.printf("\n%s %s\n", ui.IconFile, ui.Cyan(report.Path))
	r.printf("Conflicts: %d\n\n", total)

	for _, region := range report.Regions {
		r.renderRegion(region, total)
	}

	if report.RegenerateCommand != "" {
		name := filepath.Base(report.Path)
		r.printf("\n%s %s detected\n", ui.IconPackage, ui.Yellow(name))
		r.printf("Recommended action:\n")
		r.printf("  1. Resolve manifest conflicts first\n")
		r.printf("  2. Delete %s\n", name)
		r.printf("  3. Run: %s\n", ui.Cyan(report.RegenerateCommand))
		r.printf("  4. Commit the regenerated %s\n\n", name)
	}
}

func (r textRenderer) renderRegion(region analyze.RegionReport, total int) {
	c := region.Region

	r.printf("%s %s (%s):\n", ui.IconConflict, ui.Yellow(fmt.Sprintf("Conflict %d/%d", region.Index+1, total)), c)
	r.printf("%s\n", ui.Rule(60))

	shown := *c
	shown.Ours = r.truncate(c.Ours)
	shown.Base = r.truncate(c.Base)
	shown.Theirs = r.truncate(c.Theirs)
	if shown.OursLabel == "" {
		shown.OursLabel = "OURS"
	}
	if shown.TheirsLabel == "" {
		shown.TheirsLabel = "THEIRS"
	}
	for _, line := range shown.Markers() {
		r.printf("%s\n", line)
	}
	r.printf("\n")

	if best, ok := region.Best(); ok {
		r.renderSuggestion("Suggestion", best)
	}

	if r.showAll && len(region.Suggestions) > 1 {
		r.printf("Other candidates:\n")
		best, _ := region.Best()
		for _, s := range region.Suggestions {
			if s.Strategy == best.Strategy {
				continue
			}
			r.printf("  - %s (%s): %s\n", s.Strategy, ui.Percent(s.Confidence), s.Explanation)
		}
	}

	if r.verbose {
		for _, s := range region.Rejected {
			r.printf("%s %s: %s\n", ui.Dim("skipped"), s.Strategy, ui.Dim(s.Explanation))
		}
	}

	r.printf("\n")
}

// truncate cuts a side down to the preview length, marking the cut with "...".
func (r textRenderer) truncate(lines []string) []string {
	if len(lines) <= r.previewLines {
		return lines
	}
	out := make([]string, 0, r.previewLines+1)
	out = append(out, lines[:r.previewLines]...)
	return append(out, "...")
}

func (r textRenderer) preview(lines []string) {
	for _, l := range r.truncate(lines) {
		r.printf("%s\n", l)
	}
}

func (r textRenderer) renderSuggestion(title string, s analyze.Suggestion) {
	r.printf("%s %s (%s confidence):\n", ui.IconRobot, title, ui.Percent(s.Confidence))
	r.printf("Strategy: %s\n", ui.Magenta(s.Strategy))
	r.printf("Explanation: %s\n", s.Explanation)

	if len(s.Hints) > 0 {
		r.printf("Hints:\n")
		for _, h := range s.Hints {
			r.printf("  - %s\n", h)
		}
	}

	if s.Resolved() {
		r.printf("Proposed resolution:\n")
		r.preview(s.Lines)
	}

	if s.Action == resolve.ActionRegenerate {
		r.printf("\n%s This file should be regenerated after resolving other conflicts\n", ui.Yellow(ui.IconWarning))
	}
}

func (r textRenderer) renderSummary(reports []analyze.FileReport) {
	r.printf("\n%s\n", strings.Repeat("=", 60))
	r.printf("%s\n\n", ui.Header(" Resolution Summary "))

	table := tablewriter.NewWriter(r.w)
	table.Header("File", "Conflicts", "Auto", "Manual", "Action")

	for _, report := range reports {
		auto, manual := countResolvable(report, r.minConfidence)
		action := "-"
		if report.NeedsRegeneration() {
			action = "regenerate"
		}
		table.Append(report.Path, len(report.Regions), auto, manual, action)
	}
	table.Render()

	r.printf("\nNext steps:\n")
	r.printf("1. Review and apply the suggested resolutions\n")
	r.printf("2. Test the resolved code thoroughly\n")
	r.printf("3. Run: git add <resolved-files>\n")
	r.printf("4. Run: git commit\n\n")
}

// countResolvable splits the regions of a report into those whose best
// suggestion can be applied at minConfidence and those that need a human.
func countResolvable(report analyze.FileReport, minConfidence float64) (auto, manual int) {
	for _, region := range report.Regions {
		if best, ok := region.Best(); ok && best.Resolved() && best.Confidence >= minConfidence {
			auto++
		} else {
			manual++
		}
	}
	return auto, manual
}

type jsonOutput struct {
	Files []analyze.FileReport `json:"files"`
}

func renderJSON(w io.Writer, reports []analyze.FileReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput{Files: reports})
}
