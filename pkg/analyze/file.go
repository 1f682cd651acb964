package analyze

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/utkarsh5026/mergehint/pkg/merge"
	"github.com/utkarsh5026/mergehint/pkg/resolve"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileReport is the analysis of one conflicted file.
type FileReport struct {
	// Path is the file as given by the caller
	Path string `json:"path"`
	// Regions are reported in file order
	Regions []RegionReport `json:"regions"`
	// RegenerateCommand is set when the file is a lock file that should be
	// rebuilt rather than merged
	RegenerateCommand string `json:"regenerateCommand,omitempty"`
}

// HasConflicts reports whether any region was found.
func (f FileReport) HasConflicts() bool {
	return len(f.Regions) > 0
}

// NeedsRegeneration reports whether a suggestion asks for the file to be
// rebuilt by a package manager.
func (f FileReport) NeedsRegeneration() bool {
	for _, r := range f.Regions {
		for _, s := range r.Suggestions {
			if s.Action == resolve.ActionRegenerate {
				return true
			}
		}
	}
	return false
}

// AnalyzeFile parses content and analyzes every region in it.
func (a *Analyzer) AnalyzeFile(path string, content []byte) FileReport {
	regions := merge.Parse(content)
	report := FileReport{
		Path:    path,
		Regions: make([]RegionReport, 0, len(regions)),
	}

	for i, r := range regions {
		report.Regions = append(report.Regions, a.AnalyzeRegion(path, i, r))
	}

	if cmd, ok := resolve.RegenerateCommand(path); ok && report.NeedsRegeneration() {
		report.RegenerateCommand = cmd
	}

	return report
}

// ReadFunc loads the content of a file.
type ReadFunc func(path string) ([]byte, error)

// AnalyzeFiles reads and analyzes files concurrently, with at most workers
// files in flight. Reports come back in the order of paths. A file that
// cannot be read is skipped and its error is part of the returned
// *multierror.Error; the other files are still analyzed.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string, read ReadFunc, workers int) ([]FileReport, error) {
	if workers < 1 {
		workers = 1
	}

	reports := make([]*FileReport, len(paths))
	var (
		mu   sync.Mutex
		errs *multierror.Error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	a.logger.Debug("analyzing files", zap.Int("files", len(paths)), zap.Int("workers", workers))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := read(path)
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("failed to read %s: %w", path, err))
				mu.Unlock()
				return nil
			}

			report := a.AnalyzeFile(path, content)
			reports[i] = &report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]FileReport, 0, len(paths))
	for _, r := range reports {
		if r != nil {
			out = append(out, *r)
		}
	}

	return out, errs.ErrorOrNil()
}
