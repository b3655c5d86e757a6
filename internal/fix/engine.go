// Package fix applies the edits suggested by diagnostics back to the file.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gamedb/internal/diag"
	"gamedb/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// Mode determines the selection strategy for fixes.
type Mode uint8

const (
	// ModeOnce applies the first available fix only.
	ModeOnce Mode = iota
	// ModeAll applies every fix that does not clash with an earlier one.
	ModeAll
)

// Options configures Apply.
type Options struct {
	Mode Mode
}

// Applied records a successfully applied fix.
type Applied struct {
	Title   string
	Code    diag.Code
	Message string
	Edits   int
}

// Skipped captures a fix that was not applied, with the reason.
type Skipped struct {
	Title  string
	Reason string
}

// Result aggregates applied and skipped fixes plus the rewritten content.
type Result struct {
	Applied []Applied
	Skipped []Skipped
	Content []byte // содержимое файла после правок
	Dirty   bool
}

type candidate struct {
	diag diag.Diagnostic
	fix  diag.Fix
}

// Apply collects the fixes attached to the diagnostics of one file, selects
// a subset according to opts, and applies their edits to a copy of the file
// content. Nothing is written to disk; the caller decides what to do with
// Result.Content.
func Apply(sf *source.File, diagnostics []diag.Diagnostic, opts Options) (*Result, error) {
	result := &Result{
		Applied: make([]Applied, 0),
		Skipped: make([]Skipped, 0),
	}
	if sf == nil {
		return result, fmt.Errorf("fix: file is nil")
	}
	result.Content = append([]byte(nil), sf.Content...)

	candidates := gather(sf, diagnostics, result)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	if opts.Mode == ModeOnce {
		candidates = candidates[:1]
	}

	// пересекающиеся правки применять нельзя, побеждает более ранняя
	accepted := make([]diag.FixEdit, 0, len(candidates))
	for _, cand := range candidates {
		if clashes(accepted, cand.fix.Edits) {
			result.Skipped = append(result.Skipped, Skipped{
				Title:  cand.fix.Title,
				Reason: "overlaps an already accepted fix",
			})
			continue
		}
		accepted = append(accepted, cand.fix.Edits...)
		result.Applied = append(result.Applied, Applied{
			Title:   cand.fix.Title,
			Code:    cand.diag.Code,
			Message: cand.diag.Message,
			Edits:   len(cand.fix.Edits),
		})
	}
	if len(accepted) == 0 {
		return result, ErrNoFixes
	}

	// правки накатываются с конца файла, чтобы не сдвигать спаны остальных
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Span.Start > accepted[j].Span.Start
	})
	for _, e := range accepted {
		start, end := int(e.Span.Start), int(e.Span.End)
		suffix := append([]byte(nil), result.Content[end:]...)
		result.Content = append(append(result.Content[:start], []byte(e.NewText)...), suffix...)
	}
	result.Dirty = true
	return result, nil
}

// Write saves rewritten content back to the file it was parsed from,
// preserving the original permissions. Virtual files have no on-disk
// counterpart and are refused.
func Write(sf *source.File, content []byte) error {
	if sf == nil {
		return fmt.Errorf("fix: file is nil")
	}
	if sf.Flags&source.FileVirtual != 0 {
		return fmt.Errorf("fix: cannot write virtual file %s", sf.Path)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(sf.Path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(sf.Path, content, mode)
}

// gather validates the fixes of every diagnostic and turns the usable ones
// into candidates. Unusable fixes land in result.Skipped with a reason.
func gather(sf *source.File, diagnostics []diag.Diagnostic, result *Result) []candidate {
	cands := make([]candidate, 0)
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				result.Skipped = append(result.Skipped, Skipped{
					Title:  f.Title,
					Reason: "fix has no edits",
				})
				continue
			}
			if reason := validate(sf, f.Edits); reason != "" {
				result.Skipped = append(result.Skipped, Skipped{
					Title:  f.Title,
					Reason: reason,
				})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f})
		}
	}
	return cands
}

func validate(sf *source.File, edits []diag.FixEdit) string {
	for _, e := range edits {
		if e.Span.File != sf.ID {
			return "fix targets a different file"
		}
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(sf.Content) {
			return "edit span out of range"
		}
	}
	return ""
}

// sortCandidates даёт детерминированный порядок применения:
// по позиции в файле, затем по коду и заголовку
func sortCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := cands[i].diag, cands[j].diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return cands[i].fix.Title < cands[j].fix.Title
	})
}

func clashes(accepted []diag.FixEdit, edits []diag.FixEdit) bool {
	for _, prev := range accepted {
		for _, e := range edits {
			if spansOverlap(prev.Span, e.Span) {
				return true
			}
		}
	}
	return false
}

// spansOverlap treats spans as half-open [Start, End). Two insertion points
// never conflict; an insertion inside a replaced range does.
func spansOverlap(a, b source.Span) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}
