// Package testkit provides invariant checks shared by parser tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"gamedb/internal/record"
	"gamedb/internal/scan"
	"gamedb/internal/source"
)

// CheckRecordInvariants runs a minimal set of span invariants on an
// assembled record:
// 1) rec.Span is non-empty and within file content bounds
// 2) every line is tagged, with a non-empty span contained in rec.Span
// 3) rec.Span equals the union of its line spans
// 4) tag and value spans sit inside their line span
func CheckRecordInvariants(rec *record.Record, sf *source.File) error {
	if rec == nil || sf == nil {
		return fmt.Errorf("nil record or file")
	}
	if len(rec.Lines) == 0 {
		return fmt.Errorf("record has no lines")
	}

	// 1) record span sanity
	if rec.Span.End <= rec.Span.Start {
		return fmt.Errorf("record span is empty: %v", rec.Span)
	}
	if rec.Span.File != sf.ID {
		return fmt.Errorf("record span points to different file id: got=%d want=%d", rec.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if rec.Span.End > lenContent {
		return fmt.Errorf("record span end beyond content: %d > %d", rec.Span.End, lenContent)
	}

	// 2) line spans within record span; 4) tag/value spans within line
	var union source.Span
	for i, ln := range rec.Lines {
		if ln.Kind != scan.LineTagged {
			return fmt.Errorf("line %d has kind %s, records hold tagged lines only", i, ln.Kind)
		}
		sp := ln.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty line span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("line span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < rec.Span.Start || sp.End > rec.Span.End {
			return fmt.Errorf("line span %v is outside record span %v", sp, rec.Span)
		}
		if ln.TagSpan.Start < sp.Start || ln.TagSpan.End > sp.End {
			return fmt.Errorf("tag span %v is outside line span %v", ln.TagSpan, sp)
		}
		if !ln.ValueSpan.Empty() && (ln.ValueSpan.Start < sp.Start || ln.ValueSpan.End > sp.End) {
			return fmt.Errorf("value span %v is outside line span %v", ln.ValueSpan, sp)
		}
		if i == 0 {
			union = sp
		} else {
			union = union.Cover(sp)
		}
	}

	// 3) сборщик строит span записи как Cover по строкам, совпадение точное
	if union != rec.Span {
		return fmt.Errorf("record span %v does not equal union of lines %v", rec.Span, union)
	}
	return nil
}
