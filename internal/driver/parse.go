// Package driver wires the scan, record, game and catalog stages into
// one parsing pipeline behind a small API for commands and tools.
package driver

import (
	"context"
	"fmt"

	"gamedb/internal/catalog"
	"gamedb/internal/diag"
	"gamedb/internal/observ"
	"gamedb/internal/record"
	"gamedb/internal/scan"
	"gamedb/internal/source"
)

// DefaultMaxDiagnostics caps the diagnostic bag when the caller passes
// no explicit limit.
const DefaultMaxDiagnostics = 100

// Options настраивает конвейер разбора.
type Options struct {
	MaxDiagnostics   int
	Duplicates       catalog.DupPolicy
	Jobs             int
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
}

// Result — всё, что конвейер знает о файле после разбора.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Catalog *catalog.Catalog
	Bag     *diag.Bag
	Records int // сколько записей нашлось в файле
	Invalid int // сколько из них не прошло приведение
}

// Parse прогоняет файл через полный конвейер: scan, coerce, build.
func Parse(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return run(ctx, fs, fs.Get(fileID), opts)
}

// ParseBytes разбирает содержимое, не обращаясь к диску.
// name подставляется в диагностики вместо пути.
func ParseBytes(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return run(ctx, fs, fs.Get(fileID), opts)
}

func run(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) (*Result, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = DefaultMaxDiagnostics
	}

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}

	bag := diag.NewBag(opts.MaxDiagnostics)

	scanIdx := begin("scan")
	reporterAdapter := &scan.ReporterAdapter{Bag: bag}
	sc := scan.New(file, scan.Options{Reporter: reporterAdapter.Reporter()})
	asm := record.New(sc)
	var records []*record.Record
	for {
		rec, ok := asm.Next()
		if !ok {
			break
		}
		records = append(records, rec)
	}
	scanNote := ""
	if timer != nil {
		scanNote = fmt.Sprintf("records=%d diags=%d", len(records), bag.Len())
	}
	end(scanIdx, scanNote)

	coerceIdx := begin("coerce")
	coerced, err := coerceRecords(ctx, records, opts.Jobs)
	if err != nil {
		return nil, err
	}
	invalid := 0
	for i := range coerced {
		if !coerced[i].OK {
			invalid++
		}
		// Add уважает лимит, Merge бы его растянул
		for _, d := range coerced[i].Bag.Items() {
			bag.Add(d)
		}
	}
	coerceNote := ""
	if timer != nil {
		coerceNote = fmt.Sprintf("games=%d invalid=%d", len(coerced)-invalid, invalid)
	}
	end(coerceIdx, coerceNote)

	buildIdx := begin("build")
	builder := catalog.NewBuilder(opts.Duplicates, &diag.BagReporter{Bag: bag})
	for i := range coerced {
		if !coerced[i].OK {
			continue
		}
		builder.Add(coerced[i].Game, records[i].Span)
	}
	cat := builder.Finish()
	buildNote := ""
	if timer != nil {
		buildNote = fmt.Sprintf("games=%d", cat.Len())
	}
	end(buildIdx, buildNote)

	if opts.IgnoreWarnings {
		bag.Filter(func(d *diag.Diagnostic) bool {
			return d.Severity != diag.SevWarning && d.Severity != diag.SevInfo
		})
	}

	if opts.WarningsAsErrors {
		bag.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
	}

	// фазы пишут в bag группами, позиции между группами перемешаны
	bag.Sort()

	if timer != nil {
		report := timer.Report()
		appendTimingDiagnostic(bag, timingPayload{
			Kind:    "file",
			Path:    file.Path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}

	return &Result{
		FileSet: fs,
		File:    file,
		Catalog: cat,
		Bag:     bag,
		Records: len(records),
		Invalid: invalid,
	}, nil
}
