package driver

import (
	"gamedb/internal/diag"
	"gamedb/internal/scan"
	"gamedb/internal/source"
)

// ScanResult — сырой построчный разбор без сборки записей.
type ScanResult struct {
	FileSet *source.FileSet
	File    *source.File
	Lines   []scan.Line
	Bag     *diag.Bag
}

// ScanFile прогоняет файл только через сканер: показывает, как каждая
// строка размечена, до всякой сборки записей и валидации значений.
func ScanFile(path string, maxDiagnostics int) (*ScanResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)

	reporterAdapter := &scan.ReporterAdapter{Bag: bag}
	opts := scan.Options{
		Reporter: reporterAdapter.Reporter(),
	}
	sc := scan.New(file, opts)

	// Собираем все строки до EOF включительно
	var lines []scan.Line
	for {
		ln := sc.Next()
		lines = append(lines, ln)
		if ln.Kind == scan.LineEOF {
			break
		}
	}

	return &ScanResult{
		FileSet: fs,
		File:    file,
		Lines:   lines,
		Bag:     bag,
	}, nil
}
