package scan

import (
	"gamedb/internal/diag"
	"gamedb/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда находки игнорируем (но продолжаем сканировать)
}

func (s *Scanner) err(code diag.Code, sp source.Span, msg string) {
	if s.opts.Reporter != nil {
		diag.ReportError(s.opts.Reporter, code, sp, msg).Emit()
	}
}

func (s *Scanner) warn(code diag.Code, sp source.Span, msg string) {
	if s.opts.Reporter != nil {
		diag.ReportWarning(s.opts.Reporter, code, sp, msg).Emit()
	}
}
