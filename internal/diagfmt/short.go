package diagfmt

import (
	"io"

	"gamedb/internal/diag"
	"gamedb/internal/source"
)

// Short форматирует диагностики в однострочный вид, пригодный для
// grep и golden-файлов.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	out := diag.FormatShort(bag.Items(), fs)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
