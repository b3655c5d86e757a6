package source

type (
	// FileID uniquely identifies a database file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a file entered the set.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (stdin, test).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates a UTF-8 BOM was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF indicates CRLF line endings were rewritten to LF.
	FileNormalizedCRLF
)

// File captures content and line metadata for a single database file.
// Content is the normalized byte stream every Span points into.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // смещения '\n' по возрастанию
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position in a file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, в байтах от начала строки
}
