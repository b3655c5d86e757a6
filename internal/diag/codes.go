package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Сканер строк
	ScanInfo          Code = 1000
	ScanUnknownTag    Code = 1001
	ScanMalformedLine Code = 1002
	ScanExtraColumn   Code = 1003

	// Сборка записей и приведение полей
	RecInfo          Code = 2000
	RecShadowedField Code = 2001
	RecBadInteger    Code = 2002
	RecBadEnum       Code = 2003
	RecMissingField  Code = 2004

	// Каталог
	CatInfo      Code = 3000
	CatDuplicate Code = 3001

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var ( // todo расширить описания и использовать как notes
	codeDescription = map[Code]string{
		UnknownCode:       "Unknown error",
		ScanInfo:          "Scanner information",
		ScanUnknownTag:    "Unknown tag",
		ScanMalformedLine: "Malformed line",
		ScanExtraColumn:   "Extra columns after value",
		RecInfo:           "Record information",
		RecShadowedField:  "Field shadowed by a later line",
		RecBadInteger:     "Value is not an integer",
		RecBadEnum:        "Value is not in the allowed set",
		RecMissingField:   "Required field missing",
		CatInfo:           "Catalog information",
		CatDuplicate:      "Duplicate game entry",
		IOLoadFileError:   "I/O load file error",
		ObsInfo:           "Observability information",
		ObsTimings:        "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SCN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("REC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CAT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
