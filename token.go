// Package csvlex implements an incremental, chunk-fed CSV lexer and record
// assembler. The Lexer turns character chunks into a lazy sequence of
// located tokens; the Assembler folds that token sequence into records
// keyed by a header row. Both accept partial input and retain state across
// calls, so a caller may feed the pipeline one network read, one disk
// block, or the whole document at once and observe identical output.
package csvlex

import (
	"fmt"

	"github.com/flowcsv/csvlex/internal/ordered"
)

// Position is a single point in the logical input document. Offset counts
// decoded characters (runes, not bytes) from the start of the document;
// Line counts LF-terminated lines, with a CRLF counting as one line break;
// Column resets to 1 after every line break.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String renders the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Location is the half-open source span [Start, End) of a token, plus the
// 1-based logical row the token belongs to. RowNumber only advances when a
// RecordDelimiter token is emitted.
type Location struct {
	Start     Position
	End       Position
	RowNumber int
}

// String renders the location as "start-end@row".
func (l Location) String() string {
	return fmt.Sprintf("%s-%s@row%d", l.Start, l.End, l.RowNumber)
}

// TokenKind distinguishes the three token shapes the lexer can emit.
type TokenKind int

const (
	// KindField marks a decoded field value: quotes stripped, doubled
	// inner quotes collapsed to one, embedded newlines preserved.
	KindField TokenKind = iota
	// KindFieldDelimiter marks a single occurrence of the configured
	// delimiter character.
	KindFieldDelimiter
	// KindRecordDelimiter marks a consumed line terminator, "\n" or "\r\n".
	KindRecordDelimiter
)

// String names a TokenKind for debug output and error messages.
func (k TokenKind) String() string {
	switch k {
	case KindField:
		return "Field"
	case KindFieldDelimiter:
		return "FieldDelimiter"
	case KindRecordDelimiter:
		return "RecordDelimiter"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a single lexical unit produced by the Lexer. Value holds the
// decoded field text for KindField, the delimiter character for
// KindFieldDelimiter, or the exact newline consumed ("\n" or "\r\n") for
// KindRecordDelimiter.
type Token struct {
	Kind     TokenKind
	Value    string
	Location Location
}

// IsField reports whether the token is a decoded field value.
func (t Token) IsField() bool { return t.Kind == KindField }

// IsFieldDelimiter reports whether the token is a field separator.
func (t Token) IsFieldDelimiter() bool { return t.Kind == KindFieldDelimiter }

// IsRecordDelimiter reports whether the token is a record (line) terminator.
func (t Token) IsRecordDelimiter() bool { return t.Kind == KindRecordDelimiter }

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Value, t.Location)
}

// Record is a single assembled data row, keyed by header field name in
// header order. It is backed by an ordered map so iteration order matches
// the header's column order regardless of what the header's field names
// are — including names like "__proto__" that would be hazardous in a
// language with a shared object prototype (see internal/ordered).
type Record struct {
	fields *ordered.Map
}

// newRecord wraps an already-populated ordered map. Used only by the
// assembler, which owns the construction order.
func newRecord(m *ordered.Map) Record {
	return Record{fields: m}
}

// Get returns the value stored under key and whether the key is present.
func (r Record) Get(key string) (string, bool) {
	if r.fields == nil {
		return "", false
	}
	return r.fields.Get(key)
}

// Keys returns the record's keys in header order.
func (r Record) Keys() []string {
	if r.fields == nil {
		return nil
	}
	return r.fields.Keys()
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Map copies the record into a plain map[string]string for callers that
// don't need key ordering.
func (r Record) Map() map[string]string {
	out := make(map[string]string, r.Len())
	if r.fields == nil {
		return out
	}
	for _, k := range r.fields.Keys() {
		v, _ := r.fields.Get(k)
		out[k] = v
	}
	return out
}
