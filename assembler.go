package csvlex

import "github.com/flowcsv/csvlex/internal/ordered"

// Assembler folds a token stream into records keyed by a header row
// (spec.md §4.3). It retains partial-row state across calls so a caller
// may feed it one token, a batch of tokens, or a whole document's worth at
// once. The zero value is not ready for use; construct one with
// NewAssembler.
type Assembler struct {
	opts AssemblerOptions

	header    []string
	headerSet bool

	fieldIndex int
	row        []string
	dirty      bool

	flushed     bool
	terminalErr error
}

// NewAssembler validates opts and constructs an Assembler. When
// opts.Header is non-nil it is used as the record schema directly and the
// first RecordDelimiter token does not trigger header capture.
func NewAssembler(opts AssemblerOptions) (*Assembler, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	a := &Assembler{opts: opts}
	if opts.Header != nil {
		a.header = append([]string(nil), opts.Header...)
		a.headerSet = true
		a.row = make([]string, len(a.header))
	}
	return a, nil
}

// Header returns the captured or explicitly configured header, or nil if
// none has been captured yet.
func (a *Assembler) Header() []string {
	if !a.headerSet {
		return nil
	}
	return append([]string(nil), a.header...)
}

// Assemble feeds tokens (which may be empty) into the assembler and
// returns every record that can be emitted from the current state. When
// stream is false the assembler flushes: any dirty partial row becomes one
// final record, and the assembler becomes terminal.
func (a *Assembler) Assemble(tokens []Token, stream bool) ([]Record, error) {
	if a.terminalErr != nil {
		return nil, a.terminalErr
	}
	if a.flushed {
		if len(tokens) == 0 {
			return nil, nil
		}
		err := newValidationError(a.opts.Source, "assembler already flushed, cannot accept further tokens")
		a.terminalErr = err
		return nil, err
	}

	var records []Record
	for _, tok := range tokens {
		if err := a.checkCancel(); err != nil {
			a.terminalErr = err
			return records, err
		}

		rec, emitted, err := a.consume(tok)
		if err != nil {
			a.terminalErr = err
			return records, err
		}
		if emitted {
			records = append(records, rec)
		}
	}

	if !stream {
		a.flushed = true
		if a.dirty && a.headerSet {
			records = append(records, a.buildRecord())
			a.resetRow()
		}
	}

	return records, nil
}

// consume applies a single token to the assembler's state, returning a
// record if the token closed one out.
func (a *Assembler) consume(tok Token) (Record, bool, error) {
	switch tok.Kind {
	case KindFieldDelimiter:
		a.fieldIndex++
		if a.opts.MaxFieldCount != Infinity && int64(a.fieldIndex+1) > a.opts.MaxFieldCount {
			row := tok.Location.RowNumber
			return Record{}, false, &Error{
				Kind:      KindValidation,
				Message:   "row exceeds maxFieldCount",
				RowNumber: &row,
				Source:    a.opts.Source,
			}
		}
		a.ensureRowCapacity()
		a.dirty = true
		return Record{}, false, nil

	case KindField:
		a.ensureRowCapacity()
		a.row[a.fieldIndex] = tok.Value
		a.dirty = true
		return Record{}, false, nil

	case KindRecordDelimiter:
		return a.closeRow(tok.Location.RowNumber)

	default:
		return Record{}, false, nil
	}
}

func (a *Assembler) closeRow(rowNumber int) (Record, bool, error) {
	if !a.headerSet {
		var header []string
		if a.dirty {
			header = append([]string(nil), a.row[:a.fieldIndex+1]...)
		}
		if len(header) == 0 {
			return Record{}, false, newParseError(a.opts.Source, Position{}, rowNumber, "header row must not be empty")
		}
		if dup, ok := ordered.HasDuplicates(header); ok {
			return Record{}, false, newParseError(a.opts.Source, Position{}, rowNumber, "header contains duplicate field %q", dup)
		}
		if a.opts.MaxFieldCount != Infinity && int64(len(header)) > a.opts.MaxFieldCount {
			return Record{}, false, newValidationError(a.opts.Source, "header has %d fields, exceeding maxFieldCount %d", len(header), a.opts.MaxFieldCount)
		}
		a.header = header
		a.headerSet = true
		a.resetRow()
		return Record{}, false, nil
	}

	var rec Record
	var emit bool
	if a.dirty {
		rec = a.buildRecord()
		emit = true
	} else if !a.opts.SkipEmptyLines {
		rec = a.buildEmptyRecord()
		emit = true
	}
	a.resetRow()
	return rec, emit, nil
}

// buildRecord zips the captured header against the partial row
// (spec.md §4.3, §9): missing trailing fields — including a row that never
// saw a FieldDelimiter for a later header column — read as empty string,
// because the lexer never emits Field("") between adjacent delimiters;
// the empty slot is simply never written.
func (a *Assembler) buildRecord() Record {
	m := ordered.New(len(a.header))
	for i, name := range a.header {
		v := ""
		if i < len(a.row) {
			v = a.row[i]
		}
		m.Set(name, v)
	}
	return newRecord(m)
}

func (a *Assembler) buildEmptyRecord() Record {
	m := ordered.New(len(a.header))
	for _, name := range a.header {
		m.Set(name, "")
	}
	return newRecord(m)
}

func (a *Assembler) ensureRowCapacity() {
	if a.fieldIndex < len(a.row) {
		return
	}
	grown := make([]string, a.fieldIndex+1)
	copy(grown, a.row)
	a.row = grown
}

func (a *Assembler) resetRow() {
	width := 0
	if a.headerSet {
		width = len(a.header)
	}
	a.row = make([]string, width)
	a.fieldIndex = 0
	a.dirty = false
}

func (a *Assembler) checkCancel() error {
	if a.opts.Cancel == nil {
		return nil
	}
	if canceled, reason := a.opts.Cancel(); canceled {
		return newCancellationError(a.opts.Source, reason)
	}
	return nil
}

// AssembleAll drains tokens through the assembler to completion.
func AssembleAll(opts AssemblerOptions, tokens []Token) ([]Record, error) {
	asm, err := NewAssembler(opts)
	if err != nil {
		return nil, err
	}
	records, err := asm.Assemble(tokens, true)
	if err != nil {
		return records, err
	}
	tail, err := asm.Assemble(nil, false)
	return append(records, tail...), err
}
