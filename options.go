package csvlex

import (
	"math"

	"github.com/flowcsv/csvlex/internal/ordered"
)

// Defaults mirror spec.md §6's enumerated option defaults.
const (
	DefaultDelimiter              = ","
	DefaultQuotation              = `"`
	DefaultMaxBufferSize          = 10 * 1024 * 1024
	DefaultBufferCleanupThreshold = 4096
	DefaultMaxFieldCount          = 100_000
)

// Infinity is the sentinel accepted in place of a hard cap on
// MaxBufferSize or MaxFieldCount, for trusted input where the caller
// wants no limit at all.
const Infinity = math.MaxInt64

// CancelFunc reports whether an in-flight operation has been canceled and,
// if so, why. It is checked at every token boundary by both the Lexer and
// the Assembler (spec.md §5).
type CancelFunc func() (canceled bool, reason error)

// Options configures a Lexer.
type Options struct {
	// Delimiter separates fields within a record. Default ",".
	Delimiter string
	// Quotation opens and closes a quoted field. Default `"`.
	Quotation string
	// MaxBufferSize bounds the lexer's unprocessed character buffer.
	// Default 10 MiB characters. May be Infinity.
	MaxBufferSize int64
	// BufferCleanupThreshold is the read offset (consumed characters
	// still held in the buffer) past which the lexer reclaims its
	// consumed buffer prefix. Default 4096. Zero selects the default, so
	// periodic reclamation cannot be turned off.
	BufferCleanupThreshold int64
	// Source is an optional label included verbatim in error messages.
	Source string
	// Cancel is an optional cancellation handle.
	Cancel CancelFunc
}

// withDefaults returns a copy of o with zero-valued fields set to their
// documented defaults.
func (o Options) withDefaults() Options {
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	if o.Quotation == "" {
		o.Quotation = DefaultQuotation
	}
	if o.MaxBufferSize == 0 {
		o.MaxBufferSize = DefaultMaxBufferSize
	}
	if o.BufferCleanupThreshold == 0 {
		o.BufferCleanupThreshold = DefaultBufferCleanupThreshold
	}
	return o
}

// validate implements the Option Validator (spec.md §4.1). It is called
// before any Lexer is constructed, so every later invariant that depends
// on these constraints — in particular, that buffer-prefix matching
// reduces to single-character comparison — holds for the instance's
// entire lifetime.
func (o Options) validate() error {
	if len(o.Delimiter) == 0 {
		return newValidationError(o.Source, "delimiter must not be empty")
	}
	if len(o.Quotation) == 0 {
		return newValidationError(o.Source, "quotation must not be empty")
	}
	if len([]rune(o.Delimiter)) != 1 {
		return newValidationError(o.Source, "delimiter must be exactly one character, got %q", o.Delimiter)
	}
	if len([]rune(o.Quotation)) != 1 {
		return newValidationError(o.Source, "quotation must be exactly one character, got %q", o.Quotation)
	}
	if containsCROrLF(o.Delimiter) {
		return newValidationError(o.Source, "delimiter must not contain CR or LF")
	}
	if containsCROrLF(o.Quotation) {
		return newValidationError(o.Source, "quotation must not contain CR or LF")
	}
	if o.Delimiter == o.Quotation {
		return newValidationError(o.Source, "delimiter and quotation must differ, both are %q", o.Delimiter)
	}
	if o.MaxBufferSize != Infinity && o.MaxBufferSize <= 0 {
		return newValidationError(o.Source, "maxBufferSize must be a positive integer or Infinity, got %d", o.MaxBufferSize)
	}
	if o.BufferCleanupThreshold == Infinity || o.BufferCleanupThreshold < 0 {
		return newValidationError(o.Source, "bufferCleanupThreshold must be a non-negative finite integer, got %d", o.BufferCleanupThreshold)
	}
	return nil
}

func containsCROrLF(s string) bool {
	for _, r := range s {
		if r == '\r' || r == '\n' {
			return true
		}
	}
	return false
}

// AssemblerOptions configures a Assembler.
type AssemblerOptions struct {
	// MaxFieldCount bounds the number of fields in any single row,
	// including the header. Default 100,000. May be Infinity.
	MaxFieldCount int64
	// SkipEmptyLines, when true, suppresses the all-empty-string record
	// that a bare blank line would otherwise produce. Default false.
	SkipEmptyLines bool
	// Header, when non-nil, is used as the record schema directly; the
	// first RecordDelimiter token does not trigger header capture.
	Header []string
	// Source is an optional label included verbatim in error messages.
	Source string
	// Cancel is an optional cancellation handle.
	Cancel CancelFunc
}

func (o AssemblerOptions) withDefaults() AssemblerOptions {
	if o.MaxFieldCount == 0 {
		o.MaxFieldCount = DefaultMaxFieldCount
	}
	return o
}

func (o AssemblerOptions) validate() error {
	if o.MaxFieldCount != Infinity && o.MaxFieldCount <= 0 {
		return newValidationError(o.Source, "maxFieldCount must be a positive integer or Infinity, got %d", o.MaxFieldCount)
	}
	if o.Header != nil {
		if len(o.Header) == 0 {
			return newParseError(o.Source, Position{Line: 1, Column: 1}, 0, "explicit header must not be empty")
		}
		if dup, ok := ordered.HasDuplicates(o.Header); ok {
			return newParseError(o.Source, Position{Line: 1, Column: 1}, 0, "explicit header contains duplicate field %q", dup)
		}
		if int64(len(o.Header)) > o.MaxFieldCount {
			return newValidationError(o.Source, "explicit header has %d fields, exceeding maxFieldCount %d", len(o.Header), o.MaxFieldCount)
		}
	}
	return nil
}
