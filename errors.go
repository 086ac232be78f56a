package csvlex

import (
	"errors"
	"fmt"
)

// Kind closes the variant of errors this package can surface: bad
// configuration or resource exhaustion (KindValidation), malformed input
// data (KindParse), or a cancellation handle firing (KindCancellation).
type Kind int

const (
	KindValidation Kind = iota
	KindParse
	KindCancellation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindParse:
		return "parse"
	case KindCancellation:
		return "cancellation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the single error type surfaced by the lexer and the assembler;
// their stream adapters pass it through unchanged, and return the context's
// own error when their context ends. It always carries a Kind and a human-readable
// Message, and carries as much of Position/RowNumber/Source as was known
// at the point of failure.
type Error struct {
	Kind      Kind
	Message   string
	Position  *Position
	RowNumber *int
	Source    string
	Cause     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("csvlex: %s: %s", e.Kind, e.Message)
	if e.Source != "" {
		msg = fmt.Sprintf("%s (source %q)", msg, e.Source)
	}
	if e.RowNumber != nil {
		msg = fmt.Sprintf("%s (row %d)", msg, *e.RowNumber)
	}
	if e.Position != nil {
		msg = fmt.Sprintf("%s (at %s)", msg, e.Position)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the underlying cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports equality by Kind: target matches when it is a *Error of the
// same Kind, whatever its Message, Cause, or other fields. Kind itself is
// not an error, so errors.Is(err, csvlex.KindParse) is not available; match
// against a freshly constructed *Error target, or use IsKind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// IsKind reports whether err is a *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

func newValidationError(source string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), Source: source}
}

func newParseError(source string, pos Position, row int, format string, args ...interface{}) *Error {
	p := pos
	r := row
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...), Position: &p, RowNumber: &r, Source: source}
}

func newCancellationError(source string, cause error) *Error {
	return &Error{Kind: KindCancellation, Message: "operation canceled", Source: source, Cause: cause}
}
