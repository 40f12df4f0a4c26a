// Package basicerr contains the stable error kinds that every other
// package in this module raises, plus the formatter that decorates them
// with the current program line and nearby lexeme before they reach the
// host.
package basicerr

import "fmt"

// Kind identifies one of the error conditions the interpreter can raise.
// The names match the BASIC_ERR_* constants of the system this module
// is modelled on, so they stay stable across releases.
type Kind string

// The full set of error kinds the interpreter can surface. The only
// errors in this module that are not one of these are command.Quit and
// the file-system errors the desktop host's SAVE/LOAD pass through.
const (
	TokenTooLong       Kind = "TokenTooLong"
	TokenizerInternal  Kind = "TokenizerInternal"
	NoMem              Kind = "NoMem"
	NoLineNum          Kind = "NoLineNum"
	Syntax             Kind = "Syntax"
	InputTooLong       Kind = "InputTooLong"
	Interrupted        Kind = "Interrupted"
	BadLineNumber      Kind = "BadLineNumber"
	DivZero            Kind = "DivZero"
	UndefinedVar       Kind = "UndefinedVar"
	UnknownLine        Kind = "UnknownLine"
	GosubDepth         Kind = "GosubDepth"
	ReturnWithoutGosub Kind = "ReturnWithoutGosub"
	ForDepth           Kind = "ForDepth"
	NextWithoutFor     Kind = "NextWithoutFor"
	NumberTooLong      Kind = "NumberTooLong"
	MalformedNumber    Kind = "MalformedNumber"
	UnsupImmediate     Kind = "UnsupImmediate"
	UnexpectedToken    Kind = "UnexpectedToken"
	UnprintableToken   Kind = "UnprintableToken"
	NoForVar           Kind = "NoForVar"
	NoForEq            Kind = "NoForEq"
	NoForTo            Kind = "NoForTo"
	VarNoEq            Kind = "VarNoEq"
	KwNoVar            Kind = "KwNoVar"
	ExpectedComma      Kind = "ExpectedComma"
	NoStoredProgram    Kind = "NoStoredProgram"
	ProgramTooLarge    Kind = "ProgramTooLarge"
)

// messages gives the short, human-readable text for each kind. This is
// the equivalent of the original string table's error-message section,
// minus the localization machinery, which is out of scope (see spec.md
// section 1).
var messages = map[Kind]string{
	TokenTooLong:       "token too long",
	TokenizerInternal:  "tokenizer internal error",
	NoMem:              "out of memory",
	NoLineNum:          "line has no number",
	Syntax:             "syntax error",
	InputTooLong:       "input too long",
	Interrupted:        "interrupted",
	BadLineNumber:      "bad line number",
	DivZero:            "division by zero",
	UndefinedVar:       "undefined variable",
	UnknownLine:        "unknown line",
	GosubDepth:         "GOSUB nested too deeply",
	ReturnWithoutGosub: "RETURN without GOSUB",
	ForDepth:           "FOR nested too deeply",
	NextWithoutFor:     "NEXT without FOR",
	NumberTooLong:      "number too long",
	MalformedNumber:    "malformed number",
	UnsupImmediate:     "unsupported in immediate mode",
	UnexpectedToken:    "unexpected token",
	UnprintableToken:   "unprintable token",
	NoForVar:           "FOR without a variable",
	NoForEq:            "FOR without =",
	NoForTo:            "FOR without TO",
	VarNoEq:            "assignment without =",
	KwNoVar:            "expected a variable",
	ExpectedComma:      "expected comma",
	NoStoredProgram:    "no stored program",
	ProgramTooLarge:    "program too large",
}

// Error is the concrete error type every package in this module returns.
// It carries enough context - the current program line and the lexeme
// the tokenizer was sitting on - for the command layer to print a single
// decorated diagnostic line, matching the "kind, line, near: lexeme"
// shape the original interpreter's error formatter produced.
type Error struct {
	Kind Kind
	Line int32
	Near string
}

// New creates an Error for the given kind with no line/lexeme context.
// Callers that know the current line and lexeme should use NewAt.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// NewAt creates an Error decorated with the current program line and the
// tokenizer's current lexeme (may be empty).
func NewAt(kind Kind, line int32, near string) *Error {
	return &Error{Kind: kind, Line: line, Near: near}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Format()
}

// Format renders the error the way the interpreter reports it to the
// host: the kind's message, the current line, and the near-token text
// if there is one.
func (e *Error) Format() string {
	msg, ok := messages[e.Kind]
	if !ok {
		msg = string(e.Kind)
	}
	out := fmt.Sprintf("%s, line: %d", msg, e.Line)
	if e.Near != "" {
		out += fmt.Sprintf(" near: %s", e.Near)
	}
	return out
}

// Is reports whether err is a *basicerr.Error of the given kind. It does
// not unwrap err.
func Is(err error, kind Kind) bool {
	be, ok := err.(*Error)
	if !ok {
		return false
	}
	return be.Kind == kind
}
