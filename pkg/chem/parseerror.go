package chem

import (
	"fmt"
	"strings"
)

// ParseErrorType distinguishes lexical from semantic failures.
type ParseErrorType int

const (
	// SyntaxError marks input the tokenizer or grammar rejected.
	SyntaxError ParseErrorType = iota

	// SemanticsError marks well-formed input with inconsistent meaning,
	// such as an unmatched ring-closure digit.
	SemanticsError
)

// ParseError is the diagnostic produced by the SMILES reader and the SMARTS
// compiler.  It carries the offending input and the position of the failure
// so the caret context can be rendered for humans.
type ParseError struct {
	Type   ParseErrorType
	Msg    string
	Input  string
	Pos    int
	Length int
}

// NewParseError constructs a ParseError covering length runes at pos.
func NewParseError(t ParseErrorType, msg, input string, pos, length int) *ParseError {
	if length < 1 {
		length = 1
	}
	return &ParseError{Type: t, Msg: msg, Input: input, Pos: pos, Length: length}
}

// Error renders the diagnostic with a caret line pointing at the offending
// span:
//
//	SyntaxError: unmatched branch.
//	CC(C
//	  ^
func (e *ParseError) Error() string {
	var sb strings.Builder
	switch e.Type {
	case SemanticsError:
		sb.WriteString("SemanticsError: ")
	default:
		sb.WriteString("SyntaxError: ")
	}
	sb.WriteString(e.Msg)
	sb.WriteString(".\n")
	sb.WriteString(e.Input)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", e.Pos))
	sb.WriteString(strings.Repeat("^", e.Length))
	sb.WriteString("\n")
	return sb.String()
}

// String implements fmt.Stringer so diagnostics print naturally.
func (e *ParseError) String() string {
	if e == nil {
		return ""
	}
	return e.Error()
}

var _ fmt.Stringer = (*ParseError)(nil)
