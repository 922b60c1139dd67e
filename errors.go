package spi

import (
	"errors"
	"fmt"
)

// Kinds of errors, one per processing stage. Use them with errors.Is:
//
//    if errors.Is(err, spi.ErrSemantic) { … }
//
var (
	ErrLexical  = errors.New("lexical error")
	ErrParse    = errors.New("parse error")
	ErrSemantic = errors.New("semantic error")
	ErrRuntime  = errors.New("runtime fault")
)

// ErrorCode further classifies an error within its kind.
type ErrorCode string

// Error codes.
const (
	UnexpectedLexeme    ErrorCode = "unexpected lexeme"
	UnterminatedComment ErrorCode = "unterminated comment"
	UnexpectedToken     ErrorCode = "unexpected token"
	IDNotFound          ErrorCode = "identifier not found"
	DuplicateID         ErrorCode = "duplicate identifier"
	WrongParamsLength   ErrorCode = "wrong params length"
	NotAProcedure       ErrorCode = "not a procedure"
	NotAVariable        ErrorCode = "not a variable"
	UnknownType         ErrorCode = "unknown type"
	UnboundVariable     ErrorCode = "unbound variable"
	StackExhausted      ErrorCode = "stack exhausted"
	DivisionByZero      ErrorCode = "division by zero"
	IntegerOverflow     ErrorCode = "integer overflow"
)

// Error is the error type for all stages of the interpreter. Kind is one of
// ErrLexical, ErrParse, ErrSemantic or ErrRuntime.
type Error struct {
	Kind error
	Code ErrorCode
	Pos  Pos
	Name string // offending name or lexeme, if any
	Msg  string
}

func (e *Error) Error() string {
	var s string
	if e.Name != "" {
		s = fmt.Sprintf("%v: %s '%s' at %s", e.Kind, e.Code, e.Name, e.Pos)
	} else {
		s = fmt.Sprintf("%v: %s at %s", e.Kind, e.Code, e.Pos)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

// Is matches an error against a kind sentinel or against another *Error
// with the same kind and code.
func (e *Error) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind && t.Code == e.Code
	}
	return false
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// LexicalError creates an error for the scanner.
func LexicalError(code ErrorCode, pos Pos, lexeme string) *Error {
	return &Error{Kind: ErrLexical, Code: code, Pos: pos, Name: lexeme}
}

// ParseError creates an error for the parser.
func ParseError(tok Token, expected TokType) *Error {
	return &Error{
		Kind: ErrParse,
		Code: UnexpectedToken,
		Pos:  tok.Pos,
		Name: tok.Lexeme,
		Msg:  fmt.Sprintf("found %s, expected %s", tok.Kind, expected),
	}
}

// SemanticError creates an error for the semantic analyzer.
func SemanticError(code ErrorCode, pos Pos, name string, msg string) *Error {
	return &Error{Kind: ErrSemantic, Code: code, Pos: pos, Name: name, Msg: msg}
}

// RuntimeFault creates an error for the evaluator.
func RuntimeFault(code ErrorCode, pos Pos, name string, msg string) *Error {
	return &Error{Kind: ErrRuntime, Code: code, Pos: pos, Name: name, Msg: msg}
}

// CodeOf returns the error code of err, or the empty code if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
