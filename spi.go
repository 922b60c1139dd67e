package spi

import "fmt"

// --- Token categories ------------------------------------------------------

// TokType is a category type for a Token.
type TokType int

// Token categories of the language. The reserved words are a contiguous range
// from PROGRAM to END.
const (
	EOF TokType = iota
	ID
	INTCONST
	ASSIGN
	SEMI
	DOT
	COLON
	COMMA
	LPAREN
	RPAREN
	PLUS
	MINUS
	MUL
	DIV
	PROGRAM
	VAR
	PROCEDURE
	INTEGER
	REAL
	BEGIN
	END
)

var tokTypeNames = [...]string{
	EOF:       "EOF",
	ID:        "ID",
	INTCONST:  "INTEGER_CONST",
	ASSIGN:    "ASSIGN",
	SEMI:      "SEMI",
	DOT:       "DOT",
	COLON:     "COLON",
	COMMA:     "COMMA",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	PLUS:      "PLUS",
	MINUS:     "MINUS",
	MUL:       "MUL",
	DIV:       "DIV",
	PROGRAM:   "PROGRAM",
	VAR:       "VAR",
	PROCEDURE: "PROCEDURE",
	INTEGER:   "INTEGER",
	REAL:      "REAL",
	BEGIN:     "BEGIN",
	END:       "END",
}

func (t TokType) String() string {
	if t < 0 || int(t) >= len(tokTypeNames) {
		return fmt.Sprintf("TokType(%d)", int(t))
	}
	return tokTypeNames[t]
}

// IsKeyword is a predicate: is t a reserved word?
func (t TokType) IsKeyword() bool {
	return t >= PROGRAM && t <= END
}

// Keywords returns the reserved word categories, in declaration order.
func Keywords() []TokType {
	kw := make([]TokType, 0, END-PROGRAM+1)
	for t := PROGRAM; t <= END; t++ {
		kw = append(kw, t)
	}
	return kw
}

// --- Positions -------------------------------------------------------------

// Pos is a position in the source text. Lines and columns count from 1.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("[%d, %d]", p.Line, p.Column)
}

// --- Tokens ----------------------------------------------------------------

// Token represents an input token, produced by the scanner.
//
// An example would be a token for an integer constant:
//
//    Kind   = INTCONST
//    Lexeme = "42"
//    Pos    = [3, 12]   // line 3, column 12
//
type Token struct {
	Kind   TokType
	Lexeme string
	Pos    Pos
}

// MakeToken creates a token at a given position.
func MakeToken(kind TokType, lexeme string, line, col int) Token {
	return Token{
		Kind:   kind,
		Lexeme: lexeme,
		Pos:    Pos{Line: line, Column: col},
	}
}

func (t Token) String() string {
	return fmt.Sprintf("Token<%s: '%s', position: %s>", t.Kind, t.Lexeme, t.Pos)
}
