package scanner

import (
	"strings"
	"sync"

	"github.com/npillmayer/spi"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Fixed lexemes and their token categories. Longest match wins, so "//" is
// a DIV and ":=" is an ASSIGN.
var literals = []struct {
	lexeme string
	kind   spi.TokType
}{
	{":=", spi.ASSIGN},
	{";", spi.SEMI},
	{".", spi.DOT},
	{":", spi.COLON},
	{",", spi.COMMA},
	{"(", spi.LPAREN},
	{")", spi.RPAREN},
	{"+", spi.PLUS},
	{"-", spi.MINUS},
	{"*", spi.MUL},
	{"/", spi.DIV},
	{"//", spi.DIV},
}

var keywords map[string]spi.TokType // upper-case reserved word → category

var dfa *lexmachine.Lexer
var dfaErr error

var initOnce sync.Once // monitors one-time creation of keyword table and DFA

func initLexer() (*lexmachine.Lexer, error) {
	initOnce.Do(func() {
		keywords = make(map[string]spi.TokType)
		for _, kw := range spi.Keywords() {
			keywords[kw.String()] = kw
		}
		dfa, dfaErr = compileDFA()
	})
	return dfa, dfaErr
}

func compileDFA() (*lexmachine.Lexer, error) {
	tracer().Infof("Compiling scanner DFA")
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte("( |\t|\n|\r|\f|\v)+"), skip)
	lexer.Add([]byte(`\{[^\}]*\}`), skip) // comments
	lexer.Add([]byte(`[0-9]+`), makeToken(spi.INTCONST))
	lexer.Add([]byte(`([a-z]|[A-Z])([a-z]|[A-Z]|[0-9])*`), identifier)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit.lexeme, ""), "\\")
		lexer.Add([]byte(r), makeToken(lit.kind))
	}
	if err := lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return lexer, nil
}

// match is what the DFA actions produce. Positions are resolved by the Lexer,
// which knows about line starts of its input.
type match struct {
	kind   spi.TokType
	lexeme string
	offset int
}

// skip is an action which ignores the scanned match.
func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// makeToken is an action which wraps a scanned match into a token of category kind.
func makeToken(kind spi.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return match{kind: kind, lexeme: string(m.Bytes), offset: m.TC}, nil
	}
}

// identifier is an action for identifiers, which may turn out to be reserved words.
func identifier(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	lexeme := string(m.Bytes)
	kind := spi.ID
	if kw, ok := keywords[strings.ToUpper(lexeme)]; ok {
		kind = kw
	}
	return match{kind: kind, lexeme: lexeme, offset: m.TC}, nil
}
