package scanner

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/spi"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Tokenizer is the scanner interface the parser relies on.
//
// PeekRaw returns the raw input character directly following the most recently
// returned token, without consuming it. It returns 0 at the end of input.
type Tokenizer interface {
	NextToken() (spi.Token, error)
	PeekRaw() byte
}

// Lexer is the default Tokenizer. Create one with New.
type Lexer struct {
	scanner *lexmachine.Scanner
	text    []byte
	lines   []int     // byte offsets of line starts
	eof     bool      // end of input reached
	last    spi.Token // last token this lexer has produced
}

var _ Tokenizer = (*Lexer)(nil)

// New creates a lexer for an input text.
func New(input string) (*Lexer, error) {
	lexer, err := initLexer()
	if err != nil {
		return nil, err
	}
	text := []byte(input)
	s, err := lexer.Scanner(text)
	if err != nil {
		return nil, err
	}
	l := &Lexer{
		scanner: s,
		text:    text,
		lines:   []int{0},
	}
	for i, c := range text {
		if c == '\n' {
			l.lines = append(l.lines, i+1)
		}
	}
	return l, nil
}

// NextToken is part of the Tokenizer interface. After the end of input has been
// reached, every call returns an EOF token.
func (l *Lexer) NextToken() (spi.Token, error) {
	if l.eof {
		return l.last, nil
	}
	tok, err, eos := l.scanner.Next()
	if err != nil {
		return spi.Token{}, l.lexicalError(err)
	}
	if eos {
		tracer().Debugf("Lexer reached end of input")
		pos := l.position(len(l.text))
		l.eof = true
		l.last = spi.MakeToken(spi.EOF, "", pos.Line, pos.Column)
		return l.last, nil
	}
	m := tok.(match)
	pos := l.position(m.offset)
	l.last = spi.MakeToken(m.kind, m.lexeme, pos.Line, pos.Column)
	tracer().Debugf("token %v", l.last)
	return l.last, nil
}

// PeekRaw is part of the Tokenizer interface.
func (l *Lexer) PeekRaw() byte {
	if l.eof || l.scanner.TC >= len(l.text) {
		return 0
	}
	return l.text[l.scanner.TC]
}

// position converts a byte offset into a line/column position.
func (l *Lexer) position(offset int) spi.Pos {
	n := sort.Search(len(l.lines), func(i int) bool {
		return l.lines[i] > offset
	}) - 1
	return spi.Pos{Line: n + 1, Column: offset - l.lines[n] + 1}
}

func (l *Lexer) lexicalError(err error) error {
	ui, ok := err.(*machines.UnconsumedInput)
	if !ok || ui.StartTC >= len(l.text) {
		return fmt.Errorf("%w: %v", spi.ErrLexical, err)
	}
	pos := l.position(ui.StartTC)
	r, _ := utf8.DecodeRune(l.text[ui.StartTC:])
	if r == '{' {
		return spi.LexicalError(spi.UnterminatedComment, pos, "{")
	}
	lexeme := string(r)
	if !unicode.IsPrint(r) {
		lexeme = fmt.Sprintf("%U", r)
	}
	return spi.LexicalError(spi.UnexpectedLexeme, pos, lexeme)
}

// Tokens is a helper to scan a complete input. The returned tokens include the
// final EOF token.
func Tokens(input string) ([]spi.Token, error) {
	l, err := New(input)
	if err != nil {
		return nil, err
	}
	var toks []spi.Token
	for {
		t, err := l.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, t)
		if t.Kind == spi.EOF {
			return toks, nil
		}
	}
}
