/*
Package parser creates syntax trees for SPI programs.

The parser is a recursive descent parser with one token of lookahead. The
grammar is:

    program    := 'PROGRAM' ID ';' block '.'
    block      := decls compound
    decls      := (vardecl | procdecl ';')*
    vardecl    := 'VAR' ID (',' ID)* ':' type ';'
    procdecl   := 'PROCEDURE' ID '(' paramlist? ')' ';' block
    paramlist  := params (';' params)*
    params     := ID (',' ID)* ':' type
    type       := 'INTEGER' | 'REAL'
    compound   := 'BEGIN' stmtlist 'END'
    stmtlist   := stmt (';' stmt)*
    stmt       := compound | proccall | assign | ε
    proccall   := ID '(' (expr (',' expr)*)? ')'
    assign     := ID ':=' expr
    expr       := term (('+'|'-') term)*
    term       := factor (('*'|'/') factor)*
    factor     := '(' expr ')' | ID | INTEGER_CONST

A statement starting with an identifier is a procedure call if and only if the
identifier is immediately followed by '(' in the source text, without any
whitespace in between.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/spi"
	"github.com/npillmayer/spi/ast"
	"github.com/npillmayer/spi/scanner"
)

// tracer traces with key 'spi.parser'.
func tracer() tracing.Trace {
	return tracing.Select("spi.parser")
}

// Parser is a recursive descent parser for SPI. Create one with New.
type Parser struct {
	lexer   scanner.Tokenizer
	current spi.Token
}

// bailout is used to unwind the parser's call stack on the first error.
type bailout struct {
	err error
}

// New creates a parser reading tokens from lexer.
func New(lexer scanner.Tokenizer) (*Parser, error) {
	p := &Parser{lexer: lexer}
	tok, err := lexer.NextToken()
	if err != nil {
		return nil, err
	}
	p.current = tok
	return p, nil
}

// Parse is a convenience function to parse a program text.
func Parse(input string) (*ast.Program, error) {
	lexer, err := scanner.New(input)
	if err != nil {
		return nil, err
	}
	p, err := New(lexer)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// Parse parses a complete program, which has to be followed by the end of input.
// The first error stops the parser.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			tracer().Debugf("parser stopped: %v", b.err)
			prog, err = nil, b.err
		}
	}()
	prog = p.program()
	p.eat(spi.EOF)
	return prog, nil
}

// eat consumes the current token if it is of category kind. Otherwise parsing
// stops with a parse error.
func (p *Parser) eat(kind spi.TokType) spi.Token {
	tok := p.current
	if tok.Kind != kind {
		panic(bailout{spi.ParseError(tok, kind)})
	}
	if kind != spi.EOF {
		next, err := p.lexer.NextToken()
		if err != nil {
			panic(bailout{err})
		}
		p.current = next
	}
	return tok
}

func (p *Parser) is(kind spi.TokType) bool {
	return p.current.Kind == kind
}

// --- Declarations ----------------------------------------------------------

// program := 'PROGRAM' ID ';' block '.'
func (p *Parser) program() *ast.Program {
	at := p.eat(spi.PROGRAM).Pos
	name := p.eat(spi.ID).Lexeme
	p.eat(spi.SEMI)
	block := p.block()
	p.eat(spi.DOT)
	tracer().Debugf("parsed program %s", name)
	return &ast.Program{At: at, Name: name, Block: block}
}

// block := decls compound
func (p *Parser) block() *ast.Block {
	at := p.current.Pos
	decls := p.decls()
	body := p.compound()
	return &ast.Block{At: at, Declarations: decls, Body: body}
}

// decls := (vardecl | procdecl ';')*
func (p *Parser) decls() []ast.Decl {
	var decls []ast.Decl
	for {
		switch p.current.Kind {
		case spi.VAR:
			for _, v := range p.vardecl() {
				decls = append(decls, v)
			}
		case spi.PROCEDURE:
			decls = append(decls, p.procdecl())
			p.eat(spi.SEMI)
		default:
			return decls
		}
	}
}

// vardecl := 'VAR' ID (',' ID)* ':' type ';'
func (p *Parser) vardecl() []*ast.VarDecl {
	p.eat(spi.VAR)
	names := p.identifierList()
	p.eat(spi.COLON)
	typ := p.typeSpec()
	p.eat(spi.SEMI)
	decls := make([]*ast.VarDecl, len(names))
	for i, id := range names {
		decls[i] = &ast.VarDecl{At: id.Pos, Name: id.Lexeme, Type: typ}
	}
	return decls
}

// procdecl := 'PROCEDURE' ID '(' paramlist? ')' ';' block
func (p *Parser) procdecl() *ast.ProcDecl {
	at := p.eat(spi.PROCEDURE).Pos
	name := p.eat(spi.ID).Lexeme
	p.eat(spi.LPAREN)
	var params []*ast.Param
	if !p.is(spi.RPAREN) {
		params = p.paramlist()
	}
	p.eat(spi.RPAREN)
	p.eat(spi.SEMI)
	block := p.block()
	tracer().Debugf("parsed procedure %s with %d parameters", name, len(params))
	return &ast.ProcDecl{At: at, Name: name, Params: params, Block: block}
}

// paramlist := params (';' params)*
func (p *Parser) paramlist() []*ast.Param {
	params := p.params()
	for p.is(spi.SEMI) {
		p.eat(spi.SEMI)
		params = append(params, p.params()...)
	}
	return params
}

// params := ID (',' ID)* ':' type
func (p *Parser) params() []*ast.Param {
	names := p.identifierList()
	p.eat(spi.COLON)
	typ := p.typeSpec()
	params := make([]*ast.Param, len(names))
	for i, id := range names {
		params[i] = &ast.Param{At: id.Pos, Name: id.Lexeme, Type: typ}
	}
	return params
}

// ID (',' ID)*
func (p *Parser) identifierList() []spi.Token {
	ids := []spi.Token{p.eat(spi.ID)}
	for p.is(spi.COMMA) {
		p.eat(spi.COMMA)
		ids = append(ids, p.eat(spi.ID))
	}
	return ids
}

// type := 'INTEGER' | 'REAL'
func (p *Parser) typeSpec() string {
	if p.is(spi.INTEGER) {
		return p.eat(spi.INTEGER).Kind.String()
	}
	return p.eat(spi.REAL).Kind.String()
}

// --- Statements ------------------------------------------------------------

// compound := 'BEGIN' stmtlist 'END'
func (p *Parser) compound() *ast.Compound {
	at := p.eat(spi.BEGIN).Pos
	stmts := p.stmtlist()
	p.eat(spi.END)
	return &ast.Compound{At: at, Statements: stmts}
}

// stmtlist := stmt (';' stmt)*
func (p *Parser) stmtlist() []ast.Stmt {
	stmts := []ast.Stmt{p.stmt()}
	for p.is(spi.SEMI) {
		p.eat(spi.SEMI)
		stmts = append(stmts, p.stmt())
	}
	return stmts
}

// stmt := compound | proccall | assign | ε
func (p *Parser) stmt() ast.Stmt {
	switch {
	case p.is(spi.BEGIN):
		return p.compound()
	case p.is(spi.ID) && p.lexer.PeekRaw() == '(':
		return p.proccall()
	case p.is(spi.ID):
		return p.assign()
	}
	return &ast.NoOp{At: p.current.Pos}
}

// proccall := ID '(' (expr (',' expr)*)? ')'
func (p *Parser) proccall() *ast.ProcCall {
	id := p.eat(spi.ID)
	p.eat(spi.LPAREN)
	var args []ast.Expr
	if !p.is(spi.RPAREN) {
		args = append(args, p.expr())
		for p.is(spi.COMMA) {
			p.eat(spi.COMMA)
			args = append(args, p.expr())
		}
	}
	p.eat(spi.RPAREN)
	return &ast.ProcCall{At: id.Pos, Name: id.Lexeme, Args: args}
}

// assign := ID ':=' expr
func (p *Parser) assign() *ast.Assign {
	target := p.variable()
	p.eat(spi.ASSIGN)
	value := p.expr()
	return &ast.Assign{At: target.At, Target: target, Value: value}
}

func (p *Parser) variable() *ast.VarRef {
	id := p.eat(spi.ID)
	return &ast.VarRef{At: id.Pos, Name: id.Lexeme}
}

// --- Expressions -----------------------------------------------------------

// expr := term (('+'|'-') term)*
func (p *Parser) expr() ast.Expr {
	left := p.term()
	for p.is(spi.PLUS) || p.is(spi.MINUS) {
		op := p.eat(p.current.Kind)
		right := p.term()
		left = &ast.BinOp{At: left.Pos(), Left: left, Op: op, Right: right}
	}
	return left
}

// term := factor (('*'|'/') factor)*
func (p *Parser) term() ast.Expr {
	left := p.factor()
	for p.is(spi.MUL) || p.is(spi.DIV) {
		op := p.eat(p.current.Kind)
		right := p.factor()
		left = &ast.BinOp{At: left.Pos(), Left: left, Op: op, Right: right}
	}
	return left
}

// factor := '(' expr ')' | ID | INTEGER_CONST
func (p *Parser) factor() ast.Expr {
	switch p.current.Kind {
	case spi.LPAREN:
		p.eat(spi.LPAREN)
		e := p.expr()
		p.eat(spi.RPAREN)
		return e
	case spi.ID:
		return p.variable()
	}
	lit := p.eat(spi.INTCONST)
	return &ast.IntLiteral{At: lit.Pos, Text: lit.Lexeme}
}
