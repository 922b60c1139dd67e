package ast

import (
	"testing"

	"github.com/npillmayer/spi"
)

func sampleProgram(factor string) *Program {
	pos := spi.Pos{Line: 1, Column: 1}
	x := &VarRef{At: pos, Name: "x"}
	expr := &BinOp{
		At:   pos,
		Left: &VarRef{At: pos, Name: "x"},
		Op:   spi.MakeToken(spi.PLUS, "+", 1, 3),
		Right: &BinOp{
			At:    pos,
			Left:  &VarRef{At: pos, Name: "y"},
			Op:    spi.MakeToken(spi.MUL, "*", 1, 7),
			Right: &IntLiteral{At: pos, Text: factor},
		},
	}
	proc := &ProcDecl{
		At:     pos,
		Name:   "p",
		Params: []*Param{{At: pos, Name: "a", Type: "INTEGER"}},
		Block:  &Block{At: pos, Body: &Compound{At: pos, Statements: []Stmt{&NoOp{At: pos}}}},
	}
	call := &ProcCall{At: pos, Name: "p", Args: []Expr{&IntLiteral{At: pos, Text: "1"}}}
	return &Program{
		At:   pos,
		Name: "P",
		Block: &Block{
			At:           pos,
			Declarations: []Decl{&VarDecl{At: pos, Name: "x", Type: "INTEGER"}, proc},
			Body: &Compound{At: pos, Statements: []Stmt{
				&Assign{At: pos, Target: x, Value: expr},
				call,
			}},
		},
	}
}

func TestExprString(t *testing.T) {
	prog := sampleProgram("2")
	assign := prog.Block.Body.Statements[0].(*Assign)
	if s := assign.Value.String(); s != "(+ x (* y 2))" {
		t.Errorf("unexpected expression string %q", s)
	}
}

func TestInspectCountsNodes(t *testing.T) {
	prog := sampleProgram("2")
	count := 0
	Inspect(prog, func(Node) bool {
		count++
		return true
	})
	// Program Block VarDecl ProcDecl Param Block Compound NoOp Compound
	// Assign VarRef BinOp VarRef BinOp VarRef IntLiteral ProcCall IntLiteral
	if count != 18 {
		t.Errorf("expected 18 nodes, counted %d", count)
	}
	count = 0
	Inspect(prog, func(n Node) bool {
		count++
		_, isProc := n.(*ProcDecl)
		return !isProc
	})
	if count != 14 {
		t.Errorf("expected 14 nodes with procedure body skipped, counted %d", count)
	}
}

func TestBindIsIdempotent(t *testing.T) {
	prog := sampleProgram("2")
	call := prog.Block.Body.Statements[1].(*ProcCall)
	decl := prog.Block.Declarations[1].(*ProcDecl)
	if call.Decl() != nil {
		t.Fatalf("expected call to be unbound after construction")
	}
	call.Bind(decl)
	call.Bind(decl)
	if call.Decl() != decl {
		t.Errorf("expected call to be bound to %s", decl.Name)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected re-binding to a different declaration to panic")
		}
	}()
	call.Bind(&ProcDecl{Name: "q"})
}

func TestFingerprint(t *testing.T) {
	h1, err := Fingerprint(sampleProgram("2"))
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := Fingerprint(sampleProgram("2"))
	h3, _ := Fingerprint(sampleProgram("3"))
	if h1 != h2 {
		t.Errorf("expected identical trees to have identical fingerprints")
	}
	if h1 == h3 {
		t.Errorf("expected different trees to have different fingerprints")
	}
	prog := sampleProgram("2")
	prog.Block.Body.Statements[1].(*ProcCall).Bind(prog.Block.Declarations[1].(*ProcDecl))
	if h4, _ := Fingerprint(prog); h4 != h1 {
		t.Errorf("expected binding not to change the fingerprint")
	}
}

func TestChildren(t *testing.T) {
	prog := sampleProgram("2")
	if c := Children(prog); len(c) != 1 || c[0] != prog.Block {
		t.Errorf("expected block to be the only child of program, have %v", c)
	}
	if c := Children(prog.Block); len(c) != 3 {
		t.Errorf("expected 3 children of block, have %d", len(c))
	}
	assign := prog.Block.Body.Statements[0].(*Assign)
	c := Children(assign)
	if len(c) != 2 || c[0] != Node(assign.Target) || c[1] != Node(assign.Value) {
		t.Errorf("expected target and value as children of assignment, have %v", c)
	}
	if c := Children(assign.Target); len(c) != 0 {
		t.Errorf("expected variable reference to be a leaf, have %v", c)
	}
}
