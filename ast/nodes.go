package ast

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/spi"
)

// Node is the interface all syntax tree nodes implement.
type Node interface {
	Pos() spi.Pos
	Accept(v Visitor) error
}

// Decl is a declaration within a block: *VarDecl or *ProcDecl.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement: *Compound, *Assign, *ProcCall or *NoOp.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression: *BinOp, *VarRef or *IntLiteral.
type Expr interface {
	Node
	Evaluate(e ExprEvaluator) (float64, error)
	String() string
	exprNode()
}

// --- Program structure -----------------------------------------------------

// Program is the root of a syntax tree.
type Program struct {
	At    spi.Pos
	Name  string
	Block *Block
}

// Block is the body of a program or procedure.
type Block struct {
	At           spi.Pos
	Declarations []Decl
	Body         *Compound
}

// VarDecl declares a single variable. A declaration list "VAR a, b: INTEGER"
// results in one VarDecl per name.
type VarDecl struct {
	At   spi.Pos
	Name string
	Type string
}

// ProcDecl declares a procedure.
type ProcDecl struct {
	At     spi.Pos
	Name   string
	Params []*Param
	Block  *Block
}

// Param is a formal parameter of a procedure.
type Param struct {
	At   spi.Pos
	Name string
	Type string
}

// --- Statements ------------------------------------------------------------

// Compound is a BEGIN … END statement list.
type Compound struct {
	At         spi.Pos
	Statements []Stmt
}

// Assign is an assignment statement.
type Assign struct {
	At     spi.Pos
	Target *VarRef
	Value  Expr
}

// ProcCall is a procedure call statement. The called procedure's declaration is
// unknown after parsing and will be bound by semantic analysis.
type ProcCall struct {
	At   spi.Pos
	Name string
	Args []Expr
	decl *ProcDecl `hash:"-"`
}

// Bind sets the declaration of the procedure a call refers to. Binding is
// allowed once; binding the same declaration again is a no-op.
func (n *ProcCall) Bind(decl *ProcDecl) {
	if n.decl != nil && n.decl != decl {
		panic(fmt.Sprintf("procedure call %s at %s already bound", n.Name, n.At))
	}
	n.decl = decl
}

// Decl returns the bound procedure declaration, or nil if unbound.
func (n *ProcCall) Decl() *ProcDecl {
	return n.decl
}

// NoOp is the empty statement.
type NoOp struct {
	At spi.Pos
}

// --- Expressions -----------------------------------------------------------

// BinOp is a binary arithmetic operation. Op is one of PLUS, MINUS, MUL and DIV.
type BinOp struct {
	At    spi.Pos
	Left  Expr
	Op    spi.Token
	Right Expr
}

// VarRef is a reference to a variable, either as a value or as an assignment
// target.
type VarRef struct {
	At   spi.Pos
	Name string
}

// IntLiteral is an integer constant, as written in the source.
type IntLiteral struct {
	At   spi.Pos
	Text string
}

// Value returns the numeric value of the literal.
func (n *IntLiteral) Value() (int64, error) {
	return strconv.ParseInt(n.Text, 10, 64)
}

// --- Interface implementations ---------------------------------------------

func (n *Program) Pos() spi.Pos    { return n.At }
func (n *Block) Pos() spi.Pos      { return n.At }
func (n *VarDecl) Pos() spi.Pos    { return n.At }
func (n *ProcDecl) Pos() spi.Pos   { return n.At }
func (n *Param) Pos() spi.Pos      { return n.At }
func (n *Compound) Pos() spi.Pos   { return n.At }
func (n *Assign) Pos() spi.Pos     { return n.At }
func (n *ProcCall) Pos() spi.Pos   { return n.At }
func (n *NoOp) Pos() spi.Pos       { return n.At }
func (n *BinOp) Pos() spi.Pos      { return n.At }
func (n *VarRef) Pos() spi.Pos     { return n.At }
func (n *IntLiteral) Pos() spi.Pos { return n.At }

func (n *Program) Accept(v Visitor) error    { return v.VisitProgram(n) }
func (n *Block) Accept(v Visitor) error      { return v.VisitBlock(n) }
func (n *VarDecl) Accept(v Visitor) error    { return v.VisitVarDecl(n) }
func (n *ProcDecl) Accept(v Visitor) error   { return v.VisitProcDecl(n) }
func (n *Param) Accept(v Visitor) error      { return v.VisitParam(n) }
func (n *Compound) Accept(v Visitor) error   { return v.VisitCompound(n) }
func (n *Assign) Accept(v Visitor) error     { return v.VisitAssign(n) }
func (n *ProcCall) Accept(v Visitor) error   { return v.VisitProcCall(n) }
func (n *NoOp) Accept(v Visitor) error       { return v.VisitNoOp(n) }
func (n *BinOp) Accept(v Visitor) error      { return v.VisitBinOp(n) }
func (n *VarRef) Accept(v Visitor) error     { return v.VisitVarRef(n) }
func (n *IntLiteral) Accept(v Visitor) error { return v.VisitIntLiteral(n) }

func (n *VarDecl) declNode()  {}
func (n *ProcDecl) declNode() {}

func (n *Compound) stmtNode() {}
func (n *Assign) stmtNode()   {}
func (n *ProcCall) stmtNode() {}
func (n *NoOp) stmtNode()     {}

func (n *BinOp) exprNode()      {}
func (n *VarRef) exprNode()     {}
func (n *IntLiteral) exprNode() {}

func (n *BinOp) Evaluate(e ExprEvaluator) (float64, error)      { return e.EvalBinOp(n) }
func (n *VarRef) Evaluate(e ExprEvaluator) (float64, error)     { return e.EvalVarRef(n) }
func (n *IntLiteral) Evaluate(e ExprEvaluator) (float64, error) { return e.EvalIntLiteral(n) }

// String returns a prefix notation of an expression, e.g. "(+ x (* y 2))".
func (n *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Op.Lexeme, n.Left, n.Right)
}

func (n *VarRef) String() string {
	return n.Name
}

func (n *IntLiteral) String() string {
	return n.Text
}
