package ast

import "github.com/cnf/structhash"

// Visitor is the interface for syntax tree traversals. Every node type's
// Accept method calls the corresponding Visit method. Visitors are responsible
// for descending into child nodes.
type Visitor interface {
	VisitProgram(*Program) error
	VisitBlock(*Block) error
	VisitVarDecl(*VarDecl) error
	VisitProcDecl(*ProcDecl) error
	VisitParam(*Param) error
	VisitCompound(*Compound) error
	VisitAssign(*Assign) error
	VisitProcCall(*ProcCall) error
	VisitNoOp(*NoOp) error
	VisitBinOp(*BinOp) error
	VisitVarRef(*VarRef) error
	VisitIntLiteral(*IntLiteral) error
}

// ExprEvaluator computes values of expressions.
type ExprEvaluator interface {
	EvalBinOp(*BinOp) (float64, error)
	EvalVarRef(*VarRef) (float64, error)
	EvalIntLiteral(*IntLiteral) (float64, error)
}

// --- Inspection ------------------------------------------------------------

// Inspect traverses a syntax tree in depth-first order, calling f for each
// node. If f returns false, Inspect skips the children of that node.
// Inspect does not follow procedure calls to their declarations.
func Inspect(n Node, f func(Node) bool) {
	if n == nil {
		return
	}
	n.Accept(inspector(f))
}

// Children returns the direct child nodes of n, in source order.
func Children(n Node) []Node {
	var children []Node
	Inspect(n, func(c Node) bool {
		if c == n {
			return true
		}
		children = append(children, c)
		return false
	})
	return children
}

type inspector func(Node) bool

func (in inspector) VisitProgram(n *Program) error {
	if in(n) {
		n.Block.Accept(in)
	}
	return nil
}

func (in inspector) VisitBlock(n *Block) error {
	if in(n) {
		for _, d := range n.Declarations {
			d.Accept(in)
		}
		n.Body.Accept(in)
	}
	return nil
}

func (in inspector) VisitVarDecl(n *VarDecl) error {
	in(n)
	return nil
}

func (in inspector) VisitProcDecl(n *ProcDecl) error {
	if in(n) {
		for _, p := range n.Params {
			p.Accept(in)
		}
		n.Block.Accept(in)
	}
	return nil
}

func (in inspector) VisitParam(n *Param) error {
	in(n)
	return nil
}

func (in inspector) VisitCompound(n *Compound) error {
	if in(n) {
		for _, s := range n.Statements {
			s.Accept(in)
		}
	}
	return nil
}

func (in inspector) VisitAssign(n *Assign) error {
	if in(n) {
		n.Target.Accept(in)
		n.Value.Accept(in)
	}
	return nil
}

func (in inspector) VisitProcCall(n *ProcCall) error {
	if in(n) {
		for _, a := range n.Args {
			a.Accept(in)
		}
	}
	return nil
}

func (in inspector) VisitNoOp(n *NoOp) error {
	in(n)
	return nil
}

func (in inspector) VisitBinOp(n *BinOp) error {
	if in(n) {
		n.Left.Accept(in)
		n.Right.Accept(in)
	}
	return nil
}

func (in inspector) VisitVarRef(n *VarRef) error {
	in(n)
	return nil
}

func (in inspector) VisitIntLiteral(n *IntLiteral) error {
	in(n)
	return nil
}

var _ Visitor = inspector(nil)

// --- Fingerprints ----------------------------------------------------------

// Fingerprint returns a structural hash of a syntax tree. Trees of identical
// structure, names and source positions have identical fingerprints.
// Bindings of procedure calls do not contribute to the hash.
func Fingerprint(n Node) (string, error) {
	return structhash.Hash(n, 1)
}
