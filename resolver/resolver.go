/*
Package resolver implements semantic analysis of syntax trees.

The resolver walks a program top-down, building a tree of scopes. It checks
every declaration and every use of a name:

    • names must not be declared twice within a single scope
    • variables and parameters must be of a built-in type
    • every name in use must be declared in the current scope or an enclosing one
    • assignment targets and variable references must denote variables
    • procedure calls must denote procedures and match their arity

Every procedure call is bound to the declaration of the called procedure.

Scopes are searched from the innermost to the outermost scope. Resolving a
name from an enclosing scope does not imply that its value is reachable at
run-time: activation records are flat, i.e. procedures see their own
locals and parameters only.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resolver

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/spi"
	"github.com/npillmayer/spi/ast"
	"github.com/npillmayer/spi/config"
	"github.com/npillmayer/spi/runtime"
)

// tracer traces with key 'spi.resolver'.
func tracer() tracing.Trace {
	return tracing.Select("spi.resolver")
}

// Resolver is a visitor for semantic analysis. A resolver may be re-used for
// more than one program, but is not safe for concurrent use.
type Resolver struct {
	conf   config.Config
	scopes *runtime.ScopeTree
}

var _ ast.Visitor = (*Resolver)(nil)

// New creates a resolver.
func New(conf config.Config) *Resolver {
	return &Resolver{conf: conf}
}

// Resolve is a shortcut for analysing a program with a fresh resolver.
// It returns the scope tree built during analysis.
func Resolve(prog *ast.Program, conf config.Config) (*runtime.ScopeTree, error) {
	r := New(conf)
	if err := r.Resolve(prog); err != nil {
		return r.Scopes(), err
	}
	return r.Scopes(), nil
}

// Resolve checks a program and binds its procedure calls. The first semantic
// error stops the analysis.
func (r *Resolver) Resolve(prog *ast.Program) error {
	if prog == nil {
		panic("resolver called with nil program")
	}
	r.scopes = runtime.NewScopeTree()
	tracer().Debugf("resolving program %s", prog.Name)
	return prog.Accept(r)
}

// Scopes returns the scope tree of the most recently resolved program.
func (r *Resolver) Scopes() *runtime.ScopeTree {
	return r.scopes
}

// --- Scope tracing ---------------------------------------------------------

func (r *Resolver) tracef(format string, args ...interface{}) {
	if r.conf.TraceScope {
		r.conf.ScopeTrace().Infof(format, args...)
	}
}

func (r *Resolver) enter(name string) *runtime.Scope {
	sc := r.scopes.PushNewScope(name)
	r.tracef("ENTER scope: %s", name)
	return sc
}

func (r *Resolver) leave() {
	sc := r.scopes.PopScope()
	if r.conf.TraceScope {
		r.conf.ScopeTrace().Infof("%s", sc.Dump())
	}
	r.tracef("LEAVE scope: %s", sc.Name)
}

func (r *Resolver) insert(sym *runtime.Symbol) {
	r.tracef("Insert: %s", sym.Name())
	r.scopes.Current().Insert(sym)
}

func (r *Resolver) lookup(name string) *runtime.Symbol {
	sym, sc := r.scopes.Current().Lookup(name)
	if sc != nil {
		r.tracef("Lookup: %s. (Scope name: %s)", name, sc.Name)
	} else {
		r.tracef("Lookup: %s. (not found)", name)
	}
	return sym
}

// --- Declarations ----------------------------------------------------------

// VisitProgram opens the program's scope, which holds the built-in types.
func (r *Resolver) VisitProgram(n *ast.Program) error {
	r.enter(n.Name)
	for _, builtin := range runtime.Builtins() {
		r.insert(builtin)
	}
	if err := n.Block.Accept(r); err != nil {
		return err
	}
	r.leave()
	return nil
}

func (r *Resolver) VisitBlock(n *ast.Block) error {
	for _, decl := range n.Declarations {
		if err := decl.Accept(r); err != nil {
			return err
		}
	}
	return n.Body.Accept(r)
}

func (r *Resolver) VisitVarDecl(n *ast.VarDecl) error {
	return r.declareVariable(n.Name, n.Type, n.At)
}

func (r *Resolver) VisitParam(n *ast.Param) error {
	return r.declareVariable(n.Name, n.Type, n.At)
}

func (r *Resolver) declareVariable(name, typename string, pos spi.Pos) error {
	if err := r.checkDuplicate(name, pos); err != nil {
		return err
	}
	typ := r.lookup(typename)
	if typ == nil || typ.Kind != runtime.BuiltinTypeSymbol {
		return spi.SemanticError(spi.UnknownType, pos, typename,
			fmt.Sprintf("type of variable %s is not a built-in type", name))
	}
	r.insert(runtime.NewVariable(name, typ))
	return nil
}

func (r *Resolver) checkDuplicate(name string, pos spi.Pos) error {
	if sym := r.scopes.Current().LookupLocal(name); sym != nil {
		return spi.SemanticError(spi.DuplicateID, pos, name,
			fmt.Sprintf("already declared in scope %s", r.scopes.Current().Name))
	}
	return nil
}

// VisitProcDecl declares a procedure in the enclosing scope before resolving
// its body. Recursive calls therefore resolve.
func (r *Resolver) VisitProcDecl(n *ast.ProcDecl) error {
	if err := r.checkDuplicate(n.Name, n.At); err != nil {
		return err
	}
	r.insert(runtime.NewProcedure(n))
	r.enter(n.Name)
	for _, param := range n.Params {
		if err := param.Accept(r); err != nil {
			return err
		}
	}
	if err := n.Block.Accept(r); err != nil {
		return err
	}
	r.leave()
	return nil
}

// --- Statements ------------------------------------------------------------

func (r *Resolver) VisitCompound(n *ast.Compound) error {
	for _, stmt := range n.Statements {
		if err := stmt.Accept(r); err != nil {
			return err
		}
	}
	return nil
}

// VisitAssign resolves the right hand side first.
func (r *Resolver) VisitAssign(n *ast.Assign) error {
	if err := n.Value.Accept(r); err != nil {
		return err
	}
	return n.Target.Accept(r)
}

func (r *Resolver) VisitProcCall(n *ast.ProcCall) error {
	sym := r.lookup(n.Name)
	if sym == nil {
		return spi.SemanticError(spi.IDNotFound, n.At, n.Name, "")
	}
	if sym.Kind != runtime.ProcedureSymbol {
		return spi.SemanticError(spi.NotAProcedure, n.At, n.Name,
			fmt.Sprintf("%s is declared as %s", n.Name, sym.Kind))
	}
	if len(sym.Params()) != len(n.Args) {
		return spi.SemanticError(spi.WrongParamsLength, n.At, n.Name,
			fmt.Sprintf("expected %d argument(s), got %d", len(sym.Params()), len(n.Args)))
	}
	for _, arg := range n.Args {
		if err := arg.Accept(r); err != nil {
			return err
		}
	}
	n.Bind(sym.Decl)
	return nil
}

func (r *Resolver) VisitNoOp(n *ast.NoOp) error {
	return nil
}

// --- Expressions -----------------------------------------------------------

func (r *Resolver) VisitBinOp(n *ast.BinOp) error {
	if err := n.Left.Accept(r); err != nil {
		return err
	}
	return n.Right.Accept(r)
}

func (r *Resolver) VisitVarRef(n *ast.VarRef) error {
	sym := r.lookup(n.Name)
	if sym == nil {
		return spi.SemanticError(spi.IDNotFound, n.At, n.Name, "")
	}
	if sym.Kind != runtime.VariableSymbol {
		return spi.SemanticError(spi.NotAVariable, n.At, n.Name,
			fmt.Sprintf("%s is declared as %s", n.Name, sym.Kind))
	}
	return nil
}

func (r *Resolver) VisitIntLiteral(n *ast.IntLiteral) error {
	return nil
}
