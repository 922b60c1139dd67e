/*
Package interp implements a tree-walking evaluator for resolved programs.

The evaluator keeps an explicit call stack of activation records. The program
itself and every procedure invocation get a record of their own. Records do
not link to the records of callers or of lexically enclosing procedures:
a procedure sees its own parameters and locals only. A reference to a
variable of an enclosing scope will pass semantic analysis, but fail at
run-time with an 'unbound variable' fault.

All values are numbers of type float64. Division with '/' (or '//') is real
division, even for operands declared as INTEGER.

Evaluation requires a program which has been processed by package resolver.
Evaluating an unbound procedure call is a programming error and will panic.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package interp

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/spi"
	"github.com/npillmayer/spi/ast"
	"github.com/npillmayer/spi/config"
	"github.com/npillmayer/spi/runtime"
)

// tracer traces with key 'spi.interp'.
func tracer() tracing.Trace {
	return tracing.Select("spi.interp")
}

// Evaluator executes resolved programs. An evaluator may be re-used for
// more than one run, but is not safe for concurrent use.
type Evaluator struct {
	conf     config.Config
	maxDepth int
	stack    *runtime.CallStack
}

var _ ast.Visitor = (*Evaluator)(nil)
var _ ast.ExprEvaluator = (*Evaluator)(nil)

// New creates an evaluator. The call stack is limited to conf.MaxCallDepth
// activation records. A depth outside 1…config.MaxCallDepthLimit is replaced
// by the limit.
func New(conf config.Config) *Evaluator {
	depth := conf.MaxCallDepth
	if depth < 1 || depth > config.MaxCallDepthLimit {
		depth = config.MaxCallDepthLimit
	}
	return &Evaluator{conf: conf, maxDepth: depth}
}

// Run is a shortcut for running a program with a fresh evaluator.
func Run(prog *ast.Program, conf config.Config) (runtime.Memory, error) {
	return New(conf).Run(prog)
}

// Run executes a program and returns the final memory of the program's
// activation record. The first run-time fault stops the execution.
func (ev *Evaluator) Run(prog *ast.Program) (mem runtime.Memory, err error) {
	if prog == nil {
		panic("evaluator called with nil program")
	}
	ev.stack = runtime.NewCallStack(ev.maxDepth)
	ar := runtime.NewActivationRecord(prog.Name, runtime.ProgramRecord, 1)
	if err = ev.push(ar, prog.At); err != nil {
		return nil, err
	}
	defer ev.pop()
	if err = prog.Block.Accept(ev); err != nil {
		tracer().Infof("program %s stopped: %v", prog.Name, err)
		return nil, err
	}
	mem = ar.Memory()
	tracer().Debugf("program %s finished with memory %s", prog.Name, mem)
	return mem, nil
}

// CallStack returns the call stack of the current or most recent run.
func (ev *Evaluator) CallStack() *runtime.CallStack {
	return ev.stack
}

// --- Call stack ------------------------------------------------------------

func (ev *Evaluator) push(ar *runtime.ActivationRecord, pos spi.Pos) error {
	if err := ev.stack.Push(ar); err != nil {
		if errors.Is(err, runtime.ErrStackExhausted) {
			return spi.RuntimeFault(spi.StackExhausted, pos, ar.Name,
				fmt.Sprintf("more than %d activation records", ev.maxDepth))
		}
		return err
	}
	if ev.conf.TraceStack {
		ev.conf.StackTrace().Infof("ENTER: %s %s", ar.Kind, ar.Name)
		ev.conf.StackTrace().Infof("%s", ev.stack)
	}
	return nil
}

func (ev *Evaluator) pop() {
	if ev.conf.TraceStack {
		ar := ev.stack.Peek()
		ev.conf.StackTrace().Infof("LEAVE: %s %s", ar.Kind, ar.Name)
		ev.conf.StackTrace().Infof("%s", ev.stack)
	}
	ev.stack.Pop()
}

// --- Declarations and statements -------------------------------------------

// VisitProgram runs a program on the current call stack. Clients should call
// Run instead.
func (ev *Evaluator) VisitProgram(n *ast.Program) error {
	return n.Block.Accept(ev)
}

func (ev *Evaluator) VisitBlock(n *ast.Block) error {
	for _, decl := range n.Declarations {
		if err := decl.Accept(ev); err != nil {
			return err
		}
	}
	return n.Body.Accept(ev)
}

// VisitVarDecl does nothing. Variables come into existence with their first
// assignment.
func (ev *Evaluator) VisitVarDecl(n *ast.VarDecl) error {
	return nil
}

func (ev *Evaluator) VisitProcDecl(n *ast.ProcDecl) error {
	return nil
}

func (ev *Evaluator) VisitParam(n *ast.Param) error {
	return nil
}

func (ev *Evaluator) VisitCompound(n *ast.Compound) error {
	for _, stmt := range n.Statements {
		if err := stmt.Accept(ev); err != nil {
			return err
		}
	}
	return nil
}

// VisitAssign stores the value of the right hand side in the topmost
// activation record.
func (ev *Evaluator) VisitAssign(n *ast.Assign) error {
	v, err := n.Value.Evaluate(ev)
	if err != nil {
		return err
	}
	ev.stack.Peek().Set(n.Target.Name, v)
	return nil
}

// VisitProcCall evaluates the arguments within the caller's activation record,
// then executes the procedure's block within a new record holding the
// parameters.
func (ev *Evaluator) VisitProcCall(n *ast.ProcCall) error {
	decl := n.Decl()
	if decl == nil {
		panic(fmt.Sprintf("call of procedure %s at %s has not been resolved", n.Name, n.At))
	}
	args := make([]float64, len(n.Args))
	for i, arg := range n.Args {
		v, err := arg.Evaluate(ev)
		if err != nil {
			return err
		}
		args[i] = v
	}
	caller := ev.stack.Peek()
	ar := runtime.NewActivationRecord(decl.Name, runtime.ProcedureRecord, caller.Level+1)
	for i, param := range decl.Params {
		ar.Set(param.Name, args[i])
	}
	if err := ev.push(ar, n.At); err != nil {
		return err
	}
	defer ev.pop()
	return decl.Block.Accept(ev)
}

func (ev *Evaluator) VisitNoOp(n *ast.NoOp) error {
	return nil
}

// --- Expressions -----------------------------------------------------------

func (ev *Evaluator) VisitBinOp(n *ast.BinOp) error {
	_, err := ev.EvalBinOp(n)
	return err
}

func (ev *Evaluator) VisitVarRef(n *ast.VarRef) error {
	_, err := ev.EvalVarRef(n)
	return err
}

func (ev *Evaluator) VisitIntLiteral(n *ast.IntLiteral) error {
	_, err := ev.EvalIntLiteral(n)
	return err
}

// EvalBinOp evaluates the left operand, then the right one.
func (ev *Evaluator) EvalBinOp(n *ast.BinOp) (float64, error) {
	l, err := n.Left.Evaluate(ev)
	if err != nil {
		return 0, err
	}
	r, err := n.Right.Evaluate(ev)
	if err != nil {
		return 0, err
	}
	switch n.Op.Kind {
	case spi.PLUS:
		return l + r, nil
	case spi.MINUS:
		return l - r, nil
	case spi.MUL:
		return l * r, nil
	case spi.DIV:
		if r == 0 {
			return 0, spi.RuntimeFault(spi.DivisionByZero, n.Op.Pos, n.Op.Lexeme, n.String())
		}
		return l / r, nil
	}
	panic(fmt.Sprintf("unknown operator %s at %s", n.Op.Kind, n.Op.Pos))
}

// EvalVarRef reads a variable from the topmost activation record.
func (ev *Evaluator) EvalVarRef(n *ast.VarRef) (float64, error) {
	ar := ev.stack.Peek()
	v, ok := ar.Get(n.Name)
	if !ok {
		return 0, spi.RuntimeFault(spi.UnboundVariable, n.At, n.Name,
			fmt.Sprintf("no value in activation record %s", ar.Name))
	}
	return v, nil
}

func (ev *Evaluator) EvalIntLiteral(n *ast.IntLiteral) (float64, error) {
	v, err := n.Value()
	if err != nil {
		return 0, spi.RuntimeFault(spi.IntegerOverflow, n.At, n.Text, err.Error())
	}
	return float64(v), nil
}
