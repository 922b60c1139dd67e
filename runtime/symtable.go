package runtime

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/spi/ast"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Symbol table for declarations. Symbol tables are attached to scopes.
// Scopes are organized in a tree.
//

// --- Symbols ---------------------------------------------------------------

// SymbolKind tells what a symbol has been declared as.
type SymbolKind int8

// Kinds of symbols.
const (
	BuiltinTypeSymbol SymbolKind = iota
	VariableSymbol
	ProcedureSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case BuiltinTypeSymbol:
		return "BuiltinTypeSymbol"
	case VariableSymbol:
		return "VarSymbol"
	case ProcedureSymbol:
		return "ProcSymbol"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// Symbol is a resolved declaration: a built-in type, a variable (including
// formal parameters) or a procedure.
type Symbol struct {
	name string
	Kind SymbolKind
	Type *Symbol       // type of a variable
	Decl *ast.ProcDecl // declaration of a procedure
}

// NewBuiltinType creates a symbol for a built-in type.
func NewBuiltinType(name string) *Symbol {
	return &Symbol{name: name, Kind: BuiltinTypeSymbol}
}

// NewVariable creates a symbol for a variable of type typ.
func NewVariable(name string, typ *Symbol) *Symbol {
	return &Symbol{name: name, Kind: VariableSymbol, Type: typ}
}

// NewProcedure creates a symbol for a procedure declaration.
func NewProcedure(decl *ast.ProcDecl) *Symbol {
	return &Symbol{name: decl.Name, Kind: ProcedureSymbol, Decl: decl}
}

// Name gets the symbol's name.
func (s *Symbol) Name() string {
	return s.name
}

// Params returns the formal parameters of a procedure symbol, or nil for other
// kinds of symbols.
func (s *Symbol) Params() []*ast.Param {
	if s.Kind != ProcedureSymbol || s.Decl == nil {
		return nil
	}
	return s.Decl.Params
}

// String is a debug Stringer for symbols.
func (s *Symbol) String() string {
	switch s.Kind {
	case BuiltinTypeSymbol:
		return fmt.Sprintf("%s: %s", s.Kind, s.name)
	case VariableSymbol:
		typ := "?"
		if s.Type != nil {
			typ = s.Type.Name()
		}
		return fmt.Sprintf("%s<type: %s, name: %s>", s.Kind, typ, s.name)
	}
	return fmt.Sprintf("%s<name: %s, params: %d>", s.Kind, s.name, len(s.Params()))
}

// === Symbol Tables =========================================================

// SymbolTable is a symbol table to store symbols (map-like semantics).
type SymbolTable struct {
	Table map[string]*Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{Table: make(map[string]*Symbol)}
}

// Resolve checks for a symbol in the symbol table.
// Returns a symbol or nil.
func (t *SymbolTable) Resolve(name string) *Symbol {
	return t.Table[name]
}

// Insert inserts a symbol, overwriting an existing symbol with the same name.
// Returns the previously stored symbol (or nil).
func (t *SymbolTable) Insert(sym *Symbol) *Symbol {
	old := t.Resolve(sym.name)
	t.Table[sym.name] = sym
	return old
}

// Size counts the symbols in a symbol table.
func (t *SymbolTable) Size() int {
	return len(t.Table)
}

// Each iterates over the symbols of the table in order of their names,
// executing a mapper function.
func (t *SymbolTable) Each(mapper func(string, *Symbol)) {
	names := maps.Keys(t.Table)
	slices.Sort(names)
	for _, name := range names {
		mapper(name, t.Table[name])
	}
}

// === Scopes ================================================================

// Scope is a named scope, which may contain symbol definitions. Scopes link back to a
// parent scope, forming a tree. The scope of a program has level 1, every nested
// scope has the level of its parent plus one.
type Scope struct {
	Name   string
	Level  int
	Parent *Scope
	symtab *SymbolTable
}

// NewScope creates a new scope.
func NewScope(nm string, parent *Scope) *Scope {
	sc := &Scope{
		Name:   nm,
		Level:  1,
		Parent: parent,
		symtab: NewSymbolTable(),
	}
	if parent != nil {
		sc.Level = parent.Level + 1
	}
	return sc
}

// Prettyfied Stringer.
func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s:%d>", s.Name, s.Level)
}

// Symbols returns the symbol table of a scope.
func (s *Scope) Symbols() *SymbolTable {
	return s.symtab
}

// Insert defines a symbol in the scope. Returns the previously stored symbol
// under this name, if any.
func (s *Scope) Insert(sym *Symbol) *Symbol {
	return s.symtab.Insert(sym)
}

// LookupLocal finds a symbol in this scope only.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.symtab.Resolve(name)
}

// Lookup finds a symbol. Returns the symbol (or nil) and a scope. The scope is
// the scope (of a scope-tree-path) the symbol was found in.
func (s *Scope) Lookup(name string) (*Symbol, *Scope) {
	for sc := s; sc != nil; sc = sc.Parent {
		if sym := sc.symtab.Resolve(name); sym != nil {
			return sym, sc
		}
	}
	return nil, nil
}

// Dump returns a multi-line listing of the scope's symbols.
func (s *Scope) Dump() string {
	var b strings.Builder
	parent := "none"
	if s.Parent != nil {
		parent = s.Parent.Name
	}
	fmt.Fprintf(&b, "SCOPE (SCOPED SYMBOL TABLE) name=%s level=%d enclosing=%s\n",
		s.Name, s.Level, parent)
	s.symtab.Each(func(name string, sym *Symbol) {
		fmt.Fprintf(&b, "%10s: %s\n", name, sym)
	})
	return b.String()
}

// ---------------------------------------------------------------------------

// ScopeTree can be treated as a stack during static analysis, thus
// building a tree from scopes which are pushed an popped to/from the stack.
// The tree remembers every scope ever pushed.
type ScopeTree struct {
	stack *arraystack.Stack
	base  *Scope
	all   []*Scope
}

// NewScopeTree creates an empty scope tree.
func NewScopeTree() *ScopeTree {
	return &ScopeTree{stack: arraystack.New()}
}

// Current gets the current scope of a stack (TOS).
func (scst *ScopeTree) Current() *Scope {
	tos, ok := scst.stack.Peek()
	if !ok {
		panic("attempt to access scope from empty stack")
	}
	return tos.(*Scope)
}

// Globals gets the outermost scope, containing global symbols.
func (scst *ScopeTree) Globals() *Scope {
	if scst.base == nil {
		panic("attempt to access global scope from empty stack")
	}
	return scst.base
}

// Depth returns the number of scopes on the stack.
func (scst *ScopeTree) Depth() int {
	return scst.stack.Size()
}

// PushNewScope pushes a scope onto the stack of scopes. A scope is constructed,
// including a symbol table for declarations, with the recent TOS as its parent.
func (scst *ScopeTree) PushNewScope(nm string) *Scope {
	var parent *Scope
	if !scst.stack.Empty() {
		parent = scst.Current()
	}
	newsc := NewScope(nm, parent)
	if parent == nil && scst.base == nil { // the new scope is the global scope
		scst.base = newsc // make new scope anchor
	}
	scst.stack.Push(newsc) // new scope now TOS
	scst.all = append(scst.all, newsc)
	tracer().P("scope", newsc.Name).Debugf("pushing new scope")
	return newsc
}

// PopScope pops the top-most (recent) scope.
func (scst *ScopeTree) PopScope() *Scope {
	sc, ok := scst.stack.Pop()
	if !ok {
		panic("attempt to pop scope from empty stack")
	}
	tracer().Debugf("popping scope [%s]", sc.(*Scope).Name)
	return sc.(*Scope)
}

// Scopes returns all scopes of the tree, in the order they have been created.
func (scst *ScopeTree) Scopes() []*Scope {
	return scst.all
}

// Find returns the first scope with a given name, or nil.
func (scst *ScopeTree) Find(name string) *Scope {
	for _, sc := range scst.all {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}
