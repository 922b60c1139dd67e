package resolver

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/spi"
	"github.com/npillmayer/spi/ast"
	"github.com/npillmayer/spi/config"
	"github.com/npillmayer/spi/parser"
	"github.com/npillmayer/spi/runtime"
)

const part12 = `
PROGRAM Part12;
VAR
   a : INTEGER;

PROCEDURE P1(x, y : INTEGER; z : REAL);
VAR
   a : REAL;
   PROCEDURE P2();
   BEGIN
      a := 2
   END;
BEGIN {P1}
   P2();
   a := x + y * z
END;  {P1}

BEGIN {Part12}
   a := 10;
   P1(a, 2, 3)
END.  {Part12}
`

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("cannot parse test program: %v", err)
	}
	return prog
}

func TestResolveScopeTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.resolver")
	defer teardown()
	//
	conf := config.Default()
	conf.TraceScope = true
	scopes, err := Resolve(parse(t, part12), conf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scopes.Depth() != 0 {
		t.Errorf("expected scope stack to be empty after resolving, is %d", scopes.Depth())
	}
	all := scopes.Scopes()
	if len(all) != 3 {
		t.Fatalf("expected 3 scopes, have %d", len(all))
	}
	levels := map[string]int{"Part12": 1, "P1": 2, "P2": 3}
	for _, sc := range all {
		if levels[sc.Name] != sc.Level {
			t.Errorf("expected scope %s to have level %d, has %d", sc.Name, levels[sc.Name], sc.Level)
		}
	}
	global := scopes.Globals()
	for _, name := range []string{"INTEGER", "REAL", "a", "P1"} {
		if global.LookupLocal(name) == nil {
			t.Errorf("expected %s to be declared in global scope", name)
		}
	}
	p1 := scopes.Find("P1")
	if p1.Symbols().Size() != 5 { // x, y, z, a, P2
		t.Errorf("expected 5 symbols in scope of P1, have %d", p1.Symbols().Size())
	}
	if typ := p1.LookupLocal("z").Type; typ == nil || typ.Name() != "REAL" {
		t.Errorf("expected parameter z to be of type REAL, is %v", typ)
	}
	if p1.LookupLocal("a").Type.Name() != "REAL" {
		t.Errorf("expected local a in P1 to shadow global a")
	}
}

func TestResolveBindsCalls(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.resolver")
	defer teardown()
	//
	prog := parse(t, part12)
	if _, err := Resolve(prog, config.Default()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := map[string]*ast.ProcDecl{}
	ast.Inspect(prog, func(n ast.Node) bool {
		if call, ok := n.(*ast.ProcCall); ok {
			if call.Decl() == nil {
				t.Errorf("call of %s at %s is unbound", call.Name, call.At)
			}
			calls[call.Name] = call.Decl()
		}
		return true
	})
	if len(calls) != 2 {
		t.Fatalf("expected calls to P1 and P2, have %d", len(calls))
	}
	for name, decl := range calls {
		if decl.Name != name {
			t.Errorf("call of %s bound to procedure %s", name, decl.Name)
		}
	}
}

func TestResolveRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.resolver")
	defer teardown()
	//
	input := `PROGRAM R;
	PROCEDURE Down(n: INTEGER);
	BEGIN
		Down(n - 1)
	END;
	BEGIN Down(3) END.`
	if _, err := Resolve(parse(t, input), config.Default()); err != nil {
		t.Errorf("expected recursive procedure to resolve, got %v", err)
	}
}

func TestResolverErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.resolver")
	defer teardown()
	//
	for i, x := range []struct {
		input string
		code  spi.ErrorCode
		name  string
	}{
		{"PROGRAM P; VAR x: INTEGER; VAR x: REAL; BEGIN END.", spi.DuplicateID, "x"},
		{"PROGRAM P; VAR x, x: INTEGER; BEGIN END.", spi.DuplicateID, "x"},
		{"PROGRAM P; PROCEDURE Q(a: INTEGER; a: REAL); BEGIN END; BEGIN END.", spi.DuplicateID, "a"},
		{"PROGRAM P; VAR Q: INTEGER; PROCEDURE Q(); BEGIN END; BEGIN END.", spi.DuplicateID, "Q"},
		{"PROGRAM P; BEGIN x := 1 END.", spi.IDNotFound, "x"},
		{"PROGRAM P; VAR x: INTEGER; BEGIN x := y END.", spi.IDNotFound, "y"},
		{"PROGRAM P; BEGIN Q() END.", spi.IDNotFound, "Q"},
		{"PROGRAM P; VAR x: INTEGER; BEGIN x() END.", spi.NotAProcedure, "x"},
		{"PROGRAM P; PROCEDURE Q(); BEGIN END; BEGIN Q := 1 END.", spi.NotAVariable, "Q"},
		{"PROGRAM P; PROCEDURE Q(a, b: INTEGER); BEGIN END; BEGIN Q(1, 2, 3) END.", spi.WrongParamsLength, "Q"},
		{"PROGRAM P; PROCEDURE Q(a: INTEGER); BEGIN END; BEGIN Q() END.", spi.WrongParamsLength, "Q"},
		{"PROGRAM P; PROCEDURE Q(a: INTEGER); BEGIN END; BEGIN Q(z) END.", spi.IDNotFound, "z"},
	} {
		_, err := Resolve(parse(t, x.input), config.Default())
		if err == nil {
			t.Errorf("test #%d: expected semantic error, got none", i)
			continue
		}
		if !errors.Is(err, spi.ErrSemantic) {
			t.Errorf("test #%d: expected semantic error, got %v", i, err)
		}
		var e *spi.Error
		if !errors.As(err, &e) || e.Code != x.code || e.Name != x.name {
			t.Errorf("test #%d: expected %s '%s', got %v", i, x.code, x.name, err)
		}
	}
}

func TestArityMismatchLeavesCallUnbound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.resolver")
	defer teardown()
	//
	input := `PROGRAM P;
	PROCEDURE Q(a, b: INTEGER); BEGIN END;
	BEGIN Q(1, 2, 3) END.`
	prog := parse(t, input)
	_, err := Resolve(prog, config.Default())
	if !errors.Is(err, &spi.Error{Kind: spi.ErrSemantic, Code: spi.WrongParamsLength}) {
		t.Fatalf("expected wrong params length, got %v", err)
	}
	call := prog.Block.Body.Statements[0].(*ast.ProcCall)
	if call.Decl() != nil {
		t.Errorf("expected rejected call to be unbound")
	}
}

func TestShadowingAndOuterReferences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.resolver")
	defer teardown()
	//
	input := `PROGRAM P;
	VAR x, y: INTEGER;
	PROCEDURE Q(x: REAL);
	BEGIN
		y := x
	END;
	BEGIN
		x := 1;
		Q(x)
	END.`
	scopes, err := Resolve(parse(t, input), config.Default())
	if err != nil {
		t.Fatalf("expected shadowing and outer references to resolve, got %v", err)
	}
	sym, sc := scopes.Find("Q").Lookup("y")
	if sym == nil || sc != scopes.Globals() {
		t.Errorf("expected y to be found in global scope, found in %v", sc)
	}
	if sym.Kind != runtime.VariableSymbol {
		t.Errorf("expected y to be a variable, is %s", sym.Kind)
	}
}

func TestResolverReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.resolver")
	defer teardown()
	//
	r := New(config.Default())
	if err := r.Resolve(parse(t, "PROGRAM A; VAR x: INTEGER; BEGIN END.")); err != nil {
		t.Fatal(err)
	}
	if err := r.Resolve(parse(t, "PROGRAM B; VAR x: REAL; BEGIN x := 1 END.")); err != nil {
		t.Fatalf("expected second program to resolve with a fresh scope tree, got %v", err)
	}
	if r.Scopes().Globals().Name != "B" {
		t.Errorf("expected scope tree of program B, have %s", r.Scopes().Globals().Name)
	}
}

func TestUnknownType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.resolver")
	defer teardown()
	//
	prog := &ast.Program{
		Name: "P",
		Block: &ast.Block{
			Declarations: []ast.Decl{
				&ast.VarDecl{At: spi.Pos{Line: 1, Column: 16}, Name: "s", Type: "STRING"},
			},
			Body: &ast.Compound{},
		},
	}
	_, err := Resolve(prog, config.Default())
	if spi.CodeOf(err) != spi.UnknownType {
		t.Errorf("expected unknown type error, got %v", err)
	}
}

func TestScopeTrace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.resolver")
	defer teardown()
	//
	var out bytes.Buffer
	trace := gologadapter.New()
	trace.SetOutput(&out)
	trace.SetTraceLevel(tracing.LevelInfo)
	conf := config.Default()
	conf.ScopeTracer = trace
	if _, err := Resolve(parse(t, part12), conf); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no scope trace unless switched on, have\n%s", out.String())
	}
	conf.TraceScope = true
	if _, err := Resolve(parse(t, part12), conf); err != nil {
		t.Fatal(err)
	}
	for _, msg := range []string{
		"ENTER scope: Part12",
		"Insert: INTEGER",
		"Insert: P1",
		"ENTER scope: P2",
		"Lookup: a. (Scope name: P1)",
		"LEAVE scope: P1",
		"SCOPE (SCOPED SYMBOL TABLE) name=Part12 level=1",
		"LEAVE scope: Part12",
	} {
		if !strings.Contains(out.String(), msg) {
			t.Errorf("expected scope trace to contain %q", msg)
		}
	}
}
