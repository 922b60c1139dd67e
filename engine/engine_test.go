package engine

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/spi"
	"github.com/npillmayer/spi/config"
	"github.com/npillmayer/spi/runtime"
)

func newEngine(t *testing.T, conf config.Config) *Engine {
	t.Helper()
	e, err := New(conf)
	if err != nil {
		t.Fatalf("cannot create engine: %v", err)
	}
	return e
}

func TestRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.engine")
	defer teardown()
	//
	e := newEngine(t, config.Default())
	mem, err := e.Run(`PROGRAM P; VAR x, y: INTEGER; BEGIN x := 2; y := 3; x := x + y * 2 END.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(mem, runtime.Memory{"x": 8, "y": 3}) {
		t.Errorf("expected {x: 8, y: 3}, have %s", mem)
	}
}

func TestErrorKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.engine")
	defer teardown()
	//
	e := newEngine(t, config.Default())
	for i, x := range []struct {
		input string
		kind  error
	}{
		{`PROGRAM P; BEGIN x := 1 ? 2 END.`, spi.ErrLexical},
		{`PROGRAM P; BEGIN x := 1 END`, spi.ErrParse},
		{`PROGRAM P; VAR x: INTEGER; VAR x: REAL; BEGIN END.`, spi.ErrSemantic},
		{`PROGRAM P; VAR x: INTEGER; BEGIN x := x END.`, spi.ErrRuntime},
	} {
		_, err := e.Run(x.input)
		if !errors.Is(err, x.kind) {
			t.Errorf("test #%d: expected %v, got %v", i, x.kind, err)
		}
	}
}

// A semantic error stops processing before evaluation starts.
func TestArityMismatchBeforeEvaluation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.engine")
	defer teardown()
	//
	input := `PROGRAM P;
	VAR x: INTEGER;
	PROCEDURE Q(a, b: INTEGER); BEGIN END;
	BEGIN
		x := x;
		Q(1, 2, 3)
	END.`
	e := newEngine(t, config.Default())
	_, err := e.Run(input)
	if spi.CodeOf(err) != spi.WrongParamsLength {
		t.Errorf("expected wrong params length, got %v", err)
	}
	if errors.Is(err, spi.ErrRuntime) {
		t.Errorf("expected no evaluation to happen")
	}
}

func TestCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.engine")
	defer teardown()
	//
	conf := config.Default()
	conf.CacheSize = 2
	e := newEngine(t, conf)
	src := func(n int) string {
		return fmt.Sprintf("PROGRAM P%d; VAR x: INTEGER; BEGIN x := %d END.", n, n)
	}
	p1, err := e.Compile(src(1))
	if err != nil {
		t.Fatal(err)
	}
	p2, _ := e.Compile(src(1))
	if p1 != p2 {
		t.Errorf("expected second compile to hit the cache")
	}
	e.Compile(src(2))
	e.Compile(src(3))
	if e.Cached() != 2 {
		t.Errorf("expected 2 cached programs, have %d", e.Cached())
	}
	if p3, _ := e.Compile(src(1)); p3 == p1 {
		t.Errorf("expected least recently used program to be evicted")
	}
	if _, err := e.Compile("PROGRAM Bad; BEGIN y := 1 END."); err == nil {
		t.Errorf("expected compile error")
	}
	if e.Cached() != 2 {
		t.Errorf("expected invalid program not to be cached")
	}
}

func TestNoCache(t *testing.T) {
	conf := config.Default()
	conf.CacheSize = 0
	e := newEngine(t, conf)
	src := "PROGRAM P; BEGIN END."
	p1, _ := e.Compile(src)
	p2, _ := e.Compile(src)
	if p1 == p2 || e.Cached() != 0 {
		t.Errorf("expected caching to be switched off")
	}
	conf.MaxCallDepth = -1
	if _, err := New(conf); err == nil {
		t.Errorf("expected invalid configuration to be rejected")
	}
}

func TestConcurrentRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.engine")
	defer teardown()
	//
	input := `PROGRAM P;
	VAR r: INTEGER;
	PROCEDURE Sq(n: INTEGER); VAR m: INTEGER; BEGIN m := n * n END;
	BEGIN r := 6; Sq(r); r := r * 7 END.`
	e := newEngine(t, config.Default())
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mem, err := e.Run(input)
			if err == nil && mem["r"] != 42 {
				err = fmt.Errorf("expected r = 42, have %v", mem["r"])
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("run #%d: %v", i, err)
		}
	}
}
