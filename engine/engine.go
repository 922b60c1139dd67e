/*
Package engine puts together the stages of the interpreter.

An engine compiles source text, i.e. scans, parses and resolves it, and runs
compiled programs. Compiled programs are kept in a least-recently-used cache,
keyed by their source text. Engines are safe for concurrent use.

    eng, _ := engine.New(config.Default())
    memory, err := eng.Run(`PROGRAM P; VAR x: INTEGER; BEGIN x := 2 * 21 END.`)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package engine

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/spi/ast"
	"github.com/npillmayer/spi/config"
	"github.com/npillmayer/spi/interp"
	"github.com/npillmayer/spi/parser"
	"github.com/npillmayer/spi/resolver"
	"github.com/npillmayer/spi/runtime"
)

// tracer traces with key 'spi.engine'.
func tracer() tracing.Trace {
	return tracing.Select("spi.engine")
}

// Program is a resolved program, ready to be run.
type Program struct {
	AST    *ast.Program
	Scopes *runtime.ScopeTree
}

// Engine compiles and runs programs.
type Engine struct {
	conf  config.Config
	cache *lru.Cache[string, *Program] // nil if caching is switched off
}

// New creates an engine. If conf.CacheSize is 0, compiled programs are not
// cached.
func New(conf config.Config) (*Engine, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{conf: conf}
	if conf.CacheSize > 0 {
		cache, err := lru.New[string, *Program](conf.CacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config {
	return e.conf
}

// Compile scans, parses and resolves a program. Errors of every stage are
// wrapped and may be inspected with errors.Is and errors.As.
func (e *Engine) Compile(src string) (*Program, error) {
	if e.cache != nil {
		if prog, ok := e.cache.Get(src); ok {
			tracer().Debugf("program %s found in cache", prog.AST.Name)
			return prog, nil
		}
	}
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("cannot parse program: %w", err)
	}
	scopes, err := resolver.Resolve(tree, e.conf)
	if err != nil {
		return nil, fmt.Errorf("program %s is invalid: %w", tree.Name, err)
	}
	prog := &Program{AST: tree, Scopes: scopes}
	if e.cache != nil {
		e.cache.Add(src, prog)
	}
	tracer().Debugf("program %s compiled", tree.Name)
	return prog, nil
}

// Execute runs a compiled program and returns the final memory of the
// program's activation record.
func (e *Engine) Execute(prog *Program) (runtime.Memory, error) {
	mem, err := interp.Run(prog.AST, e.conf)
	if err != nil {
		return nil, fmt.Errorf("program %s failed: %w", prog.AST.Name, err)
	}
	return mem, nil
}

// Run compiles and executes a program.
func (e *Engine) Run(src string) (runtime.Memory, error) {
	prog, err := e.Compile(src)
	if err != nil {
		return nil, err
	}
	return e.Execute(prog)
}

// Cached returns the number of programs in the cache.
func (e *Engine) Cached() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}
