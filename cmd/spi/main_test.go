package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/spi/engine"
	"github.com/npillmayer/spi/parser"
	"github.com/pterm/pterm"
)

func TestLeveledNodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.cli")
	defer teardown()
	//
	prog, err := parser.Parse("PROGRAM P; VAR x: INTEGER; BEGIN x := 1 + 2 END.")
	if err != nil {
		t.Fatal(err)
	}
	ll := leveledNodes(prog, pterm.LeveledList{}, 0)
	expected := []pterm.LeveledListItem{
		{Level: 0, Text: "P"},
		{Level: 1, Text: "Block"},
		{Level: 2, Text: "VarDecl x: INTEGER"},
		{Level: 2, Text: "Compound"},
		{Level: 3, Text: "ASSIGN"},
		{Level: 4, Text: "x"},
		{Level: 4, Text: "+"},
		{Level: 5, Text: "1"},
		{Level: 5, Text: "2"},
	}
	if len(ll) != len(expected) {
		t.Fatalf("expected %d items, have %d", len(expected), len(ll))
	}
	for i, item := range expected {
		if ll[i].Level != item.Level || ll[i].Text != item.Text {
			t.Errorf("item #%d: expected %v, have %v", i, item, ll[i])
		}
	}
}

func TestLoadConfigFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "spi.cli")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "spi.toml")
	if err := os.WriteFile(path, []byte("max-call-depth = 64\n"), 0644); err != nil {
		t.Fatal(err)
	}
	configFile, traceStack = path, true
	defer func() {
		configFile, traceStack = "", false
	}()
	conf, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if conf.MaxCallDepth != 64 || !conf.TraceStack {
		t.Errorf("expected configuration file and flags to be applied, have %+v", conf)
	}
}

func TestTraceToggles(t *testing.T) {
	var out bytes.Buffer
	tracing.SetTraceSelector(newLoggers(&out))
	traceLevel, traceScope, traceStack = "Error", true, true
	defer func() {
		traceLevel, traceScope, traceStack = "Error", false, false
	}()
	setTraceLevels()
	conf, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if tracing.Select("spi.parser").GetTraceLevel() != tracing.LevelError {
		t.Errorf("expected package tracers to stay at level Error")
	}
	if tracing.Select("spi.scope").GetTraceLevel() != tracing.LevelInfo {
		t.Errorf("expected scope tracer at level Info")
	}
	eng, err := engine.New(conf)
	if err != nil {
		t.Fatal(err)
	}
	_, err = eng.Run(`PROGRAM Main;
	VAR x: INTEGER;
	PROCEDURE Alpha(a: INTEGER);
	BEGIN END;
	BEGIN x := 1; Alpha(x) END.`)
	if err != nil {
		t.Fatal(err)
	}
	trace := out.String()
	for _, msg := range []string{
		"ENTER scope: Main",
		"Insert: Alpha",
		"LEAVE scope: Alpha",
		"ENTER: PROGRAM Main",
		"ENTER: PROCEDURE Alpha",
		"LEAVE: PROCEDURE Alpha",
	} {
		if !strings.Contains(trace, msg) {
			t.Errorf("expected trace to contain %q", msg)
		}
	}
	if strings.Contains(trace, "DEBUG") {
		t.Errorf("expected no debug output at trace level Error")
	}
}
