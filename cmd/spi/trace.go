package main

import (
	"io"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// loggers is a trace selector handing out one Go-logger tracer per key.
// Trace levels may therefore be set per key, e.g. 'spi.scope' at Info while
// everything else stays at Error.
type loggers struct {
	mx     sync.Mutex
	out    io.Writer // nil for stderr
	traces map[string]tracing.Trace
}

var _ tracing.TraceSelector = (*loggers)(nil)

func newLoggers(out io.Writer) *loggers {
	return &loggers{out: out, traces: make(map[string]tracing.Trace)}
}

// Select is part of interface tracing.TraceSelector.
func (l *loggers) Select(key string) tracing.Trace {
	l.mx.Lock()
	defer l.mx.Unlock()
	t, ok := l.traces[key]
	if !ok {
		t = gologadapter.New()
		if l.out != nil {
			t.SetOutput(l.out)
		}
		l.traces[key] = t
	}
	return t
}
