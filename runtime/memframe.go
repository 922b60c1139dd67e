package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/stacks/arraystack"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// This module implements a stack of activation records.
// Activation records are used by an interpreter to allocate local storage
// for the program and for active procedure calls.

// RecordKind tells whether an activation record belongs to the program or to a
// procedure call.
type RecordKind int8

// Kinds of activation records.
const (
	ProgramRecord RecordKind = iota
	ProcedureRecord
)

func (k RecordKind) String() string {
	if k == ProgramRecord {
		return "PROGRAM"
	}
	return "PROCEDURE"
}

// Memory is a snapshot of the variables of an activation record.
type Memory map[string]float64

// Each calls f for every variable, in order of the variables' names.
func (m Memory) Each(f func(string, float64)) {
	names := maps.Keys(m)
	slices.Sort(names)
	for _, name := range names {
		f(name, m[name])
	}
}

// String lists the variables in order of their names.
func (m Memory) String() string {
	var b strings.Builder
	b.WriteString("{")
	m.Each(func(name string, v float64) {
		if b.Len() > 1 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", name, v)
	})
	b.WriteString("}")
	return b.String()
}

// ActivationRecord is the memory frame of a program or procedure invocation.
type ActivationRecord struct {
	Name   string
	Kind   RecordKind
	Level  int
	memory *treemap.Map // variable name → float64, ordered by name
}

// NewActivationRecord creates an empty activation record.
func NewActivationRecord(name string, kind RecordKind, level int) *ActivationRecord {
	return &ActivationRecord{
		Name:   name,
		Kind:   kind,
		Level:  level,
		memory: treemap.NewWithStringComparator(),
	}
}

// Get reads a variable. The flag is false if the variable has no value.
func (ar *ActivationRecord) Get(name string) (float64, bool) {
	v, found := ar.memory.Get(name)
	if !found {
		return 0, false
	}
	return v.(float64), true
}

// Set stores a variable's value.
func (ar *ActivationRecord) Set(name string, value float64) {
	ar.memory.Put(name, value)
}

// Size counts the variables which have a value.
func (ar *ActivationRecord) Size() int {
	return ar.memory.Size()
}

// Memory returns a snapshot of the record's variables.
func (ar *ActivationRecord) Memory() Memory {
	m := make(Memory, ar.memory.Size())
	it := ar.memory.Iterator()
	for it.Next() {
		m[it.Key().(string)] = it.Value().(float64)
	}
	return m
}

func (ar *ActivationRecord) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d: %s %s", ar.Level, ar.Kind, ar.Name)
	it := ar.memory.Iterator()
	for it.Next() {
		fmt.Fprintf(&b, "\n   %-10s: %v", it.Key(), it.Value())
	}
	return b.String()
}

// ---------------------------------------------------------------------------

// ErrStackExhausted is returned when pushing onto a call stack which has
// reached its maximum depth.
var ErrStackExhausted = errors.New("call stack exhausted")

// CallStack is a stack of activation records.
type CallStack struct {
	stack    *arraystack.Stack
	maxDepth int
}

// NewCallStack creates an empty call stack. A maxDepth of 0 or less does not
// restrict the depth of the stack.
func NewCallStack(maxDepth int) *CallStack {
	return &CallStack{
		stack:    arraystack.New(),
		maxDepth: maxDepth,
	}
}

// Push pushes an activation record as TOS. If the stack has already reached
// its maximum depth, the record is not pushed and ErrStackExhausted is returned.
func (cs *CallStack) Push(ar *ActivationRecord) error {
	if cs.maxDepth > 0 && cs.stack.Size() >= cs.maxDepth {
		return ErrStackExhausted
	}
	cs.stack.Push(ar)
	tracer().P("record", ar.Name).Debugf("pushing activation record")
	return nil
}

// Pop pops the top-most activation record. Returns the popped record.
func (cs *CallStack) Pop() *ActivationRecord {
	ar, ok := cs.stack.Pop()
	if !ok {
		panic("attempt to pop activation record from empty call stack")
	}
	tracer().Debugf("popping activation record [%s]", ar.(*ActivationRecord).Name)
	return ar.(*ActivationRecord)
}

// Peek gets the current activation record (TOS).
func (cs *CallStack) Peek() *ActivationRecord {
	ar, ok := cs.stack.Peek()
	if !ok {
		panic("attempt to access activation record from empty call stack")
	}
	return ar.(*ActivationRecord)
}

// Depth returns the number of records on the stack.
func (cs *CallStack) Depth() int {
	return cs.stack.Size()
}

// String lists the records from top to bottom.
func (cs *CallStack) String() string {
	var b strings.Builder
	b.WriteString("CALL STACK")
	for _, ar := range cs.stack.Values() {
		b.WriteString("\n")
		b.WriteString(ar.(*ActivationRecord).String())
	}
	return b.String()
}
