/*
Package runtime implements the data structures of an interpreter runtime,
consisting of symbols, scopes and activation records.

For a thorough discussion of an interpreter's runtime environment, refer to
"Language Implementation Patterns" by Terence Parr.

Symbol Table and Scope Tree

This module implements data structures for scope trees and symbol tables
attached to them. During static analysis, scopes are treated as a stack,
building a tree of scopes from pushes and pops.

Activation Records

This module implements a stack of activation records.
Activation records are used by an interpreter to allocate local storage
for active procedure calls and for the program itself.


----------------------------------------------------------------------

BSD License

Copyright (c) 2017-22, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software or the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package runtime

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'spi.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("spi.runtime")
}

// Builtin type names. Both are pre-defined in the outermost scope.
const (
	IntegerType = "INTEGER"
	RealType    = "REAL"
)

// Builtins returns fresh symbols for the built-in types.
func Builtins() []*Symbol {
	return []*Symbol{
		NewBuiltinType(IntegerType),
		NewBuiltinType(RealType),
	}
}
