/*
Package scanner splits SPI source text into tokens.

The scanner is backed by a lexmachine DFA, which is compiled once per process
and shared by all Lexer instances. A Lexer produces a forward-only sequence of
tokens, ending with an EOF token. Lexical errors (unknown characters,
unterminated comments) stop the sequence.

Comments are enclosed in curly braces and are skipped, as is whitespace.
Reserved words are recognized without regard to case.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'spi.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("spi.scanner")
}
