/*
Command spi is the command line interface of the Simple Pascal Interpreter.

    spi run -f program.pas [--scope] [--stack] [--config spi.yaml]
    spi dot -f program.pas [-o ast.dot]
    spi tokens -f program.pas
    spi ast -f program.pas
    spi repl

'spi repl' starts an interactive session. Input lines are collected until
they form a program, i.e. until the input ends with a '.'. The program is then
run and its memory displayed. Enter ':quit' or <ctrl>D to leave.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'spi.cli'
func tracer() tracing.Trace {
	return tracing.Select("spi.cli")
}
