/*
Package spi is a simple Pascal interpreter.

SPI processes a small Pascal-like language in four stages, each living in its
own package:

■ scanner: Package scanner splits source text into tokens.

■ parser: Package parser creates an abstract syntax tree by recursive descent.

■ resolver: Package resolver builds lexical scopes and binds every name to a declaration.

■ interp: Package interp evaluates a resolved syntax tree using a stack of activation records.

Supporting packages are ast (syntax tree node types), runtime (symbols, scopes and
activation records), config (interpreter settings) and engine, which drives a program
through all stages. Command spi is the command line front end.

The base package contains data types which are used throughout all the other packages:
tokens, source positions and errors.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package spi
