/*
Package ast defines the abstract syntax tree of SPI programs.

The set of node types is closed. Clients process a tree by implementing
Visitor (and ExprEvaluator for expression values); a visitor which does not
handle every node type will not compile.

Trees are created by the parser and are not modified afterwards, with one
exception: the semantic analyzer binds every procedure call to the
declaration of the procedure it calls (see ProcCall.Bind).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast
