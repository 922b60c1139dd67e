/*
Package dot exports syntax trees to the Graphviz Dot format.

Every node of a syntax tree results in one Dot node, every parent-child
relation in an edge. Render the output with

    dot -Tpng -o ast.png ast.dot

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dot

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/spi/ast"
)

const header = `digraph astgraph {
  node [shape=circle, fontsize=12, fontname="Courier", height=.1];
  ranksep=.3;
  edge [arrowsize=.5]

`

// Write writes the Dot representation of a syntax tree to w.
// The tree is not modified.
func Write(w io.Writer, prog *ast.Program) error {
	g := &generator{}
	g.b.WriteString(header)
	g.walk(prog)
	g.b.WriteString("}\n")
	_, err := io.WriteString(w, g.b.String())
	return err
}

// String returns the Dot representation of a syntax tree.
func String(prog *ast.Program) string {
	var b strings.Builder
	Write(&b, prog)
	return b.String()
}

// WriteFile exports a syntax tree to a Dot file, given a filename.
func WriteFile(filename string, prog *ast.Program) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = Write(f, prog); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Label returns the display label of a syntax tree node.
func Label(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Program:
		return n.Name
	case *ast.Block:
		return "Block"
	case *ast.VarDecl:
		return fmt.Sprintf("VarDecl %s: %s", n.Name, n.Type)
	case *ast.ProcDecl:
		return "ProcDecl: " + n.Name
	case *ast.Param:
		return fmt.Sprintf("Param %s: %s", n.Name, n.Type)
	case *ast.Compound:
		return "Compound"
	case *ast.Assign:
		return "ASSIGN"
	case *ast.ProcCall:
		return "ProcCall: " + n.Name
	case *ast.NoOp:
		return "NoOp"
	case *ast.BinOp:
		return n.Op.Lexeme
	case *ast.VarRef:
		return n.Name
	case *ast.IntLiteral:
		return n.Text
	}
	panic(fmt.Sprintf("unknown syntax tree node %T", n))
}

// generator numbers nodes in pre-order.
type generator struct {
	b   strings.Builder
	seq int
}

func (g *generator) walk(n ast.Node) int {
	id := g.seq
	g.seq++
	fmt.Fprintf(&g.b, "  node%d [label=%q]\n", id, Label(n))
	for _, child := range ast.Children(n) {
		cid := g.walk(child)
		fmt.Fprintf(&g.b, "  node%d -> node%d\n", id, cid)
	}
	return id
}
