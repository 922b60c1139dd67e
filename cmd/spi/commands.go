package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/spi/ast"
	"github.com/npillmayer/spi/ast/dot"
	"github.com/npillmayer/spi/engine"
	"github.com/npillmayer/spi/parser"
	"github.com/npillmayer/spi/runtime"
	"github.com/npillmayer/spi/scanner"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	sourceFile string
	dotFile    string
)

func init() {
	for _, cmd := range []*cobra.Command{runCmd, dotCmd, tokensCmd, astCmd} {
		cmd.Flags().StringVarP(&sourceFile, "file", "f", "", "program source file")
		cmd.MarkFlagRequired("file")
	}
	dotCmd.Flags().StringVarP(&dotFile, "out", "o", "ast.dot", "output file")
}

func readSource() (string, error) {
	src, err := os.ReadFile(sourceFile)
	if err != nil {
		return "", fmt.Errorf("cannot read program: %w", err)
	}
	return string(src), nil
}

var runCmd = &cobra.Command{
	Use:   "run -f FILE",
	Short: "Run a program and display its memory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource()
		if err != nil {
			return err
		}
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := engine.New(conf)
		if err != nil {
			return err
		}
		prog, err := eng.Compile(src)
		if err != nil {
			return err
		}
		mem, err := eng.Execute(prog)
		if err != nil {
			return err
		}
		printMemory(prog.AST.Name, mem)
		return nil
	},
}

var dotCmd = &cobra.Command{
	Use:   "dot -f FILE [-o ast.dot]",
	Short: "Export the syntax tree of a program in Graphviz Dot format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource()
		if err != nil {
			return err
		}
		prog, err := parser.Parse(src)
		if err != nil {
			return err
		}
		if err = dot.WriteFile(dotFile, prog); err != nil {
			return err
		}
		pterm.Info.Printf("syntax tree written to %s\n", dotFile)
		return nil
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens -f FILE",
	Short: "List the tokens of a program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource()
		if err != nil {
			return err
		}
		tokens, err := scanner.Tokens(src)
		for _, tok := range tokens {
			pterm.Println(tok.String())
		}
		return err
	},
}

var astCmd = &cobra.Command{
	Use:   "ast -f FILE",
	Short: "Display the syntax tree of a program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource()
		if err != nil {
			return err
		}
		prog, err := parser.Parse(src)
		if err != nil {
			return err
		}
		root := pterm.NewTreeFromLeveledList(leveledNodes(prog, pterm.LeveledList{}, 0))
		pterm.DefaultTree.WithRoot(root).Render()
		return nil
	},
}

// leveledNodes flattens a syntax tree into a list of labels with indentation
// levels, as needed by pterm trees.
func leveledNodes(n ast.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: dot.Label(n)})
	for _, child := range ast.Children(n) {
		ll = leveledNodes(child, ll, level+1)
	}
	return ll
}

func printMemory(name string, mem runtime.Memory) {
	pterm.Info.Printf("program %s finished\n", name)
	tracer().Debugf("memory = %s", mem)
	ll := pterm.LeveledList{{Level: 0, Text: "memory"}}
	mem.Each(func(v string, x float64) {
		ll = append(ll, pterm.LeveledListItem{Level: 1, Text: fmt.Sprintf("%s = %v", v, x)})
	})
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
}
