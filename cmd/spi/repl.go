package main

import (
	"errors"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/spi/engine"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	prompt         = "spi> "
	continuePrompt = "...> "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Enter programs interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := engine.New(conf)
		if err != nil {
			return err
		}
		rl, err := readline.New(prompt)
		if err != nil {
			return err
		}
		defer rl.Close()
		pterm.Info.Println("Welcome to SPI")
		pterm.Info.Println("Quit with :quit or <ctrl>D")
		intp := &Intp{eng: eng, repl: rl}
		intp.REPL()
		return nil
	},
}

// Intp is our interactive interpreter object.
type Intp struct {
	eng    *engine.Engine
	repl   *readline.Instance
	buffer strings.Builder
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			intp.reset()
			continue
		} else if err != nil { // io.EOF
			break
		}
		if quit := intp.Input(line); quit {
			break
		}
	}
	println("Good bye!")
}

// Input adds a line to the input buffer. If the buffer holds a complete
// program, the program is run. Returns true if the user wants to quit.
func (intp *Intp) Input(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case ":quit":
		return true
	case ":clear":
		intp.reset()
		return false
	}
	intp.buffer.WriteString(line)
	intp.buffer.WriteString("\n")
	if !strings.HasSuffix(line, ".") {
		intp.repl.SetPrompt(continuePrompt)
		return false
	}
	src := intp.buffer.String()
	intp.reset()
	prog, err := intp.eng.Compile(src)
	if err != nil {
		pterm.Error.Println(err.Error())
		return false
	}
	mem, err := intp.eng.Execute(prog)
	if err != nil {
		pterm.Error.Println(err.Error())
		return false
	}
	printMemory(prog.AST.Name, mem)
	return false
}

func (intp *Intp) reset() {
	intp.buffer.Reset()
	intp.repl.SetPrompt(prompt)
}
