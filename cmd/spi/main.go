package main

import (
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/spi/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	traceLevel string
	configFile string
	traceScope bool
	traceStack bool
)

// Tracers of the interpreter's packages. Their level is set from the command line.
var traceKeys = []string{
	"spi.cli", "spi.config", "spi.engine", "spi.scanner", "spi.parser",
	"spi.resolver", "spi.runtime", "spi.interp",
}

var rootCmd = &cobra.Command{
	Use:   "spi",
	Short: "Simple Pascal Interpreter",
	Long: `spi runs programs written in a small subset of Pascal.

Commands:
  run     Run a program and display its memory
  dot     Export the syntax tree of a program in Graphviz Dot format
  tokens  List the tokens of a program
  ast     Display the syntax tree of a program
  repl    Enter programs interactively
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setTraceLevels()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "Error", "trace level [Debug|Info|Error]")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (.yaml or .toml)")
	rootCmd.PersistentFlags().BoolVar(&traceScope, "scope", false, "trace scopes during semantic analysis")
	rootCmd.PersistentFlags().BoolVar(&traceStack, "stack", false, "trace the call stack during evaluation")
	rootCmd.AddCommand(runCmd, dotCmd, tokensCmd, astCmd, replCmd)
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tracing.SetTraceSelector(newLoggers(nil))
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevels() {
	level := tracing.TraceLevelFromString(traceLevel)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

// loadConfig reads the configuration file, if any. Global configuration may
// switch on tracing, command line flags override everything.
func loadConfig() (config.Config, error) {
	conf := config.Default()
	if configFile != "" {
		var err error
		if conf, err = config.Load(configFile); err != nil {
			return conf, err
		}
	}
	conf = conf.WithGlobals()
	if traceScope {
		conf.TraceScope = true
	}
	if traceStack {
		conf.TraceStack = true
	}
	if conf.TraceScope {
		conf.ScopeTrace().SetTraceLevel(tracing.LevelInfo)
	}
	if conf.TraceStack {
		conf.StackTrace().SetTraceLevel(tracing.LevelInfo)
	}
	tracer().Debugf("configuration: %+v", conf)
	return conf, nil
}
