/*
Package config holds the settings of the interpreter.

Settings may be loaded from YAML or TOML files. Global configuration
(schuko/gconf) may switch on diagnostic tracing, too. A configuration file
looks like this:

    # spi.yaml
    trace-scope: true
    trace-stack: false
    max-call-depth: 1000
    cache-size: 32

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultMaxCallDepth = 512
	DefaultCacheSize    = 16
)

// MaxCallDepthLimit is the largest call depth an evaluator will allow. Deeper
// recursion would exhaust the Go stack.
const MaxCallDepthLimit = 8192

// Keys for global configuration.
const (
	GlobalTraceScope = "spi-trace-scope"
	GlobalTraceStack = "spi-trace-stack"
)

// Config holds the settings for semantic analysis and evaluation.
//
// TraceScope switches on tracing of scope creation, symbol insertion and lookup.
// TraceStack switches on tracing of activation records.
// MaxCallDepth limits the number of activation records on the call stack.
// It may not exceed MaxCallDepthLimit.
// CacheSize is the number of resolved programs an engine keeps.
//
// Traces go to tracers with keys 'spi.scope' and 'spi.stack', unless
// ScopeTracer or StackTracer are set.
type Config struct {
	TraceScope   bool `yaml:"trace-scope" toml:"trace-scope"`
	TraceStack   bool `yaml:"trace-stack" toml:"trace-stack"`
	MaxCallDepth int  `yaml:"max-call-depth" toml:"max-call-depth"`
	CacheSize    int  `yaml:"cache-size" toml:"cache-size"`

	ScopeTracer tracing.Trace `yaml:"-" toml:"-"`
	StackTracer tracing.Trace `yaml:"-" toml:"-"`
}

// Default returns a configuration with tracing switched off.
func Default() Config {
	return Config{
		MaxCallDepth: DefaultMaxCallDepth,
		CacheSize:    DefaultCacheSize,
	}
}

// Load reads a configuration file. The format is selected by the file
// extension: .yaml, .yml or .toml. Settings missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".toml":
		_, err = toml.Decode(string(data), &c)
	default:
		return c, fmt.Errorf("unsupported configuration format %q", ext)
	}
	if err != nil {
		return c, fmt.Errorf("cannot read configuration %s: %w", path, err)
	}
	tracer().Debugf("configuration loaded from %s", path)
	return c, c.Validate()
}

// Validate checks a configuration for illegal values.
func (c Config) Validate() error {
	if c.MaxCallDepth < 1 || c.MaxCallDepth > MaxCallDepthLimit {
		return fmt.Errorf("max-call-depth must be within 1…%d, is %d",
			MaxCallDepthLimit, c.MaxCallDepth)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache-size must not be negative, is %d", c.CacheSize)
	}
	return nil
}

// WithGlobals switches on tracing if global configuration says so.
func (c Config) WithGlobals() Config {
	c.TraceScope = c.TraceScope || gconf.GetBool(GlobalTraceScope)
	c.TraceStack = c.TraceStack || gconf.GetBool(GlobalTraceStack)
	return c
}

// ScopeTrace returns the tracer for scope diagnostics.
func (c Config) ScopeTrace() tracing.Trace {
	if c.ScopeTracer != nil {
		return c.ScopeTracer
	}
	return tracing.Select("spi.scope")
}

// StackTrace returns the tracer for call stack diagnostics.
func (c Config) StackTrace() tracing.Trace {
	if c.StackTracer != nil {
		return c.StackTracer
	}
	return tracing.Select("spi.stack")
}

// tracer traces with key 'spi.config'.
func tracer() tracing.Trace {
	return tracing.Select("spi.config")
}
