// Package runcontrol registers named frame-processing functions and runs
// the set configured for a session.
package runcontrol

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/iamkit/iamkit/pkg/frame"
)

// Func processes a frame, typically annotating its metadata.
type Func func(*frame.Frame) error

// Config lists the registered functions to execute, in order.
type Config struct {
	Exec []string `yaml:"exec"`
}

// Control maps function names to implementations and holds the configured
// execution order.
type Control struct {
	funcs map[string]Func
	exec  []string
}

func New() *Control {
	return &Control{funcs: make(map[string]Func)}
}

// Register adds a named function. Re-registering a name replaces the
// previous implementation.
func (c *Control) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("runcontrol: function needs a name")
	}
	if fn == nil {
		return fmt.Errorf("runcontrol: function %q is nil", name)
	}
	c.funcs[name] = fn
	return nil
}

// Update appends the configured functions to the execution order. Names
// must be registered first.
func (c *Control) Update(cfg Config) error {
	for _, name := range cfg.Exec {
		if _, ok := c.funcs[name]; !ok {
			return fmt.Errorf("runcontrol: unknown function %q", name)
		}
	}
	c.exec = append(c.exec, cfg.Exec...)
	return nil
}

// UpdateYAML parses a YAML document into a Config and applies it.
func (c *Control) UpdateYAML(doc []byte) error {
	var cfg Config
	if err := yaml.Unmarshal(doc, &cfg); err != nil {
		return fmt.Errorf("runcontrol: parsing config: %w", err)
	}
	return c.Update(cfg)
}

// Apply runs the configured functions against the frame in order,
// stopping at the first failure.
func (c *Control) Apply(f *frame.Frame) error {
	for _, name := range c.exec {
		if err := c.funcs[name](f); err != nil {
			return fmt.Errorf("runcontrol: %s: %w", name, err)
		}
	}
	return nil
}

var defaultControl = New()

// Default returns the process-wide control shared by callers that do not
// manage their own.
func Default() *Control { return defaultControl }
