// Package config loads and validates the dashboard configuration file.
//
// The schema is a top-level list of named dashboards, each with a nested
// layout tree:
//
//	dashboards:
//	  - name: default
//	    layout:
//	      type: layout
//	      direction: horizontal
//	      items:
//	        - type: widget
//	          name: process
//	          flex: 1
//	        - type: layout
//	          direction: vertical
//	          flex: 1
//	          items:
//	            - {type: widget, name: cpu, flex: 1}
//	            - {type: widget, name: memory, flex: 1}
//	            - {type: widget, name: disk, fixed: 8}
//	plugin_dir: ~/.local/share/statboard/plugins
//	tick_ms: 1000
//	debounce_ms: 250
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/statboard/statboard/pkg/layout"
)

// DefaultFileName is the config file searched for in the working directory
// and under the user config directory.
const DefaultFileName = "statboard.yaml"

// ParseError wraps a YAML or schema failure with the file it came from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse config: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Config is the whole configuration file.
type Config struct {
	Dashboards     []Dashboard `yaml:"dashboards"`
	PluginDir      string      `yaml:"plugin_dir"`
	TickMillis     int         `yaml:"tick_ms"`
	DebounceMillis int         `yaml:"debounce_ms"`
}

// Dashboard is one named, independently selectable layout tree.
type Dashboard struct {
	Name   string `yaml:"name"`
	Layout Node   `yaml:"layout"`
}

// Node is a parsed layout tree node, either a split ("layout") or a
// widget reference ("widget"). Splits may carry a sizing field themselves
// when nested inside another split; absent sizing defaults to flex: 1.
type Node struct {
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
	Items     []Node `yaml:"items"`
	Name      string `yaml:"name"`

	Flex       *int `yaml:"flex"`
	Percentage *int `yaml:"percentage"`
	Fixed      *int `yaml:"fixed"`
}

// Tick returns the configured tick interval.
func (c *Config) Tick() time.Duration {
	if c.TickMillis <= 0 {
		return time.Second
	}
	return time.Duration(c.TickMillis) * time.Millisecond
}

// Debounce returns the configured reload coalescing window.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMillis <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

// Dashboard returns the named dashboard.
func (c *Config) Dashboard(name string) (*Dashboard, bool) {
	for i := range c.Dashboards {
		if c.Dashboards[i].Name == name {
			return &c.Dashboards[i], true
		}
	}
	return nil, false
}

// Names returns the dashboard names in declaration order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Dashboards))
	for i, d := range c.Dashboards {
		names[i] = d.Name
	}
	return names
}

// Parse decodes and validates raw YAML.
func Parse(data []byte, path string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := c.Validate(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &c, nil
}

// Load reads the config file at path. An empty path searches the working
// directory, then the user config directory; when no file exists anywhere
// the built-in default configuration is returned.
func Load(path string) (*Config, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return Parse(data, path)
	}

	for _, candidate := range searchPaths() {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return Parse(data, candidate)
	}

	return Default(), nil
}

// ResolvePath returns the config file path Load would read, or "" when
// only the built-in default applies. The watcher needs a concrete path.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func searchPaths() []string {
	paths := []string{DefaultFileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "statboard", DefaultFileName))
	}
	return paths
}

// Validate checks schema-level invariants: at least one dashboard, unique
// names, and well-formed layout trees.
func (c *Config) Validate() error {
	if len(c.Dashboards) == 0 {
		return fmt.Errorf("no dashboards defined")
	}
	seen := make(map[string]bool, len(c.Dashboards))
	for i := range c.Dashboards {
		d := &c.Dashboards[i]
		if d.Name == "" {
			return fmt.Errorf("dashboard %d has no name", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate dashboard name %q", d.Name)
		}
		seen[d.Name] = true
		if _, err := d.BuildLayout(); err != nil {
			return fmt.Errorf("dashboard %q: %w", d.Name, err)
		}
	}
	return nil
}

// BuildLayout converts the parsed tree into a layout.Node, checking node
// types, directions, and constraint fields along the way.
func (d *Dashboard) BuildLayout() (layout.Node, error) {
	node, _, err := buildNode(d.Layout, true)
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(node); err != nil {
		return nil, err
	}
	return node, nil
}

func buildNode(n Node, root bool) (layout.Node, layout.Constraint, error) {
	constraint, err := nodeConstraint(n)
	if err != nil {
		return nil, layout.Constraint{}, err
	}

	switch n.Type {
	case "widget":
		if n.Name == "" {
			return nil, layout.Constraint{}, fmt.Errorf("widget node has no name")
		}
		if len(n.Items) > 0 {
			return nil, layout.Constraint{}, fmt.Errorf("widget %q cannot have items", n.Name)
		}
		return layout.WidgetRef{Name: n.Name}, constraint, nil

	case "layout":
		dir, err := parseDirection(n.Direction)
		if err != nil {
			return nil, layout.Constraint{}, err
		}
		if len(n.Items) == 0 {
			return nil, layout.Constraint{}, fmt.Errorf("%s layout has no items", n.Direction)
		}
		split := &layout.Split{Direction: dir}
		for i, item := range n.Items {
			child, childConstraint, err := buildNode(item, false)
			if err != nil {
				return nil, layout.Constraint{}, fmt.Errorf("item %d: %w", i, err)
			}
			split.Children = append(split.Children, layout.Child{
				Node:       child,
				Constraint: childConstraint,
			})
		}
		return split, constraint, nil

	case "":
		return nil, layout.Constraint{}, fmt.Errorf("layout node missing type")
	default:
		return nil, layout.Constraint{}, fmt.Errorf("unknown node type %q", n.Type)
	}
}

// nodeConstraint extracts the one sizing field a node may carry.
// Absent sizing defaults to flex: 1.
func nodeConstraint(n Node) (layout.Constraint, error) {
	count := 0
	c := layout.Flex(1)
	if n.Flex != nil {
		count++
		c = layout.Flex(*n.Flex)
	}
	if n.Percentage != nil {
		count++
		c = layout.Percentage(*n.Percentage)
	}
	if n.Fixed != nil {
		count++
		c = layout.Fixed(*n.Fixed)
	}
	if count > 1 {
		return layout.Constraint{}, fmt.Errorf("node %q: flex, percentage and fixed are mutually exclusive", nodeLabel(n))
	}
	if err := c.Validate(); err != nil {
		return layout.Constraint{}, fmt.Errorf("node %q: %w", nodeLabel(n), err)
	}
	return c, nil
}

func nodeLabel(n Node) string {
	if n.Name != "" {
		return n.Name
	}
	return strings.TrimSpace(n.Type + " " + n.Direction)
}

func parseDirection(s string) (layout.Direction, error) {
	switch s {
	case "horizontal":
		return layout.Horizontal, nil
	case "vertical":
		return layout.Vertical, nil
	case "":
		return layout.Horizontal, fmt.Errorf("layout node missing direction")
	default:
		return layout.Horizontal, fmt.Errorf("unknown direction %q", s)
	}
}

// Default returns the built-in configuration used when no file exists:
// a process table beside a stacked cpu/memory/disk column, plus a log
// strip, mirroring what most users start from.
func Default() *Config {
	one := 1
	three := 3
	return &Config{
		Dashboards: []Dashboard{{
			Name: "default",
			Layout: Node{
				Type:      "layout",
				Direction: "vertical",
				Items: []Node{
					{
						Type:      "layout",
						Direction: "horizontal",
						Flex:      &one,
						Items: []Node{
							{Type: "widget", Name: "process", Flex: &one},
							{
								Type:      "layout",
								Direction: "vertical",
								Flex:      &one,
								Items: []Node{
									{Type: "widget", Name: "cpu", Flex: &one},
									{Type: "widget", Name: "memory", Flex: &one},
									{Type: "widget", Name: "disk", Flex: &one},
								},
							},
						},
					},
					{Type: "widget", Name: "log", Fixed: &three},
				},
			},
		}},
	}
}
