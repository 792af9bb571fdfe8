// Package config handles nanbox.toml tool configuration.
package config

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/nanbox/box"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "nanbox.toml"

// Output formats
const (
	FormatLine  = "line"
	FormatTable = "table"
	FormatCBOR  = "cbor"
)

// Byte orders
const (
	OrderNative = "native"
	OrderLittle = "little"
	OrderBig    = "big"
)

// Config represents a nanbox.toml configuration.
type Config struct {
	Demo    Demo    `toml:"demo"`
	Output  Output  `toml:"output"`
	Journal Journal `toml:"journal"`
	Log     Log     `toml:"log"`

	// Dir is the directory containing the nanbox.toml file (set at load time).
	Dir string `toml:"-"`
}

// Demo configures the short string REPL.
type Demo struct {
	Prompt string `toml:"prompt"`
	Quit   string `toml:"quit"`
}

// Output configures how values are printed.
type Output struct {
	Format    string `toml:"format"`
	ByteOrder string `toml:"byte-order"`
	Color     bool   `toml:"color"`
}

// Journal configures the SQLite value journal.
type Journal struct {
	Path    string `toml:"path"`
	Enabled bool   `toml:"enabled"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no nanbox.toml exists.
func Default() *Config {
	return &Config{
		Demo: Demo{
			Prompt: "Short string --> ",
			Quit:   "q",
		},
		Output: Output{
			Format:    FormatLine,
			ByteOrder: OrderNative,
			Color:     true,
		},
		Journal: Journal{
			Path: filepath.Join(".nanbox", "journal.db"),
		},
	}
}

// Load parses a nanbox.toml file from the given directory. Keys missing
// from the file keep their Default values.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a nanbox.toml file,
// then loads and returns the config. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatLine, FormatTable, FormatCBOR:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if _, err := parseOrder(c.Output.ByteOrder); err != nil {
		return err
	}
	if c.Demo.Quit == "" || len(c.Demo.Quit) > box.MaxShortStringLen {
		return fmt.Errorf("demo quit word must be 1 to %d bytes, got %q", box.MaxShortStringLen, c.Demo.Quit)
	}
	return nil
}

// ByteOrder returns the configured byte order for memory images.
func (c *Config) ByteOrder() binary.ByteOrder {
	order, err := parseOrder(c.Output.ByteOrder)
	if err != nil {
		return box.NativeEndian
	}
	return order
}

// JournalPath returns the journal path, resolved against Dir when relative.
func (c *Config) JournalPath() string {
	if filepath.IsAbs(c.Journal.Path) || c.Dir == "" {
		return c.Journal.Path
	}
	return filepath.Join(c.Dir, c.Journal.Path)
}

// ParseByteOrder maps a configured byte order name to a binary.ByteOrder.
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	return parseOrder(name)
}

func parseOrder(name string) (binary.ByteOrder, error) {
	switch name {
	case OrderNative, "":
		return box.NativeEndian, nil
	case OrderLittle:
		return binary.LittleEndian, nil
	case OrderBig:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", name)
	}
}
