// nanbox CLI - short string demo, tag-space layout dump and journal replay
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/nanbox/box"
	"github.com/chazu/nanbox/config"
	"github.com/chazu/nanbox/inspect"
	"github.com/chazu/nanbox/journal"
)

var log = commonlog.GetLogger("nanbox.cli")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	interactive := flag.Bool("i", false, "Start the short string REPL (default)")
	showLayout := flag.Bool("layout", false, "Print the tag-space layout and exit")
	replay := flag.Bool("replay", false, "Print journal entries and exit")
	session := flag.String("session", "", "Session to replay (default: all)")
	journalPath := flag.String("journal", "", "Record entered values in this SQLite journal")
	configDir := flag.String("config", "", "Directory containing nanbox.toml (default: search upward from .)")
	format := flag.String("format", "", "Output format: line, table or cbor")
	order := flag.String("order", "", "Byte order for memory images: native, little or big")
	noColor := flag.Bool("no-color", false, "Disable colored output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nanbox [options]\n\n")
		fmt.Fprintf(os.Stderr, "Encodes short strings as NaN-boxed words and prints them.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  nanbox                          # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  nanbox -format table -order big # Tabulate big-endian images\n")
		fmt.Fprintf(os.Stderr, "  nanbox -journal values.db       # Record entered values\n")
		fmt.Fprintf(os.Stderr, "  nanbox -replay -journal values.db -session <id>\n")
		fmt.Fprintf(os.Stderr, "  nanbox -layout                  # Show the tag-space layout\n")
	}
	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *order != "" {
		cfg.Output.ByteOrder = *order
	}
	if *journalPath != "" {
		// Relative to the working directory, not the config file
		abs, err := filepath.Abs(*journalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Journal.Path = abs
		cfg.Journal.Enabled = true
	}
	if *noColor {
		cfg.Output.Color = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	verbosity := cfg.Log.Verbosity
	if *verbose {
		verbosity++
	}
	commonlog.Configure(verbosity, nil)
	if cfg.Dir != "" {
		log.Infof("using config %s", cfg.Dir)
	}

	if *showLayout {
		if err := inspect.WriteLayout(os.Stdout, box.Layout()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()
	opts := inspect.Options{
		Format: cfg.Output.Format,
		Order:  cfg.ByteOrder(),
		Color:  cfg.Output.Color && !color.NoColor,
	}

	if *replay {
		if err := runReplay(ctx, cfg, opts, *session); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// The REPL is the default mode, -i only makes it explicit
	_ = *interactive
	if err := runDemo(ctx, cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads nanbox.toml from dir, or searches upward from the
// working directory when dir is empty.
func loadConfig(dir string) (*config.Config, error) {
	if dir != "" {
		return config.Load(dir)
	}
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}

// runDemo runs the short string REPL on stdin.
func runDemo(ctx context.Context, cfg *config.Config, opts inspect.Options) error {
	d := &demo{
		prompt: cfg.Demo.Prompt,
		quit:   cfg.Demo.Quit,
		out:    os.Stdout,
	}
	if cfg.Journal.Enabled {
		j, err := journal.Open(ctx, cfg.JournalPath())
		if err != nil {
			return err
		}
		defer j.Close()
		d.journal = j
		d.session = journal.NewSession()
		log.Infof("recording session %s in %s", d.session, j.Path())
	}
	opts.Session = d.session
	d.formatter = inspect.NewFormatter(os.Stdout, opts)
	return d.run(ctx, os.Stdin)
}

// runReplay prints the recorded entries of session.
func runReplay(ctx context.Context, cfg *config.Config, opts inspect.Options, session string) error {
	j, err := journal.Open(ctx, cfg.JournalPath())
	if err != nil {
		return err
	}
	defer j.Close()
	return replayJournal(ctx, j, inspect.NewFormatter(os.Stdout, opts), session)
}
