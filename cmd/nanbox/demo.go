package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/chazu/nanbox/box"
	"github.com/chazu/nanbox/inspect"
	"github.com/chazu/nanbox/journal"
)

// demo reads words from its input and prints each as a short string.
type demo struct {
	prompt    string
	quit      string
	out       io.Writer
	formatter *inspect.Formatter
	journal   *journal.Journal
	session   string
}

// run reads until EOF or the quit word. Words longer than a short string
// are consumed in chunks of MaxShortStringLen bytes.
func (d *demo) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(d.out, "Enter short strings of up to %d chars to dump, %s to quit.\n",
		box.MaxShortStringLen, d.quit)

	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)

	var pending []string
	for {
		fmt.Fprint(d.out, d.prompt)
		if len(pending) == 0 {
			if !scanner.Scan() {
				break
			}
			pending = chunks(scanner.Text(), box.MaxShortStringLen)
		}
		word := pending[0]
		pending = pending[1:]
		if word == d.quit {
			break
		}

		v, _ := box.ShortStringFromString(word)
		if err := d.formatter.Write(v); err != nil {
			return err
		}
		if d.journal != nil {
			if _, err := d.journal.Append(ctx, d.session, v); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(d.out)

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return d.formatter.Flush()
}

// chunks splits s into pieces of at most n bytes.
func chunks(s string, n int) []string {
	var out []string
	for len(s) > n {
		out = append(out, s[:n])
		s = s[n:]
	}
	return append(out, s)
}

// replayJournal writes the entries of session through f, checking that
// every stored payload still agrees with its word.
func replayJournal(ctx context.Context, j *journal.Journal, f *inspect.Formatter, session string) error {
	entries, err := j.Entries(ctx, session)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := e.Record().Verify(); err != nil {
			log.Warningf("entry %d: %v", e.ID, err)
		}
		if err := f.Write(e.Value); err != nil {
			return err
		}
	}
	log.Debugf("replayed %d entries", len(entries))
	return f.Flush()
}
