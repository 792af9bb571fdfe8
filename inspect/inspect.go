// Package inspect renders boxed words for humans: one line per value, a
// markdown table, or the hex of their CBOR records.
package inspect

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/chazu/nanbox/box"
	"github.com/chazu/nanbox/box/wire"
)

// Output formats
const (
	FormatLine  = "line"
	FormatTable = "table"
	FormatCBOR  = "cbor"
)

// Description is the decoded view of one word.
type Description struct {
	Value box.Value
	Kind  box.Kind
	Text  string
	// Length is the short string length, or -1 for other kinds.
	Length int
	Image  [box.Size]byte
}

// Describe decodes v. The memory image uses order.
func Describe(v box.Value, order binary.ByteOrder) Description {
	d := Description{
		Value:  v,
		Kind:   v.Kind(),
		Text:   v.String(),
		Length: -1,
		Image:  v.Bytes(order),
	}
	if d.Kind == box.KindShortString {
		d.Length = v.ShortStringLen()
	}
	return d
}

// ImageString returns the memory image as space separated hex bytes.
func (d Description) ImageString() string {
	var sb strings.Builder
	for i, b := range d.Image {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}

// Options configures a Formatter.
type Options struct {
	Format  string
	Order   binary.ByteOrder
	Color   bool
	Session string
}

// Formatter writes descriptions of values to w.
type Formatter struct {
	w       io.Writer
	opts    Options
	pending []Description
}

// NewFormatter creates a Formatter. A nil Order means native byte order.
func NewFormatter(w io.Writer, opts Options) *Formatter {
	if opts.Order == nil {
		opts.Order = box.NativeEndian
	}
	if opts.Format == "" {
		opts.Format = FormatLine
	}
	return &Formatter{w: w, opts: opts}
}

// Write describes v. Table output is buffered until Flush.
func (f *Formatter) Write(v box.Value) error {
	d := Describe(v, f.opts.Order)
	switch f.opts.Format {
	case FormatTable:
		f.pending = append(f.pending, d)
		return nil
	case FormatCBOR:
		rec, err := wire.NewRecord(f.opts.Session, v)
		if err != nil {
			return err
		}
		data, err := wire.MarshalRecord(rec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.w, hex.EncodeToString(data))
		return err
	case FormatLine:
		_, err := fmt.Fprintln(f.w, f.line(d))
		return err
	default:
		return fmt.Errorf("inspect: unknown format %q", f.opts.Format)
	}
}

// Flush renders any buffered table rows.
func (f *Formatter) Flush() error {
	if len(f.pending) == 0 {
		return nil
	}
	_, err := io.WriteString(f.w, Table(f.pending, f.opts.Order))
	f.pending = f.pending[:0]
	return err
}

// line renders d the way the short string demo prints it:
//
//	0xfffb000200006968 "hi" (length 2)
func (f *Formatter) line(d Description) string {
	word := f.colorize(fmt.Sprintf("0x%016x", d.Value.Bits()), color.FgYellow)
	if d.Kind == box.KindShortString {
		return fmt.Sprintf("%s %s (length %d)", word, f.colorize(d.Text, color.FgGreen), d.Length)
	}
	return fmt.Sprintf("%s %s %s", word, f.colorize(d.Kind.String(), color.FgCyan), d.Text)
}

// colorize applies color if enabled.
func (f *Formatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.opts.Color {
		return text
	}
	return color.New(attrs...).Sprint(text)
}
