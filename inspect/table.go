package inspect

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/chazu/nanbox/box"
)

// Table formats descriptions as a markdown table.
func Table(descs []Description, order binary.ByteOrder) string {
	headers := []string{"Word", "Kind", "Value", "Length", "Bytes (" + order.String() + ")"}
	rows := make([][]string, 0, len(descs))
	for _, d := range descs {
		length := ""
		if d.Length >= 0 {
			length = strconv.Itoa(d.Length)
		}
		rows = append(rows, []string{
			fmt.Sprintf("0x%016x", d.Value.Bits()),
			d.Kind.String(),
			d.Text,
			length,
			d.ImageString(),
		})
	}
	return renderMarkdown(headers, rows, fmt.Sprintf("_%d values_", len(descs)))
}

// LayoutTable formats a range table such as box.Layout() as markdown.
func LayoutTable(ranges []box.Range) string {
	headers := []string{"Range", "Kind", "Min", "Max", "Words"}
	rows := make([][]string, 0, len(ranges))
	for _, r := range ranges {
		rows = append(rows, []string{
			r.Name,
			r.Kind.String(),
			fmt.Sprintf("0x%016x", r.Min.Bits()),
			fmt.Sprintf("0x%016x", r.Max.Bits()),
			words(r),
		})
	}
	return renderMarkdown(headers, rows, fmt.Sprintf("_%d ranges_", len(ranges)))
}

// WriteLayout writes LayoutTable(ranges) to w.
func WriteLayout(w io.Writer, ranges []box.Range) error {
	_, err := io.WriteString(w, LayoutTable(ranges))
	return err
}

// words renders the size of r, as a power of two when it is one.
func words(r box.Range) string {
	n := r.Len()
	if n == 0 {
		return "2^64"
	}
	if n&(n-1) == 0 && n > 1<<16 {
		shift := 0
		for m := n; m > 1; m >>= 1 {
			shift++
		}
		return fmt.Sprintf("2^%d", shift)
	}
	return strconv.FormatUint(n, 10)
}

func renderMarkdown(headers []string, rows [][]string, footer string) string {
	tableString := &strings.Builder{}

	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	tableString.WriteString("\n" + footer + "\n")
	return tableString.String()
}
