package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Printer use to output something on screen with table format.
type Printer struct {
	w *tabwriter.Writer
}

// NewTablePrinter creates a printer instance, and uses to format output with table.
func NewTablePrinter(o io.Writer, minWidth, tabWidth, padding int, padChar byte) *Printer {
	w := tabwriter.NewWriter(o, minWidth, tabWidth, padding, padChar, 0)
	return &Printer{w}
}

// AddRow adds a row of data.
func (p *Printer) AddRow(row []string) {
	fmt.Fprintln(p.w, strings.Join(row, "\t"))
}

// Flush outputs all rows on screen.
func (p *Printer) Flush() error {
	return p.w.Flush()
}

// RenderTable draws a bordered table with a header row.
func RenderTable(o io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(o)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow)
)

// OK prints a green [OK] line.
func OK(o io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(o, "%s %s\n", green.Sprint("[OK]"), fmt.Sprintf(format, a...))
}

// Fail prints a red [FAILED] line.
func Fail(o io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(o, "%s %s\n", red.Sprint("[FAILED]"), fmt.Sprintf(format, a...))
}

// Warn prints a yellow [WARNING] line.
func Warn(o io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(o, "%s %s\n", yellow.Sprint("[WARNING]"), fmt.Sprintf(format, a...))
}

// Banner prints a title between two rules, the way every report starts.
func Banner(o io.Writer, title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(o, "\n%s\n%s\n%s\n", rule, strings.ToUpper(title), rule)
}
