package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is a column-aligned table with a styled header.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = visualLen(h)
	}
	return &Table{headers: headers, widths: widths}
}

// AddRow appends a row. Missing cells are blank and extra values are
// dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	for i := range t.headers {
		if i < len(values) {
			row[i] = values[i]
		}
		if n := visualLen(row[i]); n > t.widths[i] {
			t.widths[i] = n
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render returns the formatted table.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	if noColor {
		headerStyle = lipgloss.NewStyle()
	}

	var sb strings.Builder
	for i, h := range t.headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(headerStyle.Render(pad(h, t.widths[i])))
	}
	sb.WriteString("\n")

	for i, w := range t.widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(StyleMuted.Render(strings.Repeat("─", w)))
	}
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(pad(cell, t.widths[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Table) String() string {
	return t.Render()
}

// Fprint writes the table to w, or a muted placeholder when it has no rows.
func (t *Table) Fprint(w io.Writer) {
	if len(t.rows) == 0 {
		fmt.Fprintln(w, StyleMuted.Render("(none)"))
		return
	}
	fmt.Fprint(w, t.Render())
}

// Section writes a styled section title.
func Section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleHeader.Render(title))
}

// KeyValue writes one aligned "label value" line.
func KeyValue(w io.Writer, label, value string) {
	fmt.Fprintln(w, StyleLabel.Render(label)+StyleValue.Render(value))
}

// Amount formats a currency or score value with two decimals.
func Amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Optional formats a nullable value, "-" when absent.
func Optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return Amount(*v)
}

// Signed formats a fractional change as a percentage, colored by sign.
func Signed(change float64) string {
	s := fmt.Sprintf("%+.0f%%", change*100)
	if change < 0 {
		return StyleError.Render(s)
	}
	return StyleSuccess.Render(s)
}

func visualLen(s string) int {
	return lipgloss.Width(s)
}

// pad right-pads s to width visible cells.
func pad(s string, width int) string {
	n := visualLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
