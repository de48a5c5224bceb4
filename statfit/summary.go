package statfit

import (
	"fmt"
	"strings"
)

// Fmter formats a column of values for display in a summary table.
// The second argument is the column header, which may influence the
// column width.
type Fmter func(interface{}, string) []string

// FmtString is a Fmter for string columns, left-justified.
func FmtString(x interface{}, h string) []string {
	y := x.([]string)
	w := len(h)
	for _, v := range y {
		if len(v) > w {
			w = len(v)
		}
	}
	z := make([]string, len(y))
	for i, v := range y {
		z[i] = fmt.Sprintf("%-*s", w, v)
	}
	return z
}

// FmtNumber is a Fmter for float64 columns.
func FmtNumber(x interface{}, h string) []string {
	y := x.([]float64)
	z := make([]string, len(y))
	for i, v := range y {
		z[i] = fmt.Sprintf("%10.4f", v)
	}
	return z
}

// SummaryTable renders the summary of a fitted model as fixed-width
// text: a title, a block of top-level facts, and a column-per-quantity
// table of parameter results.
type SummaryTable struct {

	// Title of the table.
	Title string

	// Column names.
	ColNames []string

	// Formatters for the column values, one per column.
	ColFmt []Fmter

	// Cols[j] holds the values of the j^th column, e.g. a []string
	// or []float64.
	Cols []interface{}

	// Values displayed above the table, one fact per entry.
	Top []string

	// Messages displayed below the table.
	Msg []string
}

// String returns the table as a string.
func (s *SummaryTable) String() string {

	// Format all cells and get the column widths.
	cells := make([][]string, len(s.Cols))
	widths := make([]int, len(s.Cols))
	for j, c := range s.Cols {
		cells[j] = s.ColFmt[j](c, s.ColNames[j])
		widths[j] = len(s.ColNames[j])
		if len(cells[j]) > 0 && len(cells[j][0]) > widths[j] {
			widths[j] = len(cells[j][0])
		}
	}

	tw := 0
	for _, w := range widths {
		tw += w + 2
	}
	if tw < len(s.Title) {
		tw = len(s.Title)
	}
	for _, t := range s.Top {
		if tw < len(t) {
			tw = len(t)
		}
	}

	line := func(c string) string {
		return strings.Repeat(c, tw) + "\n"
	}

	var b strings.Builder

	// Centered title.
	pad := (tw - len(s.Title)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(s.Title)
	b.WriteString("\n")
	b.WriteString(line("="))

	for _, t := range s.Top {
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString(line("-"))

	for j, c := range s.ColNames {
		fmt.Fprintf(&b, "%*s", widths[j]+2, c)
	}
	b.WriteString("\n")
	b.WriteString(line("-"))

	nrow := 0
	if len(cells) > 0 {
		nrow = len(cells[0])
	}
	for i := 0; i < nrow; i++ {
		for j := range cells {
			fmt.Fprintf(&b, "%*s", widths[j]+2, cells[j][i])
		}
		b.WriteString("\n")
	}
	b.WriteString(line("-"))

	for _, m := range s.Msg {
		b.WriteString(m)
		b.WriteString("\n")
	}

	return b.String()
}
