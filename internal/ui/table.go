package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	tableCellMaxWidth = 50
	tableCellEllipsis = "..."
	tableColumnGap    = 2
)

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AlignRight right-aligns the given columns, for numbers and durations.
func (builder *TableBuilder) AlignRight(columns ...int) *TableBuilder {
	if builder.rightAlign == nil {
		builder.rightAlign = make(map[int]bool, len(columns))
	}
	for _, column := range columns {
		builder.rightAlign[column] = true
	}
	return builder
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return formatTable(builder.headers, builder.rows, builder.rightAlign)
}

// FormatTable renders headers and rows as a left-aligned table.
func FormatTable(headers []string, rows [][]string) string {
	return formatTable(headers, rows, nil)
}

func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) string {
	header := normalizeRow(headers)
	body := make([][]string, len(rows))
	for i, row := range rows {
		body[i] = normalizeRow(row)
	}

	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, body...) {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var out strings.Builder
	writeRow := func(row []string) {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString(strings.Repeat(" ", tableColumnGap))
			}
			pad := 0
			if i < len(widths) {
				pad = widths[i] - lipgloss.Width(cell)
			}
			if rightAlign[i] {
				line.WriteString(strings.Repeat(" ", pad))
				line.WriteString(cell)
				continue
			}
			line.WriteString(cell)
			line.WriteString(strings.Repeat(" ", pad))
		}
		out.WriteString(strings.TrimRight(line.String(), " "))
		out.WriteByte('\n')
	}

	writeRow(header)
	for _, row := range body {
		writeRow(row)
	}
	return out.String()
}

// TruncateTableCell limits a cell to the maximum column width, counting
// visible characters only.
func TruncateTableCell(value string) string {
	value = normalizeTableCell(value)
	if lipgloss.Width(value) <= tableCellMaxWidth {
		return value
	}
	return ansi.Truncate(value, tableCellMaxWidth, tableCellEllipsis)
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = normalizeTableCell(cell)
	}
	return out
}

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func normalizeTableCell(value string) string {
	return cellReplacer.Replace(value)
}
