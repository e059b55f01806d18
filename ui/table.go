package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"sichat/grid"
	"sichat/model"
)

const (
	minColumnWidth    = 6
	insightsLinkLabel = "IBM Storage Insights"
)

// tableView is the pagination state of one grid message
type tableView struct {
	page int
	size int
}

func (a App) tableViewFor(id string) tableView {
	if tv, ok := a.tables[id]; ok {
		return tv
	}
	return tableView{page: 1, size: a.pageSize}
}

// fitColumns shrinks the widest columns until the widths fit in budget.
// No column goes below minColumnWidth, so the result can still overflow
// a very narrow budget.
func fitColumns(natural []int, budget int) []int {
	widths := append([]int(nil), natural...)
	total := 0
	for _, w := range widths {
		total += w
	}
	for total > budget {
		widest := -1
		for i, w := range widths {
			if w > minColumnWidth && (widest < 0 || w > widths[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

// renderGrid draws one page of t. focused marks the table that paging
// keys act on.
func renderGrid(t grid.Table, tv tableView, width int, focused bool) string {
	p := grid.Paginate(len(t.Rows), tv.page, tv.size)
	rows := t.Rows[p.Start:p.End]

	natural := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		natural[i] = max(runewidth.StringWidth(h.Label), 1)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(natural) {
				natural[i] = max(natural[i], runewidth.StringWidth(cell))
			}
		}
	}
	// Each column adds two cells of padding and one border
	budget := width - 1 - 3*len(t.Headers)
	widths := fitColumns(natural, budget)

	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = runewidth.Truncate(h.Label, widths[i], "…")
	}

	borderStyle := BorderStyle
	if focused {
		borderStyle = lipgloss.NewStyle().Foreground(warningColor)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
	for _, row := range rows {
		cells := make([]string, len(t.Headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = runewidth.Truncate(row[i], widths[i], "…")
			}
		}
		tbl.Row(cells...)
	}

	return tbl.Render() + "\n" + DimStyle.Render(pageFooter(p))
}

func pageFooter(p grid.Page) string {
	first := p.Start + 1
	if p.Total == 0 {
		first = 0
	}
	return fmt.Sprintf("Items per page: %d  │  %d–%d of %d items  │  Page %d of %d",
		p.Size, first, p.End, p.Total, p.Number, p.Pages())
}

func moreDetails(link string) string {
	if link == "" {
		return ""
	}
	return DimStyle.Render("More details: ") + BotStyle.Render(insightsLinkLabel) + " " + LinkStyle.Render(link)
}

// renderTableMessage draws a grid message: its text, the current page and
// the "more details" link. In a morning summary an empty table shows its
// text as the no-data note instead.
func (a App) renderTableMessage(msg model.Message, width int, summary, focused bool) string {
	t := grid.Build(msg.Intent, msg.Data, time.Local)

	var parts []string
	switch {
	case t.Empty() && summary:
		note := msg.Text
		if note == "" {
			note = model.EmptyDataMessage(msg.Intent)
		}
		parts = append(parts, DimStyle.Italic(true).Render(wordWrap(note, width)))
	case t.Empty():
		if msg.Text != "" {
			parts = append(parts, wordWrap(msg.Text, width))
		}
		parts = append(parts, DimStyle.Italic(true).Render(model.EmptyDataMessage(msg.Intent)))
	default:
		if msg.Text != "" {
			text := wordWrap(msg.Text, width)
			if summary {
				text = TitleStyle.Render(text)
			}
			parts = append(parts, text)
		}
		parts = append(parts, renderGrid(t, a.tableViewFor(msg.ID), width, focused))
	}

	if link := moreDetails(msg.Link); link != "" {
		parts = append(parts, link)
	}
	return strings.Join(parts, "\n")
}

// renderTableGroup draws every sub-message of a morning summary as a table,
// whatever its own identifier
func (a App) renderTableGroup(msg model.Message, width int, focused bool) string {
	focusedSub := a.groupFocus[msg.ID]
	parts := make([]string, 0, len(msg.Group)+1)
	for i, sub := range msg.Group {
		parts = append(parts, a.renderTableMessage(sub, width, true, focused && i == focusedSub))
	}
	if link := moreDetails(msg.Link); link != "" {
		parts = append(parts, link)
	}
	return strings.Join(parts, "\n\n")
}
