package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// displayDelimiter joins sequence values inside one rendered cell
const displayDelimiter = ", "

// maxColumnWidth caps a column so one long description cannot eat the screen
const maxColumnWidth = 40

// ExportFunc writes the given filtered rows somewhere and returns the
// written path. The view stays unaware of file formats.
type ExportFunc func(columns []Column, rows []map[string]any) (string, error)

// ViewOptions configures the interactive table view
type ViewOptions struct {
	Title    string
	PageSize int
	Export   ExportFunc
}

type viewKeyMap struct {
	Filter   key.Binding
	ClearFlt key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Export   key.Binding
	Quit     key.Binding
}

var viewKeys = viewKeyMap{
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	ClearFlt: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear filter"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("right", "l", "n"),
		key.WithHelp("→", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left", "h", "p"),
		key.WithHelp("←", "prev page"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the bubbletea model of the dynamic table view
type Model struct {
	opts    ViewOptions
	source  []map[string]any
	columns []Column

	filtered []map[string]any
	query    string

	table     btable.Model
	pager     paginator.Model
	filterIn  textinput.Model
	filtering bool

	status   string
	quitting bool
}

// NewModel creates the view over the given rows
func NewModel(rows []map[string]any, opts ViewOptions) *Model {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}

	columns := InferColumns(rows)

	filterIn := textinput.New()
	filterIn.Placeholder = "type to filter all columns"
	filterIn.Prompt = "/ "

	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.PerPage = opts.PageSize

	m := &Model{
		opts:     opts,
		source:   rows,
		columns:  columns,
		filtered: rows,
		filterIn: filterIn,
		pager:    pager,
	}
	m.rebuildTable()
	return m
}

// rebuildTable recomputes the visible page after a filter or page change
func (m *Model) rebuildTable() {
	m.pager.SetTotalPages(len(m.filtered))

	start, end := m.pager.GetSliceBounds(len(m.filtered))
	visible := m.filtered[start:end]

	cols := make([]btable.Column, 0, len(m.columns))
	for _, c := range m.columns {
		cols = append(cols, btable.Column{Title: c.Title, Width: m.columnWidth(c)})
	}

	rows := make([]btable.Row, 0, len(visible))
	for _, row := range visible {
		cells := make([]string, 0, len(m.columns))
		for _, c := range m.columns {
			cells = append(cells, CellString(row[c.Key], displayDelimiter))
		}
		rows = append(rows, cells)
	}

	m.table = btable.New(
		btable.WithColumns(cols),
		btable.WithRows(rows),
		btable.WithHeight(m.opts.PageSize+1),
		btable.WithFocused(!m.filtering),
	)
}

// columnWidth sizes a column to its widest visible cell, capped
func (m *Model) columnWidth(c Column) int {
	width := len(c.Title)
	for _, row := range m.filtered {
		if l := len(CellString(row[c.Key], displayDelimiter)); l > width {
			width = l
		}
	}
	if width > maxColumnWidth {
		width = maxColumnWidth
	}
	return width
}

// applyFilter recomputes the visible row set; the source rows never change
func (m *Model) applyFilter(query string) {
	m.query = query
	m.filtered = Filter(m.source, m.columns, query)
	m.pager.Page = 0
	m.rebuildTable()
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	if m.filtering {
		switch keyMsg.String() {
		case "enter", "esc":
			if keyMsg.String() == "esc" {
				m.filterIn.SetValue("")
				m.applyFilter("")
			} else {
				m.applyFilter(m.filterIn.Value())
			}
			m.filtering = false
			m.filterIn.Blur()
			m.rebuildTable()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterIn, cmd = m.filterIn.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(keyMsg, viewKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, viewKeys.Filter):
		m.filtering = true
		m.filterIn.Focus()
		return m, textinput.Blink

	case key.Matches(keyMsg, viewKeys.ClearFlt):
		m.filterIn.SetValue("")
		m.applyFilter("")
		return m, nil

	case key.Matches(keyMsg, viewKeys.NextPage):
		m.pager.NextPage()
		m.rebuildTable()
		return m, nil

	case key.Matches(keyMsg, viewKeys.PrevPage):
		m.pager.PrevPage()
		m.rebuildTable()
		return m, nil

	case key.Matches(keyMsg, viewKeys.Export):
		if m.opts.Export == nil {
			m.status = "export is not configured"
			return m, nil
		}
		path, err := m.opts.Export(m.columns, m.filtered)
		if err != nil {
			m.status = "export failed: " + err.Error()
		} else {
			m.status = "exported " + path
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var b strings.Builder
	if m.opts.Title != "" {
		b.WriteString(titleStyle.Render(m.opts.Title))
		b.WriteString("\n")
	}

	b.WriteString(statStyle.Render(StatsLine(Summarize(m.filtered))))
	b.WriteString("\n\n")

	if m.filtering {
		b.WriteString(m.filterIn.View())
		b.WriteString("\n")
	} else if m.query != "" {
		b.WriteString(dimStyle.Render("filter: " + m.query))
		b.WriteString("\n")
	}

	if len(m.columns) == 0 {
		b.WriteString(dimStyle.Render("no rows"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("Page %d of %d", m.pager.Page+1, m.pager.TotalPages)))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("/ filter • ←/→ pages • e export • q quit"))
	b.WriteString("\n")
	return b.String()
}

// StatsLine formats a stats summary as a single line
func StatsLine(stats Stats) string {
	parts := []string{fmt.Sprintf("Total: %d", stats.Total)}
	for _, c := range stats.Counts {
		parts = append(parts, fmt.Sprintf("%s: %d", c.Label, c.Count))
	}
	return strings.Join(parts, "  •  ")
}

// Run starts the interactive view and blocks until it quits
func Run(rows []map[string]any, opts ViewOptions) error {
	p := tea.NewProgram(NewModel(rows, opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run table view: %w", err)
	}
	return nil
}

// RenderStatic renders the current page of rows as plain text, used by the
// non-interactive result view.
func RenderStatic(rows []map[string]any, query string, page, pageSize int) string {
	columns := InferColumns(rows)
	filtered := Filter(rows, columns, query)
	stats := Summarize(filtered)

	var b strings.Builder
	b.WriteString(StatsLine(stats))
	b.WriteString("\n")

	if len(columns) == 0 || len(filtered) == 0 {
		b.WriteString("no rows\n")
		return b.String()
	}

	total := TotalPages(len(filtered), pageSize)
	page = ClampPage(page, total)
	visible := Page(filtered, page, pageSize)

	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		headers = append(headers, c.Title)
	}
	b.WriteString(strings.Join(headers, " | "))
	b.WriteString("\n")

	for _, row := range visible {
		cells := make([]string, 0, len(columns))
		for _, c := range columns {
			cells = append(cells, CellString(row[c.Key], displayDelimiter))
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Page %d of %d\n", page, total))
	return b.String()
}
