// Package report renders process listings into self-contained HTML
// artifacts and PDF documents.
package report

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
)

// PageSize is the number of table rows per report page.
const PageSize = 10

// ColumnKind selects the comparison used when sorting a column.
type ColumnKind int

const (
	// ColumnText compares cell text with Brazilian Portuguese collation.
	ColumnText ColumnKind = iota
	// ColumnDate compares DD/MM/YYYY cells chronologically.
	ColumnDate
	// ColumnNumber compares cells numerically.
	ColumnNumber
)

// Column describes one table column of the report.
type Column struct {
	Title string
	Kind  ColumnKind
}

// Columns is the fixed table layout, in render order.
var Columns = []Column{
	{Title: "ID", Kind: ColumnText},
	{Title: "Status", Kind: ColumnText},
	{Title: "Tipo", Kind: ColumnText},
	{Title: "Referência", Kind: ColumnText},
	{Title: "PO", Kind: ColumnText},
	{Title: "Origem/Destino", Kind: ColumnText},
	{Title: "Produto", Kind: ColumnText},
	{Title: "ETA/ETD", Kind: ColumnDate},
	{Title: "Free Time/Deadline", Kind: ColumnNumber},
	{Title: "Venc. Free Time", Kind: ColumnDate},
	{Title: "Devolução", Kind: ColumnDate},
	{Title: "Mapa", Kind: ColumnText},
	{Title: "Nota Fiscal", Kind: ColumnText},
	{Title: "Entrada Porto/Terminal", Kind: ColumnDate},
	{Title: "Início do Período", Kind: ColumnDate},
	{Title: "Vencimento do Período", Kind: ColumnDate},
	{Title: "Dias Armazenados", Kind: ColumnNumber},
}

// Row is one renderable table line plus the detail payload behind it.
type Row struct {
	Process     *process.Process
	StatusColor string
	cells       []string
}

// NewRow builds the render row for one process.
func NewRow(p *process.Process) Row {
	typeLabel := "Importação"
	if p.Type == process.TypeExport {
		typeLabel = "Exportação"
	}
	cells := []string{
		p.ID,
		p.Status,
		typeLabel,
		p.Ref,
		p.PO,
		p.Origin,
		p.Product,
		p.ETA.String(),
		p.FreeTime,
		p.FreeTimeExpiry.String(),
		p.EmptyReturn.String(),
		p.Map,
		p.InvoiceNumber,
		p.PortEntryDate.String(),
		p.CurrentPeriodStart.String(),
		p.CurrentPeriodExpiry.String(),
		strconv.Itoa(int(p.StorageDays)),
	}
	return Row{
		Process:     p,
		StatusColor: view.StatusColor(p.Status),
		cells:       cells,
	}
}

// Cells returns the rendered cell text in column order.
func (r Row) Cells() []string {
	return r.cells
}

// Cell returns the rendered text of one column.
func (r Row) Cell(column int) string {
	if column < 0 || column >= len(r.cells) {
		return ""
	}
	return r.cells[column]
}

// NewRows builds render rows for a process slice. When clientView is set,
// audit entries that reveal client assignment are dropped from the detail
// payload.
func NewRows(processes []*process.Process, clientView bool) []Row {
	rows := make([]Row, 0, len(processes))
	for _, p := range processes {
		if clientView {
			p = withoutAssignmentEvents(p)
		}
		rows = append(rows, NewRow(p))
	}
	return rows
}

func withoutAssignmentEvents(p *process.Process) *process.Process {
	clone := *p
	clone.Events = make([]process.Event, 0, len(p.Events))
	for _, ev := range p.Events {
		if strings.Contains(strings.ToLower(ev.Description), "atribuído") {
			continue
		}
		clone.Events = append(clone.Events, ev)
	}
	return &clone
}

// Filter narrows the visible rows. Criteria combine with AND; zero values
// mean "no restriction".
type Filter struct {
	// Text matches case-insensitively against any cell.
	Text string
	// Type restricts to one process type. Rows with an empty type count as
	// imports.
	Type string
	// Status requires an exact status match.
	Status string
}

// Apply returns the rows passing every criterion, preserving order.
func (f Filter) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	text := strings.ToLower(strings.TrimSpace(f.Text))
	for _, row := range rows {
		if text != "" && !matchesText(row, text) {
			continue
		}
		if !matchesType(row, f.Type) {
			continue
		}
		if f.Status != "" && f.Status != "todos" && row.Process.Status != f.Status {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesText(row Row, text string) bool {
	for _, cell := range row.cells {
		if strings.Contains(strings.ToLower(cell), text) {
			return true
		}
	}
	return false
}

func matchesType(row Row, filter string) bool {
	if filter == "" || filter == "todos" {
		return true
	}
	rowType := string(row.Process.Type)
	if filter == string(process.TypeImport) {
		return rowType == "" || rowType == string(process.TypeImport)
	}
	return rowType == filter
}

// SortRows orders rows by one column. Dates compare chronologically,
// numbers numerically and text with pt-BR collation. Empty cells always
// sort last regardless of direction.
func SortRows(rows []Row, column int, descending bool) {
	if column < 0 || column >= len(Columns) {
		return
	}
	kind := Columns[column].Kind
	collator := collate.New(language.BrazilianPortuguese, collate.Loose)
	sort.SliceStable(rows, func(i, j int) bool {
		a := strings.TrimSpace(rows[i].Cell(column))
		b := strings.TrimSpace(rows[j].Cell(column))
		// Empty cells sort last in either direction.
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		cmp := compareCells(a, b, kind, collator)
		if cmp == 0 {
			return false
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareCells(a, b string, kind ColumnKind, collator *collate.Collator) int {
	switch kind {
	case ColumnDate:
		da := process.ParseDate(a)
		db := process.ParseDate(b)
		switch {
		case da.Before(db):
			return -1
		case da.After(db):
			return 1
		default:
			return 0
		}
	case ColumnNumber:
		na, _ := strconv.ParseFloat(a, 64)
		nb, _ := strconv.ParseFloat(b, 64)
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	default:
		return collator.CompareString(a, b)
	}
}

// Paginate slices one page out of the rows.
func Paginate(rows []Row, page int) ([]Row, shared.Pagination) {
	p := shared.NewPagination(page, PageSize, len(rows))
	start, end := p.Bounds()
	return rows[start:end], p
}

// StatusCount is the frequency of one status among visible rows.
type StatusCount struct {
	Name  string
	Color string
	Count int
}

// CountStatuses tallies statuses in first-appearance order. Callers pass
// the fully filtered row set; while a status filter is active every other
// badge drops to zero.
func CountStatuses(rows []Row) []StatusCount {
	index := make(map[string]int)
	var counts []StatusCount
	for _, row := range rows {
		status := row.Process.Status
		if status == "" {
			continue
		}
		if i, ok := index[status]; ok {
			counts[i].Count++
			continue
		}
		index[status] = len(counts)
		counts = append(counts, StatusCount{Name: status, Color: row.StatusColor, Count: 1})
	}
	return counts
}

// ErrNoRows aliases the shared sentinel for empty report input.
var ErrNoRows = shared.ErrNoData
