package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/view"
)

func sampleProcess(id, status string, t process.Type) *process.Process {
	return &process.Process{ID: id, Status: status, Type: t}
}

func TestFilterCombinesCriteria(t *testing.T) {
	rows := NewRows([]*process.Process{
		{ID: "20230001", Status: "Em andamento", Type: process.TypeImport, Ref: "DKA-1"},
		{ID: "20230002", Status: "Concluído", Type: process.TypeImport, Ref: "DKA-2"},
		{ID: "20230003", Status: "Em andamento", Type: process.TypeExport, Ref: "EXP-1"},
	}, false)

	filtered := Filter{Text: "dka", Type: "importacao", Status: "Em andamento"}.Apply(rows)
	require.Len(t, filtered, 1)
	assert.Equal(t, "20230001", filtered[0].Process.ID)

	// Text alone matches any cell, case-insensitively.
	filtered = Filter{Text: "EXP-1"}.Apply(rows)
	require.Len(t, filtered, 1)
	assert.Equal(t, "20230003", filtered[0].Process.ID)

	// No criteria keeps everything in order.
	filtered = Filter{}.Apply(rows)
	require.Len(t, filtered, 3)
	assert.Equal(t, "20230001", filtered[0].Process.ID)
	assert.Equal(t, "20230003", filtered[2].Process.ID)
}

func TestFilterTreatsEmptyTypeAsImport(t *testing.T) {
	rows := NewRows([]*process.Process{
		{ID: "A", Type: ""},
		{ID: "B", Type: process.TypeExport},
	}, false)

	filtered := Filter{Type: "importacao"}.Apply(rows)
	require.Len(t, filtered, 1)
	assert.Equal(t, "A", filtered[0].Process.ID)

	filtered = Filter{Type: "exportacao"}.Apply(rows)
	require.Len(t, filtered, 1)
	assert.Equal(t, "B", filtered[0].Process.ID)
}

func TestSortRowsDatesChronologically(t *testing.T) {
	rows := NewRows([]*process.Process{
		{ID: "A", ETA: process.ParseDate("15/12/2023")},
		{ID: "B", ETA: process.ParseDate("02/01/2024")},
		{ID: "C", ETA: process.ParseDate("30/06/2023")},
		{ID: "D"},
	}, false)

	// Column 7 is ETA/ETD. Lexicographic order would put 02/01/2024 first.
	SortRows(rows, 7, false)
	assert.Equal(t, "C", rows[0].Process.ID)
	assert.Equal(t, "A", rows[1].Process.ID)
	assert.Equal(t, "B", rows[2].Process.ID)
	assert.Equal(t, "D", rows[3].Process.ID, "empty dates sort last")

	SortRows(rows, 7, true)
	assert.Equal(t, "B", rows[0].Process.ID)
	assert.Equal(t, "C", rows[2].Process.ID)
	assert.Equal(t, "D", rows[3].Process.ID, "empty dates sort last descending too")
}

func TestSortRowsNumerically(t *testing.T) {
	rows := NewRows([]*process.Process{
		{ID: "A", StorageDays: 12},
		{ID: "B", StorageDays: 2},
		{ID: "C", StorageDays: 100},
	}, false)

	// Column 16 is Dias Armazenados; string order would give 100 < 12 < 2.
	SortRows(rows, 16, false)
	assert.Equal(t, "B", rows[0].Process.ID)
	assert.Equal(t, "A", rows[1].Process.ID)
	assert.Equal(t, "C", rows[2].Process.ID)
}

func TestSortRowsTextUsesCollation(t *testing.T) {
	rows := NewRows([]*process.Process{
		{ID: "A", Product: "Zinco"},
		{ID: "B", Product: "Água"},
		{ID: "C", Product: "Aço"},
	}, false)

	SortRows(rows, 6, false)
	assert.Equal(t, "C", rows[0].Process.ID)
	assert.Equal(t, "B", rows[1].Process.ID)
	assert.Equal(t, "A", rows[2].Process.ID)
}

func TestPaginateUsesCeilDivision(t *testing.T) {
	var processes []*process.Process
	for i := 0; i < 25; i++ {
		processes = append(processes, sampleProcess("ID", "Em andamento", process.TypeImport))
	}
	rows := NewRows(processes, false)

	page, meta := Paginate(rows, 1)
	assert.Len(t, page, 10)
	assert.Equal(t, 3, meta.TotalPages)

	page, meta = Paginate(rows, 3)
	assert.Len(t, page, 5)
	assert.Equal(t, 3, meta.Page)

	// Out-of-range pages clamp to the last page.
	page, meta = Paginate(rows, 9)
	assert.Len(t, page, 5)
	assert.Equal(t, 3, meta.Page)
}

func TestCountStatuses(t *testing.T) {
	rows := NewRows([]*process.Process{
		sampleProcess("1", "Em andamento", process.TypeImport),
		sampleProcess("2", "Concluído", process.TypeImport),
		sampleProcess("3", "Em andamento", process.TypeImport),
		sampleProcess("4", "Em andamento", process.TypeExport),
		sampleProcess("5", "Em andamento", process.TypeImport),
		sampleProcess("6", "", process.TypeImport),
	}, false)

	counts := CountStatuses(rows)
	require.Len(t, counts, 2)
	assert.Equal(t, "Em andamento", counts[0].Name)
	assert.Equal(t, 4, counts[0].Count)
	assert.Equal(t, view.StatusColor("Em andamento"), counts[0].Color)
	assert.Equal(t, "Concluído", counts[1].Name)
	assert.Equal(t, 1, counts[1].Count)
}

func TestCountStatusesWithStatusFilterZeroesOthers(t *testing.T) {
	rows := NewRows([]*process.Process{
		sampleProcess("1", "Em andamento", process.TypeImport),
		sampleProcess("2", "Em andamento", process.TypeImport),
		sampleProcess("3", "Em andamento", process.TypeImport),
		sampleProcess("4", "Em andamento", process.TypeImport),
		sampleProcess("5", "Concluído", process.TypeImport),
		sampleProcess("6", "Pendente", process.TypeExport),
	}, false)

	visible := Filter{Status: "Em andamento"}.Apply(rows)
	counts := CountStatuses(visible)

	// The selected badge keeps its tally and every other one drops out.
	require.Len(t, counts, 1)
	assert.Equal(t, "Em andamento", counts[0].Name)
	assert.Equal(t, 4, counts[0].Count)
}

func TestClientViewDropsAssignmentEvents(t *testing.T) {
	p := &process.Process{ID: "20230001", Status: "Em andamento", Type: process.TypeImport}
	p.Events = []process.Event{
		{ID: "e1", Description: "Processo criado", User: "Admin"},
		{ID: "e2", Description: "Processo atribuído ao cliente ACME", User: "Admin"},
		{ID: "e3", Description: "Documentação recebida", User: "Admin"},
	}

	rows := NewRows([]*process.Process{p}, true)
	require.Len(t, rows, 1)
	events := rows[0].Process.Events
	require.Len(t, events, 2)
	assert.Equal(t, "Processo criado", events[0].Description)
	assert.Equal(t, "Documentação recebida", events[1].Description)

	// The source record keeps its full audit trail.
	assert.Len(t, p.Events, 3)
}
