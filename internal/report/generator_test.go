package report

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/shared"
)

func testCompany() process.CompanyInfo {
	return process.CompanyInfo{Name: "JGR BROKER", Contact: "contato@jgrbroker.com", Phone: "+55 11 0000-0000"}
}

func TestGenerateEmptyRowsReturnsNoData(t *testing.T) {
	gen := NewGenerator(t.TempDir(), nil, nil)

	artifact, err := gen.Generate(nil, testCompany(), Options{})
	assert.ErrorIs(t, err, shared.ErrNoData)
	assert.Nil(t, artifact)
}

func TestGenerateWritesSelfContainedArtifact(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir, nil, nil)

	rows := NewRows([]*process.Process{
		{ID: "20230001", Status: "Em andamento", Type: process.TypeImport, Ref: "DKA-1", Product: "Eletrônicos"},
		{ID: "20230002", Status: "Concluído", Type: process.TypeExport, Ref: "EXP-9"},
	}, false)

	artifact, err := gen.Generate(rows, testCompany(), Options{})
	require.NoError(t, err)
	require.NotNil(t, artifact)

	assert.True(t, strings.HasPrefix(artifact.Filename, "processos_"), "filename: %s", artifact.Filename)
	assert.True(t, strings.HasSuffix(artifact.Filename, ".html"))

	content, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	assert.Equal(t, artifact.HTML, content)

	html := string(content)
	assert.Contains(t, html, "20230001")
	assert.Contains(t, html, "DKA-1")
	assert.Contains(t, html, "Eletrônicos")
	assert.Contains(t, html, "EM ANDAMENTO")
	assert.Contains(t, html, "JGR BROKER")
	assert.Contains(t, html, "ITEMS_PER_PAGE = 10")
	assert.Contains(t, html, "<script>")
	assert.NotContains(t, html, "src=\"http", "artifact must not reference external resources")
}

func TestGenerateDetailsTabsCarryFullFieldSet(t *testing.T) {
	gen := NewGenerator(t.TempDir(), nil, nil)

	exp := &process.Process{
		ID:     "20230002",
		Status: "Pendente",
		Type:   process.TypeExport,
		Ref:    "EXP-7/Atlantic Run",
		ExportFields: process.ExportFields{
			Importer:   "NORDKAFFEE GMBH",
			ExportType: "FCL",
		},
	}
	imp := &process.Process{
		ID:       "20230001",
		Status:   "Em andamento",
		Type:     process.TypeImport,
		Terminal: "Santos Brasil",
	}

	artifact, err := gen.Generate(NewRows([]*process.Process{imp, exp}, false), testCompany(), Options{})
	require.NoError(t, err)

	html := string(artifact.HTML)
	assert.Contains(t, html, "Informações Gerais")
	assert.Contains(t, html, "tab-container")
	assert.Contains(t, html, "function openTab")

	// Export rows carry the export-only group alongside the shared tabs.
	assert.Contains(t, html, "NORDKAFFEE GMBH")
	assert.Contains(t, html, "Tipo de Embarque")
	assert.Contains(t, html, "Deadline de Carga")
	assert.Contains(t, html, "Terminal de Exportação")

	// Import rows keep their own labels.
	assert.Contains(t, html, "Entrada no Porto/Recinto")
	assert.Contains(t, html, "Santos Brasil")
	assert.Contains(t, html, "Histórico de Eventos")
}

func TestGenerateEveryRowPairsWithOneDetailsRow(t *testing.T) {
	gen := NewGenerator(t.TempDir(), nil, nil)

	processes := []*process.Process{
		{ID: "20230001", Status: "Em andamento", Type: process.TypeImport},
		{ID: "20230002", Status: "Concluído", Type: process.TypeExport},
		{ID: "20230003", Status: "Pendente", Type: process.TypeImport},
	}

	artifact, err := gen.Generate(NewRows(processes, false), testCompany(), Options{})
	require.NoError(t, err)

	html := string(artifact.HTML)
	for _, p := range processes {
		assert.Equal(t, 1, strings.Count(html, `data-id="`+p.ID+`"`), "visible row for %s", p.ID)
		assert.Equal(t, 1, strings.Count(html, `id="details-`+p.ID+`"`), "details row for %s", p.ID)
	}
}

func TestGenerateFilenameSuffixes(t *testing.T) {
	gen := NewGenerator(t.TempDir(), nil, nil)
	rows := NewRows([]*process.Process{{ID: "1", Status: "Pendente"}}, false)

	artifact, err := gen.Generate(rows, testCompany(), Options{ClientName: "ACME Ltda", Archived: true})
	require.NoError(t, err)
	assert.Contains(t, artifact.Filename, "_cliente_ACME_Ltda")
	assert.Contains(t, artifact.Filename, "_arquivados")

	artifact, err = gen.Generate(rows, testCompany(), Options{ClientID: "client-9"})
	require.NoError(t, err)
	assert.Contains(t, artifact.Filename, "_cliente_client-9")
}

func TestGenerateLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir, nil, nil)
	rows := NewRows([]*process.Process{{ID: "1", Status: "Pendente"}}, false)

	for i := 0; i < 3; i++ {
		_, err := gen.Generate(rows, testCompany(), Options{})
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), ".report-"), "temp debris: %s", entry.Name())
		assert.True(t, strings.HasPrefix(entry.Name(), "processos_"))
	}
	assert.Len(t, entries, 3)
}

func TestArtifactDataURI(t *testing.T) {
	gen := NewGenerator(t.TempDir(), nil, nil)
	rows := NewRows([]*process.Process{{ID: "1", Status: "Pendente"}}, false)

	artifact, err := gen.Generate(rows, testCompany(), Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(artifact.DataURI(), "data:text/html;base64,"))
}
