package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/process"
)

func TestGenerateProcessDocument(t *testing.T) {
	p := &process.Process{
		ID:      "20230001",
		Type:    process.TypeImport,
		Status:  "Em andamento",
		Ref:     "DKA-1/Sydex Adventure",
		Product: "Eletrônicos",
		Events: []process.Event{
			{Description: "Processo criado", User: "Admin"},
		},
	}

	html, filename, err := GenerateProcess(p, testCompany())
	require.NoError(t, err)
	assert.Equal(t, "processo_20230001.html", filename)

	body := string(html)
	assert.Contains(t, body, "Processo 20230001")
	assert.Contains(t, body, "DKA-1/Sydex Adventure")
	assert.Contains(t, body, "EM ANDAMENTO")
	assert.Contains(t, body, "JGR BROKER")
	assert.Contains(t, body, "Processo criado")
	assert.False(t, strings.Contains(body, "Exportação</h2>"), "import document must not carry the export section")
}

func TestGenerateProcessDocumentExportSection(t *testing.T) {
	p := &process.Process{
		ID:     "20230002",
		Type:   process.TypeExport,
		Status: "Pendente",
		Ref:    "EXP-7/Atlantic Run",
		ExportFields: process.ExportFields{
			Importer:   "NORDKAFFEE GMBH",
			ExportType: "FCL",
		},
	}

	html, _, err := GenerateProcess(p, testCompany())
	require.NoError(t, err)
	assert.Contains(t, string(html), "NORDKAFFEE GMBH")
	assert.Contains(t, string(html), "Importador")
}
