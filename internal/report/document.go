package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/view"
)

type documentData struct {
	Process     *process.Process
	Company     process.CompanyInfo
	GeneratedAt string
	StatusColor string
}

// GenerateProcess renders a single process as a standalone printable
// document.
func GenerateProcess(p *process.Process, company process.CompanyInfo) ([]byte, string, error) {
	data := documentData{
		Process:     p,
		Company:     company,
		GeneratedAt: time.Now().Format("02/01/2006 15:04"),
		StatusColor: view.StatusColor(p.Status),
	}
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return nil, "", fmt.Errorf("report: render document: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("processo_%s.html", p.ID), nil
}

var documentTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
	"typeLabel": func(t process.Type) string {
		if t == process.TypeExport {
			return "Exportação"
		}
		return "Importação"
	},
	"formatDate": func(d process.Date) string { return d.String() },
}).Parse(documentMarkup))

const documentMarkup = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<title>Processo {{.Process.ID}} - {{.Company.Name}}</title>
<style>
body { font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
.container { max-width: 900px; margin: 0 auto; padding: 20px; background: #fff; box-shadow: 0 0 10px rgba(0,0,0,0.1); border-radius: 5px; }
.header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 20px; border-bottom: 1px solid #eee; padding-bottom: 10px; }
.header h1 { font-size: 1.3em; margin: 0; }
.header .meta { color: #777; font-size: 0.85em; text-align: right; }
.status-badge { color: #fff; padding: 4px 12px; border-radius: 50px; font-weight: bold; display: inline-block; font-size: 0.85em; text-transform: uppercase; }
h2 { font-size: 1em; border-bottom: 1px solid #eee; padding-bottom: 4px; margin: 18px 0 8px; }
.grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 8px 20px; }
.label { font-size: 0.75em; color: #888; text-transform: uppercase; }
.value { font-size: 0.95em; }
.event { border-left: 3px solid #ccc; padding: 4px 10px; margin-bottom: 6px; font-size: 0.9em; }
.event .date { color: #888; margin-right: 8px; }
.event .user { color: #aaa; margin-left: 8px; font-style: italic; }
</style>
</head>
<body>
<div class="container">
	<div class="header">
		<h1>Processo {{.Process.ID}} <span class="status-badge" style="background-color: {{.StatusColor}}">{{upper .Process.Status}}</span></h1>
		<div class="meta">
			{{.Company.Name}}<br>
			{{.Company.Contact}}<br>
			{{.Company.Phone}}<br>
			Gerado em {{.GeneratedAt}}
		</div>
	</div>

	{{$p := .Process}}
	<h2>Identificação</h2>
	<div class="grid">
		<div><div class="label">Tipo</div><div class="value">{{typeLabel $p.Type}}</div></div>
		<div><div class="label">Referência</div><div class="value">{{$p.Ref}}</div></div>
		<div><div class="label">Invoice</div><div class="value">{{$p.Invoice}}</div></div>
		<div><div class="label">PO</div><div class="value">{{$p.PO}}</div></div>
		<div><div class="label">Origem</div><div class="value">{{$p.Origin}}</div></div>
		<div><div class="label">Produto</div><div class="value">{{$p.Product}}</div></div>
	</div>

	<h2>Transporte</h2>
	<div class="grid">
		<div><div class="label">ETA</div><div class="value">{{formatDate $p.ETA}}</div></div>
		<div><div class="label">{{if $p.IsExport}}Embarcador{{else}}Exportador{{end}}</div><div class="value">{{$p.Exporter}}</div></div>
		<div><div class="label">Navio</div><div class="value">{{$p.Ship}}</div></div>
		<div><div class="label">Agente</div><div class="value">{{$p.Agent}}</div></div>
		<div><div class="label">B/L</div><div class="value">{{$p.BLNumber}}</div></div>
		<div><div class="label">Contêiner</div><div class="value">{{$p.Container}}</div></div>
		<div><div class="label">Tipo de Contêiner</div><div class="value">{{$p.ContainerType}}</div></div>
		<div><div class="label">Chegada</div><div class="value">{{formatDate $p.ArrivalDate}}</div></div>
		<div><div class="label">Terminal</div><div class="value">{{$p.Terminal}}</div></div>
	</div>

	<h2>Documentação</h2>
	<div class="grid">
		<div><div class="label">Nota Fiscal</div><div class="value">{{$p.InvoiceNumber}}</div></div>
		<div><div class="label">{{if $p.IsExport}}DU-E{{else}}D.I.{{end}}</div><div class="value">{{$p.DI}}</div></div>
		<div><div class="label">Mapa</div><div class="value">{{$p.Map}}</div></div>
		<div><div class="label">Documentos Originais</div><div class="value">{{$p.OriginalDocs}}</div></div>
	</div>

	<h2>Free Time e Armazenagem</h2>
	<div class="grid">
		<div><div class="label">Free Time</div><div class="value">{{$p.FreeTime}}</div></div>
		<div><div class="label">Vencimento Free Time</div><div class="value">{{formatDate $p.FreeTimeExpiry}}</div></div>
		<div><div class="label">Devolução de Vazio</div><div class="value">{{formatDate $p.EmptyReturn}}</div></div>
		<div><div class="label">Entrada no Porto</div><div class="value">{{formatDate $p.PortEntryDate}}</div></div>
		<div><div class="label">Início do Período</div><div class="value">{{formatDate $p.CurrentPeriodStart}}</div></div>
		<div><div class="label">Vencimento do Período</div><div class="value">{{formatDate $p.CurrentPeriodExpiry}}</div></div>
		<div><div class="label">Dias Armazenados</div><div class="value">{{$p.StorageDays}}</div></div>
	</div>

	{{if $p.IsExport}}
	<h2>Exportação</h2>
	<div class="grid">
		<div><div class="label">Importador</div><div class="value">{{$p.Importer}}</div></div>
		<div><div class="label">Tipo de Embarque</div><div class="value">{{$p.ExportType}}</div></div>
		<div><div class="label">Deadline</div><div class="value">{{formatDate $p.Deadline}}</div></div>
		<div><div class="label">Deadline de Carga</div><div class="value">{{formatDate $p.CargoDeadline}}</div></div>
		<div><div class="label">Deadline Draft</div><div class="value">{{formatDate $p.DeadlineDraft}}</div></div>
		<div><div class="label">Data de Embarque</div><div class="value">{{formatDate $p.ShippingDate}}</div></div>
		<div><div class="label">Previsão de Chegada</div><div class="value">{{formatDate $p.ArrivalForecast}}</div></div>
		<div><div class="label">Entrega ao Cliente</div><div class="value">{{formatDate $p.ClientDeliveryDate}}</div></div>
	</div>
	{{end}}

	{{if $p.Observations}}
	<h2>Observações</h2>
	<div class="value">{{$p.Observations}}</div>
	{{end}}

	<h2>Eventos</h2>
	{{range $p.Events}}<div class="event"><span class="date">{{formatDate .Date}}</span>{{.Description}}<span class="user">{{.User}}</span></div>
	{{else}}<div class="event">Sem eventos registrados</div>
	{{end}}
</div>
</body>
</html>
`
