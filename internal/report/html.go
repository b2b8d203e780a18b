package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/freightdesk/freightdesk/internal/process"
)

type pageData struct {
	Title        string
	Company      process.CompanyInfo
	GeneratedAt  string
	Columns      []Column
	Rows         []Row
	StatusCounts []StatusCount
	PageSize     int
	ClientName   string
	Archived     bool
}

// DateColumns returns the zero-based date column indexes as a JS literal.
func (pageData) DateColumns() template.JS {
	return columnIndexesJS(ColumnDate)
}

// NumberColumns returns the zero-based numeric column indexes as a JS
// literal.
func (pageData) NumberColumns() template.JS {
	return columnIndexesJS(ColumnNumber)
}

func columnIndexesJS(kind ColumnKind) template.JS {
	var idx []string
	for i, col := range Columns {
		if col.Kind == kind {
			idx = append(idx, fmt.Sprintf("%d", i))
		}
	}
	return template.JS("[" + strings.Join(idx, ",") + "]")
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
	"typeLabel": func(t process.Type) string {
		if t == process.TypeExport {
			return "Exportação"
		}
		return "Importação"
	},
	"formatDate": func(d process.Date) string { return d.String() },
}).Parse(pageMarkup))

const pageMarkup = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0, maximum-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
.container { max-width: 1400px; margin: 0 auto; padding: 20px; background: #fff; box-shadow: 0 0 10px rgba(0,0,0,0.1); border-radius: 5px; }
.header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 20px; border-bottom: 1px solid #eee; padding-bottom: 10px; }
.header h1 { font-size: 1.4em; margin: 0; }
.header .meta { color: #777; font-size: 0.85em; text-align: right; }
.filter-container { display: flex; flex-wrap: wrap; align-items: center; gap: 8px; margin-bottom: 15px; }
.filter-label { font-weight: bold; font-size: 0.9em; }
.filter-input { padding: 6px 10px; border: 1px solid #ccc; border-radius: 4px; font-size: 0.9em; }
.status-counts-wrapper h3 { margin: 10px 0 6px; font-size: 1em; }
.status-counts { display: flex; flex-wrap: wrap; gap: 10px; margin-bottom: 15px; }
.status-count-item { padding: 6px 15px; border-radius: 20px; color: #fff; font-size: 0.85em; cursor: pointer; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
.status-count-badge { background: rgba(255,255,255,0.3); border-radius: 10px; padding: 1px 8px; margin-left: 6px; font-weight: bold; }
table { width: 100%; border-collapse: collapse; font-size: 0.83em; }
th { background: #f5f5f5; text-align: left; padding: 8px 6px; cursor: pointer; white-space: nowrap; user-select: none; }
th.sort-asc::after { content: ' \25B2'; font-size: 0.7em; }
th.sort-desc::after { content: ' \25BC'; font-size: 0.7em; }
td { padding: 7px 6px; border-bottom: 1px solid #eee; }
tr.process-row { cursor: pointer; }
tr.process-row:hover { background: #f9f9f9; }
tr.process-row.active { background: #eef4fb; }
.status-badge { color: #fff; padding: 4px 10px; border-radius: 50px; font-weight: bold; display: inline-block; text-align: center; font-size: 0.85em; letter-spacing: 0.5px; text-transform: uppercase; white-space: nowrap; }
tr.details-row { display: none; }
.details-container { position: relative; background: #fafafa; border: 1px solid #e5e5e5; border-radius: 4px; padding: 14px; margin: 6px 0; }
.close-button { position: absolute; top: 8px; right: 12px; cursor: pointer; color: #999; }
.tab-container { display: flex; flex-wrap: wrap; gap: 4px; border-bottom: 1px solid #ddd; margin-bottom: 10px; }
.tab { padding: 6px 14px; border: 1px solid #ddd; border-bottom: none; border-radius: 4px 4px 0 0; background: #f0f0f0; cursor: pointer; font-size: 0.85em; }
.tab.active { background: #fff; font-weight: bold; }
.tabcontent { display: none; }
.tabcontent h3 { margin: 4px 0 10px; font-size: 0.95em; }
.details-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 8px 20px; margin-bottom: 12px; }
.details-label { font-size: 0.75em; color: #888; text-transform: uppercase; }
.details-value { font-size: 0.9em; }
.events h4 { margin: 10px 0 6px; }
.event { border-left: 3px solid #ccc; padding: 4px 10px; margin-bottom: 6px; font-size: 0.85em; }
.event .date { color: #888; margin-right: 8px; }
.event .user { color: #aaa; margin-left: 8px; font-style: italic; }
.pagination { display: flex; align-items: center; gap: 4px; margin-top: 14px; }
.pagination-button { padding: 5px 11px; border: 1px solid #ddd; border-radius: 4px; cursor: pointer; font-size: 0.85em; }
.pagination-button.active { background: #2c6fbb; color: #fff; border-color: #2c6fbb; }
.pagination-info { padding: 5px 8px; color: #777; font-size: 0.85em; }
@media print { .no-print { display: none; } }
</style>
</head>
<body>
<div class="container">
	<div class="header">
		<h1>{{.Title}}</h1>
		<div class="meta">
			{{.Company.Contact}}<br>
			{{.Company.Phone}}<br>
			Gerado em {{.GeneratedAt}}
		</div>
	</div>

	<div class="filter-container no-print">
		<span class="filter-label">Buscar:</span>
		<input type="text" id="filterInput" class="filter-input" placeholder="Digite para filtrar (ID, Referência, PO, etc.)">
		<span class="filter-label">Tipo de Processo:</span>
		<select id="processTypeFilter" class="filter-input">
			<option value="todos">Todos</option>
			<option value="importacao">Importação</option>
			<option value="exportacao">Exportação</option>
		</select>
		<span class="filter-label">Status:</span>
		<select id="statusFilter" class="filter-input">
			<option value="todos">Todos</option>
			{{range .StatusCounts}}<option value="{{.Name}}">{{.Name}}</option>
			{{end}}
		</select>
		<span class="pagination-info">Processos: <span id="process-counter">{{len .Rows}}</span></span>
	</div>

	<div class="status-counts-wrapper">
		<h3>Status dos Processos</h3>
		<div id="statusCounts" class="status-counts">
			{{range .StatusCounts}}<div class="status-count-item" data-status="{{.Name}}" style="background-color: {{.Color}}">{{.Name}} <span class="status-count-badge">{{.Count}}</span></div>
			{{end}}
		</div>
	</div>

	<table id="processesTable">
		<thead>
			<tr>
				{{range .Columns}}<th>{{.Title}}</th>
				{{end}}
			</tr>
		</thead>
		<tbody>
			{{range .Rows}}{{$p := .Process}}
			<tr class="process-row" data-id="{{$p.ID}}" data-type="{{$p.Type}}" data-status="{{$p.Status}}" onclick="toggleDetails('{{$p.ID}}')">
				<td>{{$p.ID}}</td>
				<td style="text-align: center;"><div class="status-badge" style="background-color: {{.StatusColor}}">{{upper $p.Status}}</div></td>
				<td>{{typeLabel $p.Type}}</td>
				<td>{{$p.Ref}}</td>
				<td>{{$p.PO}}</td>
				<td>{{$p.Origin}}</td>
				<td>{{$p.Product}}</td>
				<td>{{formatDate $p.ETA}}</td>
				<td>{{$p.FreeTime}}</td>
				<td>{{formatDate $p.FreeTimeExpiry}}</td>
				<td>{{formatDate $p.EmptyReturn}}</td>
				<td>{{$p.Map}}</td>
				<td>{{$p.InvoiceNumber}}</td>
				<td>{{formatDate $p.PortEntryDate}}</td>
				<td>{{formatDate $p.CurrentPeriodStart}}</td>
				<td>{{formatDate $p.CurrentPeriodExpiry}}</td>
				<td>{{$p.StorageDays}}</td>
			</tr>
			<tr class="details-row" id="details-{{$p.ID}}">
				<td colspan="{{len $.Columns}}">
					<div class="details-container">
						<div class="close-button" onclick="toggleDetails('{{$p.ID}}', true)">&#10006;</div>
						<div class="tab-container no-print">
							<button class="tab active" onclick="openTab(event, '{{$p.ID}}-info')">Informações Gerais</button>
							<button class="tab" onclick="openTab(event, '{{$p.ID}}-transport')">{{if $p.IsExport}}Exportação{{else}}Transporte{{end}}</button>
							<button class="tab" onclick="openTab(event, '{{$p.ID}}-dates')">Datas</button>
							<button class="tab" onclick="openTab(event, '{{$p.ID}}-storage')">{{if $p.IsExport}}Terminal de Exportação{{else}}Armazenagem{{end}}</button>
							<button class="tab" onclick="openTab(event, '{{$p.ID}}-docs')">Documentos</button>
							<button class="tab" onclick="openTab(event, '{{$p.ID}}-events')">Eventos</button>
						</div>

						<div id="{{$p.ID}}-info" class="tabcontent" style="display: block;">
							<h3>Informações Gerais - {{typeLabel $p.Type}}</h3>
							<div class="details-grid">
								<div><div class="details-label">Código</div><div class="details-value">{{$p.ID}}</div></div>
								<div><div class="details-label">Referência</div><div class="details-value">{{$p.Ref}}</div></div>
								<div><div class="details-label">PO</div><div class="details-value">{{$p.PO}}</div></div>
								<div><div class="details-label">Invoice</div><div class="details-value">{{$p.Invoice}}</div></div>
								<div><div class="details-label">{{if $p.IsExport}}Destino{{else}}Origem{{end}}</div><div class="details-value">{{$p.Origin}}</div></div>
								<div><div class="details-label">Produto</div><div class="details-value">{{$p.Product}}</div></div>
								<div><div class="details-label">Tipo de Processo</div><div class="details-value">{{typeLabel $p.Type}}</div></div>
								<div><div class="details-label">Tipo de Carga</div><div class="details-value">{{$p.ContainerType}}</div></div>
								<div><div class="details-label">{{if $p.IsExport}}ETD{{else}}ETA{{end}}</div><div class="details-value">{{formatDate $p.ETA}}</div></div>
								<div><div class="details-label">Status</div><div class="details-value">{{$p.Status}}</div></div>
							</div>
						</div>

						<div id="{{$p.ID}}-transport" class="tabcontent">
							<h3>{{if $p.IsExport}}Exportação{{else}}Transporte{{end}}</h3>
							<div class="details-grid">
								<div><div class="details-label">{{if $p.IsExport}}Embarcador{{else}}Exportador{{end}}</div><div class="details-value">{{$p.Exporter}}</div></div>
								<div><div class="details-label">Navio</div><div class="details-value">{{$p.Ship}}</div></div>
								<div><div class="details-label">Agente</div><div class="details-value">{{$p.Agent}}</div></div>
								<div><div class="details-label">Número B/L</div><div class="details-value">{{$p.BLNumber}}</div></div>
								<div><div class="details-label">Contêiner</div><div class="details-value">{{$p.Container}}</div></div>
								{{if $p.IsExport}}
								<div><div class="details-label">Importador</div><div class="details-value">{{$p.Importer}}</div></div>
								<div><div class="details-label">Tipo de Embarque</div><div class="details-value">{{$p.ExportType}}</div></div>
								<div><div class="details-label">Data de Embarque</div><div class="details-value">{{formatDate $p.ShippingDate}}</div></div>
								<div><div class="details-label">Previsão de Chegada</div><div class="details-value">{{formatDate $p.ArrivalForecast}}</div></div>
								<div><div class="details-label">Entrega ao Cliente</div><div class="details-value">{{formatDate $p.ClientDeliveryDate}}</div></div>
								{{end}}
							</div>
						</div>

						<div id="{{$p.ID}}-dates" class="tabcontent">
							<h3>Datas</h3>
							<div class="details-grid">
								<div><div class="details-label">{{if $p.IsExport}}ETD{{else}}ETA{{end}}</div><div class="details-value">{{formatDate $p.ETA}}</div></div>
								<div><div class="details-label">{{if $p.IsExport}}Previsão de Saída{{else}}Previsão de Chegada{{end}}</div><div class="details-value">{{formatDate $p.ArrivalDate}}</div></div>
								<div><div class="details-label">{{if $p.IsExport}}Deadline{{else}}Free Time{{end}}</div><div class="details-value">{{$p.FreeTime}} dias</div></div>
								<div><div class="details-label">{{if $p.IsExport}}Vencimento Deadline{{else}}Vencimento Free Time{{end}}</div><div class="details-value">{{formatDate $p.FreeTimeExpiry}}</div></div>
								<div><div class="details-label">Devolução de Vazio</div><div class="details-value">{{formatDate $p.EmptyReturn}}</div></div>
								{{if $p.IsExport}}
								<div><div class="details-label">Deadline de Carga</div><div class="details-value">{{formatDate $p.CargoDeadline}}</div></div>
								<div><div class="details-label">Deadline Draft</div><div class="details-value">{{formatDate $p.DeadlineDraft}}</div></div>
								<div><div class="details-label">Data de Vencimento</div><div class="details-value">{{formatDate $p.DueDate}}</div></div>
								<div><div class="details-label">Data do Conhecimento</div><div class="details-value">{{formatDate $p.KnowledgeDate}}</div></div>
								<div><div class="details-label">Data de Endosso</div><div class="details-value">{{formatDate $p.EndorsementDate}}</div></div>
								<div><div class="details-label">Envio de Originais</div><div class="details-value">{{formatDate $p.OriginalsSentDate}}</div></div>
								{{end}}
							</div>
						</div>

						<div id="{{$p.ID}}-storage" class="tabcontent">
							<h3>{{if $p.IsExport}}Terminal de Exportação{{else}}Armazenagem{{end}}</h3>
							<div class="details-grid">
								<div><div class="details-label">{{if $p.IsExport}}Terminal de Exportação{{else}}Terminal{{end}}</div><div class="details-value">{{$p.Terminal}}</div></div>
								<div><div class="details-label">{{if $p.IsExport}}Entrada no Terminal{{else}}Entrada no Porto/Recinto{{end}}</div><div class="details-value">{{formatDate $p.PortEntryDate}}</div></div>
								<div><div class="details-label">Início do Período Atual</div><div class="details-value">{{formatDate $p.CurrentPeriodStart}}</div></div>
								<div><div class="details-label">Vencimento do Período</div><div class="details-value">{{formatDate $p.CurrentPeriodExpiry}}</div></div>
								<div><div class="details-label">Dias Armazenados</div><div class="details-value">{{$p.StorageDays}}</div></div>
								<div><div class="details-label">Mapa</div><div class="details-value">{{$p.Map}}</div></div>
							</div>
						</div>

						<div id="{{$p.ID}}-docs" class="tabcontent">
							<h3>Documentos</h3>
							<div class="details-grid">
								<div><div class="details-label">Nota Fiscal</div><div class="details-value">{{$p.InvoiceNumber}}</div></div>
								<div><div class="details-label">{{if $p.IsExport}}DU-E{{else}}D.I.{{end}}</div><div class="details-value">{{$p.DI}}</div></div>
								<div><div class="details-label">Documentos Originais</div><div class="details-value">{{$p.OriginalDocs}}</div></div>
								<div><div class="details-label">Data de Devolução</div><div class="details-value">{{formatDate $p.ReturnDate}}</div></div>
							</div>
							{{if $p.Observations}}<div class="details-label">Observações</div><div class="details-value">{{$p.Observations}}</div>{{end}}
						</div>

						<div id="{{$p.ID}}-events" class="tabcontent">
							<h3>Histórico de Eventos</h3>
							{{range $p.Events}}<div class="event"><span class="date">{{formatDate .Date}}</span>{{.Description}}<span class="user">{{.User}}</span></div>
							{{else}}<div class="event">Sem eventos registrados para este processo.</div>
							{{end}}
						</div>
					</div>
				</td>
			</tr>
			{{end}}
		</tbody>
	</table>

	<div id="pagination-container" class="no-print"></div>
</div>

<script>
const ITEMS_PER_PAGE = {{.PageSize}};
const DATE_COLUMNS = {{.DateColumns}};
const NUMBER_COLUMNS = {{.NumberColumns}};
let currentPage = 1;
let filteredRows = [];

function allRows() {
	return Array.from(document.querySelectorAll('#processesTable tbody tr.process-row'));
}

function filterTable() {
	const filterValue = (document.getElementById('filterInput').value || '').toLowerCase();
	const typeFilter = document.getElementById('processTypeFilter').value;
	const statusFilter = document.getElementById('statusFilter').value;

	filteredRows = [];
	const visibleCounts = {};

	allRows().forEach(row => {
		row.style.display = 'none';
		const detailsRow = document.getElementById('details-' + row.getAttribute('data-id'));
		if (detailsRow) detailsRow.style.display = 'none';

		const processType = row.getAttribute('data-type') || '';
		const rowStatus = row.getAttribute('data-status') || '';

		let matchesText = !filterValue;
		if (filterValue) {
			for (const cell of row.cells) {
				if (cell.textContent.toLowerCase().includes(filterValue)) { matchesText = true; break; }
			}
		}

		let matchesType = true;
		if (typeFilter !== 'todos') {
			matchesType = (processType === typeFilter) ||
				(typeFilter === 'importacao' && processType === '');
		}

		const matchesStatus = statusFilter === 'todos' || rowStatus === statusFilter;
		if (matchesText && matchesType && matchesStatus) {
			filteredRows.push(row);
			visibleCounts[rowStatus] = (visibleCounts[rowStatus] || 0) + 1;
		}
	});

	document.querySelectorAll('.status-count-item').forEach(item => {
		const status = item.getAttribute('data-status');
		const badge = item.querySelector('.status-count-badge');
		const count = visibleCounts[status] || 0;
		if (badge) badge.textContent = count.toString();
		item.style.opacity = count === 0 ? '0.6' : '1';
		item.style.border = status === statusFilter ? '2px solid #333' : 'none';
	});

	const counter = document.getElementById('process-counter');
	if (counter) counter.textContent = filteredRows.length;

	currentPage = 1;
	updatePagination();
	showPage(currentPage);
}

function showPage(page) {
	filteredRows.forEach(row => {
		row.style.display = 'none';
		const detailsRow = document.getElementById('details-' + row.getAttribute('data-id'));
		if (detailsRow) detailsRow.style.display = 'none';
	});
	const startIdx = (page - 1) * ITEMS_PER_PAGE;
	const endIdx = Math.min(startIdx + ITEMS_PER_PAGE, filteredRows.length);
	for (let i = startIdx; i < endIdx; i++) {
		filteredRows[i].style.display = '';
	}
	updateActivePage(page);
}

function updatePagination() {
	const totalPages = Math.ceil(filteredRows.length / ITEMS_PER_PAGE);
	const container = document.getElementById('pagination-container');
	container.innerHTML = '';
	if (totalPages <= 1) return;

	const pagination = document.createElement('div');
	pagination.className = 'pagination';

	const prev = document.createElement('div');
	prev.className = 'pagination-button';
	prev.innerText = '«';
	prev.addEventListener('click', () => { if (currentPage > 1) { currentPage--; showPage(currentPage); } });
	pagination.appendChild(prev);

	for (let i = 1; i <= totalPages; i++) {
		const btn = document.createElement('div');
		btn.className = 'pagination-button' + (i === currentPage ? ' active' : '');
		btn.innerText = i;
		btn.addEventListener('click', () => { currentPage = i; showPage(currentPage); });
		pagination.appendChild(btn);
	}

	const next = document.createElement('div');
	next.className = 'pagination-button';
	next.innerText = '»';
	next.addEventListener('click', () => {
		const total = Math.ceil(filteredRows.length / ITEMS_PER_PAGE);
		if (currentPage < total) { currentPage++; showPage(currentPage); }
	});
	pagination.appendChild(next);

	const info = document.createElement('div');
	info.className = 'pagination-info';
	info.id = 'page-info';
	info.innerText = 'Página ' + currentPage + ' de ' + totalPages;
	pagination.appendChild(info);

	container.appendChild(pagination);
}

function updateActivePage(page) {
	document.querySelectorAll('.pagination-button').forEach(btn => {
		btn.classList.remove('active');
		if (btn.innerText === page.toString()) btn.classList.add('active');
	});
	const info = document.getElementById('page-info');
	if (info) {
		const totalPages = Math.ceil(filteredRows.length / ITEMS_PER_PAGE);
		info.innerText = 'Página ' + page + ' de ' + totalPages;
	}
}

function toggleDetails(processId, isClose = false) {
	const row = document.querySelector('tr[data-id="' + processId + '"]');
	const detailsRow = document.getElementById('details-' + processId);
	if (!detailsRow) return;

	const isVisible = detailsRow.style.display === 'table-row';
	document.querySelectorAll('tr.details-row').forEach(r => { r.style.display = 'none'; });
	document.querySelectorAll('tr.process-row').forEach(r => { r.classList.remove('active'); });
	if (isClose || isVisible) return;

	detailsRow.style.display = 'table-row';
	if (row) row.classList.add('active');
}

function openTab(evt, tabId) {
	const processId = tabId.split('-')[0];
	document.querySelectorAll('.tabcontent').forEach(tc => {
		if (tc.id.startsWith(processId + '-')) tc.style.display = 'none';
	});
	evt.currentTarget.parentNode.querySelectorAll('.tab').forEach(tab => {
		tab.classList.remove('active');
	});
	const pane = document.getElementById(tabId);
	if (pane) pane.style.display = 'block';
	evt.currentTarget.classList.add('active');
}

function sortTable(column) {
	const tbody = document.querySelector('#processesTable tbody');
	const rows = allRows();

	const currentSort = tbody.getAttribute('data-sort-column');
	const currentDir = tbody.getAttribute('data-sort-dir');
	let direction = 'asc';
	if (currentSort == column) {
		direction = currentDir === 'asc' ? 'desc' : 'asc';
	}

	const headers = document.querySelectorAll('#processesTable th');
	headers.forEach(th => th.classList.remove('sort-asc', 'sort-desc'));
	headers[column].classList.add(direction === 'asc' ? 'sort-asc' : 'sort-desc');

	const isDate = DATE_COLUMNS.includes(column);
	const isNumber = NUMBER_COLUMNS.includes(column);

	rows.sort((a, b) => {
		let aValue = a.cells[column].textContent.trim();
		let bValue = b.cells[column].textContent.trim();
		if (aValue === '') return 1;
		if (bValue === '') return -1;
		if (isDate) {
			aValue = aValue.split('/').reverse().join('-');
			bValue = bValue.split('/').reverse().join('-');
		} else if (isNumber) {
			aValue = parseFloat(aValue) || 0;
			bValue = parseFloat(bValue) || 0;
		} else {
			return direction === 'asc'
				? aValue.localeCompare(bValue, 'pt-BR')
				: bValue.localeCompare(aValue, 'pt-BR');
		}
		if (aValue < bValue) return direction === 'asc' ? -1 : 1;
		if (aValue > bValue) return direction === 'asc' ? 1 : -1;
		return 0;
	});

	rows.forEach(row => {
		const detailsRow = document.getElementById('details-' + row.getAttribute('data-id'));
		tbody.appendChild(row);
		if (detailsRow) tbody.appendChild(detailsRow);
	});

	tbody.setAttribute('data-sort-column', column);
	tbody.setAttribute('data-sort-dir', direction);
	filterTable();
}

document.addEventListener('DOMContentLoaded', () => {
	document.querySelectorAll('#processesTable th').forEach((header, index) => {
		header.addEventListener('click', () => sortTable(index));
	});
	document.getElementById('filterInput').addEventListener('input', filterTable);
	document.getElementById('processTypeFilter').addEventListener('change', filterTable);
	document.getElementById('statusFilter').addEventListener('change', filterTable);
	document.querySelectorAll('.status-count-item').forEach(item => {
		item.addEventListener('click', () => {
			document.getElementById('statusFilter').value = item.getAttribute('data-status');
			filterTable();
		});
	});
	filterTable();
});
</script>
</body>
</html>
`
