package view

// statusColors maps catalog statuses to badge colors in the dashboard and
// generated reports.
var statusColors = map[string]string{
	"Em andamento": "orange",
	"Concluído":    "green",
	"Atrasado":     "red",
	"Pendente":     "blue",
	"Cancelado":    "gray",

	"Novo Processo":                 "#6a0dad",
	"Navio em Santos":               "#4169e1",
	"Chegando no porto de Santos":   "#2e8b57",
	"Chegada do navio alterada":     "#ff4500",
	"Trânsito Aduaneiro":            "#8b4513",
	"Em rota de trânsito aduaneiro": "#8b4513",
	"Presença de carga em Bauru":    "#20b2aa",
	"Entrega programada":            "#228b22",
}

// defaultStatusColor applies to statuses missing from the lookup table.
const defaultStatusColor = "orange"

// StatusColor returns the badge color for a status, falling back to the
// default for unrecognised values.
func StatusColor(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return defaultStatusColor
}
