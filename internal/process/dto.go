package process

import (
	"net/url"
	"strings"
)

// Form carries the submitted fields of the process create/edit form. Dates
// arrive as DD/MM/YYYY strings and parse leniently; malformed values become
// absent dates.
type Form struct {
	ID            string `json:"id" validate:"omitempty,max=16"`
	Type          string `json:"type" validate:"omitempty,oneof=importacao exportacao"`
	Status        string `json:"status" validate:"omitempty,max=80"`
	Ref           string `json:"ref" validate:"required,max=120"`
	Invoice       string `json:"invoice"`
	PO            string `json:"po"`
	Origin        string `json:"origin"`
	Product       string `json:"product"`
	ETA           string `json:"eta"`
	Exporter      string `json:"exporter"`
	Ship          string `json:"ship"`
	Agent         string `json:"agent"`
	BLNumber      string `json:"bl_number"`
	Container     string `json:"container"`
	ContainerType string `json:"container_type"`
	ArrivalDate   string `json:"arrival_date"`
	Terminal      string `json:"terminal"`
	InvoiceNumber string `json:"invoice_number"`
	DI            string `json:"di"`
	Map           string `json:"map"`

	FreeTime       string `json:"free_time"`
	FreeTimeExpiry string `json:"free_time_expiry"`
	EmptyReturn    string `json:"empty_return"`
	ReturnDate     string `json:"return_date"`

	PortEntryDate       string `json:"port_entry_date"`
	CurrentPeriodStart  string `json:"current_period_start"`
	CurrentPeriodExpiry string `json:"current_period_expiry"`

	OriginalDocs string `json:"original_docs"`
	Observations string `json:"observations"`

	Importer           string `json:"importer"`
	ExportType         string `json:"export_type"`
	Deadline           string `json:"deadline"`
	CargoDeadline      string `json:"cargo_deadline"`
	DeadlineDraft      string `json:"deadline_draft"`
	DueDate            string `json:"due_date"`
	KnowledgeDate      string `json:"knowledge_date"`
	EndorsementDate    string `json:"endorsement_date"`
	ShippingDate       string `json:"shipping_date"`
	ArrivalForecast    string `json:"arrival_forecast"`
	ClientDeliveryDate string `json:"client_delivery_date"`
	OriginalsSentDate  string `json:"originals_sent_date"`
}

// FormFromValues extracts a Form from submitted form values.
func FormFromValues(values url.Values) Form {
	get := func(key string) string {
		return strings.TrimSpace(values.Get(key))
	}
	return Form{
		ID:            get("id"),
		Type:          get("type"),
		Status:        get("status"),
		Ref:           get("ref"),
		Invoice:       get("invoice"),
		PO:            get("po"),
		Origin:        get("origin"),
		Product:       get("product"),
		ETA:           get("eta"),
		Exporter:      get("exporter"),
		Ship:          get("ship"),
		Agent:         get("agent"),
		BLNumber:      get("bl_number"),
		Container:     get("container"),
		ContainerType: get("container_type"),
		ArrivalDate:   get("arrival_date"),
		Terminal:      get("terminal"),
		InvoiceNumber: get("invoice_number"),
		DI:            get("di"),
		Map:           get("map"),

		FreeTime:       get("free_time"),
		FreeTimeExpiry: get("free_time_expiry"),
		EmptyReturn:    get("empty_return"),
		ReturnDate:     get("return_date"),

		PortEntryDate:       get("port_entry_date"),
		CurrentPeriodStart:  get("current_period_start"),
		CurrentPeriodExpiry: get("current_period_expiry"),

		OriginalDocs: get("original_docs"),
		Observations: get("observations"),

		Importer:           get("importer"),
		ExportType:         get("export_type"),
		Deadline:           get("deadline"),
		CargoDeadline:      get("cargo_deadline"),
		DeadlineDraft:      get("deadline_draft"),
		DueDate:            get("due_date"),
		KnowledgeDate:      get("knowledge_date"),
		EndorsementDate:    get("endorsement_date"),
		ShippingDate:       get("shipping_date"),
		ArrivalForecast:    get("arrival_forecast"),
		ClientDeliveryDate: get("client_delivery_date"),
		OriginalsSentDate:  get("originals_sent_date"),
	}
}

// FormFromProcess builds the editable form view of an existing record.
func FormFromProcess(p *Process) Form {
	return Form{
		ID:            p.ID,
		Type:          string(p.Type),
		Status:        p.Status,
		Ref:           p.Ref,
		Invoice:       p.Invoice,
		PO:            p.PO,
		Origin:        p.Origin,
		Product:       p.Product,
		ETA:           p.ETA.String(),
		Exporter:      p.Exporter,
		Ship:          p.Ship,
		Agent:         p.Agent,
		BLNumber:      p.BLNumber,
		Container:     p.Container,
		ContainerType: p.ContainerType,
		ArrivalDate:   p.ArrivalDate.String(),
		Terminal:      p.Terminal,
		InvoiceNumber: p.InvoiceNumber,
		DI:            p.DI,
		Map:           p.Map,

		FreeTime:       p.FreeTime,
		FreeTimeExpiry: p.FreeTimeExpiry.String(),
		EmptyReturn:    p.EmptyReturn.String(),
		ReturnDate:     p.ReturnDate.String(),

		PortEntryDate:       p.PortEntryDate.String(),
		CurrentPeriodStart:  p.CurrentPeriodStart.String(),
		CurrentPeriodExpiry: p.CurrentPeriodExpiry.String(),

		OriginalDocs: p.OriginalDocs,
		Observations: p.Observations,

		Importer:           p.Importer,
		ExportType:         p.ExportType,
		Deadline:           p.Deadline.String(),
		CargoDeadline:      p.CargoDeadline.String(),
		DeadlineDraft:      p.DeadlineDraft.String(),
		DueDate:            p.DueDate.String(),
		KnowledgeDate:      p.KnowledgeDate.String(),
		EndorsementDate:    p.EndorsementDate.String(),
		ShippingDate:       p.ShippingDate.String(),
		ArrivalForecast:    p.ArrivalForecast.String(),
		ClientDeliveryDate: p.ClientDeliveryDate.String(),
		OriginalsSentDate:  p.OriginalsSentDate.String(),
	}
}

// Apply copies the form into a process record.
func (f Form) Apply(p *Process) {
	p.ID = f.ID
	p.Type = Type(f.Type)
	p.Status = f.Status
	p.Ref = f.Ref
	p.Invoice = f.Invoice
	p.PO = f.PO
	p.Origin = f.Origin
	p.Product = f.Product
	p.ETA = ParseDate(f.ETA)
	p.Exporter = f.Exporter
	p.Ship = f.Ship
	p.Agent = f.Agent
	p.BLNumber = f.BLNumber
	p.Container = f.Container
	p.ContainerType = f.ContainerType
	p.ArrivalDate = ParseDate(f.ArrivalDate)
	p.Terminal = f.Terminal
	p.InvoiceNumber = f.InvoiceNumber
	p.DI = f.DI
	p.Map = f.Map

	p.FreeTime = f.FreeTime
	p.FreeTimeExpiry = ParseDate(f.FreeTimeExpiry)
	p.EmptyReturn = ParseDate(f.EmptyReturn)
	p.ReturnDate = ParseDate(f.ReturnDate)

	p.PortEntryDate = ParseDate(f.PortEntryDate)
	p.CurrentPeriodStart = ParseDate(f.CurrentPeriodStart)
	p.CurrentPeriodExpiry = ParseDate(f.CurrentPeriodExpiry)

	p.OriginalDocs = f.OriginalDocs
	p.Observations = f.Observations

	p.Importer = f.Importer
	p.ExportType = f.ExportType
	p.Deadline = ParseDate(f.Deadline)
	p.CargoDeadline = ParseDate(f.CargoDeadline)
	p.DeadlineDraft = ParseDate(f.DeadlineDraft)
	p.DueDate = ParseDate(f.DueDate)
	p.KnowledgeDate = ParseDate(f.KnowledgeDate)
	p.EndorsementDate = ParseDate(f.EndorsementDate)
	p.ShippingDate = ParseDate(f.ShippingDate)
	p.ArrivalForecast = ParseDate(f.ArrivalForecast)
	p.ClientDeliveryDate = ParseDate(f.ClientDeliveryDate)
	p.OriginalsSentDate = ParseDate(f.OriginalsSentDate)
}
