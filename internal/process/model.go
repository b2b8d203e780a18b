package process

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Type discriminates import and export processes.
type Type string

const (
	// TypeImport marks an inbound customs process.
	TypeImport Type = "importacao"
	// TypeExport marks an outbound customs process.
	TypeExport Type = "exportacao"
)

// legacyCargoTypes are values older records stored in the type field before
// the process/cargo distinction existed.
var legacyCargoTypes = map[string]bool{
	"FCL 1 X 40": true,
	"FCL 1 X 20": true,
	"LCL":        true,
}

// Event is one entry in a process audit trail. Entries are ordered by
// insertion and normally append-only; administrators may edit or delete
// individual entries.
type Event struct {
	ID          string `json:"id"`
	Date        Date   `json:"date"`
	Description string `json:"description"`
	User        string `json:"user"`
}

// StorageDays tolerates the legacy string encoding some records carry.
type StorageDays int

// UnmarshalJSON accepts both numeric and quoted values; anything else
// coerces to zero.
func (s *StorageDays) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = StorageDays(n)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		*s = 0
		return nil
	}
	*s = StorageDays(n)
	return nil
}

// ExportFields groups the fields that only apply to export processes.
type ExportFields struct {
	Importer           string `json:"importer,omitempty"`
	ExportType         string `json:"export_type,omitempty"`
	Deadline           Date   `json:"deadline,omitzero"`
	CargoDeadline      Date   `json:"cargo_deadline,omitzero"`
	DeadlineDraft      Date   `json:"deadline_draft,omitzero"`
	DueDate            Date   `json:"due_date,omitzero"`
	KnowledgeDate      Date   `json:"knowledge_date,omitzero"`
	EndorsementDate    Date   `json:"endorsement_date,omitzero"`
	ShippingDate       Date   `json:"shipping_date,omitzero"`
	ArrivalForecast    Date   `json:"arrival_forecast,omitzero"`
	ClientDeliveryDate Date   `json:"client_delivery_date,omitzero"`
	OriginalsSentDate  Date   `json:"originals_sent_date,omitzero"`
}

// Process is one tracked import or export shipment/customs case.
type Process struct {
	ID            string `json:"id"`
	Type          Type   `json:"type"`
	Status        string `json:"status"`
	Ref           string `json:"ref"`
	Invoice       string `json:"invoice"`
	PO            string `json:"po"`
	Origin        string `json:"origin"`
	Product       string `json:"product"`
	ETA           Date   `json:"eta"`
	Exporter      string `json:"exporter"`
	Ship          string `json:"ship"`
	Agent         string `json:"agent"`
	BLNumber      string `json:"bl_number"`
	Container     string `json:"container"`
	ContainerType string `json:"container_type,omitempty"`
	ArrivalDate   Date   `json:"arrival_date"`
	Terminal      string `json:"terminal"`
	InvoiceNumber string `json:"invoice_number"`
	DI            string `json:"di"`
	Map           string `json:"map"`

	FreeTime       string `json:"free_time"`
	FreeTimeExpiry Date   `json:"free_time_expiry"`
	EmptyReturn    Date   `json:"empty_return"`
	ReturnDate     Date   `json:"return_date"`

	PortEntryDate       Date        `json:"port_entry_date"`
	CurrentPeriodStart  Date        `json:"current_period_start"`
	CurrentPeriodExpiry Date        `json:"current_period_expiry"`
	StorageDays         StorageDays `json:"storage_days"`

	OriginalDocs string `json:"original_docs"`
	Observations string `json:"observations"`
	LastUpdate   Date   `json:"last_update"`
	Archived     bool   `json:"archived"`

	ExportFields

	Events []Event `json:"events"`
}

// IsExport reports whether the process is an export case.
func (p *Process) IsExport() bool {
	return p.Type == TypeExport
}

// Normalize applies the load-time invariants once, so consumers never have
// to re-decide defaults: every event gets a non-empty unique ID, an absent
// type canonicalises to import, and legacy cargo-type values migrate to the
// container_type field.
func (p *Process) Normalize() {
	if legacyCargoTypes[string(p.Type)] {
		p.ContainerType = string(p.Type)
		p.Type = ""
	}
	if p.Type != TypeImport && p.Type != TypeExport {
		p.Type = TypeImport
	}
	for i := range p.Events {
		if p.Events[i].ID == "" {
			p.Events[i].ID = uuid.NewString()
		}
	}
}

// AppendEvent appends an audit entry dated today.
func (p *Process) AppendEvent(description, user string) Event {
	ev := Event{
		ID:          uuid.NewString(),
		Date:        Today(),
		Description: description,
		User:        user,
	}
	p.Events = append(p.Events, ev)
	p.LastUpdate = ev.Date
	return ev
}

// EventByID finds an audit entry by its identifier.
func (p *Process) EventByID(id string) (int, bool) {
	for i := range p.Events {
		if p.Events[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// CompanyInfo carries the branding block of the store document.
type CompanyInfo struct {
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
	Contact  string `json:"contact"`
	Phone    string `json:"phone"`
}

// Config holds process-wide settings. StorageDaysPerPeriod governs future
// rollovers only; changing it is never retroactive.
type Config struct {
	StorageDaysPerPeriod int `json:"storage_days_per_period"`
}

// DefaultPeriodDays applies when the stored configuration is unset.
const DefaultPeriodDays = 30

// PeriodDays returns the configured period length or the default.
func (c Config) PeriodDays() int {
	if c.StorageDaysPerPeriod <= 0 {
		return DefaultPeriodDays
	}
	return c.StorageDaysPerPeriod
}

// Document is the persisted shape of the whole process store.
type Document struct {
	CompanyInfo CompanyInfo `json:"company_info"`
	Config      Config      `json:"config"`
	Processes   []*Process  `json:"processes"`
}
