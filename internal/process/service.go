package process

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// SystemUser attributes automatic audit entries.
const SystemUser = "Sistema"

// Service wraps process lifecycle rules over the document store.
type Service struct {
	repo    Repository
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, metrics: metrics}
}

// Document loads the store, advancing any expired storage periods first.
// Rollover updates are persisted before the document is returned.
func (s *Service) Document(ctx context.Context) (*Document, error) {
	doc, err := s.repo.Document(ctx)
	if err != nil {
		return nil, err
	}
	if s.sweepPeriods(doc) {
		if err := s.repo.SaveDocument(ctx, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// sweepPeriods rolls expired storage periods forward across the whole
// document, refreshes the stored day counters against today, and reports
// whether anything changed.
func (s *Service) sweepPeriods(doc *Document) bool {
	today := Today()
	periodDays := doc.Config.PeriodDays()
	updated := false
	for _, p := range doc.Processes {
		if s.rollPeriod(p, periodDays, today) {
			updated = true
		}
		if !p.PortEntryDate.IsZero() {
			if days := StorageDays(CalculateStorageDays(p.PortEntryDate, today)); days != p.StorageDays {
				p.StorageDays = days
				updated = true
			}
		}
	}
	return updated
}

// rollPeriod advances one process and records the audit entry.
func (s *Service) rollPeriod(p *Process, periodDays int, today Date) bool {
	needsUpdate, window := CheckPeriodExpiry(p, periodDays, today)
	if !needsUpdate {
		return false
	}
	p.CurrentPeriodStart = window.Start
	p.CurrentPeriodExpiry = window.Expiry
	description := fmt.Sprintf("Período atualizado automaticamente: início %s, vencimento %s", window.Start, window.Expiry)
	p.AppendEvent(description, SystemUser)
	if s.metrics != nil {
		s.metrics.ObservePeriodRollover(window.Capped)
	}
	if window.Capped {
		s.logger.Warn("period rollover capped",
			slog.String("process", p.ID),
			slog.String("expiry", window.Expiry.String()))
	} else {
		s.logger.Info("period rolled over",
			slog.String("process", p.ID),
			slog.String("start", window.Start.String()),
			slog.String("expiry", window.Expiry.String()))
	}
	return true
}

// List returns processes, excluding archived ones unless requested.
func (s *Service) List(ctx context.Context, includeArchived bool) ([]*Process, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	return filterProcesses(doc.Processes, includeArchived, nil), nil
}

// ListForClient returns the subset of processes a client account may see.
func (s *Service) ListForClient(ctx context.Context, allowedIDs []string, includeArchived bool) ([]*Process, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = true
	}
	return filterProcesses(doc.Processes, includeArchived, allowed), nil
}

func filterProcesses(all []*Process, includeArchived bool, allowed map[string]bool) []*Process {
	out := make([]*Process, 0, len(all))
	for _, p := range all {
		if p.Archived != includeArchived {
			continue
		}
		if allowed != nil && !allowed[p.ID] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Get returns the process with the given ID.
func (s *Service) Get(ctx context.Context, id string) (*Process, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range doc.Processes {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

// Create registers a new process. A missing ID is generated from the
// current year plus a sequential counter, and the initial storage period is
// derived from the port entry date.
func (s *Service) Create(ctx context.Context, p *Process, user string) (*Process, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = nextProcessID(doc.Processes)
	} else {
		for _, existing := range doc.Processes {
			if existing.ID == p.ID {
				return nil, shared.ErrDuplicate
			}
		}
	}
	p.Normalize()
	p.AppendEvent("Processo criado", user)

	if !p.PortEntryDate.IsZero() && p.CurrentPeriodStart.IsZero() {
		p.CurrentPeriodStart = p.PortEntryDate
		expiry := CalculatePeriodExpiry(p.PortEntryDate, doc.Config.PeriodDays())
		p.CurrentPeriodExpiry = expiry
		description := fmt.Sprintf("Período inicial configurado: início %s, vencimento %s", p.PortEntryDate, expiry)
		p.AppendEvent(description, SystemUser)
	}
	s.refreshDerivedFields(p)

	doc.Processes = append(doc.Processes, p)
	if err := s.repo.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("process created", slog.String("process", p.ID), slog.String("user", user))
	return p, nil
}

// Update replaces the stored process, rolling its period forward first when
// the incoming record carries an expired window.
func (s *Service) Update(ctx context.Context, p *Process, user string) error {
	doc, err := s.Document(ctx)
	if err != nil {
		return err
	}
	for i, existing := range doc.Processes {
		if existing.ID == p.ID {
			p.Normalize()
			s.rollPeriod(p, doc.Config.PeriodDays(), Today())
			s.refreshDerivedFields(p)
			p.LastUpdate = Today()
			doc.Processes[i] = p
			return s.repo.SaveDocument(ctx, doc)
		}
	}
	return shared.ErrNotFound
}

// Delete removes a process permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Document(ctx)
	if err != nil {
		return err
	}
	for i, p := range doc.Processes {
		if p.ID == id {
			doc.Processes = append(doc.Processes[:i], doc.Processes[i+1:]...)
			return s.repo.SaveDocument(ctx, doc)
		}
	}
	return shared.ErrNotFound
}

// Archive hides a process from the active dashboard.
func (s *Service) Archive(ctx context.Context, id, user string) error {
	return s.setArchived(ctx, id, user, true)
}

// Unarchive returns a process to the active dashboard.
func (s *Service) Unarchive(ctx context.Context, id, user string) error {
	return s.setArchived(ctx, id, user, false)
}

func (s *Service) setArchived(ctx context.Context, id, user string, archived bool) error {
	doc, err := s.Document(ctx)
	if err != nil {
		return err
	}
	for _, p := range doc.Processes {
		if p.ID == id {
			p.Archived = archived
			if archived {
				p.AppendEvent("Processo arquivado", user)
			} else {
				p.AppendEvent("Processo reativado", user)
			}
			return s.repo.SaveDocument(ctx, doc)
		}
	}
	return shared.ErrNotFound
}

// AddEvent appends a manual audit entry to a process.
func (s *Service) AddEvent(ctx context.Context, processID, description, user string) (Event, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return Event{}, err
	}
	for _, p := range doc.Processes {
		if p.ID == processID {
			ev := p.AppendEvent(description, user)
			if err := s.repo.SaveDocument(ctx, doc); err != nil {
				return Event{}, err
			}
			return ev, nil
		}
	}
	return Event{}, shared.ErrNotFound
}

// EditEvent rewrites the description of an audit entry.
func (s *Service) EditEvent(ctx context.Context, processID, eventID, description string) error {
	doc, err := s.Document(ctx)
	if err != nil {
		return err
	}
	for _, p := range doc.Processes {
		if p.ID == processID {
			i, ok := p.EventByID(eventID)
			if !ok {
				return shared.ErrNotFound
			}
			p.Events[i].Description = description
			p.LastUpdate = Today()
			return s.repo.SaveDocument(ctx, doc)
		}
	}
	return shared.ErrNotFound
}

// DeleteEvent removes an audit entry.
func (s *Service) DeleteEvent(ctx context.Context, processID, eventID string) error {
	doc, err := s.Document(ctx)
	if err != nil {
		return err
	}
	for _, p := range doc.Processes {
		if p.ID == processID {
			i, ok := p.EventByID(eventID)
			if !ok {
				return shared.ErrNotFound
			}
			p.Events = append(p.Events[:i], p.Events[i+1:]...)
			p.LastUpdate = Today()
			return s.repo.SaveDocument(ctx, doc)
		}
	}
	return shared.ErrNotFound
}

// UpdateCompanyInfo replaces the branding block.
func (s *Service) UpdateCompanyInfo(ctx context.Context, info CompanyInfo) error {
	doc, err := s.Document(ctx)
	if err != nil {
		return err
	}
	doc.CompanyInfo = info
	return s.repo.SaveDocument(ctx, doc)
}

// UpdateConfig replaces the period configuration. The new length applies to
// future rollovers only.
func (s *Service) UpdateConfig(ctx context.Context, cfg Config) error {
	doc, err := s.Document(ctx)
	if err != nil {
		return err
	}
	doc.Config = cfg
	return s.repo.SaveDocument(ctx, doc)
}

// Catalog returns the status catalog.
func (s *Service) Catalog(ctx context.Context) (*StatusCatalog, error) {
	return s.repo.Catalog(ctx)
}

// AddStatus appends a status to the catalog.
func (s *Service) AddStatus(ctx context.Context, name string, types []Type) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("process: empty status name")
	}
	catalog, err := s.repo.Catalog(ctx)
	if err != nil {
		return err
	}
	for _, entry := range catalog.Entries {
		if entry.Name == name {
			return shared.ErrDuplicate
		}
	}
	if len(types) == 0 {
		types = []Type{TypeImport, TypeExport}
	}
	catalog.Entries = append(catalog.Entries, StatusEntry{Name: name, ProcessTypes: types})
	return s.repo.SaveCatalog(ctx, catalog)
}

// RemoveStatus deletes a status from the catalog. Existing records keep the
// retired value.
func (s *Service) RemoveStatus(ctx context.Context, name string) error {
	catalog, err := s.repo.Catalog(ctx)
	if err != nil {
		return err
	}
	for i, entry := range catalog.Entries {
		if entry.Name == name {
			catalog.Entries = append(catalog.Entries[:i], catalog.Entries[i+1:]...)
			return s.repo.SaveCatalog(ctx, catalog)
		}
	}
	return shared.ErrNotFound
}

// refreshDerivedFields recomputes the calculated columns.
func (s *Service) refreshDerivedFields(p *Process) {
	if !p.PortEntryDate.IsZero() {
		p.StorageDays = StorageDays(CalculateStorageDays(p.PortEntryDate, Today()))
	}
	if p.FreeTimeExpiry.IsZero() && !p.ETA.IsZero() && p.FreeTime != "" {
		p.FreeTimeExpiry = CalculateFreeTimeExpiry(p.ETA, p.FreeTime)
	}
}

// nextProcessID generates the next sequential ID for the current year.
func nextProcessID(existing []*Process) string {
	year := strconv.Itoa(time.Now().Year())
	var suffixes []int
	for _, p := range existing {
		if strings.HasPrefix(p.ID, year) {
			if n, err := strconv.Atoi(p.ID[len(year):]); err == nil {
				suffixes = append(suffixes, n)
			}
		}
	}
	if len(suffixes) == 0 {
		return year + "0001"
	}
	sort.Ints(suffixes)
	return fmt.Sprintf("%s%04d", year, suffixes[len(suffixes)-1]+1)
}
