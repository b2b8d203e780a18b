package process

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Handler wires the server-rendered process pages.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	users       *auth.Service
	templates   *view.Engine
	csrfManager *shared.CSRFManager
	notifier    Notifier
	validator   *validator.Validate
}

// NewHandler constructs a Handler. A nil notifier disables the client
// notification action.
func NewHandler(logger *slog.Logger, service *Service, users *auth.Service, templates *view.Engine, csrf *shared.CSRFManager, notifier Notifier) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		service:     service,
		users:       users,
		templates:   templates,
		csrfManager: csrf,
		notifier:    notifier,
		validator:   validator.New(),
	}
}

// MountRoutes registers the pages every authenticated user may reach.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
	r.Get("/processes/{id}", h.showProcess)
}

// MountAdminRoutes registers the mutating routes. Callers must guard them
// with admin-only middleware.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/archived", h.archived)
	r.Get("/processes/new", h.newProcess)
	r.Post("/processes", h.createProcess)
	r.Get("/processes/{id}/edit", h.editProcess)
	r.Post("/processes/{id}", h.updateProcess)
	r.Post("/processes/{id}/delete", h.deleteProcess)
	r.Post("/processes/{id}/archive", h.archiveProcess)
	r.Post("/processes/{id}/unarchive", h.unarchiveProcess)
	r.Post("/processes/{id}/events", h.addEvent)
	r.Post("/processes/{id}/events/{eventID}", h.editEvent)
	r.Post("/processes/{id}/events/{eventID}/delete", h.deleteEvent)
	r.Post("/processes/{id}/notify", h.notifyClient)
	r.Get("/settings", h.settings)
	r.Post("/settings/company", h.updateCompany)
	r.Post("/settings/config", h.updateConfig)
	r.Post("/settings/status", h.addStatus)
	r.Post("/settings/status/delete", h.removeStatus)
}

type listPageData struct {
	Processes  []*Process
	Pagination shared.Pagination
	Query      string
	TypeFilter string
	Statuses   []string
	Status     string
	Archived   bool
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, false, "pages/dashboard.html", "Processos")
}

func (h *Handler) archived(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, true, "pages/archived.html", "Processos Arquivados")
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, archived bool, page, title string) {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)

	var (
		records []*Process
		err     error
	)
	if sess != nil && !sess.IsAdmin() {
		client, cerr := h.users.GetUser(ctx, sess.User())
		if cerr != nil {
			h.logger.Error("resolve client", slog.Any("error", cerr))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		records, err = h.service.ListForClient(ctx, client.Processes, archived)
	} else {
		records, err = h.service.List(ctx, archived)
	}
	if err != nil {
		h.logger.Error("list processes", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	typeFilter := r.URL.Query().Get("type")
	status := r.URL.Query().Get("status")
	records = filterList(records, query, typeFilter, status)

	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pagination := shared.NewPagination(pageNum, 10, len(records))
	start, end := pagination.Bounds()

	catalog, err := h.service.Catalog(ctx)
	if err != nil {
		h.logger.Error("load catalog", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	statuses := append(catalog.StatusesFor(TypeImport), catalog.StatusesFor(TypeExport)...)
	statuses = dedupe(statuses)

	data := listPageData{
		Processes:  records[start:end],
		Pagination: pagination,
		Query:      query,
		TypeFilter: typeFilter,
		Statuses:   statuses,
		Status:     status,
		Archived:   archived,
	}
	h.render(w, r, page, title, data)
}

func filterList(records []*Process, query, typeFilter, status string) []*Process {
	if query == "" && (typeFilter == "" || typeFilter == "todos") && (status == "" || status == "todos") {
		return records
	}
	query = strings.ToLower(query)
	out := make([]*Process, 0, len(records))
	for _, p := range records {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if typeFilter != "" && typeFilter != "todos" && string(p.Type) != typeFilter {
			continue
		}
		if status != "" && status != "todos" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p *Process, query string) bool {
	for _, field := range []string{p.ID, p.Ref, p.PO, p.Invoice, p.Origin, p.Product, p.BLNumber, p.Container, p.Ship, p.Exporter} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

type detailPageData struct {
	Process  *Process
	Statuses []string
	Client   *auth.User
}

func (h *Handler) showProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	id := chi.URLParam(r, "id")

	p, err := h.service.Get(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if sess != nil && !sess.IsAdmin() {
		client, cerr := h.users.GetUser(ctx, sess.User())
		if cerr != nil || !client.CanViewProcess(id) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
	}

	catalog, err := h.service.Catalog(ctx)
	if err != nil {
		h.logger.Error("load catalog", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	data := detailPageData{
		Process:  p,
		Statuses: catalog.StatusesFor(p.Type),
		Client:   h.assignedClient(r, p.ID),
	}
	h.render(w, r, "pages/process_detail.html", "Processo "+p.ID, data)
}

// assignedClient finds the client account a process is assigned to, if any.
// Only meaningful for administrators.
func (h *Handler) assignedClient(r *http.Request, processID string) *auth.User {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || !sess.IsAdmin() {
		return nil
	}
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		return nil
	}
	for _, u := range users {
		if u.Role != auth.RoleClient {
			continue
		}
		for _, id := range u.Processes {
			if id == processID {
				return u
			}
		}
	}
	return nil
}

type formPageData struct {
	Form     Form
	Process  *Process
	Statuses []string
	Errors   map[string]string
	IsNew    bool
}

func (h *Handler) newProcess(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Catalog(r.Context())
	if err != nil {
		h.logger.Error("load catalog", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	data := formPageData{
		Form:     Form{Type: string(TypeImport)},
		Statuses: catalog.StatusesFor(TypeImport),
		IsNew:    true,
	}
	h.render(w, r, "pages/process_form.html", "Novo Processo", data)
}

func (h *Handler) editProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	catalog, err := h.service.Catalog(ctx)
	if err != nil {
		h.logger.Error("load catalog", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	data := formPageData{
		Form:     FormFromProcess(p),
		Process:  p,
		Statuses: catalog.StatusesFor(p.Type),
		IsNew:    false,
	}
	h.render(w, r, "pages/process_form.html", "Editar Processo "+p.ID, data)
}

func (h *Handler) createProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	form := FormFromValues(r.PostForm)
	if err := h.validator.Struct(form); err != nil {
		errs := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errs[fieldErr.Field()] = fieldErr.Error()
		}
		catalog, cerr := h.service.Catalog(r.Context())
		if cerr != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		data := formPageData{Form: form, Statuses: catalog.StatusesFor(Type(form.Type)), Errors: errs, IsNew: true}
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, r, "pages/process_form.html", "Novo Processo", data)
		return
	}

	var p Process
	form.Apply(&p)
	created, err := h.service.Create(r.Context(), &p, h.actor(r))
	if err != nil {
		h.logger.Warn("create process", slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível criar o processo")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if sess != nil {
		sess.AddFlash("success", "Processo "+created.ID+" criado")
	}
	http.Redirect(w, r, "/processes/"+created.ID, http.StatusSeeOther)
}

func (h *Handler) updateProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	id := chi.URLParam(r, "id")

	existing, err := h.service.Get(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	form := FormFromValues(r.PostForm)
	form.ID = id
	form.Apply(existing)
	if err := h.service.Update(ctx, existing, h.actor(r)); err != nil {
		h.logger.Warn("update process", slog.String("process", id), slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível atualizar o processo")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Processo atualizado")
	}
	http.Redirect(w, r, "/processes/"+id, http.StatusSeeOther)
}

func (h *Handler) deleteProcess(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Warn("delete process", slog.String("process", id), slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível excluir o processo")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Processo excluído")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) archiveProcess(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.service.Archive(r.Context(), id, h.actor(r)); err != nil {
		h.logger.Warn("archive process", slog.String("process", id), slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível arquivar o processo")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Processo arquivado")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) unarchiveProcess(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.service.Unarchive(r.Context(), id, h.actor(r)); err != nil {
		h.logger.Warn("unarchive process", slog.String("process", id), slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível reativar o processo")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Processo reativado")
	}
	http.Redirect(w, r, "/archived", http.StatusSeeOther)
}

func (h *Handler) addEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	description := strings.TrimSpace(r.PostFormValue("description"))
	if description == "" {
		if sess != nil {
			sess.AddFlash("error", "Descrição do evento é obrigatória")
		}
		http.Redirect(w, r, "/processes/"+id, http.StatusSeeOther)
		return
	}
	if _, err := h.service.AddEvent(r.Context(), id, description, h.actor(r)); err != nil {
		h.logger.Warn("add event", slog.String("process", id), slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível registrar o evento")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Evento registrado")
	}
	http.Redirect(w, r, "/processes/"+id, http.StatusSeeOther)
}

func (h *Handler) editEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	eventID := chi.URLParam(r, "eventID")
	description := strings.TrimSpace(r.PostFormValue("description"))
	if err := h.service.EditEvent(r.Context(), id, eventID, description); err != nil {
		h.logger.Warn("edit event", slog.String("process", id), slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível editar o evento")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Evento atualizado")
	}
	http.Redirect(w, r, "/processes/"+id, http.StatusSeeOther)
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	eventID := chi.URLParam(r, "eventID")
	if err := h.service.DeleteEvent(r.Context(), id, eventID); err != nil {
		h.logger.Warn("delete event", slog.String("process", id), slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível excluir o evento")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Evento excluído")
	}
	http.Redirect(w, r, "/processes/"+id, http.StatusSeeOther)
}

type settingsPageData struct {
	Company CompanyInfo
	Config  Config
	Catalog *StatusCatalog
}

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := h.service.Document(ctx)
	if err != nil {
		h.logger.Error("load document", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	catalog, err := h.service.Catalog(ctx)
	if err != nil {
		h.logger.Error("load catalog", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	data := settingsPageData{Company: doc.CompanyInfo, Config: doc.Config, Catalog: catalog}
	h.render(w, r, "pages/settings.html", "Configurações", data)
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	info := CompanyInfo{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		LogoPath: strings.TrimSpace(r.PostFormValue("logo_path")),
		Contact:  strings.TrimSpace(r.PostFormValue("contact")),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
	}
	if err := h.service.UpdateCompanyInfo(r.Context(), info); err != nil {
		h.logger.Warn("update company info", slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível salvar os dados da empresa")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Dados da empresa atualizados")
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (h *Handler) updateConfig(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	days, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("storage_days_per_period")))
	if err != nil || days <= 0 {
		if sess != nil {
			sess.AddFlash("error", "Dias por período deve ser um número positivo")
		}
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}
	if err := h.service.UpdateConfig(r.Context(), Config{StorageDaysPerPeriod: days}); err != nil {
		h.logger.Warn("update config", slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível salvar a configuração")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Configuração de armazenagem atualizada")
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (h *Handler) addStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	name := r.PostFormValue("name")
	var types []Type
	for _, raw := range r.PostForm["process_types"] {
		if t := Type(raw); t == TypeImport || t == TypeExport {
			types = append(types, t)
		}
	}
	if err := h.service.AddStatus(r.Context(), name, types); err != nil {
		h.logger.Warn("add status", slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível adicionar o status")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Status adicionado")
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (h *Handler) removeStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	name := r.PostFormValue("name")
	if err := h.service.RemoveStatus(r.Context(), name); err != nil {
		h.logger.Warn("remove status", slog.Any("error", err))
		if sess != nil {
			sess.AddFlash("error", "Não foi possível remover o status")
		}
	} else if sess != nil {
		sess.AddFlash("success", "Status removido")
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// actor resolves the display name used in audit entries.
func (h *Handler) actor(r *http.Request) string {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return "Admin"
	}
	if user, err := h.users.GetUser(r.Context(), sess.User()); err == nil {
		return user.Name
	}
	return sess.User()
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(sess)
	var flash *shared.FlashMessage
	var userID string
	var isAdmin bool
	if sess != nil {
		flash = sess.PopFlash()
		userID = sess.User()
		isAdmin = sess.IsAdmin()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		UserID:      userID,
		IsAdmin:     isAdmin,
		Data:        data,
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render page", slog.String("page", page), slog.Any("error", err))
	}
}
