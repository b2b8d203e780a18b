package process

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// MountAPIRoutes registers the JSON endpoints every authenticated session
// may reach. The dashboard table uses them for in-place refresh.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/api/processes", h.apiList)
	r.Get("/api/processes/{id}", h.apiGet)
}

// MountAdminAPIRoutes registers the mutating JSON endpoints. Callers must
// guard them with admin-only middleware.
func (h *Handler) MountAdminAPIRoutes(r chi.Router) {
	r.Post("/api/processes", h.apiCreate)
	r.Put("/api/processes/{id}", h.apiUpdate)
	r.Delete("/api/processes/{id}", h.apiDelete)
}

type listResponse struct {
	Processes []*Process `json:"processes"`
	Total     int        `json:"total"`
}

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	archived := r.URL.Query().Get("archived") == "1"

	var (
		records []*Process
		err     error
	)
	if sess != nil && !sess.IsAdmin() {
		client, cerr := h.users.GetUser(ctx, sess.User())
		if cerr != nil {
			httpx.RespondError(w, cerr)
			return
		}
		records, err = h.service.ListForClient(ctx, client.Processes, archived)
	} else {
		records, err = h.service.List(ctx, archived)
	}
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	records = filterList(records, query, r.URL.Query().Get("type"), r.URL.Query().Get("status"))
	httpx.JSON(w, http.StatusOK, listResponse{Processes: records, Total: len(records)})
}

func (h *Handler) apiGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	id := chi.URLParam(r, "id")

	p, err := h.service.Get(ctx, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if sess != nil && !sess.IsAdmin() {
		client, cerr := h.users.GetUser(ctx, sess.User())
		if cerr != nil || !client.CanViewProcess(id) {
			httpx.RespondError(w, shared.ErrForbidden)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) apiCreate(w http.ResponseWriter, r *http.Request) {
	var form Form
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if detail, ok := h.validateForm(form); !ok {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", detail)
		return
	}

	var p Process
	form.Apply(&p)
	created, err := h.service.Create(r.Context(), &p, h.actor(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) apiUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	existing, err := h.service.Get(ctx, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var form Form
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	form.ID = id
	if detail, ok := h.validateForm(form); !ok {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", detail)
		return
	}

	form.Apply(existing)
	if err := h.service.Update(ctx, existing, h.actor(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, existing)
}

func (h *Handler) apiDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) validateForm(form Form) (string, bool) {
	err := h.validator.Struct(form)
	if err == nil {
		return "", true
	}
	var fields []string
	for _, fieldErr := range err.(validator.ValidationErrors) {
		fields = append(fields, fieldErr.Field())
	}
	return "invalid fields: " + strings.Join(fields, ", "), false
}
