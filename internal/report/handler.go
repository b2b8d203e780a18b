package report

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/platform/httpx"
	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// Handler manages report endpoints.
type Handler struct {
	logger    *slog.Logger
	processes *process.Service
	users     *auth.Service
	generator *Generator
	pdf       *PDFClient
}

// NewHandler creates a report handler.
func NewHandler(logger *slog.Logger, processes *process.Service, users *auth.Service, generator *Generator, pdf *PDFClient) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, processes: processes, users: users, generator: generator, pdf: pdf}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/ping", h.ping)
	r.Post("/reports/processes", h.exportHTML)
	r.Post("/reports/processes/pdf", h.exportPDF)
	r.Get("/reports/processes/{id}/document", h.processDocument)
	r.Post("/api/reports", h.exportJSON)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if err := h.pdf.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) exportHTML(w http.ResponseWriter, r *http.Request) {
	artifact, err := h.buildArtifact(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	_, _ = w.Write(artifact.HTML)
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	artifact, err := h.buildArtifact(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), artifact.HTML)
	if err != nil {
		h.logger.Error("render report pdf", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=relatorio.pdf")
	_, _ = w.Write(pdf)
}

func (h *Handler) exportJSON(w http.ResponseWriter, r *http.Request) {
	artifact, err := h.buildArtifact(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{
		"filename": artifact.Filename,
		"path":     artifact.Path,
		"data_uri": artifact.DataURI(),
	})
}

func (h *Handler) processDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	id := chi.URLParam(r, "id")

	p, err := h.processes.Get(ctx, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if sess == nil || sess.User() == "" {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	if !sess.IsAdmin() {
		client, cerr := h.users.GetUser(ctx, sess.User())
		if cerr != nil || !client.CanViewProcess(id) {
			httpx.RespondError(w, shared.ErrForbidden)
			return
		}
	}

	doc, err := h.processes.Document(ctx)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	html, filename, err := GenerateProcess(p, doc.CompanyInfo)
	if err != nil {
		h.logger.Error("render process document", slog.String("process", id), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(html)
}

// buildArtifact assembles the row set visible to the current session and
// renders it.
func (h *Handler) buildArtifact(r *http.Request) (*Artifact, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	if sess == nil || sess.User() == "" {
		return nil, shared.ErrForbidden
	}
	archived := r.FormValue("archived") == "1"

	doc, err := h.processes.Document(ctx)
	if err != nil {
		return nil, err
	}

	opts := Options{Archived: archived}
	var records []*process.Process
	if sess.IsAdmin() {
		if clientID := r.FormValue("client_id"); clientID != "" {
			client, err := h.users.GetUser(ctx, clientID)
			if err != nil {
				return nil, err
			}
			records, err = h.processes.ListForClient(ctx, client.Processes, archived)
			if err != nil {
				return nil, err
			}
			opts.ClientID = client.ID
			opts.ClientName = client.Name
			opts.ClientView = true
		} else {
			records, err = h.processes.List(ctx, archived)
			if err != nil {
				return nil, err
			}
		}
	} else {
		client, err := h.users.GetUser(ctx, sess.User())
		if err != nil {
			return nil, err
		}
		records, err = h.processes.ListForClient(ctx, client.Processes, archived)
		if err != nil {
			return nil, err
		}
		opts.ClientID = client.ID
		opts.ClientName = client.Name
		opts.ClientView = true
	}

	rows := NewRows(records, opts.ClientView)
	return h.generator.Generate(rows, doc.CompanyInfo, opts)
}
