package process

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/shared"
)

// Notifier queues outbound client notifications for background delivery.
type Notifier interface {
	NotifyEmail(ctx context.Context, to, subject, body string) error
	NotifySMS(ctx context.Context, to, message string) error
}

// notifyClient queues an email and/or SMS update about a process. The
// message defaults to a status summary when none is supplied.
func (h *Handler) notifyClient(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	id := chi.URLParam(r, "id")

	p, err := h.service.Get(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if h.notifier == nil {
		if sess != nil {
			sess.AddFlash("error", "Envio de notificações não está configurado")
		}
		http.Redirect(w, r, "/processes/"+id, http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	phone := strings.TrimSpace(r.PostFormValue("phone"))
	if email == "" && phone == "" {
		if sess != nil {
			sess.AddFlash("error", "Informe um email ou telefone para notificar")
		}
		http.Redirect(w, r, "/processes/"+id, http.StatusSeeOther)
		return
	}

	message := strings.TrimSpace(r.PostFormValue("message"))
	if message == "" {
		message = defaultNotifyMessage(p)
	}
	subject := fmt.Sprintf("Atualização sobre seu processo %s", p.ID)

	var failed bool
	if email != "" {
		if err := h.notifier.NotifyEmail(ctx, email, subject, message); err != nil {
			h.logger.Error("queue email notification", slog.String("process", id), slog.Any("error", err))
			failed = true
		}
	}
	if phone != "" {
		if err := h.notifier.NotifySMS(ctx, phone, fmt.Sprintf("Processo %s atualizado. Status: %s", p.ID, p.Status)); err != nil {
			h.logger.Error("queue sms notification", slog.String("process", id), slog.Any("error", err))
			failed = true
		}
	}

	if sess != nil {
		if failed {
			sess.AddFlash("error", "Não foi possível enfileirar a notificação")
		} else {
			sess.AddFlash("success", "Notificação enviada para a fila de envio")
		}
	}
	http.Redirect(w, r, "/processes/"+id, http.StatusSeeOther)
}

func defaultNotifyMessage(p *Process) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Prezado Cliente,\n\n")
	fmt.Fprintf(&b, "Atualizamos as informações do seu processo %s.\n", p.ID)
	fmt.Fprintf(&b, "Status atual: %s.\n", p.Status)
	if !p.CurrentPeriodExpiry.IsZero() {
		fmt.Fprintf(&b, "Vencimento do período de armazenagem: %s.\n", p.CurrentPeriodExpiry)
	}
	fmt.Fprintf(&b, "\nAtenciosamente,\nEquipe de Importação")
	return b.String()
}
