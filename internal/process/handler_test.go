package process_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
	_ "github.com/freightdesk/freightdesk/testing"
)

type testEnv struct {
	router    *chi.Mux
	processes *process.Service
	users     *auth.Service
	sessions  *shared.SessionManager
	notifier  *fakeNotifier
}

// fakeNotifier records queued notifications instead of enqueueing them.
type fakeNotifier struct {
	emails []string
	sms    []string
}

func (f *fakeNotifier) NotifyEmail(_ context.Context, to, subject, _ string) error {
	f.emails = append(f.emails, to+" "+subject)
	return nil
}

func (f *fakeNotifier) NotifySMS(_ context.Context, to, _ string) error {
	f.sms = append(f.sms, to)
	return nil
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrf := shared.NewCSRFManager("csrfsecret")

	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	userRepo, err := auth.NewRepository(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatalf("user repo: %v", err)
	}
	users := auth.NewService(userRepo, nil)

	repo := process.NewRepository(filepath.Join(dir, "data.json"), filepath.Join(dir, "status.json"))
	svc := process.NewService(repo, nil, nil)

	notifier := &fakeNotifier{}
	handler := process.NewHandler(nil, svc, users, templates, csrf, notifier)
	router := chi.NewRouter()
	handler.MountRoutes(router)
	handler.MountAdminRoutes(router)
	handler.MountAPIRoutes(router)
	handler.MountAdminAPIRoutes(router)

	return &testEnv{router: router, processes: svc, users: users, sessions: sessions, notifier: notifier}
}

// do issues a request with a session of the given role attached.
func (e *testEnv) do(t *testing.T, method, target, userID, role string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	sess, err := e.sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetUser(userID, role)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	e.router.ServeHTTP(res, req)
	return res
}

func TestDashboardListsProcesses(t *testing.T) {
	env := newEnv(t)
	if _, err := env.processes.Create(context.Background(), &process.Process{Ref: "DKA-1", Status: "Em andamento"}, "Admin"); err != nil {
		t.Fatalf("create: %v", err)
	}

	res := env.do(t, http.MethodGet, "/", "admin", "admin", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "DKA-1") {
		t.Fatalf("expected process reference in dashboard")
	}
}

func TestCreateProcessRedirectsToDetail(t *testing.T) {
	env := newEnv(t)

	form := url.Values{}
	form.Set("ref", "DKA-2/Teste")
	form.Set("type", "importacao")
	form.Set("status", "Novo Processo")

	res := env.do(t, http.MethodPost, "/processes", "admin", "admin", form)
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	location := res.Header().Get("Location")
	if !strings.HasPrefix(location, "/processes/") {
		t.Fatalf("expected redirect to detail, got %q", location)
	}

	id := strings.TrimPrefix(location, "/processes/")
	created, err := env.processes.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get created: %v", err)
	}
	if created.Ref != "DKA-2/Teste" {
		t.Fatalf("ref not persisted: %q", created.Ref)
	}
}

func TestCreateProcessRejectsMissingRef(t *testing.T) {
	env := newEnv(t)

	form := url.Values{}
	form.Set("type", "importacao")

	res := env.do(t, http.MethodPost, "/processes", "admin", "admin", form)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestClientCannotSeeUnassignedProcess(t *testing.T) {
	env := newEnv(t)
	created, err := env.processes.Create(context.Background(), &process.Process{Ref: "DKA-3"}, "Admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	client, err := env.users.CreateUser(context.Background(), auth.CreateUserInput{
		Name:     "Cliente",
		Email:    "cliente@test.local",
		Password: "secret123",
		Role:     auth.RoleClient,
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	res := env.do(t, http.MethodGet, "/processes/"+created.ID, client.ID, auth.RoleClient, nil)
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
}

func TestClientSeesAssignedProcess(t *testing.T) {
	env := newEnv(t)
	created, err := env.processes.Create(context.Background(), &process.Process{Ref: "DKA-4"}, "Admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	client, err := env.users.CreateUser(context.Background(), auth.CreateUserInput{
		Name:      "Cliente",
		Email:     "cliente@test.local",
		Password:  "secret123",
		Role:      auth.RoleClient,
		Processes: []string{created.ID},
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	res := env.do(t, http.MethodGet, "/processes/"+created.ID, client.ID, auth.RoleClient, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), created.ID) {
		t.Fatalf("expected process id in detail page")
	}
}

func TestAddStatusFromSettings(t *testing.T) {
	env := newEnv(t)

	form := url.Values{}
	form.Set("name", "Aguardando câmbio")
	form.Add("process_types", "importacao")

	res := env.do(t, http.MethodPost, "/settings/status", "admin", "admin", form)
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}

	catalog, err := env.processes.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	found := false
	for _, name := range catalog.StatusesFor(process.TypeImport) {
		if name == "Aguardando câmbio" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected new status in catalog")
	}
}

func TestArchiveFlow(t *testing.T) {
	env := newEnv(t)
	created, err := env.processes.Create(context.Background(), &process.Process{Ref: "DKA-5"}, "Admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res := env.do(t, http.MethodPost, "/processes/"+created.ID+"/archive", "admin", "admin", url.Values{})
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}

	archived, err := env.processes.List(context.Background(), true)
	if err != nil {
		t.Fatalf("list archived: %v", err)
	}
	if len(archived) != 1 || archived[0].ID != created.ID {
		t.Fatalf("expected archived listing to contain process")
	}

	active, err := env.processes.List(context.Background(), false)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active processes, got %d", len(active))
	}
}

func TestNotifyClientQueuesMessages(t *testing.T) {
	env := newEnv(t)
	created, err := env.processes.Create(context.Background(), &process.Process{Ref: "DKA-6", Status: "Em andamento"}, "Admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	form := url.Values{}
	form.Set("email", "cliente@empresa.com.br")
	form.Set("phone", "+5511912345678")

	res := env.do(t, http.MethodPost, "/processes/"+created.ID+"/notify", "admin", "admin", form)
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if len(env.notifier.emails) != 1 {
		t.Fatalf("expected one queued email, got %d", len(env.notifier.emails))
	}
	if !strings.Contains(env.notifier.emails[0], created.ID) {
		t.Fatalf("expected subject to carry the process id, got %q", env.notifier.emails[0])
	}
	if len(env.notifier.sms) != 1 || env.notifier.sms[0] != "+5511912345678" {
		t.Fatalf("expected one queued sms, got %v", env.notifier.sms)
	}
}

func TestNotifyClientRequiresRecipient(t *testing.T) {
	env := newEnv(t)
	created, err := env.processes.Create(context.Background(), &process.Process{Ref: "DKA-7"}, "Admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res := env.do(t, http.MethodPost, "/processes/"+created.ID+"/notify", "admin", "admin", url.Values{})
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if len(env.notifier.emails) != 0 || len(env.notifier.sms) != 0 {
		t.Fatalf("expected nothing queued without a recipient")
	}
}
