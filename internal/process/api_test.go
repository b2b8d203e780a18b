package process_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// doJSON issues a JSON request with a session of the given role attached.
func (e *testEnv) doJSON(t *testing.T, method, target, userID, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
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

func TestAPIListFiltersByQuery(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	if _, err := env.processes.Create(ctx, &process.Process{Ref: "DKA-1/Sydex", Status: "Em andamento"}, "Admin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.processes.Create(ctx, &process.Process{Ref: "EXP-7/Atlantic", Status: "Pendente"}, "Admin"); err != nil {
		t.Fatalf("create: %v", err)
	}

	res := env.doJSON(t, http.MethodGet, "/api/processes?q=sydex", "admin", "admin", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var out struct {
		Processes []*process.Process `json:"processes"`
		Total     int                `json:"total"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Total != 1 || len(out.Processes) != 1 {
		t.Fatalf("expected one match, got %d", out.Total)
	}
	if out.Processes[0].Ref != "DKA-1/Sydex" {
		t.Fatalf("unexpected match %q", out.Processes[0].Ref)
	}
}

func TestAPICreateReturnsCreatedProcess(t *testing.T) {
	env := newEnv(t)

	res := env.doJSON(t, http.MethodPost, "/api/processes", "admin", "admin",
		`{"ref":"DKA-9/Teste","type":"importacao","status":"Novo Processo"}`)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}
	var created process.Process
	if err := json.Unmarshal(res.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := env.processes.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get created: %v", err)
	}
	if got.Ref != "DKA-9/Teste" {
		t.Fatalf("unexpected ref %q", got.Ref)
	}
}

func TestAPICreateRejectsMissingRef(t *testing.T) {
	env := newEnv(t)

	res := env.doJSON(t, http.MethodPost, "/api/processes", "admin", "admin", `{"type":"importacao"}`)
	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
}

func TestAPIUpdateOverwritesFields(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	created, err := env.processes.Create(ctx, &process.Process{Ref: "DKA-3", Status: "Em andamento"}, "Admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res := env.doJSON(t, http.MethodPut, "/api/processes/"+created.ID, "admin", "admin",
		`{"ref":"DKA-3","status":"Concluído","product":"Café"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	got, err := env.processes.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != "Concluído" || got.Product != "Café" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestAPIDeleteRemovesProcess(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	created, err := env.processes.Create(ctx, &process.Process{Ref: "DKA-4"}, "Admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res := env.doJSON(t, http.MethodDelete, "/api/processes/"+created.ID, "admin", "admin", "")
	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
	if _, err := env.processes.Get(ctx, created.ID); err == nil {
		t.Fatalf("expected process to be gone")
	}
}

func TestAPIGetEnforcesClientScope(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	created, err := env.processes.Create(ctx, &process.Process{Ref: "DKA-5"}, "Admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	client, err := env.users.CreateUser(ctx, auth.CreateUserInput{
		Name:     "Cliente",
		Email:    "cliente-api@test.local",
		Password: "secret123",
		Role:     auth.RoleClient,
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	res := env.doJSON(t, http.MethodGet, "/api/processes/"+created.ID, client.ID, auth.RoleClient, "")
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
}
