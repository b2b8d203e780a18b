package auth_test

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
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
	_ "github.com/freightdesk/freightdesk/testing"
)

type stubRepo struct {
	user    *auth.User
	updated *auth.User
}

func (s *stubRepo) FindByLogin(ctx context.Context, login string) (*auth.User, error) {
	if s.user == nil {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) List(ctx context.Context) ([]*auth.User, error) {
	if s.user == nil {
		return nil, nil
	}
	return []*auth.User{s.user}, nil
}

func (s *stubRepo) Create(ctx context.Context, user *auth.User) error { return nil }

func (s *stubRepo) Update(ctx context.Context, user *auth.User) error {
	s.updated = user
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id string) error { return nil }

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	handler := auth.NewHandler(nil, auth.NewService(repo, nil), templates, sessionManager, csrfManager)
	return handler, sessionManager
}

func TestLoginPage(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.ShowLoginForTest(res, req)
	if err := sessionManager.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "<form") {
		t.Fatalf("expected login form in body")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	handler, sessionManager := newAuthHandler(t, &stubRepo{user: &auth.User{
		ID:           "user-1",
		Email:        "user@test.local",
		PasswordHash: string(hashed),
		Role:         auth.RoleClient,
	}})

	// Prime session and CSRF token via GET.
	getReq := httptest.NewRequest(http.MethodGet, "/login", nil)
	sess, err := sessionManager.Load(context.Background(), getReq)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	getCtx := shared.ContextWithSession(getReq.Context(), sess)
	getReq = getReq.WithContext(getCtx)
	getRes := httptest.NewRecorder()
	handler.ShowLoginForTest(getRes, getReq)
	if err := sessionManager.Commit(getCtx, getRes, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	token := sess.Get(shared.CSRFSessionKey)
	if token == "" {
		t.Fatalf("csrf token not set")
	}

	postData := url.Values{}
	postData.Set("login", "user@test.local")
	postData.Set("password", "wrongpass")
	postData.Set("csrf_token", token)

	postReq := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(postData.Encode()))
	postReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	postReq.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sess.ID})

	loadedSess, err := sessionManager.Load(context.Background(), postReq)
	if err != nil {
		t.Fatalf("load session for post: %v", err)
	}
	postCtx := shared.ContextWithSession(postReq.Context(), loadedSess)
	postReq = postReq.WithContext(postCtx)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, postReq)
	if err := sessionManager.Commit(postCtx, res, loadedSess); err != nil {
		t.Fatalf("commit session post: %v", err)
	}

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Usuário ou senha inválidos") {
		t.Fatalf("expected error message in response")
	}
}

func TestAuthenticateUpgradesLegacyPassword(t *testing.T) {
	repo := &stubRepo{user: &auth.User{
		ID:           "legacy",
		Email:        "legacy@test.local",
		PasswordHash: "plainpass",
		Role:         auth.RoleAdmin,
	}}
	service := auth.NewService(repo, nil)

	user, err := service.Authenticate(context.Background(), "legacy@test.local", "plainpass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if repo.updated == nil {
		t.Fatalf("expected stored hash to be upgraded")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("plainpass")); err != nil {
		t.Fatalf("upgraded hash does not match password: %v", err)
	}

	if _, err := service.Authenticate(context.Background(), "legacy@test.local", "wrong"); err == nil {
		t.Fatalf("expected invalid credentials after upgrade")
	}
}

func TestFileRepositorySeedsDefaultAdmin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	repo, err := auth.NewRepository(path)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	user, err := repo.FindByLogin(context.Background(), "admin")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if user.Role != auth.RoleAdmin {
		t.Fatalf("expected admin role, got %q", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("admin123")); err != nil {
		t.Fatalf("default admin password mismatch: %v", err)
	}
}

func TestFileRepositoryProtectsLastAdmin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	repo, err := auth.NewRepository(path)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	if err := repo.Delete(context.Background(), "admin"); err != shared.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
