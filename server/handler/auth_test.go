package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gastoncarriquiry/menu-maker/auth"
	"github.com/gastoncarriquiry/menu-maker/auth/password"
	"github.com/gastoncarriquiry/menu-maker/logger"
	"github.com/gastoncarriquiry/menu-maker/server"
	"github.com/gastoncarriquiry/menu-maker/server/handler"
	"github.com/gastoncarriquiry/menu-maker/server/middleware"
	"github.com/gastoncarriquiry/menu-maker/store"
)

type testEnv struct {
	engine *gin.Engine
	store  *store.MemoryStore
	codec  *auth.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	codec, err := auth.NewCodec(&auth.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	log := logger.NewDefault("test")
	svc := auth.NewService(st, password.NewBcryptHasher(password.WithCost(4)), codec, log)

	engine := gin.New()
	server.MountAuth(engine, handler.NewAuthHandler(svc, log), middleware.RequireAuth(codec))
	server.MountHealth(engine, handler.NewHealthHandler(st), handler.Welcome)

	return &testEnv{engine: engine, store: st, codec: codec}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) register(t *testing.T) map[string]any {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "a@x.com", "username": "a", "password": "password123",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	return decode(t, rr)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rr.Body.String())
	}
	return body
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, rr)
	msg, _ := body["error"].(string)
	if msg == "" {
		t.Fatalf("expected an error message, got: %s", rr.Body.String())
	}
	return msg
}

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)
	body := env.register(t)

	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("missing user object: %v", body)
	}
	if user["email"] != "a@x.com" {
		t.Errorf("expected email a@x.com, got %v", user["email"])
	}
	if _, leaked := user["password"]; leaked {
		t.Error("user object must not contain a password field")
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Error("user object must not contain a password hash field")
	}

	tokens, ok := body["tokens"].(map[string]any)
	if !ok {
		t.Fatalf("missing tokens object: %v", body)
	}
	access, _ := tokens["accessToken"].(string)
	refresh, _ := tokens["refreshToken"].(string)
	if access == "" || refresh == "" {
		t.Fatal("both tokens must be non-empty")
	}
	if access == refresh {
		t.Error("access and refresh tokens must be distinct")
	}
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		payload gin.H
		wantMsg string
	}{
		{"missing email", gin.H{"username": "a", "password": "password123"}, "required"},
		{"missing password", gin.H{"email": "a@x.com", "username": "a"}, "required"},
		{"short password", gin.H{"email": "a@x.com", "username": "a", "password": "short"}, "at least 8 characters"},
		{"bad email", gin.H{"email": "nope", "username": "a", "password": "password123"}, "valid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/auth/register", "", tt.payload)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
			if msg := errorMessage(t, rr); !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("expected message containing %q, got %q", tt.wantMsg, msg)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	rr := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "a@x.com", "username": "b", "password": "password123",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if msg := errorMessage(t, rr); !strings.Contains(msg, "already exists") {
		t.Errorf("expected duplicate message, got %q", msg)
	}
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	for _, identifier := range []string{"a@x.com", "a"} {
		rr := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"emailOrUsername": identifier, "password": "password123",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("login as %q: expected 200, got %d: %s", identifier, rr.Code, rr.Body.String())
		}
		body := decode(t, rr)
		if body["message"] != "Login successful" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	wrongPassword := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"emailOrUsername": "a@x.com", "password": "wrong-password",
	})
	unknownUser := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"emailOrUsername": "ghost@x.com", "password": "password123",
	})

	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownUser.Code)
	}

	msg1 := errorMessage(t, wrongPassword)
	msg2 := errorMessage(t, unknownUser)
	if msg1 != msg2 {
		t.Errorf("failure messages must be identical: %q vs %q", msg1, msg2)
	}
	if !strings.Contains(msg1, "Invalid") {
		t.Errorf("expected message mentioning Invalid, got %q", msg1)
	}
}

func TestRefresh_Flow(t *testing.T) {
	env := newTestEnv(t)
	body := env.register(t)
	tokens := body["tokens"].(map[string]any)

	rr := env.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{
		"refreshToken": tokens["refreshToken"],
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	refreshed := decode(t, rr)["tokens"].(map[string]any)
	if refreshed["accessToken"] == "" || refreshed["refreshToken"] == "" {
		t.Error("refresh must return a complete new pair")
	}
}

func TestRefresh_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if msg := errorMessage(t, rr); !strings.Contains(msg, "required") {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	other, _ := auth.NewCodec(&auth.TokenConfig{
		AccessSecret:  "other-access",
		RefreshSecret: "other-refresh",
	})
	forged, _ := other.IssueRefresh("user-123")

	rr := env.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": forged})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if msg := errorMessage(t, rr); !strings.Contains(msg, "Invalid") {
		t.Errorf("expected message mentioning Invalid, got %q", msg)
	}
}

func TestProfile_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/auth/profile", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if msg := errorMessage(t, rr); !strings.Contains(strings.ToLower(msg), "token") {
		t.Errorf("expected message mentioning token, got %q", msg)
	}
}

func TestProfile_ForeignSecretToken(t *testing.T) {
	env := newTestEnv(t)

	other, _ := auth.NewCodec(&auth.TokenConfig{
		AccessSecret:  "other-access",
		RefreshSecret: "other-refresh",
	})
	forged, _ := other.IssueAccess(auth.AuthUser{ID: "user-123", Email: "a@x.com"})

	rr := env.do(t, http.MethodGet, "/api/auth/profile", forged, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if msg := errorMessage(t, rr); !strings.Contains(msg, "Invalid") {
		t.Errorf("expected message mentioning Invalid, got %q", msg)
	}
}

func TestProfile_Success(t *testing.T) {
	env := newTestEnv(t)
	body := env.register(t)
	tokens := body["tokens"].(map[string]any)

	rr := env.do(t, http.MethodGet, "/api/auth/profile", tokens["accessToken"].(string), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	user := decode(t, rr)["user"].(map[string]any)
	if user["email"] != "a@x.com" {
		t.Errorf("unexpected email: %v", user["email"])
	}
}

func TestProfile_DeletedSubject(t *testing.T) {
	env := newTestEnv(t)
	body := env.register(t)
	tokens := body["tokens"].(map[string]any)
	user := body["user"].(map[string]any)

	env.store.Delete(user["id"].(string))

	rr := env.do(t, http.MethodGet, "/api/auth/profile", tokens["accessToken"].(string), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	body := env.register(t)
	tokens := body["tokens"].(map[string]any)

	rr := env.do(t, http.MethodPost, "/api/auth/logout", tokens["accessToken"].(string), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if msg, _ := decode(t, rr)["message"].(string); !strings.Contains(msg, "Logout successful") {
		t.Errorf("unexpected message: %q", msg)
	}

	// Logout is advisory: the token still verifies afterwards.
	rr = env.do(t, http.MethodGet, "/api/auth/profile", tokens["accessToken"].(string), nil)
	if rr.Code != http.StatusOK {
		t.Errorf("stateless logout must not invalidate the token, got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decode(t, rr)
	if body["status"] != "OK" || body["database"] != "connected" {
		t.Errorf("unexpected health body: %v", body)
	}
}
