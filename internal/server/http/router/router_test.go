package router

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/ordertrack/internal/test"
)

func newEngine() *gin.Engine {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(testhelpers.TrackingFacadeStub{}, &config.Config{EventHeartbeat: time.Second}, logger)
}

func serve(engine *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	engine := newEngine()

	register, _ := json.Marshal(map[string]string{"name": "Ann", "email": "ann@example.com", "password": "secret1", "role": "buyer"})
	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   []byte
		status int
	}{
		{"health", http.MethodGet, "/api/health", "", nil, http.StatusOK},
		{"register", http.MethodPost, "/api/auth/register", "", register, http.StatusCreated},
		{"login", http.MethodPost, "/api/auth/login", "", []byte(`{"email":"ann@example.com","password":"secret1"}`), http.StatusOK},
		{"profile", http.MethodGet, "/api/auth/profile", "token-1", nil, http.StatusOK},
		{"create order", http.MethodPost, "/api/orders", "token-1", []byte(`{"items":["A"]}`), http.StatusCreated},
		{"buyer order", http.MethodGet, "/api/orders/buyer", "token-1", nil, http.StatusOK},
		{"seller orders", http.MethodGet, "/api/orders/seller", "token-2", nil, http.StatusOK},
		{"advance", http.MethodPut, "/api/orders/1/next-stage", "token-2", nil, http.StatusOK},
		{"delete", http.MethodDelete, "/api/orders/1", "token-2", nil, http.StatusNoContent},
		{"details", http.MethodGet, "/api/orders/1/details", "token-1", nil, http.StatusOK},
		{"admin orders", http.MethodGet, "/api/admin/orders", "token-3", nil, http.StatusOK},
		{"admin stats", http.MethodGet, "/api/admin/stats", "token-3", nil, http.StatusOK},
		{"associate buyer", http.MethodPut, "/api/admin/orders/1/associate-buyer", "token-3", []byte(`{"buyerId":1}`), http.StatusOK},
		{"associate seller", http.MethodPut, "/api/admin/orders/1/associate-seller", "token-3", []byte(`{"sellerId":2}`), http.StatusOK},
		{"admin details", http.MethodGet, "/api/admin/orders/1/details", "token-3", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(engine, tt.method, tt.path, tt.token, tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestSetupRequiresAuthentication(t *testing.T) {
	engine := newEngine()
	for _, path := range []string{"/api/auth/profile", "/api/orders/buyer", "/api/admin/stats", "/api/events"} {
		resp := serve(engine, http.MethodGet, path, "", nil)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, resp.Code)
		}
	}

	resp := serve(engine, http.MethodGet, "/api/orders/buyer", "token-42", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", resp.Code)
	}
}

func TestSetupCompressesResponses(t *testing.T) {
	engine := newEngine()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer token-3")
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got headers %v", resp.Header())
	}
	reader, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatalf("invalid gzip body: %v", err)
	}
	defer reader.Close()
	var body map[string]any
	if err := json.NewDecoder(reader).Decode(&body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if _, ok := body["orders"]; !ok {
		t.Fatalf("expected orders key, got %v", body)
	}
}

func TestSetupAcceptsCompressedRequests(t *testing.T) {
	engine := newEngine()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte(`{"items":["A","B"]}`))
	_ = gz.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/orders", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Authorization", "Bearer token-1")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

var _ handlers.TrackingFacade = (*testhelpers.TrackingFacadeStub)(nil)
