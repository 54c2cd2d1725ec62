package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/echoself/backend/internal/directory"
	"github.com/echoself/backend/internal/store"
)

func setupRouter(t *testing.T) (*chi.Mux, *directory.Directory) {
	t.Helper()

	profiles := directory.New(store.NewMemory(), rand.New(rand.NewSource(1)))
	handler := New(profiles)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, profiles
}

func putCredential(t *testing.T, r http.Handler, apiKey string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"apiKey": apiKey})
	req := httptest.NewRequest(http.MethodPut, "/settings/credential", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSetAndClearCredential(t *testing.T) {
	r, profiles := setupRouter(t)
	ctx := context.Background()

	if resp := putCredential(t, r, "sk-test"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	key, err := profiles.Credential(ctx)
	if err != nil || key != "sk-test" {
		t.Fatalf("credential not stored: %q, %v", key, err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/settings/credential", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	key, err = profiles.Credential(ctx)
	if err != nil || key != "" {
		t.Fatalf("credential not cleared: %q, %v", key, err)
	}
}

func TestSetEmptyCredentialClears(t *testing.T) {
	r, profiles := setupRouter(t)
	ctx := context.Background()

	if resp := putCredential(t, r, "sk-test"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp := putCredential(t, r, ""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	key, err := profiles.Credential(ctx)
	if err != nil || key != "" {
		t.Fatalf("empty save must clear the credential, got %q, %v", key, err)
	}
}
