package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/echoself/backend/internal/config"
	"github.com/echoself/backend/internal/directory"
	"github.com/echoself/backend/internal/model/profile"
	"github.com/echoself/backend/internal/service/ai"
	chatservice "github.com/echoself/backend/internal/service/chat"
	"github.com/echoself/backend/internal/store"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()

	profiles := directory.New(store.NewMemory(), rand.New(rand.NewSource(1)))
	err := profiles.Save(context.Background(), profile.Profile{
		ID:        "ada",
		Name:      "Ada",
		Bio:       "I work on compilers.",
		Interests: "chess,coding",
		Questions: map[string]string{profile.QuestionValues: "honesty"},
	})
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}

	orchestrator := ai.NewOrchestrator(config.AIConfig{Timeout: time.Second}, profiles, ai.NewSeededFallbackGenerator(1))
	handler := New(chatservice.NewService(orchestrator, profiles))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateSessionValidProfile(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/session", map[string]string{"profileId": "ada"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var payload struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
		Messages []struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if payload.Session.ID == "" {
		t.Fatal("expected a session id")
	}
	if len(payload.Messages) != 1 || payload.Messages[0].Sender != "ai" {
		t.Fatalf("expected the ai welcome, got %+v", payload.Messages)
	}
}

func TestCreateSessionUnknownProfile(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/session", map[string]string{"profileId": "non-existent"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCreateSessionMissingProfileID(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/session", map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSendMessageReturnsPair(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/session", map[string]string{"profileId": "ada"})
	var created struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	resp = postJSON(t, r, "/session/"+created.Session.ID+"/messages", map[string]string{"text": "hi"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Messages []struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(payload.Messages) != 2 {
		t.Fatalf("expected user+ai pair, got %+v", payload.Messages)
	}
	if payload.Messages[0].Sender != "user" || payload.Messages[1].Sender != "ai" {
		t.Fatalf("unexpected senders: %+v", payload.Messages)
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/session/missing/messages", map[string]string{"text": "hi"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSendMessageEmptyText(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/session/any/messages", map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestToggleTrollMode(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/session", map[string]string{"profileId": "ada"})
	var created struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	resp = postJSON(t, r, "/session/"+created.Session.ID+"/troll", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		TrollMode bool `json:"trollMode"`
		Message   struct {
			Sender string `json:"sender"`
		} `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !payload.TrollMode || payload.Message.Sender != "system" {
		t.Fatalf("unexpected toggle payload: %+v", payload)
	}
}
