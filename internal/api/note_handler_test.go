package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LDY55/llm-api-chat/internal/store"
)

func TestNoteCRUD(t *testing.T) {
	_, r := setupAPITest(t)
	cookie := login(t, r)

	w := doJSON(t, r, "POST", "/api/notes", `{"content":"Shopping list\nmilk, eggs"}`, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created store.Note
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal note: %v", err)
	}
	if created.ID != 1 || created.Title != "Shopping list" {
		t.Fatalf("unexpected note %+v", created)
	}

	w = doJSON(t, r, "GET", "/api/notes/1", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, "POST", "/api/notes/1", `{"title":"Groceries","content":"milk"}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated store.Note
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal note: %v", err)
	}
	if updated.Title != "Groceries" || updated.Content != "milk" {
		t.Fatalf("unexpected note %+v", updated)
	}

	w = doJSON(t, r, "GET", "/api/notes", "", cookie)
	var list []store.Note
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 note, got %d", len(list))
	}

	w = doJSON(t, r, "DELETE", "/api/notes/1", "", cookie)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = doJSON(t, r, "GET", "/api/notes/1", "", cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Message != "Note not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestNoteSummaryGenerated(t *testing.T) {
	srv, r := setupAPITest(t)
	cookie := login(t, r)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var payload struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Errorf("decode upstream payload: %v", err)
		}
		if len(payload.Messages) == 0 || payload.Messages[0].Role != "system" {
			t.Errorf("expected a leading system instruction, got %+v", payload.Messages)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"A tidy summary."}}],"usage":{"total_tokens":5}}`))
	}))
	defer upstream.Close()

	doJSON(t, r, "POST", "/api/config", `{"name":"Local","endpoint":"`+upstream.URL+`","token":"sk-t","model":"gpt-test"}`, cookie)

	w := doJSON(t, r, "POST", "/api/notes", `{"content":"Plan the trip to the coast next weekend."}`, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		n, ok := srv.store.Note(1)
		if ok && n.Summary != "" {
			if n.Summary != "A tidy summary." {
				t.Fatalf("unexpected summary %q", n.Summary)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("summary was never written")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNoteWithoutConfigSkipsSummary(t *testing.T) {
	srv, r := setupAPITest(t)
	cookie := login(t, r)

	w := doJSON(t, r, "POST", "/api/notes", `{"content":"No provider configured."}`, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}

	time.Sleep(50 * time.Millisecond)
	n, ok := srv.store.Note(1)
	if !ok {
		t.Fatal("note missing")
	}
	if n.Summary != "" {
		t.Fatalf("expected no summary, got %q", n.Summary)
	}
}
