package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/LDY55/llm-api-chat/internal/store"
)

func TestPromptCRUD(t *testing.T) {
	_, r := setupAPITest(t)
	cookie := login(t, r)

	w := doJSON(t, r, "POST", "/api/prompts", `{"name":"Translator","content":"Translate to French."}`, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created store.SystemPrompt
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal prompt: %v", err)
	}
	if created.ID != 1 || created.Name != "Translator" {
		t.Fatalf("unexpected prompt %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("createdAt not set")
	}

	doJSON(t, r, "POST", "/api/prompts", `{"name":"Coder","content":"Write Go."}`, cookie)

	w = doJSON(t, r, "PUT", "/api/prompts/1", `{"name":"Interpreter","content":"Translate to German."}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated store.SystemPrompt
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal prompt: %v", err)
	}
	if updated.Name != "Interpreter" || updated.Content != "Translate to German." {
		t.Fatalf("unexpected prompt %+v", updated)
	}

	w = doJSON(t, r, "GET", "/api/prompts", "", cookie)
	var list []store.SystemPrompt
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Fatalf("unexpected list %+v", list)
	}

	w = doJSON(t, r, "DELETE", "/api/prompts/2", "", cookie)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = doJSON(t, r, "GET", "/api/prompts", "", cookie)
	list = nil
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 prompt after delete, got %d", len(list))
	}
}

func TestPromptValidation(t *testing.T) {
	_, r := setupAPITest(t)
	cookie := login(t, r)

	w := doJSON(t, r, "POST", "/api/prompts", `{"name":"No content"}`, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing content, got %d", w.Code)
	}

	w = doJSON(t, r, "PUT", "/api/prompts/abc", `{"name":"X","content":"Y"}`, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}

	w = doJSON(t, r, "PUT", "/api/prompts/99", `{"name":"X","content":"Y"}`, cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Message != "Prompt not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	w = doJSON(t, r, "DELETE", "/api/prompts/99", "", cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}
}
