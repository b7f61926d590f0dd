package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("sk-test", ""); err == nil {
		t.Fatal("expected error for missing model")
	}
	if _, err := NewClient("sk-test", "gpt-4o-mini"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompleteJSONRequestsJSONObject(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"ok":true}`}},
			},
		})
	}))
	defer srv.Close()

	oldURL := apiURL
	apiURL = srv.URL
	defer func() { apiURL = oldURL }()

	client, err := NewClient("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	raw, err := client.CompleteJSON(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("complete json: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Fatalf("raw = %s", raw)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Fatalf("response_format not requested: %+v", gotReq.ResponseFormat)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
}

func TestCompleteSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded", "type": "insufficient_quota"},
		})
	}))
	defer srv.Close()

	oldURL := apiURL
	apiURL = srv.URL
	defer func() { apiURL = oldURL }()

	client, err := NewClient("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Complete(context.Background(), "sys", "user")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v", err)
	}
}
