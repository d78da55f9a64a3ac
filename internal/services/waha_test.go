package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"picxury_api/internal/config"
)

func TestNormalizeChatID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mobile number without country code",
			input:    "3001234567",
			expected: "573001234567@c.us",
		},
		{
			name:     "mobile number with country code",
			input:    "573001234567",
			expected: "573001234567@c.us",
		},
		{
			name:     "formatted number with plus and spaces",
			input:    "+57 300 123 4567",
			expected: "573001234567@c.us",
		},
		{
			name:     "group id",
			input:    "120363407813232111@g.us",
			expected: "120363407813232111@g.us",
		},
		{
			name:     "mobile number without country code, with suffix",
			input:    "3001234567@c.us",
			expected: "573001234567@c.us",
		},
		{
			name:     "mobile number with country code, with suffix",
			input:    "573001234567@c.us",
			expected: "573001234567@c.us",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeChatID(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeChatID(%q) = %q; want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWahaSendMessage(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	var lastBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Errorf("X-Api-Key = %q; want secret", r.Header.Get("X-Api-Key"))
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		mu.Lock()
		paths = append(paths, r.URL.Path)
		lastBody = body
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := NewWahaService(config.WahaConfig{BaseURL: srv.URL + "/", APIKey: "secret", Session: "picxury"})
	if err := svc.SendMessage("3001234567", "Hola"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	want := []string{"/api/sendSeen", "/api/startTyping", "/api/stopTyping", "/api/sendText"}
	if len(paths) != len(want) {
		t.Fatalf("calls = %v; want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("call %d = %s; want %s", i, paths[i], want[i])
		}
	}
	if lastBody["chatId"] != "573001234567@c.us" || lastBody["text"] != "Hola" || lastBody["session"] != "picxury" {
		t.Errorf("sendText body = %v", lastBody)
	}
}

func TestWahaSendMessageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session not started", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	svc := NewWahaService(config.WahaConfig{BaseURL: srv.URL, Session: "default"})
	if err := svc.SendMessage("3001234567", "Hola"); err == nil {
		t.Fatal("SendMessage() error = nil; want failure")
	}
}
