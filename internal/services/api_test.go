package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIService(t *testing.T) {
	ctx := context.Background()

	t.Run("Get returns JSON response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/courses" {
				t.Errorf("expected path /courses, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":1}]`))
		}))
		defer server.Close()

		svc := NewAPIService(server.URL, nil)
		resp, err := svc.Get(ctx, "/courses")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
		if !resp.IsJSON {
			t.Error("expected JSON response to be detected")
		}
	})

	t.Run("Get preserves non-JSON body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("plain text"))
		}))
		defer server.Close()

		svc := NewAPIService(server.URL, nil)
		resp, err := svc.Get(ctx, "/anything")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.IsJSON {
			t.Error("expected non-JSON body")
		}
		if string(resp.Body) != "plain text" {
			t.Errorf("expected body 'plain text', got %q", resp.Body)
		}
	})

	t.Run("Post sends JSON payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST method, got %s", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %s", ct)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":9}`))
		}))
		defer server.Close()

		svc := NewAPIService(server.URL, nil)
		resp, err := svc.Post(ctx, "/attendance", []byte(`{"studentId":3}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected status 201, got %d", resp.StatusCode)
		}
	})

	t.Run("Put sends JSON payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT method, got %s", r.Method)
			}
			w.Write([]byte(`{"id":9,"status":"Absent"}`))
		}))
		defer server.Close()

		svc := NewAPIService(server.URL, nil)
		resp, err := svc.Put(ctx, "/attendance/9", []byte(`{"status":"Absent"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !resp.IsJSON {
			t.Error("expected JSON response")
		}
	})
}
