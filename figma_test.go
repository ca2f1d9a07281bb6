package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testFigmaClient(t *testing.T, handler http.HandlerFunc) *FigmaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	fc := NewFigmaClient("test-token")
	fc.base = server.URL
	return fc
}

func TestGetFile(t *testing.T) {
	fc := testFigmaClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/abc123" {
			t.Errorf("path = %s, want /files/abc123", r.URL.Path)
		}
		if got := r.Header.Get("X-Figma-Token"); got != "test-token" {
			t.Errorf("token header = %q, want test-token", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name": "Landing",
			"document": map[string]any{
				"id": "0:0", "type": "DOCUMENT",
				"children": []map[string]any{{"id": "0:1", "type": "CANVAS", "name": "Page 1"}},
			},
		})
	})

	file, err := fc.GetFile("abc123")
	if err != nil {
		t.Fatalf("GetFile() error = %v", err)
	}
	if file.Document == nil || len(file.Document.Children) != 1 {
		t.Fatalf("document = %+v, want one page", file.Document)
	}
	if file.Document.Children[0].Name != "Page 1" {
		t.Errorf("page name = %s, want Page 1", file.Document.Children[0].Name)
	}
}

func TestGetFileNodes(t *testing.T) {
	fc := testFigmaClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != "1:1,1:2" {
			t.Errorf("ids = %q, want 1:1,1:2", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"nodes": map[string]any{
				"1:1": map[string]any{"document": map[string]any{"id": "1:1", "type": "FRAME", "name": "Hero"}},
			},
		})
	})

	nodes, err := fc.GetFileNodes("abc123", []string{"1:1", "1:2"})
	if err != nil {
		t.Fatalf("GetFileNodes() error = %v", err)
	}
	if len(nodes) != 1 || nodes["1:1"].Document.Name != "Hero" {
		t.Errorf("nodes = %+v, want Hero under 1:1", nodes)
	}
}

func TestGetImageRenderURLs(t *testing.T) {
	fc := testFigmaClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") != "png" || q.Get("scale") != "2" {
			t.Errorf("query = %v, want format=png scale=2", q)
		}
		w.Write([]byte(`{"images": {"1:1": "https://cdn.example/a.png", "1:2": null}}`))
	})

	urls, err := fc.GetImageRenderURLs("abc123", []string{"1:1", "1:2"}, RenderOptions{Format: "png", Scale: 2})
	if err != nil {
		t.Fatalf("GetImageRenderURLs() error = %v", err)
	}
	if urls["1:1"] != "https://cdn.example/a.png" {
		t.Errorf("url = %q", urls["1:1"])
	}
	if urls["1:2"] != "" {
		t.Errorf("null render url = %q, want empty", urls["1:2"])
	}
}

func TestFigmaHTTPErrorPropagation(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"rate limited", http.StatusTooManyRequests},
		{"auth failure", http.StatusForbidden},
		{"not found", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := testFigmaClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := fc.GetFile("abc123")
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("error = %v, want *HTTPError", err)
			}
			if httpErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", httpErr.StatusCode, tt.status)
			}
		})
	}
}

func TestDownloadImageBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Figma-Token") != "" {
			t.Error("auth header sent to a pre-signed render URL")
		}
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer server.Close()

	fc := NewFigmaClient("test-token")
	data, err := fc.DownloadImageBytes(server.URL + "/render/a.png")
	if err != nil {
		t.Fatalf("DownloadImageBytes() error = %v", err)
	}
	if len(data) != 4 || data[1] != 'P' {
		t.Errorf("data = %v, want PNG magic", data)
	}
}
