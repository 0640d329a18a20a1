package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPStore_Upload(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://cdn.example/abc"}`))
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "tok-123")
	url, err := store.Upload(context.Background(), "report.pdf", strings.NewReader("content"), 7, nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://cdn.example/abc" {
		t.Fatalf("url = %s", url)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if string(gotBody) != "content" {
		t.Fatalf("body = %q", gotBody)
	}
	// Object names are uniquified but keep the original file name visible.
	if !strings.HasSuffix(gotPath, "-report.pdf") {
		t.Fatalf("object path = %s, want -report.pdf suffix", gotPath)
	}
}

func TestHTTPStore_UploadProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"url":"u"}`))
	}))
	defer srv.Close()

	payload := strings.Repeat("x", 4096)
	var lastSent, lastTotal int64
	store := NewHTTPStore(srv.URL, "")
	if _, err := store.Upload(context.Background(), "f", strings.NewReader(payload), int64(len(payload)), func(sent, total int64) {
		lastSent, lastTotal = sent, total
	}); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if lastSent != int64(len(payload)) || lastTotal != int64(len(payload)) {
		t.Fatalf("final progress = %d/%d, want %d/%d", lastSent, lastTotal, len(payload), len(payload))
	}
}

func TestHTTPStore_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"quota exceeded"}`))
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "")
	_, err := store.Upload(context.Background(), "f", strings.NewReader("x"), 1, nil)
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v, want store message surfaced", err)
	}
}

func TestHTTPStore_EmptyBodyFallsBackToObjectURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "")
	url, err := store.Upload(context.Background(), "f.png", strings.NewReader("x"), 1, nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, srv.URL+"/") {
		t.Fatalf("url = %s, want upload path", url)
	}
}
