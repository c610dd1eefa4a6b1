package nexdoorctl

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRunAskCommand(t *testing.T) {
	var gotPath, gotQuestion, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuestion = r.URL.Query().Get("question")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sql_query":null,"answer":"Hello!"}`))
	}))
	defer srv.Close()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := Run(context.Background(), []string{
		"-base-url", srv.URL,
		"-token", "t1",
		"ask", "how", "many", "businesses?",
	}, Options{
		Stdout:  &stdout,
		Stderr:  &stderr,
		Timeout: 2 * time.Second,
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr=%s", code, stderr.String())
	}
	if gotPath != "/api/v1/chatbot" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuestion != "how many businesses?" {
		t.Fatalf("question = %q", gotQuestion)
	}
	if gotAuth != "Bearer t1" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if stdout.Len() == 0 {
		t.Fatal("expected command output")
	}
}

func TestRunAskRequiresQuestion(t *testing.T) {
	var stderr bytes.Buffer
	code := Run(context.Background(), []string{"ask"}, Options{Stderr: &stderr})
	if code != 2 {
		t.Fatalf("exit code = %d", code)
	}
}

func TestRunHealthCommand(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	code := Run(context.Background(), []string{"-base-url", srv.URL, "health"}, Options{})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if gotPath != "/health" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestRunBusinessesCommand(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"businesses":[]}`))
	}))
	defer srv.Close()

	code := Run(context.Background(), []string{"-base-url", srv.URL, "businesses"}, Options{})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if gotPath != "/api/v1/businesses/" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestRunReturnsErrorOnHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error_code":"UNAUTHORIZED"}`))
	}))
	defer srv.Close()

	var stderr bytes.Buffer
	code := Run(context.Background(), []string{"-base-url", srv.URL, "businesses"}, Options{Stderr: &stderr})
	if code != 1 {
		t.Fatalf("exit code = %d, stderr=%s", code, stderr.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	code := Run(context.Background(), []string{"unknown"}, Options{Stderr: &stderr})
	if code != 2 {
		t.Fatalf("exit code = %d", code)
	}
	if stderr.Len() == 0 {
		t.Fatal("expected usage output")
	}
}
