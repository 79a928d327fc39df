package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// ── Classifier ──

func TestClassifyNestedResponse(t *testing.T) {
	var gotPath string
	var gotBody classifyRequest
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck
		fmt.Fprint(w, `[[{"label":"POSITIVE","score":0.998},{"label":"NEGATIVE","score":0.002}]]`)
	})

	c := NewClassifier(NewClient(srv.URL), "org/sentiment-model")
	label, err := c.Classify(context.Background(), "shares rallied today")
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if label != "POSITIVE" {
		t.Errorf("label: got %q, want POSITIVE", label)
	}
	if gotPath != "/models/org/sentiment-model" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotBody.Inputs != "shares rallied today" {
		t.Errorf("inputs: got %q", gotBody.Inputs)
	}
	if !gotBody.Options.WaitForModel {
		t.Error("wait_for_model should be set")
	}
}

func TestClassifyFlatResponse(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"label":"NEGATIVE","score":0.91}]`)
	})

	c := NewClassifier(NewClient(srv.URL), "m")
	label, err := c.Classify(context.Background(), "stock tumbled")
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if label != "NEGATIVE" {
		t.Errorf("label: got %q, want NEGATIVE", label)
	}
}

func TestClassifyModelError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
	})

	c := NewClassifier(NewClient(srv.URL), "m")
	_, err := c.Classify(context.Background(), "text")
	if !errors.Is(err, ErrModel) {
		t.Fatalf("got %v, want ErrModel", err)
	}
}

func TestClassifyEmptyResult(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	c := NewClassifier(NewClient(srv.URL), "m")
	_, err := c.Classify(context.Background(), "text")
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("got %v, want ErrBadResponse", err)
	}
}

// ── Summarizer ──

func TestSummarizePinsDeterministicParams(t *testing.T) {
	var gotBody summarizeRequest
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck
		fmt.Fprint(w, `[{"summary_text":" A concise summary. "}]`)
	})

	s := NewSummarizer(NewClient(srv.URL), "org/summarizer-model")
	summary, err := s.Summarize(context.Background(), "a long article body", 25, 80)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if summary != "A concise summary." {
		t.Errorf("summary: got %q (should be trimmed)", summary)
	}
	if gotBody.Parameters.MinLength != 25 || gotBody.Parameters.MaxLength != 80 {
		t.Errorf("length bounds: got %d/%d, want 25/80", gotBody.Parameters.MinLength, gotBody.Parameters.MaxLength)
	}
	if gotBody.Parameters.DoSample {
		t.Error("do_sample must be false for deterministic generation")
	}
}

func TestSummarizeEmptyResult(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"summary_text":"   "}]`)
	})

	s := NewSummarizer(NewClient(srv.URL), "m")
	_, err := s.Summarize(context.Background(), "text", 25, 80)
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("got %v, want ErrBadResponse", err)
	}
}

func TestSummarizeServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := NewSummarizer(NewClient(srv.URL), "m")
	_, err := s.Summarize(context.Background(), "text", 25, 80)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
}

// ── Ping / auth ──

func TestPingOK(t *testing.T) {
	var gotAuth string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})

	c := NewClient(srv.URL, WithAPIKey("secret-token"))
	if err := c.Ping(context.Background(), "org/model"); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization: got %q", gotAuth)
	}
}

func TestPingModelMissing(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	})

	c := NewClient(srv.URL)
	err := c.Ping(context.Background(), "org/missing")
	if !errors.Is(err, ErrModel) {
		t.Fatalf("got %v, want ErrModel", err)
	}
}
