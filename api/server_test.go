package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/legal-bench/internal/bench"
	"github.com/stellarlinkco/legal-bench/internal/leaderboard"
	"github.com/stellarlinkco/legal-bench/internal/llm"
	"github.com/stellarlinkco/legal-bench/internal/metric"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type echoProvider struct {
	name string
	fail bool
}

func (p *echoProvider) Name() string  { return p.name }
func (p *echoProvider) Group() string { return "ollama" }

func (p *echoProvider) Send(_ context.Context, question, _ string) (string, error) {
	if p.fail {
		return "", llm.Permanent(errors.New("unreachable"))
	}
	return "echo per RPL 235-b: " + question, nil
}

func newTestServer(t *testing.T, withStore bool) (*Server, *leaderboard.Store) {
	t.Helper()

	reg := llm.NewRegistry()
	reg.Register(&echoProvider{name: "llama3"})
	reg.Register(&echoProvider{name: "mistral", fail: true})

	runner := &bench.Runner{Registry: reg}
	agg := &leaderboard.Aggregator{Scorers: []metric.Scorer{
		metric.EntityScorer{},
		metric.SafetyScorer{},
		metric.GroundingScorer{},
		metric.ReasoningScorer{},
	}}

	var store *leaderboard.Store
	if withStore {
		var err error
		store, err = leaderboard.NewStore(filepath.Join(t.TempDir(), "lb.db"))
		if err != nil {
			t.Fatalf("store: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
	}

	srv, err := NewServer(runner, agg, store)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, store
}

func doRequest(t *testing.T, srv *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, false)

	w := doRequest(t, srv, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestAsk(t *testing.T) {
	srv, _ := newTestServer(t, false)

	w := doRequest(t, srv, http.MethodPost, "/api/ask",
		`{"question": "Who provides heat?", "ground_truth": "The landlord, per RPL 235-b.", "citation": "RPL 235-b"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Question  string            `json:"question"`
		Responses map[string]string `json:"responses"`
		Scores    []struct {
			Model  string  `json:"model"`
			Total  float64 `json:"total"`
			Errors int     `json:"errors"`
		} `json:"scores"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if len(resp.Responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(resp.Responses))
	}
	if bench.IsSentinel(resp.Responses["llama3"]) {
		t.Fatalf("healthy model returned sentinel: %q", resp.Responses["llama3"])
	}
	if !bench.IsSentinel(resp.Responses["mistral"]) {
		t.Fatalf("failed model not recorded as sentinel: %q", resp.Responses["mistral"])
	}
	if len(resp.Scores) != 2 {
		t.Fatalf("got %d score rows, want 2", len(resp.Scores))
	}
	for _, s := range resp.Scores {
		if s.Model == "mistral" && s.Errors != 1 {
			t.Fatalf("sentinel not counted as error: %+v", s)
		}
	}
}

func TestAskWithoutReferenceSkipsScoring(t *testing.T) {
	srv, _ := newTestServer(t, false)

	w := doRequest(t, srv, http.MethodPost, "/api/ask", `{"question": "Who provides heat?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), `"scores"`) {
		t.Fatalf("scores present without a reference: %s", w.Body.String())
	}
}

func TestAskValidation(t *testing.T) {
	srv, _ := newTestServer(t, false)

	for _, body := range []string{"", `{}`, `{"question": "   "}`} {
		w := doRequest(t, srv, http.MethodPost, "/api/ask", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: got %d, want 400", body, w.Code)
		}
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	srv, store := newTestServer(t, true)

	err := store.SaveRun(context.Background(), []leaderboard.ModelSummary{
		{Model: "llama3", Total: 70, Means: map[string]float64{metric.NameSafety: 70}, Answered: 5},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	{
		w := doRequest(t, srv, http.MethodGet, "/api/leaderboard", "")
		if w.Code != http.StatusOK {
			t.Fatalf("got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "llama3") {
			t.Fatalf("body: %s", w.Body.String())
		}
	}
	{
		w := doRequest(t, srv, http.MethodGet, "/api/leaderboard?limit=abc", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad limit: got %d, want 400", w.Code)
		}
	}
}

func TestLeaderboardWithoutStore(t *testing.T) {
	srv, _ := newTestServer(t, false)

	w := doRequest(t, srv, http.MethodGet, "/api/leaderboard", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", w.Code)
	}
}

func TestModelHistoryEndpoint(t *testing.T) {
	srv, store := newTestServer(t, true)

	err := store.SaveRun(context.Background(), []leaderboard.ModelSummary{
		{Model: "llama3", Total: 70, Means: map[string]float64{}, Answered: 5},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	w := doRequest(t, srv, http.MethodGet, "/api/history/llama3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "llama3") {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(nil, &leaderboard.Aggregator{}, nil); err == nil {
		t.Fatal("nil runner must be rejected")
	}
	if _, err := NewServer(&bench.Runner{}, nil, nil); err == nil {
		t.Fatal("nil aggregator must be rejected")
	}
}
