package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/credlens/credlens/internal/cache"
	"github.com/credlens/credlens/internal/model"
)

func testProfile() model.Profile {
	return model.NewProfile(map[string]model.Value{
		"income":            model.Num(85000),
		"employment_status": model.Cat("employed"),
		"payment_defaults":  model.Num(0),
	})
}

func newTestClient(serverURL string, c cache.Cache) *Client {
	return NewClient(model.GatewayConfig{
		URL:     serverURL,
		Timeout: 5 * time.Second,
	}, nil, c, time.Minute)
}

func TestClient_ScoreSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/score" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req scoreRequestV1
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.SchemaVersion != "v1" {
			t.Errorf("expected schema_version v1, got %q", req.SchemaVersion)
		}
		if req.Attributes["income"] != float64(85000) {
			t.Errorf("numeric attribute not serialized: %v", req.Attributes["income"])
		}
		if req.Attributes["employment_status"] != "employed" {
			t.Errorf("categorical attribute not serialized: %v", req.Attributes["employment_status"])
		}
		_, _ = w.Write([]byte(`{"credit_score": 78, "classification": "approved", "explanation": "Strong income."}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL, nil).Score(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 78 || result.Classification != "approved" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Explanation != "Strong income." {
		t.Errorf("explanation lost: %q", result.Explanation)
	}
}

func TestClient_ClassificationDerivedFromScore(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{85, "approved"},
		{70, "approved"},
		{65, "conditional"},
		{60, "conditional"},
		{40, "denied"},
	}
	for _, tc := range cases {
		body, _ := json.Marshal(map[string]float64{"credit_score": tc.score})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(body)
		}))

		result, err := newTestClient(server.URL, nil).Score(context.Background(), testProfile())
		server.Close()
		if err != nil {
			t.Fatalf("score %v: unexpected error: %v", tc.score, err)
		}
		if result.Classification != tc.want {
			t.Errorf("score %v: expected %q, got %q", tc.score, tc.want, result.Classification)
		}
	}
}

func TestClient_HTTPErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, nil).Score(context.Background(), testProfile())
	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected *CallError, got %v", err)
	}
	if callErr.Kind != ErrHTTP {
		t.Errorf("expected http_error, got %s", callErr.Kind)
	}
	if callErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", callErr.StatusCode)
	}
}

func TestClient_ParseErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing score", `{"classification": "approved"}`},
		{"score above scale", `{"credit_score": 850}`},
		{"negative score", `{"credit_score": -5}`},
		{"unknown classification", `{"credit_score": 78, "classification": "maybe"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, nil).Score(context.Background(), testProfile())
			var callErr *CallError
			if !errors.As(err, &callErr) {
				t.Fatalf("expected *CallError, got %v", err)
			}
			if callErr.Kind != ErrParse {
				t.Errorf("expected parse_error, got %s", callErr.Kind)
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(model.GatewayConfig{
		URL:     server.URL,
		Timeout: 20 * time.Millisecond,
	}, nil, nil, 0)

	_, err := client.Score(context.Background(), testProfile())
	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected *CallError, got %v", err)
	}
	if callErr.Kind != ErrTimeout {
		t.Errorf("expected timeout, got %s", callErr.Kind)
	}
}

func TestClient_ConnectionError(t *testing.T) {
	// Closed port: nothing listens there anymore
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL, nil).Score(context.Background(), testProfile())
	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected *CallError, got %v", err)
	}
	if callErr.Kind != ErrConnection {
		t.Errorf("expected connection_error, got %s", callErr.Kind)
	}
}

func TestClient_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "auditor" || pass != "secret" {
			t.Errorf("basic auth not propagated: %q/%q (ok=%v)", user, pass, ok)
		}
		_, _ = w.Write([]byte(`{"credit_score": 78}`))
	}))
	defer server.Close()

	client := NewClient(model.GatewayConfig{
		URL:      server.URL,
		Username: "auditor",
		Password: "secret",
		Timeout:  5 * time.Second,
	}, nil, nil, 0)

	if _, err := client.Score(context.Background(), testProfile()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_CacheReplay(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"credit_score": 78, "explanation": "Stable profile."}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, cache.NewMemory(time.Minute))
	profile := testProfile()

	first, err := client.Score(context.Background(), profile)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := client.Score(context.Background(), profile)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if hits != 1 {
		t.Errorf("identical profiles must replay from cache, got %d server hits", hits)
	}
	if first.Score != second.Score || first.Explanation != second.Explanation {
		t.Errorf("cached result diverged: %+v vs %+v", first, second)
	}

	// ScoreFresh bypasses replay in both directions
	if _, err := client.ScoreFresh(context.Background(), profile); err != nil {
		t.Fatalf("fresh call: %v", err)
	}
	if hits != 2 {
		t.Errorf("ScoreFresh must reach the collaborator, got %d server hits", hits)
	}
}
