package langid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPIdentifier_Identify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
		}

		var req httpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Text != "Mba'éichapa" || req.K != 1 {
			t.Errorf("Unexpected request: %+v", req)
		}

		_, _ = w.Write([]byte(`{"languages": ["grn", 0.97], "source": {"glotlid": 0.97}, "voting": "majority"}`))
	}))
	defer server.Close()

	id, err := NewHTTPIdentifier(HTTPConfig{Endpoint: server.URL, APIKey: "test-key", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Failed to create identifier: %v", err)
	}

	res, err := id.Identify(context.Background(), "Mba'éichapa")
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if res == nil {
		t.Fatal("Expected a result, got abstention")
	}
	if res.Label != "grn" || res.Score != 0.97 {
		t.Errorf("Unexpected result: %+v", res)
	}
	if res.Source != `{"glotlid": 0.97}` {
		t.Errorf("Expected raw JSON source, got %q", res.Source)
	}
	if res.Voting != "majority" {
		t.Errorf("Expected voting majority, got %q", res.Voting)
	}
}

func TestHTTPIdentifier_Identify_Abstains(t *testing.T) {
	for _, body := range []string{`{"languages": []}`, `{"languages": null}`, `{}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		id, _ := NewHTTPIdentifier(HTTPConfig{Endpoint: server.URL})
		res, err := id.Identify(context.Background(), "text")
		server.Close()

		if err != nil {
			t.Errorf("%s: unexpected error: %v", body, err)
		}
		if res != nil {
			t.Errorf("%s: expected abstention, got %+v", body, res)
		}
	}
}

func TestHTTPIdentifier_Identify_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "model loading"}`))
	}))
	defer server.Close()

	id, _ := NewHTTPIdentifier(HTTPConfig{Endpoint: server.URL})
	_, err := id.Identify(context.Background(), "text")
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "model loading") || !strings.Contains(err.Error(), "503") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestHTTPIdentifier_Identify_Malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"languages": ["grn"]}`))
	}))
	defer server.Close()

	id, _ := NewHTTPIdentifier(HTTPConfig{Endpoint: server.URL})
	if _, err := id.Identify(context.Background(), "text"); err == nil {
		t.Error("Expected error for a single-element languages field")
	}
}

func TestNewHTTPIdentifier_RequiresEndpoint(t *testing.T) {
	if _, err := NewHTTPIdentifier(HTTPConfig{}); err == nil {
		t.Error("Expected error without endpoint")
	}
}
