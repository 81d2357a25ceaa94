package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"licenca_dashboard/internal/classify"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestListDecodesHeterogeneousDates(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "list" {
			t.Fatalf("unexpected action %q", r.URL.Query().Get("action"))
		}
		io.WriteString(w, `[{"id":7,"bm":"BM1","nome":"Ana","dataInicio":45292,"dataTermino":"2024-02-01","diasCorridos":"30"}]`)
	})
	defer srv.Close()

	rows, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].DataInicio != float64(45292) {
		t.Fatalf("serial date must arrive untouched, got %v", rows[0].DataInicio)
	}
	if rows[0].DataTermino != "2024-02-01" {
		t.Fatalf("string date must arrive untouched, got %v", rows[0].DataTermino)
	}
}

func TestGetNonArrayMeansEmpty(t *testing.T) {
	bodies := []string{`{"error":"sem permissão"}`, `null`, `"nada"`}
	for _, body := range bodies {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})
		rows, err := client.Indeferimentos(context.Background())
		srv.Close()
		if err != nil {
			t.Fatalf("body %q: unexpected error %v", body, err)
		}
		if len(rows) != 0 {
			t.Fatalf("body %q: expected empty dataset, got %d rows", body, len(rows))
		}
	}
}

func TestGetInvalidJSONIsAnError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>login</html>`)
	})
	defer srv.Close()

	if _, err := client.List(context.Background()); err == nil {
		t.Fatal("expected a decode error for a non-JSON body")
	}
}

func TestAddSendsPlainTextEnvelope(t *testing.T) {
	var gotContentType string
	var gotPayload map[string]any
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		io.WriteString(w, `{"ok":true}`)
	})
	defer srv.Close()

	err := client.Add(context.Background(), classify.PrimaryRecord{BM: "BM1", Nome: "Ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotContentType != postContentType {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotPayload["action"] != "add" {
		t.Fatalf("unexpected action %v", gotPayload["action"])
	}
	record, ok := gotPayload["record"].(map[string]any)
	if !ok || record["bm"] != "BM1" {
		t.Fatalf("record not forwarded: %v", gotPayload["record"])
	}
}

func TestPostOkFalseSurfacesServerText(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error":"BM duplicado"}`)
	})
	defer srv.Close()

	err := client.Delete(context.Background(), "id-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "BM duplicado" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestPostOkFalseWithoutTextGetsFallback(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false}`)
	})
	defer srv.Close()

	err := client.Add(context.Background(), classify.PrimaryRecord{BM: "BM2"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "erro desconhecido" {
		t.Fatalf("unexpected fallback %q", apiErr.Message)
	}
}
