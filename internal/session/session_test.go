package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"licenca_dashboard/internal/sheet"
)

var fixedNow = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, listBody, indBody string) (*Session, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("action") {
		case "list":
			io.WriteString(w, listBody)
		case "indeferimentos":
			io.WriteString(w, indBody)
		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	client := sheet.NewClient(srv.URL, 5*time.Second)
	return New(client, time.UTC, func() time.Time { return fixedNow }, nil), &calls
}

func TestLoadBuildsRankedSnapshot(t *testing.T) {
	list := `[
		{"id":"1","bm":"B","nome":"Bia"},
		{"id":"2","bm":"A","nome":"Ana"},
		{"id":"3","bm":"C","nome":"Caio"}
	]`
	ind := `[
		{"bm":"A","indeferimento":"SIM","efetivacao":"2020-01-01","dataNascimento":"1970-01-01"},
		{"bm":"C","indeferimento":"SIM","efetivacao":"2019-01-01"}
	]`
	s, calls := newTestSession(t, list, ind)

	if s.Snapshot().Loaded {
		t.Fatal("snapshot must start unloaded")
	}
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	if !snap.Loaded {
		t.Fatal("snapshot should be loaded")
	}
	if snap.Stats != (Stats{Total: 3, Indeferidos: 2, NaoIndeferidos: 1}) {
		t.Fatalf("unexpected stats %+v", snap.Stats)
	}
	if !snap.LoadedAt.Equal(fixedNow) {
		t.Fatalf("unexpected LoadedAt %v", snap.LoadedAt)
	}
	order := []string{snap.Ranked[0].BM, snap.Ranked[1].BM, snap.Ranked[2].BM}
	if order[0] != "C" || order[1] != "A" || order[2] != "B" {
		t.Fatalf("unexpected rank order %v", order)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected exactly 2 upstream fetches, got %d", got)
	}

	idade := snap.Ranked[1].Idade
	if idade == nil || *idade != 54 {
		t.Fatalf("expected idade 54 for A, got %v", idade)
	}
}

func TestLoadFailureKeepsPreviousSnapshot(t *testing.T) {
	s, _ := newTestSession(t, `[{"id":"1","bm":"A","nome":"Ana"}]`, `[]`)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// point the session at a dead upstream
	broken := New(sheet.NewClient("http://127.0.0.1:1", time.Second), time.UTC, func() time.Time { return fixedNow }, nil)
	if err := broken.Load(context.Background()); err == nil {
		t.Fatal("expected load against dead upstream to fail")
	}
	if broken.Snapshot().Loaded {
		t.Fatal("failed load must not mark the snapshot loaded")
	}
	if broken.LastError() == nil {
		t.Fatal("failed load must be reported by LastError")
	}
	if s.LastError() != nil {
		t.Fatalf("successful load must clear LastError, got %v", s.LastError())
	}

	if !s.Snapshot().Loaded || s.Snapshot().Stats.Total != 1 {
		t.Fatal("previous snapshot must survive")
	}
}

func TestCheckBM(t *testing.T) {
	ind := `[{"bm":"A1","indeferimento":"SIM","efetivacao":"2020-01-01","dataNascimento":"1970-01-01"},
		{"bm":"B2","indeferimento":"NAO"}]`
	s, _ := newTestSession(t, `[]`, ind)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := s.CheckBM(" a1 ")
	if !res.Indeferido {
		t.Fatal("A1 should be denied regardless of spacing and case")
	}
	if res.Info == nil || res.Info.Efetivacao != "2020-01-01" {
		t.Fatalf("expected matched roster info, got %+v", res.Info)
	}

	res = s.CheckBM("B2")
	if res.Indeferido {
		t.Fatal("B2 is matched but not denied")
	}
	if res.Info == nil {
		t.Fatal("B2 still has roster info")
	}

	res = s.CheckBM("Z9")
	if res.Indeferido || res.Info != nil {
		t.Fatal("unknown BM must come back clean")
	}
}
