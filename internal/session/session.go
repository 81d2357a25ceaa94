// Package session owns the in-memory dashboard state: the ranked
// classification snapshot and the denial index the entry screen consults.
// Everything is rebuilt wholesale on each load; there are no partial updates.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"licenca_dashboard/internal/classify"
	"licenca_dashboard/internal/metrics"
	"licenca_dashboard/internal/sheet"
)

// Stats are the counters shown in the classification page header.
type Stats struct {
	Total          int `json:"total"`
	Indeferidos    int `json:"indeferidos"`
	NaoIndeferidos int `json:"naoIndeferidos"`
}

// Snapshot is one complete, immutable view of the classified dataset.
// Consumers never observe a half-built state: Load swaps the whole value.
type Snapshot struct {
	Records  []classify.PrimaryRecord
	Ranked   []classify.EnrichedRecord
	Index    classify.DenialIndex
	Stats    Stats
	LoadedAt time.Time
	Loaded   bool
}

// Session is the single dashboard session. Loads may overlap when the user
// hammers refresh; the last one to finish wins, which is acceptable at this
// tool's request rate and is not otherwise ordered.
type Session struct {
	client  *sheet.Client
	loc     *time.Location
	now     func() time.Time
	metrics *metrics.Metrics

	mu      sync.RWMutex
	snap    Snapshot
	lastErr error
}

func New(client *sheet.Client, loc *time.Location, now func() time.Time, m *metrics.Metrics) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{client: client, loc: loc, now: now, metrics: m}
}

// Load fetches both datasets, enriches, ranks, and atomically replaces the
// snapshot. The two fetches run concurrently; enrichment waits for both.
func (s *Session) Load(ctx context.Context) error {
	start := s.now()

	var primary []classify.PrimaryRecord
	var denials []classify.DenialRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.client.List(gctx)
		primary = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.client.Indeferimentos(gctx)
		denials = rows
		return err
	})
	if err := g.Wait(); err != nil {
		if s.metrics != nil {
			s.metrics.ObserveLoad(start, 0, err)
		}
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		log.Printf("session load failed: %v", err)
		return err
	}

	today := s.now().In(s.loc)
	index := classify.BuildDenialIndex(denials)
	enriched := classify.Enrich(primary, index, today, s.loc)
	ranked := classify.Rank(enriched, s.loc)

	stats := Stats{Total: len(ranked)}
	for _, r := range ranked {
		if r.Indeferido {
			stats.Indeferidos++
		}
	}
	stats.NaoIndeferidos = stats.Total - stats.Indeferidos

	snap := Snapshot{
		Records:  primary,
		Ranked:   ranked,
		Index:    index,
		Stats:    stats,
		LoadedAt: s.now(),
		Loaded:   true,
	}

	s.mu.Lock()
	s.snap = snap
	s.lastErr = nil
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveLoad(start, stats.Total, nil)
	}
	log.Printf("session loaded: total=%d indeferidos=%d", stats.Total, stats.Indeferidos)
	return nil
}

// Snapshot returns the current snapshot. The zero snapshot (Loaded false)
// means no load has succeeded yet.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// LastError reports the most recent load failure, or nil after a successful
// load.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// CheckResult is the entry screen's single-lookup denial check.
type CheckResult struct {
	Indeferido bool                   `json:"indeferido"`
	Info       *classify.DenialRecord `json:"info"`
}

// CheckBM answers the entry screen's question for one BM against the current
// snapshot, without a full classification pass.
func (s *Session) CheckBM(bm string) CheckResult {
	snap := s.Snapshot()
	result := CheckResult{Indeferido: snap.Index.IsDenied(bm)}
	if info, ok := snap.Index.Lookup(bm); ok {
		result.Info = &info
	}
	return result
}
