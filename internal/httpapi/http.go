// Package httpapi serves the two dashboard pages and the JSON API behind
// them. All state lives in the session; handlers only read the current
// snapshot or forward writes to the sheet API.
package httpapi

import (
	"embed"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"licenca_dashboard/internal/classify"
	"licenca_dashboard/internal/config"
	"licenca_dashboard/internal/metrics"
	"licenca_dashboard/internal/session"
	"licenca_dashboard/internal/sheet"
)

//go:embed static
var staticFS embed.FS

// Router builds the handlers for pages, /api, and /ops.
type Router struct {
	cfg     config.Config
	session *session.Session
	client  *sheet.Client
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
}

func NewRouter(cfg config.Config, s *session.Session, client *sheet.Client, m *metrics.Metrics, loc *time.Location, now func() time.Time) *Router {
	if now == nil {
		now = time.Now
	}
	return &Router{cfg: cfg, session: s, client: client, metrics: m, loc: loc, now: now}
}

func (rt *Router) Register(r chi.Router) {
	r.Get("/", rt.page("static/index.html"))
	r.Get("/resultados", rt.page("static/resultados.html"))

	r.Get("/api/records", rt.listRecords)
	r.Post("/api/records", rt.addRecord)
	r.Delete("/api/records/{id}", rt.deleteRecord)
	r.Get("/api/classification", rt.classification)
	r.Post("/api/refresh", rt.refresh)
	r.Get("/api/export", rt.export)

	r.Get("/ops/health", rt.health)
	r.Get("/ops/status", rt.status)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

func (rt *Router) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := staticFS.ReadFile(name)
		if err != nil {
			http.Error(w, "missing UI", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}
}

// snapshot returns the current session state, loading it first when nothing
// has been loaded yet (first page hit or a failed startup load the user is
// retrying).
func (rt *Router) snapshot(r *http.Request) (session.Snapshot, error) {
	snap := rt.session.Snapshot()
	if snap.Loaded {
		return snap, nil
	}
	if err := rt.session.Load(r.Context()); err != nil {
		return session.Snapshot{}, err
	}
	return rt.session.Snapshot(), nil
}

type entryRow struct {
	classify.PrimaryRecord
	Indeferido     bool   `json:"indeferido"`
	DataInicioFmt  string `json:"dataInicioFmt"`
	DataTerminoFmt string `json:"dataTerminoFmt"`
}

func (rt *Router) listRecords(w http.ResponseWriter, r *http.Request) {
	snap, err := rt.snapshot(r)
	if err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	rows := make([]entryRow, 0, len(snap.Records))
	for _, rec := range snap.Records {
		rows = append(rows, entryRow{
			PrimaryRecord:  rec,
			Indeferido:     snap.Index.IsDenied(rec.BM),
			DataInicioFmt:  classify.FormatDateDisplay(rec.DataInicio, rt.loc, ""),
			DataTerminoFmt: classify.FormatDateDisplay(rec.DataTermino, rt.loc, ""),
		})
	}
	respondJSON(w, map[string]any{"rows": rows, "loadedAt": snap.LoadedAt})
}

func (rt *Router) addRecord(w http.ResponseWriter, r *http.Request) {
	var rec classify.PrimaryRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if rec.BM == "" || rec.Nome == "" {
		respondError(w, http.StatusBadRequest, errors.New("bm e nome são obrigatórios"))
		return
	}
	if err := rt.client.Add(r.Context(), rec); err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	if err := rt.session.Load(r.Context()); err != nil {
		log.Printf("reload after add failed: %v", err)
	}
	respondJSON(w, rt.session.CheckBM(rec.BM))
}

func (rt *Router) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := rt.client.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	if err := rt.session.Load(r.Context()); err != nil {
		log.Printf("reload after delete failed: %v", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

type classifiedRow struct {
	Posicao int    `json:"posicao"`
	Banda   string `json:"banda,omitempty"`
	classify.EnrichedRecord
	DataInicioFmt     string `json:"dataInicioFmt"`
	DataTerminoFmt    string `json:"dataTerminoFmt"`
	EfetivacaoFmt     string `json:"efetivacaoFmt"`
	DataNascimentoFmt string `json:"dataNascimentoFmt"`
}

func (rt *Router) classification(w http.ResponseWriter, r *http.Request) {
	snap, err := rt.snapshot(r)
	if err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	filtered := classify.FilterRecords(
		snap.Ranked,
		r.URL.Query().Get("search"),
		classify.ParseDenialFilter(r.URL.Query().Get("indeferimento")),
		rt.loc,
	)
	rows := make([]classifiedRow, 0, len(filtered))
	for i, rec := range filtered {
		rows = append(rows, classifiedRow{
			Posicao:           i + 1,
			Banda:             banda(i),
			EnrichedRecord:    rec,
			DataInicioFmt:     classify.FormatDateDisplay(rec.DataInicio, rt.loc, "-"),
			DataTerminoFmt:    classify.FormatDateDisplay(rec.DataTermino, rt.loc, "-"),
			EfetivacaoFmt:     classify.FormatDateDisplay(rec.Efetivacao, rt.loc, "-"),
			DataNascimentoFmt: classify.FormatDateDisplay(rec.DataNascimento, rt.loc, "-"),
		})
	}
	respondJSON(w, map[string]any{
		"stats":    snap.Stats,
		"rows":     rows,
		"loadedAt": snap.LoadedAt,
	})
}

// banda mirrors the visual priority bands of the old report: positions are
// recomputed over the filtered view, not the full ranking.
func banda(index int) string {
	switch {
	case index < 10:
		return "top-10"
	case index < 30:
		return "top-30"
	default:
		return ""
	}
}

func (rt *Router) refresh(w http.ResponseWriter, r *http.Request) {
	if err := rt.session.Load(r.Context()); err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, rt.session.Snapshot().Stats)
}

func (rt *Router) export(w http.ResponseWriter, r *http.Request) {
	snap, err := rt.snapshot(r)
	if err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	rows := classify.FilterRecords(
		snap.Ranked,
		r.URL.Query().Get("search"),
		classify.ParseDenialFilter(r.URL.Query().Get("indeferimento")),
		rt.loc,
	)
	csv := classify.ExportCSV(rows, rt.loc)
	if rt.metrics != nil {
		rt.metrics.ExportsTotal.Inc()
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+classify.ExportFilename(rt.now().In(rt.loc))+`"`)
	_, _ = w.Write([]byte(csv))
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) status(w http.ResponseWriter, r *http.Request) {
	snap := rt.session.Snapshot()
	out := map[string]any{
		"loaded":   snap.Loaded,
		"loadedAt": snap.LoadedAt,
		"stats":    snap.Stats,
	}
	if err := rt.session.LastError(); err != nil {
		out["lastError"] = err.Error()
	}
	respondJSON(w, out)
}

func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write json: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
