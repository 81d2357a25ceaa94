package store

import (
	"encoding/json"
	"log"
	"net/http"

	"licenca_dashboard/internal/classify"
)

// NewHandler exposes the store over the same wire protocol the real sheet
// endpoint speaks: action-dispatched GETs returning bare JSON arrays and
// POSTed JSON commands answered with an {ok, error} envelope. The dashboard
// cannot tell the stub from the real thing.
func NewHandler(st *Store) http.Handler {
	h := &handler{st: st}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.get(w, r)
		case http.MethodPost:
			h.post(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

type handler struct {
	st *Store
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	var payload any
	var err error
	switch action := r.URL.Query().Get("action"); action {
	case "list":
		payload, err = h.st.ListRegistros(r.Context())
	case "indeferimentos":
		payload, err = h.st.ListIndeferimentos(r.Context())
	default:
		writeEnvelope(w, false, "ação desconhecida: "+action)
		return
	}
	if err != nil {
		writeEnvelope(w, false, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("stub: write response: %v", err)
	}
}

type command struct {
	Action string                  `json:"action"`
	Record *classify.PrimaryRecord `json:"record"`
	ID     string                  `json:"id"`
}

func (h *handler) post(w http.ResponseWriter, r *http.Request) {
	var cmd command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeEnvelope(w, false, "corpo inválido: "+err.Error())
		return
	}
	switch cmd.Action {
	case "add":
		if cmd.Record == nil || cmd.Record.BM == "" || cmd.Record.Nome == "" {
			writeEnvelope(w, false, "registro incompleto: bm e nome são obrigatórios")
			return
		}
		if _, err := h.st.AddRegistro(r.Context(), *cmd.Record); err != nil {
			writeEnvelope(w, false, err.Error())
			return
		}
	case "delete":
		found, err := h.st.DeleteRegistro(r.Context(), cmd.ID)
		if err != nil {
			writeEnvelope(w, false, err.Error())
			return
		}
		if !found {
			writeEnvelope(w, false, "registro não encontrado: "+cmd.ID)
			return
		}
	default:
		writeEnvelope(w, false, "ação desconhecida: "+cmd.Action)
		return
	}
	writeEnvelope(w, true, "")
}

func writeEnvelope(w http.ResponseWriter, ok bool, msg string) {
	w.Header().Set("Content-Type", "application/json")
	out := map[string]any{"ok": ok}
	if msg != "" {
		out["error"] = msg
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("stub: write envelope: %v", err)
	}
}
