package ipc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/barline/barline/pkg/bar"
)

// NewInspector returns a read-only HTTP handler over the service, for
// host-side tooling that wants to peek at the store without speaking the
// socket protocol. Mutations stay socket-only.
//
// Routes:
//
//	GET /healthz              liveness probe
//	GET /api/nodes            all nodes; ?name= or ?display= filter
//	GET /api/displays         the known display list
func NewInspector(svc *bar.Service) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/nodes", func(w http.ResponseWriter, req *http.Request) {
		var display *uint32
		if raw := req.URL.Query().Get("display"); raw != "" {
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				http.Error(w, "invalid display", http.StatusBadRequest)
				return
			}
			d := uint32(v)
			display = &d
		}
		writeJSON(w, svc.Query(req.URL.Query().Get("name"), display))
	})

	r.Get("/api/displays", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, svc.Displays())
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding error", http.StatusInternalServerError)
	}
}
