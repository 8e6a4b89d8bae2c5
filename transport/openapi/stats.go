package openapi

import (
	"encoding/json"
	"net/http"

	"github.com/autom8ter/grizzly"
	"github.com/gorilla/mux"
	"github.com/spf13/cast"
)

// statsHandler serves the collection's statistics. A missing collection is not
// an error here - the response document carries ok: 0 and the reason.
func (o *OpenAPIServer) statsHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		collection := mux.Vars(r)["collection"]
		admin := db.Collection(collection).Admin().Blocking()
		var (
			stats *grizzly.Document
			err   error
		)
		if scale := cast.ToInt(r.URL.Query().Get("scale")); scale > 0 {
			stats, err = admin.StatisticsScaled(r.Context(), scale)
		} else {
			stats, err = admin.Statistics(r.Context())
		}
		if err != nil {
			commandError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(stats.Bytes())
	})
}

func (o *OpenAPIServer) cappedHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		collection := mux.Vars(r)["collection"]
		capped, err := db.Collection(collection).Admin().Blocking().IsCapped(r.Context())
		if err != nil {
			commandError(w, err)
			return
		}
		bits, _ := json.Marshal(map[string]bool{"capped": capped})
		w.WriteHeader(http.StatusOK)
		w.Write(bits)
	})
}
