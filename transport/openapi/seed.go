package openapi

import (
	"encoding/json"
	"net/http"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/transport/openapi/httpError"
	"github.com/gorilla/mux"
)

func (o *OpenAPIServer) seedHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		collection := mux.Vars(r)["collection"]
		var docs []*grizzly.Document
		if err := json.NewDecoder(r.Body).Decode(&docs); err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to decode documents"))
			return
		}
		if err := db.Seed(r.Context(), collection, docs); err != nil {
			commandError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":1}`))
	})
}
