package openapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/transport/openapi/httpError"
	"github.com/gorilla/mux"
)

func (o *OpenAPIServer) listCollectionsHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		collections, err := db.Collections(r.Context())
		if err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Internal, "failed to list collections"))
			return
		}
		bits, _ := json.Marshal(collections)
		w.WriteHeader(http.StatusOK)
		w.Write(bits)
	})
}

func (o *OpenAPIServer) configureCollectionHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		bits, err := io.ReadAll(r.Body)
		if err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to read request body"))
			return
		}
		if err := db.ConfigureCollection(r.Context(), bits); err != nil {
			commandError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":1}`))
	})
}

func (o *OpenAPIServer) dropCollectionHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		collection := mux.Vars(r)["collection"]
		if err := db.Collection(collection).Admin().Blocking().Drop(r.Context()); err != nil {
			commandError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":1}`))
	})
}
