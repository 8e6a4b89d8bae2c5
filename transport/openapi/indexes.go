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

func (o *OpenAPIServer) getIndexesHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		collection := mux.Vars(r)["collection"]
		indexes, err := db.Collection(collection).Admin().Blocking().GetIndexes(r.Context())
		if err != nil {
			commandError(w, err)
			return
		}
		bits, _ := json.Marshal(indexes)
		w.WriteHeader(http.StatusOK)
		w.Write(bits)
	})
}

func (o *OpenAPIServer) createIndexesHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		collection := mux.Vars(r)["collection"]
		bits, err := io.ReadAll(r.Body)
		if err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to read request body"))
			return
		}
		body, err := grizzly.NewDocumentFromBytes(bits)
		if err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to decode request body"))
			return
		}
		var indexes []grizzly.Index
		for _, doc := range body.GetDocuments("indexes") {
			ix, err := grizzly.NewIndexFromDocument(doc)
			if err != nil {
				httpError.Error(w, err)
				return
			}
			indexes = append(indexes, ix)
		}
		if len(indexes) == 0 {
			httpError.Error(w, errors.New(errors.Validation, "the 'indexes' array cannot be empty"))
			return
		}
		if err := db.Collection(collection).Admin().Blocking().CreateIndexes(r.Context(), indexes...); err != nil {
			commandError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":1}`))
	})
}

func (o *OpenAPIServer) dropIndexHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		collection := vars["collection"]
		index := vars["index"]
		if err := db.Collection(collection).Admin().Blocking().DropIndex(r.Context(), index); err != nil {
			commandError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":1}`))
	})
}
