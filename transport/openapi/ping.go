package openapi

import (
	"net/http"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/transport/openapi/httpError"
)

func (o *OpenAPIServer) pingHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Internal, "failed to ping database"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":1}`))
	})
}
