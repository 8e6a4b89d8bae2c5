package openapi

import (
	"io"
	"net/http"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/transport/openapi/httpError"
	"github.com/spf13/cast"
)

// commandHandler runs a raw database command. The first field of the request
// body is the command verb. A command failure is still a served command, so it
// is written back as the failure's own response document with a 200 status.
func (o *OpenAPIServer) commandHandler(db grizzly.Database) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		bits, err := io.ReadAll(r.Body)
		if err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to read request body"))
			return
		}
		body, err := grizzly.NewDocumentFromBytes(bits)
		if err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to decode command body"))
			return
		}
		database := cast.ToString(grizzly.GetMetadataValue(r.Context(), grizzly.MetadataKeyNamespace))
		cmd, err := grizzly.CommandFromDocument(database, body)
		if err != nil {
			httpError.Error(w, err)
			return
		}
		if rp := grizzly.ReadPreference(r.URL.Query().Get("rp")); rp != "" {
			if !rp.Valid() {
				httpError.Error(w, errors.New(errors.Validation, "invalid read preference %s", rp))
				return
			}
			cmd = cmd.WithReadPreference(rp)
		}
		response, err := db.Execute(r.Context(), cmd).Await(r.Context())
		if err != nil {
			if failure, ok := grizzly.AsCommandError(err); ok && failure.Response != nil {
				w.WriteHeader(http.StatusOK)
				w.Write(failure.Response.Bytes())
				return
			}
			httpError.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(response.Bytes())
	})
}
