package openapi

import (
	"net/http"
	"strings"

	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/transport/openapi/httpError"
	"github.com/autom8ter/grizzly/util"
)

func (o *OpenAPIServer) specHandler() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		o.specMu.RLock()
		spec := o.spec
		o.specMu.RUnlock()
		if strings.HasSuffix(r.URL.Path, ".json") {
			bits, err := util.YAMLToJSON(spec)
			if err != nil {
				httpError.Error(w, errors.Wrap(err, errors.Internal, "failed to convert spec from yaml to json"))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(bits)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(spec)
	})
}
