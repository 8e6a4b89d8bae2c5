package openapi

import (
	"net/http"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/transport/openapi/httpError"
)

// httpCode maps a server error code to the status used for transport errors.
func httpCode(code int) errors.Code {
	switch code {
	case grizzly.CodeNamespaceNotFound, grizzly.CodeIndexNotFound:
		return errors.NotFound
	case grizzly.CodeNamespaceExists, grizzly.CodeIndexOptionsConflict, grizzly.CodeDuplicateKey, grizzly.CodeLockTimeout:
		return errors.Conflict
	default:
		return errors.Validation
	}
}

// commandError writes a command failure with a status derived from its server
// error code. Plain errors pass through unchanged.
func commandError(w http.ResponseWriter, err error) {
	if failure, ok := grizzly.AsCommandError(err); ok {
		httpError.Error(w, errors.New(httpCode(failure.Code), "%s", failure.Message))
		return
	}
	httpError.Error(w, err)
}
