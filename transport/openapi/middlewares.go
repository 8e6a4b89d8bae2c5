package openapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/transport/openapi/httpError"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/gorilla/mux"
	"github.com/segmentio/ksuid"
)

// metadataWare assigns a request id and resolves the namespace from the
// X-Namespace header before the request reaches the other middlewares.
func (o *OpenAPIServer) metadataWare() mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			values := map[string]any{
				grizzly.MetadataKeyRequestID: ksuid.New().String(),
			}
			if ns := r.Header.Get("X-Namespace"); ns != "" {
				values[grizzly.MetadataKeyNamespace] = ns
			}
			handler.ServeHTTP(w, r.WithContext(grizzly.SetMetadataValues(r.Context(), values)))
		})
	}
}

// openAPIValidator validates inbound requests against the openapi schema
// adds openapi.path_params to the inbound metadata
// adds openapi.route to the inbound metadata
// adds openapi.header.${headerName} to the metadata
func (o *OpenAPIServer) openAPIValidator() mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			o.specMu.RLock()
			oapiRouter := o.openapiRouter
			o.specMu.RUnlock()
			values := map[string]any{}
			for k, v := range r.Header {
				values[fmt.Sprintf("openapi.header.%s", k)] = v
			}
			route, pathParams, err := oapiRouter.FindRoute(r)
			if err != nil {
				httpError.Error(w, errors.Wrap(err, errors.NotFound, "route not found"))
				return
			}
			requestValidationInput := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{AuthenticationFunc: func(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
					return nil
				}},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), requestValidationInput); err != nil {
				httpError.Error(w, errors.Wrap(err, errors.Validation, "request failed validation"))
				return
			}
			values["openapi.path_params"] = pathParams
			values["openapi.route"] = route.Path
			handler.ServeHTTP(w, r.WithContext(grizzly.SetMetadataValues(r.Context(), values)))
		})
	}
}

// loggerWare logs the request after it completes
func (o *OpenAPIServer) loggerWare() mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			handler.ServeHTTP(w, r)
			o.logger.Debug(r.Context(), "request served", map[string]any{
				"method":  r.Method,
				"path":    r.URL.Path,
				"elapsed": time.Since(start).String(),
			})
		})
	}
}
