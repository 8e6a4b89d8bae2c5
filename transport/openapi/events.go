package openapi

import (
	"context"
	"net/http"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/transport/openapi/httpError"
)

// eventsHandler streams administration events over a websocket until the
// client disconnects. The optional collection query parameter narrows the
// stream to a single collection.
func (o *OpenAPIServer) eventsHandler(db grizzly.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := o.upgrader.Upgrade(w, r, nil)
		if err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to upgrade socket events request"))
			return
		}
		defer conn.Close()
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		collection := r.URL.Query().Get("collection")
		// the read pump only exists to observe the client closing the socket
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
		err = db.Events(ctx, func(ctx context.Context, event grizzly.Event) (bool, error) {
			if collection != "" && event.Collection != collection {
				return true, nil
			}
			if err := conn.WriteJSON(event); err != nil {
				return false, nil
			}
			return true, nil
		})
		if err != nil && ctx.Err() == nil {
			o.logger.Error(ctx, "event stream failed", map[string]any{"error": err.Error()})
		}
	}
}
