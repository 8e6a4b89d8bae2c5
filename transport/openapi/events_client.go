package openapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/errors"
	"github.com/gorilla/websocket"
)

type EventsClient struct {
	serverURL string
}

func NewEventsClient(serverURL string) *EventsClient {
	if strings.Contains(serverURL, "http") {
		serverURL = strings.Replace(serverURL, "http", "ws", 1)
	}
	return &EventsClient{serverURL: serverURL}
}

// Subscribe opens the event stream. A non empty collection narrows the stream
// to that collection's events.
func (c *EventsClient) Subscribe(collection string, header http.Header) (*EventSocket, error) {
	u := c.serverURL + "/api/events"
	if collection != "" {
		u = u + "?collection=" + url.QueryEscape(collection)
	}
	conn, _, err := websocket.DefaultDialer.Dial(u, header)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to connect to events websocket")
	}
	return &EventSocket{conn: conn}, nil
}

type EventSocket struct {
	conn *websocket.Conn
}

// Read blocks until the next event arrives, the context deadline passes or the
// socket closes.
func (s *EventSocket) Read(ctx context.Context) (grizzly.Event, error) {
	if err := ctx.Err(); err != nil {
		return grizzly.Event{}, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.conn.SetReadDeadline(deadline); err != nil {
			return grizzly.Event{}, err
		}
	}
	var event grizzly.Event
	if err := s.conn.ReadJSON(&event); err != nil {
		return grizzly.Event{}, err
	}
	return event, nil
}

func (s *EventSocket) Close() error {
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}
