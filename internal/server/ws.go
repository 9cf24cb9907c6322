package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/yourssweeper/internal/driver"
)

// Streams every published view to the client. Text frames from the
// client are command batches; failures are answered with an error
// payload and the connection stays open.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade")
		return
	}
	defer c.Close()

	views, cancel := s.driver.Subscribe()
	defer cancel()

	errs := make(chan error)
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		s.readCommands(r.Context(), c, errs)
	}()

	for {
		select {
		case view, ok := <-views:
			if !ok {
				c.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game stopped"))
				return
			}
			if err := c.WriteJSON(view); err != nil {
				s.log.WithError(err).Warn("write")
				return
			}
		case err := <-errs:
			if err := c.WriteJSON(errorPayload{Error: err.Error()}); err != nil {
				s.log.WithError(err).Warn("write")
				return
			}
		case <-readDone:
			return
		}
	}
}

func (s *Server) readCommands(ctx context.Context, c *websocket.Conn, errs chan<- error) {
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway,
			) {
				s.log.WithError(err).Debug("read")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		text := strings.TrimSpace(string(message))
		s.log.Debug("ws > ", text)

		batch, err := driver.ParseBatch(text)
		if err == nil && hasQuit(batch) {
			err = errQuitRemote
		}
		if err == nil {
			_, err = s.driver.Do(ctx, batch)
		}
		if err != nil {
			select {
			case errs <- err:
			case <-ctx.Done():
				return
			}
		}
	}
}
