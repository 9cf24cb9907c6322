package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/yourssweeper/internal/driver"
	"github.com/vancomm/yourssweeper/internal/ledger"
	"github.com/vancomm/yourssweeper/internal/middleware"
	"github.com/vancomm/yourssweeper/internal/mines"
)

var errQuitRemote = errors.New("quit is not available remotely")

// Server exposes a [driver.Driver] over HTTP and WebSocket.
type Server struct {
	driver   *driver.Driver
	ledger   *ledger.Ledger
	log      logrus.FieldLogger
	dec      *schema.Decoder
	upgrader websocket.Upgrader
}

func New(d *driver.Driver, l *ledger.Ledger, log logrus.FieldLogger) *Server {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Server{
		driver: d,
		ledger: l,
		log:    log,
		dec:    dec,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				log.Debug("ws origin: ", r.Header.Get("Origin"))
				return true
			},
		},
	}
}

// Handler routes the API. Cross-origin requests are allowed from origins,
// or from anywhere when none are given.
func (s *Server) Handler(origins ...string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/game", s.handleGetGame)
	mux.HandleFunc("POST /v1/game", s.handleNewGame)
	mux.HandleFunc("POST /v1/game/reveal", s.handleReveal)
	mux.HandleFunc("POST /v1/game/flag", s.handleFlag)
	mux.HandleFunc("POST /v1/game/chord", s.handleChord)
	mux.HandleFunc("POST /v1/game/pointer", s.handlePointer)
	mux.HandleFunc("POST /v1/game/batch", s.handleBatch)
	mux.HandleFunc("GET /v1/game/connect", s.handleConnect)
	mux.HandleFunc("GET /v1/geometry", s.handleGeometry)

	mux.HandleFunc("POST /v1/highscore", s.handleClaimHighScore)
	mux.HandleFunc("GET /v1/highscores", s.handleGetHighScores)

	return middleware.Wrap(mux,
		middleware.Logging(s.log),
		middleware.Cors(origins...),
	)
}

type errorPayload struct {
	Error string `json:"error"`
}

func sendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, driver.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, driver.ErrNoHighScore):
		return http.StatusConflict
	case errors.Is(err, errQuitRemote):
		return http.StatusForbidden
	case errors.Is(err, driver.ErrArguments),
		errors.Is(err, driver.ErrUnknownCommand),
		errors.Is(err, mines.ErrInvalidConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) sendError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
		message = "internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := sendJSON(w, errorPayload{Error: message}); err != nil {
		s.log.Error(err)
	}
}

func (s *Server) reply(w http.ResponseWriter, v any) {
	if _, err := sendJSON(w, v); err != nil {
		s.log.Error(err)
	}
}
