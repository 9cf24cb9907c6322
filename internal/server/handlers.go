package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/vancomm/yourssweeper/internal/driver"
	"github.com/vancomm/yourssweeper/internal/mines"
)

const maxBatchBytes = 1 << 16

type NewGameParams struct {
	Difficulty string `schema:"difficulty"`
}

type PosParams struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

type PointerParams struct {
	X      int    `schema:"x,required"`
	Y      int    `schema:"y,required"`
	Button string `schema:"button"`
}

type HighScoreParams struct {
	Name string `schema:"name"`
}

type GeometryPayload struct {
	driver.Geometry
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) decode(dst any, r *http.Request) error {
	if err := s.dec.Decode(dst, r.URL.Query()); err != nil {
		return fmt.Errorf("%w: %w", driver.ErrArguments, err)
	}
	return nil
}

// do applies cmd on the driver's next step and replies with the view.
func (s *Server) do(w http.ResponseWriter, r *http.Request, cmd driver.Command) {
	if hasQuit(cmd) {
		s.sendError(w, errQuitRemote)
		return
	}
	view, err := s.driver.Do(r.Context(), cmd)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.reply(w, view)
}

func hasQuit(cmd driver.Command) bool {
	switch cmd := cmd.(type) {
	case driver.Quit:
		return true
	case driver.Batch:
		for _, c := range cmd {
			if hasQuit(c) {
				return true
			}
		}
	}
	return false
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.reply(w, s.driver.View())
}

// Starts a new game on the difficulty given by name or rows:cols:mines
// seed. Without one the current difficulty is replayed.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var params NewGameParams
	if err := s.decode(&params, r); err != nil {
		s.sendError(w, err)
		return
	}
	d := s.driver.View().Difficulty
	if params.Difficulty != "" {
		var err error
		if d, err = mines.LookupDifficulty(params.Difficulty); err != nil {
			s.sendError(w, fmt.Errorf("%w: %w", driver.ErrArguments, err))
			return
		}
	}
	s.do(w, r, driver.NewGame{Difficulty: d})
}

func (s *Server) point(w http.ResponseWriter, r *http.Request) (mines.Point, bool) {
	var params PosParams
	if err := s.decode(&params, r); err != nil {
		s.sendError(w, err)
		return mines.Point{}, false
	}
	return mines.Point{Row: params.Row, Col: params.Col}, true
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.point(w, r); ok {
		s.do(w, r, driver.Reveal{Point: p})
	}
}

func (s *Server) handleFlag(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.point(w, r); ok {
		s.do(w, r, driver.ToggleFlag{Point: p})
	}
}

func (s *Server) handleChord(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.point(w, r); ok {
		s.do(w, r, driver.Chord{Point: p})
	}
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	params := PointerParams{Button: "left"}
	if err := s.decode(&params, r); err != nil {
		s.sendError(w, err)
		return
	}
	button, err := driver.ParseButton(params.Button)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.do(w, r, driver.Pointer{X: params.X, Y: params.Y, Button: button})
}

// Accepts newline-separated commands in the body, in the syntax of
// [driver.ParseCommand]. The commands are applied within one step, in
// order, stopping at the first that fails. A malformed batch is rejected
// before anything is applied.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBatchBytes))
	if err != nil {
		s.sendError(w, err)
		return
	}
	batch, err := driver.ParseBatch(string(body))
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.do(w, r, batch)
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	g := s.driver.Geometry()
	width, height := g.Size(s.driver.View().Difficulty)
	s.reply(w, GeometryPayload{Geometry: g, Width: width, Height: height})
}

func (s *Server) handleClaimHighScore(w http.ResponseWriter, r *http.Request) {
	var params HighScoreParams
	if err := s.decode(&params, r); err != nil {
		s.sendError(w, err)
		return
	}
	s.do(w, r, driver.ClaimHighScore{Name: params.Name})
}

func (s *Server) handleGetHighScores(w http.ResponseWriter, r *http.Request) {
	s.reply(w, s.ledger.Entries())
}
