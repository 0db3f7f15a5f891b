package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mulletclicker/internal/analytics"
	"mulletclicker/internal/db"
	"mulletclicker/internal/game"
	"mulletclicker/internal/leaderboard"
	"mulletclicker/internal/metrics"
	"mulletclicker/internal/sessions"
	"mulletclicker/internal/upgrades"
	"mulletclicker/internal/view"
	"mulletclicker/internal/wshub"

	"github.com/a-h/templ"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type Server struct {
	Sessions *sessions.Store
	Board    *leaderboard.Board
	Game     game.Config
	Catalog  *upgrades.Catalog
	Metrics  *metrics.Recorder
	Registry *prometheus.Registry
	DB       *db.DB            // nil if no database configured
	Journal  *db.JournalWriter // nil if no database configured
}

type actionResponse struct {
	OK     bool               `json:"ok"`
	Gained int64              `json:"gained,omitempty"`
	Entry  *leaderboard.Entry `json:"entry,omitempty"`
	Badges []string           `json:"badges,omitempty"`
	Error  string             `json:"error,omitempty"`
	View   *game.View         `json:"view,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] Encode error: %v\n", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, actionResponse{OK: false, Error: msg})
}

// session resolves {code} to a live session, resuming it from its save when
// it is not in memory.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *sessions.Session {
	code := r.PathValue("code")
	if sess := s.Sessions.Get(code); sess != nil {
		return sess
	}
	sess, ok, err := s.Sessions.Resume(code)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil
	}
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil
	}
	return sess
}

// act runs fn on the session loop and replies with the resulting view.
func (s *Server) act(w http.ResponseWriter, r *http.Request, sess *sessions.Session, fn func(e *game.Engine) (actionResponse, int)) {
	var resp actionResponse
	status := http.StatusOK
	err := sess.Loop.Do(r.Context(), func(e *game.Engine) {
		resp, status = fn(e)
		v := e.View()
		resp.View = &v
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := view.HomeData{
		Title:       "Mullet Clicker",
		Variant:     string(s.Game.Variant),
		WinAmount:   s.Game.WinAmount,
		Leaderboard: s.Board.Entries(),
		Upgrades:    s.Catalog.List(),
	}
	templ.Handler(view.HomePage(data)).ServeHTTP(w, r)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	log.Println("[Handle:CreateSession] Request Received")

	var sess *sessions.Session
	if code := r.FormValue("code"); code != "" {
		resumed, ok, err := s.Sessions.Resume(code)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "no saved game for that code")
			return
		}
		sess = resumed
	} else {
		created, err := s.Sessions.Create()
		if err != nil {
			log.Println(err)
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
		sess = created
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_code",
		Value:    sess.Code,
		Path:     "/",
		HttpOnly: true,
	})

	log.Printf("[Handle:CreateSession] Session %s\n", sess.Code)
	writeJSON(w, http.StatusCreated, map[string]string{"code": sess.Code, "id": sess.ID})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	v, err := sess.Loop.View(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	s.act(w, r, sess, func(e *game.Engine) (actionResponse, int) {
		if e.Won() {
			return actionResponse{Error: "run is over"}, http.StatusConflict
		}
		return actionResponse{OK: true, Gained: e.Click()}, http.StatusOK
	})
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	id := r.PathValue("id")
	if _, ok := s.Catalog.Get(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown upgrade %q", id))
		return
	}
	s.act(w, r, sess, func(e *game.Engine) (actionResponse, int) {
		if !e.Purchase(id) {
			return actionResponse{Error: "cannot buy " + id}, http.StatusConflict
		}
		return actionResponse{OK: true}, http.StatusOK
	})
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	targetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target ID")
		return
	}
	s.act(w, r, sess, func(e *game.Engine) (actionResponse, int) {
		reward, ok := e.HitTarget(targetID)
		if !ok {
			return actionResponse{Error: "target already hit or gone"}, http.StatusConflict
		}
		return actionResponse{OK: true, Gained: reward}, http.StatusOK
	})
}

func submittedName(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			return body.Name
		}
		return ""
	}
	return r.FormValue("name")
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	log.Println("[Handle:Submit] Request Received")
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	name := submittedName(r)

	entry, badges, err := s.submit(r.Context(), sess, name)
	switch {
	case errors.Is(err, game.ErrNotWon), errors.Is(err, game.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true, Entry: &entry, Badges: badges})
}

// submit records the session's winning time and, with a database, the run
// and its badges.
func (s *Server) submit(ctx context.Context, sess *sessions.Session, name string) (leaderboard.Entry, []string, error) {
	var (
		entry     leaderboard.Entry
		submitErr error
		run       db.RunRecord
	)
	err := sess.Loop.Do(ctx, func(e *game.Engine) {
		entry, submitErr = e.SubmitScore(name)
		if submitErr != nil {
			return
		}
		stats := e.Stats()
		run = db.RunRecord{
			SessionID:     sess.ID,
			SessionCode:   sess.Code,
			Variant:       string(e.Config().Variant),
			Name:          entry.Name,
			Elapsed:       entry.Time,
			Clicks:        stats.Clicks,
			Purchases:     stats.Purchases,
			TargetsHit:    stats.TargetsHit,
			FinalCurrency: e.Player().Currency,
			FinishedAt:    time.Now(),
		}
	})
	if err != nil {
		return entry, nil, err
	}
	if submitErr != nil {
		return entry, nil, submitErr
	}

	earned := analytics.EvaluateRunBadges(analytics.RunStats{
		Elapsed:       run.Elapsed,
		Clicks:        run.Clicks,
		Purchases:     run.Purchases,
		TargetsHit:    run.TargetsHit,
		FinalCurrency: run.FinalCurrency,
	})
	if s.DB != nil {
		if _, err := analytics.NewQueries(s.DB).RecordWin(run); err != nil {
			log.Printf("[DB] RecordWin error: %v\n", err)
		}
	}

	ids := make([]string, 0, len(earned))
	for _, b := range earned {
		ids = append(ids, string(b.ID))
	}
	return entry, ids, nil
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	log.Println("[Handle:Reset] Request Received")
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	s.act(w, r, sess, func(e *game.Engine) (actionResponse, int) {
		e.Reset()
		return actionResponse{OK: true}, http.StatusOK
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(msgChan)

	if v, err := sess.Loop.View(r.Context()); err == nil {
		if data, err := json.Marshal(v); err == nil {
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			fmt.Fprintf(w, "data: %s\n\n", msg.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WSHub] Accept error: %v\n", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := &wshub.Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, 32),
	}
	sess.Hub.Register(client)
	defer sess.Hub.Unregister(client.ID)
	go client.WritePump(ctx)

	if v, err := sess.Loop.View(ctx); err == nil {
		sess.Hub.SendTo(client.ID, wshub.ServerMessage{Type: "state", View: &v})
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg wshub.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.Hub.SendTo(client.ID, wshub.ServerMessage{Type: "error", Error: "malformed message"})
			continue
		}

		var applyErr error
		if msg.Type == "submit" {
			_, _, applyErr = s.submit(ctx, sess, msg.Name)
		} else if err := sess.Loop.Do(ctx, func(e *game.Engine) { applyErr = wshub.Apply(e, msg) }); err != nil {
			return
		}
		if applyErr != nil {
			sess.Hub.SendTo(client.ID, wshub.ServerMessage{Type: "error", Error: applyErr.Error()})
		}
	}
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries := s.Board.Entries()
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db_error", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": len(s.Sessions.List())})
}
