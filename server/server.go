package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/fkessler/vedit/engine"
)

// A Server multiplexes any number of independent documents, each
// identified by a session ID, behind an HTTP API. It is the remote
// counterpart of running the command language straight over stdin: a
// Session is one engine.Engine plus the set of watchers who get
// notified when its version changes.
type Server struct {
	sync.Mutex
	sessions map[string]*Session
	nextID   int
}

// NewServer returns an empty Server.
func NewServer() *Server { return &Server{sessions: make(map[string]*Session)} }

// A Session is one document and its connected watchers.
type Session struct {
	sync.Mutex
	ID       string
	engine   *engine.Engine
	watchers map[*conn]bool
}

// SessionInfo is the JSON representation of a Session returned from
// the create and command endpoints.
type SessionInfo struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

// CommandResponse is the JSON body returned from a command POST.
type CommandResponse struct {
	SessionInfo
	Output string `json:"output"`
}

// RegisterHandlers registers the session API on r:
//
//	PUT /session                   creates a new, empty session.
//	POST /session/{id}/command     runs one command (plus any change
//	                                payload lines) against the body
//	                                and returns its printed output.
//	DELETE /session/{id}           discards a session.
//	GET /session/{id}/watch        upgrades to a websocket that
//	                                receives a VersionNotice every time
//	                                the session's cursor moves.
func (s *Server) RegisterHandlers(r *mux.Router) {
	r.HandleFunc("/session", s.createSession).Methods(http.MethodPut)
	r.HandleFunc("/session/{id}/command", s.command).Methods(http.MethodPost)
	r.HandleFunc("/session/{id}", s.closeSession).Methods(http.MethodDelete)
	r.HandleFunc("/session/{id}/watch", s.watch).Methods(http.MethodGet)
}

func notFound(w http.ResponseWriter, id string) {
	http.Error(w, "/session/"+id, http.StatusNotFound)
}

func (s *Server) getSession(req *http.Request) (*Session, error) {
	id := mux.Vars(req)["id"]
	s.Lock()
	defer s.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New(id)
	}
	return sess, nil
}

func (s *Server) createSession(w http.ResponseWriter, req *http.Request) {
	s.Lock()
	id := strconv.Itoa(s.nextID)
	s.nextID++
	sess := &Session{
		ID:       id,
		engine:   engine.New(),
		watchers: make(map[*conn]bool),
	}
	s.sessions[id] = sess
	s.Unlock()

	slog.Info("session created", "id", id)
	writeJSON(w, SessionInfo{ID: sess.ID, Version: sess.engine.Cursor()})
}

func (s *Server) closeSession(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	s.Lock()
	defer s.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		notFound(w, id)
		return
	}
	sess.Lock()
	for c := range sess.watchers {
		c.Close()
	}
	sess.Unlock()
	delete(s.sessions, id)
	slog.Info("session closed", "id", id)
}

// command runs the request body as a single command against the
// session's engine and reports its printed output and resulting
// version. The body is whatever command.Scanner.ReadCommand /
// ReadLines would read off stdin for one command: the command line,
// and for a change command, its payload lines.
func (s *Server) command(w http.ResponseWriter, req *http.Request) {
	sess, err := s.getSession(req)
	if err != nil {
		notFound(w, mux.Vars(req)["id"])
		return
	}

	sess.Lock()
	defer sess.Unlock()

	before := sess.engine.Cursor()
	var out bytes.Buffer
	body := req.Body
	defer body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	text := buf.String()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := sess.engine.Run(strings.NewReader(text), &out); err != nil {
		slog.Warn("malformed command", "session", sess.ID, "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	after := sess.engine.Cursor()
	if after != before {
		sess.notify(after)
	}

	writeJSON(w, CommandResponse{
		SessionInfo: SessionInfo{ID: sess.ID, Version: after},
		Output:      out.String(),
	})
}

func (s *Server) watch(w http.ResponseWriter, req *http.Request) {
	sess, err := s.getSession(req)
	if err != nil {
		notFound(w, mux.Vars(req)["id"])
		return
	}

	c, err := upgradeConn(w, req)
	if err != nil {
		slog.Warn("watch upgrade failed", "session", sess.ID, "err", err)
		return
	}
	slog.Info("watcher connected", "session", sess.ID)

	sess.Lock()
	sess.watchers[c] = true
	version := sess.engine.Cursor()
	sess.Unlock()

	if err := c.Send(VersionNotice{Version: version}); err != nil {
		sess.Lock()
		delete(sess.watchers, c)
		sess.Unlock()
		c.Close()
		return
	}

	go func() {
		for {
			if _, err := c.Recv(); err != nil {
				sess.Lock()
				delete(sess.watchers, c)
				sess.Unlock()
				slog.Info("watcher disconnected", "session", sess.ID)
				return
			}
		}
	}()
}

// notify pushes a VersionNotice to every watcher of sess. It must be
// called with sess's lock held.
func (sess *Session) notify(version int64) {
	for c := range sess.watchers {
		go c.Send(VersionNotice{Version: version})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
