// Package apitest runs an in-process stand-in for the user REST backend.
//
// The server keeps users in memory, assigns ids and createdAt itself, and
// answers 404 for unknown ids, like the production backend. Tests can read
// the request journal and make the next matching request fail with a given
// status.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

// APIPrefix is the path the routes are mounted under.
const APIPrefix = "/api"

// Request is one journal entry. Path is relative to APIPrefix.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    []models.User
	nextID   int64
	now      func() time.Time
	journal  []Request
	failures map[string]int
	hold     chan struct{}
}

// NewServer starts a server seeded with users and stops it on test cleanup.
// Seeded ids are kept; new ids continue after the largest one.
func NewServer(t testing.TB, seed ...models.User) *Server {
	t.Helper()

	s := &Server{
		nextID:   1,
		now:      time.Now,
		failures: make(map[string]int),
	}
	for _, u := range seed {
		s.users = append(s.users, u)
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route(APIPrefix+"/users", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", s.get)
			r.Put("/", s.update)
			r.Delete("/", s.delete)
		})
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value to configure as the client's API base URL.
func (s *Server) BaseURL() string {
	return s.URL + APIPrefix
}

// SetClock replaces the clock used for createdAt.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetNextID sets the id the next created user receives.
func (s *Server) SetNextID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = id
}

// FailNext makes the next request matching method and path (relative to
// APIPrefix, e.g. "/users/3") answer with status without touching state.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Hold blocks every request until the returned release func is called.
func (s *Server) Hold() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.hold = nil
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Users returns a snapshot of the stored users.
func (s *Server) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

// Requests returns a snapshot of the journal.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.journal...)
}

// Count returns how many journaled requests match method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, APIPrefix), "/")
		key := r.Method + " " + path

		s.mu.Lock()
		s.journal = append(s.journal, Request{
			Method: r.Method,
			Path:   path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		status, fail := s.failures[key]
		delete(s.failures, key)
		hold := s.hold
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if fail {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	users := s.Users()
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	u := models.User{
		ID:        s.nextID,
		Username:  in.Username,
		Email:     in.Email,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	s.nextID++
	s.users = append(s.users, u)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, u)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	i := s.indexOf(id)
	var u models.User
	if i >= 0 {
		u = s.users[i]
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	i := s.indexOf(id)
	var u models.User
	if i >= 0 {
		// id and createdAt are kept
		s.users[i].Username = in.Username
		s.users[i].Email = in.Email
		u = s.users[i]
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i >= 0 {
		s.users = append(s.users[:i], s.users[i+1:]...)
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// indexOf must be called with mu held.
func (s *Server) indexOf(id int64) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (models.UserInput, bool) {
	var in models.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return in, false
	}
	return in, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
