// Package apitest runs an in-memory stand-in for the LegendLift backend.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"liftdesk/internal/domain"
)

const (
	// DefaultToken is the bearer token the fake accepts
	DefaultToken = "test-token"
	// MaxTechnicians mirrors the backend's per-job assignment limit
	MaxTechnicians = 3
)

// Request is a recorded inbound request
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Server is a fake backend serving collections keyed by resource name
type Server struct {
	*httptest.Server

	Token    string
	Email    string
	Password string
	User     domain.Item

	mu         sync.Mutex
	data       map[string][]domain.Item
	nextID     int
	failAssign map[string]int
	hook       func(*http.Request)
	requests   []Request
}

// New starts a fake backend. Close it with srv.Close().
func New() *Server {
	s := &Server{
		Token:      DefaultToken,
		Email:      "admin@legendlift.test",
		Password:   "secret",
		User:       domain.Item{"id": json.Number("1"), "email": "admin@legendlift.test", "name": "Admin", "role": "admin"},
		data:       make(map[string][]domain.Item),
		nextID:     100,
		failAssign: make(map[string]int),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// BaseURL is the API root clients should be configured with
func (s *Server) BaseURL() string {
	return s.URL + "/api/v1"
}

// Seed replaces a resource's collection
func (s *Server) Seed(resource string, items ...domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[resource] = append([]domain.Item(nil), items...)
}

// Items returns a snapshot of a resource's collection
func (s *Server) Items(resource string) []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Item(nil), s.data[resource]...)
}

// Find returns the item with id in resource, or nil
func (s *Server) Find(resource, id string) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(resource, id); i >= 0 {
		return s.data[resource][i]
	}
	return nil
}

// FailAssign makes every assign of memberID answer with status
func (s *Server) FailAssign(memberID string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAssign[memberID] = status
}

// SetHook installs fn to run before every handler. It may block.
func (s *Server) SetHook(fn func(*http.Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = fn
}

// Requests returns every request received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireToken)
	authed.HandleFunc("/auth/me", s.me).Methods(http.MethodGet)
	authed.HandleFunc("/admin/technicians", s.technicians).Methods(http.MethodGet)
	authed.HandleFunc("/services/schedules", s.listResource("services")).Methods(http.MethodGet)
	authed.HandleFunc("/{res}/", s.list).Methods(http.MethodGet)
	authed.HandleFunc("/{res}/", s.create).Methods(http.MethodPost)
	authed.HandleFunc("/{res}/{id}", s.update).Methods(http.MethodPut)
	authed.HandleFunc("/{res}/{id}", s.remove).Methods(http.MethodDelete)
	authed.HandleFunc("/{res}/{id}/assign", s.assign).Methods(http.MethodPost)
	authed.HandleFunc("/{res}/{id}/unassign/{member}", s.unassign).Methods(http.MethodDelete)
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
		hook := s.hook
		s.mu.Unlock()

		if hook != nil {
			hook(r)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.Token {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if creds.Email != s.Email || creds.Password != s.Password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": s.Token, "token_type": "bearer"})
}

func (s *Server) me(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.User)
}

func (s *Server) technicians(w http.ResponseWriter, _ *http.Request) {
	users := s.Items("technicians")
	writeJSON(w, http.StatusOK, map[string]any{"total_count": len(users), "users": users})
}

func (s *Server) listResource(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		items := s.Items(resource)
		if items == nil {
			items = []domain.Item{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.listResource(mux.Vars(r)["res"])(w, r)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	res := mux.Vars(r)["res"]
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	s.nextID++
	body["id"] = json.Number(strconv.Itoa(s.nextID))
	body["created_at"] = time.Now().UTC().Format("2006-01-02T15:04:05")
	if _, ok := body["technicians"]; !ok {
		body["technicians"] = []any{}
	}
	s.data[res] = append(s.data[res], body)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	i := s.indexOf(vars["res"], vars["id"])
	if i < 0 {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", vars["res"], vars["id"]))
		return
	}
	item := s.data[vars["res"]][i]
	for k, v := range body {
		if k != "id" {
			item[k] = v
		}
	}
	item["updated_at"] = time.Now().UTC().Format("2006-01-02T15:04:05")
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, item)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(vars["res"], vars["id"])
	if i < 0 {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", vars["res"], vars["id"]))
		return
	}
	items := s.data[vars["res"]]
	s.data[vars["res"]] = append(items[:i:i], items[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assign(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	var member string
	for _, v := range body {
		member = domain.Stringify(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if status, fail := s.failAssign[member]; fail {
		writeDetail(w, status, fmt.Sprintf("Technician %s is not available", member))
		return
	}
	i := s.indexOf(vars["res"], vars["id"])
	if i < 0 {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", vars["res"], vars["id"]))
		return
	}
	item := s.data[vars["res"]][i]
	current := item.Strings("technicians")
	if len(current) >= MaxTechnicians {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Maximum %d technicians can be assigned", MaxTechnicians))
		return
	}
	techs := make([]any, 0, len(current)+1)
	for _, t := range current {
		techs = append(techs, t)
	}
	item["technicians"] = append(techs, member)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Technician assigned"})
}

func (s *Server) unassign(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(vars["res"], vars["id"])
	if i < 0 {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", vars["res"], vars["id"]))
		return
	}
	item := s.data[vars["res"]][i]
	techs := []any{}
	for _, t := range item.Strings("technicians") {
		if t != vars["member"] {
			techs = append(techs, t)
		}
	}
	item["technicians"] = techs
	writeJSON(w, http.StatusOK, map[string]string{"message": "Technician unassigned"})
}

// indexOf must be called with s.mu held
func (s *Server) indexOf(resource, id string) int {
	for i, item := range s.data[resource] {
		if item.ID("") == id {
			return i
		}
	}
	return -1
}

func decodeBody(w http.ResponseWriter, r *http.Request) (domain.Item, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return nil, false
	}
	return domain.Item(body), true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
