// Package fakebridge runs an in-process stand-in for the automation proxy so
// tests can exercise the real HTTP client.
package fakebridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/teei/idctl/pkg/bridge"
)

// Handler answers one command with an HTTP status and a JSON body.
type Handler func(cmd bridge.Command) (int, interface{})

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	received []bridge.Command
}

// New starts a fake proxy that is shut down when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{handlers: map[string]Handler{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/execute", s.execute)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "adb-proxy")
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// On registers h for action, replacing any earlier handler.
func (s *Server) On(action string, h Handler) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[action] = h
	return s
}

// Succeed makes action answer SUCCESS with payload.
func (s *Server) Succeed(action string, payload interface{}) *Server {
	return s.On(action, Success(payload))
}

// Fail makes action answer a non-SUCCESS status with message.
func (s *Server) Fail(action, message string) *Server {
	return s.On(action, Failure(message))
}

// Received returns a copy of every command seen so far.
func (s *Server) Received() []bridge.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bridge.Command, len(s.received))
	copy(out, s.received)
	return out
}

// Actions returns the action names seen so far, in order.
func (s *Server) Actions() []string {
	var out []string
	for _, c := range s.Received() {
		out = append(out, c.Action)
	}
	return out
}

// Client returns a bridge client pointed at the fake proxy.
func (s *Server) Client(t testing.TB) *bridge.Client {
	t.Helper()
	c, err := bridge.NewClient().WithURL(s.URL).WithTimeout(5 * time.Second).Init()
	if err != nil {
		t.Fatalf("init client: %v", err)
	}
	return c
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var cmd bridge.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ERROR", "message": err.Error()})
		return
	}

	s.mu.Lock()
	s.received = append(s.received, cmd)
	h, ok := s.handlers[cmd.Action]
	s.mu.Unlock()

	if !ok {
		h = Failure(fmt.Sprintf("Unknown command: %s", cmd.Action))
	}
	code, body := h(cmd)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// Success answers SUCCESS with payload as the response field.
func Success(payload interface{}) Handler {
	return func(bridge.Command) (int, interface{}) {
		body := map[string]interface{}{"status": bridge.StatusSuccess}
		if payload != nil {
			body["response"] = payload
		}
		return http.StatusOK, body
	}
}

// Failure answers a FAILURE status with message.
func Failure(message string) Handler {
	return func(bridge.Command) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{"status": "FAILURE", "message": message}
	}
}
