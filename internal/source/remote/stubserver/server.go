// Package stubserver serves a fake price endpoint for tests and local
// development. Failures can be injected per server: a fixed status and
// body, a malformed JSON payload, or a response delay.
package stubserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/jask/jaskwallet/internal/record"
)

// DefaultPath matches the default remote.base_url and remote.prices_path.
const DefaultPath = "/api/v3/price/all_prices_for_mobile"

// Failure configures how the price endpoint misbehaves. The zero value
// means no failure.
type Failure struct {
	// Status, when non-zero, is returned with Body instead of the list.
	Status int
	Body   string
	// Malformed sends a truncated JSON document with status 200.
	Malformed bool
	// Delay is applied before any response is written.
	Delay time.Duration
}

// Server holds the records served and the active failure.
type Server struct {
	router *mux.Router

	mu      sync.Mutex
	records []record.Record
	failure Failure
	hits    int
}

// New routes path (DefaultPath when empty) to the price list.
func New(path string, records []record.Record) *Server {
	if path == "" {
		path = DefaultPath
	}
	s := &Server{router: mux.NewRouter()}
	s.SetRecords(records)
	s.router.HandleFunc(path, s.handlePrices).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetRecords replaces the served list.
func (s *Server) SetRecords(list []record.Record) {
	cp := make([]record.Record, len(list))
	copy(cp, list)
	s.mu.Lock()
	s.records = cp
	s.mu.Unlock()
}

// Fail makes subsequent requests misbehave as f describes.
func (s *Server) Fail(f Failure) {
	s.mu.Lock()
	s.failure = f
	s.mu.Unlock()
}

// Recover clears any injected failure.
func (s *Server) Recover() { s.Fail(Failure{}) }

// Hits counts requests to the price endpoint.
func (s *Server) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits++
	f := s.failure
	list := make([]record.Record, len(s.records))
	copy(list, s.records)
	s.mu.Unlock()

	if f.Delay > 0 {
		t := time.NewTimer(f.Delay)
		select {
		case <-r.Context().Done():
			t.Stop()
			return
		case <-t.C:
		}
	}

	switch {
	case f.Status != 0:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.Status)
		_, _ = w.Write([]byte(f.Body))
	case f.Malformed:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":[{"base":"BTC",`))
	default:
		respondJSON(w, http.StatusOK, map[string]any{"data": list})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}
