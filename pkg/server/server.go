// Package server exposes the store kernel over HTTP: a TPF query endpoint,
// a path-resolver endpoint, plain resource GETs, and a commit POST
// endpoint. spec.md §1 places "the HTTP server handlers" outside the core's
// scope; this package is the supplemented external collaborator, built
// atop core.Storelike only, following the layering of the teacher's
// walletserver (routes / controllers over a service), translated to
// chi.Router per this repo's HTTP framework of choice.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/atomicdata-dev/atomic-go/core"
)

var errMissingPath = errors.New("missing required query param: path")

// Server wires a core.Storelike to a chi.Router. It holds no state of its
// own beyond the store.
type Server struct {
	store  core.Storelike
	logger *log.Logger
}

// New builds a Server over store. A nil logger falls back to a logger
// writing to io.Discard, matching core.SetLogger's default.
func New(store core.Storelike, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New()
		logger.SetOutput(io.Discard)
	}
	return &Server{store: store, logger: logger}
}

// Router builds the chi.Mux exposing this store's HTTP surface.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/tpf", s.handleTPF)
	r.Get("/path", s.handlePath)
	r.Post("/commit", s.handleCommit)
	r.Get("/*", s.handleResource)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.WithFields(log.Fields{"method": r.Method, "path": r.URL.Path}).Info("request")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// handleTPF serves the TPF HTTP query (spec.md §6): subject/property/value
// query params, each optional, plus includeExternal, which is true unless
// given as "false".
func (s *Server) handleTPF(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	subject := optionalParam(q, "subject")
	property := optionalParam(q, "property")
	value := optionalParam(q, "value")
	includeExternal := q.Get("includeExternal") != "false"

	atoms, err := s.store.TPF(subject, property, value, includeExternal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, atomsToWire(atoms))
}

func optionalParam(q map[string][]string, key string) *string {
	vals, ok := q[key]
	if !ok || len(vals) == 0 || vals[0] == "" {
		return nil
	}
	return &vals[0]
}

type wireAtom struct {
	Subject  string `json:"subject"`
	Property string `json:"property"`
	Value    string `json:"value"`
}

func atomsToWire(atoms []core.Atom) []wireAtom {
	out := make([]wireAtom, 0, len(atoms))
	for _, a := range atoms {
		out = append(out, wireAtom{Subject: a.Subject, Property: a.Property, Value: a.Value.String()})
	}
	return out
}

// handlePath serves the path-resolver endpoint: ?path=root+children+1.
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, errMissingPath)
		return
	}
	result, err := s.store.GetPath(path, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if result.Atom != nil {
		writeJSON(w, http.StatusOK, wireAtom{
			Subject:  result.Atom.Subject,
			Property: result.Atom.Property,
			Value:    result.Atom.Value.String(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"subject": result.Subject})
}

// handleCommit accepts a signed Commit as a JSON body and applies it.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var wire wireCommit
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	commit := wire.toCommit()
	resource, err := s.store.Commit(commit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"subject": resource.Subject()})
}

type wireCommit struct {
	Subject   string            `json:"subject"`
	CreatedAt int64             `json:"createdAt"`
	Signer    string            `json:"signer"`
	Set       map[string]string `json:"set,omitempty"`
	Remove    []string          `json:"remove,omitempty"`
	Destroy   bool              `json:"destroy,omitempty"`
	Signature string            `json:"signature"`
}

func (w wireCommit) toCommit() core.Commit {
	return core.Commit{
		Subject:   w.Subject,
		CreatedAt: w.CreatedAt,
		Signer:    w.Signer,
		Set:       w.Set,
		Remove:    w.Remove,
		Destroy:   w.Destroy,
		Signature: w.Signature,
	}
}

// handleResource serves a plain resource GET whose subject is the store's
// base URL followed by the request path (the store mints subjects under
// its own base URL, so a request to the server's own origin resolves
// directly). The request's host and query string are not used.
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	subject := s.store.GetBaseURL() + r.URL.Path
	resource, err := s.store.GetResource(subject)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	doc := map[string]interface{}{"@id": resource.Subject()}
	for prop, val := range resource.PropVals() {
		doc[prop] = val.String()
	}
	writeJSON(w, http.StatusOK, doc)
}
