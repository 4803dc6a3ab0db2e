package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/atomicdata-dev/atomic-go/core"
)

type fixedClock struct{ ms int64 }

func (f fixedClock) NowMS() int64 { return f.ms }

func newTestStoreWithAgent(t *testing.T) (*core.Store, core.Agent) {
	t.Helper()
	s := core.NewStore("https://localhost", nil, fixedClock{ms: 1000}, core.CryptoRNG)
	if err := s.Populate(); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	agent, err := s.CreateAgent("test_actor")
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	return s, agent
}

func TestHandleTPF(t *testing.T) {
	s, _ := newTestStoreWithAgent(t)
	srv := New(s, nil)
	router := srv.Router()

	q := url.Values{}
	q.Set("property", core.PropIsA)
	q.Set("value", `["`+core.ClassClass+`"]`)
	req := httptest.NewRequest(http.MethodGet, "/tpf?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var atoms []wireAtom
	if err := json.Unmarshal(w.Body.Bytes(), &atoms); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(atoms) != 11 {
		t.Fatalf("expected 11 atoms, got %d", len(atoms))
	}
}

func TestHandleCommit(t *testing.T) {
	s, agent := newTestStoreWithAgent(t)
	srv := New(s, nil)
	router := srv.Router()

	b := core.NewCommitBuilder("https://localhost/thing1", agent.Subject)
	b.Set(core.PropDescription, "hello from http")
	commit, err := b.Sign(agent.PrivateKey, fixedClock{ms: 2000})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	body := wireCommit{
		Subject:   commit.Subject,
		CreatedAt: commit.CreatedAt,
		Signer:    commit.Signer,
		Set:       commit.Set,
		Signature: commit.Signature,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal commit: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/commit", strings.NewReader(string(payload)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	r, err := s.GetResource("https://localhost/thing1")
	if err != nil {
		t.Fatalf("GetResource failed: %v", err)
	}
	desc, err := r.Get(core.PropDescription)
	if err != nil || desc.String() != "hello from http" {
		t.Fatalf("expected description 'hello from http', got %v (err %v)", desc, err)
	}
}

func TestHandlePathMissingParam(t *testing.T) {
	s, _ := newTestStoreWithAgent(t)
	srv := New(s, nil)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/path", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleResourceNotFound(t *testing.T) {
	s, _ := newTestStoreWithAgent(t)
	srv := New(s, nil)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
