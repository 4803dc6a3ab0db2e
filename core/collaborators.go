package core

import (
	"crypto/rand"
	"time"
)

// Fetcher retrieves a remote resource by subject URL. The core never
// implements network fetching itself — implementations (including no-ops)
// live in external collaborator packages (spec.md §6).
type Fetcher interface {
	Fetch(subject string) (*Resource, error)
}

// Clock supplies the current time, injected so commit/agent creation can
// be tested with a fixed instant (spec.md §9 Design Notes).
type Clock interface {
	NowMS() int64
}

// RNG supplies cryptographic-quality random bytes, injected so keypair
// generation can be tested deterministically.
type RNG interface {
	Bytes(n int) ([]byte, error)
}

// systemClock is the default Clock, backed by time.Now.
type systemClock struct{}

func (systemClock) NowMS() int64 { return time.Now().UnixMilli() }

// SystemClock is the default Clock implementation.
var SystemClock Clock = systemClock{}

// cryptoRNG is the default RNG, backed by crypto/rand.
type cryptoRNG struct{}

func (cryptoRNG) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, &IOError{Op: "read random bytes", Err: err}
	}
	return b, nil
}

// CryptoRNG is the default, cryptographically secure RNG implementation.
var CryptoRNG RNG = cryptoRNG{}
