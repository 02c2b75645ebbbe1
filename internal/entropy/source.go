// Package entropy provides the random sources players draw their committed
// values from.
package entropy

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// Source is a secure random byte stream.
type Source interface {
	io.Reader
}

// Crypto returns the operating system CSPRNG.
func Crypto() Source {
	return rand.Reader
}

// Uint32 reads a fixed-width little-endian value from src.
func Uint32(src Source) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(src, b[:]); err != nil {
		return 0, fmt.Errorf("entropy: read u32: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// Deterministic is a byte stream derived from sha256(seed || counter).
// It reproduces a simulated round exactly and must not be used where the
// seed is known to other players.
type Deterministic struct {
	mu      sync.Mutex
	seed    []byte
	counter uint64
	buf     [sha256.Size]byte
	bufPos  int
}

func NewDeterministic(seed []byte) (*Deterministic, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("entropy: empty seed")
	}
	return &Deterministic{
		seed:   append([]byte(nil), seed...),
		bufPos: sha256.Size,
	}, nil
}

func (r *Deterministic) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(p)
	for len(p) > 0 {
		if r.bufPos >= len(r.buf) {
			r.refill()
		}
		c := copy(p, r.buf[r.bufPos:])
		r.bufPos += c
		p = p[c:]
	}
	return n, nil
}

func (r *Deterministic) refill() {
	in := make([]byte, len(r.seed)+8)
	copy(in, r.seed)
	binary.LittleEndian.PutUint64(in[len(r.seed):], r.counter)
	r.counter++
	r.buf = sha256.Sum256(in)
	r.bufPos = 0
}
