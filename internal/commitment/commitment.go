// Package commitment implements the hiding, binding commitment players
// publish before revealing their random contribution.
package commitment

import (
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/gangov/vrf-poker-activity/internal/entropy"
)

const (
	DigestBytes = 32
	// SaltBytes keeps a 32-bit value from being recovered by enumerating
	// all 2^32 candidates against the digest.
	SaltBytes = 16

	domain = "VPD1|commitment"
)

// ErrInvalidCommitment occurs when an opening does not match its digest.
var ErrInvalidCommitment = errors.New("commitment: opening does not match digest")

type Digest [DigestBytes]byte

func DigestFromHex(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("commitment: decode digest: %w", err)
	}
	if len(b) != DigestBytes {
		return d, fmt.Errorf("commitment: expected %d digest bytes, got %d", DigestBytes, len(b))
	}
	copy(d[:], b)
	return d, nil
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

func (d Digest) IsZero() bool { return d == Digest{} }

// Opening is what a player reveals: the committed value and its salt.
type Opening struct {
	Value uint32
	Salt  [SaltBytes]byte
}

// ValueBytes is the 4-byte little-endian encoding of the committed value.
func (o Opening) ValueBytes() []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], o.Value)
	return b[:]
}

// NewOpening draws a fresh value and salt from rand.
func NewOpening(rand io.Reader) (Opening, error) {
	v, err := entropy.Uint32(rand)
	if err != nil {
		return Opening{}, fmt.Errorf("commitment: read value: %w", err)
	}
	o := Opening{Value: v}
	if _, err := io.ReadFull(rand, o.Salt[:]); err != nil {
		return Opening{}, fmt.Errorf("commitment: read salt: %w", err)
	}
	return o, nil
}

func writeLenPrefixed(w io.Writer, b []byte) {
	var l [4]byte
	binary.LittleEndian.PutUint32(l[:], uint32(len(b)))
	w.Write(l[:])
	w.Write(b)
}

// Commit binds the opening to the round's domain tag and the committing
// player's public key.
func Commit(domainTag, publicKey []byte, o Opening) Digest {
	h := sha3.New256()
	writeLenPrefixed(h, []byte(domain))
	writeLenPrefixed(h, domainTag)
	writeLenPrefixed(h, publicKey)
	writeLenPrefixed(h, o.Salt[:])
	writeLenPrefixed(h, o.ValueBytes())

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Verify returns nil if o opens d.
func Verify(domainTag, publicKey []byte, d Digest, o Opening) error {
	got := Commit(domainTag, publicKey, o)
	if subtle.ConstantTimeCompare(got[:], d[:]) != 1 {
		return ErrInvalidCommitment
	}
	return nil
}
