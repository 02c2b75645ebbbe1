// Package vrf implements a verifiable random function over ristretto255.
//
// Evaluation maps (secret key, context, message) to a point Gamma = x*H where
// H = HashToPoint(context, public key, message), together with a
// Chaum-Pedersen proof that log_G(Y) == log_H(Gamma). Proofs come in two
// encodings: a compact (c, s) form and a batchable (R, Hr, s) form which
// VerifyBatch folds into a single multi-scalar multiplication.
package vrf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gangov/vrf-poker-activity/internal/drawcrypto"
)

const (
	PublicKeyBytes = drawcrypto.PointBytes
	nonceSeedBytes = 32
)

var ErrInvalidKey = errors.New("vrf: invalid key")

// PublicKey identifies a signer.
type PublicKey struct {
	p  drawcrypto.Point
	ok bool
}

func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != PublicKeyBytes {
		return PublicKey{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, PublicKeyBytes, len(b))
	}
	p, err := drawcrypto.PointFromBytes(b)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if p.IsIdentity() {
		return PublicKey{}, fmt.Errorf("%w: identity point", ErrInvalidKey)
	}
	return PublicKey{p: p, ok: true}, nil
}

func PublicKeyFromHex(s string) (PublicKey, error) {
	b, err := drawcrypto.HexToBytes(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return PublicKeyFromBytes(b)
}

func (pk PublicKey) Bytes() []byte {
	if !pk.ok {
		return make([]byte, PublicKeyBytes)
	}
	return pk.p.Bytes()
}

// String returns the 0x-prefixed hex encoding.
func (pk PublicKey) String() string { return drawcrypto.BytesToHex(pk.Bytes()) }

func (pk PublicKey) Equal(other PublicKey) bool {
	return bytes.Equal(pk.Bytes(), other.Bytes())
}

// IsZero reports whether pk is the zero value rather than a decoded key.
func (pk PublicKey) IsZero() bool {
	return !pk.ok
}

// SecretKey holds the signing scalar and the seed that nonces are derived
// from. It has no serialized form.
type SecretKey struct {
	x         drawcrypto.Scalar
	nonceSeed [nonceSeedBytes]byte
	pub       PublicKey
}

// GenerateKey draws a fresh key pair from rand.
func GenerateKey(rand io.Reader) (*SecretKey, error) {
	if rand == nil {
		return nil, fmt.Errorf("vrf: nil random source")
	}
	var wide [64]byte
	for {
		if _, err := io.ReadFull(rand, wide[:]); err != nil {
			return nil, fmt.Errorf("vrf: read key material: %w", err)
		}
		x, err := drawcrypto.ScalarFromUniformBytes(wide[:])
		if err != nil {
			return nil, err
		}
		if x.IsZero() {
			continue
		}
		sk := &SecretKey{x: x, pub: PublicKey{p: drawcrypto.MulBase(x), ok: true}}
		if _, err := io.ReadFull(rand, sk.nonceSeed[:]); err != nil {
			return nil, fmt.Errorf("vrf: read nonce seed: %w", err)
		}
		return sk, nil
	}
}

func (sk *SecretKey) Public() PublicKey { return sk.pub }
