package vrf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gangov/vrf-poker-activity/internal/drawcrypto"
)

const (
	OutputBytes         = drawcrypto.PointBytes
	ProofBytes          = drawcrypto.DLEQProofBytes
	BatchableProofBytes = drawcrypto.DLEQBatchableBytes

	inputDomain      = "VPD1|vrf|input"
	nonceDomain      = "VPD1|vrf|nonce"
	transcriptDomain = "VPD1|vrf|proof"
)

// ErrVerify is returned when a proof does not check against the public key,
// context and message it is presented with.
var ErrVerify = errors.New("vrf: verification failed")

// Output is the canonical encoding of Gamma.
type Output [OutputBytes]byte

func OutputFromBytes(b []byte) (Output, error) {
	var o Output
	if len(b) != OutputBytes {
		return o, fmt.Errorf("vrf: expected %d output bytes, got %d", OutputBytes, len(b))
	}
	copy(o[:], b)
	return o, nil
}

func (o Output) Bytes() []byte { return append([]byte(nil), o[:]...) }

// Proof is the compact (c, s) proof.
type Proof [ProofBytes]byte

func ProofFromBytes(b []byte) (Proof, error) {
	var p Proof
	if len(b) != ProofBytes {
		return p, fmt.Errorf("vrf: expected %d proof bytes, got %d", ProofBytes, len(b))
	}
	copy(p[:], b)
	return p, nil
}

func (p Proof) Bytes() []byte { return append([]byte(nil), p[:]...) }

// BatchableProof is the (R, Hr, s) proof.
type BatchableProof [BatchableProofBytes]byte

func BatchableProofFromBytes(b []byte) (BatchableProof, error) {
	var p BatchableProof
	if len(b) != BatchableProofBytes {
		return p, fmt.Errorf("vrf: expected %d batchable proof bytes, got %d", BatchableProofBytes, len(b))
	}
	copy(p[:], b)
	return p, nil
}

func (p BatchableProof) Bytes() []byte { return append([]byte(nil), p[:]...) }

// Draw is one evaluation: the output with both proof encodings.
type Draw struct {
	Output    Output
	Proof     Proof
	Batchable BatchableProof
}

func inputPoint(pk PublicKey, ctx, msg []byte) (drawcrypto.Point, error) {
	return drawcrypto.HashToPoint(inputDomain, nonNil(ctx), pk.Bytes(), nonNil(msg))
}

func baseTranscript(ctx, msg []byte) *drawcrypto.Transcript {
	tr := drawcrypto.NewTranscript(transcriptDomain)
	_ = tr.AppendMessage("ctx", nonNil(ctx))
	_ = tr.AppendMessage("msg", nonNil(msg))
	return tr
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// Sign evaluates the VRF. The result depends only on (sk, ctx, msg).
func Sign(sk *SecretKey, ctx, msg []byte) (Draw, error) {
	if sk == nil {
		return Draw{}, fmt.Errorf("%w: nil secret key", ErrInvalidKey)
	}
	h, err := inputPoint(sk.pub, ctx, msg)
	if err != nil {
		return Draw{}, err
	}
	gamma := drawcrypto.MulPoint(h, sk.x)

	w, err := drawcrypto.HashToScalar(nonceDomain, sk.nonceSeed[:], h.Bytes(), gamma.Bytes())
	if err != nil {
		return Draw{}, err
	}
	st := drawcrypto.DLEQStatement{Y: sk.pub.p, H: h, Gamma: gamma}
	proof, batch, err := drawcrypto.DLEQProve(baseTranscript(ctx, msg), st, sk.x, w)
	if err != nil {
		return Draw{}, err
	}

	var d Draw
	copy(d.Output[:], gamma.Bytes())
	copy(d.Proof[:], drawcrypto.EncodeDLEQProof(proof))
	copy(d.Batchable[:], drawcrypto.EncodeDLEQBatchable(batch))
	return d, nil
}

// Verify checks a compact proof and returns the output and batchable proof
// it recomputes. Any failure, including malformed encodings, wraps ErrVerify.
func Verify(pk PublicKey, ctx, msg []byte, out Output, proof Proof) (Output, BatchableProof, error) {
	if pk.IsZero() {
		return Output{}, BatchableProof{}, fmt.Errorf("%w: %v", ErrVerify, ErrInvalidKey)
	}
	gamma, err := drawcrypto.PointFromBytes(out[:])
	if err != nil {
		return Output{}, BatchableProof{}, fmt.Errorf("%w: output: %v", ErrVerify, err)
	}
	p, err := drawcrypto.DecodeDLEQProof(proof[:])
	if err != nil {
		return Output{}, BatchableProof{}, fmt.Errorf("%w: proof: %v", ErrVerify, err)
	}
	h, err := inputPoint(pk, ctx, msg)
	if err != nil {
		return Output{}, BatchableProof{}, fmt.Errorf("%w: %v", ErrVerify, err)
	}
	st := drawcrypto.DLEQStatement{Y: pk.p, H: h, Gamma: gamma}
	batch, ok, err := drawcrypto.DLEQVerify(baseTranscript(ctx, msg), st, p)
	if err != nil {
		return Output{}, BatchableProof{}, fmt.Errorf("%w: %v", ErrVerify, err)
	}
	if !ok {
		return Output{}, BatchableProof{}, ErrVerify
	}

	var rOut Output
	var rBatch BatchableProof
	copy(rOut[:], gamma.Bytes())
	copy(rBatch[:], drawcrypto.EncodeDLEQBatchable(batch))
	return rOut, rBatch, nil
}

// VerifyBatchable checks a single batchable proof.
func VerifyBatchable(pk PublicKey, ctx, msg []byte, out Output, proof BatchableProof) error {
	it, err := decodeItem(BatchItem{PublicKey: pk, Context: ctx, Message: msg, Output: out, Proof: proof})
	if err != nil {
		return err
	}
	ok, err := drawcrypto.DLEQVerifyBatchable(baseTranscript(ctx, msg), it.st, it.b)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerify, err)
	}
	if !ok {
		return ErrVerify
	}
	return nil
}

// CompactProof re-encodes a batchable proof in the compact (c, s) form. It
// only recomputes the challenge; the proof itself is checked by
// VerifyBatchable or VerifyBatch.
func CompactProof(pk PublicKey, ctx, msg []byte, out Output, proof BatchableProof) (Proof, error) {
	it, err := decodeItem(BatchItem{PublicKey: pk, Context: ctx, Message: msg, Output: out, Proof: proof})
	if err != nil {
		return Proof{}, err
	}
	c, err := drawcrypto.DLEQChallengeFor(baseTranscript(ctx, msg), it.st, it.b)
	if err != nil {
		return Proof{}, fmt.Errorf("%w: %v", ErrVerify, err)
	}
	var p Proof
	copy(p[:], drawcrypto.EncodeDLEQProof(drawcrypto.DLEQProof{C: c, S: it.b.S}))
	return p, nil
}

// Equal reports whether two batchable proofs are byte-identical.
func (p BatchableProof) Equal(other BatchableProof) bool {
	return bytes.Equal(p[:], other[:])
}
