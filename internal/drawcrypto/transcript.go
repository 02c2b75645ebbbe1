package drawcrypto

import (
	"crypto/sha512"
	"fmt"
)

var (
	transcriptPrefix = []byte("VPD1|transcript|")
)

// Transcript is a Fiat-Shamir transcript. Every message is framed as
// "msg" || len(label) || label || len(msg) || msg.
//
// It stores the transcript bytes rather than a mutable hash state, since
// Go's sha512 hash implementation does not support cloning.
type Transcript struct {
	state []byte
}

func NewTranscript(domainSep string) *Transcript {
	dst := []byte(domainSep)
	st := make([]byte, 0, len(transcriptPrefix)+4+len(dst))
	st = append(st, transcriptPrefix...)
	st = append(st, u32le(uint32(len(dst)))...)
	st = append(st, dst...)
	return &Transcript{state: st}
}

func (t *Transcript) AppendMessage(label string, msg []byte) error {
	if t == nil {
		return fmt.Errorf("transcript: nil receiver")
	}
	if msg == nil {
		return fmt.Errorf("transcript: nil msg for %q", label)
	}
	lb := []byte(label)
	t.state = append(t.state, []byte("msg")...)
	t.state = append(t.state, u32le(uint32(len(lb)))...)
	t.state = append(t.state, lb...)
	t.state = append(t.state, u32le(uint32(len(msg)))...)
	t.state = append(t.state, msg...)
	return nil
}

// Clone returns an independent copy; appends to one do not affect the other.
func (t *Transcript) Clone() *Transcript {
	return &Transcript{state: append([]byte(nil), t.state...)}
}

func (t *Transcript) challengeBytes(label string) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript: nil receiver")
	}
	lb := []byte(label)
	h := sha512.New()
	h.Write(t.state)
	h.Write([]byte("challenge"))
	h.Write(u32le(uint32(len(lb))))
	h.Write(lb)
	return h.Sum(nil), nil // 64 bytes
}

func (t *Transcript) ChallengeScalar(label string) (Scalar, error) {
	digest, err := t.challengeBytes(label)
	if err != nil {
		return Scalar{}, err
	}
	return ScalarFromUniformBytes(digest)
}
