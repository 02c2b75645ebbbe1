package round

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gangov/vrf-poker-activity/internal/commitment"
	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

// Transcript is the public record of a resolved round, sufficient for any
// third party to audit it. Players appear in registration order.
type Transcript struct {
	RoundID   string             `json:"roundId"`
	DomainTag []byte             `json:"domainTag"`
	Seed      []byte             `json:"seed"` // 4 bytes, little-endian
	Players   []TranscriptPlayer `json:"players"`
	Winner    int                `json:"winner"`
}

type TranscriptPlayer struct {
	PublicKey  []byte `json:"publicKey"`
	Commitment []byte `json:"commitment"`
	Value      uint32 `json:"value"`
	Salt       []byte `json:"salt"`
	Output     []byte `json:"output"`
	Proof      []byte `json:"proof"`
	Batchable  []byte `json:"batchable"`
}

// Transcript exports the round once a winner has been resolved.
func (r *Round) Transcript() (*Transcript, error) {
	if r.phase != PhaseResolved && r.phase != PhaseVerified {
		return nil, &PhaseError{Op: "transcript", Have: r.phase, Want: PhaseResolved}
	}
	t := &Transcript{
		RoundID:   r.id.String(),
		DomainTag: r.DomainTag(),
		Seed:      SeedMessage(r.seed),
		Winner:    r.winner.index,
	}
	for _, p := range r.players {
		s := p.slot.(drawn)
		t.Players = append(t.Players, TranscriptPlayer{
			PublicKey:  p.pk.Bytes(),
			Commitment: append([]byte(nil), s.digest[:]...),
			Value:      s.opening.Value,
			Salt:       append([]byte(nil), s.opening.Salt[:]...),
			Output:     s.draw.Output.Bytes(),
			Proof:      s.draw.Proof.Bytes(),
			Batchable:  s.draw.Batchable.Bytes(),
		})
	}
	return t, nil
}

// Includes finds pk among the transcript's players. A non-zero d must also
// equal the commitment recorded for that player.
func (t *Transcript) Includes(pk vrf.PublicKey, d commitment.Digest) (int, error) {
	for i, tp := range t.Players {
		if !bytes.Equal(tp.PublicKey, pk.Bytes()) {
			continue
		}
		if !d.IsZero() && !bytes.Equal(tp.Commitment, d[:]) {
			return i, &CommitmentMismatchError{Index: i, PublicKey: pk}
		}
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownPlayer, pk)
}

type decodedPlayer struct {
	digest  commitment.Digest
	opening commitment.Opening
	claim   Claim
}

func (t *Transcript) decode() (uint32, []decodedPlayer, error) {
	if len(t.Seed) != 4 {
		return 0, nil, fmt.Errorf("%w: seed must be 4 bytes, got %d", ErrInvalidTranscript, len(t.Seed))
	}
	if len(t.Players) == 0 {
		return 0, nil, fmt.Errorf("%w: no players", ErrInvalidTranscript)
	}
	if t.Winner < 0 || t.Winner >= len(t.Players) {
		return 0, nil, fmt.Errorf("%w: winner index %d out of range", ErrInvalidTranscript, t.Winner)
	}

	seen := make(map[string]bool, len(t.Players))
	out := make([]decodedPlayer, len(t.Players))
	for i, tp := range t.Players {
		bad := func(what string, err error) error {
			return fmt.Errorf("%w: player %d: %s: %v", ErrInvalidTranscript, i, what, err)
		}
		pk, err := vrf.PublicKeyFromBytes(tp.PublicKey)
		if err != nil {
			return 0, nil, bad("public key", err)
		}
		if seen[pk.String()] {
			return 0, nil, fmt.Errorf("%w: player %d: %w", ErrInvalidTranscript, i, ErrDuplicatePlayer)
		}
		seen[pk.String()] = true

		var d decodedPlayer
		if len(tp.Commitment) != commitment.DigestBytes {
			return 0, nil, bad("commitment", fmt.Errorf("expected %d bytes, got %d", commitment.DigestBytes, len(tp.Commitment)))
		}
		copy(d.digest[:], tp.Commitment)
		if len(tp.Salt) != commitment.SaltBytes {
			return 0, nil, bad("salt", fmt.Errorf("expected %d bytes, got %d", commitment.SaltBytes, len(tp.Salt)))
		}
		d.opening.Value = tp.Value
		copy(d.opening.Salt[:], tp.Salt)

		d.claim.PublicKey = pk
		if d.claim.Draw.Output, err = vrf.OutputFromBytes(tp.Output); err != nil {
			return 0, nil, bad("output", err)
		}
		if d.claim.Draw.Proof, err = vrf.ProofFromBytes(tp.Proof); err != nil {
			return 0, nil, bad("proof", err)
		}
		if d.claim.Draw.Batchable, err = vrf.BatchableProofFromBytes(tp.Batchable); err != nil {
			return 0, nil, bad("batchable proof", err)
		}
		out[i] = d
	}
	return binary.LittleEndian.Uint32(t.Seed), out, nil
}
