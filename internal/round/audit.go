package round

import (
	"fmt"

	"github.com/gangov/vrf-poker-activity/internal/cards"
	"github.com/gangov/vrf-poker-activity/internal/commitment"
	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

// AuditReport is what a third party re-derived from a transcript.
type AuditReport struct {
	RoundID   string       `json:"roundId"`
	Seed      uint32       `json:"seed"`
	Cards     []cards.Card `json:"cards"`
	Winner    int          `json:"winner"`
	IsTie     bool         `json:"isTie"`
	CoWinners []int        `json:"coWinners,omitempty"`
}

// Audit re-checks a transcript from public data only: every commitment
// opens, the seed is the sum of the openings, every draw verifies against
// the seed and domain tag, and the claimed winner holds the best card.
func Audit(t *Transcript) (*AuditReport, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil transcript", ErrInvalidTranscript)
	}
	seed, players, err := t.decode()
	if err != nil {
		return nil, err
	}

	values := make([]uint32, len(players))
	for i, p := range players {
		if err := commitment.Verify(t.DomainTag, p.claim.PublicKey.Bytes(), p.digest, p.opening); err != nil {
			return nil, &CommitmentMismatchError{Index: i, PublicKey: p.claim.PublicKey}
		}
		values[i] = p.opening.Value
	}
	if got := CombineSeed(values); got != seed {
		return nil, fmt.Errorf("%w: transcript has %d, openings sum to %d", ErrSeedMismatch, seed, got)
	}

	params := PublicParams{DomainTag: t.DomainTag, Seed: seed}
	claims := make([]Claim, len(players))
	for i, p := range players {
		claims[i] = p.claim
	}
	// One batch check covers every batchable proof. Claims are checked one
	// by one only after it fails, to name the offender.
	if !VerifyBatch(claims, params) {
		return nil, firstRejected(claims, params)
	}
	if err := compactMismatch(claims, params); err != nil {
		return nil, err
	}

	held := make([]cards.Card, len(claims))
	for i, c := range claims {
		held[i] = cards.FromOutput(c.Draw.Output)
	}
	res := ResolveValues(held)
	if res.Winner != t.Winner {
		return nil, fmt.Errorf("%w: transcript names player %d, best card is held by player %d", ErrWinnerMismatch, t.Winner, res.Winner)
	}
	return &AuditReport{
		RoundID:   t.RoundID,
		Seed:      seed,
		Cards:     res.Values,
		Winner:    res.Winner,
		IsTie:     res.IsTie,
		CoWinners: res.CoWinners,
	}, nil
}

func firstRejected(claims []Claim, params PublicParams) error {
	msg := SeedMessage(params.Seed)
	for i, c := range claims {
		if err := vrf.VerifyBatchable(c.PublicKey, params.DomainTag, msg, c.Draw.Output, c.Draw.Batchable); err != nil {
			return &DrawRejectedError{Index: i, PublicKey: c.PublicKey}
		}
	}
	return fmt.Errorf("%w: batch verification failed", ErrDrawRejected)
}

// compactMismatch requires each compact proof to be the re-encoding of its
// already verified batchable proof.
func compactMismatch(claims []Claim, params PublicParams) error {
	msg := SeedMessage(params.Seed)
	for i, c := range claims {
		p, err := vrf.CompactProof(c.PublicKey, params.DomainTag, msg, c.Draw.Output, c.Draw.Batchable)
		if err != nil || p != c.Draw.Proof {
			return &DrawRejectedError{Index: i, PublicKey: c.PublicKey}
		}
	}
	return nil
}
