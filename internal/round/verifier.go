package round

import (
	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

// Claim is a player's public key with the draw they claim to have made.
type Claim struct {
	PublicKey vrf.PublicKey
	Draw      vrf.Draw
}

// PublicParams is everything besides the claim that a verifier needs.
type PublicParams struct {
	DomainTag []byte
	Seed      uint32
}

// Verify re-derives the draw from public data. It holds only if the proof
// checks and both the output and the batchable proof it recomputes equal
// the claimed ones. It never needs a secret key and never panics.
func Verify(c Claim, params PublicParams) bool {
	out, batch, err := vrf.Verify(c.PublicKey, params.DomainTag, SeedMessage(params.Seed), c.Draw.Output, c.Draw.Proof)
	if err != nil {
		return false
	}
	return out == c.Draw.Output && batch.Equal(c.Draw.Batchable)
}

// VerifyBatch checks the batchable proofs of all claims at once.
func VerifyBatch(claims []Claim, params PublicParams) bool {
	msg := SeedMessage(params.Seed)
	items := make([]vrf.BatchItem, len(claims))
	for i, c := range claims {
		items[i] = vrf.BatchItem{
			PublicKey: c.PublicKey,
			Context:   params.DomainTag,
			Message:   msg,
			Output:    c.Draw.Output,
			Proof:     c.Draw.Batchable,
		}
	}
	return vrf.VerifyBatch(items) == nil
}

// Params returns the round's public parameters once the seed is fixed.
func (r *Round) Params() (PublicParams, bool) {
	if !r.seedSet {
		return PublicParams{}, false
	}
	return PublicParams{DomainTag: r.DomainTag(), Seed: r.seed}, true
}

// VerifyWinner checks the resolved winner's claim and closes the round. The
// round moves to verified whatever the outcome; Verdict reports it.
func (r *Round) VerifyWinner() (bool, error) {
	if err := r.requirePhase("verify", PhaseResolved); err != nil {
		return false, err
	}
	claim, ok := r.winner.Claim()
	if !ok {
		return false, &IncompleteRoundError{Phase: r.phase, Missing: []int{r.winner.index}}
	}
	params, _ := r.Params()
	r.verdict = Verify(claim, params)
	r.phase = PhaseVerified
	if !r.verdict {
		r.logger.Error("winner claim rejected", "player", r.winner.index)
		return false, nil
	}
	r.logger.Info("winner verified", "player", r.winner.index)
	return true, nil
}

// Verdict returns the result VerifyWinner recorded. done is false until the
// round has been verified.
func (r *Round) Verdict() (ok, done bool) {
	if r.phase != PhaseVerified {
		return false, false
	}
	return r.verdict, true
}
