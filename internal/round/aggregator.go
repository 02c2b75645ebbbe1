package round

import (
	"fmt"

	"github.com/gangov/vrf-poker-activity/internal/commitment"
	"github.com/gangov/vrf-poker-activity/internal/entropy"
	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

// Aggregator turns the players' private contributions into the shared seed.
type Aggregator struct {
	src entropy.Source
}

func NewAggregator(src entropy.Source) *Aggregator {
	if src == nil {
		src = entropy.Crypto()
	}
	return &Aggregator{src: src}
}

// Commit draws a fresh value and salt for every player without a commitment
// and publishes only the digest.
func (a *Aggregator) Commit(r *Round) error {
	if err := r.requirePhase("commit", PhaseCollecting); err != nil {
		return err
	}
	if len(r.players) == 0 {
		return fmt.Errorf("%w: no players registered", ErrMissingInput)
	}
	for _, p := range r.players {
		if _, ok := p.slot.(uncommitted); !ok {
			continue
		}
		o, err := commitment.NewOpening(a.src)
		if err != nil {
			return fmt.Errorf("commit player %d: %w", p.index, err)
		}
		d := commitment.Commit(r.domainTag, p.pk.Bytes(), o)
		p.slot = committed{digest: d, opening: o}
		r.logger.Debug("committed", "player", p.index, "digest", d.String())
	}
	r.phase = PhaseCommitted
	return nil
}

// SubmitReveal records a reveal received from the player instead of the
// opening kept locally. It is checked against the digest in RevealAndVerify.
func (r *Round) SubmitReveal(pk vrf.PublicKey, o commitment.Opening) error {
	if err := r.requirePhase("submitReveal", PhaseCommitted); err != nil {
		return err
	}
	p, ok := r.PlayerByKey(pk)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, pk)
	}
	p.submitted = &o
	return nil
}

// RevealAndVerify opens every commitment. The first opening that does not
// match aborts the round; no seed is produced for it.
func (a *Aggregator) RevealAndVerify(r *Round) error {
	if err := r.requirePhase("reveal", PhaseCommitted); err != nil {
		return err
	}
	openings := make([]commitment.Opening, len(r.players))
	for i, p := range r.players {
		c, ok := p.slot.(committed)
		if !ok {
			return &IncompleteRoundError{Phase: r.phase, Missing: []int{p.index}}
		}
		o := c.opening
		if p.submitted != nil {
			o = *p.submitted
		}
		if err := commitment.Verify(r.domainTag, p.pk.Bytes(), c.digest, o); err != nil {
			merr := &CommitmentMismatchError{Index: p.index, PublicKey: p.pk}
			r.abort(merr)
			return merr
		}
		openings[i] = o
	}
	for i, p := range r.players {
		p.slot = revealed{digest: p.slot.(committed).digest, opening: openings[i]}
		p.submitted = nil
	}
	r.phase = PhaseRevealed
	return nil
}

// FinalizeSeed sums the revealed values modulo 2^32 in registration order.
func (a *Aggregator) FinalizeSeed(r *Round) (uint32, error) {
	if r.seedSet {
		return 0, &PhaseError{Op: "finalizeSeed", Have: r.phase, Want: PhaseRevealed}
	}
	if err := r.requirePhase("finalizeSeed", PhaseRevealed); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMissingInput, err)
	}
	values := make([]uint32, len(r.players))
	for i, p := range r.players {
		o, ok := p.Opening()
		if !ok {
			return 0, &IncompleteRoundError{Phase: r.phase, Missing: []int{p.index}}
		}
		values[i] = o.Value
	}
	r.seed = CombineSeed(values)
	r.seedSet = true
	r.phase = PhaseSeedFixed
	r.logger.Info("seed fixed", "seed", r.seed, "players", len(r.players))
	return r.seed, nil
}

// Run performs commit, reveal and seed finalization in one call.
func (a *Aggregator) Run(r *Round) (uint32, error) {
	if err := a.Commit(r); err != nil {
		return 0, err
	}
	if err := a.RevealAndVerify(r); err != nil {
		return 0, err
	}
	return a.FinalizeSeed(r)
}

// CombineSeed is the wrapping sum of the contributions.
func CombineSeed(values []uint32) uint32 {
	var seed uint32
	for _, v := range values {
		seed += v
	}
	return seed
}
