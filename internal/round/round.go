// Package round runs one commit-reveal card draw: players commit to random
// contributions, reveal them into a shared seed, draw a card each with their
// VRF key, and the best card is resolved and verified.
//
// A Round moves strictly through
//
//	collecting -> committed -> revealed -> seedFixed -> drawn -> resolved -> verified
//
// and ends in aborted if any reveal fails to open its commitment. Verified
// only means the winner's claim was checked; Verdict holds the result. Every
// out-of-order call returns a *PhaseError.
package round

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cometbft/cometbft/libs/log"
	"github.com/google/uuid"

	"github.com/gangov/vrf-poker-activity/internal/commitment"
	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

// DefaultDomainTag is the signing context when none is configured.
const DefaultDomainTag = "Poker Game!"

type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseCommitted  Phase = "committed"
	PhaseRevealed   Phase = "revealed"
	PhaseSeedFixed  Phase = "seedFixed"
	PhaseDrawn      Phase = "drawn"
	PhaseResolved   Phase = "resolved"
	PhaseVerified   Phase = "verified"
	PhaseAborted    Phase = "aborted"
)

// Round is not safe for concurrent mutation.
type Round struct {
	id        uuid.UUID
	domainTag []byte
	players   []*Player
	phase     Phase

	seed    uint32
	seedSet bool

	winner     *Player
	resolution Resolution
	verdict    bool

	logger log.Logger
}

type Option func(*Round)

func WithDomainTag(tag []byte) Option {
	return func(r *Round) { r.domainTag = append([]byte(nil), tag...) }
}

func WithLogger(l log.Logger) Option {
	return func(r *Round) { r.logger = l }
}

func WithID(id uuid.UUID) Option {
	return func(r *Round) { r.id = id }
}

func New(opts ...Option) *Round {
	r := &Round{
		id:        uuid.New(),
		domainTag: []byte(DefaultDomainTag),
		phase:     PhaseCollecting,
		logger:    log.NewNopLogger(),
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = r.logger.With("round", r.id.String())
	return r
}

func (r *Round) ID() uuid.UUID { return r.id }

func (r *Round) Phase() Phase { return r.phase }

func (r *Round) DomainTag() []byte { return append([]byte(nil), r.domainTag...) }

// Players returns the players in registration order.
func (r *Round) Players() []*Player { return append([]*Player(nil), r.players...) }

// Seed returns the shared seed once it has been fixed.
func (r *Round) Seed() (uint32, bool) { return r.seed, r.seedSet }

// Message is the VRF input every player signs: the little-endian seed.
func (r *Round) Message() ([]byte, error) {
	if !r.seedSet {
		return nil, fmt.Errorf("%w: seed is not fixed (phase %s)", ErrMissingInput, r.phase)
	}
	return SeedMessage(r.seed), nil
}

func SeedMessage(seed uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], seed)
	return b[:]
}

// Winner returns the resolved winner and the resolution it came from.
func (r *Round) Winner() (*Player, Resolution, bool) {
	if r.winner == nil {
		return nil, Resolution{}, false
	}
	return r.winner, r.resolution.clone(), true
}

// PlayerByKey looks up a registered player.
func (r *Round) PlayerByKey(pk vrf.PublicKey) (*Player, bool) {
	for _, p := range r.players {
		if p.pk.Equal(pk) {
			return p, true
		}
	}
	return nil, false
}

// AddPlayer registers a key pair. Keys must be unique within the round.
func (r *Round) AddPlayer(sk *vrf.SecretKey) (*Player, error) {
	if err := r.requirePhase("addPlayer", PhaseCollecting); err != nil {
		return nil, err
	}
	if sk == nil {
		return nil, fmt.Errorf("%w: nil secret key", ErrMissingInput)
	}
	pk := sk.Public()
	if _, ok := r.PlayerByKey(pk); ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, pk)
	}
	p := &Player{index: len(r.players), pk: pk, sk: sk, slot: uncommitted{}}
	r.players = append(r.players, p)
	r.logger.Debug("registered player", "player", p.index, "pubkey", pk.String())
	return p, nil
}

// NewPlayer generates a key pair from rand and registers it.
func (r *Round) NewPlayer(rand io.Reader) (*Player, error) {
	sk, err := vrf.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	return r.AddPlayer(sk)
}

func (r *Round) requirePhase(op string, want Phase) error {
	if r.phase != want {
		return &PhaseError{Op: op, Have: r.phase, Want: want}
	}
	return nil
}

func (r *Round) abort(reason error) {
	r.phase = PhaseAborted
	r.logger.Error("round aborted", "err", reason)
}

// Player is one participant's record. Its slot only ever moves forward:
// uncommitted, committed, revealed, drawn.
type Player struct {
	index int
	pk    vrf.PublicKey
	sk    *vrf.SecretKey
	slot  slot

	// reveal supplied through SubmitReveal, checked in RevealAndVerify.
	submitted *commitment.Opening
}

func (p *Player) Index() int { return p.index }

func (p *Player) PublicKey() vrf.PublicKey { return p.pk }

// Digest returns the published commitment.
func (p *Player) Digest() (commitment.Digest, bool) {
	switch s := p.slot.(type) {
	case committed:
		return s.digest, true
	case revealed:
		return s.digest, true
	case drawn:
		return s.digest, true
	}
	return commitment.Digest{}, false
}

// Opening is only available once the round has been revealed.
func (p *Player) Opening() (commitment.Opening, bool) {
	switch s := p.slot.(type) {
	case revealed:
		return s.opening, true
	case drawn:
		return s.opening, true
	}
	return commitment.Opening{}, false
}

func (p *Player) Draw() (vrf.Draw, bool) {
	if s, ok := p.slot.(drawn); ok {
		return s.draw, true
	}
	return vrf.Draw{}, false
}

// Claim is the public part of the player's draw.
func (p *Player) Claim() (Claim, bool) {
	d, ok := p.Draw()
	if !ok {
		return Claim{}, false
	}
	return Claim{PublicKey: p.pk, Draw: d}, true
}

type slot interface{ isSlot() }

type uncommitted struct{}

type committed struct {
	digest  commitment.Digest
	opening commitment.Opening
}

type revealed struct {
	digest  commitment.Digest
	opening commitment.Opening
}

type drawn struct {
	digest  commitment.Digest
	opening commitment.Opening
	draw    vrf.Draw
}

func (uncommitted) isSlot() {}
func (committed) isSlot()   {}
func (revealed) isSlot()    {}
func (drawn) isSlot()       {}
