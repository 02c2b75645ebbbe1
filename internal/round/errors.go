package round

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

var (
	// ErrCommitmentMismatch is fatal for the round it occurs in.
	ErrCommitmentMismatch = errors.New("commitment mismatch")
	ErrIncompleteRound    = errors.New("incomplete round")
	ErrMissingInput       = errors.New("missing input")
	ErrWrongPhase         = errors.New("wrong phase")
	ErrAlreadyDrawn       = errors.New("already drawn")
	ErrDuplicatePlayer    = errors.New("duplicate player")
	ErrUnknownPlayer      = errors.New("unknown player")

	ErrInvalidTranscript = errors.New("invalid transcript")
	ErrSeedMismatch      = errors.New("seed mismatch")
	ErrDrawRejected      = errors.New("draw rejected")
	ErrWinnerMismatch    = errors.New("winner mismatch")
)

// CommitmentMismatchError names the player whose reveal did not open their
// commitment.
type CommitmentMismatchError struct {
	Index     int
	PublicKey vrf.PublicKey
}

func (e *CommitmentMismatchError) Error() string {
	return fmt.Sprintf("%v: player %d (%s)", ErrCommitmentMismatch, e.Index, e.PublicKey)
}

func (e *CommitmentMismatchError) Unwrap() error { return ErrCommitmentMismatch }

// IncompleteRoundError lists the players still missing the input a step
// needs.
type IncompleteRoundError struct {
	Phase   Phase
	Missing []int
}

func (e *IncompleteRoundError) Error() string {
	idx := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		idx[i] = fmt.Sprint(m)
	}
	return fmt.Sprintf("%v: phase %s, missing players [%s]", ErrIncompleteRound, e.Phase, strings.Join(idx, " "))
}

func (e *IncompleteRoundError) Unwrap() error { return ErrIncompleteRound }

// PhaseError reports an operation attempted out of order.
type PhaseError struct {
	Op   string
	Have Phase
	Want Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%v: %s requires phase %s, round is %s", ErrWrongPhase, e.Op, e.Want, e.Have)
}

func (e *PhaseError) Unwrap() error { return ErrWrongPhase }

// DrawRejectedError names the player whose claimed draw failed verification.
type DrawRejectedError struct {
	Index     int
	PublicKey vrf.PublicKey
}

func (e *DrawRejectedError) Error() string {
	return fmt.Sprintf("%v: player %d (%s)", ErrDrawRejected, e.Index, e.PublicKey)
}

func (e *DrawRejectedError) Unwrap() error { return ErrDrawRejected }
