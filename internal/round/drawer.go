package round

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

// Drawer evaluates every player's VRF over the shared seed.
type Drawer struct {
	// Parallel signs each player in its own goroutine. Results are written
	// back to the players only after all of them succeed.
	Parallel bool
}

// Draw requires a fixed seed and never overwrites an existing draw.
func (d *Drawer) Draw(ctx context.Context, r *Round) error {
	switch r.phase {
	case PhaseSeedFixed:
	case PhaseDrawn, PhaseResolved, PhaseVerified:
		return fmt.Errorf("%w: %w", ErrAlreadyDrawn, &PhaseError{Op: "draw", Have: r.phase, Want: PhaseSeedFixed})
	default:
		return fmt.Errorf("%w: draw before seed is fixed: %w", ErrMissingInput, &PhaseError{Op: "draw", Have: r.phase, Want: PhaseSeedFixed})
	}

	msg, err := r.Message()
	if err != nil {
		return err
	}
	var missing []int
	for _, p := range r.players {
		if _, ok := p.slot.(drawn); ok {
			return fmt.Errorf("%w: player %d", ErrAlreadyDrawn, p.index)
		}
		if _, ok := p.slot.(revealed); !ok {
			missing = append(missing, p.index)
		}
	}
	if len(missing) > 0 {
		return &IncompleteRoundError{Phase: r.phase, Missing: missing}
	}

	draws := make([]vrf.Draw, len(r.players))
	if d.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, p := range r.players {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := vrf.Sign(p.sk, r.domainTag, msg)
				if err != nil {
					return fmt.Errorf("draw player %d: %w", p.index, err)
				}
				draws[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for i, p := range r.players {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := vrf.Sign(p.sk, r.domainTag, msg)
			if err != nil {
				return fmt.Errorf("draw player %d: %w", p.index, err)
			}
			draws[i] = out
		}
	}

	for i, p := range r.players {
		s := p.slot.(revealed)
		p.slot = drawn{digest: s.digest, opening: s.opening, draw: draws[i]}
		r.logger.Debug("drew", "player", p.index, "output", fmt.Sprintf("%x", draws[i].Output[:]))
	}
	r.phase = PhaseDrawn
	return nil
}
