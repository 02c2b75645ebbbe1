package round

import (
	"github.com/gangov/vrf-poker-activity/internal/cards"
)

// Resolution is the outcome of a resolved round. Winner is the first player
// holding the highest card; CoWinners lists every player holding it.
type Resolution struct {
	Winner    int
	Card      cards.Card
	Values    []cards.Card
	IsTie     bool
	CoWinners []int
}

// Resolve picks the player with the strictly greatest card value. The
// returned *Player is the round's own record.
func Resolve(r *Round) (*Player, Resolution, error) {
	switch r.phase {
	case PhaseDrawn:
	case PhaseResolved, PhaseVerified:
		return nil, Resolution{}, &PhaseError{Op: "resolve", Have: r.phase, Want: PhaseDrawn}
	default:
		var missing []int
		for _, p := range r.players {
			if _, ok := p.Draw(); !ok {
				missing = append(missing, p.index)
			}
		}
		if len(r.players) == 0 || len(missing) > 0 {
			return nil, Resolution{}, &IncompleteRoundError{Phase: r.phase, Missing: missing}
		}
		return nil, Resolution{}, &PhaseError{Op: "resolve", Have: r.phase, Want: PhaseDrawn}
	}

	values := make([]cards.Card, len(r.players))
	for i, p := range r.players {
		d, _ := p.Draw()
		values[i] = cards.FromOutput(d.Output)
	}
	res := ResolveValues(values)
	r.winner = r.players[res.Winner]
	r.resolution = res
	r.phase = PhaseResolved
	r.logger.Info("resolved", "winner", res.Winner, "card", res.Card.String(), "tie", res.IsTie)
	return r.winner, res.clone(), nil
}

func (res Resolution) clone() Resolution {
	res.Values = append([]cards.Card(nil), res.Values...)
	res.CoWinners = append([]int(nil), res.CoWinners...)
	return res
}

// ResolveValues applies the first-seen rule to card values in registration
// order. values must not be empty.
func ResolveValues(values []cards.Card) Resolution {
	res := Resolution{Values: append([]cards.Card(nil), values...)}
	for i, v := range values {
		if i == 0 || v > res.Card {
			res.Winner = i
			res.Card = v
		}
	}
	for i, v := range values {
		if v == res.Card {
			res.CoWinners = append(res.CoWinners, i)
		}
	}
	res.IsTie = len(res.CoWinners) > 1
	return res
}
