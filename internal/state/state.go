package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
)

// State is the audit service's verdict ledger. It lives in memory only.
type State struct {
	Height int64 `json:"height"`

	Rounds map[string]*RoundRecord `json:"rounds"`
	Stats  Stats                   `json:"stats"`
}

type Verdict string

const (
	VerdictVerified Verdict = "verified"
	VerdictRejected Verdict = "rejected"
)

// RoundRecord is the outcome of auditing one submitted transcript.
type RoundRecord struct {
	RoundID   string  `json:"roundId"`
	Height    int64   `json:"height"`
	Submitter string  `json:"submitter,omitempty"`
	Verdict   Verdict `json:"verdict"`
	Reason    string  `json:"reason,omitempty"`

	// TranscriptHash is sha256 over the submitted transcript JSON.
	TranscriptHash []byte `json:"transcriptHash"`
	Players        int    `json:"players"`

	// Set only for verified rounds.
	Seed      uint32 `json:"seed,omitempty"`
	Winner    int    `json:"winner"`
	WinnerKey []byte `json:"winnerKey,omitempty"` // 32-byte ristretto point
	Card      string `json:"card,omitempty"`
	IsTie     bool   `json:"isTie,omitempty"`
	CoWinners []int  `json:"coWinners,omitempty"`
}

type Stats struct {
	Submitted            uint64 `json:"submitted"`
	Verified             uint64 `json:"verified"`
	Rejected             uint64 `json:"rejected"`
	CommitmentMismatches uint64 `json:"commitmentMismatches"`
	Ties                 uint64 `json:"ties"`
}

func NewState() *State {
	return &State{
		Height: 0,
		Rounds: map[string]*RoundRecord{},
	}
}

// Clone returns a deep copy of state suitable for staged tx execution.
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	if out.Rounds == nil {
		out.Rounds = map[string]*RoundRecord{}
	}
	return &out, nil
}

// Record stores a verdict. A round id can be recorded once.
func (s *State) Record(rec *RoundRecord) error {
	if rec == nil || rec.RoundID == "" {
		return fmt.Errorf("missing round id")
	}
	if _, ok := s.Rounds[rec.RoundID]; ok {
		return fmt.Errorf("round %s already recorded", rec.RoundID)
	}
	switch rec.Verdict {
	case VerdictVerified:
		s.Stats.Verified++
		if rec.IsTie {
			s.Stats.Ties++
		}
	case VerdictRejected:
		s.Stats.Rejected++
	default:
		return fmt.Errorf("unknown verdict %q", rec.Verdict)
	}
	s.Rounds[rec.RoundID] = rec
	s.Stats.Submitted++
	return nil
}

func (s *State) Round(id string) (*RoundRecord, bool) {
	rec, ok := s.Rounds[id]
	return rec, ok
}

// RoundIDs returns the recorded round ids in ascending order.
func (s *State) RoundIDs() []string {
	ids := make([]string, 0, len(s.Rounds))
	for id := range s.Rounds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *State) AppHash() []byte {
	// encoding/json does NOT guarantee map key order, so rounds are
	// normalized into a sorted slice before hashing.
	type roundKV struct {
		ID     string       `json:"id"`
		Record *RoundRecord `json:"record"`
	}

	rounds := make([]roundKV, 0, len(s.Rounds))
	for _, id := range s.RoundIDs() {
		rounds = append(rounds, roundKV{ID: id, Record: s.Rounds[id]})
	}

	normalized := struct {
		Height int64     `json:"height"`
		Rounds []roundKV `json:"rounds"`
		Stats  Stats     `json:"stats"`
	}{
		Height: s.Height,
		Rounds: rounds,
		Stats:  s.Stats,
	}

	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return sum[:]
}
