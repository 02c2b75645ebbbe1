package app

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/gangov/vrf-poker-activity/internal/codec"
	"github.com/gangov/vrf-poker-activity/internal/round"
	"github.com/gangov/vrf-poker-activity/internal/state"
)

// submitRound audits a transcript and records the verdict. A transcript that
// fails the audit is still a successful tx: the rejection is the result.
func (a *DrawApp) submitRound(msg codec.RoundSubmitTx, raw []byte, height int64) *abci.ExecTxResult {
	tr := msg.Transcript
	if _, ok := a.st.Round(tr.RoundID); ok {
		return &abci.ExecTxResult{Code: 1, Log: "round already recorded"}
	}

	sum := sha256.Sum256(raw)
	rec := &state.RoundRecord{
		RoundID:        tr.RoundID,
		Height:         height,
		Submitter:      msg.Submitter,
		TranscriptHash: sum[:],
		Players:        len(tr.Players),
		Winner:         tr.Winner,
	}

	start := time.Now()
	rep, err := round.Audit(tr)
	a.metrics.AuditSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		rec.Verdict = state.VerdictRejected
		rec.Reason = err.Error()
		if errors.Is(err, round.ErrCommitmentMismatch) {
			a.st.Stats.CommitmentMismatches++
			a.metrics.CommitmentMismatches.Inc()
		}
		if err := a.st.Record(rec); err != nil {
			return &abci.ExecTxResult{Code: 1, Log: err.Error()}
		}
		a.metrics.Rounds.WithLabelValues(string(state.VerdictRejected)).Inc()
		a.logger.Info("round rejected", "round", tr.RoundID, "height", height, "reason", rec.Reason)
		return okEvent("RoundRejected", map[string]string{
			"roundId": tr.RoundID,
			"reason":  rec.Reason,
			"cause":   rejectionCause(err),
		})
	}

	rec.Verdict = state.VerdictVerified
	rec.Seed = rep.Seed
	rec.Winner = rep.Winner
	rec.WinnerKey = append([]byte(nil), tr.Players[rep.Winner].PublicKey...)
	rec.Card = rep.Cards[rep.Winner].String()
	rec.IsTie = rep.IsTie
	rec.CoWinners = rep.CoWinners
	if err := a.st.Record(rec); err != nil {
		return &abci.ExecTxResult{Code: 1, Log: err.Error()}
	}
	a.metrics.Rounds.WithLabelValues(string(state.VerdictVerified)).Inc()
	a.logger.Info("round verified", "round", tr.RoundID, "height", height, "winner", rep.Winner, "card", rec.Card)

	attrs := map[string]string{
		"roundId": tr.RoundID,
		"winner":  fmt.Sprintf("%d", rep.Winner),
		"card":    rec.Card,
		"seed":    fmt.Sprintf("%d", rep.Seed),
		"isTie":   fmt.Sprintf("%t", rep.IsTie),
	}
	if rep.IsTie {
		co := make([]string, len(rep.CoWinners))
		for i, w := range rep.CoWinners {
			co[i] = fmt.Sprintf("%d", w)
		}
		attrs["coWinners"] = strings.Join(co, ",")
	}
	return okEvent("RoundVerified", attrs)
}

func rejectionCause(err error) string {
	switch {
	case errors.Is(err, round.ErrCommitmentMismatch):
		return "commitmentMismatch"
	case errors.Is(err, round.ErrSeedMismatch):
		return "seedMismatch"
	case errors.Is(err, round.ErrDrawRejected):
		return "drawRejected"
	case errors.Is(err, round.ErrWinnerMismatch):
		return "winnerMismatch"
	case errors.Is(err, round.ErrInvalidTranscript):
		return "invalidTranscript"
	default:
		return "unknown"
	}
}
