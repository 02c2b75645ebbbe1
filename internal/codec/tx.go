package codec

import (
	"encoding/json"
	"fmt"

	"github.com/gangov/vrf-poker-activity/internal/round"
)

const TxRoundSubmit = "round/submit"

// TxEnvelope is the transaction container.
//
// CometBFT transactions are opaque bytes; the audit service uses JSON-encoded
// txs routed by Type.
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Nonce is optional and only keeps otherwise identical tx bytes unique.
	Nonce string `json:"nonce,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

func EncodeTx(typ string, value any) ([]byte, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s value: %w", typ, err)
	}
	return json.Marshal(TxEnvelope{Type: typ, Value: v})
}

// ---- Rounds ----

// RoundSubmitTx publishes a resolved round's transcript for audit.
type RoundSubmitTx struct {
	Submitter  string            `json:"submitter,omitempty"`
	Transcript *round.Transcript `json:"transcript"`
}

func DecodeRoundSubmit(env TxEnvelope) (RoundSubmitTx, error) {
	if env.Type != TxRoundSubmit {
		return RoundSubmitTx{}, fmt.Errorf("unexpected tx type %q", env.Type)
	}
	var msg RoundSubmitTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return RoundSubmitTx{}, fmt.Errorf("bad %s value: %w", TxRoundSubmit, err)
	}
	if msg.Transcript == nil {
		return RoundSubmitTx{}, fmt.Errorf("missing transcript")
	}
	if msg.Transcript.RoundID == "" {
		return RoundSubmitTx{}, fmt.Errorf("missing transcript.roundId")
	}
	return msg, nil
}
