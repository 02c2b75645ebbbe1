package codec

import (
	"encoding/json"
	"testing"

	"github.com/gangov/vrf-poker-activity/internal/round"
)

func TestDecodeTxEnvelope_OK(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"type":  TxRoundSubmit,
		"value": map[string]any{"submitter": "alice"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	env, err := DecodeTxEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
	if env.Type != TxRoundSubmit {
		t.Fatalf("unexpected type: %q", env.Type)
	}

	var v map[string]any
	if err := json.Unmarshal(env.Value, &v); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if v["submitter"] != "alice" {
		t.Fatalf("unexpected value.submitter: %#v", v["submitter"])
	}
}

func TestDecodeTxEnvelope_IgnoresUnknownFields(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"type":  TxRoundSubmit,
		"nonce": "7",
		"extra": true,
		"value": map[string]any{},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	env, err := DecodeTxEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
	if env.Nonce != "7" {
		t.Fatalf("unexpected nonce: %q", env.Nonce)
	}
}

func TestDecodeTxEnvelope_MissingType(t *testing.T) {
	if _, err := DecodeTxEnvelope([]byte(`{"value":{}}`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeTxEnvelope_InvalidJSON(t *testing.T) {
	if _, err := DecodeTxEnvelope([]byte(`{`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRoundSubmit_RoundTrip(t *testing.T) {
	tr := &round.Transcript{
		RoundID:   "r-1",
		DomainTag: []byte("Poker Game!"),
		Seed:      []byte{1, 2, 3, 4},
		Players:   []round.TranscriptPlayer{{PublicKey: []byte{9}, Value: 42}},
	}
	b, err := EncodeTx(TxRoundSubmit, RoundSubmitTx{Submitter: "bob", Transcript: tr})
	if err != nil {
		t.Fatalf("EncodeTx: %v", err)
	}
	env, err := DecodeTxEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
	msg, err := DecodeRoundSubmit(env)
	if err != nil {
		t.Fatalf("DecodeRoundSubmit: %v", err)
	}
	if msg.Submitter != "bob" || msg.Transcript.RoundID != "r-1" {
		t.Fatalf("unexpected msg: %+v", msg)
	}
	if string(msg.Transcript.DomainTag) != "Poker Game!" {
		t.Fatalf("domain tag bytes changed: %q", msg.Transcript.DomainTag)
	}
	if got := msg.Transcript.Seed; len(got) != 4 || got[0] != 1 || got[3] != 4 {
		t.Fatalf("seed bytes changed: %v", got)
	}
}

func TestDecodeRoundSubmit_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  TxEnvelope
	}{
		{"wrong type", TxEnvelope{Type: "bank/mint", Value: json.RawMessage(`{}`)}},
		{"bad json", TxEnvelope{Type: TxRoundSubmit, Value: json.RawMessage(`[`)}},
		{"no transcript", TxEnvelope{Type: TxRoundSubmit, Value: json.RawMessage(`{"submitter":"a"}`)}},
		{"no round id", TxEnvelope{Type: TxRoundSubmit, Value: json.RawMessage(`{"transcript":{}}`)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeRoundSubmit(tc.env); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
