package cmd

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gangov/vrf-poker-activity/internal/round"
	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSimulateThenAudit(t *testing.T) {
	out, err := run(t, "simulate", "--players", "5", "--seed", "fixture", "--log-level", "none")
	require.NoError(t, err)

	var tr round.Transcript
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	require.Len(t, tr.Players, 5)
	require.Equal(t, []byte(round.DefaultDomainTag), tr.DomainTag)

	// The same seed reproduces the same keys and contributions.
	again, err := run(t, "simulate", "--players", "5", "--seed", "fixture", "--parallel", "--log-level", "none")
	require.NoError(t, err)
	var tr2 round.Transcript
	require.NoError(t, json.Unmarshal([]byte(again), &tr2))
	require.Equal(t, tr.Seed, tr2.Seed)
	require.Equal(t, tr.Players, tr2.Players)
	require.Equal(t, tr.Winner, tr2.Winner)

	path := filepath.Join(t.TempDir(), "round.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	repOut, err := run(t, "audit", path, "--log-level", "none")
	require.NoError(t, err)
	var rep round.AuditReport
	require.NoError(t, json.Unmarshal([]byte(repOut), &rep))
	require.Equal(t, tr.Winner, rep.Winner)
	require.Equal(t, tr.RoundID, rep.RoundID)
}

func TestAudit_RejectsTamperedTranscript(t *testing.T) {
	out, err := run(t, "simulate", "--players", "3", "--seed", "tamper", "--log-level", "none")
	require.NoError(t, err)

	var tr round.Transcript
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	tr.Players[0].Value++
	bz, err := json.Marshal(&tr)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "round.json")
	require.NoError(t, os.WriteFile(path, bz, 0o644))
	_, err = run(t, "audit", path, "--log-level", "none")
	require.ErrorIs(t, err, round.ErrCommitmentMismatch)
}

func TestSimulate_DomainTagFromEnv(t *testing.T) {
	t.Setenv("DRAWD_DOMAIN_TAG", "table-9")
	out, err := run(t, "simulate", "--players", "2", "--seed", "env", "--log-level", "none")
	require.NoError(t, err)

	var tr round.Transcript
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	require.Equal(t, []byte("table-9"), tr.DomainTag)
}

func TestSimulate_BadFlags(t *testing.T) {
	_, err := run(t, "simulate", "--players", "0", "--log-level", "none")
	require.Error(t, err)

	_, err = run(t, "simulate", "--log-level", "loud")
	require.Error(t, err)
}

func TestSimulate_RoundID(t *testing.T) {
	const id = "5b1f3c2e-8d4a-4c1b-9f0e-2a7d6c5b4e3f"
	out, err := run(t, "simulate", "--players", "2", "--seed", "id", "--round-id", id, "--log-level", "none")
	require.NoError(t, err)

	var tr round.Transcript
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	require.Equal(t, id, tr.RoundID)

	_, err = run(t, "simulate", "--round-id", "not-a-uuid", "--log-level", "none")
	require.Error(t, err)
}

func TestAudit_PlayerInclusion(t *testing.T) {
	out, err := run(t, "simulate", "--players", "3", "--seed", "inclusion", "--log-level", "none")
	require.NoError(t, err)
	var tr round.Transcript
	require.NoError(t, json.Unmarshal([]byte(out), &tr))

	path := filepath.Join(t.TempDir(), "round.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	pk := "0x" + hex.EncodeToString(tr.Players[2].PublicKey)
	digest := hex.EncodeToString(tr.Players[2].Commitment)
	_, err = run(t, "audit", path, "--pubkey", pk, "--commitment", digest, "--log-level", "none")
	require.NoError(t, err)

	_, err = run(t, "audit", path, "--pubkey", pk, "--commitment", hex.EncodeToString(tr.Players[0].Commitment), "--log-level", "none")
	require.ErrorIs(t, err, round.ErrCommitmentMismatch)

	// Another round's player is not part of this one.
	other, err := run(t, "simulate", "--players", "1", "--seed", "elsewhere", "--log-level", "none")
	require.NoError(t, err)
	var otr round.Transcript
	require.NoError(t, json.Unmarshal([]byte(other), &otr))
	_, err = run(t, "audit", path, "--pubkey", "0x"+hex.EncodeToString(otr.Players[0].PublicKey), "--log-level", "none")
	require.ErrorIs(t, err, round.ErrUnknownPlayer)

	_, err = run(t, "audit", path, "--pubkey", "0xzz", "--log-level", "none")
	require.ErrorIs(t, err, vrf.ErrInvalidKey)

	_, err = run(t, "audit", path, "--commitment", digest, "--log-level", "none")
	require.Error(t, err)
}
