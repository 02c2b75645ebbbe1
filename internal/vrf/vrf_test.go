package vrf

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gangov/vrf-poker-activity/internal/entropy"
)

func testKey(t *testing.T, seed string) *SecretKey {
	t.Helper()
	src, err := entropy.NewDeterministic([]byte(seed))
	require.NoError(t, err)
	sk, err := GenerateKey(src)
	require.NoError(t, err)
	return sk
}

func seedMsg(seed uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], seed)
	return b[:]
}

var testCtx = []byte("Poker Game!")

func TestSignVerify_RoundTrip(t *testing.T) {
	sk := testKey(t, "alice")
	msg := seedMsg(0xdeadbeef)

	d, err := Sign(sk, testCtx, msg)
	require.NoError(t, err)

	out, batch, err := Verify(sk.Public(), testCtx, msg, d.Output, d.Proof)
	require.NoError(t, err)
	require.Equal(t, d.Output, out)
	require.True(t, d.Batchable.Equal(batch), "recomputed batchable proof differs")

	require.NoError(t, VerifyBatchable(sk.Public(), testCtx, msg, d.Output, d.Batchable))
}

func TestCompactProof_MatchesSign(t *testing.T) {
	sk := testKey(t, "alice")
	msg := seedMsg(99)
	d, err := Sign(sk, testCtx, msg)
	require.NoError(t, err)

	p, err := CompactProof(sk.Public(), testCtx, msg, d.Output, d.Batchable)
	require.NoError(t, err)
	require.Equal(t, d.Proof, p)

	// A different context changes the challenge, so the encodings diverge.
	p, err = CompactProof(sk.Public(), []byte("other"), msg, d.Output, d.Batchable)
	require.NoError(t, err)
	require.NotEqual(t, d.Proof, p)

	_, err = CompactProof(PublicKey{}, testCtx, msg, d.Output, d.Batchable)
	require.ErrorIs(t, err, ErrVerify)
}

func TestVerifyBatchable_RejectsTampering(t *testing.T) {
	sk := testKey(t, "alice")
	msg := seedMsg(5)
	d, err := Sign(sk, testCtx, msg)
	require.NoError(t, err)

	for i := range d.Batchable {
		proof := d.Batchable
		proof[i] ^= 0x01
		err := VerifyBatchable(sk.Public(), testCtx, msg, d.Output, proof)
		require.ErrorIs(t, err, ErrVerify, "batchable byte %d", i)
	}
	require.ErrorIs(t, VerifyBatchable(sk.Public(), testCtx, seedMsg(6), d.Output, d.Batchable), ErrVerify)
}

func TestSign_Deterministic(t *testing.T) {
	sk := testKey(t, "alice")
	msg := seedMsg(7)

	a, err := Sign(sk, testCtx, msg)
	require.NoError(t, err)
	b, err := Sign(sk, testCtx, msg)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := Sign(sk, testCtx, seedMsg(8))
	require.NoError(t, err)
	require.NotEqual(t, a.Output, c.Output)

	other := testKey(t, "bob")
	d, err := Sign(other, testCtx, msg)
	require.NoError(t, err)
	require.NotEqual(t, a.Output, d.Output)
}

func TestVerify_RejectsTampering(t *testing.T) {
	sk := testKey(t, "alice")
	msg := seedMsg(42)
	d, err := Sign(sk, testCtx, msg)
	require.NoError(t, err)

	for i := range d.Output {
		out := d.Output
		out[i] ^= 0x01
		_, _, err := Verify(sk.Public(), testCtx, msg, out, d.Proof)
		require.ErrorIs(t, err, ErrVerify, "output byte %d", i)
	}
	for i := range d.Proof {
		proof := d.Proof
		proof[i] ^= 0x01
		_, _, err := Verify(sk.Public(), testCtx, msg, d.Output, proof)
		require.ErrorIs(t, err, ErrVerify, "proof byte %d", i)
	}

	_, _, err = Verify(sk.Public(), []byte("Poker Game?"), msg, d.Output, d.Proof)
	require.ErrorIs(t, err, ErrVerify)
	_, _, err = Verify(sk.Public(), testCtx, seedMsg(43), d.Output, d.Proof)
	require.ErrorIs(t, err, ErrVerify)
	_, _, err = Verify(testKey(t, "mallory").Public(), testCtx, msg, d.Output, d.Proof)
	require.ErrorIs(t, err, ErrVerify)
	_, _, err = Verify(PublicKey{}, testCtx, msg, d.Output, d.Proof)
	require.ErrorIs(t, err, ErrVerify)
}

func TestVerifyBatch(t *testing.T) {
	msg := seedMsg(1234)
	var items []BatchItem
	for _, name := range []string{"p0", "p1", "p2", "p3"} {
		sk := testKey(t, name)
		d, err := Sign(sk, testCtx, msg)
		require.NoError(t, err)
		items = append(items, BatchItem{
			PublicKey: sk.Public(),
			Context:   testCtx,
			Message:   msg,
			Output:    d.Output,
			Proof:     d.Batchable,
		})
	}
	require.NoError(t, VerifyBatch(items))
	require.NoError(t, VerifyBatch(nil))

	bad := append([]BatchItem(nil), items...)
	bad[2].Output = items[1].Output
	require.ErrorIs(t, VerifyBatch(bad), ErrVerify)

	bad = append([]BatchItem(nil), items...)
	bad[3].Proof[95] ^= 0x01
	require.True(t, errors.Is(VerifyBatch(bad), ErrVerify))

	bad = append([]BatchItem(nil), items...)
	bad[0].Context = []byte("other")
	require.ErrorIs(t, VerifyBatch(bad), ErrVerify)
}

func TestPublicKeyEncoding(t *testing.T) {
	sk := testKey(t, "alice")
	pk := sk.Public()

	got, err := PublicKeyFromHex(pk.String())
	require.NoError(t, err)
	require.True(t, got.Equal(pk))

	_, err = PublicKeyFromBytes(make([]byte, 31))
	require.ErrorIs(t, err, ErrInvalidKey)
	// All-zero bytes decode to the identity, which is not a usable key.
	_, err = PublicKeyFromBytes(make([]byte, 32))
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestGenerateKey_Errors(t *testing.T) {
	_, err := GenerateKey(nil)
	require.Error(t, err)

	_, err = Sign(nil, testCtx, nil)
	require.ErrorIs(t, err, ErrInvalidKey)
}
