package vrf

import (
	"encoding/binary"
	"fmt"

	"github.com/gangov/vrf-poker-activity/internal/drawcrypto"
)

const batchDomain = "VPD1|vrf|batch"

// BatchItem is one (public key, context, message, output, proof) tuple.
type BatchItem struct {
	PublicKey PublicKey
	Context   []byte
	Message   []byte
	Output    Output
	Proof     BatchableProof
}

type decodedItem struct {
	st drawcrypto.DLEQStatement
	b  drawcrypto.DLEQBatchable
	c  drawcrypto.Scalar
}

func decodeItem(it BatchItem) (decodedItem, error) {
	if it.PublicKey.IsZero() {
		return decodedItem{}, fmt.Errorf("%w: %v", ErrVerify, ErrInvalidKey)
	}
	gamma, err := drawcrypto.PointFromBytes(it.Output[:])
	if err != nil {
		return decodedItem{}, fmt.Errorf("%w: output: %v", ErrVerify, err)
	}
	b, err := drawcrypto.DecodeDLEQBatchable(it.Proof[:])
	if err != nil {
		return decodedItem{}, fmt.Errorf("%w: proof: %v", ErrVerify, err)
	}
	h, err := inputPoint(it.PublicKey, it.Context, it.Message)
	if err != nil {
		return decodedItem{}, fmt.Errorf("%w: %v", ErrVerify, err)
	}
	return decodedItem{st: drawcrypto.DLEQStatement{Y: it.PublicKey.p, H: h, Gamma: gamma}, b: b}, nil
}

// VerifyBatch checks every item with one random linear combination per
// equation. The weights are Fiat-Shamir challenges over the whole batch, so
// replaying the same batch always takes the same path.
//
// For each item i with challenge c_i and weight z_i:
//
//	sum z_i*(s_i*G - R_i - c_i*Y_i) == 0
//	sum z_i*(s_i*H_i - Hr_i - c_i*Gamma_i) == 0
func VerifyBatch(items []BatchItem) error {
	if len(items) == 0 {
		return nil
	}

	decoded := make([]decodedItem, len(items))
	wt := drawcrypto.NewTranscript(batchDomain)
	for i, it := range items {
		d, err := decodeItem(it)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		c, err := drawcrypto.DLEQChallengeFor(baseTranscript(it.Context, it.Message), d.st, d.b)
		if err != nil {
			return fmt.Errorf("item %d: %w: %v", i, ErrVerify, err)
		}
		d.c = c
		decoded[i] = d

		_ = wt.AppendMessage("Y", d.st.Y.Bytes())
		_ = wt.AppendMessage("Gamma", d.st.Gamma.Bytes())
		_ = wt.AppendMessage("proof", it.Proof[:])
		_ = wt.AppendMessage("c", c.Bytes())
	}

	var idx [4]byte
	weights := make([]drawcrypto.Scalar, len(items))
	for i := range items {
		tr := wt.Clone()
		binary.LittleEndian.PutUint32(idx[:], uint32(i))
		_ = tr.AppendMessage("i", idx[:])
		z, err := tr.ChallengeScalar("z")
		if err != nil {
			return err
		}
		weights[i] = z
	}

	n := len(items)
	// Equation over G: scalars for G, then R_i, then Y_i.
	ks1 := make([]drawcrypto.Scalar, 0, 1+2*n)
	ps1 := make([]drawcrypto.Point, 0, 1+2*n)
	// Equation over H_i: scalars for H_i, Hr_i, Gamma_i.
	ks2 := make([]drawcrypto.Scalar, 0, 3*n)
	ps2 := make([]drawcrypto.Point, 0, 3*n)

	sumS := drawcrypto.ScalarZero()
	for i, d := range decoded {
		z := weights[i]
		zs := drawcrypto.ScalarMul(z, d.b.S)
		zc := drawcrypto.ScalarMul(z, d.c)
		sumS = drawcrypto.ScalarAdd(sumS, zs)

		ks1 = append(ks1, drawcrypto.ScalarNeg(z), drawcrypto.ScalarNeg(zc))
		ps1 = append(ps1, d.b.R, d.st.Y)

		ks2 = append(ks2, zs, drawcrypto.ScalarNeg(z), drawcrypto.ScalarNeg(zc))
		ps2 = append(ps2, d.st.H, d.b.Hr, d.st.Gamma)
	}
	ks1 = append(ks1, sumS)
	ps1 = append(ps1, drawcrypto.PointBase())

	for _, eq := range []struct {
		ks []drawcrypto.Scalar
		ps []drawcrypto.Point
	}{{ks1, ps1}, {ks2, ps2}} {
		acc, err := drawcrypto.MultiScalarMul(eq.ks, eq.ps)
		if err != nil {
			return err
		}
		if !acc.IsIdentity() {
			return ErrVerify
		}
	}
	return nil
}
