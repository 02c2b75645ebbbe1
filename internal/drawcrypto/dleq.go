package drawcrypto

import "fmt"

// DLEQStatement claims log_G(Y) == log_H(Gamma) for the base point G.
type DLEQStatement struct {
	Y     Point
	H     Point
	Gamma Point
}

// DLEQProof is the compact Chaum-Pedersen proof.
type DLEQProof struct {
	// c = challenge(statement, R, Hr)
	C Scalar
	// s = w + c*x
	S Scalar
}

// DLEQBatchable carries the commitments instead of the challenge, so many
// proofs can be folded into a single multi-scalar multiplication.
type DLEQBatchable struct {
	// R = w*G
	R Point
	// Hr = w*H
	Hr Point
	S  Scalar
}

const (
	DLEQProofBytes     = 2 * ScalarBytes
	DLEQBatchableBytes = 2*PointBytes + ScalarBytes
)

func dleqChallenge(base *Transcript, st DLEQStatement, r, hr Point) (Scalar, error) {
	tr := base.Clone()
	_ = tr.AppendMessage("Y", st.Y.Bytes())
	_ = tr.AppendMessage("H", st.H.Bytes())
	_ = tr.AppendMessage("Gamma", st.Gamma.Bytes())
	_ = tr.AppendMessage("R", r.Bytes())
	_ = tr.AppendMessage("Hr", hr.Bytes())
	return tr.ChallengeScalar("c")
}

// DLEQProve proves knowledge of x with Y = x*G and Gamma = x*H using nonce w.
// The base transcript binds the proof to its context; it is not modified.
func DLEQProve(base *Transcript, st DLEQStatement, x Scalar, w Scalar) (DLEQProof, DLEQBatchable, error) {
	if w.IsZero() {
		return DLEQProof{}, DLEQBatchable{}, fmt.Errorf("dleq: w must be non-zero")
	}
	r := MulBase(w)
	hr := MulPoint(st.H, w)
	c, err := dleqChallenge(base, st, r, hr)
	if err != nil {
		return DLEQProof{}, DLEQBatchable{}, err
	}
	s := ScalarAdd(w, ScalarMul(c, x))
	return DLEQProof{C: c, S: s}, DLEQBatchable{R: r, Hr: hr, S: s}, nil
}

// DLEQVerify checks a compact proof and returns the batchable form it
// reconstructs. ok is false for a proof that does not verify.
func DLEQVerify(base *Transcript, st DLEQStatement, proof DLEQProof) (DLEQBatchable, bool, error) {
	// R = s*G - c*Y
	r := PointSub(MulBase(proof.S), MulPoint(st.Y, proof.C))
	// Hr = s*H - c*Gamma
	hr := PointSub(MulPoint(st.H, proof.S), MulPoint(st.Gamma, proof.C))

	c, err := dleqChallenge(base, st, r, hr)
	if err != nil {
		return DLEQBatchable{}, false, err
	}
	if !ScalarEq(c, proof.C) {
		return DLEQBatchable{}, false, nil
	}
	return DLEQBatchable{R: r, Hr: hr, S: proof.S}, true, nil
}

// DLEQChallengeFor recomputes the challenge of a batchable proof.
func DLEQChallengeFor(base *Transcript, st DLEQStatement, b DLEQBatchable) (Scalar, error) {
	return dleqChallenge(base, st, b.R, b.Hr)
}

func DLEQVerifyBatchable(base *Transcript, st DLEQStatement, b DLEQBatchable) (bool, error) {
	c, err := dleqChallenge(base, st, b.R, b.Hr)
	if err != nil {
		return false, err
	}

	// Check: s*G == R + c*Y
	lhs1 := MulBase(b.S)
	rhs1 := PointAdd(b.R, MulPoint(st.Y, c))
	if !PointEq(lhs1, rhs1) {
		return false, nil
	}

	// Check: s*H == Hr + c*Gamma
	lhs2 := MulPoint(st.H, b.S)
	rhs2 := PointAdd(b.Hr, MulPoint(st.Gamma, c))
	if !PointEq(lhs2, rhs2) {
		return false, nil
	}
	return true, nil
}

// Encoding: c(32 le) || s(32 le)
func EncodeDLEQProof(p DLEQProof) []byte {
	return concatBytes(p.C.Bytes(), p.S.Bytes())
}

func DecodeDLEQProof(b []byte) (DLEQProof, error) {
	if len(b) != DLEQProofBytes {
		return DLEQProof{}, fmt.Errorf("dleq: expected %d bytes, got %d", DLEQProofBytes, len(b))
	}
	c, err := ScalarFromBytes(b[0:32])
	if err != nil {
		return DLEQProof{}, err
	}
	s, err := ScalarFromBytes(b[32:64])
	if err != nil {
		return DLEQProof{}, err
	}
	return DLEQProof{C: c, S: s}, nil
}

// Encoding: R(32) || Hr(32) || s(32 le)
func EncodeDLEQBatchable(p DLEQBatchable) []byte {
	return concatBytes(p.R.Bytes(), p.Hr.Bytes(), p.S.Bytes())
}

func DecodeDLEQBatchable(b []byte) (DLEQBatchable, error) {
	if len(b) != DLEQBatchableBytes {
		return DLEQBatchable{}, fmt.Errorf("dleq: expected %d batchable bytes, got %d", DLEQBatchableBytes, len(b))
	}
	r, err := PointFromBytes(b[0:32])
	if err != nil {
		return DLEQBatchable{}, err
	}
	hr, err := PointFromBytes(b[32:64])
	if err != nil {
		return DLEQBatchable{}, err
	}
	s, err := ScalarFromBytes(b[64:96])
	if err != nil {
		return DLEQBatchable{}, err
	}
	return DLEQBatchable{R: r, Hr: hr, S: s}, nil
}
