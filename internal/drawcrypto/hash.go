package drawcrypto

import (
	"crypto/sha512"
	"fmt"
	"hash"
)

var (
	hashToScalarPrefix = []byte("VPD1|hash_to_scalar|")
	hashToPointPrefix  = []byte("VPD1|hash_to_point|")
)

func updateLenBytes(h hash.Hash, b []byte) {
	h.Write(u32le(uint32(len(b))))
	h.Write(b)
}

func wideHash(prefix []byte, domainSep string, msgs [][]byte) ([]byte, error) {
	h := sha512.New()
	h.Write(prefix)
	updateLenBytes(h, []byte(domainSep))
	for _, m := range msgs {
		if m == nil {
			return nil, fmt.Errorf("%s: nil msg", domainSep)
		}
		updateLenBytes(h, m)
	}
	return h.Sum(nil), nil
}

// HashToScalar reduces SHA-512(prefix || len-prefixed domain || len-prefixed msgs) mod l.
func HashToScalar(domainSep string, msgs ...[]byte) (Scalar, error) {
	digest, err := wideHash(hashToScalarPrefix, domainSep, msgs)
	if err != nil {
		return Scalar{}, err
	}
	return ScalarFromUniformBytes(digest)
}

// HashToPoint maps the same length-prefixed encoding onto the group with the
// ristretto255 one-way map.
func HashToPoint(domainSep string, msgs ...[]byte) (Point, error) {
	digest, err := wideHash(hashToPointPrefix, domainSep, msgs)
	if err != nil {
		return Point{}, err
	}
	return PointFromUniformBytes(digest)
}
