package blobkzg

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/domicon-labs/blobcheck/blob"
)

// fiatShamirDomain separates blob proof challenges from any other use of the
// same hash.
const fiatShamirDomain = "BLOBCHECK_FS_V1"

var (
	ErrInvalidBlob       = errors.New("invalid blob")
	ErrInvalidCommitment = errors.New("invalid commitment")
	ErrInvalidProof      = errors.New("invalid proof")
)

// Commitment is a compressed G1 point committing to a blob polynomial.
type Commitment [bls12381.SizeOfG1AffineCompressed]byte

// Proof is a compressed G1 point opening a blob polynomial at its challenge.
type Proof [bls12381.SizeOfG1AffineCompressed]byte

func (c Commitment) String() string { return hexutil.Encode(c[:]) }

func (p Proof) String() string { return hexutil.Encode(p[:]) }

// BlobToCommitment commits to the polynomial whose evaluations over the
// preset's domain are the blob's field elements.
func BlobToCommitment(b blob.Blob, s *Settings) (Commitment, error) {
	poly, err := s.polynomial(b)
	if err != nil {
		return Commitment{}, err
	}
	digest, err := kzg.Commit(poly, s.srs.Pk)
	if err != nil {
		return Commitment{}, errors.Wrap(err, "commit")
	}
	return Commitment(digest.Bytes()), nil
}

// ComputeBlobProof opens the blob polynomial at the Fiat-Shamir challenge
// derived from the blob and commitment.
//
// This does not check that commitment actually commits to b.
func ComputeBlobProof(b blob.Blob, commitment Commitment, s *Settings) (Proof, error) {
	poly, err := s.polynomial(b)
	if err != nil {
		return Proof{}, err
	}
	var digest kzg.Digest
	if _, err := digest.SetBytes(commitment[:]); err != nil {
		return Proof{}, errors.Wrap(ErrInvalidCommitment, err.Error())
	}
	opening, err := kzg.Open(poly, computeChallenge(b, commitment), s.srs.Pk)
	if err != nil {
		return Proof{}, errors.Wrap(err, "open")
	}
	return Proof(opening.H.Bytes()), nil
}

// VerifyBlobProof reports whether proof shows that commitment commits to b.
// A well-formed triple that fails the pairing check yields false and a nil
// error; malformed inputs yield an error.
func VerifyBlobProof(b blob.Blob, commitment Commitment, proof Proof, s *Settings) (bool, error) {
	poly, err := s.polynomial(b)
	if err != nil {
		return false, err
	}
	var digest kzg.Digest
	if _, err := digest.SetBytes(commitment[:]); err != nil {
		return false, errors.Wrap(ErrInvalidCommitment, err.Error())
	}
	var opening kzg.OpeningProof
	if _, err := opening.H.SetBytes(proof[:]); err != nil {
		return false, errors.Wrap(ErrInvalidProof, err.Error())
	}
	z := computeChallenge(b, commitment)
	opening.ClaimedValue = evaluate(poly, z)

	err = kzg.Verify(&digest, &opening, z, s.srs.Vk)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, kzg.ErrVerifyOpeningProof):
		return false, nil
	default:
		return false, errors.Wrap(err, "pairing check")
	}
}

// polynomial parses b and interpolates it into monomial coefficients.
func (s *Settings) polynomial(b blob.Blob) ([]fr.Element, error) {
	if uint64(len(b)) != s.preset.BytesPerBlob() {
		return nil, errors.Wrapf(ErrInvalidBlob, "length %d, want %d", len(b), s.preset.BytesPerBlob())
	}
	poly := make([]fr.Element, s.preset.FieldElementsPerBlob)
	for i := range poly {
		if err := poly[i].SetBytesCanonical(b.Slot(i)); err != nil {
			return nil, errors.Wrapf(ErrInvalidBlob, "field element %d: %v", i, err)
		}
	}
	// DIF takes natural order input and leaves the output bit-reversed
	s.domain.FFTInverse(poly, fft.DIF)
	fft.BitReverse(poly)
	return poly, nil
}

func computeChallenge(b blob.Blob, commitment Commitment) fr.Element {
	var degree [32]byte
	putUint256(degree[:], uint64(b.FieldElements()))
	h := crypto.Keccak256([]byte(fiatShamirDomain), degree[:], b, commitment[:])
	var z fr.Element
	z.SetBytes(h)
	return z
}

// evaluate computes p(x) with Horner's rule.
func evaluate(p []fr.Element, x fr.Element) fr.Element {
	var res fr.Element
	for i := len(p) - 1; i >= 0; i-- {
		res.Mul(&res, &x)
		res.Add(&res, &p[i])
	}
	return res
}

// putUint256 writes v as a 32-byte big-endian integer.
func putUint256(b []byte, v uint64) {
	_ = b[31]
	for i := 0; i < 24; i++ {
		b[i] = 0
	}
	for i := 0; i < 8; i++ {
		b[31-i] = byte(v >> (8 * i))
	}
}
