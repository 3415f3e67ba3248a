package blobkzg

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/pkg/errors"

	"github.com/domicon-labs/blobcheck/blob"
)

var ErrInvalidTrustedSetup = errors.New("invalid trusted setup")

// Settings holds the trusted setup bound to a blob preset. It is read-only
// once loaded and safe to share between goroutines.
type Settings struct {
	preset blob.Preset
	srs    kzg.SRS
	domain *fft.Domain
}

// LoadTrustedSetup decodes compressed G1 powers [τ^i]G1 and G2 powers
// [τ^i]G2. Only the first FieldElementsPerBlob G1 points and the first two
// G2 points are kept.
func LoadTrustedSetup(g1, g2 [][]byte, preset blob.Preset) (*Settings, error) {
	if err := preset.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidTrustedSetup, err.Error())
	}
	n := int(preset.FieldElementsPerBlob)
	if len(g1) < n {
		return nil, errors.Wrapf(ErrInvalidTrustedSetup, "have %d G1 points, preset %s needs %d", len(g1), preset.Name, n)
	}
	if len(g2) < 2 {
		return nil, errors.Wrapf(ErrInvalidTrustedSetup, "have %d G2 points, need 2", len(g2))
	}

	s := &Settings{preset: preset}
	s.srs.Pk.G1 = make([]bls12381.G1Affine, n)
	for i := range s.srs.Pk.G1 {
		if err := decodeExact(&s.srs.Pk.G1[i], g1[i], bls12381.SizeOfG1AffineCompressed); err != nil {
			return nil, errors.Wrapf(ErrInvalidTrustedSetup, "G1 point %d: %v", i, err)
		}
	}
	for i := range s.srs.Vk.G2 {
		if err := decodeExact(&s.srs.Vk.G2[i], g2[i], bls12381.SizeOfG2AffineCompressed); err != nil {
			return nil, errors.Wrapf(ErrInvalidTrustedSetup, "G2 point %d: %v", i, err)
		}
	}
	s.srs.Vk.G1 = s.srs.Pk.G1[0]
	s.domain = fft.NewDomain(preset.FieldElementsPerBlob)
	return s, nil
}

// Preset returns the blob geometry the settings were loaded for.
func (s *Settings) Preset() blob.Preset {
	return s.preset
}

type pointDecoder interface {
	SetBytes(buf []byte) (int, error)
}

func decodeExact(p pointDecoder, buf []byte, size int) error {
	if len(buf) != size {
		return errors.Errorf("encoding is %d bytes, want %d", len(buf), size)
	}
	_, err := p.SetBytes(buf)
	return err
}
