package blob

import (
	"io"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrEntropy       = errors.New("failed to read randomness")
	ErrIndexOverflow = errors.New("field element offset overflows")
	ErrOutOfBounds   = errors.New("field element offset out of bounds")
	ErrMalformedBlob = errors.New("malformed blob")
)

// modulus is the BLS12-381 scalar field order r.
var modulus = uint256.MustFromBig(fr.Modulus())

// Blob is a sequence of canonical big-endian scalars, one per
// BytesPerFieldElement-sized slot.
type Blob []byte

// FieldElements returns the number of slots in b.
func (b Blob) FieldElements() int {
	return len(b) / BytesPerFieldElement
}

// Slot returns the i-th field element encoding. It aliases b.
func (b Blob) Slot(i int) []byte {
	return b[i*BytesPerFieldElement : (i+1)*BytesPerFieldElement]
}

// FromBytes checks that data is a well-formed blob for preset and returns a
// copy of it.
func FromBytes(data []byte, preset Preset) (Blob, error) {
	if uint64(len(data)) != preset.BytesPerBlob() {
		return nil, errors.Wrapf(ErrMalformedBlob, "length %d, want %d", len(data), preset.BytesPerBlob())
	}
	var v uint256.Int
	for i := 0; i < len(data); i += BytesPerFieldElement {
		v.SetBytes32(data[i : i+BytesPerFieldElement])
		if !v.Lt(modulus) {
			return nil, errors.Wrapf(ErrMalformedBlob, "field element %d is not canonical", i/BytesPerFieldElement)
		}
	}
	b := make(Blob, len(data))
	copy(b, data)
	return b, nil
}

// Generate fills a blob with bytes from rand and clears the most significant
// byte of every field element so each one is below the modulus.
//
// The result is uniform over [0, 2^248) per element, a strict subset of the
// field. Invalid presets are rejected with ErrInvalidPreset before any
// randomness is read.
func Generate(rand io.Reader, preset Preset) (Blob, error) {
	if err := preset.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, preset.BytesPerBlob())
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, errors.Wrap(ErrEntropy, err.Error())
	}
	for i := uint64(0); i < preset.FieldElementsPerBlob; i++ {
		off, err := slotOffset(i, len(buf))
		if err != nil {
			return nil, err
		}
		buf[off] = 0
	}
	b, err := FromBytes(buf, preset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create blob")
	}
	return b, nil
}

// slotOffset returns the index of the first byte of field element i within a
// buffer of size n.
func slotOffset(i uint64, n int) (int, error) {
	hi, off := bits.Mul64(i, BytesPerFieldElement)
	if hi != 0 || off > uint64(^uint(0)>>1) {
		return 0, errors.Wrapf(ErrIndexOverflow, "index %d", i)
	}
	if off >= uint64(n) {
		return 0, errors.Wrapf(ErrOutOfBounds, "index %d, offset %d, blob size %d", i, off, n)
	}
	return int(off), nil
}
