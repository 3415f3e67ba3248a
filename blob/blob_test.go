package blob

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCanonical(t *testing.T) {
	for _, preset := range []Preset{Minimal, Mainnet} {
		for seed := int64(0); seed < 16; seed++ {
			b, err := Generate(rand.New(rand.NewSource(seed)), preset)
			require.NoError(t, err)
			assert.Equal(t, preset.BytesPerBlob(), uint64(len(b)))
			assert.Equal(t, int(preset.FieldElementsPerBlob), b.FieldElements())
			for i := 0; i < b.FieldElements(); i++ {
				slot := b.Slot(i)
				assert.Zero(t, slot[0], "seed %d slot %d", seed, i)
				v := new(uint256.Int).SetBytes32(slot)
				assert.True(t, v.Lt(modulus), "seed %d slot %d", seed, i)
			}
		}
	}
}

func TestGenerateKeepsLowerBytes(t *testing.T) {
	// an all-0xff source exercises the top byte clearing only
	src := bytes.NewReader(bytes.Repeat([]byte{0xff}, int(Minimal.BytesPerBlob())))
	b, err := Generate(src, Minimal)
	require.NoError(t, err)
	for i := 0; i < b.FieldElements(); i++ {
		want := append([]byte{0}, bytes.Repeat([]byte{0xff}, BytesPerFieldElement-1)...)
		assert.Equal(t, want, b.Slot(i))
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a, err := Generate(rand.New(rand.NewSource(7)), Minimal)
	require.NoError(t, err)
	b, err := Generate(rand.New(rand.NewSource(7)), Minimal)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateShortEntropy(t *testing.T) {
	_, err := Generate(bytes.NewReader(make([]byte, 10)), Minimal)
	assert.ErrorIs(t, err, ErrEntropy)
}

func TestSlotOffset(t *testing.T) {
	off, err := slotOffset(3, 128)
	require.NoError(t, err)
	assert.Equal(t, 96, off)

	_, err = slotOffset(4, 128)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = slotOffset(1<<60, 128)
	assert.ErrorIs(t, err, ErrIndexOverflow)
}

func TestFromBytes(t *testing.T) {
	data := make([]byte, Minimal.BytesPerBlob())
	b, err := FromBytes(data, Minimal)
	require.NoError(t, err)
	data[0] = 1
	assert.Zero(t, b[0], "FromBytes must copy")

	_, err = FromBytes(data[:31], Minimal)
	assert.ErrorIs(t, err, ErrMalformedBlob)

	// r itself is the smallest non-canonical value
	r := fr.Modulus().FillBytes(make([]byte, BytesPerFieldElement))
	copy(data[BytesPerFieldElement:], r)
	_, err = FromBytes(data, Minimal)
	assert.ErrorIs(t, err, ErrMalformedBlob)

	// r-1 is fine
	r[BytesPerFieldElement-1]--
	copy(data[BytesPerFieldElement:], r)
	_, err = FromBytes(data, Minimal)
	assert.NoError(t, err)
}

func TestPresets(t *testing.T) {
	p, err := PresetByName(" Mainnet ")
	require.NoError(t, err)
	assert.Equal(t, Mainnet, p)
	assert.Equal(t, uint64(131072), p.BytesPerBlob())
	assert.NoError(t, p.Validate())

	_, err = PresetByName("holesky")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	assert.ErrorIs(t, Preset{Name: "odd", FieldElementsPerBlob: 6}.Validate(), ErrInvalidPreset)
	assert.ErrorIs(t, Preset{Name: "one", FieldElementsPerBlob: 1}.Validate(), ErrInvalidPreset)
	assert.ErrorIs(t, Preset{Name: "huge", FieldElementsPerBlob: 1 << 58}.Validate(), ErrInvalidPreset)
}

func TestGenerateRejectsInvalidPreset(t *testing.T) {
	for _, p := range []Preset{
		{Name: "empty"},
		{Name: "odd", FieldElementsPerBlob: 3},
		// 2^58 * 32 bytes is 2^63, past the largest int
		{Name: "huge", FieldElementsPerBlob: 1 << 58},
		// 2^59 * 32 wraps to zero bytes
		{Name: "wrapping", FieldElementsPerBlob: 1 << 59},
	} {
		src := rand.New(rand.NewSource(1))
		assert.NotPanics(t, func() {
			b, err := Generate(src, p)
			assert.ErrorIs(t, err, ErrInvalidPreset, p.Name)
			assert.Nil(t, b, p.Name)
		}, p.Name)
	}
}
