package blob

import (
	"math"
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// BytesPerFieldElement is the size of one big-endian encoded scalar.
const BytesPerFieldElement = 32

var (
	ErrUnknownPreset = errors.New("unknown blob preset")
	ErrInvalidPreset = errors.New("invalid blob preset")
)

// maxFieldElementsPerBlob keeps BytesPerBlob representable as an int.
const maxFieldElementsPerBlob = math.MaxInt / BytesPerFieldElement

// Preset fixes the geometry of a blob.
type Preset struct {
	Name string
	// FieldElementsPerBlob must be a power of two.
	FieldElementsPerBlob uint64
}

var (
	// Mainnet matches the EIP-4844 blob geometry.
	Mainnet = Preset{Name: "mainnet", FieldElementsPerBlob: 4096}
	// Minimal keeps blobs tiny for tests.
	Minimal = Preset{Name: "minimal", FieldElementsPerBlob: 4}
)

func (p Preset) BytesPerBlob() uint64 {
	return p.FieldElementsPerBlob * BytesPerFieldElement
}

// Validate checks that p describes a blob that can be allocated and
// interpolated over a radix-2 domain.
func (p Preset) Validate() error {
	if p.FieldElementsPerBlob < 2 || bits.OnesCount64(p.FieldElementsPerBlob) != 1 {
		return errors.Wrapf(ErrInvalidPreset, "%q: field elements per blob must be a power of two >= 2, got %d", p.Name, p.FieldElementsPerBlob)
	}
	if p.FieldElementsPerBlob > maxFieldElementsPerBlob {
		return errors.Wrapf(ErrInvalidPreset, "%q: %d field elements per blob do not fit in memory", p.Name, p.FieldElementsPerBlob)
	}
	return nil
}

// PresetByName resolves a preset name case-insensitively.
func PresetByName(name string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Mainnet.Name:
		return Mainnet, nil
	case Minimal.Name:
		return Minimal, nil
	}
	return Preset{}, errors.Wrap(ErrUnknownPreset, name)
}
