// Package setup reads and writes the JSON trusted setup document consumed by
// blobkzg.LoadTrustedSetup.
package setup

import (
	"encoding/json"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/domicon-labs/blobcheck/blob"
	"github.com/domicon-labs/blobcheck/blobkzg"
)

var ErrParse = errors.New("unable to read trusted setup")

// TrustedSetup lists compressed monomial powers of the setup secret in G1
// and G2, lowest power first.
type TrustedSetup struct {
	G1Monomial []hexutil.Bytes `json:"g1_monomial"`
	G2Monomial []hexutil.Bytes `json:"g2_monomial"`
}

// Parse decodes a trusted setup document.
func Parse(data []byte) (*TrustedSetup, error) {
	var ts TrustedSetup
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	if len(ts.G1Monomial) == 0 || len(ts.G2Monomial) == 0 {
		return nil, errors.Wrapf(ErrParse, "empty point list (g1 %d, g2 %d)", len(ts.G1Monomial), len(ts.G2Monomial))
	}
	return &ts, nil
}

func (ts *TrustedSetup) G1Points() [][]byte { return toBytes(ts.G1Monomial) }

func (ts *TrustedSetup) G2Points() [][]byte { return toBytes(ts.G2Monomial) }

// Load parses data and loads it for preset.
func Load(data []byte, preset blob.Preset) (*blobkzg.Settings, error) {
	ts, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return blobkzg.LoadTrustedSetup(ts.G1Points(), ts.G2Points(), preset)
}

// FromSRS encodes a gnark-crypto SRS as a trusted setup document.
func FromSRS(srs *kzg.SRS) *TrustedSetup {
	ts := &TrustedSetup{
		G1Monomial: make([]hexutil.Bytes, len(srs.Pk.G1)),
		G2Monomial: make([]hexutil.Bytes, len(srs.Vk.G2)),
	}
	for i := range srs.Pk.G1 {
		b := srs.Pk.G1[i].Bytes()
		ts.G1Monomial[i] = b[:]
	}
	for i := range srs.Vk.G2 {
		b := srs.Vk.G2[i].Bytes()
		ts.G2Monomial[i] = b[:]
	}
	return ts
}

// Marshal encodes ts in the indented form used for checked-in setups.
func (ts *TrustedSetup) Marshal() ([]byte, error) {
	return json.MarshalIndent(ts, "", "  ")
}

func toBytes(in []hexutil.Bytes) [][]byte {
	out := make([][]byte, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}
