// Command gensetup writes an insecure trusted setup for testing. The secret
// is known, so the output must never be used outside tests.
package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/domicon-labs/blobcheck/blob"
	"github.com/domicon-labs/blobcheck/setup"
)

func main() {
	size := pflag.Uint64("size", blob.Mainnet.FieldElementsPerBlob, "number of G1 powers")
	secret := pflag.Int64("secret", 1337, "setup secret τ")
	out := pflag.StringP("out", "o", "trusted_setup.json", "output file")
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	srs, err := kzg.NewSRS(*size, big.NewInt(*secret))
	if err != nil {
		logger.Fatal("failed to create srs", zap.Error(err))
	}
	data, err := setup.FromSRS(srs).Marshal()
	if err != nil {
		logger.Fatal("failed to encode setup", zap.Error(err))
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Fatal("failed to write setup", zap.Error(err))
	}
	logger.Info("wrote trusted setup", zap.String("file", *out), zap.Uint64("g1", *size))
}
