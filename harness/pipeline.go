package harness

import (
	"github.com/domicon-labs/blobcheck/blob"
	"github.com/domicon-labs/blobcheck/blobkzg"
)

// ComputeComponents commits to b and then proves the commitment. The proof is
// only attempted once the commitment succeeded.
func ComputeComponents(b blob.Blob, s *blobkzg.Settings) (blobkzg.Commitment, blobkzg.Proof, error) {
	commitment, err := blobkzg.BlobToCommitment(b, s)
	if err != nil {
		return blobkzg.Commitment{}, blobkzg.Proof{}, &StageError{Stage: StageCommitment, Iteration: -1, Err: err}
	}
	proof, err := blobkzg.ComputeBlobProof(b, commitment, s)
	if err != nil {
		return blobkzg.Commitment{}, blobkzg.Proof{}, &StageError{Stage: StageProof, Iteration: -1, Err: err}
	}
	return commitment, proof, nil
}
