package train

import "github.com/mhcattn/mhcattn/internal/domain"

type IModel interface {
	Forward(batch *domain.Batch) [][]float64
	Backward(batch *domain.Batch, dLogits [][]float64)
	Save(path string) error
}

type IBatchProvider interface {
	Batches() []domain.Batch
}

// IsFullBatch reports whether a batch takes part in an epoch. Batches
// smaller than the configured size are skipped, never padded.
func IsFullBatch(batch *domain.Batch, batchSize int) bool {
	return batch.BatchSize == batchSize
}
