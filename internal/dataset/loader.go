package dataset

import (
	"math/rand"

	"github.com/mhcattn/mhcattn/internal/domain"
)

// Loader cuts samples into consecutive batches of BatchSize. The last
// batch is smaller when the sample count is not a multiple of BatchSize.
type Loader struct {
	samples   []domain.Sample
	batchSize int
	rnd       *rand.Rand
}

// NewLoader returns a loader; a non-nil rnd reshuffles the sample order on
// every Batches call.
func NewLoader(samples []domain.Sample, batchSize int, rnd *rand.Rand) *Loader {
	return &Loader{
		samples:   samples,
		batchSize: batchSize,
		rnd:       rnd,
	}
}

func (l *Loader) Len() int {
	if l.batchSize <= 0 {
		return 0
	}
	return (len(l.samples) + l.batchSize - 1) / l.batchSize
}

func (l *Loader) Batches() []domain.Batch {
	if l.batchSize <= 0 {
		return nil
	}
	var samples = l.samples
	if l.rnd != nil {
		samples = make([]domain.Sample, len(l.samples))
		copy(samples, l.samples)
		l.rnd.Shuffle(len(samples), func(i, j int) {
			samples[i], samples[j] = samples[j], samples[i]
		})
	}
	var res = make([]domain.Batch, 0, l.Len())
	for i := 0; i < len(samples); i += l.batchSize {
		var end = i + l.batchSize
		if end > len(samples) {
			end = len(samples)
		}
		res = append(res, domain.NewBatch(samples[i:end]))
	}
	return res
}
