package domain

// Sample is one labelled peptide/MHC pair. Sequences hold token ids,
// 0 is padding.
type Sample struct {
	Peptide []int
	MHC     []int
	Bind    int
}

// Batch is a group of samples laid out column-wise, the way the model
// consumes them.
type Batch struct {
	Peptide   [][]int
	MHC       [][]int
	Bind      []int
	BatchSize int
}

func NewBatch(samples []Sample) Batch {
	var b = Batch{
		Peptide:   make([][]int, len(samples)),
		MHC:       make([][]int, len(samples)),
		Bind:      make([]int, len(samples)),
		BatchSize: len(samples),
	}
	for i := range samples {
		b.Peptide[i] = samples[i].Peptide
		b.MHC[i] = samples[i].MHC
		b.Bind[i] = samples[i].Bind
	}
	return b
}

type FeatureInfo struct {
	Index int32
	Value float32
}
