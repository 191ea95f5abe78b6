package metrics

const (
	KeyLoss      = "loss"
	KeyAccuracy  = "accuracy"
	KeyPrecision = "precision"
	KeyRecall    = "recall"
	KeyROCAUC    = "roc_auc"
)

// DefaultKeys lists the tracked metrics in reporting order.
var DefaultKeys = []string{KeyLoss, KeyAccuracy, KeyPrecision, KeyRecall, KeyROCAUC}

// History maps a metric name to its per-epoch values.
type History map[string][]float64

func NewHistory() History {
	var h = make(History, len(DefaultKeys))
	for _, key := range DefaultKeys {
		h[key] = []float64{}
	}
	return h
}

// Append records one epoch.
func (h History) Append(loss float64, r Report) {
	h[KeyLoss] = append(h[KeyLoss], loss)
	h[KeyAccuracy] = append(h[KeyAccuracy], r.Accuracy)
	h[KeyPrecision] = append(h[KeyPrecision], r.Precision)
	h[KeyRecall] = append(h[KeyRecall], r.Recall)
	h[KeyROCAUC] = append(h[KeyROCAUC], r.ROCAUC)
}

// Epochs is the number of recorded epochs.
func (h History) Epochs() int {
	return len(h[KeyLoss])
}
