package ml

import "math"

// ILoss computes a batch loss from raw logits and returns the gradient of
// that loss with respect to every logit.
type ILoss interface {
	Loss(logits [][]float64, targets []int) (float64, [][]float64)
}

// CrossEntropyLoss is softmax cross entropy averaged over the batch.
type CrossEntropyLoss struct{}

func (*CrossEntropyLoss) Loss(logits [][]float64, targets []int) (float64, [][]float64) {
	var n = len(logits)
	if n == 0 {
		return 0, nil
	}
	var total float64
	var grads = make([][]float64, n)
	for i, row := range logits {
		var target = targets[i]
		var probs = Softmax(row)
		total += logSumExp(row) - row[target]
		var g = make([]float64, len(row))
		for j := range probs {
			g[j] = probs[j] / float64(n)
		}
		g[target] -= 1 / float64(n)
		grads[i] = g
	}
	return total / float64(n), grads
}

func logSumExp(xs []float64) float64 {
	var max = math.Inf(-1)
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	var sum float64
	for _, x := range xs {
		sum += math.Exp(x - max)
	}
	return max + math.Log(sum)
}
