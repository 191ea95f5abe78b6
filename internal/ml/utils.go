package ml

import (
	"math"
	"math/rand"
)

func InitUniform(rnd *rand.Rand, data []float64, variance float64) {
	var uniformVariance = 1.0 / 12
	var scale = math.Sqrt(variance / uniformVariance)
	for i := range data {
		data[i] = (rnd.Float64() - 0.5) * scale
	}
}

func Softmax(xs []float64) []float64 {
	var res = make([]float64, len(xs))
	if len(xs) == 0 {
		return res
	}
	var max = xs[0]
	for _, x := range xs[1:] {
		if x > max {
			max = x
		}
	}
	var sum float64
	for i, x := range xs {
		res[i] = math.Exp(x - max)
		sum += res[i]
	}
	for i := range res {
		res[i] /= sum
	}
	return res
}

// ArgMax returns the index of the largest value, the first one on ties.
func ArgMax(xs []float64) int {
	var best = 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}
