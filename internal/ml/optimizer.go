package ml

import "math"

type IOptimizer interface {
	ZeroGrad()
	Step()
}

const (
	DefaultLearningRate = 0.001
	DefaultBeta1        = 0.9
	DefaultBeta2        = 0.999
	DefaultEpsilon      = 1e-8
)

// Adam is the Adam optimizer with bias-corrected moments.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64

	params []Parameter
	step   int
}

func NewAdam(params []Parameter, learningRate float64) *Adam {
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	return &Adam{
		LearningRate: learningRate,
		Beta1:        DefaultBeta1,
		Beta2:        DefaultBeta2,
		Epsilon:      DefaultEpsilon,
		params:       params,
	}
}

func (o *Adam) ZeroGrad() {
	for _, p := range o.params {
		p.Grad.Zero()
	}
}

func (o *Adam) Step() {
	o.step++
	var bc1 = 1 - math.Pow(o.Beta1, float64(o.step))
	var bc2 = 1 - math.Pow(o.Beta2, float64(o.step))
	for _, p := range o.params {
		var weights = p.Value.Data
		for i := range p.Grad.Data {
			var g = &p.Grad.Data[i]
			g.M1 = g.M1*o.Beta1 + g.Value*(1-o.Beta1)
			g.M2 = g.M2*o.Beta2 + (g.Value*g.Value)*(1-o.Beta2)
			var m = g.M1 / bc1
			var v = g.M2 / bc2
			weights[i] -= o.LearningRate * m / (math.Sqrt(v) + o.Epsilon)
		}
	}
}

// Steps returns the number of updates applied so far.
func (o *Adam) Steps() int { return o.step }
