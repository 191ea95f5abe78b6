package model

import (
	"math/rand"

	"github.com/mhcattn/mhcattn/internal/domain"
	"github.com/mhcattn/mhcattn/internal/ml"
)

type Neuron struct {
	Activation float64
	Error      float64
	Prime      float64
}

// Layer is a fully connected layer. Its input is the concatenation of a
// dense part (outputs of the previous layer) and a sparse part (features).
type Layer struct {
	activationFn ml.IActivationFn
	outputs      []Neuron
	weights      ml.Matrix
	biases       ml.Matrix
	wGradients   ml.Gradients
	bGradients   ml.Gradients
}

func NewLayer(
	inputSize int,
	outputSize int,
	activationFn ml.IActivationFn,
) *Layer {
	return &Layer{
		outputs:      make([]Neuron, outputSize),
		activationFn: activationFn,
		weights:      ml.NewMatrix(outputSize, inputSize),
		biases:       ml.NewMatrix(outputSize, 1),
		wGradients:   ml.NewGradients(outputSize, inputSize),
		bGradients:   ml.NewGradients(outputSize, 1),
	}
}

func (layer *Layer) InitWeightsReLU(rnd *rand.Rand, activeInputs int) *Layer {
	var variance = 2.0 / float64(activeInputs)
	ml.InitUniform(rnd, layer.weights.Data, variance)
	return layer
}

func (layer *Layer) InitWeightsXavier(rnd *rand.Rand) *Layer {
	var outputSize = layer.weights.Rows
	var inputSize = layer.weights.Cols
	var variance = 2.0 / float64(inputSize+outputSize)
	ml.InitUniform(rnd, layer.weights.Data, variance)
	return layer
}

func (layer *Layer) Forward(input1 []Neuron, input2 []domain.FeatureInfo) {
	for outputIndex := range layer.outputs {
		var x = layer.biases.Data[outputIndex]
		for inputIndex := range input1 {
			var inputValue = input1[inputIndex].Activation
			x += layer.weights.Get(outputIndex, inputIndex) * inputValue
		}
		var offsetIndex = len(input1)
		for _, input := range input2 {
			var inputIndex = offsetIndex + int(input.Index)
			x += layer.weights.Get(outputIndex, inputIndex) * float64(input.Value)
		}
		var n = &layer.outputs[outputIndex]
		n.Activation = layer.activationFn.Sigma(x)
		n.Prime = layer.activationFn.SigmaPrime(x)
	}
}

// Backward expects Error of every output neuron to hold dLoss/dActivation.
// It accumulates weight gradients and sets Error of the dense inputs.
func (layer *Layer) Backward(input1 []Neuron, input2 []domain.FeatureInfo) {
	for inputIndex := range input1 {
		input1[inputIndex].Error = 0
	}
	for outputIndex := range layer.outputs {
		var n = &layer.outputs[outputIndex]
		var x = n.Error * n.Prime
		if x == 0 {
			continue
		}
		layer.bGradients.Add(outputIndex, 0, x)
		for inputIndex := range input1 {
			input1[inputIndex].Error += layer.weights.Get(outputIndex, inputIndex) * x
			layer.wGradients.Add(outputIndex, inputIndex, x*input1[inputIndex].Activation)
		}
		var offsetIndex = len(input1)
		for _, input := range input2 {
			var inputIndex = offsetIndex + int(input.Index)
			layer.wGradients.Add(outputIndex, inputIndex, x*float64(input.Value))
		}
	}
}

func (layer *Layer) parameters(name string) []ml.Parameter {
	return []ml.Parameter{
		{Name: name + ".weight", Value: &layer.weights, Grad: &layer.wGradients},
		{Name: name + ".bias", Value: &layer.biases, Grad: &layer.bGradients},
	}
}
