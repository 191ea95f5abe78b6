package model

import (
	"fmt"
	"math/rand"

	"github.com/mhcattn/mhcattn/internal/domain"
	"github.com/mhcattn/mhcattn/internal/ml"
)

const Classes = 2

type Topology struct {
	PeptideLength int
	MHCLength     int
	Alphabet      int
	HiddenNeurons int
}

// BindingNet maps a (peptide, MHC) pair to two class logits:
// sparse sequence features -> ReLU hidden layer -> linear output.
type BindingNet struct {
	topology Topology
	encoder  FeatureEncoder
	layer1   *Layer
	layer2   *Layer
}

func NewBindingNet(topology Topology, rnd *rand.Rand) *BindingNet {
	var encoder = FeatureEncoder{
		PeptideLength: topology.PeptideLength,
		MHCLength:     topology.MHCLength,
		Alphabet:      topology.Alphabet,
	}
	return &BindingNet{
		topology: topology,
		encoder:  encoder,
		layer1: NewLayer(
			encoder.FeatureSize(),
			topology.HiddenNeurons,
			&ml.ReLuActivation{}).
			InitWeightsReLU(rnd, encoder.ActiveFeatures()),
		layer2: NewLayer(
			topology.HiddenNeurons,
			Classes,
			&ml.IdentityActivation{}).
			InitWeightsXavier(rnd),
	}
}

func (m *BindingNet) forward(features []domain.FeatureInfo) {
	m.layer1.Forward(nil, features)
	m.layer2.Forward(m.layer1.outputs, nil)
}

// Forward returns one row of logits per sample of the batch.
func (m *BindingNet) Forward(batch *domain.Batch) [][]float64 {
	var logits = make([][]float64, len(batch.Bind))
	for i := range logits {
		m.forward(m.encoder.ComputeFeatures(batch.Peptide[i], batch.MHC[i]))
		var row = make([]float64, Classes)
		for j := range row {
			row[j] = m.layer2.outputs[j].Activation
		}
		logits[i] = row
	}
	return logits
}

// Backward accumulates parameter gradients for dLogits, the derivative of
// the loss with respect to the logits Forward produced for the same batch.
func (m *BindingNet) Backward(batch *domain.Batch, dLogits [][]float64) {
	for i := range dLogits {
		var features = m.encoder.ComputeFeatures(batch.Peptide[i], batch.MHC[i])
		m.forward(features)
		for j := range m.layer2.outputs {
			m.layer2.outputs[j].Error = dLogits[i][j]
		}
		m.layer2.Backward(m.layer1.outputs, nil)
		m.layer1.Backward(nil, features)
	}
}

func (m *BindingNet) Parameters() []ml.Parameter {
	var res = m.layer1.parameters("hidden")
	return append(res, m.layer2.parameters("output")...)
}

func (m *BindingNet) String() string {
	var total int
	for _, p := range m.Parameters() {
		total += p.Size()
	}
	return fmt.Sprintf("BindingNet(features=%v, hidden=%v, outputs=%v, parameters=%v)",
		m.encoder.FeatureSize(), m.topology.HiddenNeurons, Classes, total)
}
