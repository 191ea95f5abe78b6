package ml

// Gradient keeps the accumulated derivative of one weight together with
// the optimizer moments for it.
type Gradient struct {
	Value float64
	M1    float64
	M2    float64
}

type Gradients struct {
	Data []Gradient
	Rows int
	Cols int
}

func NewGradients(rows, cols int) Gradients {
	return Gradients{
		Data: make([]Gradient, cols*rows),
		Rows: rows,
		Cols: cols,
	}
}

func (g *Gradients) Add(row, col int, delta float64) {
	g.Data[col*g.Rows+row].Value += delta
}

func (g *Gradients) Zero() {
	for i := range g.Data {
		g.Data[i].Value = 0
	}
}

// Parameter binds trainable weights to their gradients.
type Parameter struct {
	Name  string
	Value *Matrix
	Grad  *Gradients
}

func (p Parameter) Size() int { return len(p.Value.Data) }
