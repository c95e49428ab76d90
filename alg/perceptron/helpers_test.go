package perceptron

import "coref/alg/featurevector"

type testData struct {
	dim     int
	vectors []featurevector.Vector
	labels  []string
	weights []float64
}

var _ Instances = &testData{}

func newTestData(dim int) *testData {
	return &testData{dim: dim}
}

func (d *testData) add(label string, values ...float64) *testData {
	d.vectors = append(d.vectors, featurevector.Vector(values))
	d.labels = append(d.labels, label)
	d.weights = append(d.weights, 1)
	return d
}

func (d *testData) Len() int                            { return len(d.vectors) }
func (d *testData) Dim() int                            { return d.dim }
func (d *testData) Features(i int) featurevector.Vector { return d.vectors[i] }
func (d *testData) Label(i int) string                  { return d.labels[i] }
func (d *testData) Weight(i int) float64                { return d.weights[i] }
func (d *testData) SetWeight(i int, w float64)          { d.weights[i] = w }

// separable returns points on a grid over [0,255]² labeled by the side of the
// diagonal, leaving a gap of at least 50 around it.
func separable() *testData {
	d := newTestData(2)
	for x := 0.0; x <= 255; x += 15 {
		for y := 0.0; y <= 255; y += 15 {
			switch {
			case x-y >= 50:
				d.add("positive", x, y)
			case y-x >= 50:
				d.add("negative", x, y)
			}
		}
	}
	return d
}
