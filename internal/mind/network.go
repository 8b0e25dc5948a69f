// Package mind implements the cognition core: the consciousness state
// machine, the value learner, the goal system and the decision arbiter
// that ties them together.
package mind

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Network is a small fully connected net with ReLU hidden layers,
// trained with Adam on a squared-error loss over chosen-action outputs.
// It maps a need vector to one value estimate per action.
type Network struct {
	sizes   []int
	weights []*mat.Dense
	biases  []*mat.VecDense

	// Adam moment estimates, one pair per parameter matrix.
	mW, vW []*mat.Dense
	mB, vB []*mat.VecDense
	step   int

	lr float64
}

// NetworkSnapshot is the gob-encodable form of a network's parameters.
type NetworkSnapshot struct {
	Sizes   []int
	Weights [][]float64
	Biases  [][]float64
}

// NewNetwork builds a net with the given layer sizes, first entry input
// width and last entry output width. Weights start at scaled uniform
// noise from rng.
func NewNetwork(sizes []int, lr float64, rng *rand.Rand) *Network {
	n := &Network{sizes: append([]int(nil), sizes...), lr: lr}
	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		w := mat.NewDense(out, in, nil)
		scale := math.Sqrt(2.0 / float64(in))
		for i := 0; i < out; i++ {
			for j := 0; j < in; j++ {
				w.Set(i, j, rng.NormFloat64()*scale)
			}
		}
		n.weights = append(n.weights, w)
		n.biases = append(n.biases, mat.NewVecDense(out, nil))
		n.mW = append(n.mW, mat.NewDense(out, in, nil))
		n.vW = append(n.vW, mat.NewDense(out, in, nil))
		n.mB = append(n.mB, mat.NewVecDense(out, nil))
		n.vB = append(n.vB, mat.NewVecDense(out, nil))
	}
	return n
}

// Forward returns the value estimates for one input vector.
func (n *Network) Forward(in []float64) []float64 {
	a := mat.NewVecDense(len(in), append([]float64(nil), in...))
	last := len(n.weights) - 1
	for l, w := range n.weights {
		out := mat.NewVecDense(n.sizes[l+1], nil)
		out.MulVec(w, a)
		out.AddVec(out, n.biases[l])
		if l != last {
			relu(out)
		}
		a = out
	}
	return append([]float64(nil), a.RawVector().Data...)
}

// forwardTrace runs a forward pass keeping every layer's pre-activation
// and activation for backprop. activations[0] is the input.
func (n *Network) forwardTrace(in []float64) (pre, activations []*mat.VecDense) {
	a := mat.NewVecDense(len(in), append([]float64(nil), in...))
	activations = append(activations, a)
	last := len(n.weights) - 1
	for l, w := range n.weights {
		z := mat.NewVecDense(n.sizes[l+1], nil)
		z.MulVec(w, a)
		z.AddVec(z, n.biases[l])
		pre = append(pre, z)
		out := mat.NewVecDense(z.Len(), append([]float64(nil), z.RawVector().Data...))
		if l != last {
			relu(out)
		}
		activations = append(activations, out)
		a = out
	}
	return pre, activations
}

// sample is one training example: an input, the output index whose value
// is being fit, and the target value for it.
type sample struct {
	input  []float64
	action int
	target float64
}

// train fits the batch with one Adam step. The loss is mean squared
// error over the chosen-action outputs only; other outputs receive no
// gradient.
func (n *Network) train(batch []sample) {
	gradW := make([]*mat.Dense, len(n.weights))
	gradB := make([]*mat.VecDense, len(n.biases))
	for l, w := range n.weights {
		r, c := w.Dims()
		gradW[l] = mat.NewDense(r, c, nil)
		gradB[l] = mat.NewVecDense(r, nil)
	}

	inv := 1.0 / float64(len(batch))
	for _, s := range batch {
		pre, acts := n.forwardTrace(s.input)
		last := len(n.weights) - 1

		// Output delta: gradient of (q[a]-target)^2 averaged over batch.
		out := acts[len(acts)-1]
		delta := mat.NewVecDense(out.Len(), nil)
		delta.SetVec(s.action, 2*(out.AtVec(s.action)-s.target)*inv)

		for l := last; l >= 0; l-- {
			if l != last {
				// Backprop through ReLU of layer l.
				for i := 0; i < delta.Len(); i++ {
					if pre[l].AtVec(i) <= 0 {
						delta.SetVec(i, 0)
					}
				}
			}
			var g mat.Dense
			g.Outer(1, delta, acts[l])
			gradW[l].Add(gradW[l], &g)
			gradB[l].AddVec(gradB[l], delta)

			if l > 0 {
				next := mat.NewVecDense(n.sizes[l], nil)
				next.MulVec(n.weights[l].T(), delta)
				delta = next
			}
		}
	}

	n.step++
	for l := range n.weights {
		adamDense(n.weights[l], gradW[l], n.mW[l], n.vW[l], n.lr, n.step)
		adamVec(n.biases[l], gradB[l], n.mB[l], n.vB[l], n.lr, n.step)
	}
}

const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

func adamDense(w, g, m, v *mat.Dense, lr float64, step int) {
	c1 := 1 - math.Pow(adamBeta1, float64(step))
	c2 := 1 - math.Pow(adamBeta2, float64(step))
	r, c := w.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			gij := g.At(i, j)
			mij := adamBeta1*m.At(i, j) + (1-adamBeta1)*gij
			vij := adamBeta2*v.At(i, j) + (1-adamBeta2)*gij*gij
			m.Set(i, j, mij)
			v.Set(i, j, vij)
			w.Set(i, j, w.At(i, j)-lr*(mij/c1)/(math.Sqrt(vij/c2)+adamEps))
		}
	}
}

func adamVec(b, g, m, v *mat.VecDense, lr float64, step int) {
	c1 := 1 - math.Pow(adamBeta1, float64(step))
	c2 := 1 - math.Pow(adamBeta2, float64(step))
	for i := 0; i < b.Len(); i++ {
		gi := g.AtVec(i)
		mi := adamBeta1*m.AtVec(i) + (1-adamBeta1)*gi
		vi := adamBeta2*v.AtVec(i) + (1-adamBeta2)*gi*gi
		m.SetVec(i, mi)
		v.SetVec(i, vi)
		b.SetVec(i, b.AtVec(i)-lr*(mi/c1)/(math.Sqrt(vi/c2)+adamEps))
	}
}

func relu(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < 0 {
			v.SetVec(i, 0)
		}
	}
}

// Clone returns an independent copy with the same parameters and fresh
// optimizer state.
func (n *Network) Clone() *Network {
	c := &Network{sizes: append([]int(nil), n.sizes...), lr: n.lr}
	for l, w := range n.weights {
		c.weights = append(c.weights, mat.DenseCopyOf(w))
		c.biases = append(c.biases, mat.VecDenseCopyOf(n.biases[l]))
		r, cols := w.Dims()
		c.mW = append(c.mW, mat.NewDense(r, cols, nil))
		c.vW = append(c.vW, mat.NewDense(r, cols, nil))
		c.mB = append(c.mB, mat.NewVecDense(n.biases[l].Len(), nil))
		c.vB = append(c.vB, mat.NewVecDense(n.biases[l].Len(), nil))
	}
	return c
}

// CopyFrom overwrites this network's parameters with src's. Layer shapes
// must match.
func (n *Network) CopyFrom(src *Network) {
	for l := range n.weights {
		n.weights[l].Copy(src.weights[l])
		n.biases[l].CopyVec(src.biases[l])
	}
}

// Snapshot extracts the parameters for serialization.
func (n *Network) Snapshot() NetworkSnapshot {
	s := NetworkSnapshot{Sizes: append([]int(nil), n.sizes...)}
	for l, w := range n.weights {
		s.Weights = append(s.Weights, append([]float64(nil), w.RawMatrix().Data...))
		s.Biases = append(s.Biases, append([]float64(nil), n.biases[l].RawVector().Data...))
	}
	return s
}

// Restore loads parameters from a snapshot. Layer shapes must match the
// network's configuration.
func (n *Network) Restore(s NetworkSnapshot) error {
	if len(s.Sizes) != len(n.sizes) {
		return fmt.Errorf("layer count mismatch: have %d, snapshot %d", len(n.sizes), len(s.Sizes))
	}
	for l, sz := range n.sizes {
		if s.Sizes[l] != sz {
			return fmt.Errorf("layer %d width mismatch: have %d, snapshot %d", l, sz, s.Sizes[l])
		}
	}
	if len(s.Weights) != len(n.weights) || len(s.Biases) != len(n.biases) {
		return fmt.Errorf("parameter layer count mismatch: have %d, snapshot %d/%d", len(n.weights), len(s.Weights), len(s.Biases))
	}
	// Validate every layer before touching any, so a bad snapshot never
	// leaves the network half-overwritten.
	for l := range n.weights {
		r, c := n.weights[l].Dims()
		if len(s.Weights[l]) != r*c || len(s.Biases[l]) != r {
			return fmt.Errorf("layer %d parameter count mismatch", l)
		}
	}
	for l := range n.weights {
		r, c := n.weights[l].Dims()
		n.weights[l] = mat.NewDense(r, c, append([]float64(nil), s.Weights[l]...))
		n.biases[l] = mat.NewVecDense(r, append([]float64(nil), s.Biases[l]...))
	}
	return nil
}
