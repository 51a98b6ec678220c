// Copyright 2024 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package linkpred

import (
	"io"
	"math"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/base/encoding"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultMaxIter = 100
	DefaultReg     = 1.0
	defaultTol     = 1e-8
	// added to the Hessian diagonal so that the factorization succeeds without regularization
	jitter = 1e-10
)

// LogisticRegression is a binary classifier fitted by Newton's method (iteratively reweighted least squares) with
// L2 regularization on standardized features. The intercept is not penalized.
type LogisticRegression struct {
	Reg     float64
	MaxIter int
	Tol     float64

	Mean      FeatureVector
	Scale     FeatureVector
	Weights   FeatureVector
	Intercept float64
	// NumIter is the number of Newton steps taken by the last Fit.
	NumIter int
}

func NewLogisticRegression(reg float64, maxIter int) *LogisticRegression {
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	return &LogisticRegression{
		Reg:     reg,
		MaxIter: maxIter,
		Tol:     defaultTol,
	}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func (m *LogisticRegression) standardize(x FeatureVector) []float64 {
	z := make([]float64, NumFeatures+1)
	z[0] = 1
	for j := 0; j < NumFeatures; j++ {
		z[j+1] = (x[j] - m.Mean[j]) / m.Scale[j]
	}
	return z
}

func (m *LogisticRegression) Fit(trainSet *Dataset) error {
	n := trainSet.Count()
	if n == 0 {
		return errors.Annotate(ErrInsufficientData, "empty train set")
	}
	// standardize features
	column := make([]float64, n)
	for j := 0; j < NumFeatures; j++ {
		for i, x := range trainSet.Features {
			column[i] = x[j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		m.Mean[j] = mean
		if std == 0 || math.IsNaN(std) {
			m.Scale[j] = 1
		} else {
			m.Scale[j] = std
		}
	}
	rows := make([][]float64, n)
	for i, x := range trainSet.Features {
		rows[i] = m.standardize(x)
	}
	labels := make([]float64, n)
	for i, label := range trainSet.Labels {
		if label {
			labels[i] = 1
		}
	}

	// Newton iterations
	const dim = NumFeatures + 1
	beta := make([]float64, dim)
	gradient := make([]float64, dim)
	hessian := mat.NewSymDense(dim, nil)
	step := mat.NewVecDense(dim, nil)
	var chol mat.Cholesky
	maxIter := m.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	tol := m.Tol
	if tol <= 0 {
		tol = defaultTol
	}
	m.NumIter = 0
	for iter := 0; iter < maxIter; iter++ {
		m.NumIter = iter + 1
		for i := range gradient {
			gradient[i] = 0
		}
		hessian.Zero()
		for i, row := range rows {
			p := sigmoid(floats.Dot(beta, row))
			floats.AddScaled(gradient, p-labels[i], row)
			w := p * (1 - p)
			for a := 0; a < dim; a++ {
				for b := a; b < dim; b++ {
					hessian.SetSym(a, b, hessian.At(a, b)+w*row[a]*row[b])
				}
			}
		}
		hessian.SetSym(0, 0, hessian.At(0, 0)+jitter)
		for a := 1; a < dim; a++ {
			gradient[a] += m.Reg * beta[a]
			hessian.SetSym(a, a, hessian.At(a, a)+m.Reg+jitter)
		}
		if ok := chol.Factorize(hessian); !ok {
			return errors.New("hessian is not positive definite")
		}
		if err := chol.SolveVecTo(step, mat.NewVecDense(dim, gradient)); err != nil {
			return errors.Trace(err)
		}
		delta := step.RawVector().Data
		floats.Sub(beta, delta)
		if floats.HasNaN(beta) {
			return errors.New("logistic regression diverged")
		}
		if floats.Norm(delta, math.Inf(1)) < tol {
			break
		}
	}
	m.Intercept = beta[0]
	copy(m.Weights[:], beta[1:])
	return nil
}

// PredictProba returns the probability that x is a link.
func (m *LogisticRegression) PredictProba(x FeatureVector) float64 {
	var z float64
	for j := 0; j < NumFeatures; j++ {
		z += m.Weights[j] * (x[j] - m.Mean[j]) / m.Scale[j]
	}
	return sigmoid(z + m.Intercept)
}

func (m *LogisticRegression) BatchPredictProba(xs []FeatureVector) []float64 {
	proba := make([]float64, len(xs))
	for i, x := range xs {
		proba[i] = m.PredictProba(x)
	}
	return proba
}

func (m *LogisticRegression) Marshal(w io.Writer) error {
	if err := encoding.WriteFloat64s(w, []float64{m.Reg, float64(m.MaxIter), m.Tol, float64(m.NumIter)}); err != nil {
		return errors.Trace(err)
	}
	for _, v := range []FeatureVector{m.Mean, m.Scale, m.Weights} {
		if err := encoding.WriteFloat64s(w, v[:]); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(encoding.WriteFloat64s(w, []float64{m.Intercept}))
}

func (m *LogisticRegression) Unmarshal(r io.Reader) error {
	params, err := encoding.ReadFloat64s(r)
	if err != nil {
		return errors.Trace(err)
	}
	if len(params) != 4 {
		return errors.NotValidf("%d hyper-parameters", len(params))
	}
	m.Reg, m.MaxIter, m.Tol, m.NumIter = params[0], int(params[1]), params[2], int(params[3])
	for _, v := range []*FeatureVector{&m.Mean, &m.Scale, &m.Weights} {
		values, err := encoding.ReadFloat64s(r)
		if err != nil {
			return errors.Trace(err)
		}
		if len(values) != NumFeatures {
			return errors.NotValidf("%d features", len(values))
		}
		copy(v[:], values)
	}
	intercept, err := encoding.ReadFloat64s(r)
	if err != nil {
		return errors.Trace(err)
	}
	if len(intercept) != 1 {
		return errors.NotValidf("%d intercepts", len(intercept))
	}
	m.Intercept = intercept[0]
	return nil
}
