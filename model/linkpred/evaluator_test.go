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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAUC(t *testing.T) {
	assert.Equal(t, 1.0, AUC([]float64{0.9, 0.8}, []float64{0.1, 0.2}))
	assert.Equal(t, 0.0, AUC([]float64{0.1, 0.2}, []float64{0.9, 0.8}))
	assert.Equal(t, 0.5, AUC([]float64{0.5, 0.5}, []float64{0.5}))
	assert.Equal(t, 0.75, AUC([]float64{0.3, 0.9}, []float64{0.1, 0.5}))
	assert.Equal(t, 0.0, AUC(nil, []float64{0.5}))
	// inputs are not reordered
	pos := []float64{0.9, 0.1}
	AUC(pos, []float64{0.5})
	assert.Equal(t, []float64{0.9, 0.1}, pos)
}

func TestAUCUnsortedWithTies(t *testing.T) {
	pos := []float64{0.7, 0.2, 0.5}
	neg := []float64{0.5, 0.9, 0.2, 0.1}
	assert.InDelta(t, 7.0/12, AUC(pos, neg), 1e-12)
	assert.Equal(t, []float64{0.5, 0.9, 0.2, 0.1}, neg)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.75, Accuracy([]float64{0.5, 0.4}, []float64{0.1, 0.49}))
	assert.Equal(t, 0.0, Accuracy(nil, nil))
}

func TestPrecisionRecall(t *testing.T) {
	pos := []float64{0.9, 0.6, 0.2}
	neg := []float64{0.7, 0.1}
	assert.InDelta(t, 2.0/3.0, Precision(pos, neg), 1e-12)
	assert.InDelta(t, 2.0/3.0, Recall(pos, neg), 1e-12)
	assert.Equal(t, 0.0, Precision([]float64{0.1}, []float64{0.2}))
	assert.Equal(t, 0.0, Recall(nil, nil))
}

type constantClassifier float64

func (c constantClassifier) PredictProba(FeatureVector) float64 {
	return float64(c)
}

func TestEvaluate(t *testing.T) {
	score := Evaluate(constantClassifier(0.5), newTestDataset(3, 2))
	assert.Equal(t, Score{AUC: 0.5, Accuracy: 0.6, Precision: 0.6, Recall: 1}, score)
	assert.Len(t, score.ZapFields(), 4)
}
