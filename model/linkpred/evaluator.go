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
	"slices"

	"go.uber.org/zap"
)

// DecisionThreshold is the probability at or above which a pair is predicted as a link.
const DecisionThreshold = 0.5

// Score is the held-out evaluation of a link prediction model.
type Score struct {
	AUC       float64 `json:"auc"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

func (score Score) ZapFields() []zap.Field {
	return []zap.Field{
		zap.Float64("AUC", score.AUC),
		zap.Float64("Accuracy", score.Accuracy),
		zap.Float64("Precision", score.Precision),
		zap.Float64("Recall", score.Recall),
	}
}

// Evaluate scores every example in the test set.
func Evaluate(model Classifier, testSet *Dataset) Score {
	var posPrediction, negPrediction []float64
	for i, x := range testSet.Features {
		if testSet.Labels[i] {
			posPrediction = append(posPrediction, model.PredictProba(x))
		} else {
			negPrediction = append(negPrediction, model.PredictProba(x))
		}
	}
	return Score{
		AUC:       AUC(posPrediction, negPrediction),
		Accuracy:  Accuracy(posPrediction, negPrediction),
		Precision: Precision(posPrediction, negPrediction),
		Recall:    Recall(posPrediction, negPrediction),
	}
}

func Precision(posPrediction, negPrediction []float64) float64 {
	var tp, fp float64
	for _, p := range posPrediction {
		if p >= DecisionThreshold { // true positive
			tp++
		}
	}
	for _, p := range negPrediction {
		if p >= DecisionThreshold { // false positive
			fp++
		}
	}
	if tp+fp == 0 {
		return 0
	}
	return tp / (tp + fp)
}

func Recall(posPrediction, _ []float64) float64 {
	var tp float64
	for _, p := range posPrediction {
		if p >= DecisionThreshold {
			tp++
		}
	}
	if len(posPrediction) == 0 {
		return 0
	}
	return tp / float64(len(posPrediction))
}

func Accuracy(posPrediction, negPrediction []float64) float64 {
	var correct float64
	for _, p := range posPrediction {
		if p >= DecisionThreshold {
			correct++
		}
	}
	for _, p := range negPrediction {
		if p < DecisionThreshold {
			correct++
		}
	}
	if len(posPrediction)+len(negPrediction) == 0 {
		return 0
	}
	return correct / float64(len(posPrediction)+len(negPrediction))
}

// AUC is the probability that a random positive is ranked above a random negative. Ties count as half.
func AUC(posPrediction, negPrediction []float64) float64 {
	if len(posPrediction)*len(negPrediction) == 0 {
		return 0
	}
	pos := append([]float64(nil), posPrediction...)
	neg := append([]float64(nil), negPrediction...)
	slices.Sort(pos)
	slices.Sort(neg)
	var sum float64
	var nLess, nLessEqual int
	for _, p := range pos {
		// count negative samples with less prediction than current positive sample
		for nLess < len(neg) && neg[nLess] < p {
			nLess++
		}
		for nLessEqual < len(neg) && neg[nLessEqual] <= p {
			nLessEqual++
		}
		sum += float64(nLess) + 0.5*float64(nLessEqual-nLess)
	}
	return sum / float64(len(pos)*len(neg))
}
