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
	"math"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/base"
)

// NumFeatures is the dimension of a FeatureVector.
const NumFeatures = 5

// FeatureNames are names of features in index order.
var FeatureNames = [NumFeatures]string{
	"degree_a",
	"degree_b",
	"common_neighbors",
	"preferential_attachment",
	"jaccard",
}

// FeatureVector holds structural features of a candidate pair in the order of FeatureNames.
type FeatureVector [NumFeatures]float64

var ErrInsufficientData = errors.NotValidf("training data")

// Dataset is a set of labeled feature vectors.
type Dataset struct {
	Features []FeatureVector
	Labels   []bool
}

func NewDataset(capacity int) *Dataset {
	return &Dataset{
		Features: make([]FeatureVector, 0, capacity),
		Labels:   make([]bool, 0, capacity),
	}
}

func (d *Dataset) Add(x FeatureVector, label bool) {
	d.Features = append(d.Features, x)
	d.Labels = append(d.Labels, label)
}

// AddAll appends feature vectors sharing the same label.
func (d *Dataset) AddAll(xs []FeatureVector, label bool) {
	for _, x := range xs {
		d.Add(x, label)
	}
}

func (d *Dataset) Count() int {
	return len(d.Labels)
}

// CountPositive returns the number of examples labeled true.
func (d *Dataset) CountPositive() int {
	n := 0
	for _, label := range d.Labels {
		if label {
			n++
		}
	}
	return n
}

func (d *Dataset) subset(indices []int) *Dataset {
	sub := NewDataset(len(indices))
	for _, i := range indices {
		sub.Add(d.Features[i], d.Labels[i])
	}
	return sub
}

// StratifiedSplit splits the dataset into train and test sets that keep the class proportions. Each class
// contributes round(testSize*count) examples to the test set, clamped so that both sets contain both classes.
// The split is determined by seed. Every class needs at least two examples, otherwise ErrInsufficientData.
func (d *Dataset) StratifiedSplit(testSize float64, seed int64) (*Dataset, *Dataset, error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NotValidf("test size %v", testSize)
	}
	var negatives, positives []int
	for i, label := range d.Labels {
		if label {
			positives = append(positives, i)
		} else {
			negatives = append(negatives, i)
		}
	}
	if len(positives) < 2 || len(negatives) < 2 {
		return nil, nil, errors.Annotatef(ErrInsufficientData, "%d positive and %d negative examples",
			len(positives), len(negatives))
	}
	rng := base.NewRandomGenerator(seed)
	var trainIndices, testIndices []int
	for _, class := range [][]int{negatives, positives} {
		nTest := int(math.Round(testSize * float64(len(class))))
		nTest = max(1, min(nTest, len(class)-1))
		perm := rng.Permutation(class)
		testIndices = append(testIndices, perm[:nTest]...)
		trainIndices = append(trainIndices, perm[nTest:]...)
	}
	return d.subset(trainIndices), d.subset(testIndices), nil
}
