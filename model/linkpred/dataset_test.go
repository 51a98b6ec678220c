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

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func newTestDataset(nPos, nNeg int) *Dataset {
	d := NewDataset(nPos + nNeg)
	for i := 0; i < nPos; i++ {
		d.Add(FeatureVector{float64(i), 1, 1, 1, 1}, true)
	}
	for i := 0; i < nNeg; i++ {
		d.Add(FeatureVector{float64(i), 0, 0, 0, 0}, false)
	}
	return d
}

func TestDataset(t *testing.T) {
	d := NewDataset(0)
	d.AddAll([]FeatureVector{{1}, {2}}, true)
	d.Add(FeatureVector{3}, false)
	assert.Equal(t, 3, d.Count())
	assert.Equal(t, 2, d.CountPositive())
	assert.Equal(t, []bool{true, true, false}, d.Labels)
}

func TestStratifiedSplit(t *testing.T) {
	d := newTestDataset(50, 30)
	train, test, err := d.StratifiedSplit(0.2, 42)
	assert.NoError(t, err)
	assert.Equal(t, 64, train.Count())
	assert.Equal(t, 16, test.Count())
	assert.Equal(t, 10, test.CountPositive())
	assert.Equal(t, 40, train.CountPositive())

	// reproducible
	train2, test2, err := d.StratifiedSplit(0.2, 42)
	assert.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	// a different seed gives a different split
	_, test3, err := d.StratifiedSplit(0.2, 7)
	assert.NoError(t, err)
	assert.NotEqual(t, test.Features, test3.Features)
}

func TestStratifiedSplitClamp(t *testing.T) {
	// both sets keep both classes
	train, test, err := newTestDataset(2, 3).StratifiedSplit(0.01, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, test.CountPositive())
	assert.Equal(t, 1, test.Count()-test.CountPositive())
	assert.Equal(t, 1, train.CountPositive())
	assert.Equal(t, 2, train.Count()-train.CountPositive())

	train, test, err = newTestDataset(2, 2).StratifiedSplit(0.99, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, train.Count())
	assert.Equal(t, 2, test.Count())
}

func TestStratifiedSplitInsufficient(t *testing.T) {
	_, _, err := NewDataset(0).StratifiedSplit(0.2, 0)
	assert.True(t, errors.Is(err, ErrInsufficientData), err)
	_, _, err = newTestDataset(100, 0).StratifiedSplit(0.2, 0)
	assert.True(t, errors.Is(err, ErrInsufficientData), err)
	_, _, err = newTestDataset(100, 1).StratifiedSplit(0.2, 0)
	assert.True(t, errors.Is(err, ErrInsufficientData), err)
	_, _, err = newTestDataset(10, 10).StratifiedSplit(1, 0)
	assert.True(t, errors.Is(err, errors.NotValid), err)
}
