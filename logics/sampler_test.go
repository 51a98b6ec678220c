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

package logics

import (
	"context"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/supplygraph/supplygraph/base"
)

func TestSamplePositive(t *testing.T) {
	sampler := NewSampler(newScenarioGraph())
	pairs, err := sampler.SamplePositive(context.Background(), 10)
	assert.NoError(t, err)
	// under-fill is not an error
	assert.Equal(t, []Pair{{A: 1, B: 2}, {A: 2, B: 3}}, pairs)

	pairs, err = sampler.SamplePositive(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, pairs, 1)

	pairs, err = sampler.SamplePositive(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestSampleNegative(t *testing.T) {
	db := newClusterGraph(8, 5)
	sampler := NewSampler(db)
	pairs, err := sampler.SampleNegative(context.Background(), 30, base.NewRandomGenerator(0))
	assert.NoError(t, err)
	assert.NotEmpty(t, pairs)
	assert.LessOrEqual(t, len(pairs), 30)
	seen := mapset.NewSet[Pair]()
	for _, pair := range pairs {
		assert.Less(t, pair.A, pair.B)
		// items of different clusters are never linked
		assert.NotEqual(t, (pair.A-1)/5, (pair.B-1)/5)
		assert.True(t, seen.Add(pair), "duplicate pair %v", pair)
	}

	// reproducible
	again, err := sampler.SampleNegative(context.Background(), 30, base.NewRandomGenerator(0))
	assert.NoError(t, err)
	assert.Equal(t, pairs, again)
}

func TestSampleNegativeDense(t *testing.T) {
	// a complete graph has no negative pairs
	sampler := NewSampler(newClusterGraph(1, 6))
	pairs, err := sampler.SampleNegative(context.Background(), 10, base.NewRandomGenerator(0))
	assert.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestSampleDataSource(t *testing.T) {
	sampler := NewSampler(failingGraph{newScenarioGraph()})
	_, err := sampler.SamplePositive(context.Background(), 10)
	assert.True(t, errors.Is(err, ErrDataSource))
	_, err = sampler.SampleNegative(context.Background(), 10, base.NewRandomGenerator(0))
	assert.True(t, errors.Is(err, ErrDataSource))
}
