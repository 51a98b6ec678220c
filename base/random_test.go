// Copyright 2020 gorse Project Authors
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

package base

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestRandomGenerator_Permutation(t *testing.T) {
	values := lo.Range(10)
	perm := NewRandomGenerator(0).Permutation(values)
	assert.ElementsMatch(t, values, perm)
	assert.Equal(t, lo.Range(10), values)
	// same seed, same permutation
	assert.Equal(t, perm, NewRandomGenerator(0).Permutation(values))
}

func TestRandomGenerator_Choose(t *testing.T) {
	candidates := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	rng := NewRandomGenerator(42)
	chosen := rng.Choose(candidates, 3)
	assert.Len(t, chosen, 3)
	assert.Len(t, lo.Uniq(chosen), 3)
	assert.Subset(t, candidates, chosen)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, candidates)
	// more than available
	assert.ElementsMatch(t, candidates, rng.Choose(candidates, 100))
	assert.Empty(t, rng.Choose(candidates, 0))
	// reproducible
	assert.Equal(t, NewRandomGenerator(7).Choose(candidates, 4), NewRandomGenerator(7).Choose(candidates, 4))
}

func TestRandomGenerator_Sample(t *testing.T) {
	excludeSet := mapset.NewSet(0, 1, 2, 3, 4)
	rng := NewRandomGenerator(0)
	for i := 1; i <= 10; i++ {
		sampled := rng.Sample(0, 10, i, excludeSet)
		for j := range sampled {
			assert.False(t, excludeSet.Contains(sampled[j]))
		}
	}
}
