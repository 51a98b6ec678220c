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
	"math"

	"github.com/samber/lo"
	"github.com/supplygraph/supplygraph/base"
	"github.com/supplygraph/supplygraph/storage/graph"
)

// Sampler draws labeled pairs from the co-purchase graph. Both samplers are best-effort
// and may return fewer pairs than requested.
type Sampler struct {
	graph graph.Database
}

// NewSampler creates a Sampler reading from db.
func NewSampler(db graph.Database) *Sampler {
	return &Sampler{graph: db}
}

// SamplePositive returns up to n distinct co-purchase edges with the smaller item id first.
func (s *Sampler) SamplePositive(ctx context.Context, n int) ([]Pair, error) {
	if n <= 0 {
		return nil, nil
	}
	edges, err := s.graph.Edges(ctx, n)
	if err != nil {
		return nil, dataSourceError(err)
	}
	pairs := make([]Pair, len(edges))
	for i, edge := range edges {
		pairs[i] = Pair{A: edge.A, B: edge.B}
	}
	return pairs, nil
}

// SampleNegative returns up to n distinct pairs of items without a co-purchase edge. Pairs are drawn
// from the cross product of two random subsets of items.
func (s *Sampler) SampleNegative(ctx context.Context, n int, rng base.RandomGenerator) ([]Pair, error) {
	if n <= 0 {
		return nil, nil
	}
	itemIDs, err := s.graph.ItemIDs(ctx)
	if err != nil {
		return nil, dataSourceError(err)
	}
	if len(itemIDs) < 2 {
		return nil, nil
	}
	size := min(len(itemIDs), int(math.Ceil(2*math.Sqrt(float64(n))))+1)
	left := rng.Choose(itemIDs, size)
	right := rng.Choose(itemIDs, size)
	var candidates []graph.Pair
	for _, a := range left {
		for _, b := range right {
			if a < b {
				candidates = append(candidates, graph.Pair{Idx: len(candidates), A: a, B: b})
			}
		}
	}
	nonEdges, err := s.graph.NonEdges(ctx, candidates)
	if err != nil {
		return nil, dataSourceError(err)
	}
	perm := rng.Permutation(lo.Range(len(nonEdges)))
	pairs := make([]Pair, 0, min(n, len(nonEdges)))
	for _, i := range perm[:min(n, len(perm))] {
		pairs = append(pairs, Pair{A: nonEdges[i].A, B: nonEdges[i].B})
	}
	return pairs, nil
}
