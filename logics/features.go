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

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/model/linkpred"
	"github.com/supplygraph/supplygraph/storage/graph"
)

// Pair is a candidate pair of items.
type Pair struct {
	A int64 `json:"item_a"`
	B int64 `json:"item_b"`
}

// FeatureExtractor computes structural features of item pairs.
type FeatureExtractor struct {
	graph graph.Database
}

// NewFeatureExtractor creates a FeatureExtractor reading from db.
func NewFeatureExtractor(db graph.Database) *FeatureExtractor {
	return &FeatureExtractor{graph: db}
}

// ComputeFeatures computes the feature vectors of pairs in a single batched query. Pairs referencing missing
// items are dropped, so the i-th feature vector belongs to the i-th returned pair rather than to pairs[i].
// Both orientations of a pair yield the same features.
func (e *FeatureExtractor) ComputeFeatures(ctx context.Context, pairs []Pair) ([]linkpred.FeatureVector, []Pair, error) {
	if len(pairs) == 0 {
		return nil, nil, nil
	}
	batch := make([]graph.Pair, len(pairs))
	for i, pair := range pairs {
		if pair.A == pair.B {
			return nil, nil, errors.Annotatef(ErrInvalidArgument, "self pair (%d, %d)", pair.A, pair.B)
		}
		a, b := pair.A, pair.B
		if a > b {
			a, b = b, a
		}
		batch[i] = graph.Pair{Idx: i, A: a, B: b}
	}
	FeatureBatchSize.Observe(float64(len(batch)))
	rows, err := e.graph.PairFeatures(ctx, batch)
	if err != nil {
		return nil, nil, dataSourceError(err)
	}
	features := make([]linkpred.FeatureVector, 0, len(rows))
	ids := make([]Pair, 0, len(rows))
	for _, row := range rows {
		if row.Idx < 0 || row.Idx >= len(pairs) {
			return nil, nil, &DataSourceError{Message: "feature row out of range"}
		}
		features = append(features, linkpred.FeatureVector{
			float64(row.DegreeA),
			float64(row.DegreeB),
			float64(row.CommonNeighbors),
			float64(row.PrefAttach),
			row.Jaccard,
		})
		ids = append(ids, pairs[row.Idx])
	}
	return features, ids, nil
}
