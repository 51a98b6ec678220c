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
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/config"
	"github.com/supplygraph/supplygraph/storage/graph"
)

// Recommendation is a candidate item scored by the link prediction model.
type Recommendation struct {
	ItemID int64   `json:"item_id"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// Recommender scores the 2-hop neighbors of an item with the served model.
type Recommender struct {
	graph         graph.Database
	extractor     *FeatureExtractor
	handle        *ModelHandle
	maxCandidates int
}

// NewRecommender creates a Recommender that considers at most cfg.MaxCandidates candidates per item.
func NewRecommender(db graph.Database, handle *ModelHandle, cfg config.RecommendConfig) *Recommender {
	return &Recommender{
		graph:         db,
		extractor:     NewFeatureExtractor(db),
		handle:        handle,
		maxCandidates: cfg.MaxCandidates,
	}
}

// Recommend ranks the 2-hop neighbors of seed by predicted link probability and returns the top k. Equal scores
// are ordered by ascending item id.
func (r *Recommender) Recommend(ctx context.Context, seed int64, k int) ([]Recommendation, error) {
	start := time.Now()
	defer func() {
		RecommendSeconds.Observe(time.Since(start).Seconds())
	}()
	if k < 1 {
		return nil, errors.Annotatef(ErrInvalidArgument, "k must be positive")
	}
	model, err := r.handle.Get()
	if err != nil {
		return nil, err
	}

	// enumerate candidates
	candidates, err := r.graph.Candidates(ctx, seed, r.maxCandidates)
	if err != nil {
		return nil, dataSourceError(err)
	}
	if len(candidates) == 0 {
		return nil, errors.Annotatef(ErrNoCandidates, "item %d", seed)
	}
	names := make(map[int64]string, len(candidates))
	pairs := make([]Pair, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.CandidateID == seed {
			continue
		}
		names[candidate.CandidateID] = candidate.Name
		pairs = append(pairs, Pair{A: seed, B: candidate.CandidateID})
	}

	// score candidates
	features, ids, err := r.extractor.ComputeFeatures(ctx, pairs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.Annotatef(ErrNoCandidates, "item %d", seed)
	}
	scores := model.BatchPredictProba(features)
	recommendations := make([]Recommendation, len(ids))
	for i, pair := range ids {
		recommendations[i] = Recommendation{ItemID: pair.B, Name: names[pair.B], Score: scores[i]}
	}
	slices.SortFunc(recommendations, func(a, b Recommendation) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemID, b.ItemID)
	})
	if len(recommendations) > k {
		recommendations = recommendations[:k]
	}
	return recommendations, nil
}
