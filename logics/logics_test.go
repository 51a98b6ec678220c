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
	"fmt"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/supplygraph/supplygraph/config"
	"github.com/supplygraph/supplygraph/model/linkpred"
	"github.com/supplygraph/supplygraph/storage/blob"
	"github.com/supplygraph/supplygraph/storage/graph"
	"github.com/supplygraph/supplygraph/storage/meta"
)

// newScenarioGraph creates items 1 to 4 with edges 1-2 (weight 3) and 2-3 (weight 1). Item 4 is isolated.
func newScenarioGraph() *graph.Memory {
	db := graph.NewMemory()
	for i := int64(1); i <= 4; i++ {
		db.AddItem(graph.Item{ItemID: i, Name: fmt.Sprintf("Product %d", i)})
	}
	_ = db.AddEdge(1, 2, 3)
	_ = db.AddEdge(2, 3, 1)
	return db
}

// newClusterGraph creates numClusters complete subgraphs of clusterSize items each.
func newClusterGraph(numClusters, clusterSize int) *graph.Memory {
	db := graph.NewMemory()
	for c := 0; c < numClusters; c++ {
		for i := 0; i < clusterSize; i++ {
			id := int64(c*clusterSize + i + 1)
			db.AddItem(graph.Item{ItemID: id, Name: fmt.Sprintf("Product %d", id)})
		}
		for i := 0; i < clusterSize; i++ {
			for j := i + 1; j < clusterSize; j++ {
				_ = db.AddEdge(int64(c*clusterSize+i+1), int64(c*clusterSize+j+1), 1)
			}
		}
	}
	return db
}

func newModelStore(dir string) *linkpred.ModelStore {
	return linkpred.NewModelStore(blob.NewPOSIX(filepath.Join(dir, "models")), "link_predictor.bin")
}

func newMetaStore(dir string) (meta.Database, error) {
	db, err := meta.Open("sqlite://" + filepath.Join(dir, "meta.db"))
	if err != nil {
		return nil, err
	}
	return db, db.Init()
}

func newTrainConfig() config.TrainConfig {
	return config.GetDefaultConfig().Train
}

// failingGraph fails every query with a native driver error.
type failingGraph struct {
	*graph.Memory
}

func (failingGraph) err() error {
	return errors.Trace(&neo4j.Neo4jError{Code: "Neo.TransientError.General.DatabaseUnavailable", Msg: "database unavailable"})
}

func (g failingGraph) PairFeatures(context.Context, []graph.Pair) ([]graph.FeatureRow, error) {
	return nil, g.err()
}

func (g failingGraph) Candidates(context.Context, int64, int) ([]graph.CandidateRow, error) {
	return nil, g.err()
}

func (g failingGraph) Edges(context.Context, int) ([]graph.Pair, error) {
	return nil, g.err()
}

func (g failingGraph) ItemIDs(context.Context) ([]int64, error) {
	return nil, g.err()
}

// commonNeighborModel scores pairs by their number of common neighbors.
func commonNeighborModel() *linkpred.LogisticRegression {
	return &linkpred.LogisticRegression{
		Scale:   linkpred.FeatureVector{1, 1, 1, 1, 1},
		Weights: linkpred.FeatureVector{0, 0, 1, 0, 0},
	}
}

// constantModel scores every pair 0.5.
func constantModel() *linkpred.LogisticRegression {
	return &linkpred.LogisticRegression{Scale: linkpred.FeatureVector{1, 1, 1, 1, 1}}
}
