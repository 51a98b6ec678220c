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

package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/supplygraph/supplygraph/config"
	"github.com/supplygraph/supplygraph/logics"
	"github.com/supplygraph/supplygraph/storage/graph"
)

func TestOpenStores(t *testing.T) {
	dir := t.TempDir()
	cfg := config.GetDefaultConfig()
	cfg.Database.GraphStore = "memory://"
	cfg.Database.MetaStore = "sqlite://" + filepath.Join(dir, "meta.db")
	cfg.Model.Path = filepath.Join(dir, "models", "link_predictor.bin")
	stores, err := OpenStores(context.Background(), cfg)
	assert.NoError(t, err)
	defer stores.Close(context.Background())
	assert.IsType(t, &graph.Memory{}, stores.Graph)
	assert.Equal(t, cfg.Model.Path, stores.Models.Name())

	// the meta store is initialized
	record, err := logics.LatestModel(stores.MetaStore)
	assert.NoError(t, err)
	assert.Nil(t, record)

	// cold start
	model, err := stores.Models.Load()
	assert.NoError(t, err)
	assert.Nil(t, model)
}

func TestOpenStoresWithoutMeta(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Database.GraphStore = "memory://"
	cfg.Database.MetaStore = ""
	cfg.Model.Path = filepath.Join(t.TempDir(), "link_predictor.bin")
	stores, err := OpenStores(context.Background(), cfg)
	assert.NoError(t, err)
	defer stores.Close(context.Background())
	assert.Nil(t, stores.MetaStore)
}

func TestOpenStoresInvalid(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Database.GraphStore = "mongodb://localhost:27017"
	_, err := OpenStores(context.Background(), cfg)
	assert.Error(t, err)

	cfg.Database.GraphStore = "memory://"
	cfg.Model.Storage = "ftp"
	_, err = OpenStores(context.Background(), cfg)
	assert.Error(t, err)
}
