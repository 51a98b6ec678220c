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
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/base/log"
	"github.com/supplygraph/supplygraph/config"
	"github.com/supplygraph/supplygraph/model/linkpred"
	"github.com/supplygraph/supplygraph/storage/blob"
	"github.com/supplygraph/supplygraph/storage/graph"
	"github.com/supplygraph/supplygraph/storage/meta"
	"go.uber.org/zap"
)

// Stores holds the connections shared by the server and the command line tool.
type Stores struct {
	Graph     graph.Database
	Models    *linkpred.ModelStore
	MetaStore meta.Database
}

// OpenStores connects to the stores in cfg. The graph store is retried until it answers or the connect timeout
// elapses.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	db, err := graph.Open(cfg.Database.GraphStore,
		graph.WithAuth(cfg.Database.GraphUser, cfg.Database.GraphPassword),
		graph.WithDatabaseName(cfg.Database.GraphDatabase))
	if err != nil {
		return nil, errors.Annotatef(err, "failed to open graph store %s", log.RedactURL(cfg.Database.GraphStore))
	}
	if _, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, db.Ping(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(cfg.Database.ConnectTimeout),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.Logger().Warn("graph store is not ready",
				zap.String("graph_store", log.RedactURL(cfg.Database.GraphStore)),
				zap.Duration("retry_after", d), zap.Error(err))
		})); err != nil {
		closeGraph(ctx, db)
		return nil, errors.Annotatef(err, "failed to connect graph store %s", log.RedactURL(cfg.Database.GraphStore))
	}

	store, err := blob.Open(cfg)
	if err != nil {
		closeGraph(ctx, db)
		return nil, errors.Annotatef(err, "failed to open %s model storage", cfg.Model.Storage)
	}
	stores := &Stores{
		Graph:  db,
		Models: linkpred.NewModelStore(store, cfg.Model.Path),
	}
	if cfg.Database.MetaStore != "" {
		if stores.MetaStore, err = meta.Open(cfg.Database.MetaStore); err != nil {
			closeGraph(ctx, db)
			return nil, errors.Annotatef(err, "failed to open meta store %s", log.RedactURL(cfg.Database.MetaStore))
		}
		if err = stores.MetaStore.Init(); err != nil {
			stores.Close(ctx)
			return nil, errors.Trace(err)
		}
	}
	return stores, nil
}

// Close every connection. Failures are logged.
func (s *Stores) Close(ctx context.Context) {
	closeGraph(ctx, s.Graph)
	if s.MetaStore != nil {
		if err := s.MetaStore.Close(); err != nil {
			log.Logger().Warn("failed to close meta store", zap.Error(err))
		}
	}
}

func closeGraph(ctx context.Context, db graph.Database) {
	if err := db.Close(ctx); err != nil {
		log.Logger().Warn("failed to close graph store", zap.Error(err))
	}
}
