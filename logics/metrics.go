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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TrainSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "supplygraph",
		Subsystem: "linkpred",
		Name:      "train_seconds",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16),
	})
	TrainTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplygraph",
		Subsystem: "linkpred",
		Name:      "train_total",
	}, []string{"outcome"})
	RecommendSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "supplygraph",
		Subsystem: "linkpred",
		Name:      "recommend_seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	})
	FeatureBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "supplygraph",
		Subsystem: "linkpred",
		Name:      "feature_batch_size",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
	})
)
