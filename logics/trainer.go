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
	"time"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/base"
	"github.com/supplygraph/supplygraph/base/log"
	"github.com/supplygraph/supplygraph/config"
	"github.com/supplygraph/supplygraph/model/linkpred"
	"github.com/supplygraph/supplygraph/storage/graph"
	"github.com/supplygraph/supplygraph/storage/meta"
	"go.uber.org/zap"
)

// TrainParams are the parameters of a training run.
type TrainParams struct {
	NPos        int     `json:"n_pos"`
	NNeg        int     `json:"n_neg"`
	TestSize    float64 `json:"test_size"`
	RandomState int64   `json:"random_state"`
}

// NewTrainParams returns the configured defaults of a training run.
func NewTrainParams(cfg config.TrainConfig) TrainParams {
	return TrainParams{
		NPos:        cfg.NPos,
		NNeg:        cfg.NNeg,
		TestSize:    cfg.TestSize,
		RandomState: cfg.RandomState,
	}
}

// TrainResult summarizes a successful training run.
type TrainResult struct {
	Params      TrainParams
	NumPositive int
	NumNegative int
	NumTrain    int
	NumTest     int
	NumIter     int
	Score       linkpred.Score
}

// Trainer fits the link prediction model. Concurrent runs are not serialized: the last saved model wins.
type Trainer struct {
	sampler   *Sampler
	extractor *FeatureExtractor
	models    *linkpred.ModelStore
	metaStore meta.Database
	maxIter   int
	reg       float64
}

// NewTrainer creates a Trainer. metaStore may be nil, in which case training runs are not recorded.
func NewTrainer(db graph.Database, models *linkpred.ModelStore, metaStore meta.Database, cfg config.TrainConfig) *Trainer {
	return &Trainer{
		sampler:   NewSampler(db),
		extractor: NewFeatureExtractor(db),
		models:    models,
		metaStore: metaStore,
		maxIter:   cfg.MaxIter,
		reg:       cfg.Reg,
	}
}

// Train samples labeled pairs, fits a logistic regression on a stratified split and evaluates it on the
// held-out split. The model is persisted only if every step succeeds.
func (t *Trainer) Train(ctx context.Context, params TrainParams) (TrainResult, error) {
	start := time.Now()
	result, err := t.train(ctx, params)
	if err != nil {
		TrainTotal.WithLabelValues("failure").Inc()
		return TrainResult{}, err
	}
	TrainTotal.WithLabelValues("success").Inc()
	TrainSeconds.Observe(time.Since(start).Seconds())
	return result, nil
}

func (t *Trainer) train(ctx context.Context, params TrainParams) (TrainResult, error) {
	if params.NPos < 1 || params.NNeg < 1 {
		return TrainResult{}, errors.Annotatef(ErrInvalidArgument, "n_pos and n_neg must be positive")
	}
	if params.TestSize <= 0 || params.TestSize >= 1 {
		return TrainResult{}, errors.Annotatef(ErrInvalidArgument, "test_size must be in (0, 1)")
	}
	rng := base.NewRandomGenerator(params.RandomState)

	// sample pairs
	positives, err := t.sampler.SamplePositive(ctx, params.NPos)
	if err != nil {
		return TrainResult{}, err
	}
	negatives, err := t.sampler.SampleNegative(ctx, params.NNeg, rng)
	if err != nil {
		return TrainResult{}, err
	}
	log.Logger().Debug("sampled training pairs",
		zap.Int("n_positive", len(positives)), zap.Int("n_negative", len(negatives)))

	// extract features
	posFeatures, _, err := t.extractor.ComputeFeatures(ctx, positives)
	if err != nil {
		return TrainResult{}, err
	}
	negFeatures, _, err := t.extractor.ComputeFeatures(ctx, negatives)
	if err != nil {
		return TrainResult{}, err
	}
	dataset := linkpred.NewDataset(len(posFeatures) + len(negFeatures))
	dataset.AddAll(posFeatures, true)
	dataset.AddAll(negFeatures, false)
	trainSet, testSet, err := dataset.StratifiedSplit(params.TestSize, params.RandomState)
	if err != nil {
		return TrainResult{}, errors.Trace(err)
	}

	// fit and evaluate
	model := linkpred.NewLogisticRegression(t.reg, t.maxIter)
	if err = model.Fit(trainSet); err != nil {
		return TrainResult{}, errors.Trace(err)
	}
	score := linkpred.Evaluate(model, testSet)
	log.Logger().Info("fit link prediction model",
		append(score.ZapFields(),
			zap.Int("n_train", trainSet.Count()),
			zap.Int("n_test", testSet.Count()),
			zap.Int("n_iter", model.NumIter))...)

	// persist
	if err = t.models.Save(model); err != nil {
		return TrainResult{}, errors.Trace(err)
	}
	if t.metaStore != nil {
		if err = t.record(score); err != nil {
			log.Logger().Warn("failed to record training run", zap.Error(err))
		}
	}
	return TrainResult{
		Params:      params,
		NumPositive: len(posFeatures),
		NumNegative: len(negFeatures),
		NumTrain:    trainSet.Count(),
		NumTest:     testSet.Count(),
		NumIter:     model.NumIter,
		Score:       score,
	}, nil
}

func (t *Trainer) record(score linkpred.Score) error {
	latest, err := LatestModel(t.metaStore)
	if err != nil {
		return errors.Trace(err)
	}
	var id int64 = 1
	if latest != nil {
		id = latest.ID + 1
	}
	m := meta.Model[linkpred.Score]{ID: id, Score: score, Timestamp: time.Now().UTC()}
	return errors.Trace(t.metaStore.Put(meta.LINK_PREDICTION_MODEL, m.ToJSON()))
}

// LatestModel returns the record of the last successful training run, or nil if there is none.
func LatestModel(metaStore meta.Database) (*meta.Model[linkpred.Score], error) {
	value, err := metaStore.Get(meta.LINK_PREDICTION_MODEL)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if value == nil {
		return nil, nil
	}
	var m meta.Model[linkpred.Score]
	if err = m.FromJSON(*value); err != nil {
		return nil, errors.Trace(err)
	}
	return &m, nil
}
