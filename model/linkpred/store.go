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
package linkpred

import (
	"bytes"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/base/log"
	"github.com/supplygraph/supplygraph/storage/blob"
	"go.uber.org/zap"
)

// ModelStore keeps the single link prediction model artifact. Every save overwrites the previous artifact.
type ModelStore struct {
	store blob.Store
	name  string
}

func NewModelStore(store blob.Store, name string) *ModelStore {
	return &ModelStore{store: store, name: name}
}

func (s *ModelStore) Name() string {
	return s.name
}

// Save serializes the model completely before touching the store so that a failed serialization never replaces
// the previous artifact.
func (s *ModelStore) Save(m Model) error {
	buf := bytes.NewBuffer(nil)
	if err := MarshalModel(buf, m); err != nil {
		return errors.Trace(err)
	}
	if err := s.store.Put(s.name, buf); err != nil {
		return errors.Annotatef(err, "failed to save model to %s", s.name)
	}
	return nil
}

// Load returns nil without error if no artifact exists yet.
func (s *ModelStore) Load() (Model, error) {
	r, err := s.store.Open(s.name)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, errors.Trace(err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			log.Logger().Warn("failed to close model artifact", zap.String("name", s.name), zap.Error(err))
		}
	}()
	m, err := UnmarshalModel(r)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to load model from %s", s.name)
	}
	return m, nil
}

// Remove deletes the artifact. Removing an absent artifact is not an error.
func (s *ModelStore) Remove() error {
	return errors.Trace(s.store.Remove(s.name))
}
