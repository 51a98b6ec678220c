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
	"sync"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/model/linkpred"
)

// ModelHandle caches the loaded link prediction model. The cached model is shared read-only by requests.
type ModelHandle struct {
	mu     sync.RWMutex
	models *linkpred.ModelStore
	model  linkpred.Model
}

// NewModelHandle creates an empty ModelHandle over models. The model is loaded on first use.
func NewModelHandle(models *linkpred.ModelStore) *ModelHandle {
	return &ModelHandle{models: models}
}

// Get returns the cached model, loading it on first use. An absent artifact is not cached, so a model saved
// later by another process is picked up by the next call.
func (h *ModelHandle) Get() (linkpred.Model, error) {
	h.mu.RLock()
	model := h.model
	h.mu.RUnlock()
	if model != nil {
		return model, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model != nil {
		return h.model, nil
	}
	model, err := h.models.Load()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if model == nil {
		return nil, ErrModelNotReady
	}
	h.model = model
	return model, nil
}

// Reload replaces the cached model with the persisted artifact. It reports whether a model is available.
func (h *ModelHandle) Reload() (bool, error) {
	model, err := h.models.Load()
	if err != nil {
		return false, errors.Trace(err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.model = model
	return model != nil, nil
}

// Set replaces the cached model without touching the store.
func (h *ModelHandle) Set(model linkpred.Model) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.model = model
}

// Ready reports whether a model is cached, without loading it.
func (h *ModelHandle) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.model != nil
}
