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
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestModelHandle(t *testing.T) {
	models := newModelStore(t.TempDir())
	handle := NewModelHandle(models)

	// cold start
	_, err := handle.Get()
	assert.True(t, errors.Is(err, ErrModelNotReady))
	assert.True(t, errors.Is(err, errors.NotYetAvailable))
	assert.False(t, handle.Ready())

	// absence is not cached
	assert.NoError(t, models.Save(commonNeighborModel()))
	model, err := handle.Get()
	assert.NoError(t, err)
	assert.Equal(t, commonNeighborModel(), model)
	assert.True(t, handle.Ready())

	// the cached model is kept until reload
	assert.NoError(t, models.Save(constantModel()))
	model, err = handle.Get()
	assert.NoError(t, err)
	assert.Equal(t, commonNeighborModel(), model)
	ok, err := handle.Reload()
	assert.NoError(t, err)
	assert.True(t, ok)
	model, err = handle.Get()
	assert.NoError(t, err)
	assert.Equal(t, constantModel(), model)

	// reload after removal
	assert.NoError(t, models.Remove())
	ok, err = handle.Reload()
	assert.NoError(t, err)
	assert.False(t, ok)
	_, err = handle.Get()
	assert.True(t, errors.Is(err, ErrModelNotReady))

	handle.Set(commonNeighborModel())
	model, err = handle.Get()
	assert.NoError(t, err)
	assert.Equal(t, commonNeighborModel(), model)
}
