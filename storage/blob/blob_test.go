// Copyright 2025 gorse Project Authors
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
package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/supplygraph/supplygraph/config"
)

func TestOpen(t *testing.T) {
	cfg := config.GetDefaultConfig()
	store, err := Open(cfg)
	assert.NoError(t, err)
	assert.IsType(t, &POSIX{}, store)

	cfg.Model.Storage = config.StorageAzure
	_, err = Open(cfg)
	assert.Error(t, err)

	cfg.Model.Storage = "ftp"
	_, err = Open(cfg)
	assert.Error(t, err)
}
