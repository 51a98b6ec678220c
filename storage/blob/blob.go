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
	"io"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/config"
)

var ErrObjectNotExist = errors.NotFoundf("object")

// Store keeps named binary objects.
type Store interface {
	// Open an object for reading. It returns ErrObjectNotExist if the object is absent.
	Open(name string) (io.ReadCloser, error)
	// Put writes everything from r to an object. The object is replaced only if Put succeeds, so readers never
	// observe a partially written object.
	Put(name string, r io.Reader) error
	// Remove an object. Removing an absent object is not an error.
	Remove(name string) error
}

// Open the store selected by the model configuration.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Model.Storage {
	case config.StoragePOSIX:
		return NewPOSIX(""), nil
	case config.StorageS3:
		return NewS3(cfg.S3)
	case config.StorageGCS:
		return NewGCS(cfg.GCS)
	case config.StorageAzure:
		return NewAzureBlob(cfg.Azure)
	}
	return nil, errors.Errorf("Unknown storage: %s", cfg.Model.Storage)
}
