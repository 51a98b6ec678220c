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
	"strings"
	"testing"

	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/supplygraph/supplygraph/config"
)

func TestGCS(t *testing.T) {
	server, err := fakestorage.NewServerWithOptions(fakestorage.Options{NoListener: true})
	assert.NoError(t, err)
	defer server.Stop()
	server.CreateBucketWithOpts(fakestorage.CreateBucketOpts{Name: "supplygraph-test"})

	// create client
	client := &GCS{client: server.Client(), bucket: "supplygraph-test", prefix: "blob"}

	// read a missing file
	_, err = client.Open("test.txt")
	assert.True(t, errors.Is(err, ErrObjectNotExist), err)

	// create file
	err = client.Put("test.txt", strings.NewReader("hello"))
	assert.NoError(t, err)

	// read file
	r, err := client.Open("test.txt")
	assert.NoError(t, err)
	data, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	err = r.Close()
	assert.NoError(t, err)

	// remove file
	err = client.Remove("test.txt")
	assert.NoError(t, err)
	_, err = client.Open("test.txt")
	assert.True(t, errors.Is(err, ErrObjectNotExist), err)
}

func TestNewGCS(t *testing.T) {
	t.Setenv(gcsEmulatorEndpoint, "http://localhost:5050/storage/v1/")
	client, err := NewGCS(config.GCSConfig{Bucket: "supplygraph-test", Prefix: "blob"})
	assert.NoError(t, err)
	assert.Equal(t, "supplygraph-test", client.bucket)
	assert.Equal(t, "blob", client.prefix)
}
