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
	"context"
	"io"
	"os"
	"path"

	"cloud.google.com/go/storage"
	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/config"
	"google.golang.org/api/option"
)

const gcsEmulatorEndpoint = "GCS_EMULATOR_ENDPOINT"

type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCS(cfg config.GCSConfig) (*GCS, error) {
	var opts []option.ClientOption
	if endpoint := os.Getenv(gcsEmulatorEndpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
		opts = append(opts, option.WithoutAuthentication())
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &GCS{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (g *GCS) Open(name string) (io.ReadCloser, error) {
	fullPath := path.Join(g.prefix, name)
	r, err := g.client.Bucket(g.bucket).Object(fullPath).NewReader(context.Background())
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.Annotatef(ErrObjectNotExist, "object: %s", fullPath)
		}
		return nil, errors.Trace(err)
	}
	return r, nil
}

// Put writes through a GCS object writer. The object is committed when the writer is closed, and canceling the
// context abandons the upload.
func (g *GCS) Put(name string, r io.Reader) error {
	fullPath := path.Join(g.prefix, name)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := g.client.Bucket(g.bucket).Object(fullPath).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return errors.Trace(err)
	}
	return errors.Trace(w.Close())
}

func (g *GCS) Remove(name string) error {
	err := g.client.Bucket(g.bucket).Object(path.Join(g.prefix, name)).Delete(context.Background())
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return errors.Trace(err)
	}
	return nil
}
