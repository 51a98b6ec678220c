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
	"path"

	"github.com/juju/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/supplygraph/supplygraph/config"
)

type S3 struct {
	*minio.Client
	bucket string
	prefix string
}

func NewS3(cfg config.S3Config) (*S3, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &S3{
		Client: minioClient,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (s *S3) Open(name string) (io.ReadCloser, error) {
	fullPath := path.Join(s.prefix, name)
	object, err := s.Client.GetObject(context.Background(), s.bucket, fullPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Trace(err)
	}
	// GetObject is lazy, so stat to surface missing objects now.
	if _, err = object.Stat(); err != nil {
		_ = object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.Annotatef(ErrObjectNotExist, "object: %s", fullPath)
		}
		return nil, errors.Trace(err)
	}
	return object, nil
}

// Put uploads with an unknown size. An S3 object is replaced only when the upload completes.
func (s *S3) Put(name string, r io.Reader) error {
	fullPath := path.Join(s.prefix, name)
	_, err := s.Client.PutObject(context.Background(), s.bucket, fullPath, r, -1, minio.PutObjectOptions{})
	return errors.Trace(err)
}

func (s *S3) Remove(name string) error {
	return errors.Trace(s.Client.RemoveObject(context.Background(), s.bucket, path.Join(s.prefix, name),
		minio.RemoveObjectOptions{}))
}
