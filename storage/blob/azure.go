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
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/config"
)

type AzureBlob struct {
	client    *azblob.Client
	container string
	prefix    string
}

func NewAzureBlob(cfg config.AzureBlobConfig) (*AzureBlob, error) {
	var (
		client *azblob.Client
		err    error
	)
	if cfg.ConnectionString != "" {
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, errors.Trace(err)
		}
	} else {
		if cfg.AccountName == "" || cfg.AccountKey == "" {
			return nil, errors.New("azure blob requires account_name and account_key or connection_string")
		}
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccountName)
		}
		cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
		if err != nil {
			return nil, errors.Trace(err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(endpoint, cred, nil)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	return &AzureBlob{
		client:    client,
		container: cfg.Container,
		prefix:    strings.TrimPrefix(cfg.Prefix, "/"),
	}, nil
}

func (a *AzureBlob) Open(name string) (io.ReadCloser, error) {
	fullPath := path.Join(a.prefix, name)
	resp, err := a.client.DownloadStream(context.Background(), a.container, fullPath, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, errors.Annotatef(ErrObjectNotExist, "blob: %s", fullPath)
		}
		return nil, errors.Trace(err)
	}
	return resp.Body, nil
}

// Put stages blocks and commits the block list when the upload completes.
func (a *AzureBlob) Put(name string, r io.Reader) error {
	fullPath := path.Join(a.prefix, name)
	_, err := a.client.UploadStream(context.Background(), a.container, fullPath, r, nil)
	return errors.Trace(err)
}

func (a *AzureBlob) Remove(name string) error {
	fullPath := path.Join(a.prefix, name)
	_, err := a.client.DeleteBlob(context.Background(), a.container, fullPath, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return errors.Trace(err)
	}
	return nil
}
