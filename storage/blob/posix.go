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
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/base/log"
	"go.uber.org/zap"
)

type POSIX struct {
	dir string
}

func NewPOSIX(dir string) *POSIX {
	return &POSIX{dir: dir}
}

// Open a file for reading. It returns an io.Reader that can be used to read the file's content.
func (p *POSIX) Open(name string) (io.ReadCloser, error) {
	fullPath := filepath.Join(p.dir, name)
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Annotatef(ErrObjectNotExist, "file: %s", fullPath)
		}
		return nil, errors.Trace(err)
	}
	return file, nil
}

// Put writes data to a temporary file in the same directory and renames it to the destination. The directory is
// created if absent.
func (p *POSIX) Put(name string, r io.Reader) error {
	fullPath := filepath.Join(p.dir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return errors.Trace(err)
	}
	file, err := os.CreateTemp(filepath.Dir(fullPath), "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return errors.Trace(err)
	}
	tempPath := file.Name()
	_, err = io.Copy(file, r)
	if err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tempPath, fullPath)
	}
	if err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Logger().Error("failed to remove temporary file", zap.String("file", tempPath), zap.Error(removeErr))
		}
		return errors.Trace(err)
	}
	return nil
}

func (p *POSIX) Remove(name string) error {
	err := os.Remove(filepath.Join(p.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Trace(err)
	}
	return nil
}
