// Copyright 2022 gorse Project Authors
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

package encoding

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFloat64s(t *testing.T) {
	a := []float64{1, 2.5, -3}
	buf := bytes.NewBuffer(nil)
	err := WriteFloat64s(buf, a)
	assert.NoError(t, err)
	b, err := ReadFloat64s(buf)
	assert.NoError(t, err)
	assert.Equal(t, a, b)

	// empty vector
	buf.Reset()
	assert.NoError(t, WriteFloat64s(buf, nil))
	b, err = ReadFloat64s(buf)
	assert.NoError(t, err)
	assert.Empty(t, b)
}

func TestWriteString(t *testing.T) {
	a := "abc"
	buf := bytes.NewBuffer(nil)
	err := WriteString(buf, a)
	assert.NoError(t, err)
	var b string
	b, err = ReadString(buf)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReadTruncatedBytes(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteString(buf, "abcdef"))
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-2])
	_, err := ReadString(truncated)
	assert.Error(t, err)
}

func TestReadOversizedLength(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, binary.Write(buf, binary.LittleEndian, int32(1<<30)))
	buf.WriteString("abc")
	_, err := ReadBytes(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = ReadFloat64s(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestWriteGob(t *testing.T) {
	a := "abc"
	buf := bytes.NewBuffer(nil)
	err := WriteGob(buf, a)
	assert.NoError(t, err)
	var b string
	err = ReadGob(buf, &b)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}
