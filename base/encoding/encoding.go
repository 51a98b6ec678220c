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
	"encoding/gob"
	"io"

	"github.com/juju/errors"
)

// WriteFloat64s writes a length-prefixed vector to byte stream.
func WriteFloat64s(w io.Writer, v []float64) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(v))); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(binary.Write(w, binary.LittleEndian, v))
}

// ReadFloat64s reads a length-prefixed vector from byte stream.
func ReadFloat64s(r io.Reader) ([]float64, error) {
	var length int32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, errors.Trace(err)
	}
	if length < 0 {
		return nil, errors.Errorf("invalid vector length %d", length)
	}
	buf := bytes.NewBuffer(nil)
	if _, err := io.CopyN(buf, r, int64(length)*8); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Trace(err)
	}
	v := make([]float64, length)
	if err := binary.Read(buf, binary.LittleEndian, v); err != nil {
		return nil, errors.Trace(err)
	}
	return v, nil
}

// WriteString writes string to byte stream.
func WriteString(w io.Writer, s string) error {
	return WriteBytes(w, []byte(s))
}

// ReadString reads string from byte stream.
func ReadString(r io.Reader) (string, error) {
	data, err := ReadBytes(r)
	return string(data), err
}

// WriteBytes writes bytes to byte stream.
func WriteBytes(w io.Writer, s []byte) error {
	err := binary.Write(w, binary.LittleEndian, int32(len(s)))
	if err != nil {
		return err
	}
	n, err := w.Write(s)
	if err != nil {
		return err
	} else if n != len(s) {
		return errors.New("fail to write string")
	}
	return nil
}

// ReadBytes reads bytes from byte stream.
func ReadBytes(r io.Reader) ([]byte, error) {
	var length int32
	err := binary.Read(r, binary.LittleEndian, &length)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.Errorf("invalid bytes length %d", length)
	}
	// the length prefix is untrusted
	buf := bytes.NewBuffer(nil)
	if _, err = io.CopyN(buf, r, int64(length)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Annotate(err, "fail to read string")
	}
	return buf.Bytes(), nil
}

// WriteGob writes object to byte stream.
func WriteGob(w io.Writer, v interface{}) error {
	buffer := bytes.NewBuffer(nil)
	encoder := gob.NewEncoder(buffer)
	err := encoder.Encode(v)
	if err != nil {
		return err
	}
	return WriteBytes(w, buffer.Bytes())
}

// ReadGob read object from byte stream.
func ReadGob(r io.Reader, v interface{}) error {
	data, err := ReadBytes(r)
	if err != nil {
		return err
	}
	buffer := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buffer)
	return decoder.Decode(v)
}
