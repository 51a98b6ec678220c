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
package linkpred

import (
	"fmt"
	"io"
	"reflect"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/base/encoding"
)

const headerLogisticRegression = "logistic_regression"

// Classifier maps a feature vector to the probability of a link.
type Classifier interface {
	PredictProba(x FeatureVector) float64
}

// Model is a trainable and serializable Classifier.
type Model interface {
	Classifier
	Fit(trainSet *Dataset) error
	BatchPredictProba(xs []FeatureVector) []float64
	Marshal(w io.Writer) error
	Unmarshal(r io.Reader) error
}

func MarshalModel(w io.Writer, m Model) error {
	// write header
	var err error
	switch m.(type) {
	case *LogisticRegression:
		err = encoding.WriteString(w, headerLogisticRegression)
	default:
		return fmt.Errorf("unknown model: %v", reflect.TypeOf(m))
	}
	if err != nil {
		return err
	}
	return m.Marshal(w)
}

func UnmarshalModel(r io.Reader) (Model, error) {
	// read header
	header, err := encoding.ReadString(r)
	if err != nil {
		return nil, err
	}
	switch header {
	case headerLogisticRegression:
		var lr LogisticRegression
		if err := lr.Unmarshal(r); err != nil {
			return nil, errors.Trace(err)
		}
		return &lr, nil
	}
	return nil, fmt.Errorf("unknown model: %v", header)
}
