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

package logics

import (
	"github.com/juju/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/supplygraph/supplygraph/model/linkpred"
)

var (
	// ErrDataSource matches every *DataSourceError.
	ErrDataSource = errors.New("data source failure")
	// ErrInsufficientData means the sampled examples cannot be split into train and test sets.
	ErrInsufficientData = linkpred.ErrInsufficientData
	// ErrModelNotReady means no model has been trained yet.
	ErrModelNotReady = errors.NotYetAvailablef("link prediction model")
	// ErrNoCandidates means the seed item has no 2-hop neighbors.
	ErrNoCandidates = errors.NotFoundf("candidates")
	// ErrInvalidArgument means a request parameter is out of range.
	ErrInvalidArgument = errors.NotValidf("argument")
)

// DataSourceError reports a failure of the graph store. Only the message of the underlying error is kept.
type DataSourceError struct {
	Message string
}

func (e *DataSourceError) Error() string {
	return "data source failure: " + e.Message
}

func (e *DataSourceError) Is(target error) bool {
	return target == ErrDataSource
}

// dataSourceError converts a graph store error to a *DataSourceError.
func dataSourceError(err error) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	var neo4jErr *neo4j.Neo4jError
	if errors.As(err, &neo4jErr) {
		message = neo4jErr.Msg
	}
	return &DataSourceError{Message: message}
}
