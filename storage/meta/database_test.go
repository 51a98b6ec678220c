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
package meta

import (
	"time"

	"github.com/stretchr/testify/suite"
)

type baseTestSuite struct {
	suite.Suite
	Database
}

func (suite *baseTestSuite) TestKeyValues() {
	err := suite.Database.Put("key1", "value1")
	suite.NoError(err)
	err = suite.Database.Put("key2", "value2")
	suite.NoError(err)

	value, err := suite.Database.Get("key1")
	suite.NoError(err)
	suite.Equal("value1", *value)

	value, err = suite.Database.Get("key2")
	suite.NoError(err)
	suite.Equal("value2", *value)

	// Overwrite existing key
	err = suite.Database.Put("key1", "value3")
	suite.NoError(err)
	value, err = suite.Database.Get("key1")
	suite.NoError(err)
	suite.Equal("value3", *value)

	// Test non-existing key
	value, err = suite.Database.Get("non-existing-key")
	suite.NoError(err)
	suite.Nil(value)
}

type testScore struct {
	AUC      float64
	Accuracy float64
}

func (suite *baseTestSuite) TestModel() {
	model := Model[testScore]{
		ID:        1,
		Score:     testScore{AUC: 0.9, Accuracy: 0.8},
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	err := suite.Database.Put(LINK_PREDICTION_MODEL, model.ToJSON())
	suite.NoError(err)
	value, err := suite.Database.Get(LINK_PREDICTION_MODEL)
	suite.NoError(err)
	var loaded Model[testScore]
	suite.NoError(loaded.FromJSON(*value))
	suite.Equal(model, loaded)
}
