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

package storage

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestAppendURLParams(t *testing.T) {
	// test windows path
	url, err := AppendURLParams(`c:\\sqlite.db`, []lo.Tuple2[string, string]{{A: "a", B: "b"}})
	assert.NoError(t, err)
	assert.Equal(t, `c:\\sqlite.db?a=b`, url)
	// test no scheme
	url, err = AppendURLParams(`models/meta.db`, []lo.Tuple2[string, string]{{A: "a", B: "b"}})
	assert.NoError(t, err)
	assert.Equal(t, `models/meta.db?a=b`, url)
}

func TestIsNeo4j(t *testing.T) {
	assert.True(t, IsNeo4j("neo4j://localhost:7687"))
	assert.True(t, IsNeo4j("bolt+s://graph.example.com:7687"))
	assert.False(t, IsNeo4j("memory://"))
	assert.False(t, IsNeo4j("sqlite://meta.db"))
}
