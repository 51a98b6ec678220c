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
	"net/url"
	"strings"

	"github.com/juju/errors"
	"github.com/samber/lo"
)

const (
	Neo4jPrefix     = "neo4j://"
	Neo4jSPrefix    = "neo4j+s://"
	Neo4jSSCPrefix  = "neo4j+ssc://"
	BoltPrefix      = "bolt://"
	BoltSPrefix     = "bolt+s://"
	BoltSSCPrefix   = "bolt+ssc://"
	MemoryPrefix    = "memory://"
	SQLitePrefix    = "sqlite://"
)

// Neo4jPrefixes lists every URI scheme accepted by the Neo4j driver.
var Neo4jPrefixes = []string{
	Neo4jPrefix, Neo4jSPrefix, Neo4jSSCPrefix,
	BoltPrefix, BoltSPrefix, BoltSSCPrefix,
}

// IsNeo4j returns true if the URI should be served by the Neo4j driver.
func IsNeo4j(uri string) bool {
	return lo.ContainsBy(Neo4jPrefixes, func(prefix string) bool {
		return strings.HasPrefix(uri, prefix)
	})
}

func AppendURLParams(rawURL string, params []lo.Tuple2[string, string]) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Trace(err)
	}
	q := parsed.Query()
	for _, tuple := range params {
		q.Add(tuple.A, tuple.B)
	}
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}
