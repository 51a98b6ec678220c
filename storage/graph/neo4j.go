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

package graph

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/juju/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/samber/lo"
	"github.com/supplygraph/supplygraph/base/log"
	"go.uber.org/zap"
)

const pairFeaturesQuery = `
UNWIND $pairs AS pair
MATCH (a:Product {product_id: pair.a}), (b:Product {product_id: pair.b})
OPTIONAL MATCH (a)-[:CO_PURCHASED_WITH]-(an:Product)
WITH pair, a, b, count(DISTINCT an) AS degree_a
OPTIONAL MATCH (b)-[:CO_PURCHASED_WITH]-(bn:Product)
WITH pair, a, b, degree_a, count(DISTINCT bn) AS degree_b
OPTIONAL MATCH (a)-[:CO_PURCHASED_WITH]-(x:Product)-[:CO_PURCHASED_WITH]-(b)
WITH pair, a, b, degree_a, degree_b, count(DISTINCT x) AS common_neighbors
RETURN
  pair.idx AS idx,
  a.product_id AS a_id,
  b.product_id AS b_id,
  degree_a,
  degree_b,
  common_neighbors,
  degree_a * degree_b AS pref_attach,
  CASE WHEN degree_a + degree_b - common_neighbors = 0 THEN 0.0
       ELSE toFloat(common_neighbors) / (degree_a + degree_b - common_neighbors) END AS jaccard
ORDER BY idx`

const candidatesQuery = `
MATCH (p:Product {product_id: $pid})-[:CO_PURCHASED_WITH]-(:Product)-[:CO_PURCHASED_WITH]-(c:Product)
WHERE c.product_id <> $pid
WITH DISTINCT c
RETURN c.product_id AS candidate_id, c.name AS name
ORDER BY candidate_id
LIMIT $limit`

const edgesQuery = `
MATCH (p:Product)-[:CO_PURCHASED_WITH]-(q:Product)
WHERE p.product_id < q.product_id
WITH DISTINCT p.product_id AS a, q.product_id AS b
RETURN a, b
ORDER BY a, b
LIMIT $n`

const nonEdgesQuery = `
UNWIND $pairs AS pair
MATCH (p:Product {product_id: pair.a}), (q:Product {product_id: pair.b})
WHERE NOT (p)-[:CO_PURCHASED_WITH]-(q)
RETURN pair.idx AS idx
ORDER BY idx`

const (
	graphExistsQuery = `CALL gds.graph.exists($name) YIELD exists RETURN exists`
	graphProjectQuery = `
CALL gds.graph.project($name, 'Product', {
  CO_PURCHASED_WITH: {orientation: 'UNDIRECTED', properties: 'weight'}
})`
	pageRankQuery = `
CALL gds.pageRank.stream($graph, {relationshipWeightProperty: 'weight'})
YIELD nodeId, score
WITH gds.util.asNode(nodeId) AS p, score
RETURN p.product_id AS product_id, p.name AS name, score
ORDER BY score DESC, product_id ASC
LIMIT $limit`
	degreeQuery = `
MATCH (p:Product)-[r:CO_PURCHASED_WITH]-()
WITH p, coalesce(sum(r.weight), 0) AS score
RETURN p.product_id AS product_id, p.name AS name, toFloat(score) AS score
ORDER BY score DESC, product_id ASC
LIMIT $limit`
	louvainQuery = `
CALL gds.louvain.stream($graph, {relationshipWeightProperty: 'weight'})
YIELD nodeId, communityId
WITH gds.util.asNode(nodeId) AS p, communityId
RETURN p.product_id AS product_id, p.name AS name, communityId AS community_id
ORDER BY community_id ASC, product_id ASC
LIMIT $limit`
	bucketQuery = `
MATCH (p:Product)
RETURN p.product_id AS product_id, p.name AS name, toInteger(p.product_id) AS community_id
ORDER BY community_id ASC, product_id ASC
LIMIT $limit`
)

const (
	orderQuery = `
MATCH (o:Order {order_id: $id})
OPTIONAL MATCH (o)<-[:PLACED]-(c:Customer)
OPTIONAL MATCH (o)-[:CONTAINS]->(p:Product)
WITH o, head(collect(DISTINCT c)) AS customer, collect(DISTINCT p) AS products
RETURN properties(o) AS order_map, properties(customer) AS customer_map,
  [p IN products | {product_id: p.product_id, name: p.name, price: p.price}] AS items`
	itemOrdersQuery = `
MATCH (p:Product {product_id: $id})<-[:CONTAINS]-(o:Order)
OPTIONAL MATCH (o)<-[:PLACED]-(c:Customer)
RETURN collect(DISTINCT properties(o)) AS orders, collect(DISTINCT properties(c)) AS customers`
	topItemsQuery = `
MATCH (:Order)-[r:CONTAINS]->(p:Product)
RETURN p.product_id AS product_id, p.name AS name, count(*) AS times_ordered,
  coalesce(sum(r.quantity), 0) AS total_quantity
ORDER BY times_ordered DESC, product_id ASC
LIMIT $n`
	lateDeliveriesQuery = `
MATCH (d:Department)<-[:FROM_DEPARTMENT]-(o:Order)
WITH d, count(o) AS total_orders, sum(CASE WHEN o.late_delivery_risk = 1 THEN 1 ELSE 0 END) AS late_orders
RETURN d.department_id AS department_id, d.name AS department_name, d.market AS market, late_orders, total_orders,
  CASE WHEN total_orders = 0 THEN 0.0 ELSE 100.0 * late_orders / total_orders END AS late_ratio
ORDER BY late_ratio DESC, late_orders DESC, department_id ASC
LIMIT $n`
)

var (
	shortestPathQuery = fmt.Sprintf(`
MATCH (a:Product {product_id: $from}), (b:Product {product_id: $to}),
  path = shortestPath((a)-[:CO_PURCHASED_WITH*1..%d]-(b))
RETURN [n IN nodes(path) | {product_id: n.product_id, name: n.name}] AS items, length(path) AS length`, MaxPathLength)
	allShortestPathsQuery = fmt.Sprintf(`
MATCH (a:Product {product_id: $from}), (b:Product {product_id: $to}),
  path = allShortestPaths((a)-[:CO_PURCHASED_WITH*1..%d]-(b))
RETURN [n IN nodes(path) | {product_id: n.product_id, name: n.name}] AS items, length(path) AS length`, MaxPathLength)
)

// Neo4j is the graph gateway backed by a Neo4j server with the Graph Data Science plugin.
type Neo4j struct {
	driver       neo4j.DriverWithContext
	databaseName string
}

func NewNeo4j(uri string, opt Options) (*Neo4j, error) {
	auth := neo4j.NoAuth()
	if opt.User != "" {
		auth = neo4j.BasicAuth(opt.User, opt.Password, "")
	}
	driver, err := neo4j.NewDriverWithContext(uri, auth)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Neo4j{driver: driver, databaseName: opt.DatabaseName}, nil
}

func (db *Neo4j) Close(ctx context.Context) error {
	return db.driver.Close(ctx)
}

func (db *Neo4j) Ping(ctx context.Context) error {
	if err := db.driver.VerifyConnectivity(ctx); err != nil {
		return errors.Trace(err)
	}
	return db.collect(ctx, neo4j.AccessModeRead, "RETURN 1 AS ok", nil, func(*neo4j.Record) error {
		return nil
	})
}

// collect runs a query in a fresh session and passes every record to handle.
func (db *Neo4j) collect(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any,
	handle func(record *neo4j.Record) error) error {
	session := db.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: db.databaseName,
	})
	defer func() {
		if err := session.Close(ctx); err != nil {
			log.Logger().Warn("failed to close neo4j session", zap.Error(err))
		}
	}()
	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return errors.Trace(err)
	}
	for result.Next(ctx) {
		if err = handle(result.Record()); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(result.Err())
}

func pairParams(pairs []Pair) []any {
	return lo.Map(pairs, func(pair Pair, _ int) any {
		return map[string]any{"idx": int64(pair.Idx), "a": pair.A, "b": pair.B}
	})
}

func (db *Neo4j) PairFeatures(ctx context.Context, pairs []Pair) ([]FeatureRow, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	rows := make([]FeatureRow, 0, len(pairs))
	err := db.collect(ctx, neo4j.AccessModeRead, pairFeaturesQuery, map[string]any{"pairs": pairParams(pairs)},
		func(record *neo4j.Record) error {
			var (
				row FeatureRow
				idx int64
				err error
			)
			if idx, err = getInt64(record, "idx"); err != nil {
				return err
			}
			row.Idx = int(idx)
			if row.AID, err = getInt64(record, "a_id"); err != nil {
				return err
			}
			if row.BID, err = getInt64(record, "b_id"); err != nil {
				return err
			}
			if row.DegreeA, err = getInt64(record, "degree_a"); err != nil {
				return err
			}
			if row.DegreeB, err = getInt64(record, "degree_b"); err != nil {
				return err
			}
			if row.CommonNeighbors, err = getInt64(record, "common_neighbors"); err != nil {
				return err
			}
			if row.PrefAttach, err = getInt64(record, "pref_attach"); err != nil {
				return err
			}
			if row.Jaccard, err = getFloat64(record, "jaccard"); err != nil {
				return err
			}
			rows = append(rows, row)
			return nil
		})
	return rows, err
}

func (db *Neo4j) Candidates(ctx context.Context, seed int64, limit int) ([]CandidateRow, error) {
	var rows []CandidateRow
	err := db.collect(ctx, neo4j.AccessModeRead, candidatesQuery, map[string]any{"pid": seed, "limit": int64(limit)},
		func(record *neo4j.Record) error {
			id, err := getInt64(record, "candidate_id")
			if err != nil {
				return err
			}
			rows = append(rows, CandidateRow{CandidateID: id, Name: getString(record, "name")})
			return nil
		})
	return rows, err
}

func (db *Neo4j) Edges(ctx context.Context, n int) ([]Pair, error) {
	var pairs []Pair
	err := db.collect(ctx, neo4j.AccessModeRead, edgesQuery, map[string]any{"n": int64(n)},
		func(record *neo4j.Record) error {
			a, err := getInt64(record, "a")
			if err != nil {
				return err
			}
			b, err := getInt64(record, "b")
			if err != nil {
				return err
			}
			pairs = append(pairs, Pair{Idx: len(pairs), A: a, B: b})
			return nil
		})
	return pairs, err
}

func (db *Neo4j) ItemIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := db.collect(ctx, neo4j.AccessModeRead,
		"MATCH (p:Product) RETURN p.product_id AS product_id ORDER BY product_id", nil,
		func(record *neo4j.Record) error {
			id, err := getInt64(record, "product_id")
			if err != nil {
				return err
			}
			ids = append(ids, id)
			return nil
		})
	return ids, err
}

func (db *Neo4j) NonEdges(ctx context.Context, pairs []Pair) ([]Pair, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	byIdx := lo.SliceToMap(pairs, func(pair Pair) (int, Pair) {
		return pair.Idx, pair
	})
	var result []Pair
	err := db.collect(ctx, neo4j.AccessModeRead, nonEdgesQuery, map[string]any{"pairs": pairParams(pairs)},
		func(record *neo4j.Record) error {
			idx, err := getInt64(record, "idx")
			if err != nil {
				return err
			}
			if pair, ok := byIdx[int(idx)]; ok {
				result = append(result, pair)
			}
			return nil
		})
	return result, err
}

func (db *Neo4j) GetItem(ctx context.Context, itemId int64) (Item, error) {
	var (
		item  Item
		found bool
	)
	err := db.collect(ctx, neo4j.AccessModeRead,
		"MATCH (p:Product {product_id: $id}) RETURN p.product_id AS product_id, p.name AS name, p.price AS price LIMIT 1",
		map[string]any{"id": itemId},
		func(record *neo4j.Record) error {
			found = true
			item.ItemID = itemId
			item.Name = getString(record, "name")
			if value, ok := record.Get("price"); ok && value != nil {
				price, err := getFloat64(record, "price")
				if err != nil {
					return err
				}
				item.Price = &price
			}
			return nil
		})
	if err != nil {
		return Item{}, err
	}
	if !found {
		return Item{}, errors.Annotatef(ErrItemNotExist, "item_id: %d", itemId)
	}
	return item, nil
}

func (db *Neo4j) Neighbors(ctx context.Context, itemId int64, n int) ([]Neighbor, error) {
	var neighbors []Neighbor
	err := db.collect(ctx, neo4j.AccessModeRead, `
MATCH (p:Product {product_id: $id})-[r:CO_PURCHASED_WITH]-(q:Product)
RETURN q.product_id AS product_id, q.name AS name, sum(coalesce(r.weight, 0)) AS weight
ORDER BY weight DESC, product_id ASC
LIMIT $n`, map[string]any{"id": itemId, "n": int64(n)},
		func(record *neo4j.Record) error {
			id, err := getInt64(record, "product_id")
			if err != nil {
				return err
			}
			weight, err := getInt64(record, "weight")
			if err != nil {
				return err
			}
			neighbors = append(neighbors, Neighbor{ItemID: id, Name: getString(record, "name"), Weight: weight})
			return nil
		})
	return neighbors, err
}

// ensureProjection creates the in-memory projection used by the analytics engine if it does not exist.
func (db *Neo4j) ensureProjection(ctx context.Context, graphName string) error {
	var exists bool
	if err := db.collect(ctx, neo4j.AccessModeWrite, graphExistsQuery, map[string]any{"name": graphName},
		func(record *neo4j.Record) error {
			value, _ := record.Get("exists")
			exists, _ = value.(bool)
			return nil
		}); err != nil {
		return err
	}
	if exists {
		return nil
	}
	return db.collect(ctx, neo4j.AccessModeWrite, graphProjectQuery, map[string]any{"name": graphName},
		func(*neo4j.Record) error { return nil })
}

func (db *Neo4j) centrality(ctx context.Context, cypher string, params map[string]any) ([]Centrality, error) {
	var results []Centrality
	err := db.collect(ctx, neo4j.AccessModeWrite, cypher, params, func(record *neo4j.Record) error {
		id, err := getInt64(record, "product_id")
		if err != nil {
			return err
		}
		score, err := getFloat64(record, "score")
		if err != nil {
			return err
		}
		results = append(results, Centrality{ItemID: id, Name: getString(record, "name"), Score: score})
		return nil
	})
	return results, err
}

func (db *Neo4j) communities(ctx context.Context, cypher string, params map[string]any) ([]Community, error) {
	var results []Community
	err := db.collect(ctx, neo4j.AccessModeWrite, cypher, params, func(record *neo4j.Record) error {
		id, err := getInt64(record, "product_id")
		if err != nil {
			return err
		}
		community, err := getInt64(record, "community_id")
		if err != nil {
			return err
		}
		results = append(results, Community{ItemID: id, Name: getString(record, "name"), CommunityID: community})
		return nil
	})
	return results, err
}

func (db *Neo4j) PageRank(ctx context.Context, graphName string, n int) (string, []Centrality, error) {
	err := db.ensureProjection(ctx, graphName)
	if err == nil {
		var results []Centrality
		results, err = db.centrality(ctx, pageRankQuery, map[string]any{"graph": graphName, "limit": int64(n)})
		if err == nil {
			return graphName, results, nil
		}
	}
	if !neo4j.IsNeo4jError(errors.Cause(err)) {
		return "", nil, err
	}
	log.Logger().Warn("graph analytics unavailable, fall back to weighted degree", zap.Error(err))
	results, err := db.centrality(ctx, degreeQuery, map[string]any{"limit": int64(n)})
	if err != nil {
		return "", nil, err
	}
	return graphName + FallbackDegreeSuffix, results, nil
}

func (db *Neo4j) Louvain(ctx context.Context, graphName string, n int) (string, []Community, error) {
	err := db.ensureProjection(ctx, graphName)
	if err == nil {
		var results []Community
		results, err = db.communities(ctx, louvainQuery, map[string]any{"graph": graphName, "limit": int64(n)})
		if err == nil {
			return graphName, results, nil
		}
	}
	if !neo4j.IsNeo4jError(errors.Cause(err)) {
		return "", nil, err
	}
	log.Logger().Warn("graph analytics unavailable, fall back to id buckets", zap.Error(err))
	results, err := db.communities(ctx, bucketQuery, map[string]any{"limit": int64(n)})
	if err != nil {
		return "", nil, err
	}
	return graphName + FallbackCommunitySuffix, results, nil
}

func (db *Neo4j) GetOrder(ctx context.Context, orderId int64) (OrderDetails, error) {
	var (
		details OrderDetails
		found   bool
	)
	err := db.collect(ctx, neo4j.AccessModeRead, orderQuery, map[string]any{"id": orderId},
		func(record *neo4j.Record) error {
			found = true
			properties, _ := getMap(record, "order_map")
			details.Order = decodeOrder(properties)
			if properties, ok := getMap(record, "customer_map"); ok {
				customer := decodeCustomer(properties)
				details.Customer = &customer
			}
			details.Items = lo.Map(getMaps(record, "items"), func(properties map[string]any, _ int) Item {
				return decodeItem(properties)
			})
			return nil
		})
	if err != nil {
		return OrderDetails{}, err
	}
	if !found {
		return OrderDetails{}, errors.Annotatef(ErrOrderNotExist, "order_id: %d", orderId)
	}
	slices.SortFunc(details.Items, func(x, y Item) int {
		return cmp.Compare(x.ItemID, y.ItemID)
	})
	return details, nil
}

func (db *Neo4j) GetItemDetails(ctx context.Context, itemId int64) (ItemDetails, error) {
	item, err := db.GetItem(ctx, itemId)
	if err != nil {
		return ItemDetails{}, err
	}
	details := ItemDetails{Item: item, Orders: []Order{}, Customers: []Customer{}}
	err = db.collect(ctx, neo4j.AccessModeRead, itemOrdersQuery, map[string]any{"id": itemId},
		func(record *neo4j.Record) error {
			for _, properties := range getMaps(record, "orders") {
				details.Orders = append(details.Orders, decodeOrder(properties))
			}
			for _, properties := range getMaps(record, "customers") {
				details.Customers = append(details.Customers, decodeCustomer(properties))
			}
			return nil
		})
	if err != nil {
		return ItemDetails{}, err
	}
	slices.SortFunc(details.Orders, func(x, y Order) int {
		return cmp.Compare(x.OrderID, y.OrderID)
	})
	slices.SortFunc(details.Customers, func(x, y Customer) int {
		return cmp.Compare(x.CustomerID, y.CustomerID)
	})
	return details, nil
}

func (db *Neo4j) TopItems(ctx context.Context, n int) ([]TopItem, error) {
	results := []TopItem{}
	err := db.collect(ctx, neo4j.AccessModeRead, topItemsQuery, map[string]any{"n": int64(n)},
		func(record *neo4j.Record) error {
			var (
				top TopItem
				err error
			)
			if top.ItemID, err = getInt64(record, "product_id"); err != nil {
				return err
			}
			top.Name = getString(record, "name")
			if top.TimesOrdered, err = getInt64(record, "times_ordered"); err != nil {
				return err
			}
			if top.TotalQuantity, err = getInt64(record, "total_quantity"); err != nil {
				return err
			}
			results = append(results, top)
			return nil
		})
	return results, err
}

func (db *Neo4j) LateDeliveriesByDepartment(ctx context.Context, n int) ([]DepartmentBottleneck, error) {
	results := []DepartmentBottleneck{}
	err := db.collect(ctx, neo4j.AccessModeRead, lateDeliveriesQuery, map[string]any{"n": int64(n)},
		func(record *neo4j.Record) error {
			var (
				bottleneck DepartmentBottleneck
				err        error
			)
			if bottleneck.DepartmentID, err = getInt64(record, "department_id"); err != nil {
				return err
			}
			bottleneck.DepartmentName = getString(record, "department_name")
			bottleneck.Market = getString(record, "market")
			if bottleneck.LateOrders, err = getInt64(record, "late_orders"); err != nil {
				return err
			}
			if bottleneck.TotalOrders, err = getInt64(record, "total_orders"); err != nil {
				return err
			}
			if bottleneck.LateRatio, err = getFloat64(record, "late_ratio"); err != nil {
				return err
			}
			results = append(results, bottleneck)
			return nil
		})
	return results, err
}

func (db *Neo4j) ShortestPath(ctx context.Context, from, to int64) (Path, error) {
	paths, err := db.paths(ctx, shortestPathQuery, from, to)
	if err != nil {
		return Path{}, err
	}
	return paths[0], nil
}

func (db *Neo4j) AllShortestPaths(ctx context.Context, from, to int64) ([]Path, error) {
	paths, err := db.paths(ctx, allShortestPathsQuery, from, to)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(paths, comparePaths)
	return paths, nil
}

// paths runs a path query and tells a missing item from a missing path when no row is returned.
func (db *Neo4j) paths(ctx context.Context, cypher string, from, to int64) ([]Path, error) {
	if from == to {
		return nil, errors.NotValidf("path from item %d to itself", from)
	}
	var paths []Path
	err := db.collect(ctx, neo4j.AccessModeRead, cypher, map[string]any{"from": from, "to": to},
		func(record *neo4j.Record) error {
			length, err := getInt64(record, "length")
			if err != nil {
				return err
			}
			nodes := lo.Map(getMaps(record, "items"), func(properties map[string]any, _ int) PathNode {
				return PathNode{ItemID: mapInt64(properties, "product_id"), Name: mapString(properties, "name")}
			})
			paths = append(paths, Path{Items: nodes, Length: int(length)})
			return nil
		})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		for _, id := range []int64{from, to} {
			if _, err = db.GetItem(ctx, id); err != nil {
				return nil, err
			}
		}
		return nil, errors.Annotatef(ErrPathNotExist, "from item %d to item %d", from, to)
	}
	return paths, nil
}

func decodeItem(properties map[string]any) Item {
	item := Item{ItemID: mapInt64(properties, "product_id"), Name: mapString(properties, "name")}
	switch v := properties["price"].(type) {
	case float64:
		item.Price = &v
	case int64:
		price := float64(v)
		item.Price = &price
	}
	return item
}

func decodeOrder(properties map[string]any) Order {
	return Order{
		OrderID:               mapInt64(properties, "order_id"),
		OrderDate:             mapString(properties, "order_date"),
		ShippingDate:          mapString(properties, "shipping_date"),
		LateDeliveryRisk:      mapInt64(properties, "late_delivery_risk"),
		ShippingMode:          mapString(properties, "shipping_mode"),
		DaysShippingScheduled: mapInt64(properties, "days_shipping_scheduled"),
		DaysShippingReal:      mapInt64(properties, "days_shipping_real"),
		Region:                mapString(properties, "region"),
		DeliveryStatus:        mapString(properties, "delivery_status"),
		Status:                mapString(properties, "status"),
	}
}

func decodeCustomer(properties map[string]any) Customer {
	return Customer{
		CustomerID: mapInt64(properties, "customer_id"),
		FirstName:  mapString(properties, "first_name"),
		LastName:   mapString(properties, "last_name"),
		City:       mapString(properties, "city"),
		Country:    mapString(properties, "country"),
	}
}

func getMap(record *neo4j.Record, key string) (map[string]any, bool) {
	value, _ := record.Get(key)
	properties, ok := value.(map[string]any)
	return properties, ok
}

func getMaps(record *neo4j.Record, key string) []map[string]any {
	value, _ := record.Get(key)
	list, _ := value.([]any)
	maps := make([]map[string]any, 0, len(list))
	for _, element := range list {
		if properties, ok := element.(map[string]any); ok {
			maps = append(maps, properties)
		}
	}
	return maps
}

func mapInt64(properties map[string]any, key string) int64 {
	switch v := properties[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// mapString formats temporal values and numbers stored in place of strings.
func mapString(properties map[string]any, key string) string {
	switch v := properties[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func getInt64(record *neo4j.Record, key string) (int64, error) {
	value, ok := record.Get(key)
	if !ok {
		return 0, errors.NotFoundf("column %s", key)
	}
	switch v := value.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case nil:
		return 0, nil
	default:
		return 0, errors.NotValidf("column %s of type %T", key, value)
	}
}

func getFloat64(record *neo4j.Record, key string) (float64, error) {
	value, ok := record.Get(key)
	if !ok {
		return 0, errors.NotFoundf("column %s", key)
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case nil:
		return 0, nil
	default:
		return 0, errors.NotValidf("column %s of type %T", key, value)
	}
}

func getString(record *neo4j.Record, key string) string {
	value, _ := record.Get(key)
	s, _ := value.(string)
	return s
}
