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
	"slices"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

type edgeKey struct {
	a, b int64
}

func newEdgeKey(a, b int64) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

type memoryOrder struct {
	order        Order
	customerID   *int64
	departmentID *int64
	lines        []OrderLine
}

// Memory is an in-process co-purchase graph. It has no analytics engine, so PageRank and Louvain always fall back.
type Memory struct {
	mu          sync.RWMutex
	items       map[int64]Item
	neighbors   map[int64]mapset.Set[int64]
	weights     map[edgeKey]int64
	orders      map[int64]*memoryOrder
	customers   map[int64]Customer
	departments map[int64]Department
}

func NewMemory() *Memory {
	return &Memory{
		items:       make(map[int64]Item),
		neighbors:   make(map[int64]mapset.Set[int64]),
		weights:     make(map[edgeKey]int64),
		orders:      make(map[int64]*memoryOrder),
		customers:   make(map[int64]Customer),
		departments: make(map[int64]Department),
	}
}

// AddItem inserts or replaces an item.
func (m *Memory) AddItem(item Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ItemID] = item
	if _, ok := m.neighbors[item.ItemID]; !ok {
		m.neighbors[item.ItemID] = mapset.NewThreadUnsafeSet[int64]()
	}
}

// AddEdge inserts an undirected co-purchase edge. Weights of repeated edges are accumulated. Both items must exist
// and differ.
func (m *Memory) AddEdge(a, b, weight int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a == b {
		return errors.NotValidf("self edge on item %d", a)
	}
	if _, ok := m.items[a]; !ok {
		return errors.Annotatef(ErrItemNotExist, "item_id: %d", a)
	}
	if _, ok := m.items[b]; !ok {
		return errors.Annotatef(ErrItemNotExist, "item_id: %d", b)
	}
	m.neighbors[a].Add(b)
	m.neighbors[b].Add(a)
	m.weights[newEdgeKey(a, b)] += weight
	return nil
}

// AddCustomer inserts or replaces a customer.
func (m *Memory) AddCustomer(customer Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.CustomerID] = customer
}

// AddDepartment inserts or replaces a department.
func (m *Memory) AddDepartment(department Department) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.departments[department.DepartmentID] = department
}

// AddOrder inserts or replaces an order containing lines. Every item must exist. Replacing an order drops its
// customer and department.
func (m *Memory) AddOrder(order Order, lines ...OrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range lines {
		if _, ok := m.items[line.ItemID]; !ok {
			return errors.Annotatef(ErrItemNotExist, "item_id: %d", line.ItemID)
		}
	}
	m.orders[order.OrderID] = &memoryOrder{order: order, lines: slices.Clone(lines)}
	return nil
}

// PlaceOrder records that a customer placed an order.
func (m *Memory) PlaceOrder(customerID, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customerID]; !ok {
		return errors.NotFoundf("customer %d", customerID)
	}
	order, ok := m.orders[orderID]
	if !ok {
		return errors.Annotatef(ErrOrderNotExist, "order_id: %d", orderID)
	}
	order.customerID = &customerID
	return nil
}

// AssignDepartment records the department an order was shipped from.
func (m *Memory) AssignDepartment(orderID, departmentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.departments[departmentID]; !ok {
		return errors.NotFoundf("department %d", departmentID)
	}
	order, ok := m.orders[orderID]
	if !ok {
		return errors.Annotatef(ErrOrderNotExist, "order_id: %d", orderID)
	}
	order.departmentID = &departmentID
	return nil
}

func (m *Memory) Close(_ context.Context) error {
	return nil
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}

func (m *Memory) PairFeatures(_ context.Context, pairs []Pair) ([]FeatureRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]FeatureRow, 0, len(pairs))
	for _, pair := range pairs {
		na, okA := m.neighbors[pair.A]
		nb, okB := m.neighbors[pair.B]
		if !okA || !okB {
			continue
		}
		degreeA := int64(na.Cardinality())
		degreeB := int64(nb.Cardinality())
		common := int64(na.Intersect(nb).Cardinality())
		row := FeatureRow{
			Idx:             pair.Idx,
			AID:             pair.A,
			BID:             pair.B,
			DegreeA:         degreeA,
			DegreeB:         degreeB,
			CommonNeighbors: common,
			PrefAttach:      degreeA * degreeB,
		}
		if denom := degreeA + degreeB - common; denom != 0 {
			row.Jaccard = float64(common) / float64(denom)
		}
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(x, y FeatureRow) int {
		return cmp.Compare(x.Idx, y.Idx)
	})
	return rows, nil
}

func (m *Memory) Candidates(_ context.Context, seed int64, limit int) ([]CandidateRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	first, ok := m.neighbors[seed]
	if !ok {
		return nil, nil
	}
	second := mapset.NewThreadUnsafeSet[int64]()
	for n := range first.Iter() {
		second = second.Union(m.neighbors[n])
	}
	second.Remove(seed)
	ids := second.ToSlice()
	slices.Sort(ids)
	if limit >= 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return lo.Map(ids, func(id int64, _ int) CandidateRow {
		return CandidateRow{CandidateID: id, Name: m.items[id].Name}
	}), nil
}

func (m *Memory) Edges(_ context.Context, n int) ([]Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := lo.Keys(m.weights)
	slices.SortFunc(keys, func(x, y edgeKey) int {
		if c := cmp.Compare(x.a, y.a); c != 0 {
			return c
		}
		return cmp.Compare(x.b, y.b)
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return lo.Map(keys, func(k edgeKey, i int) Pair {
		return Pair{Idx: i, A: k.a, B: k.b}
	}), nil
}

func (m *Memory) ItemIDs(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := lo.Keys(m.items)
	slices.Sort(ids)
	return ids, nil
}

func (m *Memory) NonEdges(_ context.Context, pairs []Pair) ([]Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Filter(pairs, func(pair Pair, _ int) bool {
		_, okA := m.items[pair.A]
		_, okB := m.items[pair.B]
		_, isEdge := m.weights[newEdgeKey(pair.A, pair.B)]
		return okA && okB && !isEdge
	}), nil
}

func (m *Memory) GetItem(_ context.Context, itemId int64) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[itemId]
	if !ok {
		return Item{}, errors.Annotatef(ErrItemNotExist, "item_id: %d", itemId)
	}
	return item, nil
}

func (m *Memory) Neighbors(_ context.Context, itemId int64, n int) ([]Neighbor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.neighbors[itemId]
	if !ok {
		return nil, nil
	}
	neighbors := lo.Map(set.ToSlice(), func(id int64, _ int) Neighbor {
		return Neighbor{ItemID: id, Name: m.items[id].Name, Weight: m.weights[newEdgeKey(itemId, id)]}
	})
	slices.SortFunc(neighbors, func(x, y Neighbor) int {
		if c := cmp.Compare(y.Weight, x.Weight); c != 0 {
			return c
		}
		return cmp.Compare(x.ItemID, y.ItemID)
	})
	if len(neighbors) > n {
		neighbors = neighbors[:n]
	}
	return neighbors, nil
}

// PageRank falls back to weighted degree.
func (m *Memory) PageRank(_ context.Context, graphName string, n int) (string, []Centrality, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scores := make(map[int64]int64)
	for key, weight := range m.weights {
		scores[key.a] += weight
		scores[key.b] += weight
	}
	results := make([]Centrality, 0, len(scores))
	for id, score := range scores {
		results = append(results, Centrality{ItemID: id, Name: m.items[id].Name, Score: float64(score)})
	}
	slices.SortFunc(results, func(x, y Centrality) int {
		if c := cmp.Compare(y.Score, x.Score); c != 0 {
			return c
		}
		return cmp.Compare(x.ItemID, y.ItemID)
	})
	if len(results) > n {
		results = results[:n]
	}
	return graphName + FallbackDegreeSuffix, results, nil
}

// Louvain falls back to one community per item id.
func (m *Memory) Louvain(_ context.Context, graphName string, n int) (string, []Community, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := lo.Keys(m.items)
	slices.Sort(ids)
	if len(ids) > n {
		ids = ids[:n]
	}
	return graphName + FallbackCommunitySuffix, lo.Map(ids, func(id int64, _ int) Community {
		return Community{ItemID: id, Name: m.items[id].Name, CommunityID: id}
	}), nil
}

func (m *Memory) GetOrder(_ context.Context, orderId int64) (OrderDetails, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[orderId]
	if !ok {
		return OrderDetails{}, errors.Annotatef(ErrOrderNotExist, "order_id: %d", orderId)
	}
	details := OrderDetails{Order: order.order}
	if order.customerID != nil {
		customer := m.customers[*order.customerID]
		details.Customer = &customer
	}
	ids := lo.Uniq(lo.Map(order.lines, func(line OrderLine, _ int) int64 { return line.ItemID }))
	slices.Sort(ids)
	details.Items = make([]Item, 0, len(ids))
	for _, id := range ids {
		if item, exist := m.items[id]; exist {
			details.Items = append(details.Items, item)
		}
	}
	return details, nil
}

func (m *Memory) GetItemDetails(_ context.Context, itemId int64) (ItemDetails, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[itemId]
	if !ok {
		return ItemDetails{}, errors.Annotatef(ErrItemNotExist, "item_id: %d", itemId)
	}
	details := ItemDetails{Item: item, Orders: []Order{}, Customers: []Customer{}}
	customers := mapset.NewThreadUnsafeSet[int64]()
	for _, order := range m.orders {
		if !lo.ContainsBy(order.lines, func(line OrderLine) bool { return line.ItemID == itemId }) {
			continue
		}
		details.Orders = append(details.Orders, order.order)
		if order.customerID != nil && customers.Add(*order.customerID) {
			details.Customers = append(details.Customers, m.customers[*order.customerID])
		}
	}
	slices.SortFunc(details.Orders, func(x, y Order) int {
		return cmp.Compare(x.OrderID, y.OrderID)
	})
	slices.SortFunc(details.Customers, func(x, y Customer) int {
		return cmp.Compare(x.CustomerID, y.CustomerID)
	})
	return details, nil
}

func (m *Memory) TopItems(_ context.Context, n int) ([]TopItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[int64]*TopItem)
	for _, order := range m.orders {
		for _, line := range order.lines {
			top, ok := counts[line.ItemID]
			if !ok {
				top = &TopItem{ItemID: line.ItemID, Name: m.items[line.ItemID].Name}
				counts[line.ItemID] = top
			}
			top.TimesOrdered++
			top.TotalQuantity += line.Quantity
		}
	}
	results := make([]TopItem, 0, len(counts))
	for _, top := range counts {
		results = append(results, *top)
	}
	slices.SortFunc(results, func(x, y TopItem) int {
		if c := cmp.Compare(y.TimesOrdered, x.TimesOrdered); c != 0 {
			return c
		}
		return cmp.Compare(x.ItemID, y.ItemID)
	})
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

func (m *Memory) LateDeliveriesByDepartment(_ context.Context, n int) ([]DepartmentBottleneck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[int64]*DepartmentBottleneck)
	for _, order := range m.orders {
		if order.departmentID == nil {
			continue
		}
		bottleneck, ok := counts[*order.departmentID]
		if !ok {
			department := m.departments[*order.departmentID]
			bottleneck = &DepartmentBottleneck{
				DepartmentID:   department.DepartmentID,
				DepartmentName: department.Name,
				Market:         department.Market,
			}
			counts[*order.departmentID] = bottleneck
		}
		bottleneck.TotalOrders++
		if order.order.LateDeliveryRisk == 1 {
			bottleneck.LateOrders++
		}
	}
	results := make([]DepartmentBottleneck, 0, len(counts))
	for _, bottleneck := range counts {
		if bottleneck.TotalOrders > 0 {
			bottleneck.LateRatio = 100 * float64(bottleneck.LateOrders) / float64(bottleneck.TotalOrders)
		}
		results = append(results, *bottleneck)
	}
	slices.SortFunc(results, func(x, y DepartmentBottleneck) int {
		if c := cmp.Compare(y.LateRatio, x.LateRatio); c != 0 {
			return c
		}
		if c := cmp.Compare(y.LateOrders, x.LateOrders); c != 0 {
			return c
		}
		return cmp.Compare(x.DepartmentID, y.DepartmentID)
	})
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

func (m *Memory) ShortestPath(ctx context.Context, from, to int64) (Path, error) {
	paths, err := m.AllShortestPaths(ctx, from, to)
	if err != nil {
		return Path{}, err
	}
	return paths[0], nil
}

// AllShortestPaths runs a breadth-first search from one item and walks the predecessor lists back from the other.
func (m *Memory) AllShortestPaths(_ context.Context, from, to int64) ([]Path, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if from == to {
		return nil, errors.NotValidf("path from item %d to itself", from)
	}
	for _, id := range []int64{from, to} {
		if _, ok := m.items[id]; !ok {
			return nil, errors.Annotatef(ErrItemNotExist, "item_id: %d", id)
		}
	}
	distance := map[int64]int{from: 0}
	predecessors := make(map[int64][]int64)
	frontier := []int64{from}
	for depth := 1; depth <= MaxPathLength && len(frontier) > 0; depth++ {
		var next []int64
		for _, u := range frontier {
			for v := range m.neighbors[u].Iter() {
				d, seen := distance[v]
				if !seen {
					distance[v] = depth
					next = append(next, v)
				} else if d != depth {
					continue
				}
				predecessors[v] = append(predecessors[v], u)
			}
		}
		if _, ok := distance[to]; ok {
			break
		}
		frontier = next
	}
	if _, ok := distance[to]; !ok {
		return nil, errors.Annotatef(ErrPathNotExist, "from item %d to item %d", from, to)
	}

	var paths []Path
	reversed := []int64{to}
	var walk func(id int64)
	walk = func(id int64) {
		if id == from {
			nodes := make([]PathNode, len(reversed))
			for i, node := range reversed {
				nodes[len(reversed)-1-i] = PathNode{ItemID: node, Name: m.items[node].Name}
			}
			paths = append(paths, Path{Items: nodes, Length: len(nodes) - 1})
			return
		}
		for _, prev := range predecessors[id] {
			reversed = append(reversed, prev)
			walk(prev)
			reversed = reversed[:len(reversed)-1]
		}
	}
	walk(to)
	slices.SortFunc(paths, comparePaths)
	return paths, nil
}
