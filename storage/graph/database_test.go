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
	"context"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type edge struct {
	a, b, weight int64
}

// testOrder is an order with its relationships. Zero ids mean none.
type testOrder struct {
	Order
	customerID   int64
	departmentID int64
	lines        []OrderLine
}

var (
	testItems = []Item{
		{ItemID: 1, Name: "Smart watch", Price: lo.ToPtr(199.99)},
		{ItemID: 2, Name: "Field & Stream Sportsman 16 Gun Fire Safe"},
		{ItemID: 3, Name: "Perfect Fitness Perfect Rip Deck"},
		{ItemID: 4, Name: "Nike Men's Dri-FIT Victory Golf Polo"},
		{ItemID: 5, Name: "O'Brien Men's Neoprene Life Vest"},
		{ItemID: 6, Name: "Under Armour Girls' Toddler Spine Surge Runni"},
		{ItemID: 7, Name: "Pelican Sunstream 100 Kayak"},
		{ItemID: 99, Name: "Diamondback Women's Serene Classic Comfort Bi"},
	}
	testEdges = []edge{
		{1, 2, 3},
		{2, 3, 1},
		{3, 4, 2},
		{2, 4, 1},
		{5, 6, 4},
	}
	testCustomers = []Customer{
		{CustomerID: 10, FirstName: "Mary", LastName: "Smith", City: "Caguas", Country: "Puerto Rico"},
		{CustomerID: 11, FirstName: "Cally", LastName: "Holloway", City: "Los Angeles", Country: "EE. UU."},
	}
	testDepartments = []Department{
		{DepartmentID: 2, Name: "Fitness", Market: "Pacific Asia"},
		{DepartmentID: 3, Name: "Footwear", Market: "LATAM"},
		{DepartmentID: 4, Name: "Apparel", Market: "Europe"},
	}
	testOrders = []testOrder{
		{
			Order: Order{OrderID: 100, OrderDate: "2018-01-31", ShippingDate: "2018-02-03", ShippingMode: "Standard Class",
				DaysShippingScheduled: 4, DaysShippingReal: 3, Region: "Southeast Asia",
				DeliveryStatus: "Advance shipping", Status: "COMPLETE"},
			customerID: 10, departmentID: 2,
			lines: []OrderLine{{ItemID: 1, Quantity: 1}, {ItemID: 2, Quantity: 2}},
		},
		{
			Order: Order{OrderID: 101, OrderDate: "2018-01-13", LateDeliveryRisk: 1, ShippingMode: "First Class",
				DaysShippingScheduled: 1, DaysShippingReal: 2, DeliveryStatus: "Late delivery", Status: "PENDING"},
			customerID: 10, departmentID: 2,
			lines: []OrderLine{{ItemID: 2, Quantity: 1}, {ItemID: 3, Quantity: 3}},
		},
		{
			Order:      Order{OrderID: 102, LateDeliveryRisk: 1, DeliveryStatus: "Late delivery"},
			customerID: 11, departmentID: 3,
			lines:      []OrderLine{{ItemID: 2, Quantity: 5}},
		},
		{
			Order:        Order{OrderID: 103, LateDeliveryRisk: 1, DeliveryStatus: "Late delivery"},
			departmentID: 3,
			lines:        []OrderLine{{ItemID: 4, Quantity: 1}},
		},
		{
			Order:      Order{OrderID: 104, DeliveryStatus: "Shipping on time"},
			customerID: 11, departmentID: 4,
			lines:      []OrderLine{{ItemID: 2, Quantity: 1}},
		},
	}
)

// baseTestSuite checks a Database loaded with testItems and testEdges.
type baseTestSuite struct {
	suite.Suite
	Database
}

func (suite *baseTestSuite) TestPing() {
	suite.NoError(suite.Database.Ping(context.Background()))
}

func (suite *baseTestSuite) TestPairFeatures() {
	ctx := context.Background()
	rows, err := suite.Database.PairFeatures(ctx, []Pair{
		{Idx: 0, A: 1, B: 3},
		{Idx: 1, A: 1, B: 100},
		{Idx: 2, A: 7, B: 99},
		{Idx: 3, A: 2, B: 4},
	})
	suite.NoError(err)
	suite.Equal([]FeatureRow{
		{Idx: 0, AID: 1, BID: 3, DegreeA: 1, DegreeB: 2, CommonNeighbors: 1, PrefAttach: 2, Jaccard: 0.5},
		{Idx: 2, AID: 7, BID: 99, DegreeA: 0, DegreeB: 0, CommonNeighbors: 0, PrefAttach: 0, Jaccard: 0},
		{Idx: 3, AID: 2, BID: 4, DegreeA: 3, DegreeB: 2, CommonNeighbors: 1, PrefAttach: 6, Jaccard: 0.25},
	}, rows)

	// empty batch
	rows, err = suite.Database.PairFeatures(ctx, nil)
	suite.NoError(err)
	suite.Empty(rows)
}

func (suite *baseTestSuite) TestCandidates() {
	ctx := context.Background()
	rows, err := suite.Database.Candidates(ctx, 1, 2000)
	suite.NoError(err)
	suite.Equal([]CandidateRow{
		{CandidateID: 3, Name: "Perfect Fitness Perfect Rip Deck"},
		{CandidateID: 4, Name: "Nike Men's Dri-FIT Victory Golf Polo"},
	}, rows)
	// bounded
	rows, err = suite.Database.Candidates(ctx, 1, 1)
	suite.NoError(err)
	suite.Len(rows, 1)
	// seed excluded
	rows, err = suite.Database.Candidates(ctx, 2, 2000)
	suite.NoError(err)
	suite.Equal([]int64{3, 4}, lo.Map(rows, func(row CandidateRow, _ int) int64 { return row.CandidateID }))
	// isolated and missing items
	rows, err = suite.Database.Candidates(ctx, 99, 2000)
	suite.NoError(err)
	suite.Empty(rows)
	rows, err = suite.Database.Candidates(ctx, 100, 2000)
	suite.NoError(err)
	suite.Empty(rows)
}

func (suite *baseTestSuite) TestEdges() {
	ctx := context.Background()
	pairs, err := suite.Database.Edges(ctx, 10)
	suite.NoError(err)
	suite.Equal([]Pair{
		{Idx: 0, A: 1, B: 2},
		{Idx: 1, A: 2, B: 3},
		{Idx: 2, A: 2, B: 4},
		{Idx: 3, A: 3, B: 4},
		{Idx: 4, A: 5, B: 6},
	}, pairs)
	pairs, err = suite.Database.Edges(ctx, 2)
	suite.NoError(err)
	suite.Len(pairs, 2)
}

func (suite *baseTestSuite) TestItemIDs() {
	ids, err := suite.Database.ItemIDs(context.Background())
	suite.NoError(err)
	suite.Equal([]int64{1, 2, 3, 4, 5, 6, 7, 99}, ids)
}

func (suite *baseTestSuite) TestNonEdges() {
	pairs, err := suite.Database.NonEdges(context.Background(), []Pair{
		{Idx: 0, A: 1, B: 3},
		{Idx: 1, A: 1, B: 2},
		{Idx: 2, A: 6, B: 5},
		{Idx: 3, A: 4, B: 7},
	})
	suite.NoError(err)
	suite.Equal([]Pair{{Idx: 0, A: 1, B: 3}, {Idx: 3, A: 4, B: 7}}, pairs)
}

func (suite *baseTestSuite) TestGetItem() {
	ctx := context.Background()
	item, err := suite.Database.GetItem(ctx, 1)
	suite.NoError(err)
	suite.Equal(testItems[0], item)
	item, err = suite.Database.GetItem(ctx, 2)
	suite.NoError(err)
	suite.Nil(item.Price)
	_, err = suite.Database.GetItem(ctx, 100)
	suite.True(errors.Is(err, errors.NotFound), err)
}

func (suite *baseTestSuite) TestNeighbors() {
	ctx := context.Background()
	neighbors, err := suite.Database.Neighbors(ctx, 2, 10)
	suite.NoError(err)
	suite.Equal([]Neighbor{
		{ItemID: 1, Name: "Smart watch", Weight: 3},
		{ItemID: 3, Name: "Perfect Fitness Perfect Rip Deck", Weight: 1},
		{ItemID: 4, Name: "Nike Men's Dri-FIT Victory Golf Polo", Weight: 1},
	}, neighbors)
	neighbors, err = suite.Database.Neighbors(ctx, 2, 1)
	suite.NoError(err)
	suite.Len(neighbors, 1)
	neighbors, err = suite.Database.Neighbors(ctx, 99, 10)
	suite.NoError(err)
	suite.Empty(neighbors)
}

func (suite *baseTestSuite) TestGetOrder() {
	ctx := context.Background()
	details, err := suite.Database.GetOrder(ctx, 100)
	suite.NoError(err)
	suite.Equal(OrderDetails{
		Order:    testOrders[0].Order,
		Customer: &testCustomers[0],
		Items:    []Item{testItems[0], testItems[1]},
	}, details)
	// without customer
	details, err = suite.Database.GetOrder(ctx, 103)
	suite.NoError(err)
	suite.Nil(details.Customer)
	suite.Equal([]Item{testItems[3]}, details.Items)
	_, err = suite.Database.GetOrder(ctx, 999)
	suite.True(errors.Is(err, errors.NotFound), err)
}

func (suite *baseTestSuite) TestGetItemDetails() {
	ctx := context.Background()
	details, err := suite.Database.GetItemDetails(ctx, 2)
	suite.NoError(err)
	suite.Equal(testItems[1], details.Item)
	suite.Equal([]int64{100, 101, 102, 104}, lo.Map(details.Orders, func(o Order, _ int) int64 { return o.OrderID }))
	suite.Equal(testOrders[1].Order, details.Orders[1])
	suite.Equal(testCustomers, details.Customers)
	// never ordered
	details, err = suite.Database.GetItemDetails(ctx, 5)
	suite.NoError(err)
	suite.Empty(details.Orders)
	suite.Empty(details.Customers)
	_, err = suite.Database.GetItemDetails(ctx, 100)
	suite.True(errors.Is(err, errors.NotFound), err)
}

func (suite *baseTestSuite) TestTopItems() {
	ctx := context.Background()
	items, err := suite.Database.TopItems(ctx, 10)
	suite.NoError(err)
	suite.Equal([]TopItem{
		{ItemID: 2, Name: testItems[1].Name, TimesOrdered: 4, TotalQuantity: 9},
		{ItemID: 1, Name: testItems[0].Name, TimesOrdered: 1, TotalQuantity: 1},
		{ItemID: 3, Name: testItems[2].Name, TimesOrdered: 1, TotalQuantity: 3},
		{ItemID: 4, Name: testItems[3].Name, TimesOrdered: 1, TotalQuantity: 1},
	}, items)
	items, err = suite.Database.TopItems(ctx, 2)
	suite.NoError(err)
	suite.Len(items, 2)
}

func (suite *baseTestSuite) TestLateDeliveriesByDepartment() {
	ctx := context.Background()
	results, err := suite.Database.LateDeliveriesByDepartment(ctx, 10)
	suite.NoError(err)
	suite.Equal([]DepartmentBottleneck{
		{DepartmentID: 3, DepartmentName: "Footwear", Market: "LATAM", LateOrders: 2, TotalOrders: 2, LateRatio: 100},
		{DepartmentID: 2, DepartmentName: "Fitness", Market: "Pacific Asia", LateOrders: 1, TotalOrders: 2, LateRatio: 50},
		{DepartmentID: 4, DepartmentName: "Apparel", Market: "Europe", LateOrders: 0, TotalOrders: 1, LateRatio: 0},
	}, results)
	results, err = suite.Database.LateDeliveriesByDepartment(ctx, 1)
	suite.NoError(err)
	suite.Len(results, 1)
}

func (suite *baseTestSuite) TestShortestPath() {
	ctx := context.Background()
	path, err := suite.Database.ShortestPath(ctx, 1, 4)
	suite.NoError(err)
	suite.Equal(Path{Items: []PathNode{
		{ItemID: 1, Name: testItems[0].Name},
		{ItemID: 2, Name: testItems[1].Name},
		{ItemID: 4, Name: testItems[3].Name},
	}, Length: 2}, path)
	paths, err := suite.Database.AllShortestPaths(ctx, 4, 1)
	suite.NoError(err)
	suite.Len(paths, 1)
	suite.Equal([]int64{4, 2, 1}, lo.Map(paths[0].Items, func(n PathNode, _ int) int64 { return n.ItemID }))

	// disconnected items
	_, err = suite.Database.ShortestPath(ctx, 1, 5)
	suite.True(errors.Is(err, ErrPathNotExist), err)
	_, err = suite.Database.AllShortestPaths(ctx, 1, 99)
	suite.True(errors.Is(err, ErrPathNotExist), err)
	// missing item
	_, err = suite.Database.ShortestPath(ctx, 1, 100)
	suite.True(errors.Is(err, ErrItemNotExist), err)
	// same item
	_, err = suite.Database.ShortestPath(ctx, 1, 1)
	suite.True(errors.Is(err, errors.NotValid), err)
}
