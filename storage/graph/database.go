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
	"strings"

	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/storage"
)

var (
	ErrItemNotExist  = errors.NotFoundf("item")
	ErrOrderNotExist = errors.NotFoundf("order")
	ErrPathNotExist  = errors.NotFoundf("path")
)

// MaxPathLength is the maximum number of co-purchase edges on a path returned by ShortestPath and AllShortestPaths.
const MaxPathLength = 5

const (
	FallbackDegreeSuffix    = "-fallback-degree"
	FallbackCommunitySuffix = "-fallback-community"
)

// Item is a product in the co-purchase graph.
type Item struct {
	ItemID int64    `json:"item_id"`
	Name   string   `json:"name"`
	Price  *float64 `json:"price,omitempty"`
}

// Pair is a candidate pair of items. Idx identifies the pair within a batch.
type Pair struct {
	Idx int
	A   int64
	B   int64
}

// FeatureRow is a row of the batched pair-feature query.
type FeatureRow struct {
	Idx             int
	AID             int64
	BID             int64
	DegreeA         int64
	DegreeB         int64
	CommonNeighbors int64
	PrefAttach      int64
	Jaccard         float64
}

// CandidateRow is a row of the candidate enumeration query.
type CandidateRow struct {
	CandidateID int64
	Name        string
}

// Neighbor is an item co-purchased with another item.
type Neighbor struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
	Weight int64  `json:"weight"`
}

// Centrality is the PageRank score (or weighted degree on fallback) of an item.
type Centrality struct {
	ItemID int64   `json:"item_id"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// Community is the community an item belongs to.
type Community struct {
	ItemID      int64  `json:"item_id"`
	Name        string `json:"name"`
	CommunityID int64  `json:"community_id"`
}

// Order is an order placed by a customer. Deliveries with LateDeliveryRisk equal to 1 are late.
type Order struct {
	OrderID               int64  `json:"order_id"`
	OrderDate             string `json:"order_date,omitempty"`
	ShippingDate          string `json:"shipping_date,omitempty"`
	LateDeliveryRisk      int64  `json:"late_delivery_risk"`
	ShippingMode          string `json:"shipping_mode,omitempty"`
	DaysShippingScheduled int64  `json:"days_shipping_scheduled"`
	DaysShippingReal      int64  `json:"days_shipping_real"`
	Region                string `json:"region,omitempty"`
	DeliveryStatus        string `json:"delivery_status,omitempty"`
	Status                string `json:"status,omitempty"`
}

type Customer struct {
	CustomerID int64  `json:"customer_id"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Department struct {
	DepartmentID int64  `json:"department_id"`
	Name         string `json:"name"`
	Market       string `json:"market,omitempty"`
}

// OrderLine is an item contained in an order.
type OrderLine struct {
	ItemID   int64
	Quantity int64
}

// OrderDetails is an order with the customer who placed it and the items it contains.
type OrderDetails struct {
	Order    Order     `json:"order"`
	Customer *Customer `json:"customer"`
	Items    []Item    `json:"items"`
}

// ItemDetails is an item with the orders containing it and the customers who placed them.
type ItemDetails struct {
	Item      Item       `json:"item"`
	Orders    []Order    `json:"orders"`
	Customers []Customer `json:"customers"`
}

type TopItem struct {
	ItemID        int64  `json:"item_id"`
	Name          string `json:"name"`
	TimesOrdered  int64  `json:"times_ordered"`
	TotalQuantity int64  `json:"total_quantity"`
}

// DepartmentBottleneck counts late deliveries of a department. LateRatio is a percentage.
type DepartmentBottleneck struct {
	DepartmentID   int64   `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	Market         string  `json:"market,omitempty"`
	LateOrders     int64   `json:"late_orders"`
	TotalOrders    int64   `json:"total_orders"`
	LateRatio      float64 `json:"late_ratio"`
}

type PathNode struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

// Path is a chain of co-purchased items. Length is the number of edges.
type Path struct {
	Items  []PathNode `json:"items"`
	Length int        `json:"length"`
}

// Database is the gateway to the co-purchase graph. Every operation is read-only.
type Database interface {
	Close(ctx context.Context) error
	Ping(ctx context.Context) error
	// PairFeatures computes structural features of pairs in one batch. Pairs referring to missing items produce no
	// row. Rows are ordered by Idx.
	PairFeatures(ctx context.Context, pairs []Pair) ([]FeatureRow, error)
	// Candidates returns distinct items two co-purchase edges away from seed, excluding seed, ordered by id.
	Candidates(ctx context.Context, seed int64, limit int) ([]CandidateRow, error)
	// Edges returns up to n co-purchase edges with A < B, ordered by (A, B).
	Edges(ctx context.Context, n int) ([]Pair, error)
	// ItemIDs returns ids of all items in ascending order.
	ItemIDs(ctx context.Context) ([]int64, error)
	// NonEdges returns the pairs without a co-purchase edge between them, keeping input order.
	NonEdges(ctx context.Context, pairs []Pair) ([]Pair, error)
	GetItem(ctx context.Context, itemId int64) (Item, error)
	// Neighbors returns up to n co-purchased items ordered by weight descending then id.
	Neighbors(ctx context.Context, itemId int64, n int) ([]Neighbor, error)
	// PageRank returns the top n items by PageRank over the named projection and the graph actually used.
	PageRank(ctx context.Context, graphName string, n int) (string, []Centrality, error)
	// Louvain returns n items with their communities over the named projection and the graph actually used.
	Louvain(ctx context.Context, graphName string, n int) (string, []Community, error)
	// GetOrder returns an order with its customer, which may be nil, and its distinct items ordered by id.
	GetOrder(ctx context.Context, orderId int64) (OrderDetails, error)
	// GetItemDetails returns an item with the distinct orders containing it and the distinct customers who placed
	// them, both ordered by id.
	GetItemDetails(ctx context.Context, itemId int64) (ItemDetails, error)
	// TopItems returns up to n ordered items by the number of orders containing them descending, then id.
	TopItems(ctx context.Context, n int) ([]TopItem, error)
	// LateDeliveriesByDepartment returns up to n departments with orders, ordered by late ratio descending, then
	// late orders descending, then id.
	LateDeliveriesByDepartment(ctx context.Context, n int) ([]DepartmentBottleneck, error)
	// ShortestPath returns a shortest co-purchase path of at most MaxPathLength edges between two distinct items.
	ShortestPath(ctx context.Context, from, to int64) (Path, error)
	// AllShortestPaths returns every shortest co-purchase path of at most MaxPathLength edges between two distinct
	// items, ordered by the item ids along each path.
	AllShortestPaths(ctx context.Context, from, to int64) ([]Path, error)
}

func comparePaths(x, y Path) int {
	return slices.CompareFunc(x.Items, y.Items, func(a, b PathNode) int {
		return cmp.Compare(a.ItemID, b.ItemID)
	})
}

// Open a connection to a graph database.
func Open(path string, opts ...Option) (Database, error) {
	opt := NewOptions(opts...)
	if storage.IsNeo4j(path) {
		return NewNeo4j(path, opt)
	} else if strings.HasPrefix(path, storage.MemoryPrefix) {
		return NewMemory(), nil
	}
	return nil, errors.Errorf("Unknown database: %s", path)
}

type Options struct {
	User         string
	Password     string
	DatabaseName string
}

type Option func(*Options)

func WithAuth(user, password string) Option {
	return func(o *Options) {
		o.User = user
		o.Password = password
	}
}

func WithDatabaseName(name string) Option {
	return func(o *Options) {
		o.DatabaseName = name
	}
}

func NewOptions(opts ...Option) Options {
	var opt Options
	for _, o := range opts {
		o(&opt)
	}
	return opt
}
