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

package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/supplygraph/supplygraph/base/log"
	"github.com/supplygraph/supplygraph/config"
	"github.com/supplygraph/supplygraph/logics"
	"github.com/supplygraph/supplygraph/model/linkpred"
	"github.com/supplygraph/supplygraph/storage/graph"
	"github.com/supplygraph/supplygraph/storage/meta"
	"go.uber.org/zap"
)

const (
	defaultAnalyticsN = 10
	maxAnalyticsN     = 100
)

// RestServer implements a REST-ful API server.
type RestServer struct {
	Config      *config.Config
	Graph       graph.Database
	Models      *linkpred.ModelStore
	MetaStore   meta.Database
	ModelHandle *logics.ModelHandle
	Trainer     *logics.Trainer
	Recommender *logics.Recommender
	WebService  *restful.WebService
}

// NewRestServer wires the training and serving paths over the given stores. metaStore may be nil.
func NewRestServer(cfg *config.Config, db graph.Database, models *linkpred.ModelStore, metaStore meta.Database) *RestServer {
	handle := logics.NewModelHandle(models)
	return &RestServer{
		Config:      cfg,
		Graph:       db,
		Models:      models,
		MetaStore:   metaStore,
		ModelHandle: handle,
		Trainer:     logics.NewTrainer(db, models, metaStore, cfg.Train),
		Recommender: logics.NewRecommender(db, handle, cfg.Recommend),
		WebService:  new(restful.WebService),
	}
}

// LogFilter tags every request with a request id and logs it after it is served.
func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	requestID := req.HeaderParameter(log.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	resp.Header().Set(log.RequestIDHeader, requestID)
	start := time.Now()
	chain.ProcessFilter(req, resp)
	RestAPIRequestSeconds.WithLabelValues(req.Request.Method, req.SelectedRoutePath()).
		Observe(time.Since(start).Seconds())
	if req.Request.URL.Path != "/api/health" {
		log.ResponseLogger(resp).Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("duration", time.Since(start)))
	}
}

// CreateWebService creates web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(LogFilter)

	/* Health */

	ws.Route(ws.GET("/ping").To(s.ping).
		Doc("Check the server is alive.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(Status{}))
	ws.Route(ws.GET("/health").To(s.health).
		Doc("Check the graph store and the link prediction model.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Returns(http.StatusOK, "OK", HealthStatus{}).
		Returns(http.StatusServiceUnavailable, "graph store unavailable", HealthStatus{}).
		Writes(HealthStatus{}))

	/* Interactions with the graph */

	ws.Route(ws.GET("/item/{item-id}").To(s.getItem).
		Doc("Get an item.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"item"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.PathParameter("item-id", "identifier of the item").DataType("integer")).
		Writes(graph.Item{}))
	ws.Route(ws.GET("/item/{item-id}/neighbors").To(s.getNeighbors).
		Doc("Get items co-purchased with an item.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"item"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.PathParameter("item-id", "identifier of the item").DataType("integer")).
		Param(ws.QueryParameter("n", "number of returned items").DataType("integer")).
		Writes([]graph.Neighbor{}))
	ws.Route(ws.GET("/graph/pagerank").To(s.getPageRank).
		Doc("Get the most central items.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"graph"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.QueryParameter("n", "number of returned items").DataType("integer")).
		Writes(Centralities{}))
	ws.Route(ws.GET("/graph/louvain").To(s.getLouvain).
		Doc("Get the communities of items.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"graph"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.QueryParameter("n", "number of returned items").DataType("integer")).
		Writes(Communities{}))

	/* Orders and analytics */

	ws.Route(ws.GET("/order/{order-id}").To(s.getOrder).
		Doc("Get an order with its customer and items.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"order"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.PathParameter("order-id", "identifier of the order").DataType("integer")).
		Writes(graph.OrderDetails{}))
	ws.Route(ws.GET("/item/{item-id}/details").To(s.getItemDetails).
		Doc("Get an item with the orders containing it and their customers.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"item"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.PathParameter("item-id", "identifier of the item").DataType("integer")).
		Writes(graph.ItemDetails{}))
	ws.Route(ws.GET("/analytics/top-items").To(s.getTopItems).
		Doc("Get the most ordered items.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"analytics"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.QueryParameter("n", "number of returned items").DataType("integer")).
		Writes(TopItems{}))
	ws.Route(ws.GET("/analytics/bottlenecks/late-deliveries-by-department").To(s.getLateDeliveries).
		Doc("Get the departments with the highest ratio of late deliveries.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"analytics"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.QueryParameter("n", "number of returned departments").DataType("integer")).
		Writes(Bottlenecks{}))
	ws.Route(ws.GET("/analytics/paths/shortest").To(s.getShortestPath).
		Doc("Get a shortest co-purchase path between two items.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"analytics"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.QueryParameter("from", "identifier of the first item").DataType("integer").Required(true)).
		Param(ws.QueryParameter("to", "identifier of the last item").DataType("integer").Required(true)).
		Writes(PathResponse{}))
	ws.Route(ws.GET("/analytics/paths/all-shortest").To(s.getAllShortestPaths).
		Doc("Get all shortest co-purchase paths between two items.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"analytics"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.QueryParameter("from", "identifier of the first item").DataType("integer").Required(true)).
		Param(ws.QueryParameter("to", "identifier of the last item").DataType("integer").Required(true)).
		Writes(PathsResponse{}))

	/* Link prediction */

	ws.Route(ws.POST("/ml/train").To(s.train).
		Doc("Train the link prediction model.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"ml"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Consumes(restful.MIME_JSON, "*/*").
		Reads(logics.TrainParams{}).
		Writes(TrainResponse{}))
	ws.Route(ws.GET("/ml/recommendations/{item-id}").To(s.getRecommendations).
		Doc("Recommend items likely to be co-purchased with an item.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"ml"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.PathParameter("item-id", "identifier of the seed item").DataType("integer")).
		Param(ws.QueryParameter("k", "number of returned items").DataType("integer")).
		Writes(RecommendResponse{}))
	ws.Route(ws.GET("/ml/model").To(s.getModel).
		Doc("Get the status of the link prediction model.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"ml"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Writes(ModelStatus{}))
	ws.Route(ws.POST("/ml/reload").To(s.reloadModel).
		Doc("Reload the link prediction model from the model store.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"ml"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Consumes(restful.MIME_JSON, "*/*").
		Writes(ModelStatus{}))
}

type Status struct {
	Status string `json:"status"`
}

type HealthStatus struct {
	Ready      bool   `json:"ready"`
	GraphReady bool   `json:"graph_ready"`
	GraphError string `json:"graph_error,omitempty"`
	ModelReady bool   `json:"model_ready"`
}

type Centralities struct {
	GraphName string             `json:"graph_name"`
	Results   []graph.Centrality `json:"results"`
}

type Communities struct {
	GraphName string            `json:"graph_name"`
	Results   []graph.Community `json:"results"`
}

type TopItems struct {
	Items []graph.TopItem `json:"items"`
}

type Bottlenecks struct {
	Items []graph.DepartmentBottleneck `json:"items"`
}

type PathResponse struct {
	Path graph.Path `json:"path"`
}

type PathsResponse struct {
	Paths []graph.Path `json:"paths"`
}

type TrainResponse struct {
	NPos     int     `json:"n_pos"`
	NNeg     int     `json:"n_neg"`
	AUC      float64 `json:"auc"`
	Accuracy float64 `json:"accuracy"`
}

type RecommendResponse struct {
	ItemID          int64                   `json:"item_id"`
	K               int                     `json:"k"`
	Recommendations []logics.Recommendation `json:"recommendations"`
}

type ModelStatus struct {
	Ready     bool            `json:"ready"`
	Name      string          `json:"name"`
	ID        int64           `json:"id,omitempty"`
	Score     *linkpred.Score `json:"score,omitempty"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

func (s *RestServer) ping(_ *restful.Request, response *restful.Response) {
	Ok(response, Status{Status: "ok"})
}

func (s *RestServer) health(request *restful.Request, response *restful.Response) {
	var status HealthStatus
	if err := s.Graph.Ping(request.Request.Context()); err != nil {
		status.GraphError = err.Error()
	} else {
		status.GraphReady = true
	}
	if _, err := s.ModelHandle.Get(); err == nil {
		status.ModelReady = true
	} else if !errors.Is(err, logics.ErrModelNotReady) {
		log.ResponseLogger(response).Warn("failed to load model", zap.Error(err))
	}
	status.Ready = status.GraphReady
	if !status.Ready {
		response.Header().Set("Access-Control-Allow-Origin", "*")
		if err := response.WriteHeaderAndJson(http.StatusServiceUnavailable, status, restful.MIME_JSON); err != nil {
			log.ResponseLogger(response).Error("failed to write json", zap.Error(err))
		}
		return
	}
	Ok(response, status)
}

func (s *RestServer) getItem(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	itemId, err := ParseItemID(request)
	if err != nil {
		BadRequest(response, err)
		return
	}
	item, err := s.Graph.GetItem(request.Request.Context(), itemId)
	if err != nil {
		Error(response, err)
		return
	}
	Ok(response, item)
}

func (s *RestServer) getNeighbors(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	itemId, err := ParseItemID(request)
	if err != nil {
		BadRequest(response, err)
		return
	}
	n, err := ParseInt(request, "n", s.Config.Server.DefaultK)
	if err != nil || n < 1 || n > s.Config.Server.MaxK {
		BadRequest(response, errors.NotValidf("n = %s", request.QueryParameter("n")))
		return
	}
	ctx := request.Request.Context()
	if _, err = s.Graph.GetItem(ctx, itemId); err != nil {
		Error(response, err)
		return
	}
	neighbors, err := s.Graph.Neighbors(ctx, itemId, n)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	if neighbors == nil {
		neighbors = []graph.Neighbor{}
	}
	Ok(response, neighbors)
}

func (s *RestServer) getPageRank(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	n, err := ParseInt(request, "n", s.Config.Server.DefaultK)
	if err != nil || n < 1 {
		BadRequest(response, errors.NotValidf("n = %s", request.QueryParameter("n")))
		return
	}
	graphName, results, err := s.Graph.PageRank(request.Request.Context(), s.Config.Database.GraphName, n)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, Centralities{GraphName: graphName, Results: results})
}

func (s *RestServer) getLouvain(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	n, err := ParseInt(request, "n", s.Config.Server.DefaultK)
	if err != nil || n < 1 {
		BadRequest(response, errors.NotValidf("n = %s", request.QueryParameter("n")))
		return
	}
	graphName, results, err := s.Graph.Louvain(request.Request.Context(), s.Config.Database.GraphName, n)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, Communities{GraphName: graphName, Results: results})
}

func (s *RestServer) getOrder(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	orderId, err := strconv.ParseInt(request.PathParameter("order-id"), 10, 64)
	if err != nil {
		BadRequest(response, errors.NotValidf("order id %q", request.PathParameter("order-id")))
		return
	}
	details, err := s.Graph.GetOrder(request.Request.Context(), orderId)
	if err != nil {
		Error(response, err)
		return
	}
	Ok(response, details)
}

func (s *RestServer) getItemDetails(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	itemId, err := ParseItemID(request)
	if err != nil {
		BadRequest(response, err)
		return
	}
	details, err := s.Graph.GetItemDetails(request.Request.Context(), itemId)
	if err != nil {
		Error(response, err)
		return
	}
	Ok(response, details)
}

func (s *RestServer) getTopItems(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	n, err := ParseInt(request, "n", defaultAnalyticsN)
	if err != nil || n < 1 || n > maxAnalyticsN {
		BadRequest(response, errors.NotValidf("n = %s", request.QueryParameter("n")))
		return
	}
	items, err := s.Graph.TopItems(request.Request.Context(), n)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	if items == nil {
		items = []graph.TopItem{}
	}
	Ok(response, TopItems{Items: items})
}

func (s *RestServer) getLateDeliveries(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	n, err := ParseInt(request, "n", defaultAnalyticsN)
	if err != nil || n < 1 || n > maxAnalyticsN {
		BadRequest(response, errors.NotValidf("n = %s", request.QueryParameter("n")))
		return
	}
	items, err := s.Graph.LateDeliveriesByDepartment(request.Request.Context(), n)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	if items == nil {
		items = []graph.DepartmentBottleneck{}
	}
	Ok(response, Bottlenecks{Items: items})
}

func (s *RestServer) getShortestPath(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	from, to, err := parsePathEnds(request)
	if err != nil {
		BadRequest(response, err)
		return
	}
	path, err := s.Graph.ShortestPath(request.Request.Context(), from, to)
	if err != nil {
		Error(response, err)
		return
	}
	Ok(response, PathResponse{Path: path})
}

func (s *RestServer) getAllShortestPaths(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	from, to, err := parsePathEnds(request)
	if err != nil {
		BadRequest(response, err)
		return
	}
	paths, err := s.Graph.AllShortestPaths(request.Request.Context(), from, to)
	if err != nil {
		Error(response, err)
		return
	}
	Ok(response, PathsResponse{Paths: paths})
}

func parsePathEnds(request *restful.Request) (from, to int64, err error) {
	if from, err = strconv.ParseInt(request.QueryParameter("from"), 10, 64); err != nil {
		return 0, 0, errors.NotValidf("from = %q", request.QueryParameter("from"))
	}
	if to, err = strconv.ParseInt(request.QueryParameter("to"), 10, 64); err != nil {
		return 0, 0, errors.NotValidf("to = %q", request.QueryParameter("to"))
	}
	return from, to, nil
}

func (s *RestServer) train(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	params := logics.NewTrainParams(s.Config.Train)
	if request.Request.ContentLength != 0 {
		if err := request.ReadEntity(&params); err != nil {
			BadRequest(response, err)
			return
		}
	}
	result, err := s.Trainer.Train(request.Request.Context(), params)
	if err != nil {
		Error(response, err)
		return
	}
	if _, err = s.ModelHandle.Reload(); err != nil {
		log.ResponseLogger(response).Error("failed to reload model", zap.Error(err))
	}
	Ok(response, TrainResponse{
		NPos:     params.NPos,
		NNeg:     params.NNeg,
		AUC:      result.Score.AUC,
		Accuracy: result.Score.Accuracy,
	})
}

func (s *RestServer) getRecommendations(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	itemId, err := ParseItemID(request)
	if err != nil {
		BadRequest(response, err)
		return
	}
	k, err := ParseInt(request, "k", s.Config.Server.DefaultK)
	if err != nil || k < 1 || k > s.Config.Server.MaxK {
		BadRequest(response, errors.NotValidf("k = %s", request.QueryParameter("k")))
		return
	}
	start := time.Now()
	recommendations, err := s.Recommender.Recommend(request.Request.Context(), itemId, k)
	if err != nil {
		Error(response, err)
		return
	}
	GetRecommendSeconds.Observe(time.Since(start).Seconds())
	Ok(response, RecommendResponse{ItemID: itemId, K: k, Recommendations: recommendations})
}

func (s *RestServer) getModel(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	status := ModelStatus{Name: s.Models.Name()}
	if _, err := s.ModelHandle.Get(); err == nil {
		status.Ready = true
	} else if !errors.Is(err, logics.ErrModelNotReady) {
		InternalServerError(response, err)
		return
	}
	if s.MetaStore != nil {
		record, err := logics.LatestModel(s.MetaStore)
		if err != nil {
			InternalServerError(response, err)
			return
		}
		if record != nil {
			status.ID = record.ID
			status.Score = &record.Score
			status.Timestamp = &record.Timestamp
		}
	}
	Ok(response, status)
}

func (s *RestServer) reloadModel(request *restful.Request, response *restful.Response) {
	if !s.auth(request, response) {
		return
	}
	ready, err := s.ModelHandle.Reload()
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, ModelStatus{Ready: ready, Name: s.Models.Name()})
}

// ParseInt parses integers from the query parameter.
func ParseInt(request *restful.Request, name string, fallback int) (value int, err error) {
	valueString := request.QueryParameter(name)
	value, err = strconv.Atoi(valueString)
	if err != nil && valueString == "" {
		value = fallback
		err = nil
	}
	return
}

// ParseItemID parses the item id from the path parameter.
func ParseItemID(request *restful.Request) (int64, error) {
	itemId, err := strconv.ParseInt(request.PathParameter("item-id"), 10, 64)
	if err != nil {
		return 0, errors.NotValidf("item id %q", request.PathParameter("item-id"))
	}
	return itemId, nil
}

// Error writes err with the status code of its kind. A model that is not ready yet is a client error.
func Error(response *restful.Response, err error) {
	switch {
	case errors.Is(err, logics.ErrModelNotReady), errors.Is(err, errors.NotValid):
		BadRequest(response, err)
	case errors.Is(err, errors.NotFound):
		PageNotFound(response, err)
	default:
		InternalServerError(response, err)
	}
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// InternalServerError returns a internal server error.
func InternalServerError(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// PageNotFound returns a not found error.
func PageNotFound(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteError(http.StatusNotFound, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// Ok sends the content as JSON to the client.
func Ok(response *restful.Response, content interface{}) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteAsJson(content); err != nil {
		log.ResponseLogger(response).Error("failed to write json", zap.Error(err))
	}
}

func (s *RestServer) auth(request *restful.Request, response *restful.Response) bool {
	if s.Config.Server.APIKey == "" {
		return true
	}
	apikey := request.HeaderParameter("X-API-Key")
	if apikey == s.Config.Server.APIKey {
		return true
	}
	log.ResponseLogger(response).Error("unauthorized", zap.String("X-API-Key", apikey))
	if err := response.WriteError(http.StatusUnauthorized, fmt.Errorf("unauthorized")); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
	return false
}
