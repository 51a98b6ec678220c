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
	"context"
	"fmt"
	"net/http"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/supplygraph/supplygraph/base/log"
	"go.uber.org/zap"
)

const (
	apiDocsPath     = "/apidocs.json"
	shutdownTimeout = 30 * time.Second
)

// Handler creates the HTTP handler serving the REST API, its OpenAPI document and Prometheus metrics.
func (s *RestServer) Handler() http.Handler {
	s.CreateWebService()
	container := restful.NewContainer()
	container.Add(s.WebService)
	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     apiDocsPath,
	}))
	container.Handle("/metrics", promhttp.Handler())
	return container
}

// Serve starts the REST-ful API server and shuts it down gracefully once ctx is done.
func (s *RestServer) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() {
		log.Logger().Info("start http server", zap.String("url", "http://"+addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return errors.Trace(err)
	case <-ctx.Done():
	}
	log.Logger().Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Trace(err)
	}
	return nil
}
