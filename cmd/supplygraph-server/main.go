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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/supplygraph/supplygraph/base/log"
	"github.com/supplygraph/supplygraph/cmd/version"
	"github.com/supplygraph/supplygraph/config"
	"github.com/supplygraph/supplygraph/server"
	"go.uber.org/zap"
)

var serverCommand = &cobra.Command{
	Use:   "supplygraph-server",
	Short: "The REST-ful API server of the supply graph recommender.",
	Run: func(cmd *cobra.Command, args []string) {
		// show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		if cmd.PersistentFlags().Changed("http-host") {
			conf.Server.Host, _ = cmd.PersistentFlags().GetString("http-host")
		}
		if cmd.PersistentFlags().Changed("http-port") {
			conf.Server.Port, _ = cmd.PersistentFlags().GetInt("http-port")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// connect stores
		log.Logger().Info("connect stores",
			zap.String("graph_store", log.RedactURL(conf.Database.GraphStore)),
			zap.String("meta_store", log.RedactURL(conf.Database.MetaStore)),
			zap.String("model_storage", conf.Model.Storage),
			zap.String("model_path", conf.Model.Path))
		stores, err := server.OpenStores(ctx, conf)
		if err != nil {
			log.Logger().Fatal("failed to connect stores", zap.Error(err))
		}
		defer stores.Close(context.Background())

		// start server
		s := server.NewRestServer(conf, stores.Graph, stores.Models, stores.MetaStore)
		if _, err = s.ModelHandle.Get(); err != nil {
			log.Logger().Warn("link prediction model is not loaded", zap.Error(err))
		}
		if err = s.Serve(ctx); err != nil {
			log.Logger().Error("failed to serve", zap.Error(err))
		}
	},
}

func init() {
	log.AddFlags(serverCommand.PersistentFlags())
	serverCommand.PersistentFlags().BoolP("version", "v", false, "supplygraph version")
	serverCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	serverCommand.PersistentFlags().String("http-host", "0.0.0.0", "host of RESTful API")
	serverCommand.PersistentFlags().Int("http-port", 8080, "port of RESTful API")
	serverCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
}

func main() {
	if err := serverCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
