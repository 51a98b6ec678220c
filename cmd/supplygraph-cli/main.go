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

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/supplygraph/supplygraph/base/log"
	"github.com/supplygraph/supplygraph/cmd/version"
	"github.com/supplygraph/supplygraph/config"
	"github.com/supplygraph/supplygraph/server"
	"go.uber.org/zap"
)

var cliCommand = &cobra.Command{
	Use:   "supplygraph-cli",
	Short: "CLI for the supply graph recommender",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
	},
	SilenceUsage: true,
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Check the version of supplygraph",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), version.BuildInfo())
	},
}

func init() {
	log.AddFlags(cliCommand.PersistentFlags())
	cliCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	cliCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	cliCommand.AddCommand(versionCommand)
	cliCommand.AddCommand(trainCommand)
	cliCommand.AddCommand(recommendCommand)
	cliCommand.AddCommand(statusCommand)
	cliCommand.AddCommand(resetCommand)
}

// openStores loads the configuration named by the config flag and connects its stores.
func openStores(cmd *cobra.Command) (*config.Config, *server.Stores, error) {
	configPath, _ := cmd.Flags().GetString("config")
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, errors.Annotate(err, "failed to load config")
	}
	stores, err := server.OpenStores(cmd.Context(), conf)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return conf, stores, nil
}

func main() {
	if err := cliCommand.ExecuteContext(context.Background()); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
