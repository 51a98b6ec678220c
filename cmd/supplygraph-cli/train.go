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
	"fmt"
	"strconv"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/supplygraph/supplygraph/logics"
)

var trainCommand = &cobra.Command{
	Use:   "train",
	Short: "Train the link prediction model",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, stores, err := openStores(cmd)
		if err != nil {
			return err
		}
		defer stores.Close(cmd.Context())

		params := logics.NewTrainParams(conf.Train)
		if cmd.Flags().Changed("n-pos") {
			params.NPos, _ = cmd.Flags().GetInt("n-pos")
		}
		if cmd.Flags().Changed("n-neg") {
			params.NNeg, _ = cmd.Flags().GetInt("n-neg")
		}
		if cmd.Flags().Changed("test-size") {
			params.TestSize, _ = cmd.Flags().GetFloat64("test-size")
		}
		if cmd.Flags().Changed("random-state") {
			params.RandomState, _ = cmd.Flags().GetInt64("random-state")
		}
		trainer := logics.NewTrainer(stores.Graph, stores.Models, stores.MetaStore, conf.Train)
		result, err := trainer.Train(cmd.Context(), params)
		if err != nil {
			return errors.Trace(err)
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Metric", "Value")
		for _, row := range [][]string{
			{"positive examples", strconv.Itoa(result.NumPositive)},
			{"negative examples", strconv.Itoa(result.NumNegative)},
			{"train / test", fmt.Sprintf("%d / %d", result.NumTrain, result.NumTest)},
			{"iterations", strconv.Itoa(result.NumIter)},
			{"auc", formatScore(result.Score.AUC)},
			{"accuracy", formatScore(result.Score.Accuracy)},
			{"precision", formatScore(result.Score.Precision)},
			{"recall", formatScore(result.Score.Recall)},
		} {
			if err = table.Append(row); err != nil {
				return errors.Trace(err)
			}
		}
		return errors.Trace(table.Render())
	},
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func init() {
	trainCommand.Flags().Int("n-pos", 5000, "number of positive pairs")
	trainCommand.Flags().Int("n-neg", 5000, "number of negative pairs")
	trainCommand.Flags().Float64("test-size", 0.2, "fraction of pairs held out for evaluation")
	trainCommand.Flags().Int64("random-state", 42, "seed of sampling and splitting")
}
