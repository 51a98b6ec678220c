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
	"strconv"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/supplygraph/supplygraph/logics"
)

var recommendCommand = &cobra.Command{
	Use:   "recommend <item-id>",
	Short: "Recommend items likely to be co-purchased with an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.NotValidf("item id %q", args[0])
		}
		conf, stores, err := openStores(cmd)
		if err != nil {
			return err
		}
		defer stores.Close(cmd.Context())

		k := conf.Server.DefaultK
		if cmd.Flags().Changed("k") {
			k, _ = cmd.Flags().GetInt("k")
		}
		recommender := logics.NewRecommender(stores.Graph, logics.NewModelHandle(stores.Models), conf.Recommend)
		recommendations, err := recommender.Recommend(cmd.Context(), itemId, k)
		if err != nil {
			return errors.Trace(err)
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Rank", "Item ID", "Name", "Score")
		for i, r := range recommendations {
			if err = table.Append([]string{
				strconv.Itoa(i + 1),
				strconv.FormatInt(r.ItemID, 10),
				r.Name,
				formatScore(r.Score),
			}); err != nil {
				return errors.Trace(err)
			}
		}
		return errors.Trace(table.Render())
	},
}

func init() {
	recommendCommand.Flags().IntP("k", "k", 10, "number of recommended items")
}
