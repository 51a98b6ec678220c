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
	"time"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/supplygraph/supplygraph/logics"
)

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the link prediction model",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stores, err := openStores(cmd)
		if err != nil {
			return err
		}
		defer stores.Close(cmd.Context())

		model, err := stores.Models.Load()
		if err != nil {
			return errors.Trace(err)
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Property", "Value")
		rows := [][]string{
			{"path", stores.Models.Name()},
			{"ready", strconv.FormatBool(model != nil)},
		}
		if stores.MetaStore != nil {
			record, err := logics.LatestModel(stores.MetaStore)
			if err != nil {
				return errors.Trace(err)
			}
			if record != nil {
				rows = append(rows,
					[]string{"training run", fmt.Sprint(record.ID)},
					[]string{"trained at", record.Timestamp.Format(time.RFC3339)},
					[]string{"auc", formatScore(record.Score.AUC)},
					[]string{"accuracy", formatScore(record.Score.Accuracy)})
			}
		}
		for _, row := range rows {
			if err = table.Append(row); err != nil {
				return errors.Trace(err)
			}
		}
		return errors.Trace(table.Render())
	},
}

var resetCommand = &cobra.Command{
	Use:   "reset",
	Short: "Remove the link prediction model",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stores, err := openStores(cmd)
		if err != nil {
			return err
		}
		defer stores.Close(cmd.Context())
		if err = stores.Models.Remove(); err != nil {
			return errors.Trace(err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", stores.Models.Name())
		return nil
	},
}
