// Copyright 2024 bookend Project Authors
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
	"encoding/csv"
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookend-io/bookend/base/log"
	"github.com/bookend-io/bookend/eval"
	"github.com/bookend-io/bookend/model"
)

var accuracyCommand = &cobra.Command{
	Use:   "accuracy TESTSET_FILE OUTPUT_FILE MODEL_FILE...",
	Short: "Evaluate accuracy metrics of trained models on a held-out test set.",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		testSet, err := model.LoadRatingsCSV(args[0])
		if err != nil {
			return errors.Trace(err)
		}
		type accuracyRow struct {
			model          string
			rmse, mae, fcp float64
		}
		var rows []accuracyRow
		for _, modelFile := range args[2:] {
			m, err := model.Load(modelFile)
			if err != nil {
				return errors.Trace(err)
			}
			predictions, err := m.Test(testSet.Ratings)
			if err != nil {
				return errors.Trace(err)
			}
			row := accuracyRow{
				model: modelFile,
				rmse:  eval.RMSE(predictions),
				mae:   eval.MAE(predictions),
				fcp:   eval.FCP(predictions),
			}
			rows = append(rows, row)
			log.Logger().Info("accuracy",
				zap.String("model", row.model),
				zap.Float64("rmse", row.rmse),
				zap.Float64("mae", row.mae),
				zap.Float64("fcp", row.fcp))
		}
		file, err := os.Create(args[1])
		if err != nil {
			return errors.Trace(err)
		}
		defer file.Close()
		writer := csv.NewWriter(file)
		if err := writer.Write([]string{"model", "rmse", "mae", "fcp"}); err != nil {
			return errors.Trace(err)
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"model", "rmse", "mae", "fcp"})
		for _, row := range rows {
			record := []string{
				row.model,
				fmt.Sprintf("%.6f", row.rmse),
				fmt.Sprintf("%.6f", row.mae),
				fmt.Sprintf("%.6f", row.fcp),
			}
			if err := writer.Write(record); err != nil {
				return errors.Trace(err)
			}
			table.Append(record)
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return errors.Trace(err)
		}
		table.Render()
		return nil
	},
}
