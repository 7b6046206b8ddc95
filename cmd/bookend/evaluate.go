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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookend-io/bookend/base/log"
	"github.com/bookend-io/bookend/eval"
	"github.com/bookend-io/bookend/model"
)

var evaluateCommand = &cobra.Command{
	Use:   "evaluate PREDICTIONS_DIR TO_READ_FILE TESTSET_FILE OUTPUT_FILE",
	Short: "Evaluate ranking metrics of prediction files.",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		nMin, _ := cmd.Flags().GetInt("n-min")
		nMax, _ := cmd.Flags().GetInt("n-max")
		entries, err := os.ReadDir(args[0])
		if err != nil {
			return errors.Trace(err)
		}
		toRead, err := model.LoadPairsCSV(args[1])
		if err != nil {
			return errors.Trace(err)
		}
		testSet, err := model.LoadRatingsCSV(args[2])
		if err != nil {
			return errors.Trace(err)
		}
		var results []eval.Result
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
				continue
			}
			predictions, err := eval.LoadPredictionsCSV(filepath.Join(args[0], entry.Name()))
			if err != nil {
				return errors.Trace(err)
			}
			log.Logger().Info("evaluate predictions",
				zap.String("file", entry.Name()),
				zap.Int("n_predictions", len(predictions)))
			for n := nMin; n <= nMax; n++ {
				result := eval.Result{Model: entry.Name(), N: n}
				result.PrecisionToRead, result.RecallToRead, result.NDCGToRead =
					eval.EvaluateBinaryTruth(predictions, toRead, threshold, n)
				result.PrecisionTest, result.RecallTest, result.NDCGTest =
					eval.EvaluateScaledTruth(predictions, testSet.Ratings, threshold, n)
				results = append(results, result)
			}
		}
		if err := eval.WriteResultsCSV(args[3], results); err != nil {
			return errors.Trace(err)
		}
		printResults(results)
		return nil
	},
}

func printResults(results []eval.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"model", "n", "precision-to_read", "precision-testset",
		"recall-to_read", "recall-testset", "ndcg-to_read", "ndcg-testset"})
	for _, result := range results {
		table.Append([]string{
			result.Model,
			strconv.Itoa(result.N),
			fmt.Sprintf("%.6f", result.PrecisionToRead),
			fmt.Sprintf("%.6f", result.PrecisionTest),
			fmt.Sprintf("%.6f", result.RecallToRead),
			fmt.Sprintf("%.6f", result.RecallTest),
			fmt.Sprintf("%.6f", result.NDCGToRead),
			fmt.Sprintf("%.6f", result.NDCGTest),
		})
	}
	table.Render()
}

func init() {
	evaluateCommand.Flags().Float64("threshold", 4.0, "minimal estimate of a valid recommendation")
	evaluateCommand.Flags().Int("n-min", 10, "lower bound of the recommendation count loop")
	evaluateCommand.Flags().Int("n-max", 10, "upper bound of the recommendation count loop")
}
