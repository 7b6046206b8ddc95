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
)

var evaluateCBCommand = &cobra.Command{
	Use:   "evaluate-cb PREDICTIONS_DIR SIMILAR_TRUTH_FILE OUTPUT_FILE",
	Short: "Evaluate similar-book prediction files against ground truth.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("n")
		entries, err := os.ReadDir(args[0])
		if err != nil {
			return errors.Trace(err)
		}
		truth, err := eval.LoadSimilarCSV(args[1])
		if err != nil {
			return errors.Trace(err)
		}
		var results []eval.SimilarResult
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
				continue
			}
			predictions, err := eval.LoadSimilarCSV(filepath.Join(args[0], entry.Name()))
			if err != nil {
				return errors.Trace(err)
			}
			log.Logger().Info("evaluate similar books",
				zap.String("file", entry.Name()),
				zap.Int("n_books", len(predictions)))
			result := eval.SimilarResult{Model: entry.Name(), N: n}
			result.Precision, result.Recall, result.CorrectHits =
				eval.EvaluateSimilar(predictions, truth, n)
			results = append(results, result)
		}
		if err := eval.WriteSimilarResultsCSV(args[2], results); err != nil {
			return errors.Trace(err)
		}
		printSimilarResults(results)
		return nil
	},
}

func printSimilarResults(results []eval.SimilarResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"model", "n", "precision", "recall", "correct_hits"})
	for _, result := range results {
		table.Append([]string{
			result.Model,
			strconv.Itoa(result.N),
			fmt.Sprintf("%.6f", result.Precision),
			fmt.Sprintf("%.6f", result.Recall),
			strconv.Itoa(result.CorrectHits),
		})
	}
	table.Render()
}

func init() {
	evaluateCBCommand.Flags().Int("n", 1, "similar books to consider per book")
}
