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
	"runtime"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookend-io/bookend/base/log"
	"github.com/bookend-io/bookend/cb"
	"github.com/bookend-io/bookend/model"
	"github.com/bookend-io/bookend/recommend"
)

var predictCommand = &cobra.Command{
	Use:   "predict MODEL_FILE OUTPUT_FILE",
	Short: "Predict top-N recommendations for every user.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("n")
		chunksCount, _ := cmd.Flags().GetInt("chunks-count")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		m, err := model.Load(args[0])
		if err != nil {
			return errors.Trace(err)
		}
		predictions, err := recommend.Predict(m, n, chunksCount, batchSize)
		if err != nil {
			return errors.Trace(err)
		}
		if err := recommend.WritePredictionsCSV(args[1], predictions); err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("predictions saved",
			zap.String("file", args[1]),
			zap.Int("n_predictions", len(predictions)))
		return nil
	},
}

var predictCBCommand = &cobra.Command{
	Use:   "predict-cb MODEL_FILE OUTPUT_FILE",
	Short: "Predict similar books for every book.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("n")
		m, err := cb.LoadContentModel(args[0])
		if err != nil {
			return errors.Trace(err)
		}
		results, err := recommend.PredictSimilar(m, n)
		if err != nil {
			return errors.Trace(err)
		}
		if err := recommend.WriteSimilarCSV(args[1], results); err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("similar books saved",
			zap.String("file", args[1]),
			zap.Int("n_books", len(results)))
		return nil
	},
}

func init() {
	predictCommand.Flags().Int("n", 10, "number of recommendations per user")
	predictCommand.Flags().Int("chunks-count", runtime.NumCPU(), "number of parallel user chunks")
	predictCommand.Flags().Int("batch-size", recommend.DefaultBatchSize, "maximal number of candidates scored at once")
	predictCBCommand.Flags().Int("n", 10, "number of similar books per book")
}
