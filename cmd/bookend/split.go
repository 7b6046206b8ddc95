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
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookend-io/bookend/base/log"
	"github.com/bookend-io/bookend/model"
)

var splitCommand = &cobra.Command{
	Use:   "split RATINGS_FILE TRAIN_FILE TEST_FILE",
	Short: "Split ratings into a train set and a test set.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		testRatio, _ := cmd.Flags().GetFloat64("test-ratio")
		seed, _ := cmd.Flags().GetInt64("seed")
		dataset, err := model.LoadRatingsCSV(args[0])
		if err != nil {
			return errors.Trace(err)
		}
		train, test, err := model.Split(dataset, testRatio, seed)
		if err != nil {
			return errors.Trace(err)
		}
		if err := model.SaveRatingsCSV(args[1], train); err != nil {
			return errors.Trace(err)
		}
		if err := model.SaveRatingsCSV(args[2], test); err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("split ratings",
			zap.Int("n_train", train.Count()),
			zap.Int("n_test", test.Count()))
		return nil
	},
}

func init() {
	splitCommand.Flags().Float64("test-ratio", 0.1, "fraction of ratings held out for testing")
	splitCommand.Flags().Int64("seed", 44, "random seed of the split")
}
