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
	"github.com/bookend-io/bookend/cb"
	"github.com/bookend-io/bookend/config"
	"github.com/bookend-io/bookend/model"
)

var trainCommand = &cobra.Command{
	Use:   "train RATINGS_FILE",
	Short: "Train a collaborative filtering model.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("model")
		output, _ := cmd.Flags().GetString("output")
		configFile, _ := cmd.Flags().GetString("config")
		params := model.Params{}
		if configFile != "" {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return errors.Trace(err)
			}
			if !cmd.Flags().Changed("model") {
				name = cfg.Model.Name
			}
			params = model.Params(cfg.Model.Params)
		}
		dataset, err := model.LoadRatingsCSV(args[0])
		if err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("load ratings",
			zap.String("file", args[0]),
			zap.Int("n_ratings", dataset.Count()))
		m, err := model.NewModel(name)
		if err != nil {
			return errors.Trace(err)
		}
		m.Fit(model.NewTrainSet(dataset), params)
		if err := model.Save(output, m); err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("model saved",
			zap.String("model", name),
			zap.String("file", output))
		return nil
	},
}

var trainCBCommand = &cobra.Command{
	Use:   "train-cb BOOKS_FILE",
	Short: "Train a content based model.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("analyzer")
		ngrams, _ := cmd.Flags().GetInt("ngrams")
		tagFeaturesFile, _ := cmd.Flags().GetString("tag-features")
		output, _ := cmd.Flags().GetString("output")
		analyzer, err := cb.Build(cb.BuilderConfig{
			Name:            name,
			Ngrams:          ngrams,
			TagFeaturesFile: tagFeaturesFile,
		})
		if err != nil {
			return errors.Trace(err)
		}
		books, err := cb.LoadBooksCSV(args[0])
		if err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("load books",
			zap.String("file", args[0]),
			zap.Int("n_books", len(books)))
		m := cb.NewContentModel(analyzer)
		if err := m.Fit(books); err != nil {
			return errors.Trace(err)
		}
		if err := cb.SaveContentModel(output, m); err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("content model saved",
			zap.String("analyzer", name),
			zap.String("file", output))
		return nil
	},
}

func init() {
	trainCommand.Flags().String("model", "svd", "name of the model (svd, knn, slopeone, dummy)")
	trainCommand.Flags().String("output", "model.gob", "output file of the trained model")
	trainCommand.Flags().String("config", "", "configuration file with model parameters")
	trainCBCommand.Flags().String("analyzer", "tf-idf", "name of the content analyzer")
	trainCBCommand.Flags().Int("ngrams", 1, "maximal n-gram length of text features")
	trainCBCommand.Flags().String("tag-features", "", "tag feature file of tag based analyzers")
	trainCBCommand.Flags().String("output", "cb-model.gob", "output file of the trained model")
}
