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

// Package config loads and validates the engine configuration.
package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration of the engine.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Model   ModelConfig   `mapstructure:"model"`
	CB      CBConfig      `mapstructure:"cb"`
	Predict PredictConfig `mapstructure:"predict"`
	Eval    EvalConfig    `mapstructure:"eval"`
	Server  ServerConfig  `mapstructure:"server"`
}

// DataConfig locates the input files.
type DataConfig struct {
	RatingsFile string `mapstructure:"ratings_file"`
	BooksFile   string `mapstructure:"books_file"`
	ToReadFile  string `mapstructure:"to_read_file"`
	TestFile    string `mapstructure:"test_file"`
}

// ModelConfig selects a collaborative filtering model.
type ModelConfig struct {
	Name   string                 `mapstructure:"name" validate:"oneof=svd knn slopeone dummy"`
	Params map[string]interface{} `mapstructure:"params"`
}

// CBConfig configures the content analyzer.
type CBConfig struct {
	Name            string `mapstructure:"name" validate:"oneof=tf-idf count tag tf-idf-tag count-tag"`
	Ngrams          int    `mapstructure:"ngrams" validate:"min=1"`
	TagFeaturesFile string `mapstructure:"tag_features_file"`
}

// PredictConfig configures the batch prediction driver.
type PredictConfig struct {
	N           int `mapstructure:"n" validate:"min=1"`
	ChunksCount int `mapstructure:"chunks_count" validate:"min=1"`
	BatchSize   int `mapstructure:"batch_size" validate:"min=1"`
}

// EvalConfig configures the evaluation loop.
type EvalConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	NMin      int     `mapstructure:"n_min" validate:"min=1"`
	NMax      int     `mapstructure:"n_max" validate:"min=1"`
}

// ServerConfig configures the REST server.
type ServerConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port" validate:"min=1,max=65535"`
	NRecommend int    `mapstructure:"n_recommend" validate:"min=1"`
	CacheTTL   int    `mapstructure:"cache_ttl" validate:"min=1"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.name", "svd")
	v.SetDefault("cb.name", "tf-idf")
	v.SetDefault("cb.ngrams", 1)
	v.SetDefault("predict.n", 10)
	v.SetDefault("predict.chunks_count", 1)
	v.SetDefault("predict.batch_size", 100000)
	v.SetDefault("eval.threshold", 4.0)
	v.SetDefault("eval.n_min", 10)
	v.SetDefault("eval.n_max", 10)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8087)
	v.SetDefault("server.n_recommend", 10)
	v.SetDefault("server.cache_ttl", 60)
}

// LoadConfig loads and validates a configuration file (TOML or YAML by
// extension). A malformed or invalid configuration fails immediately, it is
// never retried.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Trace(err)
	}
	if err := validator.New().Struct(&config); err != nil {
		return nil, errors.Trace(err)
	}
	return &config, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// defaults always unmarshal
	_ = v.Unmarshal(&config)
	return &config
}
