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

package cb

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
)

// Errors of the analyzer layer.
var (
	// ErrUnbuiltFeatures is returned when a feature vector is requested
	// before BuildFeatures has been called.
	ErrUnbuiltFeatures = errors.New("features are used before building")
	// ErrInvalidBuilderConfig is returned for a malformed analyzer
	// configuration. Raised at build time, never retried.
	ErrInvalidBuilderConfig = errors.New("invalid content analyzer config")
)

// ContentAnalyzer extracts feature vectors from books. The dimensionality is
// fixed per analyzer instance: BuildFeatures and FeatureVector agree on it,
// so vectors are comparable by distance.
type ContentAnalyzer interface {
	// BuildFeatures builds the feature matrix of the given books, one row
	// per book in input order.
	BuildFeatures(books []Book) ([][]float32, error)
	// FeatureVector returns the feature vector of a single book. An unknown
	// book fails with a not-found error (the caller degrades gracefully).
	FeatureVector(bookId int) ([]float32, error)
}

// TextAnalyzer extracts term features from book descriptions.
type TextAnalyzer struct {
	vectorizer *vectorizer
	rows       map[int][]float32
}

// NewTfIdfAnalyzer creates a text analyzer with tf-idf weighted features.
func NewTfIdfAnalyzer(ngrams int) *TextAnalyzer {
	return &TextAnalyzer{vectorizer: newVectorizer(ngrams, true)}
}

// NewCountAnalyzer creates a text analyzer with raw term count features.
func NewCountAnalyzer(ngrams int) *TextAnalyzer {
	return &TextAnalyzer{vectorizer: newVectorizer(ngrams, false)}
}

// BuildFeatures learns the vocabulary from the book descriptions and builds
// the feature matrix.
func (analyzer *TextAnalyzer) BuildFeatures(books []Book) ([][]float32, error) {
	documents := make([]string, len(books))
	for i, book := range books {
		documents[i] = book.Description
	}
	matrix := analyzer.vectorizer.fitTransform(documents)
	analyzer.rows = make(map[int][]float32, len(books))
	for i, book := range books {
		analyzer.rows[book.Id] = matrix[i]
	}
	return matrix, nil
}

// FeatureVector returns the feature vector of a book.
func (analyzer *TextAnalyzer) FeatureVector(bookId int) ([]float32, error) {
	if analyzer.rows == nil {
		return nil, errors.Trace(ErrUnbuiltFeatures)
	}
	if row, exist := analyzer.rows[bookId]; exist {
		return row, nil
	}
	return nil, errors.NotFoundf("book %d", bookId)
}

// TagAnalyzer serves precomputed tag count features.
type TagAnalyzer struct {
	features *TagFeatures
	built    bool
}

// NewTagAnalyzer creates a tag analyzer over a loaded tag feature matrix.
func NewTagAnalyzer(features *TagFeatures) *TagAnalyzer {
	return &TagAnalyzer{features: features}
}

// BuildFeatures selects the tag rows of the given books. A book without tag
// features fails the build.
func (analyzer *TagAnalyzer) BuildFeatures(books []Book) ([][]float32, error) {
	matrix := make([][]float32, len(books))
	for i, book := range books {
		row, exist := analyzer.features.Rows[book.Id]
		if !exist {
			return nil, errors.NotFoundf("tag features of book %d", book.Id)
		}
		matrix[i] = row
	}
	analyzer.built = true
	return matrix, nil
}

// FeatureVector returns the tag vector of a book.
func (analyzer *TagAnalyzer) FeatureVector(bookId int) ([]float32, error) {
	if !analyzer.built {
		return nil, errors.Trace(ErrUnbuiltFeatures)
	}
	if row, exist := analyzer.features.Rows[bookId]; exist {
		return row, nil
	}
	return nil, errors.NotFoundf("book %d", bookId)
}

// EnsembleAnalyzer concatenates the features of its sub-analyzers.
type EnsembleAnalyzer struct {
	analyzers []ContentAnalyzer
}

// NewEnsembleAnalyzer creates an ensemble over sub-analyzers.
func NewEnsembleAnalyzer(analyzers ...ContentAnalyzer) *EnsembleAnalyzer {
	return &EnsembleAnalyzer{analyzers: analyzers}
}

// BuildFeatures builds every sub-matrix and stacks them horizontally.
func (analyzer *EnsembleAnalyzer) BuildFeatures(books []Book) ([][]float32, error) {
	matrix := make([][]float32, len(books))
	for _, sub := range analyzer.analyzers {
		subMatrix, err := sub.BuildFeatures(books)
		if err != nil {
			return nil, errors.Trace(err)
		}
		for i := range matrix {
			matrix[i] = append(matrix[i], subMatrix[i]...)
		}
	}
	return matrix, nil
}

// FeatureVector concatenates the sub-vectors of a book.
func (analyzer *EnsembleAnalyzer) FeatureVector(bookId int) ([]float32, error) {
	var vector []float32
	for _, sub := range analyzer.analyzers {
		subVector, err := sub.FeatureVector(bookId)
		if err != nil {
			return nil, errors.Trace(err)
		}
		vector = append(vector, subVector...)
	}
	return vector, nil
}

// Analyzer names accepted by the builder.
const (
	AnalyzerTfIdf    = "tf-idf"
	AnalyzerCount    = "count"
	AnalyzerTag      = "tag"
	AnalyzerTfIdfTag = "tf-idf-tag"
	AnalyzerCountTag = "count-tag"
)

// BuilderConfig configures the analyzer builder. The analyzer set is closed:
// anything outside it fails validation.
type BuilderConfig struct {
	Name            string `mapstructure:"name" validate:"oneof=tf-idf count tag tf-idf-tag count-tag"`
	Ngrams          int    `mapstructure:"ngrams" validate:"min=1"`
	TagFeaturesFile string `mapstructure:"tag_features_file"`
}

// Build creates a content analyzer from a configuration. A malformed
// configuration fails with ErrInvalidBuilderConfig.
func Build(config BuilderConfig) (ContentAnalyzer, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Annotatef(ErrInvalidBuilderConfig, "%v", err)
	}
	var tags *TagFeatures
	switch config.Name {
	case AnalyzerTag, AnalyzerTfIdfTag, AnalyzerCountTag:
		if config.TagFeaturesFile == "" {
			return nil, errors.Annotatef(ErrInvalidBuilderConfig,
				"analyzer %q without tag features", config.Name)
		}
		var err error
		if tags, err = LoadTagFeaturesCSV(config.TagFeaturesFile); err != nil {
			return nil, errors.Trace(err)
		}
	}
	switch config.Name {
	case AnalyzerTfIdf:
		return NewTfIdfAnalyzer(config.Ngrams), nil
	case AnalyzerCount:
		return NewCountAnalyzer(config.Ngrams), nil
	case AnalyzerTag:
		return NewTagAnalyzer(tags), nil
	case AnalyzerTfIdfTag:
		return NewEnsembleAnalyzer(NewTfIdfAnalyzer(config.Ngrams), NewTagAnalyzer(tags)), nil
	case AnalyzerCountTag:
		return NewEnsembleAnalyzer(NewCountAnalyzer(config.Ngrams), NewTagAnalyzer(tags)), nil
	}
	return nil, errors.Annotatef(ErrInvalidBuilderConfig, "analyzer %q", config.Name)
}
