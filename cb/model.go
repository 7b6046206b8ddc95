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
	"github.com/bookend-io/bookend/base"
	"github.com/juju/errors"
)

// ErrUntrained is returned when Recommend is called before Fit.
var ErrUntrained = errors.New("content model is used before training")

// Similarity is a similar book with its cosine distance from the query book,
// closest first in a result slice.
type Similarity struct {
	BookId   int     `json:"book_id"`
	Distance float64 `json:"distance"`
}

// ContentModel recommends books similar to a query book by brute-force
// cosine nearest-neighbor search over the analyzer's feature matrix. A
// fitted model no longer needs its analyzer, so it survives persistence.
type ContentModel struct {
	analyzer ContentAnalyzer
	books    []Book
	matrix   [][]float32
	rows     map[int]int
}

// NewContentModel creates a content model over an analyzer.
func NewContentModel(analyzer ContentAnalyzer) *ContentModel {
	return &ContentModel{analyzer: analyzer}
}

// Fit builds the feature matrix of the given books.
func (model *ContentModel) Fit(books []Book) error {
	matrix, err := model.analyzer.BuildFeatures(books)
	if err != nil {
		return errors.Trace(err)
	}
	model.setFitted(books, matrix)
	return nil
}

func (model *ContentModel) setFitted(books []Book, matrix [][]float32) {
	model.books = books
	model.matrix = matrix
	model.rows = make(map[int]int, len(books))
	for i, book := range books {
		model.rows[book.Id] = i
	}
}

// Books returns the fitted books in input order.
func (model *ContentModel) Books() []Book {
	return model.books
}

// Recommend returns the n books closest to the query book by cosine
// distance. The search runs over n+1 neighbors since the query book is its
// own nearest neighbor, and that neighbor is dropped from the result. An
// unknown book yields an empty result, not an error.
func (model *ContentModel) Recommend(bookId, n int) ([]Similarity, error) {
	if model.matrix == nil {
		return nil, errors.Trace(ErrUntrained)
	}
	selfRow, exist := model.rows[bookId]
	if !exist {
		// cold start: no similar books
		return []Similarity{}, nil
	}
	vector := model.matrix[selfRow]
	// keep the n+1 smallest distances
	neighbors := base.NewMaxHeap(n + 1)
	for i := range model.matrix {
		neighbors.Add(i, -cosineDistance(vector, model.matrix[i]))
	}
	rows, scores := neighbors.ToSorted()
	// the query book sits at distance zero; ties with duplicate feature
	// rows may reorder it, so locate it before dropping
	self := 0
	for i, row := range rows {
		if row == selfRow {
			self = i
			break
		}
	}
	similarities := make([]Similarity, 0, n)
	for i, row := range rows {
		if i == self {
			continue
		}
		if len(similarities) == n {
			break
		}
		similarities = append(similarities, Similarity{
			BookId:   model.books[row].Id,
			Distance: float64(-scores[i]),
		})
	}
	return similarities, nil
}
