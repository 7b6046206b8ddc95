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

package recommend

import (
	"runtime"

	"github.com/bookend-io/bookend/base/log"
	"github.com/bookend-io/bookend/base/parallel"
	"github.com/bookend-io/bookend/cb"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// SimilarBooks is one book's similar-book list, closest first.
type SimilarBooks struct {
	BookId  int
	Similar []cb.Similarity
}

// PredictSimilar computes the n closest books of every fitted book, in the
// fitted book order. Any worker error fails the whole run.
func PredictSimilar(m *cb.ContentModel, n int) ([]SimilarBooks, error) {
	books := m.Books()
	log.Logger().Info("predict similar books",
		zap.Int("n", n),
		zap.Int("n_books", len(books)))
	bar := progressbar.Default(int64(len(books)), "similar")
	results := make([]SimilarBooks, len(books))
	if err := parallel.Parallel(len(books), runtime.NumCPU(), func(_, i int) error {
		similar, err := m.Recommend(books[i].Id, n)
		if err != nil {
			return errors.Trace(err)
		}
		results[i] = SimilarBooks{BookId: books[i].Id, Similar: similar}
		_ = bar.Add(1)
		return nil
	}); err != nil {
		return nil, errors.Trace(err)
	}
	return results, nil
}
