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

package model

import (
	"runtime"

	"github.com/bookend-io/bookend/base"
	"github.com/bookend-io/bookend/base/log"
	"github.com/bookend-io/bookend/base/parallel"
	"go.uber.org/zap"
)

// SlopeOne predicts by average rating deviations between item pairs:
//
//	\hat{r}_{ui} = \mu_u + \frac{1}{|R_i(u)|} \sum_{j \in R_i(u)} dev(i, j)
//
// where R_i(u) is the set of books rated by the user that share at least one
// rater with book i, and dev(i, j) is the mean difference of the ratings of
// i and j over their common raters. SlopeOne has no hyperparameters.
type SlopeOne struct {
	BaseModel
	GlobalMean float64
	UserMeans  []float64
	Dev        [][]float64
	Freq       [][]int
}

// NewSlopeOne creates a SlopeOne model.
func NewSlopeOne() *SlopeOne {
	return new(SlopeOne)
}

// Predict returns the unclipped estimate of a (user, book) pair. An unknown
// user falls back to the global mean, an unknown book to the user mean.
func (so *SlopeOne) Predict(userId, bookId int) float64 {
	userIndex := so.Data.UserIndex.ToNumber(userId)
	itemIndex := so.Data.ItemIndex.ToNumber(bookId)
	if userIndex == base.NotId {
		return so.GlobalMean
	}
	est := so.UserMeans[userIndex]
	if itemIndex == base.NotId {
		return est
	}
	sum, count := 0.0, 0.0
	for _, jr := range so.Data.UserRatings[userIndex] {
		if jr.Id != itemIndex && so.Freq[itemIndex][jr.Id] > 0 {
			sum += so.Dev[itemIndex][jr.Id]
			count++
		}
	}
	if count > 0 {
		est += sum / count
	}
	return est
}

// Fit fits the model on a train set. The pairwise deviation matrix is
// computed in parallel over items.
func (so *SlopeOne) Fit(set *TrainSet, params Params) {
	so.init(set, params)
	log.Logger().Info("fit SlopeOne",
		zap.Int("n_users", set.UserCount()),
		zap.Int("n_items", set.ItemCount()))
	so.GlobalMean = set.GlobalMean
	so.UserMeans = make([]float64, set.UserCount())
	for userIndex, ratings := range set.UserRatings {
		sum := 0.0
		for _, ir := range ratings {
			sum += ir.Rating
		}
		so.UserMeans[userIndex] = sum / float64(len(ratings))
	}
	so.Dev = make([][]float64, set.ItemCount())
	so.Freq = make([][]int, set.ItemCount())
	for i := range so.Dev {
		so.Dev[i] = make([]float64, set.ItemCount())
		so.Freq[i] = make([]int, set.ItemCount())
	}
	if err := parallel.BatchParallel(set.ItemCount(), runtime.NumCPU(), 64, func(_, beginId, endId int) error {
		for i := beginId; i < endId; i++ {
			for j := i + 1; j < set.ItemCount(); j++ {
				sum, count := 0.0, 0
				forEachCommon(set.ItemRatings[i], set.ItemRatings[j], func(a, b int) {
					sum += set.ItemRatings[i][a].Rating - set.ItemRatings[j][b].Rating
					count++
				})
				if count > 0 {
					so.Dev[i][j] = sum / float64(count)
					so.Dev[j][i] = -so.Dev[i][j]
					so.Freq[i][j] = count
					so.Freq[j][i] = count
				}
			}
		}
		return nil
	}); err != nil {
		// workers never fail here
		log.Logger().Error("compute deviation matrix", zap.Error(err))
	}
}

// Test predicts the given (user, book, rating) triples.
func (so *SlopeOne) Test(testSet []Rating) ([]Prediction, error) {
	return testModel(so, &so.BaseModel, testSet)
}

// Recommend returns the top n unrated books of a user by estimated rating.
func (so *SlopeOne) Recommend(userId, n int) ([]Score, error) {
	return recommendModel(so, &so.BaseModel, userId, n)
}
