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
	"testing"

	"github.com/bookend-io/bookend/model"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

// newSparseTrainSet builds a train set where user u has rated books
// 0..u. Antitest sets shrink as u grows and the last user, having
// rated every known book, has none.
func newSparseTrainSet(nUsers int) *model.TrainSet {
	dataset := new(model.DataSet)
	for u := 0; u < nUsers; u++ {
		for i := 0; i <= u; i++ {
			rating := float64((u+2*i)%5) + 1
			dataset.Ratings = append(dataset.Ratings, model.Rating{UserId: u, BookId: i, Rating: rating})
		}
	}
	return model.NewTrainSet(dataset)
}

func newFittedSVD(set *model.TrainSet) *model.SVD {
	svd := model.NewSVD()
	svd.Fit(set, model.Params{"nFactors": 4, "nEpochs": 5, "randState": int64(0)})
	return svd
}

func TestPredict(t *testing.T) {
	set := newSparseTrainSet(10)
	svd := newFittedSVD(set)
	predictions, err := Predict(svd, 3, 4, DefaultBatchSize)
	assert.NoError(t, err)
	// grouped by user in ascending order, estimates descending per user
	perUser := make(map[int][]model.Prediction)
	lastUser := -1
	for _, p := range predictions {
		assert.GreaterOrEqual(t, p.UserId, lastUser)
		lastUser = p.UserId
		perUser[p.UserId] = append(perUser[p.UserId], p)
	}
	// the last user rated every known book and must produce no rows
	full := set.UserCount() - 1
	assert.Empty(t, set.UserAntiTestSet(full))
	assert.NotContains(t, perUser, full)
	assert.Equal(t, set.UserCount()-1, len(perUser))
	for userId, user := range perUser {
		candidates := set.UserAntiTestSet(userId)
		if len(candidates) < 3 {
			assert.Equal(t, len(candidates), len(user))
		} else {
			assert.Equal(t, 3, len(user))
		}
		for i := 1; i < len(user); i++ {
			assert.GreaterOrEqual(t, user[i-1].Est, user[i].Est)
		}
		// recommended books come from the user's unrated candidates
		unrated := make(map[int]bool)
		for _, c := range candidates {
			unrated[c.BookId] = true
		}
		for _, p := range user {
			assert.True(t, unrated[p.BookId])
		}
	}
}

func TestPredictBatchSizeInvariance(t *testing.T) {
	set := newSparseTrainSet(10)
	svd := newFittedSVD(set)
	want, err := Predict(svd, 3, 1, DefaultBatchSize)
	assert.NoError(t, err)
	for _, batchSize := range []int{1, 7, 20, 100} {
		got, err := Predict(svd, 3, 1, batchSize)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPredictChunksCountInvariance(t *testing.T) {
	set := newSparseTrainSet(10)
	svd := newFittedSVD(set)
	want, err := Predict(svd, 3, 1, DefaultBatchSize)
	assert.NoError(t, err)
	// chunk counts beyond the user count are clamped
	for _, chunksCount := range []int{2, 5, 10, 100} {
		got, err := Predict(svd, 3, chunksCount, DefaultBatchSize)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPredictUntrained(t *testing.T) {
	_, err := Predict(model.NewSVD(), 3, 1, DefaultBatchSize)
	assert.ErrorIs(t, err, model.ErrUntrained)
}

// brokenModel fails every Test call once fitted.
type brokenModel struct {
	model.Dummy
}

func (m *brokenModel) Test(ratings []model.Rating) ([]model.Prediction, error) {
	return nil, errors.New("scoring failed")
}

func TestPredictWorkerError(t *testing.T) {
	set := newSparseTrainSet(10)
	broken := new(brokenModel)
	broken.Fit(set, nil)
	predictions, err := Predict(broken, 3, 4, DefaultBatchSize)
	assert.ErrorContains(t, err, "scoring failed")
	assert.Nil(t, predictions)
}

func TestTopNPerUser(t *testing.T) {
	predictions := []model.Prediction{
		{UserId: 1, BookId: 10, Est: 3},
		{UserId: 1, BookId: 11, Est: 5},
		{UserId: 1, BookId: 12, Est: 4},
		{UserId: 2, BookId: 10, Est: 2},
	}
	top := topNPerUser(predictions, 2)
	assert.Equal(t, []model.Prediction{
		{UserId: 1, BookId: 11, Est: 5},
		{UserId: 1, BookId: 12, Est: 4},
		{UserId: 2, BookId: 10, Est: 2},
	}, top)
	// estimate ties keep candidate order
	tied := []model.Prediction{
		{UserId: 1, BookId: 10, Est: 3},
		{UserId: 1, BookId: 11, Est: 3},
	}
	assert.Equal(t, tied[:1], topNPerUser(tied, 1))
}
