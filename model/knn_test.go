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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKNNBaselineFit(t *testing.T) {
	dataset := newDenseDataSet(20, 15)
	set := NewTrainSet(dataset)
	knn := NewKNNBaseline()
	knn.Fit(set, nil)
	// the similarity matrix is symmetric with an empty diagonal
	assert.Equal(t, set.ItemCount(), len(knn.SimMatrix))
	for i := range knn.SimMatrix {
		assert.Equal(t, 0.0, knn.SimMatrix[i][i])
		for j := range knn.SimMatrix[i] {
			assert.Equal(t, knn.SimMatrix[i][j], knn.SimMatrix[j][i])
		}
	}
	dummy := NewDummy()
	dummy.Fit(set, nil)
	assert.Less(t, trainRMSE(t, knn, dataset), trainRMSE(t, dummy, dataset))
}

func TestKNNBaselineUserBased(t *testing.T) {
	set := NewTrainSet(newDenseDataSet(20, 15))
	knn := NewKNNBaseline()
	knn.Fit(set, Params{"userBased": true})
	assert.True(t, knn.UserBased)
	assert.Equal(t, set.UserCount(), len(knn.SimMatrix))
	predictions, err := knn.Test([]Rating{{0, 0, 1}, {7, 3, 4}})
	assert.NoError(t, err)
	for _, p := range predictions {
		assert.GreaterOrEqual(t, p.Est, set.RatingLow)
		assert.LessOrEqual(t, p.Est, set.RatingHigh)
	}
}

func TestKNNBaselineSimilarities(t *testing.T) {
	set := NewTrainSet(newDenseDataSet(20, 15))
	for _, name := range []string{SimPearson, SimCosine, SimMsd} {
		knn := NewKNNBaseline()
		knn.Fit(set, Params{"sim": name})
		predictions, err := knn.Test([]Rating{{0, 0, 1}, {1, 2, 3}})
		assert.NoError(t, err)
		for _, p := range predictions {
			assert.GreaterOrEqual(t, p.Est, set.RatingLow)
			assert.LessOrEqual(t, p.Est, set.RatingHigh)
		}
	}
}

func TestKNNBaselineColdStart(t *testing.T) {
	set := newTestSet()
	knn := NewKNNBaseline()
	knn.Fit(set, nil)
	// both ids unknown: global mean only
	assert.Equal(t, knn.Bias.GlobalMean, knn.Predict(42, 42))
	// known user, unknown book: baseline terms of the user
	userIndex := set.UserIndex.ToNumber(1)
	assert.Equal(t, knn.Bias.GlobalMean+knn.Bias.UserBias[userIndex], knn.Predict(1, 42))
}

func TestKNNBaselineMinK(t *testing.T) {
	set := newTestSet()
	knn := NewKNNBaseline()
	// minK above any neighborhood size forces the baseline estimate
	knn.Fit(set, Params{"minK": 100})
	userIndex := set.UserIndex.ToNumber(1)
	itemIndex := set.ItemIndex.ToNumber(10)
	assert.Equal(t, knn.Bias.estimate(userIndex, itemIndex), knn.Predict(1, 10))
}
