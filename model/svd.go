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
	"github.com/bookend-io/bookend/base"
	"github.com/bookend-io/bookend/base/log"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// SVD is the biased matrix factorization model fitted by stochastic gradient
// descent:
//
//	\hat{r}_{ui} = \mu + b_u + b_i + q_i^T p_u
//
// Hyperparameters:
//
//	nFactors   - the number of latent factors. Default is 100.
//	nEpochs    - the number of SGD epochs. Default is 20.
//	lr         - the learning rate. Default is 0.005.
//	reg        - the regularization strength. Default is 0.02.
//	initMean   - the mean of initial latent factors. Default is 0.
//	initStdDev - the standard deviation of initial latent factors. Default is 0.1.
//	biased     - use bias terms. Default is true.
//	randState  - the random seed.
type SVD struct {
	BaseModel
	UserFactor [][]float64
	ItemFactor [][]float64
	UserBias   []float64
	ItemBias   []float64
	GlobalMean float64
	// hyperparameters
	nFactors   int
	nEpochs    int
	lr         float64
	reg        float64
	initMean   float64
	initStdDev float64
	biased     bool
}

// NewSVD creates an SVD model.
func NewSVD() *SVD {
	return new(SVD)
}

// Predict returns the unclipped estimate of a (user, book) pair. Unknown
// users or books fall back to the known terms.
func (svd *SVD) Predict(userId, bookId int) float64 {
	userIndex := svd.Data.UserIndex.ToNumber(userId)
	itemIndex := svd.Data.ItemIndex.ToNumber(bookId)
	return svd.predict(userIndex, itemIndex)
}

func (svd *SVD) predict(userIndex, itemIndex int32) float64 {
	est := svd.GlobalMean
	if userIndex != base.NotId {
		est += svd.UserBias[userIndex]
	}
	if itemIndex != base.NotId {
		est += svd.ItemBias[itemIndex]
	}
	if userIndex != base.NotId && itemIndex != base.NotId {
		est += floats.Dot(svd.UserFactor[userIndex], svd.ItemFactor[itemIndex])
	}
	return est
}

// Fit fits the model on a train set.
func (svd *SVD) Fit(set *TrainSet, params Params) {
	svd.init(set, params)
	svd.nFactors = params.GetInt("nFactors", 100)
	svd.nEpochs = params.GetInt("nEpochs", 20)
	svd.lr = params.GetFloat64("lr", 0.005)
	svd.reg = params.GetFloat64("reg", 0.02)
	svd.initMean = params.GetFloat64("initMean", 0)
	svd.initStdDev = params.GetFloat64("initStdDev", 0.1)
	svd.biased = params.GetBool("biased", true)
	log.Logger().Info("fit SVD",
		zap.Int("n_factors", svd.nFactors),
		zap.Int("n_epochs", svd.nEpochs),
		zap.Float64("lr", svd.lr),
		zap.Float64("reg", svd.reg))
	svd.GlobalMean = 0
	svd.UserBias = make([]float64, set.UserCount())
	svd.ItemBias = make([]float64, set.ItemCount())
	svd.UserFactor = svd.rng.NormalMatrix(set.UserCount(), svd.nFactors, svd.initMean, svd.initStdDev)
	svd.ItemFactor = svd.rng.NormalMatrix(set.ItemCount(), svd.nFactors, svd.initMean, svd.initStdDev)
	if svd.biased {
		svd.GlobalMean = set.GlobalMean
	}
	// gradient buffers
	a := make([]float64, svd.nFactors)
	b := make([]float64, svd.nFactors)
	for epoch := 0; epoch < svd.nEpochs; epoch++ {
		for i := range set.FeedbackRatings {
			userIndex := set.FeedbackUsers[i]
			itemIndex := set.FeedbackItems[i]
			rating := set.FeedbackRatings[i]
			userFactor := svd.UserFactor[userIndex]
			itemFactor := svd.ItemFactor[itemIndex]
			diff := rating - svd.predict(userIndex, itemIndex)
			if svd.biased {
				svd.UserBias[userIndex] += svd.lr * (diff - svd.reg*svd.UserBias[userIndex])
				svd.ItemBias[itemIndex] += svd.lr * (diff - svd.reg*svd.ItemBias[itemIndex])
			}
			// p_u <- p_u + lr * (diff * q_i - reg * p_u)
			copy(a, itemFactor)
			floats.Scale(diff, a)
			floats.AddScaledTo(b, a, -svd.reg, userFactor)
			floats.AddScaled(userFactor, svd.lr, b)
			// q_i <- q_i + lr * (diff * p_u - reg * q_i)
			copy(a, userFactor)
			floats.Scale(diff, a)
			floats.AddScaledTo(b, a, -svd.reg, itemFactor)
			floats.AddScaled(itemFactor, svd.lr, b)
		}
	}
}

// Test predicts the given (user, book, rating) triples.
func (svd *SVD) Test(testSet []Rating) ([]Prediction, error) {
	return testModel(svd, &svd.BaseModel, testSet)
}

// Recommend returns the top n unrated books of a user by estimated rating.
func (svd *SVD) Recommend(userId, n int) ([]Score, error) {
	return recommendModel(svd, &svd.BaseModel, userId, n)
}
