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

// Similarity names accepted by the KNN model.
const (
	SimPearsonBaseline = "pearsonBaseline"
	SimPearson         = "pearson"
	SimCosine          = "cosine"
	SimMsd             = "msd"
)

// KNNBaseline is a neighborhood model over baseline residuals. With
// userBased false (the default) the estimate is
//
//	\hat{r}_{ui} = b_{ui} + \frac{\sum_{j \in N_u^k(i)} sim(i,j) (r_{uj} - b_{uj})}
//	                             {\sum_{j \in N_u^k(i)} sim(i,j)}
//
// and with userBased true the neighborhood is taken over users instead.
// Hyperparameters:
//
//	k          - the maximal number of neighbors. Default is 40.
//	minK       - the minimal number of neighbors. Default is 1.
//	sim        - the similarity name. Default is "pearsonBaseline".
//	shrinkage  - the similarity shrinkage strength. Default is 100.
//	minSupport - the minimal number of common raters. Default is 1.
//	userBased  - neighborhood over users instead of books. Default is false.
//	bslEpochs  - the number of baseline ALS epochs. Default is 10.
//	bslRegU    - the user regularization of the baseline. Default is 15.
//	bslRegI    - the item regularization of the baseline. Default is 10.
type KNNBaseline struct {
	BaseModel
	Bias      *baseline
	SimMatrix [][]float64
	K         int
	MinK      int
	UserBased bool
	// fit-time hyperparameters
	simName    string
	shrinkage  float64
	minSupport int
}

// NewKNNBaseline creates a KNN model with baseline biases.
func NewKNNBaseline() *KNNBaseline {
	return new(KNNBaseline)
}

// Predict returns the unclipped estimate of a (user, book) pair. Unknown
// users or books fall back to the baseline estimate.
func (knn *KNNBaseline) Predict(userId, bookId int) float64 {
	userIndex := knn.Data.UserIndex.ToNumber(userId)
	itemIndex := knn.Data.ItemIndex.ToNumber(bookId)
	// baseline fallback for the missing parts
	est := knn.Bias.GlobalMean
	if userIndex != base.NotId {
		est += knn.Bias.UserBias[userIndex]
	}
	if itemIndex != base.NotId {
		est += knn.Bias.ItemBias[itemIndex]
	}
	if userIndex == base.NotId || itemIndex == base.NotId {
		return est
	}
	// candidate neighbors: raters of the book when user based, books rated
	// by the user otherwise
	var target int32
	var candidates []IdRating
	if knn.UserBased {
		target = userIndex
		candidates = knn.Data.ItemRatings[itemIndex]
	} else {
		target = itemIndex
		candidates = knn.Data.UserRatings[userIndex]
	}
	neighbors := base.NewMaxHeap(knn.K)
	ratings := make(map[int32]float64, len(candidates))
	for _, r := range candidates {
		if r.Id == target {
			continue
		}
		if sim := knn.SimMatrix[target][r.Id]; sim > 0 {
			neighbors.Add(int(r.Id), float32(sim))
			ratings[r.Id] = r.Rating
		}
	}
	elems, _ := neighbors.ToSorted()
	if len(elems) < knn.MinK {
		return est
	}
	sumSim, sumResidual := 0.0, 0.0
	for _, elem := range elems {
		id := int32(elem)
		sim := knn.SimMatrix[target][id]
		var bsl float64
		if knn.UserBased {
			bsl = knn.Bias.estimate(id, itemIndex)
		} else {
			bsl = knn.Bias.estimate(userIndex, id)
		}
		sumSim += sim
		sumResidual += sim * (ratings[id] - bsl)
	}
	if sumSim == 0 {
		return est
	}
	return est + sumResidual/sumSim
}

// Fit fits the model on a train set. The pairwise similarity matrix is
// computed in parallel.
func (knn *KNNBaseline) Fit(set *TrainSet, params Params) {
	knn.init(set, params)
	knn.K = params.GetInt("k", 40)
	knn.MinK = params.GetInt("minK", 1)
	knn.UserBased = params.GetBool("userBased", false)
	knn.simName = params.GetString("sim", SimPearsonBaseline)
	knn.shrinkage = params.GetFloat64("shrinkage", 100)
	knn.minSupport = params.GetInt("minSupport", 1)
	bslEpochs := params.GetInt("bslEpochs", 10)
	bslRegU := params.GetFloat64("bslRegU", 15)
	bslRegI := params.GetFloat64("bslRegI", 10)
	log.Logger().Info("fit KNN baseline",
		zap.Int("k", knn.K),
		zap.Int("min_k", knn.MinK),
		zap.String("sim", knn.simName),
		zap.Bool("user_based", knn.UserBased),
		zap.Float64("shrinkage", knn.shrinkage),
		zap.Int("min_support", knn.minSupport))
	knn.Bias = computeBaseline(set, bslRegU, bslRegI, bslEpochs)
	lists := set.ItemRatings
	if knn.UserBased {
		lists = set.UserRatings
	}
	var estimates [][]float64
	var sim Similarity
	switch knn.simName {
	case SimPearsonBaseline:
		estimates = knn.Bias.alignedEstimates(lists, knn.UserBased)
	case SimPearson:
		sim = PearsonSimilarity
	case SimMsd:
		sim = MsdSimilarity
	default:
		sim = CosineSimilarity
	}
	knn.SimMatrix = make([][]float64, len(lists))
	for i := range knn.SimMatrix {
		knn.SimMatrix[i] = make([]float64, len(lists))
	}
	if err := parallel.BatchParallel(len(lists), runtime.NumCPU(), 64, func(_, beginId, endId int) error {
		for i := beginId; i < endId; i++ {
			for j := i + 1; j < len(lists); j++ {
				var s float64
				if estimates != nil {
					s = pearsonBaselineSimilarity(lists[i], lists[j], estimates[i], estimates[j],
						knn.shrinkage, knn.minSupport)
				} else {
					s = sim(lists[i], lists[j])
				}
				knn.SimMatrix[i][j] = s
				knn.SimMatrix[j][i] = s
			}
		}
		return nil
	}); err != nil {
		// workers never fail here
		log.Logger().Error("compute similarity matrix", zap.Error(err))
	}
}

// Test predicts the given (user, book, rating) triples.
func (knn *KNNBaseline) Test(testSet []Rating) ([]Prediction, error) {
	return testModel(knn, &knn.BaseModel, testSet)
}

// Recommend returns the top n unrated books of a user by estimated rating.
func (knn *KNNBaseline) Recommend(userId, n int) ([]Score, error) {
	return recommendModel(knn, &knn.BaseModel, userId, n)
}
