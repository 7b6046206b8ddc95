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

// baseline holds per-user and per-item rating biases estimated by
// alternating least squares. The estimate of a known (user, item) pair is
// globalMean + userBias + itemBias.
type baseline struct {
	GlobalMean float64
	UserBias   []float64
	ItemBias   []float64
}

// computeBaseline estimates biases on a train set. Items are updated before
// users within each epoch.
func computeBaseline(set *TrainSet, regUser, regItem float64, epochs int) *baseline {
	bsl := &baseline{
		GlobalMean: set.GlobalMean,
		UserBias:   make([]float64, set.UserCount()),
		ItemBias:   make([]float64, set.ItemCount()),
	}
	for epoch := 0; epoch < epochs; epoch++ {
		for itemIndex, ratings := range set.ItemRatings {
			sum := 0.0
			for _, ur := range ratings {
				sum += ur.Rating - bsl.GlobalMean - bsl.UserBias[ur.Id]
			}
			bsl.ItemBias[itemIndex] = sum / (regItem + float64(len(ratings)))
		}
		for userIndex, ratings := range set.UserRatings {
			sum := 0.0
			for _, ir := range ratings {
				sum += ir.Rating - bsl.GlobalMean - bsl.ItemBias[ir.Id]
			}
			bsl.UserBias[userIndex] = sum / (regUser + float64(len(ratings)))
		}
	}
	return bsl
}

// estimate returns the baseline estimate of a known (user, item) index pair.
func (bsl *baseline) estimate(userIndex, itemIndex int32) float64 {
	return bsl.GlobalMean + bsl.UserBias[userIndex] + bsl.ItemBias[itemIndex]
}

// alignedEstimates returns the baseline estimates laid out position-wise with
// the given rating lists: TrainSet.UserRatings when userBased, otherwise
// TrainSet.ItemRatings.
func (bsl *baseline) alignedEstimates(lists [][]IdRating, userBased bool) [][]float64 {
	estimates := make([][]float64, len(lists))
	for index, ratings := range lists {
		estimates[index] = make([]float64, len(ratings))
		for i, r := range ratings {
			if userBased {
				estimates[index][i] = bsl.estimate(int32(index), r.Id)
			} else {
				estimates[index][i] = bsl.estimate(r.Id, int32(index))
			}
		}
	}
	return estimates
}
