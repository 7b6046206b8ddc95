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

package eval

import (
	"math"

	"github.com/bookend-io/bookend/model"
	"gonum.org/v1/gonum/stat"
)

// Accuracy metrics are computed over predictions against a real held-out
// test set, never over antitest placeholders.

// RMSE is the root mean squared error of the estimates, 0 for no
// predictions.
func RMSE(predictions []model.Prediction) float64 {
	if len(predictions) == 0 {
		return 0
	}
	squares := make([]float64, len(predictions))
	for i, p := range predictions {
		diff := p.Rating - p.Est
		squares[i] = diff * diff
	}
	return math.Sqrt(stat.Mean(squares, nil))
}

// MAE is the mean absolute error of the estimates, 0 for no predictions.
func MAE(predictions []model.Prediction) float64 {
	if len(predictions) == 0 {
		return 0
	}
	diffs := make([]float64, len(predictions))
	for i, p := range predictions {
		diffs[i] = math.Abs(p.Rating - p.Est)
	}
	return stat.Mean(diffs, nil)
}

// FCP is the fraction of concordant pairs: over each user's prediction
// pairs with distinct true ratings, the share where the estimates order the
// same way as the true ratings. Pairs tied on estimate count as discordant.
// 0 when no user has two comparable predictions.
func FCP(predictions []model.Prediction) float64 {
	users := make(map[int][]model.Prediction)
	for _, p := range predictions {
		users[p.UserId] = append(users[p.UserId], p)
	}
	concordant, discordant := 0, 0
	for _, preds := range users {
		for i := 0; i < len(preds); i++ {
			for j := i + 1; j < len(preds); j++ {
				hi, lo := preds[i], preds[j]
				if hi.Rating == lo.Rating {
					continue
				}
				if hi.Rating < lo.Rating {
					hi, lo = lo, hi
				}
				if hi.Est > lo.Est {
					concordant++
				} else {
					discordant++
				}
			}
		}
	}
	if concordant+discordant == 0 {
		return 0
	}
	return float64(concordant) / float64(concordant+discordant)
}
