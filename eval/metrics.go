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

// Package eval computes ranking and accuracy metrics of recommendation
// results against ground truth. All metrics are pure functions with no
// hidden state.
package eval

import (
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Precision is |recommended ∩ truth| / |recommended|, 0 for an empty
// recommendation list.
func Precision(recommended, truth []int) float64 {
	if len(recommended) == 0 {
		return 0
	}
	hits := mapset.NewThreadUnsafeSet(recommended...).
		Intersect(mapset.NewThreadUnsafeSet(truth...)).Cardinality()
	return float64(hits) / float64(len(recommended))
}

// Recall is |recommended ∩ truth| / |truth|, 0 for an empty truth list.
func Recall(recommended, truth []int) float64 {
	if len(truth) == 0 {
		return 0
	}
	hits := mapset.NewThreadUnsafeSet(recommended...).
		Intersect(mapset.NewThreadUnsafeSet(truth...)).Cardinality()
	return float64(hits) / float64(len(truth))
}

// Recommendation is a recommended book with its estimated score, the input
// of the thresholded metrics.
type Recommendation struct {
	BookId int
	Est    float64
}

func aboveThreshold(recommendations []Recommendation, threshold float64) []int {
	qualified := make([]int, 0, len(recommendations))
	for _, r := range recommendations {
		if r.Est >= threshold {
			qualified = append(qualified, r.BookId)
		}
	}
	return qualified
}

// PrecisionThresholded counts hits only among recommendations scoring at
// least threshold, but divides by the unfiltered recommendation count.
// Recommending nothing above the threshold is penalized, not rewarded.
func PrecisionThresholded(recommendations []Recommendation, truth []int, threshold float64) float64 {
	if len(recommendations) == 0 {
		return 0
	}
	hits := mapset.NewThreadUnsafeSet(aboveThreshold(recommendations, threshold)...).
		Intersect(mapset.NewThreadUnsafeSet(truth...)).Cardinality()
	return float64(hits) / float64(len(recommendations))
}

// RecallThresholded filters recommendations by threshold, then computes the
// plain recall.
func RecallThresholded(recommendations []Recommendation, truth []int, threshold float64) float64 {
	return Recall(aboveThreshold(recommendations, threshold), truth)
}

// maxRanks is the depth of the precomputed position discount table.
const maxRanks = 200

// discounts[i] = 1 / log2(i + 2), for ranks 0..199.
var discounts [maxRanks]float64

func init() {
	for i := range discounts {
		discounts[i] = 1 / math.Log2(float64(i)+2)
	}
}

// dcg is the discounted cumulative gain of a relevance list over at most
// maxRanks positions.
func dcg(relevance []float64) float64 {
	sum := 0.0
	for i, rel := range relevance {
		if i >= maxRanks {
			break
		}
		sum += rel * discounts[i]
	}
	return sum
}

// NDCG is the normalized discounted cumulative gain of a predicted relevance
// list. The ideal gain is taken over the ideal list sorted descending and
// truncated to the predicted list's length; 0 when the ideal gain is 0.
func NDCG(predicted, ideal []float64) float64 {
	sorted := make([]float64, len(ideal))
	copy(sorted, ideal)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if len(predicted) < len(sorted) {
		sorted = sorted[:len(predicted)]
	}
	idcg := dcg(sorted)
	if idcg == 0 {
		return 0
	}
	return dcg(predicted) / idcg
}

// BinaryRelevance builds the predicted and ideal relevance lists of a
// recommendation list against binary ground truth: 1 per recommended hit in
// recommendation order, with a 1 appended to the ideal list for every truth
// item that was not recommended.
func BinaryRelevance(recommended, truth []int) (predicted, ideal []float64) {
	truthSet := mapset.NewThreadUnsafeSet(truth...)
	recSet := mapset.NewThreadUnsafeSet(recommended...)
	predicted = make([]float64, len(recommended))
	for i, id := range recommended {
		if truthSet.Contains(id) {
			predicted[i] = 1
		}
	}
	ideal = append([]float64{}, predicted...)
	for _, id := range truth {
		if !recSet.Contains(id) {
			ideal = append(ideal, 1)
		}
	}
	return predicted, ideal
}

// ScaledRelevance builds the predicted and ideal relevance lists against
// rated ground truth: the true rating per recommended hit, with the rating
// of every missed truth item appended to the ideal list.
func ScaledRelevance(recommended []int, truth map[int]float64) (predicted, ideal []float64) {
	recSet := mapset.NewThreadUnsafeSet(recommended...)
	predicted = make([]float64, len(recommended))
	for i, id := range recommended {
		if rating, exist := truth[id]; exist {
			predicted[i] = rating
		}
	}
	ideal = append([]float64{}, predicted...)
	for id, rating := range truth {
		if !recSet.Contains(id) {
			ideal = append(ideal, rating)
		}
	}
	return predicted, ideal
}
