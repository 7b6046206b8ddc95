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

import "math"

// Similarity measures the similarity of two sorted rating lists.
type Similarity func(a, b []IdRating) float64

// forEachCommon visits the ratings of indices present in both sorted lists.
func forEachCommon(a, b []IdRating, f func(i, j int)) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Id == b[j].Id:
			f(i, j)
			i++
			j++
		case a[i].Id < b[j].Id:
			i++
		default:
			j++
		}
	}
}

// CosineSimilarity computes the cosine similarity over common indices.
func CosineSimilarity(a, b []IdRating) float64 {
	product, squareA, squareB := 0.0, 0.0, 0.0
	forEachCommon(a, b, func(i, j int) {
		product += a[i].Rating * b[j].Rating
		squareA += a[i].Rating * a[i].Rating
		squareB += b[j].Rating * b[j].Rating
	})
	if squareA == 0 || squareB == 0 {
		return 0
	}
	return product / (math.Sqrt(squareA) * math.Sqrt(squareB))
}

// MsdSimilarity computes the inverted mean squared difference over common
// indices.
func MsdSimilarity(a, b []IdRating) float64 {
	count, sum := 0.0, 0.0
	forEachCommon(a, b, func(i, j int) {
		diff := a[i].Rating - b[j].Rating
		sum += diff * diff
		count++
	})
	if count == 0 {
		return 0
	}
	return 1.0 / (sum/count + 1.0)
}

// PearsonSimilarity computes the Pearson correlation over common indices.
func PearsonSimilarity(a, b []IdRating) float64 {
	count, sumA, sumB := 0.0, 0.0, 0.0
	forEachCommon(a, b, func(i, j int) {
		sumA += a[i].Rating
		sumB += b[j].Rating
		count++
	})
	if count == 0 {
		return 0
	}
	meanA, meanB := sumA/count, sumB/count
	product, squareA, squareB := 0.0, 0.0, 0.0
	forEachCommon(a, b, func(i, j int) {
		da, db := a[i].Rating-meanA, b[j].Rating-meanB
		product += da * db
		squareA += da * da
		squareB += db * db
	})
	if squareA == 0 || squareB == 0 {
		return 0
	}
	return product / (math.Sqrt(squareA) * math.Sqrt(squareB))
}

// pearsonBaselineSimilarity computes the shrunk Pearson correlation of two
// sorted rating lists after removing the baseline estimates estA and estB,
// which are aligned position-wise with a and b. Pairs with fewer common
// indices than minSupport score zero.
func pearsonBaselineSimilarity(a, b []IdRating, estA, estB []float64, shrinkage float64, minSupport int) float64 {
	count := 0
	product, squareA, squareB := 0.0, 0.0, 0.0
	forEachCommon(a, b, func(i, j int) {
		da := a[i].Rating - estA[i]
		db := b[j].Rating - estB[j]
		product += da * db
		squareA += da * da
		squareB += db * db
		count++
	})
	if count < minSupport || squareA == 0 || squareB == 0 {
		return 0
	}
	correlation := product / (math.Sqrt(squareA) * math.Sqrt(squareB))
	n := float64(count)
	return (n - 1) / (n - 1 + shrinkage) * correlation
}
