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

func TestForEachCommon(t *testing.T) {
	a := []IdRating{{0, 1}, {2, 2}, {5, 3}}
	b := []IdRating{{1, 1}, {2, 4}, {4, 2}, {5, 5}}
	var common [][2]int
	forEachCommon(a, b, func(i, j int) {
		common = append(common, [2]int{i, j})
	})
	assert.Equal(t, [][2]int{{1, 1}, {2, 3}}, common)
}

func TestCosineSimilarity(t *testing.T) {
	a := []IdRating{{0, 3}, {1, 4}}
	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-6)
	b := []IdRating{{0, 6}, {1, 8}}
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6)
	// disjoint lists
	c := []IdRating{{2, 5}}
	assert.Equal(t, 0.0, CosineSimilarity(a, c))
}

func TestMsdSimilarity(t *testing.T) {
	a := []IdRating{{0, 3}, {1, 4}}
	assert.InDelta(t, 1.0, MsdSimilarity(a, a), 1e-6)
	b := []IdRating{{0, 4}, {1, 5}}
	assert.InDelta(t, 0.5, MsdSimilarity(a, b), 1e-6)
	assert.Equal(t, 0.0, MsdSimilarity(a, []IdRating{{2, 5}}))
}

func TestPearsonSimilarity(t *testing.T) {
	a := []IdRating{{0, 1}, {1, 2}, {2, 3}}
	b := []IdRating{{0, 2}, {1, 4}, {2, 6}}
	assert.InDelta(t, 1.0, PearsonSimilarity(a, b), 1e-6)
	inverted := []IdRating{{0, 3}, {1, 2}, {2, 1}}
	assert.InDelta(t, -1.0, PearsonSimilarity(a, inverted), 1e-6)
	// constant list has zero variance
	constant := []IdRating{{0, 4}, {1, 4}, {2, 4}}
	assert.Equal(t, 0.0, PearsonSimilarity(a, constant))
}

func TestPearsonBaselineSimilarity(t *testing.T) {
	a := []IdRating{{0, 2}, {1, 3}, {2, 4}}
	b := []IdRating{{0, 3}, {1, 4}, {2, 5}}
	estA := []float64{3, 3, 3}
	estB := []float64{4, 4, 4}
	// residuals correlate perfectly, shrunk by (n-1)/(n-1+shrinkage)
	assert.InDelta(t, 2.0/102.0, pearsonBaselineSimilarity(a, b, estA, estB, 100, 1), 1e-6)
	assert.InDelta(t, 1.0, pearsonBaselineSimilarity(a, b, estA, estB, 0, 1), 1e-6)
	// below the minimal support
	assert.Equal(t, 0.0, pearsonBaselineSimilarity(a, b, estA, estB, 100, 4))
}
