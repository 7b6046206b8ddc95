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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bookend-io/bookend/model"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateBinaryTruth(t *testing.T) {
	predictions := []model.Prediction{
		{UserId: 1, BookId: 11, Est: 5},
		{UserId: 1, BookId: 22, Est: 3},
	}
	truth := [][2]int{{1, 11}, {1, 33}}
	precision, recall, ndcg := EvaluateBinaryTruth(predictions, truth, 4, 20)
	assert.Equal(t, 0.5, precision)
	assert.Equal(t, 0.5, recall)
	assert.Greater(t, ndcg, 0.0)
}

func TestEvaluateBinaryTruthHeadN(t *testing.T) {
	predictions := []model.Prediction{
		{UserId: 1, BookId: 11, Est: 5},
		{UserId: 1, BookId: 22, Est: 5},
	}
	truth := [][2]int{{1, 22}}
	// n cuts the hit off
	precision, _, _ := EvaluateBinaryTruth(predictions, truth, 4, 1)
	assert.Equal(t, 0.0, precision)
	precision, _, _ = EvaluateBinaryTruth(predictions, truth, 4, 2)
	assert.Equal(t, 0.5, precision)
}

func TestEvaluateBinaryTruthMissingUser(t *testing.T) {
	predictions := []model.Prediction{
		{UserId: 1, BookId: 11, Est: 5},
	}
	// user 2 has no predictions and scores zero, halving the average
	truth := [][2]int{{1, 11}, {2, 11}}
	precision, recall, ndcg := EvaluateBinaryTruth(predictions, truth, 4, 10)
	assert.Equal(t, 0.5, precision)
	assert.Equal(t, 0.5, recall)
	assert.Equal(t, 0.5, ndcg)
}

func TestEvaluateBinaryTruthEmpty(t *testing.T) {
	precision, recall, ndcg := EvaluateBinaryTruth(nil, nil, 4, 10)
	assert.Equal(t, 0.0, precision)
	assert.Equal(t, 0.0, recall)
	assert.Equal(t, 0.0, ndcg)
}

func TestEvaluateScaledTruth(t *testing.T) {
	predictions := []model.Prediction{
		{UserId: 1, BookId: 11, Est: 5},
		{UserId: 1, BookId: 22, Est: 3},
	}
	truth := []model.Rating{
		{UserId: 1, BookId: 11, Rating: 5},
		{UserId: 1, BookId: 33, Rating: 4},
	}
	precision, recall, ndcg := EvaluateScaledTruth(predictions, truth, 4, 20)
	assert.Equal(t, 0.5, precision)
	assert.Equal(t, 0.5, recall)
	assert.Greater(t, ndcg, 0.0)
	assert.LessOrEqual(t, ndcg, 1.0)
}

func TestLoadPredictionsCSV(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "predictions.csv")
	assert.NoError(t, os.WriteFile(fileName, []byte("user_id,book_id,est\n1,11,4.5\n2,22,3\n"), 0644))
	predictions, err := LoadPredictionsCSV(fileName)
	assert.NoError(t, err)
	assert.Equal(t, []model.Prediction{
		{UserId: 1, BookId: 11, Est: 4.5},
		{UserId: 2, BookId: 22, Est: 3},
	}, predictions)
}

func TestWriteResultsCSV(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "results.csv")
	results := []Result{{Model: "svd", N: 10, PrecisionToRead: 0.5, NDCGTest: 0.25}}
	assert.NoError(t, WriteResultsCSV(fileName, results))
	// appending skips the header
	assert.NoError(t, WriteResultsCSV(fileName, results))
	data, err := os.ReadFile(fileName)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "model,n,precision-to_read,precision-testset,recall-to_read,recall-testset,ndcg-to_read,ndcg-testset", lines[0])
	assert.Equal(t, "svd,10,0.500000,0.000000,0.000000,0.000000,0.000000,0.250000", lines[1])
	assert.Equal(t, lines[1], lines[2])
}
