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
	"testing"

	"github.com/bookend-io/bookend/model"
	"github.com/stretchr/testify/assert"
)

func TestRMSE(t *testing.T) {
	predictions := []model.Prediction{
		{UserId: 1, BookId: 10, Rating: 4, Est: 3},
		{UserId: 1, BookId: 11, Rating: 2, Est: 4},
	}
	assert.InDelta(t, math.Sqrt((1.0+4.0)/2.0), RMSE(predictions), 1e-9)
	assert.Equal(t, 0.0, RMSE(nil))
}

func TestMAE(t *testing.T) {
	predictions := []model.Prediction{
		{UserId: 1, BookId: 10, Rating: 4, Est: 3},
		{UserId: 1, BookId: 11, Rating: 2, Est: 4},
	}
	assert.InDelta(t, 1.5, MAE(predictions), 1e-9)
	assert.Equal(t, 0.0, MAE(nil))
}

func TestFCP(t *testing.T) {
	// one concordant and one discordant pair for user 1
	predictions := []model.Prediction{
		{UserId: 1, BookId: 10, Rating: 5, Est: 4},
		{UserId: 1, BookId: 11, Rating: 3, Est: 3},
		{UserId: 1, BookId: 12, Rating: 1, Est: 5},
	}
	// pairs: (10,11) concordant, (10,12) discordant, (11,12) discordant
	assert.InDelta(t, 1.0/3.0, FCP(predictions), 1e-9)
}

func TestFCPTies(t *testing.T) {
	// equal true ratings are skipped
	predictions := []model.Prediction{
		{UserId: 1, BookId: 10, Rating: 4, Est: 2},
		{UserId: 1, BookId: 11, Rating: 4, Est: 5},
	}
	assert.Equal(t, 0.0, FCP(predictions))
	// equal estimates on distinct ratings count as discordant
	predictions = []model.Prediction{
		{UserId: 1, BookId: 10, Rating: 5, Est: 3},
		{UserId: 1, BookId: 11, Rating: 2, Est: 3},
	}
	assert.Equal(t, 0.0, FCP(predictions))
}

func TestFCPPerUser(t *testing.T) {
	// cross-user pairs never count
	predictions := []model.Prediction{
		{UserId: 1, BookId: 10, Rating: 5, Est: 1},
		{UserId: 2, BookId: 10, Rating: 1, Est: 5},
	}
	assert.Equal(t, 0.0, FCP(predictions))
	predictions = append(predictions,
		model.Prediction{UserId: 2, BookId: 11, Rating: 3, Est: 6})
	assert.Equal(t, 1.0, FCP(predictions))
}
