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

// Dummy predicts the global mean rating for every pair. It is the sanity
// floor for accuracy comparisons.
type Dummy struct {
	BaseModel
	GlobalMean float64
}

// NewDummy creates a Dummy model.
func NewDummy() *Dummy {
	return new(Dummy)
}

// Predict returns the global mean of the train set.
func (dummy *Dummy) Predict(userId, bookId int) float64 {
	return dummy.GlobalMean
}

// Fit fits the model on a train set.
func (dummy *Dummy) Fit(set *TrainSet, params Params) {
	dummy.init(set, params)
	dummy.GlobalMean = set.GlobalMean
}

// Test predicts the given (user, book, rating) triples.
func (dummy *Dummy) Test(testSet []Rating) ([]Prediction, error) {
	return testModel(dummy, &dummy.BaseModel, testSet)
}

// Recommend returns the top n unrated books of a user by estimated rating.
func (dummy *Dummy) Recommend(userId, n int) ([]Score, error) {
	return recommendModel(dummy, &dummy.BaseModel, userId, n)
}
