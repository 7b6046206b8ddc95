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
	"github.com/juju/errors"
)

// Split splits a data set into a train set and a test set by a uniform
// random shuffle. testRatio is the fraction of ratings held out, rounded
// down. The split is deterministic for a given seed.
func Split(dataset *DataSet, testRatio float64, seed int64) (train, test *DataSet, err error) {
	if testRatio < 0 || testRatio > 1 {
		return nil, nil, errors.NotValidf("test ratio %v", testRatio)
	}
	perm := base.NewRandomGenerator(seed).Perm(dataset.Count())
	testSize := int(float64(dataset.Count()) * testRatio)
	train = &DataSet{Ratings: make([]Rating, 0, dataset.Count()-testSize)}
	test = &DataSet{Ratings: make([]Rating, 0, testSize)}
	for i, index := range perm {
		if i < testSize {
			test.Ratings = append(test.Ratings, dataset.Ratings[index])
		} else {
			train.Ratings = append(train.Ratings, dataset.Ratings[index])
		}
	}
	return train, test, nil
}

// SaveRatingsCSV writes a data set as a headed ratings CSV, the inverse of
// LoadRatingsCSV.
func SaveRatingsCSV(fileName string, dataset *DataSet) error {
	return writeRatingsCSV(fileName, dataset.Ratings, true)
}
