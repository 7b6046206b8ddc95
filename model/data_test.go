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
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

// newTestSet builds a train set over users {1, 2, 3} and books
// {10, 11, 12, 13}.
func newTestSet() *TrainSet {
	return NewTrainSet(&DataSet{Ratings: []Rating{
		{1, 10, 5},
		{1, 11, 4},
		{2, 10, 3},
		{3, 12, 2},
		{3, 13, 4},
	}})
}

func TestNewTrainSet(t *testing.T) {
	set := newTestSet()
	assert.Equal(t, 5, set.Count())
	assert.Equal(t, 3, set.UserCount())
	assert.Equal(t, 4, set.ItemCount())
	assert.Equal(t, 3.6, set.GlobalMean)
	assert.Equal(t, []int{1, 2, 3}, set.UserIds())
	assert.Equal(t, []int{10, 11, 12, 13}, set.ItemIds())
	// rating lists are sorted by dense index
	userIndex, err := set.ToInnerUserId(1)
	assert.NoError(t, err)
	assert.Equal(t, []IdRating{{0, 5}, {1, 4}}, set.UserRatings[userIndex])
	itemIndex, err := set.ToInnerItemId(10)
	assert.NoError(t, err)
	assert.Equal(t, []IdRating{{0, 5}, {1, 3}}, set.ItemRatings[itemIndex])
	// raw id round trip
	for _, userId := range set.UserIds() {
		index, err := set.ToInnerUserId(userId)
		assert.NoError(t, err)
		assert.Equal(t, userId, set.ToRawUserId(index))
	}
	// cold start
	_, err = set.ToInnerUserId(42)
	assert.True(t, errors.IsNotFound(err))
	_, err = set.ToInnerItemId(42)
	assert.True(t, errors.IsNotFound(err))
}

func TestUserAntiTestSet(t *testing.T) {
	set := newTestSet()
	assert.Equal(t, []Rating{
		{1, 12, 3.6},
		{1, 13, 3.6},
	}, set.UserAntiTestSet(1))
	assert.Equal(t, []Rating{
		{2, 11, 3.6},
		{2, 12, 3.6},
		{2, 13, 3.6},
	}, set.UserAntiTestSet(2))
	assert.Nil(t, set.UserAntiTestSet(42))
}

func TestAntiTestSet(t *testing.T) {
	set := newTestSet()
	// rated and unrated pairs partition users x books
	triples := make(map[[2]int]bool)
	it := set.AntiTestSet(set.UserIds())
	for {
		triple, ok := it.Next()
		if !ok {
			break
		}
		assert.Equal(t, 3.6, triple.Rating)
		triples[[2]int{triple.UserId, triple.BookId}] = true
	}
	assert.Equal(t, 3*4-5, len(triples))
	for i := range set.FeedbackRatings {
		userId := set.ToRawUserId(set.FeedbackUsers[i])
		bookId := set.ToRawItemId(set.FeedbackItems[i])
		assert.False(t, triples[[2]int{userId, bookId}])
	}
	// unknown users are skipped
	it = set.AntiTestSet([]int{42})
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestAntiTestIteratorNextUser(t *testing.T) {
	set := newTestSet()
	it := set.AntiTestSet([]int{2, 42, 1})
	triples, ok := it.NextUser()
	assert.True(t, ok)
	assert.Equal(t, 3, len(triples))
	triples, ok = it.NextUser()
	assert.True(t, ok)
	assert.Equal(t, 2, len(triples))
	_, ok = it.NextUser()
	assert.False(t, ok)
}

func TestLoadRatingsCSV(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ratings.csv")
	assert.NoError(t, os.WriteFile(fileName, []byte("book_id,user_id,rating\n10,1,5\n11,1,4.5\n"), 0644))
	dataset, err := LoadRatingsCSV(fileName)
	assert.NoError(t, err)
	assert.Equal(t, []Rating{{1, 10, 5}, {1, 11, 4.5}}, dataset.Ratings)
}

func TestLoadRatingsCSVMissingColumn(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ratings.csv")
	assert.NoError(t, os.WriteFile(fileName, []byte("user_id,book_id\n1,10\n"), 0644))
	_, err := LoadRatingsCSV(fileName)
	assert.Error(t, err)
	assert.True(t, errors.IsNotValid(err))
}

func TestLoadPairsCSV(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "to_read.csv")
	assert.NoError(t, os.WriteFile(fileName, []byte("user_id,book_id\n1,10\n2,11\n"), 0644))
	pairs, err := LoadPairsCSV(fileName)
	assert.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 10}, {2, 11}}, pairs)
}

func TestSaveRatingsCSV(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ratings.csv")
	dataset := &DataSet{Ratings: []Rating{{1, 10, 5}, {2, 11, 3.5}}}
	assert.NoError(t, SaveRatingsCSV(fileName, dataset))
	loaded, err := LoadRatingsCSV(fileName)
	assert.NoError(t, err)
	assert.Equal(t, dataset.Ratings, loaded.Ratings)
}
