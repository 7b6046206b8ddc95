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
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/bits-and-blooms/bitset"
	"github.com/bookend-io/bookend/base"
	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat"
)

// Rating is an observed (user, book, rating) triple. It doubles as the
// antitest triple, where Rating holds the global-mean placeholder.
type Rating struct {
	UserId int
	BookId int
	Rating float64
}

// DataSet is a list of raw ratings, the unit of loading and splitting.
type DataSet struct {
	Ratings []Rating
}

// Count returns the number of ratings.
func (dataset *DataSet) Count() int {
	return len(dataset.Ratings)
}

// Mean returns the mean rating.
func (dataset *DataSet) Mean() float64 {
	ratings := make([]float64, len(dataset.Ratings))
	for i, r := range dataset.Ratings {
		ratings[i] = r.Rating
	}
	return stat.Mean(ratings, nil)
}

// The rating scale of the input data.
const (
	DefaultRatingLow  = 1.0
	DefaultRatingHigh = 5.0
)

// IdRating is a (dense index, rating) pair inside a user's or an item's
// rating list.
type IdRating struct {
	Id     int32
	Rating float64
}

// TrainSet is a data set mapped into a dense index space, immutable once
// built. Index assignment follows first-seen order, so a train set is
// deterministic given the input order.
type TrainSet struct {
	UserIndex *base.Index
	ItemIndex *base.Index
	// observed feedback in input order, by dense indices
	FeedbackUsers   []int32
	FeedbackItems   []int32
	FeedbackRatings []float64
	// per dense user/item rating lists, ascending by index
	UserRatings [][]IdRating
	ItemRatings [][]IdRating
	GlobalMean  float64
	RatingLow   float64
	RatingHigh  float64
}

// NewTrainSet creates a train set from a raw data set.
func NewTrainSet(dataset *DataSet) *TrainSet {
	set := new(TrainSet)
	set.UserIndex = base.NewIndex()
	set.ItemIndex = base.NewIndex()
	set.RatingLow = DefaultRatingLow
	set.RatingHigh = DefaultRatingHigh
	set.FeedbackUsers = make([]int32, 0, dataset.Count())
	set.FeedbackItems = make([]int32, 0, dataset.Count())
	set.FeedbackRatings = make([]float64, 0, dataset.Count())
	for _, rating := range dataset.Ratings {
		set.UserIndex.Add(rating.UserId)
		set.ItemIndex.Add(rating.BookId)
		set.FeedbackUsers = append(set.FeedbackUsers, set.UserIndex.ToNumber(rating.UserId))
		set.FeedbackItems = append(set.FeedbackItems, set.ItemIndex.ToNumber(rating.BookId))
		set.FeedbackRatings = append(set.FeedbackRatings, rating.Rating)
	}
	set.GlobalMean = stat.Mean(set.FeedbackRatings, nil)
	// build user-based and item-based rating lists
	set.UserRatings = make([][]IdRating, set.UserCount())
	set.ItemRatings = make([][]IdRating, set.ItemCount())
	for i := range set.FeedbackRatings {
		userIndex := set.FeedbackUsers[i]
		itemIndex := set.FeedbackItems[i]
		rating := set.FeedbackRatings[i]
		set.UserRatings[userIndex] = append(set.UserRatings[userIndex], IdRating{itemIndex, rating})
		set.ItemRatings[itemIndex] = append(set.ItemRatings[itemIndex], IdRating{userIndex, rating})
	}
	// ascending index order enables merge-style intersections
	for _, ratings := range set.UserRatings {
		sort.Slice(ratings, func(i, j int) bool { return ratings[i].Id < ratings[j].Id })
	}
	for _, ratings := range set.ItemRatings {
		sort.Slice(ratings, func(i, j int) bool { return ratings[i].Id < ratings[j].Id })
	}
	return set
}

// Count returns the number of observed ratings.
func (set *TrainSet) Count() int {
	return len(set.FeedbackRatings)
}

// UserCount returns the number of distinct users.
func (set *TrainSet) UserCount() int {
	return int(set.UserIndex.Len())
}

// ItemCount returns the number of distinct books.
func (set *TrainSet) ItemCount() int {
	return int(set.ItemIndex.Len())
}

// ToInnerUserId converts a raw user id to a dense index. Unseen ids fail
// with a not-found error (cold start).
func (set *TrainSet) ToInnerUserId(userId int) (int32, error) {
	if index := set.UserIndex.ToNumber(userId); index != base.NotId {
		return index, nil
	}
	return base.NotId, errors.NotFoundf("user %d", userId)
}

// ToInnerItemId converts a raw book id to a dense index. Unseen ids fail
// with a not-found error (cold start).
func (set *TrainSet) ToInnerItemId(bookId int) (int32, error) {
	if index := set.ItemIndex.ToNumber(bookId); index != base.NotId {
		return index, nil
	}
	return base.NotId, errors.NotFoundf("book %d", bookId)
}

// ToRawUserId converts a dense index to a raw user id.
func (set *TrainSet) ToRawUserId(index int32) int {
	return set.UserIndex.ToId(index)
}

// ToRawItemId converts a dense index to a raw book id.
func (set *TrainSet) ToRawItemId(index int32) int {
	return set.ItemIndex.ToId(index)
}

// UserIds returns all raw user ids in index assignment order.
func (set *TrainSet) UserIds() []int {
	return set.UserIndex.GetIds()
}

// ItemIds returns all raw book ids in index assignment order.
func (set *TrainSet) ItemIds() []int {
	return set.ItemIndex.GetIds()
}

// UserAntiTestSet returns every (user, book, global mean) triple such that
// the book is known to the train set but the user has not rated it, in
// ascending dense item index order. An unknown user yields no triples.
func (set *TrainSet) UserAntiTestSet(userId int) []Rating {
	userIndex := set.UserIndex.ToNumber(userId)
	if userIndex == base.NotId {
		return nil
	}
	rated := bitset.New(uint(set.ItemCount()))
	for _, ir := range set.UserRatings[userIndex] {
		rated.Set(uint(ir.Id))
	}
	triples := make([]Rating, 0, set.ItemCount()-len(set.UserRatings[userIndex]))
	for itemIndex := int32(0); itemIndex < int32(set.ItemCount()); itemIndex++ {
		if !rated.Test(uint(itemIndex)) {
			triples = append(triples, Rating{
				UserId: userId,
				BookId: set.ToRawItemId(itemIndex),
				Rating: set.GlobalMean,
			})
		}
	}
	return triples
}

// AntiTestSet returns a lazy iterator over the antitest triples of the given
// users. The cross product of users and books is never materialized: triples
// are produced one user at a time. Unknown users are skipped.
func (set *TrainSet) AntiTestSet(users []int) *AntiTestIterator {
	return &AntiTestIterator{set: set, users: users}
}

// AntiTestIterator streams antitest triples. Each call to AntiTestSet starts
// a fresh iterator, so generation is restartable per call.
type AntiTestIterator struct {
	set    *TrainSet
	users  []int
	cursor int
	buffer []Rating
	offset int
}

// NextUser returns the full candidate list of the next user. The second
// return value is false when the users are exhausted.
func (it *AntiTestIterator) NextUser() ([]Rating, bool) {
	for it.cursor < len(it.users) {
		triples := it.set.UserAntiTestSet(it.users[it.cursor])
		it.cursor++
		if triples != nil {
			return triples, true
		}
	}
	return nil, false
}

// Next returns the next antitest triple. The second return value is false
// when the stream is exhausted.
func (it *AntiTestIterator) Next() (Rating, bool) {
	for it.offset >= len(it.buffer) {
		buffer, ok := it.NextUser()
		if !ok {
			return Rating{}, false
		}
		it.buffer = buffer
		it.offset = 0
	}
	triple := it.buffer[it.offset]
	it.offset++
	return triple, true
}

/* Loaders */

// LoadRatingsCSV loads ratings from a CSV file with a header line containing
// the user_id, book_id and rating columns. Missing columns fail with a
// descriptive error; there is no partial-row recovery.
func LoadRatingsCSV(fileName string) (*DataSet, error) {
	rows, columns, err := readCSV(fileName, []string{"user_id", "book_id", "rating"})
	if err != nil {
		return nil, errors.Trace(err)
	}
	dataset := new(DataSet)
	dataset.Ratings = make([]Rating, 0, len(rows))
	for _, row := range rows {
		userId, err := strconv.Atoi(row[columns["user_id"]])
		if err != nil {
			return nil, errors.Trace(err)
		}
		bookId, err := strconv.Atoi(row[columns["book_id"]])
		if err != nil {
			return nil, errors.Trace(err)
		}
		rating, err := strconv.ParseFloat(row[columns["rating"]], 64)
		if err != nil {
			return nil, errors.Trace(err)
		}
		dataset.Ratings = append(dataset.Ratings, Rating{userId, bookId, rating})
	}
	return dataset, nil
}

// LoadPairsCSV loads (user_id, book_id) pairs from a CSV file with a header
// line. Used for binary "would read" ground truth.
func LoadPairsCSV(fileName string) ([][2]int, error) {
	rows, columns, err := readCSV(fileName, []string{"user_id", "book_id"})
	if err != nil {
		return nil, errors.Trace(err)
	}
	pairs := make([][2]int, 0, len(rows))
	for _, row := range rows {
		userId, err := strconv.Atoi(row[columns["user_id"]])
		if err != nil {
			return nil, errors.Trace(err)
		}
		bookId, err := strconv.Atoi(row[columns["book_id"]])
		if err != nil {
			return nil, errors.Trace(err)
		}
		pairs = append(pairs, [2]int{userId, bookId})
	}
	return pairs, nil
}

// writeRatingsCSV writes rating triples as a headed CSV file.
func writeRatingsCSV(fileName string, ratings []Rating, withRating bool) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	header := []string{"user_id", "book_id"}
	if withRating {
		header = append(header, "rating")
	}
	if err := writer.Write(header); err != nil {
		return errors.Trace(err)
	}
	for _, rating := range ratings {
		row := []string{strconv.Itoa(rating.UserId), strconv.Itoa(rating.BookId)}
		if withRating {
			row = append(row, strconv.FormatFloat(rating.Rating, 'g', -1, 64))
		}
		if err := writer.Write(row); err != nil {
			return errors.Trace(err)
		}
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}

// readCSV reads all records of a headed CSV file and locates the required
// columns.
func readCSV(fileName string, required []string) ([][]string, map[string]int, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, errors.Annotatef(err, "read header of %s", fileName)
	}
	columns := make(map[string]int)
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range required {
		if _, exist := columns[name]; !exist {
			return nil, nil, errors.NotValidf("%s: missing column %q", fileName, name)
		}
	}
	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, errors.Trace(err)
		}
		rows = append(rows, row)
	}
	return rows, columns, nil
}
