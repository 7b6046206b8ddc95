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

package recommend

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/bookend-io/bookend/model"
	"github.com/juju/errors"
)

// WritePredictionsCSV writes predictions as a headed CSV file with the
// user_id, book_id and est columns, one row per recommended pair.
func WritePredictionsCSV(fileName string, predictions []model.Prediction) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"user_id", "book_id", "est"}); err != nil {
		return errors.Trace(err)
	}
	for _, p := range predictions {
		row := []string{
			strconv.Itoa(p.UserId),
			strconv.Itoa(p.BookId),
			strconv.FormatFloat(p.Est, 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return errors.Trace(err)
		}
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}

// WriteSimilarCSV writes similar-book lists as a headed CSV file with the
// book_id and similar_book_id columns, closest first per book.
func WriteSimilarCSV(fileName string, results []SimilarBooks) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"book_id", "similar_book_id"}); err != nil {
		return errors.Trace(err)
	}
	for _, result := range results {
		for _, similar := range result.Similar {
			row := []string{strconv.Itoa(result.BookId), strconv.Itoa(similar.BookId)}
			if err := writer.Write(row); err != nil {
				return errors.Trace(err)
			}
		}
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}
