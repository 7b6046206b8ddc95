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
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat"
)

// SimilarResult is one similar-books evaluation row: a prediction file
// scored at one recommendation count against the similar-books truth.
type SimilarResult struct {
	Model       string
	N           int
	Precision   float64
	Recall      float64
	CorrectHits int
}

// EvaluateSimilar scores similar-book lists against ground truth lists. Per
// predicted book, the first n similar books are taken; precision and recall
// are averaged over the predicted books while correct hits are summed. A
// predicted book absent from the truth scores zero.
func EvaluateSimilar(predictions, truth map[int][]int, n int) (precision, recall float64, correctHits int) {
	if len(predictions) == 0 {
		return 0, 0, 0
	}
	books := make([]int, 0, len(predictions))
	for book := range predictions {
		books = append(books, book)
	}
	sort.Ints(books)
	precisions := make([]float64, 0, len(books))
	recalls := make([]float64, 0, len(books))
	for _, book := range books {
		similar := predictions[book]
		if n < len(similar) {
			similar = similar[:n]
		}
		precisions = append(precisions, Precision(similar, truth[book]))
		recalls = append(recalls, Recall(similar, truth[book]))
		correctHits += mapset.NewThreadUnsafeSet(similar...).
			Intersect(mapset.NewThreadUnsafeSet(truth[book]...)).Cardinality()
	}
	return stat.Mean(precisions, nil), stat.Mean(recalls, nil), correctHits
}

// LoadSimilarCSV loads a similar-books file, a headed CSV with the book_id
// and similar_book_id columns, into per-book lists keeping the row order.
// Both prediction files and the ground truth use this format.
func LoadSimilarCSV(fileName string) (map[int][]int, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Annotatef(err, "read header of %s", fileName)
	}
	columns := make(map[string]int)
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range []string{"book_id", "similar_book_id"} {
		if _, exist := columns[name]; !exist {
			return nil, errors.NotValidf("%s: missing column %q", fileName, name)
		}
	}
	similar := make(map[int][]int)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		bookId, err := strconv.Atoi(row[columns["book_id"]])
		if err != nil {
			return nil, errors.Trace(err)
		}
		similarId, err := strconv.Atoi(row[columns["similar_book_id"]])
		if err != nil {
			return nil, errors.Trace(err)
		}
		similar[bookId] = append(similar[bookId], similarId)
	}
	return similar, nil
}

// WriteSimilarResultsCSV appends similar-books evaluation rows to a CSV
// file, writing the header only when the file starts empty.
func WriteSimilarResultsCSV(fileName string, results []SimilarResult) error {
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return errors.Trace(err)
	}
	writer := csv.NewWriter(file)
	if offset == 0 {
		header := []string{"model", "n", "precision", "recall", "correct_hits"}
		if err := writer.Write(header); err != nil {
			return errors.Trace(err)
		}
	}
	for _, result := range results {
		row := []string{
			result.Model,
			strconv.Itoa(result.N),
			formatScore(result.Precision),
			formatScore(result.Recall),
			strconv.Itoa(result.CorrectHits),
		}
		if err := writer.Write(row); err != nil {
			return errors.Trace(err)
		}
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}
