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
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bookend-io/bookend/model"
	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat"
)

// Result is one evaluation row: a prediction file scored at one
// recommendation count against both ground truths.
type Result struct {
	Model           string
	N               int
	PrecisionToRead float64
	PrecisionTest   float64
	RecallToRead    float64
	RecallTest      float64
	NDCGToRead      float64
	NDCGTest        float64
}

// EvaluateBinaryTruth scores predictions against binary "would read" ground
// truth pairs. Per truth user, the first n predicted books are taken;
// metrics are averaged over the truth users. A truth user without
// predictions scores zero.
func EvaluateBinaryTruth(predictions []model.Prediction, truth [][2]int,
	threshold float64, n int) (precision, recall, ndcg float64) {
	recommended := groupPredictions(predictions)
	truthByUser := make(map[int][]int)
	var users []int
	for _, pair := range truth {
		if _, seen := truthByUser[pair[0]]; !seen {
			users = append(users, pair[0])
		}
		truthByUser[pair[0]] = append(truthByUser[pair[0]], pair[1])
	}
	if len(users) == 0 {
		return 0, 0, 0
	}
	precisions := make([]float64, 0, len(users))
	recalls := make([]float64, 0, len(users))
	ndcgs := make([]float64, 0, len(users))
	for _, user := range users {
		recs := headN(recommended[user], n)
		ids := recommendationIds(recs)
		predictedRel, idealRel := BinaryRelevance(ids, truthByUser[user])
		precisions = append(precisions, PrecisionThresholded(recs, truthByUser[user], threshold))
		recalls = append(recalls, RecallThresholded(recs, truthByUser[user], threshold))
		ndcgs = append(ndcgs, NDCG(predictedRel, idealRel))
	}
	return stat.Mean(precisions, nil), stat.Mean(recalls, nil), stat.Mean(ndcgs, nil)
}

// EvaluateScaledTruth scores predictions against a held-out rating set. Per
// truth user, the first n predicted books are taken; metrics are averaged
// over the truth users. A truth user without predictions scores zero.
func EvaluateScaledTruth(predictions []model.Prediction, truth []model.Rating,
	threshold float64, n int) (precision, recall, ndcg float64) {
	recommended := groupPredictions(predictions)
	truthByUser := make(map[int]map[int]float64)
	var users []int
	for _, rating := range truth {
		if _, seen := truthByUser[rating.UserId]; !seen {
			users = append(users, rating.UserId)
			truthByUser[rating.UserId] = make(map[int]float64)
		}
		truthByUser[rating.UserId][rating.BookId] = rating.Rating
	}
	if len(users) == 0 {
		return 0, 0, 0
	}
	precisions := make([]float64, 0, len(users))
	recalls := make([]float64, 0, len(users))
	ndcgs := make([]float64, 0, len(users))
	for _, user := range users {
		recs := headN(recommended[user], n)
		ids := recommendationIds(recs)
		truthIds := make([]int, 0, len(truthByUser[user]))
		for id := range truthByUser[user] {
			truthIds = append(truthIds, id)
		}
		predictedRel, idealRel := ScaledRelevance(ids, truthByUser[user])
		precisions = append(precisions, PrecisionThresholded(recs, truthIds, threshold))
		recalls = append(recalls, RecallThresholded(recs, truthIds, threshold))
		ndcgs = append(ndcgs, NDCG(predictedRel, idealRel))
	}
	return stat.Mean(precisions, nil), stat.Mean(recalls, nil), stat.Mean(ndcgs, nil)
}

func groupPredictions(predictions []model.Prediction) map[int][]Recommendation {
	grouped := make(map[int][]Recommendation)
	for _, p := range predictions {
		grouped[p.UserId] = append(grouped[p.UserId], Recommendation{BookId: p.BookId, Est: p.Est})
	}
	return grouped
}

func headN(recs []Recommendation, n int) []Recommendation {
	if n < len(recs) {
		return recs[:n]
	}
	return recs
}

func recommendationIds(recs []Recommendation) []int {
	ids := make([]int, len(recs))
	for i, r := range recs {
		ids[i] = r.BookId
	}
	return ids
}

// LoadPredictionsCSV loads a prediction file written by the predict command,
// a headed CSV with the user_id, book_id and est columns.
func LoadPredictionsCSV(fileName string) ([]model.Prediction, error) {
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
	for _, name := range []string{"user_id", "book_id", "est"} {
		if _, exist := columns[name]; !exist {
			return nil, errors.NotValidf("%s: missing column %q", fileName, name)
		}
	}
	var predictions []model.Prediction
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		userId, err := strconv.Atoi(row[columns["user_id"]])
		if err != nil {
			return nil, errors.Trace(err)
		}
		bookId, err := strconv.Atoi(row[columns["book_id"]])
		if err != nil {
			return nil, errors.Trace(err)
		}
		est, err := strconv.ParseFloat(row[columns["est"]], 64)
		if err != nil {
			return nil, errors.Trace(err)
		}
		predictions = append(predictions, model.Prediction{UserId: userId, BookId: bookId, Est: est})
	}
	return predictions, nil
}

// WriteResultsCSV appends evaluation rows to a CSV file, writing the header
// only when the file starts empty.
func WriteResultsCSV(fileName string, results []Result) error {
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
		header := []string{"model", "n", "precision-to_read", "precision-testset",
			"recall-to_read", "recall-testset", "ndcg-to_read", "ndcg-testset"}
		if err := writer.Write(header); err != nil {
			return errors.Trace(err)
		}
	}
	for _, result := range results {
		row := []string{
			result.Model,
			strconv.Itoa(result.N),
			formatScore(result.PrecisionToRead),
			formatScore(result.PrecisionTest),
			formatScore(result.RecallToRead),
			formatScore(result.RecallTest),
			formatScore(result.NDCGToRead),
			formatScore(result.NDCGTest),
		}
		if err := writer.Write(row); err != nil {
			return errors.Trace(err)
		}
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.6f", score)
}
