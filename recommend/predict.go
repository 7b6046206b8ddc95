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

// Package recommend drives batch top-N prediction over every user of a
// train set without materializing the full user-item cross product.
package recommend

import (
	"sort"

	"github.com/bookend-io/bookend/base/log"
	"github.com/bookend-io/bookend/base/parallel"
	"github.com/bookend-io/bookend/model"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// DefaultBatchSize bounds the number of candidate triples scored at once.
const DefaultBatchSize = 100000

// Predict computes the top n recommendations for every user of the train set
// the model is bound to. The user list is partitioned into chunksCount
// round-robin chunks, one worker per chunk; within a chunk the antitest set
// is streamed into batches of at most batchSize triples, aligned to user
// boundaries so the per-user top n is exact for any batch size. The merged
// result is sorted by user id, ties kept in production order. Any worker
// error fails the whole run with no partial result.
func Predict(m model.Model, n, chunksCount, batchSize int) ([]model.Prediction, error) {
	set := model.GetTrainSet(m)
	if set == nil {
		return nil, errors.Trace(model.ErrUntrained)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	users := set.UserIds()
	if chunksCount < 1 {
		chunksCount = 1
	} else if chunksCount > len(users) {
		chunksCount = len(users)
	}
	log.Logger().Info("predict top-N",
		zap.Int("n", n),
		zap.Int("n_users", len(users)),
		zap.Int("chunks_count", chunksCount),
		zap.Int("batch_size", batchSize))
	chunks := parallel.Interleave(users, chunksCount)
	bar := progressbar.Default(int64(len(users)), "predict")
	scored := atomic.NewInt64(0)
	results := make([][]model.Prediction, chunksCount)
	if err := parallel.Parallel(chunksCount, chunksCount, func(_, c int) error {
		result, err := predictChunk(m, set, chunks[c], n, batchSize, bar, scored)
		if err != nil {
			return errors.Trace(err)
		}
		results[c] = result
		return nil
	}); err != nil {
		return nil, errors.Trace(err)
	}
	predictions := lo.Flatten(results)
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].UserId < predictions[j].UserId
	})
	log.Logger().Info("predict complete",
		zap.Int("n_predictions", len(predictions)),
		zap.Int64("n_scored", scored.Load()))
	return predictions, nil
}

// predictChunk scores one chunk of users. Batches never split a user, so a
// single oversized user still forms one batch of its own.
func predictChunk(m model.Model, set *model.TrainSet, users []int, n, batchSize int,
	bar *progressbar.ProgressBar, scored *atomic.Int64) ([]model.Prediction, error) {
	var result []model.Prediction
	var batch []model.Rating
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		predictions, err := m.Test(batch)
		if err != nil {
			return errors.Trace(err)
		}
		scored.Add(int64(len(predictions)))
		result = append(result, topNPerUser(predictions, n)...)
		batch = batch[:0]
		return nil
	}
	iterator := set.AntiTestSet(users)
	for {
		candidates, ok := iterator.NextUser()
		if !ok {
			break
		}
		if len(batch) > 0 && len(batch)+len(candidates) > batchSize {
			if err := flush(); err != nil {
				return nil, errors.Trace(err)
			}
		}
		batch = append(batch, candidates...)
		_ = bar.Add(1)
	}
	if err := flush(); err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}

// topNPerUser groups a batch of predictions by user and keeps the top n of
// each user by estimate, descending, ties broken by candidate order. Users
// are consecutive within a batch.
func topNPerUser(predictions []model.Prediction, n int) []model.Prediction {
	var result []model.Prediction
	for begin := 0; begin < len(predictions); {
		end := begin
		for end < len(predictions) && predictions[end].UserId == predictions[begin].UserId {
			end++
		}
		user := make([]model.Prediction, end-begin)
		copy(user, predictions[begin:end])
		sort.SliceStable(user, func(i, j int) bool {
			return user[i].Est > user[j].Est
		})
		if n < len(user) {
			user = user[:n]
		}
		result = append(result, user...)
		begin = end
	}
	return result
}
