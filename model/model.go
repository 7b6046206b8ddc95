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
	"sort"
	"time"

	"github.com/bookend-io/bookend/base"
	"github.com/juju/errors"
)

// ErrUntrained is returned when Test or Recommend is called on a model that
// has not been fitted yet.
var ErrUntrained = errors.New("model is used before training")

// Prediction is a rating predicted for a (user, book) pair. Rating carries
// the input rating: the ground truth when testing against a held-out set, or
// the global-mean placeholder when the pair comes from an antitest set. The
// placeholder must never feed accuracy metrics.
type Prediction struct {
	UserId int
	BookId int
	Rating float64
	Est    float64
}

// Score is a scored book: the estimated rating for collaborative filtering
// recommendations. Results are returned as ordered slices since Go maps have
// no iteration order.
type Score struct {
	BookId int     `json:"book_id"`
	Score  float64 `json:"score"`
}

// Model is an algorithm interface to predict ratings. Any estimator in this
// package implements it.
type Model interface {
	// Fit a model with a train set and parameters.
	Fit(trainSet *TrainSet, params Params)
	// Test the model on (user, book, rating) triples. Estimates are clipped
	// to the rating scale of the train set.
	Test(ratings []Rating) ([]Prediction, error)
	// Recommend the top n unrated books for a user, best first. An unknown
	// user yields an empty result, not an error.
	Recommend(userId, n int) ([]Score, error)
}

// Model names accepted by NewModel.
const (
	TypeSVD      = "svd"
	TypeKNN      = "knn"
	TypeSlopeOne = "slopeone"
	TypeDummy    = "dummy"
)

// NewModel creates a model by name. The set of names is closed: an unknown
// name fails at construction time.
func NewModel(name string) (Model, error) {
	switch name {
	case TypeSVD:
		return NewSVD(), nil
	case TypeKNN:
		return NewKNNBaseline(), nil
	case TypeSlopeOne:
		return NewSlopeOne(), nil
	case TypeDummy:
		return NewDummy(), nil
	}
	return nil, errors.NotValidf("model name %q", name)
}

// Params for an algorithm. Given by:
//
//	model.Params{
//	    "<parameter name 1>": <parameter value 1>,
//	    "<parameter name 2>": <parameter value 2>,
//	}
type Params map[string]interface{}

// Copy parameters.
func (params Params) Copy() Params {
	newParams := make(Params)
	for k, v := range params {
		newParams[k] = v
	}
	return newParams
}

// GetInt gets an integer parameter. Numeric types are coerced since
// configuration files decode integers as int64.
func (params Params) GetInt(name string, _default int) int {
	if val, exist := params[name]; exist {
		switch value := val.(type) {
		case int:
			return value
		case int64:
			return int(value)
		case float64:
			return int(value)
		}
	}
	return _default
}

// GetInt64 gets an int64 parameter.
func (params Params) GetInt64(name string, _default int64) int64 {
	if val, exist := params[name]; exist {
		switch value := val.(type) {
		case int64:
			return value
		case int:
			return int64(value)
		}
	}
	return _default
}

// GetBool gets a bool parameter.
func (params Params) GetBool(name string, _default bool) bool {
	if val, exist := params[name]; exist {
		if value, ok := val.(bool); ok {
			return value
		}
	}
	return _default
}

// GetFloat64 gets a float parameter.
func (params Params) GetFloat64(name string, _default float64) float64 {
	if val, exist := params[name]; exist {
		switch value := val.(type) {
		case float64:
			return value
		case int:
			return float64(value)
		case int64:
			return float64(value)
		}
	}
	return _default
}

// GetString gets a string parameter.
func (params Params) GetString(name string, _default string) string {
	if val, exist := params[name]; exist {
		return val.(string)
	}
	return _default
}

// predictor estimates the rating of a user for a book by raw ids.
type predictor interface {
	Predict(userId, bookId int) float64
}

// BaseModel is the base structure of all estimators. It holds the train set
// the estimator is bound to.
type BaseModel struct {
	Data   *TrainSet
	Params Params
	rng    base.RandomGenerator
}

// Trained reports whether Fit has been called.
func (m *BaseModel) Trained() bool {
	return m.Data != nil
}

func (m *BaseModel) boundTrainSet() *TrainSet {
	return m.Data
}

// GetTrainSet returns the train set a fitted model is bound to, nil for an
// unfitted model.
func GetTrainSet(m Model) *TrainSet {
	type bound interface {
		boundTrainSet() *TrainSet
	}
	if b, ok := m.(bound); ok {
		return b.boundTrainSet()
	}
	return nil
}

func (m *BaseModel) init(trainSet *TrainSet, params Params) {
	m.Data = trainSet
	m.Params = params
	randState := params.GetInt64("randState", time.Now().UnixNano())
	m.rng = base.NewRandomGenerator(randState)
}

// testModel predicts every triple and clips estimates to the rating scale.
func testModel(p predictor, m *BaseModel, ratings []Rating) ([]Prediction, error) {
	if !m.Trained() {
		return nil, errors.Trace(ErrUntrained)
	}
	predictions := make([]Prediction, 0, len(ratings))
	for _, rating := range ratings {
		est := p.Predict(rating.UserId, rating.BookId)
		if est < m.Data.RatingLow {
			est = m.Data.RatingLow
		} else if est > m.Data.RatingHigh {
			est = m.Data.RatingHigh
		}
		predictions = append(predictions, Prediction{
			UserId: rating.UserId,
			BookId: rating.BookId,
			Rating: rating.Rating,
			Est:    est,
		})
	}
	return predictions, nil
}

// recommendModel ranks the user's antitest set by estimated rating and keeps
// the top n, ties broken by candidate order.
func recommendModel(p predictor, m *BaseModel, userId, n int) ([]Score, error) {
	if !m.Trained() {
		return nil, errors.Trace(ErrUntrained)
	}
	if m.Data.UserIndex.ToNumber(userId) == base.NotId {
		// cold start: no recommendations
		return []Score{}, nil
	}
	candidates := m.Data.UserAntiTestSet(userId)
	predictions, err := testModel(p, m, candidates)
	if err != nil {
		return nil, errors.Trace(err)
	}
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Est > predictions[j].Est
	})
	if n < len(predictions) {
		predictions = predictions[:n]
	}
	scores := make([]Score, len(predictions))
	for i, prediction := range predictions {
		scores[i] = Score{BookId: prediction.BookId, Score: prediction.Est}
	}
	return scores, nil
}
