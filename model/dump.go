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
	"encoding/gob"
	"os"

	"github.com/juju/errors"
)

// ErrInvalidModel is returned when a model file cannot be decoded.
var ErrInvalidModel = errors.New("invalid model file")

func init() {
	gob.Register(&SVD{})
	gob.Register(&KNNBaseline{})
	gob.Register(&SlopeOne{})
	gob.Register(&Dummy{})
}

// Save dumps a fitted model to a file. The train set the model is bound to
// is saved with it, so a loaded model can recommend without refitting.
func Save(fileName string, m Model) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(&m); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Load restores a model dumped by Save. A file that does not decode to a
// known model fails with ErrInvalidModel.
func Load(fileName string) (Model, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	decoder := gob.NewDecoder(file)
	var m Model
	if err := decoder.Decode(&m); err != nil {
		return nil, errors.Annotatef(ErrInvalidModel, "decode %s: %v", fileName, err)
	}
	return m, nil
}
