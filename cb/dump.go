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

package cb

import (
	"encoding/gob"
	"os"

	"github.com/juju/errors"
)

// ErrInvalidModel is returned when a content model file cannot be decoded.
var ErrInvalidModel = errors.New("invalid content model file")

type contentModelDump struct {
	Books  []Book
	Matrix [][]float32
}

// SaveContentModel dumps a fitted content model to a file. The analyzer is
// not saved: the fitted feature matrix is all Recommend needs.
func SaveContentModel(fileName string, model *ContentModel) error {
	if model.matrix == nil {
		return errors.Trace(ErrUntrained)
	}
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	encoder := gob.NewEncoder(file)
	dump := contentModelDump{Books: model.books, Matrix: model.matrix}
	if err := encoder.Encode(&dump); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// LoadContentModel restores a content model dumped by SaveContentModel.
func LoadContentModel(fileName string) (*ContentModel, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	decoder := gob.NewDecoder(file)
	var dump contentModelDump
	if err := decoder.Decode(&dump); err != nil {
		return nil, errors.Annotatef(ErrInvalidModel, "decode %s: %v", fileName, err)
	}
	model := new(ContentModel)
	model.setFitted(dump.Books, dump.Matrix)
	return model, nil
}
