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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveLoadContentModel(t *testing.T) {
	model := NewContentModel(NewTfIdfAnalyzer(2))
	assert.NoError(t, model.Fit(testBooks))
	fileName := filepath.Join(t.TempDir(), "cb-model.gob")
	assert.NoError(t, SaveContentModel(fileName, model))
	loaded, err := LoadContentModel(fileName)
	assert.NoError(t, err)
	assert.Equal(t, model.Books(), loaded.Books())
	// the loaded model recommends without its analyzer
	for _, book := range testBooks {
		want, err := model.Recommend(book.Id, 2)
		assert.NoError(t, err)
		got, err := loaded.Recommend(book.Id, 2)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSaveUntrainedContentModel(t *testing.T) {
	model := NewContentModel(NewTfIdfAnalyzer(1))
	err := SaveContentModel(filepath.Join(t.TempDir(), "cb-model.gob"), model)
	assert.ErrorIs(t, err, ErrUntrained)
}

func TestLoadInvalidContentModel(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "cb-model.gob")
	assert.NoError(t, os.WriteFile(fileName, []byte("not a model"), 0644))
	_, err := LoadContentModel(fileName)
	assert.ErrorIs(t, err, ErrInvalidModel)
}
