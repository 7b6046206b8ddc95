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

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestLoadBooksCSV(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "books.csv")
	assert.NoError(t, os.WriteFile(fileName,
		[]byte("book_id,title,description\n10,Dune,\"spice, sand and worms\"\n11,Neuromancer,console cowboys\n"), 0644))
	books, err := LoadBooksCSV(fileName)
	assert.NoError(t, err)
	assert.Equal(t, []Book{
		{Id: 10, Title: "Dune", Description: "spice, sand and worms"},
		{Id: 11, Title: "Neuromancer", Description: "console cowboys"},
	}, books)
}

func TestLoadBooksCSVWithoutTitle(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "books.csv")
	assert.NoError(t, os.WriteFile(fileName, []byte("book_id,description\n10,sand worms\n"), 0644))
	books, err := LoadBooksCSV(fileName)
	assert.NoError(t, err)
	assert.Equal(t, []Book{{Id: 10, Description: "sand worms"}}, books)
}

func TestLoadBooksCSVMissingColumn(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "books.csv")
	assert.NoError(t, os.WriteFile(fileName, []byte("book_id,title\n10,Dune\n"), 0644))
	_, err := LoadBooksCSV(fileName)
	assert.True(t, errors.IsNotValid(err))
}

func TestLoadTagFeaturesCSV(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "tags.csv")
	assert.NoError(t, os.WriteFile(fileName, []byte("fantasy,book_id,scifi\n3,10,0\n0,11,5\n"), 0644))
	features, err := LoadTagFeaturesCSV(fileName)
	assert.NoError(t, err)
	assert.Equal(t, []string{"fantasy", "scifi"}, features.Tags)
	assert.Equal(t, []float32{3, 0}, features.Rows[10])
	assert.Equal(t, []float32{0, 5}, features.Rows[11])
}

func TestLoadTagFeaturesCSVMissingId(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "tags.csv")
	assert.NoError(t, os.WriteFile(fileName, []byte("fantasy,scifi\n3,0\n"), 0644))
	_, err := LoadTagFeaturesCSV(fileName)
	assert.True(t, errors.IsNotValid(err))
}
