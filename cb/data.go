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
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/juju/errors"
)

// Book is a book record with the text content the analyzers work on.
type Book struct {
	Id          int
	Title       string
	Description string
}

// LoadBooksCSV loads books from a CSV file with a header line containing the
// book_id and description columns. A title column is kept when present.
func LoadBooksCSV(fileName string) ([]Book, error) {
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
	for _, name := range []string{"book_id", "description"} {
		if _, exist := columns[name]; !exist {
			return nil, errors.NotValidf("%s: missing column %q", fileName, name)
		}
	}
	var books []Book
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
		book := Book{Id: bookId, Description: row[columns["description"]]}
		if index, exist := columns["title"]; exist {
			book.Title = row[index]
		}
		books = append(books, book)
	}
	return books, nil
}

// TagFeatures is a per-book tag count matrix loaded from a CSV file: one
// book_id column and one column per tag name. All books share the tag
// vocabulary, so the rows have a fixed dimensionality.
type TagFeatures struct {
	Tags []string
	Rows map[int][]float32
}

// LoadTagFeaturesCSV loads a tag feature matrix.
func LoadTagFeaturesCSV(fileName string) (*TagFeatures, error) {
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
	idColumn := -1
	for i, name := range header {
		if name == "book_id" {
			idColumn = i
			break
		}
	}
	if idColumn < 0 {
		return nil, errors.NotValidf("%s: missing column %q", fileName, "book_id")
	}
	features := &TagFeatures{Rows: make(map[int][]float32)}
	for i, name := range header {
		if i != idColumn {
			features.Tags = append(features.Tags, name)
		}
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		bookId, err := strconv.Atoi(row[idColumn])
		if err != nil {
			return nil, errors.Trace(err)
		}
		vector := make([]float32, 0, len(features.Tags))
		for i, cell := range row {
			if i == idColumn {
				continue
			}
			value, err := strconv.ParseFloat(cell, 32)
			if err != nil {
				return nil, errors.Trace(err)
			}
			vector = append(vector, float32(value))
		}
		features.Rows[bookId] = vector
	}
	return features, nil
}
