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

package base

// Index manages the map between raw ids and dense indices. A raw id is a
// user id or book id from the input data. The dense index is the internal
// user index or item index optimized for faster parameter access and less
// memory usage. Indices are assigned in first-seen order.
type Index struct {
	Numbers map[int]int32 // raw id -> dense index
	Ids     []int         // dense index -> raw id
}

// NotId represents an id that doesn't exist.
const NotId = int32(-1)

// NewIndex creates an Index.
func NewIndex() *Index {
	index := new(Index)
	index.Numbers = make(map[int]int32)
	index.Ids = make([]int, 0)
	return index
}

// Len returns the number of indexed ids.
func (idx *Index) Len() int32 {
	if idx == nil {
		return 0
	}
	return int32(len(idx.Ids))
}

// Add adds a new raw id to the indexer.
func (idx *Index) Add(id int) {
	if _, exist := idx.Numbers[id]; !exist {
		idx.Numbers[id] = int32(len(idx.Ids))
		idx.Ids = append(idx.Ids, id)
	}
}

// ToNumber converts a raw id to a dense index. NotId is returned for
// unknown ids.
func (idx *Index) ToNumber(id int) int32 {
	if denseId, exist := idx.Numbers[id]; exist {
		return denseId
	}
	return NotId
}

// ToId converts a dense index to a raw id.
func (idx *Index) ToId(index int32) int {
	return idx.Ids[index]
}

// GetIds returns all ids in current index, in assignment order.
func (idx *Index) GetIds() []int {
	return idx.Ids
}
