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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxHeap(t *testing.T) {
	heap := NewMaxHeap(3)
	scores := []float32{1, 8, 5, 7, 2, 9, 4}
	for elem, score := range scores {
		heap.Add(elem, score)
	}
	elem, score := heap.ToSorted()
	assert.Equal(t, []int{5, 1, 3}, elem)
	assert.Equal(t, []float32{9, 8, 7}, score)
}

func TestMaxHeapUnderflow(t *testing.T) {
	heap := NewMaxHeap(10)
	heap.Add(1, 2)
	heap.Add(2, 1)
	elem, score := heap.ToSorted()
	assert.Equal(t, []int{1, 2}, elem)
	assert.Equal(t, []float32{2, 1}, score)
}
