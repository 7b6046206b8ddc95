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
	"container/heap"
	"sort"
)

// MaxHeap stores the K maximal scored elements. Heap is used to reduce time
// complexity and memory complexity in top-K searching.
type MaxHeap struct {
	Elem  []int     // store elements
	Score []float32 // store scores
	K     int       // the size of the heap
}

// NewMaxHeap creates a MaxHeap.
func NewMaxHeap(k int) *MaxHeap {
	maxHeap := new(MaxHeap)
	maxHeap.Elem = make([]int, 0)
	maxHeap.Score = make([]float32, 0)
	maxHeap.K = k
	return maxHeap
}

// Less returns true if the score of the i-th item is less than the score of
// the j-th item. It is a method of heap.Interface.
func (maxHeap *MaxHeap) Less(i, j int) bool {
	return maxHeap.Score[i] < maxHeap.Score[j]
}

// Swap the i-th item with the j-th item. It is a method of heap.Interface.
func (maxHeap *MaxHeap) Swap(i, j int) {
	maxHeap.Elem[i], maxHeap.Elem[j] = maxHeap.Elem[j], maxHeap.Elem[i]
	maxHeap.Score[i], maxHeap.Score[j] = maxHeap.Score[j], maxHeap.Score[i]
}

// Len returns the size of the heap. It is a method of heap.Interface.
func (maxHeap *MaxHeap) Len() int {
	return len(maxHeap.Elem)
}

type _HeapItem struct {
	Elem  int
	Score float32
}

// Push a scored element into the MaxHeap. It is a method of heap.Interface.
func (maxHeap *MaxHeap) Push(x interface{}) {
	item := x.(_HeapItem)
	maxHeap.Elem = append(maxHeap.Elem, item.Elem)
	maxHeap.Score = append(maxHeap.Score, item.Score)
}

// Pop the element with the minimal score in the MaxHeap.
// It is a method of heap.Interface.
func (maxHeap *MaxHeap) Pop() interface{} {
	n := maxHeap.Len()
	item := _HeapItem{
		Elem:  maxHeap.Elem[n-1],
		Score: maxHeap.Score[n-1],
	}
	maxHeap.Elem = maxHeap.Elem[0 : n-1]
	maxHeap.Score = maxHeap.Score[0 : n-1]
	return item
}

// Add a new element to the MaxHeap.
func (maxHeap *MaxHeap) Add(elem int, score float32) {
	heap.Push(maxHeap, _HeapItem{elem, score})
	if maxHeap.Len() > maxHeap.K {
		heap.Pop(maxHeap)
	}
}

// ToSorted returns the elements in the heap sorted by score in descending
// order.
func (maxHeap *MaxHeap) ToSorted() ([]int, []float32) {
	elem := make([]int, maxHeap.Len())
	score := make([]float32, maxHeap.Len())
	copy(elem, maxHeap.Elem)
	copy(score, maxHeap.Score)
	indices := make([]int, len(elem))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return score[indices[i]] > score[indices[j]]
	})
	sortedElem := make([]int, len(elem))
	sortedScore := make([]float32, len(score))
	for i, index := range indices {
		sortedElem[i] = elem[index]
		sortedScore[i] = score[index]
	}
	return sortedElem, sortedScore
}
