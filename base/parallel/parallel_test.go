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

package parallel

import (
	"sort"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
)

func TestParallel(t *testing.T) {
	visited := make([]atomic.Bool, 100)
	err := Parallel(len(visited), 4, func(workerId, jobId int) error {
		visited[jobId].Store(true)
		return nil
	})
	assert.NoError(t, err)
	for jobId := range visited {
		assert.True(t, visited[jobId].Load())
	}
}

func TestParallelError(t *testing.T) {
	expected := errors.New("broken job")
	err := Parallel(100, 4, func(workerId, jobId int) error {
		if jobId == 50 {
			return expected
		}
		return nil
	})
	assert.ErrorContains(t, err, "broken job")
}

func TestParallelSingleWorker(t *testing.T) {
	order := make([]int, 0, 10)
	err := Parallel(10, 1, func(workerId, jobId int) error {
		assert.Equal(t, 0, workerId)
		order = append(order, jobId)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestBatchParallel(t *testing.T) {
	visited := make([]atomic.Int32, 105)
	err := BatchParallel(len(visited), 4, 10, func(workerId, beginJobId, endJobId int) error {
		for jobId := beginJobId; jobId < endJobId; jobId++ {
			visited[jobId].Inc()
		}
		return nil
	})
	assert.NoError(t, err)
	for jobId := range visited {
		assert.Equal(t, int32(1), visited[jobId].Load())
	}
}

func TestInterleave(t *testing.T) {
	a := []int{3, 1, 4, 1, 5, 9, 2, 6}
	for n := 1; n <= len(a); n++ {
		chunks := Interleave(a, n)
		assert.Equal(t, n, len(chunks))
		// each element lands in exactly one chunk
		merged := make([]int, 0, len(a))
		for _, chunk := range chunks {
			merged = append(merged, chunk...)
		}
		assert.Equal(t, len(a), len(merged))
		sortedInput := append([]int(nil), a...)
		sort.Ints(sortedInput)
		sort.Ints(merged)
		assert.Equal(t, sortedInput, merged)
	}
	// round-robin assignment
	chunks := Interleave(a, 3)
	assert.Equal(t, []int{3, 1, 2}, chunks[0])
	assert.Equal(t, []int{1, 5, 6}, chunks[1])
	assert.Equal(t, []int{4, 9}, chunks[2])
}
