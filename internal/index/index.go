// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package index implements a sorted in-memory lookup index.
package index

import (
	"cmp"
	"slices"
	"sort"
)

type entry[V any] struct {
	key   string
	value V
}

// Index is a sorted array of values that can be searched by key. Values with
// equal keys keep the order in which they were given to [New].
type Index[V any] struct {
	entries []entry[V]
}

// New builds an index over values. The key function is called once per value.
func New[V any](values []V, key func(V) string) *Index[V] {
	entries := make([]entry[V], 0, len(values))
	for _, v := range values {
		entries = append(entries, entry[V]{
			key:   key(v),
			value: v,
		})
	}
	slices.SortStableFunc(entries, func(a, b entry[V]) int {
		return cmp.Compare(a.key, b.key)
	})

	return &Index[V]{
		entries: entries,
	}
}

// Len returns the number of values in the index.
func (idx *Index[V]) Len() int {
	return len(idx.entries)
}

// Search performs a binary search over the index and returns all values
// whose key equals key.
func (idx *Index[V]) Search(key string) []V {
	i := sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].key >= key
	})

	var values []V
	for ; i < len(idx.entries) && idx.entries[i].key == key; i++ {
		values = append(values, idx.entries[i].value)
	}
	return values
}
