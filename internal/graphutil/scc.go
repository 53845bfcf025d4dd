// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
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

package graphutil

// StronglyConnectedComponents computes the strongly connected components of
// the directed graph induced by nodes and successors, using Tarjan's
// algorithm. successors returns the targets of the edges out of a node.
// Node order within a component is arbitrary. Components are returned
// successors-first: if there is an edge from a node of component A to a node
// of component B with A != B, then B appears before A. This is the order a
// bottom-up fixpoint over a call graph wants, callees before callers.
func StronglyConnectedComponents[T comparable](nodes []T, successors func(T) []T) [][]T {
	s := sccState[T]{
		num:     map[T]int{},
		lowest:  map[T]int{},
		onStack: map[T]bool{},
	}
	for _, v := range nodes {
		if _, seen := s.num[v]; !seen {
			s.strongConnect(v, successors)
		}
	}
	return s.components
}

type sccState[T comparable] struct {
	next       int
	num        map[T]int
	lowest     map[T]int
	stack      []T
	onStack    map[T]bool
	components [][]T
}

func (s *sccState[T]) strongConnect(v T, successors func(T) []T) {
	s.num[v] = s.next
	s.lowest[v] = s.next
	s.next++
	s.stack = append(s.stack, v)
	s.onStack[v] = true

	for _, w := range successors(v) {
		if _, seen := s.num[w]; !seen {
			s.strongConnect(w, successors)
			s.lowest[v] = minInt(s.lowest[v], s.lowest[w])
		} else if s.onStack[w] {
			s.lowest[v] = minInt(s.lowest[v], s.num[w])
		}
	}

	if s.lowest[v] != s.num[v] {
		return
	}
	// v is the root of a component; pop the stack down to it.
	var component []T
	for {
		w := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.onStack[w] = false
		component = append(component, w)
		if w == v {
			break
		}
	}
	s.components = append(s.components, component)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
