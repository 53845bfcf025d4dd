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

package shims

import (
	"sort"

	"github.com/awslabs/ar-dex-tools/analysis/dex"
	"github.com/awslabs/ar-dex-tools/internal/graphutil"
)

// An EdgeGraph is the synthetic call-edge graph induced by a set of shims:
// one directed edge from each shimmed method to each of its targets. The call
// graph builder overlays these edges on the real call graph; the cycle
// queries below let the tool warn when shim declarations dispatch back into a
// shimmed method, which makes the overlay recursive.
type EdgeGraph struct {
	graph   graphutil.Graph
	methods map[int64]*dex.Method
}

// NewEdgeGraph builds the synthetic call-edge graph of the given shims.
// Methods are assigned dense ids in signature order so the result is
// deterministic for a given shim map.
func NewEdgeGraph(methodToShim map[*dex.Method]*Shim) *EdgeGraph {
	// collect every method appearing as a shimmed method or a target
	seen := map[*dex.Method]bool{}
	for method, shim := range methodToShim {
		seen[method] = true
		for _, target := range shim.Targets() {
			seen[target.Method()] = true
		}
	}

	ordered := make([]*dex.Method, 0, len(seen))
	for method := range seen {
		ordered = append(ordered, method)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Signature() < ordered[j].Signature() })

	ids := make(map[*dex.Method]int64, len(ordered))
	methods := make(map[int64]*dex.Method, len(ordered))
	nodes := make([]graphutil.Node, len(ordered))
	for i, method := range ordered {
		id := int64(i)
		ids[method] = id
		methods[id] = method
		nodes[i] = graphutil.Node{Id: id, Label: method.Signature()}
	}

	edges := map[int64]map[int64]bool{}
	for method, shim := range methodToShim {
		from := ids[method]
		for _, target := range shim.Targets() {
			if edges[from] == nil {
				edges[from] = map[int64]bool{}
			}
			edges[from][ids[target.Method()]] = true
		}
	}

	return &EdgeGraph{graph: graphutil.New(nodes, edges), methods: methods}
}

// Graph returns the underlying graph over method ids.
func (g *EdgeGraph) Graph() graphutil.Graph {
	return g.graph
}

// Method returns the method behind a node id of the underlying graph.
func (g *EdgeGraph) Method(id int64) *dex.Method {
	return g.methods[id]
}

// Cycles returns every elementary cycle among the synthetic call edges, each
// as the list of methods along the cycle with the first method repeated at
// the end. Self loops (a shim targeting its own shimmed method) are included.
func (g *EdgeGraph) Cycles() [][]*dex.Method {
	var cycles [][]*dex.Method

	// the elementary-cycle search does not report self loops
	for _, id := range g.graph.Keys {
		if g.graph.Edges[id][id] {
			m := g.methods[id]
			cycles = append(cycles, []*dex.Method{m, m})
		}
	}

	for _, cycle := range graphutil.FindAllElementaryCycles(g.graph) {
		withMethods := make([]*dex.Method, len(cycle))
		for i, id := range cycle {
			withMethods[i] = g.methods[id]
		}
		cycles = append(cycles, withMethods)
	}

	return cycles
}

// ProcessingOrder groups the methods of the graph into strongly connected
// components, callees before callers. Summaries computed component by
// component in this order see the summaries of their synthetic targets before
// they are needed; methods in the same component have to be iterated to a
// fixpoint together.
func (g *EdgeGraph) ProcessingOrder() [][]*dex.Method {
	successors := func(id int64) []int64 {
		targets := make([]int64, 0, len(g.graph.Edges[id]))
		for to := range g.graph.Edges[id] {
			targets = append(targets, to)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		return targets
	}

	var order [][]*dex.Method
	for _, component := range graphutil.StronglyConnectedComponents(g.graph.Keys, successors) {
		methods := make([]*dex.Method, len(component))
		for i, id := range component {
			methods[i] = g.methods[id]
		}
		order = append(order, methods)
	}
	return order
}
