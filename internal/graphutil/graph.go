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

// Package graphutil provides a small directed-graph representation over
// dense integer node ids, compatible with both yourbasic/graph iterators and
// gonum graphs, together with an elementary-cycle search.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"
)

// A Node is a graph vertex: a dense integer id and a display label. Node ids
// must cover 0..Order()-1 for the iterator interface to be usable.
type Node struct {
	Id    int64
	Label string
}

// ID returns the id of the node, implementing the graph.Node interface.
func (n Node) ID() int64 {
	return n.Id
}

func (n Node) String() string {
	return n.Label
}

// Graph is an adjacency-set directed graph. It implements the methods to
// satisfy yourbasic/graph's graph.Iterator and gonum's graph.Graph.
type Graph struct {
	// The order of the graph
	order int

	// IDMap maps from node IDs to Nodes
	IDMap map[int64]Node

	// Keys are all the node IDs, sorted in increasing order
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed
	// edge between IDMap[x] and IDMap[y]
	Edges map[int64]map[int64]bool
}

// New returns a graph over the given nodes with the given directed edges.
// Edges referring to ids not present in nodes are ignored.
func New(nodes []Node, edges map[int64]map[int64]bool) Graph {
	idmap := make(map[int64]Node, len(nodes))
	keys := make([]int64, len(nodes))
	es := make(map[int64]map[int64]bool, len(nodes))

	for i, node := range nodes {
		keys[i] = node.Id
		idmap[node.Id] = node
		es[node.Id] = map[int64]bool{}
	}
	for from, tos := range edges {
		if _, ok := idmap[from]; !ok {
			continue
		}
		for to := range tos {
			if _, ok := idmap[to]; ok {
				es[from][to] = true
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return Graph{
		order: len(nodes),
		IDMap: idmap,
		Keys:  keys,
		Edges: es,
	}
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and IDMap are the same as in the original, meaning that node indices stay consistent
// across subgraphs.
func Subgraph(original Graph, include []int64) Graph {
	idmap := make(map[int64]Node, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		idmap[i] = original.IDMap[i]
	}

	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if _, ok := idmap[e]; ok {
				edges[i][e] = true
			}
		}
	}

	return Graph{
		order: original.Order(),
		IDMap: original.IDMap,
		Edges: edges,
		Keys:  keys,
	}
}

// Order implements the order of the graph.Iterator interface for the Graph
func (c Graph) Order() int {
	return c.order
}

// Visit implements the graph.Iterator interface for the Graph
func (c Graph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := c.IDMap[int64(v)]; !ok {
		return false
	}
	for w := range c.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (c Graph) Node(v int) graph.Node {
	return c.IDMap[int64(v)]
}

// Nodes returns the set of nodes in the graph
func (c Graph) Nodes() graph.Nodes {
	keys := make([]int64, len(c.IDMap))

	i := 0
	for k := range c.IDMap {
		keys[i] = k
		i++
	}
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   0,
	}
}

// From returns the set of nodes reachable from the id
func (c Graph) From(id int64) graph.Nodes {
	var keys []int64

	for out := range c.Edges[id] {
		keys = append(keys, out)
	}
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   0,
	}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (c Graph) HasEdgeBetween(xid, yid int64) bool {
	xe := c.Edges[xid]
	ye := c.Edges[yid]
	return xe[yid] || ye[xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c Graph) Edge(uid, vid int64) graph.Edge {
	ue := c.Edges[uid]
	if ue != nil {
		if ue[vid] {
			return GEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
		}
	}
	return nil
}

// *************** Nodes implementation **********************

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	// nodes is the set of nodes in the iterator
	nodes map[int64]Node

	// ids is the set of node ids in the iterator
	// invariant: len(ids) = len(nodes)
	ids []int64

	// cur is the current index of the iterator. The current node is nodes[ids[cur]]
	// invariant: 0 <= cur < len(nodes)
	cur int
}

// Next moves the current node to the next, and returns true if such a node exists. Otherwise, returns false
// and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the length of the node set
func (ns *NodeSet) Len() int {
	return len(ns.ids)
}

// Reset resets the id of the current node in the set
func (ns *NodeSet) Reset() {
	ns.cur = 0
}

// Node return the current node in the set
func (ns *NodeSet) Node() graph.Node {
	return ns.nodes[ns.ids[ns.cur]]
}

// *************** Edge implementation **********************

// GEdge implements the graph.Edge interface
type GEdge struct {
	from Node
	to   Node
}

// From returns the origin of the edge
func (e GEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e GEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e GEdge) ReversedEdge() graph.Edge {
	return GEdge{from: e.to, to: e.from}
}
