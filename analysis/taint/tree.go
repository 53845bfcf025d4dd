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

package taint

import (
	"fmt"
	"strings"

	"github.com/awslabs/ar-dex-tools/internal/funcutil"
)

// UpdateKind selects the merge behavior of a taint tree write.
type UpdateKind int

const (
	// WeakUpdate unions the written taint with the facts already present at
	// the path, never discarding prior facts.
	WeakUpdate UpdateKind = iota

	// StrongUpdate replaces the facts at the path.
	StrongUpdate
)

// An Element is one path of a taint tree with its taint facts.
type Element struct {
	Path  string
	Taint Taint
}

// A TaintTree maps access paths of a value to the taint facts present at
// each path. The empty path "" denotes the value itself, ".f" the field f,
// and paths compose like ".f.g" (same convention as the access paths of the
// intra-procedural analysis).
type TaintTree struct {
	elements map[string]Taint
}

// NewTaintTree returns an empty taint tree.
func NewTaintTree() *TaintTree {
	return &TaintTree{elements: map[string]Taint{}}
}

// Empty returns true when no path holds any fact.
func (t *TaintTree) Empty() bool {
	for _, taint := range t.elements {
		if !taint.Empty() {
			return false
		}
	}
	return true
}

// At returns the taint at the given path. The returned collection must not
// be mutated.
func (t *TaintTree) At(path string) Taint {
	if taint, ok := t.elements[path]; ok {
		return taint
	}
	return Taint{}
}

// Write merges taint into the tree at path. With [WeakUpdate] the new facts
// are unioned with the existing ones; with [StrongUpdate] they replace them.
// The written collection is copied, the caller keeps ownership of taint.
func (t *TaintTree) Write(path string, taint Taint, update UpdateKind) {
	existing, ok := t.elements[path]
	if update == WeakUpdate && ok {
		existing.UnionWith(taint)
		return
	}
	t.elements[path] = taint.Copy()
}

// Elements returns the (path, taint) pairs of the tree, ordered by path for
// determinism. The taint collections must not be mutated.
func (t *TaintTree) Elements() []Element {
	var elements []Element
	for _, path := range funcutil.SortedKeys(t.elements) {
		elements = append(elements, Element{Path: path, Taint: t.elements[path]})
	}
	return elements
}

// Copy returns an independent copy of the tree.
func (t *TaintTree) Copy() *TaintTree {
	c := NewTaintTree()
	for path, taint := range t.elements {
		c.elements[path] = taint.Copy()
	}
	return c
}

// Equal returns true when the two trees hold the same facts at the same
// paths.
func (t *TaintTree) Equal(o *TaintTree) bool {
	if len(t.elements) != len(o.elements) {
		return false
	}
	for path, taint := range t.elements {
		other, ok := o.elements[path]
		if !ok || !taint.Equal(other) {
			return false
		}
	}
	return true
}

func (t *TaintTree) String() string {
	var b strings.Builder
	b.WriteString("TaintTree{")
	for i, elem := range t.Elements() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q -> %s", elem.Path, elem.Taint)
	}
	b.WriteString("}")
	return b.String()
}
