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
	"strings"

	"github.com/awslabs/ar-dex-tools/internal/funcutil"
)

// Taint is a collection of taint facts keyed by their classification kind.
// The zero value is an empty, usable collection for queries; use [NewTaint]
// before mutating.
type Taint struct {
	kinds map[Kind]bool
}

// NewTaint returns a taint collection holding the given kinds.
func NewTaint(kinds ...Kind) Taint {
	t := Taint{kinds: map[Kind]bool{}}
	for _, k := range kinds {
		t.kinds[k] = true
	}
	return t
}

// Empty returns true when the collection holds no fact.
func (t Taint) Empty() bool {
	return len(t.kinds) == 0
}

// Has returns true when the collection holds a fact of the given kind.
func (t Taint) Has(k Kind) bool {
	return t.kinds[k]
}

// Kinds returns the kinds present in the collection, in unspecified order.
func (t Taint) Kinds() []Kind {
	var kinds []Kind
	for k := range t.kinds {
		kinds = append(kinds, k)
	}
	return kinds
}

// Copy returns an independent copy of the collection.
func (t Taint) Copy() Taint {
	c := NewTaint()
	for k := range t.kinds {
		c.kinds[k] = true
	}
	return c
}

// UnionWith merges the facts of o into t.
func (t Taint) UnionWith(o Taint) {
	funcutil.Union(t.kinds, o.kinds)
}

// Equal returns true when the two collections hold exactly the same kinds.
func (t Taint) Equal(o Taint) bool {
	if len(t.kinds) != len(o.kinds) {
		return false
	}
	for k := range t.kinds {
		if !o.kinds[k] {
			return false
		}
	}
	return true
}

// ApplyLocalTransforms returns a fresh collection where every fact's kind has
// been re-keyed through the given local transform chain: a plain kind becomes
// a transform kind wrapping it, and an already transform-wrapped kind has the
// chain extended, preserving application order. The receiver is not mutated.
func (t Taint) ApplyLocalTransforms(kinds *Kinds, transforms *Transforms, local *TransformList) Taint {
	if local == nil || local.Len() == 0 {
		return t.Copy()
	}

	result := NewTaint()
	for k := range t.kinds {
		result.kinds[applyTransformToKind(kinds, transforms, k, local)] = true
	}
	return result
}

func applyTransformToKind(kinds *Kinds, transforms *Transforms, k Kind, local *TransformList) Kind {
	if transformKind, ok := k.(*TransformKind); ok {
		// the existing chain has already been applied, the new one follows it
		return kinds.Transform(
			transformKind.Base(),
			transforms.Concat(transformKind.LocalTransforms(), local),
			transformKind.GlobalTransforms())
	}
	return kinds.Transform(k, local, nil)
}

func (t Taint) String() string {
	names := make([]string, 0, len(t.kinds))
	for k := range t.kinds {
		names = append(names, k.String())
	}
	// deterministic rendering for traces
	return "{" + strings.Join(funcutil.SetToOrderedSlice(toSet(names)), ", ") + "}"
}

func toSet(names []string) map[string]bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return set
}
