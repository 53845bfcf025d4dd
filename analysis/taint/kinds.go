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

import "fmt"

// Kinds interns classification kinds so that equal kinds are pointer-equal.
// Like [Transforms], it is populated before the analysis starts.
type Kinds struct {
	sources        map[string]*SourceKind
	propagations   map[string]*PropagationKind
	transformKinds map[transformKindKey]*TransformKind
}

type transformKindKey struct {
	base   Kind
	local  *TransformList
	global *TransformList
}

// NewKinds returns an empty kinds registry.
func NewKinds() *Kinds {
	return &Kinds{
		sources:        map[string]*SourceKind{},
		propagations:   map[string]*PropagationKind{},
		transformKinds: map[transformKindKey]*TransformKind{},
	}
}

// Source interns the source kind with the given name.
func (r *Kinds) Source(name string) *SourceKind {
	if k, ok := r.sources[name]; ok {
		return k
	}
	k := &SourceKind{name: name}
	r.sources[name] = k
	return k
}

// Propagation interns the propagation kind writing to the given output port.
func (r *Kinds) Propagation(output string) *PropagationKind {
	if k, ok := r.propagations[output]; ok {
		return k
	}
	k := &PropagationKind{output: output}
	r.propagations[output] = k
	return k
}

// Transform interns the transform kind wrapping base with the given chains.
// The base must not itself be a transform kind: wrapping a transform kind is
// done by concatenating chains over its own base.
func (r *Kinds) Transform(base Kind, local *TransformList, global *TransformList) *TransformKind {
	if _, ok := base.(*TransformKind); ok {
		panic(fmt.Sprintf("transform kind base must not be a transform kind: %s", base))
	}
	key := transformKindKey{base: base, local: local, global: global}
	if k, ok := r.transformKinds[key]; ok {
		return k
	}
	k := &TransformKind{base: base, localTransforms: local, globalTransforms: global}
	r.transformKinds[key] = k
	return k
}
