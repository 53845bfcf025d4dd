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

	"github.com/awslabs/ar-dex-tools/analysis/config"
	"github.com/awslabs/ar-dex-tools/analysis/dex"
)

// State holds the registries shared by every analysis worker. The registries
// are read-only during the analysis, so a single State can be used from any
// number of workers without coordination.
type State struct {
	Kinds      *Kinds
	Transforms *Transforms
	Logger     *config.LogGroup
}

// NewState returns a state with fresh registries.
func NewState(logger *config.LogGroup) *State {
	return &State{
		Kinds:      NewKinds(),
		Transforms: NewTransforms(),
		Logger:     logger,
	}
}

// A Frame is the taint information carried by one propagation edge: its
// classification kind and the call metadata the solver tracks alongside it.
type Frame struct {
	// Kind is the classification kind of the edge. For edges reaching
	// [ApplyPropagation] it is a propagation or transform kind.
	Kind Kind

	// Callee is the method the edge propagates through, nil for edges
	// synthesized without a concrete callee.
	Callee *dex.Method

	// Distance is the number of propagation steps from the edge that
	// introduced the taint.
	Distance int
}

// PropagationInfo is the result of applying one propagation edge: the
// resolved propagation kind and the taint tree visible on the sink side of
// the edge. Constructed once per [ApplyPropagation] call, never mutated.
type PropagationInfo struct {
	PropagationKind *PropagationKind
	Output          *TaintTree
}

// ApplyPropagation computes the taint flowing out of one propagation edge.
//
// When the frame's kind is a plain propagation kind there is nothing to
// transform and the input tree passes through unchanged. Otherwise the kind
// must be a transform kind whose base is a propagation kind and whose global
// transforms have been resolved by an earlier stage; every fact of the input
// tree is re-keyed through the local transform chain and written at its
// original path with a weak update, so facts from distinct input paths
// accumulate rather than clobber each other.
//
// Any other kind reaching this point, or a transform kind still carrying
// global transforms, is a contract violation upstream and panics.
func ApplyPropagation(state *State, propagation Frame, inputTaintTree *TaintTree) PropagationInfo {
	kind := propagation.Kind
	if kind == nil {
		panic("propagation frame carries no kind")
	}

	if propagationKind, ok := kind.(*PropagationKind); ok {
		return PropagationInfo{PropagationKind: propagationKind, Output: inputTaintTree.Copy()}
	}

	transformKind, ok := kind.(*TransformKind)
	if !ok {
		panic(fmt.Sprintf("propagation edge carries kind %s, expected a propagation or transform kind", kind))
	}
	if transformKind.GlobalTransforms() != nil {
		panic(fmt.Sprintf("propagation edge carries unresolved global transforms: %s", transformKind))
	}

	propagationKind, ok := transformKind.Base().(*PropagationKind)
	if !ok {
		panic(fmt.Sprintf("transform kind wraps %s, expected a propagation kind", transformKind.Base()))
	}

	outputTaintTree := NewTaintTree()
	for _, elem := range inputTaintTree.Elements() {
		outputTaintTree.Write(
			elem.Path,
			elem.Taint.ApplyLocalTransforms(state.Kinds, state.Transforms, transformKind.LocalTransforms()),
			WeakUpdate)
	}

	return PropagationInfo{PropagationKind: propagationKind, Output: outputTaintTree}
}
