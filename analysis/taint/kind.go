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

import "strings"

// A Kind classifies a taint fact. Kind is a closed variant: the only
// implementations are [SourceKind], [PropagationKind] and [TransformKind],
// all of which are interned by a [Kinds] registry so that equal kinds are
// pointer-equal.
type Kind interface {
	isKind()
	String() string
}

// A SourceKind classifies taint introduced by a source model, e.g.
// "UserInput". It never reaches [ApplyPropagation].
type SourceKind struct {
	name string
}

func (*SourceKind) isKind() {}

// Name returns the source name.
func (k *SourceKind) Name() string {
	return k.name
}

func (k *SourceKind) String() string {
	return k.name
}

// A PropagationKind classifies taint moved by a propagation edge towards an
// output port of the callee, e.g. "Return" or "Argument(0)".
type PropagationKind struct {
	output string
}

func (*PropagationKind) isKind() {}

// Output returns the output port the propagation writes to.
func (k *PropagationKind) Output() string {
	return k.output
}

func (k *PropagationKind) String() string {
	return "LocalPropagation(" + k.output + ")"
}

// A TransformKind wraps a base kind with the ordered transform chains applied
// to taint flowing through the edge. The base kind is never itself a
// transform kind. When this package processes a propagation edge, the global
// chain must already have been resolved away by an earlier stage.
type TransformKind struct {
	base             Kind
	localTransforms  *TransformList
	globalTransforms *TransformList
}

func (*TransformKind) isKind() {}

// Base returns the kind wrapped by the transforms.
func (k *TransformKind) Base() Kind {
	return k.base
}

// LocalTransforms returns the local transform chain, first applied first.
func (k *TransformKind) LocalTransforms() *TransformList {
	return k.localTransforms
}

// GlobalTransforms returns the global transform chain, or nil when it has
// been resolved.
func (k *TransformKind) GlobalTransforms() *TransformList {
	return k.globalTransforms
}

func (k *TransformKind) String() string {
	var b strings.Builder
	if k.globalTransforms != nil {
		b.WriteString(k.globalTransforms.String())
		b.WriteString("@")
	}
	b.WriteString(k.localTransforms.String())
	b.WriteString(":")
	b.WriteString(k.base.String())
	return b.String()
}
