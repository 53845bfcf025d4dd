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

/*
Package taint holds the taint classification kinds, the access-path-indexed
taint trees, and the transform application performed on every taint-carrying
propagation edge.

Kinds are a closed tagged variant: [SourceKind] for taint introduced by a
source, [PropagationKind] for taint moved along a propagation edge, and
[TransformKind] wrapping a base kind with an ordered chain of named
transforms. Kinds and transform chains are interned by the [Kinds] and
[Transforms] registries owned by the analysis [State], so two equal kinds are
always pointer-equal. The registries are built before the analysis starts and
read-only afterwards.

[ApplyPropagation] is called by the dataflow solver once per taint-carrying
propagation edge: it re-keys every taint fact of the input tree through the
edge's transform chain while preserving the fact's position in the tree, so
downstream analysis keeps reasoning about where in the object the taint lives
while updating what kind of taint it now is.
*/
package taint
