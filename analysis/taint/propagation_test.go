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
	"io"
	"testing"

	"github.com/awslabs/ar-dex-tools/analysis/config"
)

func testState() *State {
	log := config.NewLogGroup(config.NewDefault())
	log.SetAllOutput(io.Discard)
	return NewState(log)
}

func TestApplyPropagationIdentity(t *testing.T) {
	state := testState()
	kind := state.Kinds.Propagation("Return")
	source := state.Kinds.Source("UserInput")

	input := NewTaintTree()
	input.Write("", NewTaint(source), WeakUpdate)
	input.Write(".field1", NewTaint(source), WeakUpdate)

	info := ApplyPropagation(state, Frame{Kind: kind}, input)

	if info.PropagationKind != kind {
		t.Errorf("expected the frame's kind back, got %s", info.PropagationKind)
	}
	if !info.Output.Equal(input) {
		t.Errorf("identity pass-through should preserve the tree:\n in: %s\nout: %s", input, info.Output)
	}

	// the output is a fresh tree, mutating it must not touch the input
	info.Output.Write(".field2", NewTaint(source), WeakUpdate)
	if input.At(".field2").Has(source) {
		t.Errorf("output tree aliases the input tree")
	}
}

func TestApplyPropagationTransformChain(t *testing.T) {
	state := testState()
	base := state.Kinds.Propagation("Return")
	source := state.Kinds.Source("UserInput")
	local := state.Transforms.List("t1", "t2")
	frame := Frame{Kind: state.Kinds.Transform(base, local, nil)}

	input := NewTaintTree()
	input.Write(".field1", NewTaint(source), WeakUpdate)

	info := ApplyPropagation(state, frame, input)

	if info.PropagationKind != base {
		t.Errorf("expected base kind %s, got %s", base, info.PropagationKind)
	}

	want := state.Kinds.Transform(source, local, nil)
	got := info.Output.At(".field1")
	if !got.Has(want) || len(got.Kinds()) != 1 {
		t.Errorf("expected exactly {%s} at .field1, got %s", want, got)
	}
	if !input.At(".field1").Has(source) {
		t.Errorf("input tree was mutated")
	}
}

func TestApplyPropagationExtendsExistingChain(t *testing.T) {
	state := testState()
	base := state.Kinds.Propagation("Return")
	source := state.Kinds.Source("UserInput")

	// the fact has already been through t1; this edge applies t2 after it
	already := state.Kinds.Transform(source, state.Transforms.List("t1"), nil)
	frame := Frame{Kind: state.Kinds.Transform(base, state.Transforms.List("t2"), nil)}

	input := NewTaintTree()
	input.Write("", NewTaint(already), WeakUpdate)

	info := ApplyPropagation(state, frame, input)

	want := state.Kinds.Transform(source, state.Transforms.List("t1", "t2"), nil)
	if got := info.Output.At(""); !got.Has(want) {
		t.Errorf("expected chain t1:t2 over the source kind, got %s", got)
	}
}

func TestApplyPropagationPanicsOnWrongKinds(t *testing.T) {
	state := testState()
	source := state.Kinds.Source("UserInput")
	base := state.Kinds.Propagation("Return")
	global := state.Transforms.List("g")

	tests := []struct {
		name  string
		frame Frame
	}{
		{name: "nil kind", frame: Frame{}},
		{name: "source kind", frame: Frame{Kind: source}},
		{name: "unresolved global transforms", frame: Frame{Kind: state.Kinds.Transform(base, state.Transforms.List("t1"), global)}},
		{name: "transform over source kind", frame: Frame{Kind: state.Kinds.Transform(source, state.Transforms.List("t1"), nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected a panic")
				}
			}()
			ApplyPropagation(state, tt.frame, NewTaintTree())
		})
	}
}

func TestKindInterning(t *testing.T) {
	state := testState()
	if state.Kinds.Propagation("Return") != state.Kinds.Propagation("Return") {
		t.Errorf("propagation kinds should be interned")
	}
	if state.Kinds.Source("A") == state.Kinds.Source("B") {
		t.Errorf("distinct sources should differ")
	}
	l1 := state.Transforms.List("t1", "t2")
	l2 := state.Transforms.List("t1", "t2")
	if l1 != l2 {
		t.Errorf("transform lists should be interned")
	}
	if state.Transforms.Concat(state.Transforms.List("t1"), state.Transforms.List("t2")) != l1 {
		t.Errorf("concat should intern to the same chain")
	}
	base := state.Kinds.Propagation("Return")
	if state.Kinds.Transform(base, l1, nil) != state.Kinds.Transform(base, l2, nil) {
		t.Errorf("transform kinds should be interned")
	}
}

func TestTransformKindRendering(t *testing.T) {
	state := testState()
	base := state.Kinds.Propagation("Return")
	kind := state.Kinds.Transform(base, state.Transforms.List("t1", "t2"), nil)
	want := "t1:t2:LocalPropagation(Return)"
	if got := kind.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
