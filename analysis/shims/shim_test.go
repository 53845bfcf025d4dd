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
	"io"
	"testing"

	"github.com/awslabs/ar-dex-tools/analysis/config"
	"github.com/awslabs/ar-dex-tools/analysis/dex"
	"github.com/google/go-cmp/cmp"
)

func testLog() *config.LogGroup {
	log := config.NewLogGroup(config.NewDefault())
	log.SetAllOutput(io.Discard)
	return log
}

const (
	intT    = "I"
	stringT = "Ljava/lang/String;"
	objectT = "Ljava/lang/Object;"
	voidT   = "V"
)

func TestShimMethodReceiverIsPositionZero(t *testing.T) {
	r := dex.NewRegistry()
	m := r.Method("Lcom/example/Handler;", "handle", []string{intT}, voidT, false)

	sm := NewShimMethod(m)
	pos := sm.TypePosition(m.Class())
	if pos.IsNone() || pos.Value() != 0 {
		t.Errorf("expected receiver type at position 0, got %v", pos)
	}
}

func TestShimMethodTypeIndex(t *testing.T) {
	r := dex.NewRegistry()
	m := r.Method("Lcom/example/Handler;", "handle", []string{intT, stringT}, voidT, false)
	sm := NewShimMethod(m)

	tests := []struct {
		name string
		arg  *dex.Type
		want ShimParameterPosition
		some bool
	}{
		{name: "receiver", arg: r.Type("Lcom/example/Handler;"), want: 0, some: true},
		{name: "first argument", arg: r.Type(intT), want: 1, some: true},
		{name: "second argument", arg: r.Type(stringT), want: 2, some: true},
		{name: "unknown type", arg: r.Type(objectT), some: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sm.TypePosition(tt.arg)
			if got.IsSome() != tt.some {
				t.Fatalf("TypePosition(%s).IsSome() = %v, want %v", tt.arg, got.IsSome(), tt.some)
			}
			if tt.some && got.Value() != tt.want {
				t.Errorf("TypePosition(%s) = %d, want %d", tt.arg, got.Value(), tt.want)
			}
		})
	}
}

func TestShimMethodDuplicateTypeKeepsFirstPosition(t *testing.T) {
	r := dex.NewRegistry()
	m := r.Method("Lcom/example/Util;", "concat", []string{stringT, stringT}, stringT, true)
	sm := NewShimMethod(m)

	pos := sm.TypePosition(r.Type(stringT))
	if pos.IsNone() || pos.Value() != 0 {
		t.Errorf("duplicate parameter type should index the first occurrence, got %v", pos)
	}
	if got := sm.ParameterType(1); got != r.Type(stringT) {
		t.Errorf("position 1 should still hold the second parameter, got %v", got)
	}
}

func TestShimParameterMappingLastWriteWins(t *testing.T) {
	m := NewShimParameterMapping()
	if !m.Empty() {
		t.Fatalf("new mapping should be empty")
	}
	m.Insert(1, 2)
	m.Insert(1, 3)
	got := m.At(1)
	if got.IsNone() || got.Value() != 3 {
		t.Errorf("At(1) = %v, want 3 (last insert wins)", got)
	}
	if m.Contains(0) {
		t.Errorf("mapping should not contain position 0")
	}
	if m.At(0).IsSome() {
		t.Errorf("At(0) should be none")
	}
}

func TestInstantiateInfersByTypeIdentity(t *testing.T) {
	r := dex.NewRegistry()
	// static target foo(int, String), shim method bar(int, String, Object)
	target := r.Method("Lcom/example/Target;", "foo", []string{intT, stringT}, voidT, true)
	shimmed := r.Method("Lcom/example/Shimmed;", "bar", []string{intT, stringT, objectT}, voidT, true)
	sm := NewShimMethod(shimmed)

	got := NewShimParameterMapping().Instantiate(
		testLog(), target.Name(), target.Class(), target.Args(), target.IsStatic(), sm)

	want := NewShimParameterMapping()
	want.Insert(0, 0)
	want.Insert(1, 1)
	if !got.Equal(want) {
		t.Errorf("inferred mapping = %s, want %s", got, want)
	}
}

func TestInstantiateInferenceSkipsReceiverSlot(t *testing.T) {
	r := dex.NewRegistry()
	// The shim method indexes the target's declaring class, but inference
	// never produces a receiver correspondence for an instance target: the
	// receiver must be mapped explicitly.
	target := r.Method("Lcom/example/Callback;", "run", []string{stringT}, voidT, false)
	shimmed := r.Method("Lcom/example/Dispatcher;", "dispatch",
		[]string{"Lcom/example/Callback;", stringT}, voidT, true)
	sm := NewShimMethod(shimmed)

	got := NewShimParameterMapping().Instantiate(
		testLog(), target.Name(), target.Class(), target.Args(), target.IsStatic(), sm)

	if got.Contains(0) {
		t.Errorf("inference should not produce a receiver entry, got %s", got)
	}
	// the declared argument still matches by type: target position 1 is the
	// String argument, found at shim position 1
	pos := got.At(1)
	if pos.IsNone() || pos.Value() != 1 {
		t.Errorf("expected 1 -> 1 for the String argument, got %s", got)
	}
}

func TestInstantiateValidatesDeclaredPairs(t *testing.T) {
	r := dex.NewRegistry()
	target := r.Method("Lcom/example/Target;", "foo", []string{intT, stringT}, voidT, true)
	shimmed := r.Method("Lcom/example/Shimmed;", "bar", []string{stringT, intT}, voidT, true)
	sm := NewShimMethod(shimmed)

	tests := []struct {
		name     string
		declared [][2]uint32
		want     [][2]uint32
	}{
		{
			name:     "matching pair kept",
			declared: [][2]uint32{{0, 1}, {1, 0}},
			want:     [][2]uint32{{0, 1}, {1, 0}},
		},
		{
			name:     "type mismatch dropped",
			declared: [][2]uint32{{0, 0}, {1, 0}},
			want:     [][2]uint32{{1, 0}},
		},
		{
			name:     "out of range target position dropped",
			declared: [][2]uint32{{7, 0}, {1, 0}},
			want:     [][2]uint32{{1, 0}},
		},
		{
			name:     "all mismatched yields empty",
			declared: [][2]uint32{{0, 0}, {1, 1}},
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			declared := NewShimParameterMapping()
			for _, pair := range tt.declared {
				declared.Insert(dex.ParameterPosition(pair[0]), ShimParameterPosition(pair[1]))
			}

			got := declared.Instantiate(
				testLog(), target.Name(), target.Class(), target.Args(), target.IsStatic(), sm)

			want := NewShimParameterMapping()
			for _, pair := range tt.want {
				want.Insert(dex.ParameterPosition(pair[0]), ShimParameterPosition(pair[1]))
			}
			if !got.Equal(want) {
				t.Errorf("instantiated mapping = %s, want %s", got, want)
			}
			// the stored mapping is never mutated
			if len(tt.declared) > 0 && declared.Empty() {
				t.Errorf("instantiate must not mutate the declared mapping")
			}
		})
	}
}

func TestInstantiateIsIdempotent(t *testing.T) {
	r := dex.NewRegistry()
	target := r.Method("Lcom/example/Target;", "foo", []string{intT, stringT}, voidT, true)
	shimmed := r.Method("Lcom/example/Shimmed;", "bar", []string{intT, stringT, objectT}, voidT, true)
	sm := NewShimMethod(shimmed)

	log := testLog()
	first := NewShimParameterMapping().Instantiate(
		log, target.Name(), target.Class(), target.Args(), target.IsStatic(), sm)
	second := NewShimParameterMapping().Instantiate(
		log, target.Name(), target.Class(), target.Args(), target.IsStatic(), sm)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("instantiate is not idempotent (-first +second):\n%s", diff)
	}
}

func TestParameterRegistersPartialBinding(t *testing.T) {
	r := dex.NewRegistry()
	target := r.Method("Lcom/example/Target;", "foo", []string{intT, stringT}, voidT, true)
	shimmed := r.Method("Lcom/example/Shimmed;", "bar", []string{intT, stringT, objectT}, voidT, true)
	sm := NewShimMethod(shimmed)

	mapping := NewShimParameterMapping().Instantiate(
		testLog(), target.Name(), target.Class(), target.Args(), target.IsStatic(), sm)
	shimTarget := NewShimTarget(target, mapping)

	instruction := dex.NewInvoke(shimmed, 10, 11, 12)
	got := shimTarget.ParameterRegisters(instruction)

	want := map[dex.ParameterPosition]dex.Register{0: 10, 1: 11}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected register bindings (-want +got):\n%s", diff)
	}
}

func TestReceiverRegister(t *testing.T) {
	r := dex.NewRegistry()
	target := r.Method("Lcom/example/Callback;", "run", []string{}, voidT, false)
	shimmed := r.Method("Lcom/example/Dispatcher;", "dispatch",
		[]string{intT, "Lcom/example/Callback;", stringT}, voidT, true)

	mapping := NewShimParameterMapping()
	mapping.Insert(0, 2) // receiver of the target comes from shim argument 2
	shimTarget := NewShimTarget(target, mapping)

	instruction := dex.NewInvoke(shimmed, 20, 21, 22, 23)
	got := shimTarget.ReceiverRegister(instruction)
	if got.IsNone() || got.Value() != 22 {
		t.Errorf("ReceiverRegister = %v, want v22", got)
	}
}

func TestReceiverRegisterAbsentCases(t *testing.T) {
	r := dex.NewRegistry()
	staticTarget := r.Method("Lcom/example/Target;", "foo", []string{}, voidT, true)
	instanceTarget := r.Method("Lcom/example/Callback;", "run", []string{}, voidT, false)
	shimmed := r.Method("Lcom/example/Shimmed;", "bar", []string{intT}, voidT, true)
	instruction := dex.NewInvoke(shimmed, 30)

	if got := NewShimTarget(staticTarget, NewShimParameterMapping()).ReceiverRegister(instruction); got.IsSome() {
		t.Errorf("static target must have no receiver register, got %v", got)
	}
	if got := NewShimTarget(instanceTarget, NewShimParameterMapping()).ReceiverRegister(instruction); got.IsSome() {
		t.Errorf("unmapped receiver must be absent, got %v", got)
	}
}

func TestReceiverRegisterOutOfRangePanics(t *testing.T) {
	r := dex.NewRegistry()
	target := r.Method("Lcom/example/Callback;", "run", []string{}, voidT, false)
	shimmed := r.Method("Lcom/example/Shimmed;", "bar", []string{intT}, voidT, true)

	mapping := NewShimParameterMapping()
	mapping.Insert(0, 5)
	shimTarget := NewShimTarget(target, mapping)
	instruction := dex.NewInvoke(shimmed, 40)

	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for a receiver position beyond the operand count")
		}
	}()
	shimTarget.ReceiverRegister(instruction)
}

func TestShimAggregate(t *testing.T) {
	r := dex.NewRegistry()
	shimmed := r.Method("Lcom/example/Shimmed;", "bar", []string{intT}, voidT, true)
	target := r.Method("Lcom/example/Target;", "foo", []string{intT}, voidT, true)

	empty := NewShim(shimmed, nil)
	if !empty.Empty() {
		t.Errorf("shim with no target should be empty")
	}

	shim := NewShim(shimmed, []ShimTarget{NewShimTarget(target, NewShimParameterMapping())})
	if shim.Empty() {
		t.Errorf("shim with a target should not be empty")
	}
	if shim.Method() != shimmed {
		t.Errorf("shim method mismatch")
	}
	if len(shim.Targets()) != 1 || shim.Targets()[0].Method() != target {
		t.Errorf("unexpected targets: %v", shim.Targets())
	}
}

func TestMappingRendering(t *testing.T) {
	m := NewShimParameterMapping()
	m.Insert(0, 2)
	m.Insert(1, 0)
	want := "parameters_map={ Argument(0): Argument(2), Argument(1): Argument(0), }"
	if got := m.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
