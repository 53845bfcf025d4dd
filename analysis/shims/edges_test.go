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
	"testing"

	"github.com/awslabs/ar-dex-tools/analysis/dex"
)

func singleTargetShim(shimmed *dex.Method, target *dex.Method) *Shim {
	return NewShim(shimmed, []ShimTarget{NewShimTarget(target, NewShimParameterMapping())})
}

func TestEdgeGraphNoCycles(t *testing.T) {
	r := dex.NewRegistry()
	a := r.Method("La;", "m", nil, voidT, true)
	b := r.Method("Lb;", "m", nil, voidT, true)
	c := r.Method("Lc;", "m", nil, voidT, true)

	shims := map[*dex.Method]*Shim{
		a: NewShim(a, []ShimTarget{
			NewShimTarget(b, NewShimParameterMapping()),
			NewShimTarget(c, NewShimParameterMapping()),
		}),
		b: singleTargetShim(b, c),
	}

	g := NewEdgeGraph(shims)
	if cycles := g.Cycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestEdgeGraphReportsCycle(t *testing.T) {
	r := dex.NewRegistry()
	a := r.Method("La;", "m", nil, voidT, true)
	b := r.Method("Lb;", "m", nil, voidT, true)

	shims := map[*dex.Method]*Shim{
		a: singleTargetShim(a, b),
		b: singleTargetShim(b, a),
	}

	cycles := NewEdgeGraph(shims).Cycles()
	if len(cycles) != 1 {
		t.Fatalf("expected one cycle, got %v", cycles)
	}
	cycle := cycles[0]
	if len(cycle) != 3 || cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("cycle should close on its first method: %v", cycle)
	}
}

func TestEdgeGraphReportsSelfLoop(t *testing.T) {
	r := dex.NewRegistry()
	a := r.Method("La;", "m", nil, voidT, true)

	shims := map[*dex.Method]*Shim{
		a: singleTargetShim(a, a),
	}

	cycles := NewEdgeGraph(shims).Cycles()
	if len(cycles) != 1 {
		t.Fatalf("expected the self loop to be reported, got %v", cycles)
	}
	if len(cycles[0]) != 2 || cycles[0][0] != a || cycles[0][1] != a {
		t.Errorf("unexpected self loop rendering: %v", cycles[0])
	}
}

func TestEdgeGraphProcessingOrder(t *testing.T) {
	r := dex.NewRegistry()
	a := r.Method("La;", "m", nil, voidT, true)
	b := r.Method("Lb;", "m", nil, voidT, true)
	c := r.Method("Lc;", "m", nil, voidT, true)

	// a dispatches to b, b and c dispatch to each other
	shims := map[*dex.Method]*Shim{
		a: singleTargetShim(a, b),
		b: singleTargetShim(b, c),
		c: singleTargetShim(c, b),
	}

	order := NewEdgeGraph(shims).ProcessingOrder()
	if len(order) != 2 {
		t.Fatalf("expected two components, got %v", order)
	}
	if len(order[0]) != 2 {
		t.Errorf("the b/c component should come first, got %v", order[0])
	}
	if len(order[1]) != 1 || order[1][0] != a {
		t.Errorf("a should come last, got %v", order[1])
	}
}
