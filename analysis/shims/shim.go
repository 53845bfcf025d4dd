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
	"fmt"
	"strings"

	"github.com/awslabs/ar-dex-tools/analysis/config"
	"github.com/awslabs/ar-dex-tools/analysis/dex"
	"github.com/awslabs/ar-dex-tools/internal/funcutil"
)

// A ShimParameterPosition indexes a logical parameter of the shimmed method.
// It is a distinct type from [dex.ParameterPosition], which indexes a shim
// target's own parameters: converting between the two namespaces must always
// be explicit.
type ShimParameterPosition dex.ParameterPosition

func (p ShimParameterPosition) String() string {
	return fmt.Sprintf("Argument(%d)", uint32(p))
}

// A ShimMethod wraps the shimmed method with an index from parameter type to
// logical parameter position, so that target parameters can be matched to
// shimmed-method parameters by type identity.
type ShimMethod struct {
	method *dex.Method

	// typesToPosition maps a parameter type to the first position declaring
	// it. When the method declares the same type at several positions, only
	// the first occurrence is indexed; lookup by type is inherently lossy in
	// the presence of duplicates.
	typesToPosition map[*dex.Type]ShimParameterPosition
}

// NewShimMethod builds the type index of the shimmed method: the receiver
// type at position 0 for instance methods, then the declared argument types
// at increasing positions.
func NewShimMethod(method *dex.Method) ShimMethod {
	index := ShimParameterPosition(0)
	typesToPosition := map[*dex.Type]ShimParameterPosition{}

	if !method.IsStatic() {
		// Include "this" as argument 0
		typesToPosition[method.Class()] = index
		index++
	}

	for _, argument := range method.Args() {
		if _, ok := typesToPosition[argument]; !ok {
			typesToPosition[argument] = index
		}
		index++
	}

	return ShimMethod{method: method, typesToPosition: typesToPosition}
}

// Method returns the shimmed method.
func (s ShimMethod) Method() *dex.Method {
	return s.method
}

// ParameterType returns the type declared at the given logical position of
// the shimmed method, or nil when the position is out of range.
func (s ShimMethod) ParameterType(position ShimParameterPosition) *dex.Type {
	return s.method.ParameterType(dex.ParameterPosition(position))
}

// TypePosition returns the first logical position of the shimmed method that
// declares exactly the given type, or none when no parameter declares it.
func (s ShimMethod) TypePosition(t *dex.Type) funcutil.Optional[ShimParameterPosition] {
	position, ok := s.typesToPosition[t]
	if !ok {
		return funcutil.None[ShimParameterPosition]()
	}
	return funcutil.Some(position)
}

// A ShimParameterMapping is a sparse correspondence table from a shim
// target's parameter positions to the shimmed method's parameter positions.
// An empty mapping is a valid state meaning "no explicit correspondence
// declared, infer one". The zero value is not usable; use
// [NewShimParameterMapping].
type ShimParameterMapping struct {
	m map[dex.ParameterPosition]ShimParameterPosition
}

// NewShimParameterMapping returns an empty mapping.
func NewShimParameterMapping() ShimParameterMapping {
	return ShimParameterMapping{m: map[dex.ParameterPosition]ShimParameterPosition{}}
}

// Empty returns true when the mapping holds no correspondence.
func (m ShimParameterMapping) Empty() bool {
	return len(m.m) == 0
}

// Contains returns true when the mapping holds an entry for the given target
// position.
func (m ShimParameterMapping) Contains(position dex.ParameterPosition) bool {
	_, ok := m.m[position]
	return ok
}

// At returns the shimmed-method position corresponding to the given target
// position, or none when the mapping holds no entry for it.
func (m ShimParameterMapping) At(position dex.ParameterPosition) funcutil.Optional[ShimParameterPosition] {
	shimPosition, ok := m.m[position]
	if !ok {
		return funcutil.None[ShimParameterPosition]()
	}
	return funcutil.Some(shimPosition)
}

// Equal returns true when the two mappings hold exactly the same pairs.
func (m ShimParameterMapping) Equal(o ShimParameterMapping) bool {
	if len(m.m) != len(o.m) {
		return false
	}
	for position, shimPosition := range m.m {
		other, ok := o.m[position]
		if !ok || other != shimPosition {
			return false
		}
	}
	return true
}

// Insert records that the target parameter at position corresponds to the
// shimmed-method parameter at shimPosition. Re-inserting a position silently
// replaces the previous entry.
func (m ShimParameterMapping) Insert(position dex.ParameterPosition, shimPosition ShimParameterPosition) {
	m.m[position] = shimPosition
}

// Instantiate validates this mapping against the real signature of a shim
// target and returns a fresh mapping holding the valid correspondences. The
// receiver is never mutated.
//
// When this mapping is empty, the correspondence is inferred instead: each
// declared argument of the target is matched by type identity against the
// shimmed method's type index. Receiver-to-receiver correspondence is never
// inferred, it must be declared explicitly.
//
// When this mapping is non-empty, every declared pair is checked: a target
// position beyond the target's real parameter count, or a type mismatch
// between the target parameter and the shimmed-method parameter it maps to,
// drops that pair with a diagnostic. Neither condition aborts instantiation.
func (m ShimParameterMapping) Instantiate(
	log *config.LogGroup,
	targetMethodName string,
	targetClass *dex.Type,
	targetArgs []*dex.Type,
	targetIsStatic bool,
	shimMethod ShimMethod,
) ShimParameterMapping {
	if m.Empty() {
		return inferParameterMapping(log, targetArgs, targetIsStatic, shimMethod)
	}

	mapping := NewShimParameterMapping()
	for _, targetPosition := range funcutil.SortedKeys(m.m) {
		shimPosition := m.m[targetPosition]
		calleeType := targetParameterType(log, targetMethodName, targetClass, targetArgs, targetIsStatic, targetPosition)
		if calleeType == nil {
			continue
		}

		shimType := shimMethod.ParameterType(shimPosition)
		if calleeType != shimType {
			log.Errorf(
				"Parameter mapping type mismatch for shim target `%s.%s` for parameter %d. Expected: %s but got %s.",
				targetClass, targetMethodName, targetPosition, calleeType, shimType)
			continue
		}

		mapping.Insert(targetPosition, shimPosition)
	}

	return mapping
}

// targetParameterType resolves the type a shim target declares at a logical
// parameter position, with position 0 denoting the receiver for instance
// targets. A position beyond the target's parameter count is diagnosed and
// resolves to nil.
func targetParameterType(
	log *config.LogGroup,
	methodName string,
	class *dex.Type,
	args []*dex.Type,
	isStatic bool,
	position dex.ParameterPosition,
) *dex.Type {
	numberOfParameters := len(args)
	if !isStatic {
		numberOfParameters++
	}
	if int(position) >= numberOfParameters {
		log.Errorf(
			"Parameter mapping for shim target `%s.%s` contains a port on parameter %d but the method only has %d parameters.",
			class, methodName, position, numberOfParameters)
		return nil
	}

	if !isStatic {
		if position == 0 {
			// Include "this" as argument 0
			return class
		}
		position--
	}

	return args[position]
}

// inferParameterMapping matches each declared argument of the target by type
// identity against the shimmed method's type index. The receiver slot of an
// instance target is skipped, it has no inferred correspondence.
func inferParameterMapping(
	log *config.LogGroup,
	targetArgs []*dex.Type,
	targetIsStatic bool,
	shimMethod ShimMethod,
) ShimParameterMapping {
	mapping := NewShimParameterMapping()

	firstParameterPosition := dex.ParameterPosition(0)
	if !targetIsStatic {
		firstParameterPosition = 1
	}

	for i, argument := range targetArgs {
		if shimPosition := shimMethod.TypePosition(argument); shimPosition.IsSome() {
			log.Tracef("Matched target parameter type %s at shim parameter position %d", argument, shimPosition.Value())
			mapping.Insert(dex.ParameterPosition(i)+firstParameterPosition, shimPosition.Value())
		}
	}

	return mapping
}

func (m ShimParameterMapping) String() string {
	var b strings.Builder
	b.WriteString("parameters_map={")
	for _, position := range funcutil.SortedKeys(m.m) {
		fmt.Fprintf(&b, " Argument(%d): Argument(%d),", uint32(position), uint32(m.m[position]))
	}
	b.WriteString(" }")
	return b.String()
}

// A ShimTarget is one concrete callee a shim dispatches to: the target method
// and the finalized mapping of its parameters onto the shimmed method's
// parameters. Immutable after construction.
type ShimTarget struct {
	method           *dex.Method
	parameterMapping ShimParameterMapping
}

// NewShimTarget returns a shim target for the given method with a finalized
// parameter mapping.
func NewShimTarget(method *dex.Method, parameterMapping ShimParameterMapping) ShimTarget {
	return ShimTarget{method: method, parameterMapping: parameterMapping}
}

// Method returns the target method.
func (s ShimTarget) Method() *dex.Method {
	return s.method
}

// ReceiverRegister returns the operand register of instruction that supplies
// the receiver of the target, or none when the target is static or no
// receiver correspondence is known. The instruction must be a call to the
// shimmed method: a resolved receiver position beyond its operand count is a
// contract violation upstream and panics.
func (s ShimTarget) ReceiverRegister(instruction *dex.Instruction) funcutil.Optional[dex.Register] {
	if s.method.IsStatic() {
		return funcutil.None[dex.Register]()
	}

	receiverPosition := s.parameterMapping.At(0)
	if receiverPosition.IsNone() {
		return funcutil.None[dex.Register]()
	}

	position := receiverPosition.Value()
	if int(position) >= instruction.NumOperands() {
		panic(fmt.Sprintf(
			"receiver position %d of shim target %s is out of range for %s",
			position, s.method, instruction))
	}

	return funcutil.Some(instruction.Operand(dex.ParameterPosition(position)))
}

// ParameterRegisters returns, for every logical parameter position of the
// target that has a mapping entry, the operand register of instruction that
// supplies it. Positions with no entry are omitted: partial bindings are
// valid whenever the shim declares only a subset of correspondences.
func (s ShimTarget) ParameterRegisters(instruction *dex.Instruction) map[dex.ParameterPosition]dex.Register {
	parameterRegisters := map[dex.ParameterPosition]dex.Register{}

	for position := dex.ParameterPosition(0); position < s.method.NumParameters(); position++ {
		if shimPosition := s.parameterMapping.At(position); shimPosition.IsSome() {
			parameterRegisters[position] = instruction.Operand(dex.ParameterPosition(shimPosition.Value()))
		}
	}

	return parameterRegisters
}

func (s ShimTarget) String() string {
	return fmt.Sprintf("ShimTarget(method=`%s`, %s)", s.method, s.parameterMapping)
}

// A Shim is an instantiated shim for one shimmed method: the ordered list of
// targets its calls dispatch to. Target order is declaration order.
type Shim struct {
	method  *dex.Method
	targets []ShimTarget
}

// NewShim returns a shim for the given shimmed method and targets.
func NewShim(method *dex.Method, targets []ShimTarget) *Shim {
	return &Shim{method: method, targets: targets}
}

// Method returns the shimmed method.
func (s *Shim) Method() *dex.Method {
	return s.method
}

// Empty returns true when the shim has no targets.
func (s *Shim) Empty() bool {
	return len(s.targets) == 0
}

// Targets returns the shim targets in declaration order. The returned slice
// must not be modified.
func (s *Shim) Targets() []ShimTarget {
	return s.targets
}

func (s *Shim) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shim(method=`%s`", s.method)
	if !s.Empty() {
		b.WriteString(",\n  targets=[\n")
		for _, target := range s.targets {
			fmt.Fprintf(&b, "    %s,\n", target)
		}
		b.WriteString("  ]")
	}
	b.WriteString(")")
	return b.String()
}
