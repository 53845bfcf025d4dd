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

package dex

import "strings"

// A Type is an interned bytecode type. Two types obtained from the same
// registry are the same type exactly when the pointers are equal.
type Type struct {
	descriptor string
}

// Descriptor returns the bytecode descriptor of the type, e.g. "I" or
// "Ljava/lang/String;".
func (t *Type) Descriptor() string {
	return t.descriptor
}

func (t *Type) String() string {
	return t.descriptor
}

// A Method is an interned handle to a callable unit of the analyzed program.
// Its declaring class, static flag and parameter types are fixed for the
// lifetime of the handle.
type Method struct {
	class  *Type
	name   string
	args   []*Type
	ret    *Type
	static bool
}

// Class returns the declaring class of the method.
func (m *Method) Class() *Type {
	return m.class
}

// Name returns the unqualified name of the method.
func (m *Method) Name() string {
	return m.name
}

// IsStatic returns true when the method has no receiver.
func (m *Method) IsStatic() bool {
	return m.static
}

// Args returns the declared argument types of the method, receiver excluded.
// The returned slice must not be modified.
func (m *Method) Args() []*Type {
	return m.args
}

// ReturnType returns the declared return type of the method.
func (m *Method) ReturnType() *Type {
	return m.ret
}

// NumParameters returns the number of logical parameters of the method,
// including the receiver for instance methods.
func (m *Method) NumParameters() ParameterPosition {
	n := ParameterPosition(len(m.args))
	if !m.static {
		n++
	}
	return n
}

// ParameterType returns the type declared at the given logical position, with
// position 0 denoting the receiver for instance methods. It returns nil when
// the position is out of range; callers that need a queryable absence should
// wrap the result in an option.
func (m *Method) ParameterType(position ParameterPosition) *Type {
	if !m.static {
		if position == 0 {
			return m.class
		}
		position--
	}
	if int(position) >= len(m.args) {
		return nil
	}
	return m.args[position]
}

// Signature returns the full signature key of the method, e.g.
// "Lcom/example/Handler;.handle:(ILjava/lang/String;)V". Signatures are
// unique within a registry.
func (m *Method) Signature() string {
	var b strings.Builder
	b.WriteString(m.class.descriptor)
	b.WriteString(".")
	b.WriteString(m.name)
	b.WriteString(":(")
	for _, arg := range m.args {
		b.WriteString(arg.descriptor)
	}
	b.WriteString(")")
	b.WriteString(m.ret.descriptor)
	return b.String()
}

func (m *Method) String() string {
	return m.Signature()
}
