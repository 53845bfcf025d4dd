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

import (
	"fmt"
	"strings"
)

// An Instruction is a call instruction of the analyzed program. Operand i
// holds the register supplying logical parameter i of the invoked method
// (operand 0 is the receiver register for instance calls).
type Instruction struct {
	method   *Method
	operands []Register
}

// NewInvoke returns a call instruction invoking method with the given operand
// registers.
func NewInvoke(method *Method, operands ...Register) *Instruction {
	return &Instruction{method: method, operands: operands}
}

// Method returns the invoked method.
func (i *Instruction) Method() *Method {
	return i.method
}

// NumOperands returns the number of operand registers of the instruction.
func (i *Instruction) NumOperands() int {
	return len(i.operands)
}

// Operand returns the register at the given operand position. The position
// must be within range; passing an out-of-range position is a programming
// error and panics.
func (i *Instruction) Operand(position ParameterPosition) Register {
	return i.operands[position]
}

func (i *Instruction) String() string {
	regs := make([]string, len(i.operands))
	for j, r := range i.operands {
		regs[j] = r.String()
	}
	return fmt.Sprintf("invoke %s [%s]", i.method.Signature(), strings.Join(regs, ", "))
}
