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

import "fmt"

// A ParameterPosition is a logical argument slot of a method. For instance
// methods, position 0 is the receiver and the declared arguments start at 1;
// for static methods the declared arguments start at 0.
type ParameterPosition uint32

func (p ParameterPosition) String() string {
	return fmt.Sprintf("Argument(%d)", uint32(p))
}

// A Register identifies an operand slot of an instruction.
type Register uint32

func (r Register) String() string {
	return fmt.Sprintf("v%d", uint32(r))
}
