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
Package shims implements the shim models that let the analysis follow data
through call patterns the bytecode does not expose directly: reflection,
builder callbacks, framework dispatch. A shim declares that calls to one
method (the shimmed method) actually hand their arguments to one or more other
methods (the shim targets), and records which parameter of the shimmed method
supplies each parameter of each target.

A [Shim] is built from a raw [Declaration] by [InstantiateShims]: declared
parameter mappings are validated against the real method signatures, and
missing mappings are inferred by matching parameter types. Stale or mistyped
mapping entries are dropped with a diagnostic rather than failing the whole
shim, because a partially-correct shim is more useful to the analysis than
none.

At analysis time, the call graph builder holds a call instruction that invokes
the shimmed method and asks each [ShimTarget] which operand register supplies
the receiver ([ShimTarget.ReceiverRegister]) and each argument
([ShimTarget.ParameterRegisters]) of the target, so it can treat the target as
if it were invoked directly with those registers.

All types in this package are immutable once instantiated and safe to share
across analysis workers.
*/
package shims
