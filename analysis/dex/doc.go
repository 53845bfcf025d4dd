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
Package dex provides the object model of the analyzed bytecode that the rest of
the analysis consumes: interned type and method handles, and call instructions
with their operand registers.

Types and methods are owned by a [Registry], which interns them so that two
handles are equal exactly when the pointers are equal. The registry is built
single-threaded before the analysis starts and is read-only afterwards, so
handles can be shared freely across analysis workers.
*/
package dex
