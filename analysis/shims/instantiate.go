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
	"github.com/awslabs/ar-dex-tools/analysis/config"
	"github.com/awslabs/ar-dex-tools/analysis/dex"
)

// InstantiateShim resolves one raw declaration against the method registry
// and returns the instantiated shim, or nil when the shimmed method itself is
// unknown. Targets referring to unknown methods are dropped with a warning;
// invalid mapping entries are dropped with a diagnostic by
// [ShimParameterMapping.Instantiate]. A malformed parameter port in the
// declaration is a model-file error and aborts the shim.
func InstantiateShim(log *config.LogGroup, registry *dex.Registry, decl Declaration) (*Shim, error) {
	method, ok := registry.Lookup(decl.Method.Class, decl.Method.Name)
	if !ok {
		log.Warnf("Shim declaration refers to unknown method %s", decl.Method)
		return nil, nil
	}

	shimMethod := NewShimMethod(method)

	var targets []ShimTarget
	for _, targetDecl := range decl.Targets {
		targetMethod, ok := registry.Lookup(targetDecl.Class, targetDecl.Name)
		if !ok {
			log.Warnf("Shim target refers to unknown method %s", targetDecl.MethodRef)
			continue
		}

		declared, err := ParameterMappingFromDeclaration(targetDecl.ParametersMap)
		if err != nil {
			return nil, err
		}

		mapping := declared.Instantiate(
			log,
			targetMethod.Name(),
			targetMethod.Class(),
			targetMethod.Args(),
			targetMethod.IsStatic(),
			shimMethod)

		targets = append(targets, NewShimTarget(targetMethod, mapping))
	}

	return NewShim(method, targets), nil
}

// InstantiateShims resolves a set of raw declarations into the shim map
// consumed by the call graph builder. Declarations whose shimmed method is
// unknown are skipped; a later declaration for the same shimmed method
// replaces the earlier one.
func InstantiateShims(log *config.LogGroup, registry *dex.Registry, decls []Declaration) (map[*dex.Method]*Shim, error) {
	methodToShim := map[*dex.Method]*Shim{}
	for _, decl := range decls {
		shim, err := InstantiateShim(log, registry, decl)
		if err != nil {
			return nil, err
		}
		if shim == nil {
			continue
		}
		methodToShim[shim.Method()] = shim
	}
	return methodToShim, nil
}
