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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/awslabs/ar-dex-tools/analysis/dex"
)

// A MethodRef names a method of the analyzed program by declaring class and
// name, the way model files refer to methods.
type MethodRef struct {
	Class string `json:"class"`
	Name  string `json:"name"`
}

func (r MethodRef) String() string {
	return r.Class + "." + r.Name
}

// A TargetDeclaration is the raw form of one shim target: the method the shim
// dispatches to and an optional explicit parameter mapping. A nil
// ParametersMap means no explicit correspondence is declared and one should
// be inferred.
type TargetDeclaration struct {
	MethodRef

	// ParametersMap maps a parameter port of the target to a parameter port
	// of the shimmed method, both in "Argument(n)" form.
	ParametersMap map[string]string `json:"parameters_map"`
}

// A Declaration is the raw form of one shim: the shimmed method and the
// targets its calls should dispatch to, in declaration order.
type Declaration struct {
	Method  MethodRef           `json:"method"`
	Targets []TargetDeclaration `json:"targets"`
}

// LoadDeclarations loads the shim declarations contained in the json file at
// fileName. It returns an error if it could not read the file, or the file is
// not well formatted.
func LoadDeclarations(fileName string) ([]Declaration, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	var data []Declaration
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("could not parse shim model %s: %w", fileName, err)
	}
	return data, nil
}

var portRegex = regexp.MustCompile(`^Argument\(([0-9]+)\)$`)

// ParsePort parses a parameter port name of the form "Argument(n)" into the
// parameter position n.
func ParsePort(port string) (dex.ParameterPosition, error) {
	groups := portRegex.FindStringSubmatch(port)
	if groups == nil {
		return 0, fmt.Errorf("invalid parameter port %q, expected \"Argument(n)\"", port)
	}
	n, err := strconv.ParseUint(groups[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid parameter port %q: %w", port, err)
	}
	return dex.ParameterPosition(n), nil
}

// ParameterMappingFromDeclaration resolves an object-shaped declared mapping
// where keys name target parameter ports and values name shimmed-method
// parameter ports. A nil map is a valid declaration and yields an empty
// mapping.
func ParameterMappingFromDeclaration(decl map[string]string) (ShimParameterMapping, error) {
	mapping := NewShimParameterMapping()
	if decl == nil {
		return mapping, nil
	}

	for targetPort, shimPort := range decl {
		targetPosition, err := ParsePort(targetPort)
		if err != nil {
			return mapping, err
		}
		shimPosition, err := ParsePort(shimPort)
		if err != nil {
			return mapping, err
		}
		mapping.Insert(targetPosition, ShimParameterPosition(shimPosition))
	}

	return mapping, nil
}
