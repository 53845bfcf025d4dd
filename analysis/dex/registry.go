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
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// A Registry interns the types and methods of the analyzed program. It is the
// owning arena for both: handles returned by the registry stay valid for the
// whole analysis and are never freed. The registry is populated before the
// analysis starts; it is not safe for concurrent mutation.
type Registry struct {
	types   map[string]*Type
	methods map[string]*Method

	// byName indexes methods by "class.name"; the first method registered
	// under a given class and name wins, mirroring how model files refer to
	// methods without a full proto.
	byName map[string]*Method
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:   map[string]*Type{},
		methods: map[string]*Method{},
		byName:  map[string]*Method{},
	}
}

// Type interns the type with the given descriptor and returns its handle.
func (r *Registry) Type(descriptor string) *Type {
	if t, ok := r.types[descriptor]; ok {
		return t
	}
	t := &Type{descriptor: descriptor}
	r.types[descriptor] = t
	return t
}

// Method interns a method and returns its handle. Calling Method twice with
// the same class, name, argument and return descriptors returns the same
// handle; the static flag of the first registration is retained.
func (r *Registry) Method(class string, name string, args []string, ret string, static bool) *Method {
	m := &Method{
		class:  r.Type(class),
		name:   name,
		ret:    r.Type(ret),
		static: static,
	}
	for _, arg := range args {
		m.args = append(m.args, r.Type(arg))
	}
	key := m.Signature()
	if prev, ok := r.methods[key]; ok {
		return prev
	}
	r.methods[key] = m
	nameKey := class + "." + name
	if _, ok := r.byName[nameKey]; !ok {
		r.byName[nameKey] = m
	}
	return m
}

// Lookup returns the method registered under the given class and name, or
// false when no such method exists. When a class declares overloads, the
// first registered one is returned.
func (r *Registry) Lookup(class string, name string) (*Method, bool) {
	m, ok := r.byName[class+"."+name]
	return m, ok
}

// NumMethods returns the number of methods interned in the registry.
func (r *Registry) NumMethods() int {
	return len(r.methods)
}

// methodSpec is the JSON form of one method in a registry file.
type methodSpec struct {
	Class  string   `json:"class"`
	Name   string   `json:"name"`
	Args   []string `json:"args"`
	Return string   `json:"return"`
	Static bool     `json:"static"`
}

// LoadMethods reads a JSON method registry file and interns every method it
// declares. It returns an error if the file cannot be read or is not well
// formatted.
func (r *Registry) LoadMethods(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	var specs []methodSpec
	if err := json.Unmarshal(content, &specs); err != nil {
		return fmt.Errorf("could not parse method registry %s: %w", fileName, err)
	}
	for _, spec := range specs {
		r.Method(spec.Class, spec.Name, spec.Args, spec.Return, spec.Static)
	}
	return nil
}
