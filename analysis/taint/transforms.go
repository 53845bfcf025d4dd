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

package taint

import "strings"

// A Transform is an interned named transformation attached to propagation
// edges, e.g. an encoding or sanitization step.
type Transform struct {
	name string
}

// Name returns the name of the transform.
func (t *Transform) Name() string {
	return t.name
}

func (t *Transform) String() string {
	return t.name
}

// A TransformList is an interned ordered transform chain; the first element
// is applied first. Lists obtained from the same [Transforms] registry are
// pointer-equal exactly when they hold the same chain.
type TransformList struct {
	parts []*Transform
}

// Parts returns the transforms in application order. The returned slice must
// not be modified.
func (l *TransformList) Parts() []*Transform {
	return l.parts
}

// Len returns the length of the chain.
func (l *TransformList) Len() int {
	return len(l.parts)
}

func (l *TransformList) String() string {
	names := make([]string, len(l.parts))
	for i, t := range l.parts {
		names[i] = t.name
	}
	return strings.Join(names, ":")
}

// Transforms interns transforms and transform chains. It is populated before
// the analysis starts and read-mostly afterwards; concurrent readers need no
// coordination once building is done.
type Transforms struct {
	transforms map[string]*Transform
	lists      map[string]*TransformList
}

// NewTransforms returns an empty transforms registry.
func NewTransforms() *Transforms {
	return &Transforms{
		transforms: map[string]*Transform{},
		lists:      map[string]*TransformList{},
	}
}

// Transform interns the transform with the given name.
func (r *Transforms) Transform(name string) *Transform {
	if t, ok := r.transforms[name]; ok {
		return t
	}
	t := &Transform{name: name}
	r.transforms[name] = t
	return t
}

// List interns the chain applying the named transforms in order. An empty
// chain is interned as well so that empty lists are pointer-equal.
func (r *Transforms) List(names ...string) *TransformList {
	key := strings.Join(names, ":")
	if l, ok := r.lists[key]; ok {
		return l
	}
	l := &TransformList{}
	for _, name := range names {
		l.parts = append(l.parts, r.Transform(name))
	}
	r.lists[key] = l
	return l
}

// Concat interns the chain applying every transform of a, then every
// transform of b. Either argument may be nil.
func (r *Transforms) Concat(a *TransformList, b *TransformList) *TransformList {
	var names []string
	if a != nil {
		for _, t := range a.parts {
			names = append(names, t.name)
		}
	}
	if b != nil {
		for _, t := range b.parts {
			names = append(names, t.name)
		}
	}
	return r.List(names...)
}
