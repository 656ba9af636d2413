// Copyright 2025 go-multiversion Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package declare parses dispatch-point declarations into the configuration
// object consumed by the mv core.
//
// A declaration is an attribute list:
//
//	clones("x86_64+avx2+fma", "x86_64+sse2", "arm64+neon"), dispatcher = "indirect"
//
// or, with per-entry configuration:
//
//	versions(version(target = "x86_64+avx2"), version(target = "arm64+neon"))
//
// The key set is closed: clones, versions, dispatcher, support. Exactly one
// of clones/versions is required. Unknown keys, duplicate keys, and
// malformed values are rejected with errors carrying the byte offset of the
// offending token, so front ends (such as cmd/mvgen reading directive
// comments) can pinpoint the source location.
package declare

import (
	"fmt"

	"github.com/ajroetker/go-multiversion/mv"
)

// DefaultSupportPath is the import path of the runtime-support package that
// generated dispatch code references unless a declaration overrides it with
// the support key.
const DefaultSupportPath = "github.com/ajroetker/go-multiversion/mv"

// Spec is one declared specialization and where it appeared.
type Spec struct {
	Target mv.Target
	Pos    int
}

// Declaration is the parsed configuration of one dispatch point: the
// specializations in declaration order, the requested strategy, and the
// runtime-support path.
type Declaration struct {
	Specializations []Spec
	Strategy        mv.Strategy
	SupportPath     string
}

// Parse parses a declaration attribute list.
func Parse(src string) (*Declaration, error) {
	metas, err := parseMetaList(src)
	if err != nil {
		return nil, err
	}
	mm, err := newMetaMap(metas)
	if err != nil {
		return nil, err
	}

	decl := &Declaration{Strategy: mv.StrategyDefault, SupportPath: DefaultSupportPath}

	clones, hasClones := mm.remove("clones")
	versions, hasVersions := mm.remove("versions")
	switch {
	case hasClones && hasVersions:
		return nil, &DeclarationError{Pos: versions.pos, Msg: "`clones` and `versions` are mutually exclusive"}
	case hasClones:
		decl.Specializations, err = parseClones(clones)
	case hasVersions:
		decl.Specializations, err = parseVersions(versions)
	default:
		return nil, &DeclarationError{Pos: 0, Msg: "expected `clones` or `versions`"}
	}
	if err != nil {
		return nil, err
	}

	if m, ok := mm.remove("dispatcher"); ok {
		tok, err := stringValue(m)
		if err != nil {
			return nil, err
		}
		strategy, err := mv.ParseStrategy(tok)
		if err != nil {
			return nil, &DeclarationError{Pos: m.pos, Msg: err.Error()}
		}
		decl.Strategy = strategy
	}
	if m, ok := mm.remove("support"); ok {
		path, err := stringValue(m)
		if err != nil {
			return nil, err
		}
		decl.SupportPath = path
	}
	if err := mm.finish(); err != nil {
		return nil, err
	}
	return decl, nil
}

// Dispatcher lowers the declaration into a finalized mv.Dispatcher, binding
// each target to its implementation body. impls is keyed by the canonical
// target string (mv.Target.String()).
func (d *Declaration) Dispatcher(name string, baseline any, impls map[string]any) (*mv.Dispatcher, error) {
	b := mv.NewDispatcher(name)
	b.SetBaseline(baseline)
	b.SetStrategy(d.Strategy)
	b.SetSupportPath(d.SupportPath)
	for _, s := range d.Specializations {
		impl, ok := impls[s.Target.String()]
		if !ok {
			return nil, fmt.Errorf("dispatch point %s: no implementation bound for target %q", name, s.Target)
		}
		if err := b.Add(s.Target, impl); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

func parseClones(m meta) ([]Spec, error) {
	if m.form != formList {
		return nil, &DeclarationError{Pos: m.pos, Msg: "expected list of function clone targets"}
	}
	specs := make([]Spec, 0, len(m.items))
	for _, item := range m.items {
		if item.form != formLit {
			return nil, &DeclarationError{Pos: item.pos, Msg: "expected target string"}
		}
		t, err := mv.ParseTarget(item.lit)
		if err != nil {
			return nil, err
		}
		specs = append(specs, Spec{Target: t, Pos: item.pos})
	}
	return specs, nil
}

func parseVersions(m meta) ([]Spec, error) {
	if m.form != formList {
		return nil, &DeclarationError{Pos: m.pos, Msg: "expected list of function versions"}
	}
	specs := make([]Spec, 0, len(m.items))
	for _, item := range m.items {
		if item.form != formList || item.name != "version" {
			return nil, &DeclarationError{Pos: item.pos, Msg: "expected `version(...)`"}
		}
		vm, err := newMetaMap(item.items)
		if err != nil {
			return nil, err
		}
		tm, ok := vm.remove("target")
		if !ok {
			return nil, &DeclarationError{Pos: item.pos, Msg: "version requires a `target` key"}
		}
		ts, err := stringValue(tm)
		if err != nil {
			return nil, err
		}
		t, err := mv.ParseTarget(ts)
		if err != nil {
			return nil, err
		}
		if err := vm.finish(); err != nil {
			return nil, err
		}
		specs = append(specs, Spec{Target: t, Pos: tm.pos})
	}
	return specs, nil
}

// stringValue extracts the string of a `key = "value"` meta.
func stringValue(m meta) (string, error) {
	if m.form != formAssign {
		return "", &DeclarationError{Pos: m.pos, Msg: "expected name-value pair"}
	}
	return m.lit, nil
}

// metaMap holds the top-level keys of a declaration, enforcing the closed,
// duplicate-free key set the way the attribute grammar requires.
type metaMap struct {
	entries map[string]meta
	order   []string
}

func newMetaMap(metas []meta) (*metaMap, error) {
	mm := &metaMap{entries: make(map[string]meta, len(metas))}
	for _, m := range metas {
		if m.form == formLit {
			return nil, &DeclarationError{Pos: m.pos, Msg: "expected identifier, got literal"}
		}
		if _, dup := mm.entries[m.name]; dup {
			return nil, &DuplicateKeyError{Key: m.name, Pos: m.pos}
		}
		mm.entries[m.name] = m
		mm.order = append(mm.order, m.name)
	}
	return mm, nil
}

func (mm *metaMap) remove(key string) (meta, bool) {
	m, ok := mm.entries[key]
	if ok {
		delete(mm.entries, key)
	}
	return m, ok
}

// finish fails on the first remaining key, in source order.
func (mm *metaMap) finish() error {
	for _, key := range mm.order {
		if m, ok := mm.entries[key]; ok {
			return &UnknownKeyError{Key: key, Pos: m.pos}
		}
	}
	return nil
}
