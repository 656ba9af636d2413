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

package mv

import (
	"slices"
	"strings"
)

// Target is a hardware capability requirement: an architecture plus the
// feature tokens an implementation needs. Targets are parsed from strings of
// the form `<architecture>[+<feature>]*` and are immutable once built.
type Target struct {
	arch  Arch
	feats []string // declaration order, duplicate-free
}

// ParseTarget parses a target string such as "x86_64+avx2+fma" or
// "arm64+neon". The architecture must be known (GOARCH spellings like
// "amd64" are normalized), every feature token must belong to that
// architecture's vocabulary, and no token may repeat. Failures return a
// *ParseError locating the offending token.
func ParseTarget(s string) (Target, error) {
	if s == "" {
		return Target{}, &ParseError{Input: s, Pos: 0, Msg: "missing architecture"}
	}
	parts := strings.Split(s, "+")
	arch, ok := normalizeArch(parts[0])
	if !ok {
		return Target{}, &ParseError{Input: s, Pos: 0, Token: parts[0], Msg: "unknown architecture"}
	}
	feats := make([]string, 0, len(parts)-1)
	pos := len(parts[0]) + 1
	for _, tok := range parts[1:] {
		switch {
		case tok == "":
			return Target{}, &ParseError{Input: s, Pos: pos - 1, Msg: "empty feature token"}
		case !knownFeature(arch, tok):
			return Target{}, &ParseError{Input: s, Pos: pos, Token: tok, Msg: "unknown feature for " + string(arch)}
		case slices.Contains(feats, tok):
			return Target{}, &ParseError{Input: s, Pos: pos, Token: tok, Msg: "duplicate feature"}
		}
		feats = append(feats, tok)
		pos += len(tok) + 1
	}
	return Target{arch: arch, feats: feats}, nil
}

// MustParseTarget is ParseTarget for package-level declarations; it panics on
// malformed input.
func MustParseTarget(s string) Target {
	t, err := ParseTarget(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Architecture returns the target's canonical architecture tag.
func (t Target) Architecture() Arch { return t.arch }

// Features returns the required feature tokens in declaration order.
func (t Target) Features() []string { return slices.Clone(t.feats) }

// String renders the target in its parseable form with the canonical
// architecture tag.
func (t Target) String() string {
	if len(t.feats) == 0 {
		return string(t.arch)
	}
	return string(t.arch) + "+" + strings.Join(t.feats, "+")
}

// Equal reports whether two targets require the same architecture and the
// same feature set, irrespective of feature order.
func (t Target) Equal(other Target) bool {
	if t.arch != other.arch || len(t.feats) != len(other.feats) {
		return false
	}
	for _, f := range t.feats {
		if !slices.Contains(other.feats, f) {
			return false
		}
	}
	return true
}

// IsSatisfiedBy reports whether caps covers the target: the architectures
// match and every required feature is present.
func (t Target) IsSatisfiedBy(caps CapabilitySet) bool {
	return t.arch == caps.Arch() && caps.HasAll(t.feats)
}

// MoreSpecificThan reports whether t's feature set is a strict superset of
// other's on the same architecture. Targets of differing architectures are
// incomparable and never more specific than one another.
func (t Target) MoreSpecificThan(other Target) bool {
	if t.arch != other.arch || len(t.feats) <= len(other.feats) {
		return false
	}
	for _, f := range other.feats {
		if !slices.Contains(t.feats, f) {
			return false
		}
	}
	return true
}
