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

// CapabilitySet is the set of feature tokens a CPU of one architecture
// supports. Values are immutable; build new sets with NewCapabilitySet or
// Union instead of mutating.
type CapabilitySet struct {
	arch  Arch
	feats map[string]struct{}
}

// NewCapabilitySet builds a capability set for arch from the given feature
// tokens. Duplicates are collapsed; tokens are not validated against the
// architecture vocabulary, since detection may legitimately report features
// the dispatch vocabulary does not track.
func NewCapabilitySet(arch Arch, features ...string) CapabilitySet {
	feats := make(map[string]struct{}, len(features))
	for _, f := range features {
		feats[f] = struct{}{}
	}
	return CapabilitySet{arch: arch, feats: feats}
}

// Arch returns the architecture the capabilities belong to.
func (c CapabilitySet) Arch() Arch { return c.arch }

// Has reports whether the set contains the feature token.
func (c CapabilitySet) Has(feature string) bool {
	_, ok := c.feats[feature]
	return ok
}

// HasAll reports whether the set contains every given feature token.
func (c CapabilitySet) HasAll(features []string) bool {
	for _, f := range features {
		if !c.Has(f) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the set contains no features.
func (c CapabilitySet) IsEmpty() bool { return len(c.feats) == 0 }

// Features returns the feature tokens in sorted order.
func (c CapabilitySet) Features() []string {
	feats := make([]string, 0, len(c.feats))
	for f := range c.feats {
		feats = append(feats, f)
	}
	slices.Sort(feats)
	return feats
}

// Union returns a new set containing the features of both sets. The two sets
// must share an architecture; Union of mismatched architectures returns c
// unchanged.
func (c CapabilitySet) Union(other CapabilitySet) CapabilitySet {
	if c.arch != other.arch {
		return c
	}
	merged := make([]string, 0, len(c.feats)+len(other.feats))
	merged = append(merged, c.Features()...)
	merged = append(merged, other.Features()...)
	return NewCapabilitySet(c.arch, merged...)
}

// String renders the set in target-string form, e.g. "x86_64+avx2+sse2",
// with features sorted for reproducibility.
func (c CapabilitySet) String() string {
	if len(c.feats) == 0 {
		return string(c.arch)
	}
	return string(c.arch) + "+" + strings.Join(c.Features(), "+")
}
