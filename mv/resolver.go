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

// Resolve returns the first candidate, in rank order, whose target is
// satisfied by caps. ok is false when none match, in which case the caller
// uses its baseline. Resolve is pure: it depends only on its inputs, which
// is what makes lock-free caching of its result safe.
func Resolve(ranked []Specialization, caps CapabilitySet) (Specialization, bool) {
	for _, c := range ranked {
		if c.Target.IsSatisfiedBy(caps) {
			return c, true
		}
	}
	return Specialization{}, false
}
