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

import "fmt"

// Strategy controls when dispatch resolution happens and whether the winner
// is cached.
type Strategy uint8

const (
	// StrategyDefault picks StrategyStatic when the compile target already
	// guarantees the top-ranked specialization (runtime detection cannot
	// select anything better), and StrategyIndirect otherwise.
	StrategyDefault Strategy = iota

	// StrategyStatic fixes the selection when the dispatch point is built,
	// using only the compile target's guaranteed capabilities. No detector
	// call, no runtime branch. A non-match is not an error; the baseline is
	// used.
	StrategyStatic

	// StrategyDirect re-runs the resolver against the cached capability set
	// on every invocation. The hardware is still probed only once; only the
	// candidate scan repeats. Suited to cold call sites.
	StrategyDirect

	// StrategyIndirect resolves once per dispatch point on first call and
	// caches the winner in an atomic slot. Racing first calls compute the
	// identical value, so the slot needs publication ordering but no lock.
	StrategyIndirect
)

// ParseStrategy maps a declaration token to its Strategy.
func ParseStrategy(token string) (Strategy, error) {
	switch token {
	case "default":
		return StrategyDefault, nil
	case "static":
		return StrategyStatic, nil
	case "direct":
		return StrategyDirect, nil
	case "indirect":
		return StrategyIndirect, nil
	default:
		return StrategyDefault, fmt.Errorf("expected `default`, `static`, `direct`, or `indirect`, got %q", token)
	}
}

// String returns the declaration token for the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyDefault:
		return "default"
	case StrategyStatic:
		return "static"
	case StrategyDirect:
		return "direct"
	case StrategyIndirect:
		return "indirect"
	default:
		return "unknown"
	}
}

// effective resolves StrategyDefault against the compile target's guaranteed
// capability set. Static is chosen when runtime detection cannot improve on
// the build-time selection: either the top-ranked candidate is already
// guaranteed, or no candidate targets the compile architecture at all.
func (s Strategy) effective(ranked []Specialization, buildCaps CapabilitySet) Strategy {
	if s != StrategyDefault {
		return s
	}
	if len(ranked) == 0 {
		return StrategyStatic
	}
	if ranked[0].Target.IsSatisfiedBy(buildCaps) {
		return StrategyStatic
	}
	anyArchMatch := false
	for _, c := range ranked {
		if c.Target.Architecture() == buildCaps.Arch() {
			anyArchMatch = true
			break
		}
	}
	if !anyArchMatch {
		return StrategyStatic
	}
	return StrategyIndirect
}
