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
	"reflect"
	"sync/atomic"
)

// Func is a typed dispatch point. F is the function signature shared by the
// baseline and every specialization, so the type system enforces signature
// uniformity and Get preserves arguments and results exactly.
//
// A Func is immutable after Build and safe for concurrent use.
type Func[F any] struct {
	baseline F
	ranked   []Specialization // Impl holds F values
	strategy Strategy         // effective, never StrategyDefault
	static   F                // selection for StrategyStatic
	detector *Detector
	cached   atomic.Pointer[F] // indirect slot
}

// FuncBuilder accumulates the declaration of a typed dispatch point. Methods
// chain; errors are collected and reported by Build, so a malformed target
// does not panic mid-declaration.
type FuncBuilder[F any] struct {
	baseline  F
	specs     []Specialization
	strategy  Strategy
	detector  *Detector
	buildCaps *CapabilitySet
	err       error
}

// NewFunc starts a typed dispatch point with its baseline implementation.
func NewFunc[F any](baseline F) *FuncBuilder[F] {
	return &FuncBuilder[F]{baseline: baseline, strategy: StrategyDefault}
}

// Clone adds a specialization for the parsed target string. The name follows
// the front-end vocabulary: a clone is the same logical function compiled
// for a more capable target.
func (b *FuncBuilder[F]) Clone(target string, impl F) *FuncBuilder[F] {
	t, err := ParseTarget(target)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	return b.Target(t, impl)
}

// Target adds a specialization for an already-parsed target.
func (b *FuncBuilder[F]) Target(target Target, impl F) *FuncBuilder[F] {
	for _, s := range b.specs {
		if s.Target.Equal(target) {
			if b.err == nil {
				b.err = &DuplicateTargetError{Target: target, Index: len(b.specs)}
			}
			return b
		}
	}
	b.specs = append(b.specs, Specialization{Target: target, Impl: impl})
	return b
}

// Strategy selects the dispatch strategy. StrategyDefault when unset.
func (b *FuncBuilder[F]) Strategy(s Strategy) *FuncBuilder[F] {
	b.strategy = s
	return b
}

// Detector overrides the process-wide detector, pinning the capability set a
// dispatch point sees. Intended for tests and cross-target tooling.
func (b *FuncBuilder[F]) Detector(d *Detector) *FuncBuilder[F] {
	b.detector = d
	return b
}

// BuildTarget overrides the compile-target capability set used by the static
// strategy and the default meta-policy. Intended for tests and tooling that
// reason about a target other than the running binary's.
func (b *FuncBuilder[F]) BuildTarget(caps CapabilitySet) *FuncBuilder[F] {
	b.buildCaps = &caps
	return b
}

// Build finalizes the dispatch point. It fails if F is not a function type
// or if any target was malformed or duplicated.
func (b *FuncBuilder[F]) Build() (*Func[F], error) {
	if b.err != nil {
		return nil, b.err
	}
	if t := reflect.TypeOf(b.baseline); t == nil || t.Kind() != reflect.Func {
		got := "<nil>"
		if t != nil {
			got = t.String()
		}
		return nil, &UnsupportedSignatureError{Index: -1, Got: got}
	}

	buildCaps := BuildCapabilities()
	if b.buildCaps != nil {
		buildCaps = *b.buildCaps
	}
	detector := b.detector
	if detector == nil {
		detector = defaultDetector
	}

	ranked := rankBySpecificity(b.specs)
	f := &Func[F]{
		baseline: b.baseline,
		ranked:   ranked,
		strategy: b.strategy.effective(ranked, buildCaps),
		detector: detector,
	}
	f.static = f.selectFrom(buildCaps)
	return f, nil
}

// MustBuild is Build for package-level declarations; it panics on error.
// Generated code uses it so that a bad declaration fails at init.
func (b *FuncBuilder[F]) MustBuild() *Func[F] {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}

// Get returns the implementation to call, according to the strategy. The
// returned value has the exact declared signature; invoking it forwards
// arguments and results unchanged.
func (f *Func[F]) Get() F {
	switch f.strategy {
	case StrategyStatic:
		return f.static
	case StrategyDirect:
		return f.selectFrom(f.detector.Capabilities())
	default: // StrategyIndirect
		if p := f.cached.Load(); p != nil {
			return *p
		}
		impl := f.selectFrom(f.detector.Capabilities())
		// Racing first calls store the same value; the atomic pointer only
		// guarantees a reader never observes a partial write.
		f.cached.Store(&impl)
		return impl
	}
}

// EffectiveStrategy returns the strategy Get executes, with the default
// meta-policy already resolved.
func (f *Func[F]) EffectiveStrategy() Strategy { return f.strategy }

// Candidates returns the specializations ranked most-specific first.
func (f *Func[F]) Candidates() []Specialization {
	out := make([]Specialization, len(f.ranked))
	copy(out, f.ranked)
	return out
}

func (f *Func[F]) selectFrom(caps CapabilitySet) F {
	if s, ok := Resolve(f.ranked, caps); ok {
		return s.Impl.(F)
	}
	return f.baseline
}
