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
	"slices"
	"sync/atomic"
)

// Specialization binds one implementation body to the target it requires.
type Specialization struct {
	Target Target
	Impl   any
}

// DispatcherBuilder accumulates the declaration of one dispatch point.
// Registration order is preserved and used as the tie-break when ranking.
type DispatcherBuilder struct {
	name        string
	baseline    any
	specs       []Specialization
	strategy    Strategy
	supportPath string
}

// NewDispatcher starts the declaration of a dispatch point. The name is
// diagnostic only (error messages, logging, generated code).
func NewDispatcher(name string) *DispatcherBuilder {
	return &DispatcherBuilder{name: name, strategy: StrategyDefault}
}

// Add registers a specialization. Registering the same target twice fails
// with *DuplicateTargetError carrying the index of the second occurrence.
func (b *DispatcherBuilder) Add(target Target, impl any) error {
	for _, s := range b.specs {
		if s.Target.Equal(target) {
			return &DuplicateTargetError{Target: target, Index: len(b.specs)}
		}
	}
	b.specs = append(b.specs, Specialization{Target: target, Impl: impl})
	return nil
}

// SetBaseline registers the implementation used when no specialization
// matches the running hardware. Required before Finalize.
func (b *DispatcherBuilder) SetBaseline(impl any) { b.baseline = impl }

// SetStrategy selects the dispatch strategy. StrategyDefault when unset.
func (b *DispatcherBuilder) SetStrategy(s Strategy) { b.strategy = s }

// SetSupportPath overrides the import path of the runtime-support package
// that generated code references. Empty means the default path.
func (b *DispatcherBuilder) SetSupportPath(path string) { b.supportPath = path }

// Finalize validates the declaration and produces an immutable Dispatcher.
// All implementations, baseline included, must be functions of one identical
// signature; violations fail with *UnsupportedSignatureError. Candidates are
// ranked most-specific first, with registration order breaking ties between
// incomparable targets, so the ranking is reproducible across runs.
func (b *DispatcherBuilder) Finalize() (*Dispatcher, error) {
	if b.baseline == nil {
		return nil, ErrNoBaseline
	}
	sig := reflect.TypeOf(b.baseline)
	if sig.Kind() != reflect.Func {
		return nil, &UnsupportedSignatureError{Index: -1, Got: sig.String()}
	}
	for i, s := range b.specs {
		st := reflect.TypeOf(s.Impl)
		if st == nil || st.Kind() != reflect.Func {
			got := "<nil>"
			if st != nil {
				got = st.String()
			}
			return nil, &UnsupportedSignatureError{Index: i, Got: got}
		}
		if st != sig {
			return nil, &UnsupportedSignatureError{Index: i, Got: st.String(), Want: sig.String()}
		}
	}
	return &Dispatcher{
		name:        b.name,
		baseline:    b.baseline,
		declared:    slices.Clone(b.specs),
		ranked:      rankBySpecificity(b.specs),
		strategy:    b.strategy,
		supportPath: b.supportPath,
		sig:         sig,
	}, nil
}

// Dispatcher is a finalized dispatch point: the baseline body, the
// specificity-ranked specializations, the chosen strategy, and the
// runtime-support path. It is immutable and safe for concurrent use; it is
// also the interchange object handed to code-generation consumers.
type Dispatcher struct {
	name        string
	baseline    any
	declared    []Specialization // registration order
	ranked      []Specialization // most-specific first
	strategy    Strategy
	supportPath string
	sig         reflect.Type

	cached atomic.Pointer[any] // indirect slot, see CachedSelect
}

// Name returns the dispatch point's diagnostic name.
func (d *Dispatcher) Name() string { return d.name }

// Baseline returns the fallback implementation.
func (d *Dispatcher) Baseline() any { return d.baseline }

// Specializations returns the specializations in registration order.
func (d *Dispatcher) Specializations() []Specialization {
	return slices.Clone(d.declared)
}

// Candidates returns the specializations ranked most-specific first.
func (d *Dispatcher) Candidates() []Specialization {
	return slices.Clone(d.ranked)
}

// Strategy returns the declared strategy, which may be StrategyDefault.
func (d *Dispatcher) Strategy() Strategy { return d.strategy }

// EffectiveStrategy resolves StrategyDefault against the compile target of
// the running binary.
func (d *Dispatcher) EffectiveStrategy() Strategy {
	return d.strategy.effective(d.ranked, BuildCapabilities())
}

// SupportPath returns the runtime-support package path override, or "".
func (d *Dispatcher) SupportPath() string { return d.supportPath }

// Signature returns the shared call signature of all implementations.
func (d *Dispatcher) Signature() reflect.Type { return d.sig }

// Select resolves the dispatch point against caps and returns the chosen
// implementation, falling back to the baseline. Pure with respect to the
// dispatcher's contents.
func (d *Dispatcher) Select(caps CapabilitySet) any {
	if s, ok := Resolve(d.ranked, caps); ok {
		return s.Impl
	}
	return d.baseline
}

// CachedSelect is Select with indirect-strategy caching: the first call
// resolves and publishes the winner, later calls read the slot directly.
// Callers must pass the process-wide capability set (Detect()); because
// resolution is pure, racing first calls publish the identical value and the
// atomic store only guards against torn reads.
func (d *Dispatcher) CachedSelect(caps CapabilitySet) any {
	if p := d.cached.Load(); p != nil {
		return *p
	}
	impl := d.Select(caps)
	d.cached.Store(&impl)
	return impl
}

// rankBySpecificity orders specializations most-specific first. It
// repeatedly emits the earliest-registered specialization not dominated by
// any remaining one, so comparable targets order by strict feature-superset
// and incomparable targets keep registration order. Registries are a handful
// of entries, so the quadratic scan is irrelevant.
func rankBySpecificity(specs []Specialization) []Specialization {
	remaining := slices.Clone(specs)
	ranked := make([]Specialization, 0, len(specs))
	for len(remaining) > 0 {
		pick := 0
		for i, c := range remaining {
			dominated := false
			for j, o := range remaining {
				if i != j && o.Target.MoreSpecificThan(c.Target) {
					dominated = true
					break
				}
			}
			if !dominated {
				pick = i
				break
			}
		}
		ranked = append(ranked, remaining[pick])
		remaining = slices.Delete(remaining, pick, pick+1)
	}
	return ranked
}
