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

// Package mv selects, at call time, the most specialized implementation of a
// function that the running hardware supports.
//
// A dispatch point is a function with one baseline body and any number of
// specialized bodies, each annotated with the hardware target it requires.
// Targets use the grammar `<architecture>[+<feature>]*`, for example
// "x86_64+avx2+fma" or "arm64+neon". At runtime the package detects the
// CPU's capabilities once, ranks the specializations by specificity, and
// invokes the first one the CPU satisfies, falling back to the baseline when
// none match.
//
// # Typed dispatch points
//
// The generic Func type preserves the call signature exactly:
//
//	var addTo = mv.NewFunc(addToFallback).
//		Clone("x86_64+avx2", addToAVX2).
//		Clone("arm64+neon", addToNEON).
//		MustBuild()
//
//	addTo.Get()(dst, a, b)
//
// # Dispatch strategies
//
// Four strategies control when resolution happens and what is cached:
//
//   - Static: the winner is fixed when the dispatch point is built, using
//     only the capabilities the compile target guarantees. No runtime branch.
//   - Direct: the resolver runs against the cached capability set on every
//     call. No winner is cached.
//   - Indirect: the winner is resolved on first call and cached in an atomic
//     slot; later calls read the slot directly.
//   - Default: Static when the compile target already guarantees the
//     top-ranked specialization, Indirect otherwise.
//
// Resolution never fails: feature detection degrades to an empty capability
// set, and the resolver always yields at least the baseline.
//
// # Untyped registries
//
// The Dispatcher type carries the same model with implementations stored as
// plain values. It is the interchange object for front ends (see the declare
// package) and code generators (see cmd/mvgen), which lower a finalized
// Dispatcher into concrete dispatch code.
package mv
