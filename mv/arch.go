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
	"runtime"
	"slices"
)

// Arch identifies an instruction set architecture. Target strings name the
// architecture with its ISA name ("x86_64", "arm64"); the GOARCH spellings
// are accepted as aliases and normalized on parse.
type Arch string

const (
	ArchX86_64 Arch = "x86_64"
	ArchX86    Arch = "x86"
	ArchARM64  Arch = "arm64"
	ArchARM    Arch = "arm"
	ArchWasm32 Arch = "wasm32"
)

var archAliases = map[string]Arch{
	"x86_64":  ArchX86_64,
	"amd64":   ArchX86_64,
	"x86":     ArchX86,
	"386":     ArchX86,
	"arm64":   ArchARM64,
	"aarch64": ArchARM64,
	"arm":     ArchARM,
	"wasm32":  ArchWasm32,
}

// archFeatures is the known feature vocabulary per architecture. A Target may
// only require features listed here; unknown tokens are rejected at parse
// time so that typos fail the declaration instead of silently never matching.
var archFeatures = map[Arch][]string{
	ArchX86_64: x86Features,
	ArchX86:    x86Features,
	ArchARM64:  armFeatures,
	ArchARM:    armFeatures,
	ArchWasm32: {"simd128"},
}

var x86Features = []string{
	"sse", "sse2", "sse3", "ssse3", "sse4.1", "sse4.2", "popcnt",
	"avx", "avx2", "fma", "f16c", "bmi1", "bmi2",
	"avx512f", "avx512bw", "avx512cd", "avx512dq", "avx512vl",
	"avx512vnni", "avx512bf16", "avx512fp16",
	"aes", "pclmulqdq",
}

var armFeatures = []string{
	"neon", "fp16", "fhm", "bf16", "sve", "sve2", "dotprod",
	"aes", "sha2", "sha3", "crc32", "atomics",
}

// normalizeArch resolves an architecture tag or alias to its canonical form.
func normalizeArch(name string) (Arch, bool) {
	arch, ok := archAliases[name]
	return arch, ok
}

// knownFeature reports whether tok is in arch's feature vocabulary.
func knownFeature(arch Arch, tok string) bool {
	return slices.Contains(archFeatures[arch], tok)
}

// RuntimeArch returns the canonical architecture tag for the running binary,
// or "" if the architecture has no dispatch vocabulary.
func RuntimeArch() Arch {
	switch runtime.GOARCH {
	case "amd64":
		return ArchX86_64
	case "386":
		return ArchX86
	case "arm64":
		return ArchARM64
	case "arm":
		return ArchARM
	case "wasm":
		return ArchWasm32
	default:
		return ""
	}
}

// BaselineCapabilities returns the capability set every CPU of the given
// architecture is guaranteed to support, independent of how the current
// binary was compiled.
func BaselineCapabilities(arch Arch) CapabilitySet {
	switch arch {
	case ArchX86_64:
		return NewCapabilitySet(arch, "sse", "sse2")
	case ArchARM64:
		return NewCapabilitySet(arch, "neon")
	default:
		return NewCapabilitySet(arch)
	}
}

// BuildCapabilities returns the capability set the compile target of the
// running binary guarantees. On amd64 this reflects the GOAMD64
// microarchitecture level the binary was built with; on other architectures
// it equals the architecture baseline. Static dispatch resolves against this
// set.
func BuildCapabilities() CapabilitySet {
	return NewCapabilitySet(RuntimeArch(), buildFeatures...)
}
