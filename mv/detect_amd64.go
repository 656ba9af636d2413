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

//go:build amd64

package mv

import (
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

// detectArch probes the x86-64 CPU. golang.org/x/sys/cpu covers the common
// flags; klauspost/cpuid fills in the ones it lacks (F16C, AVX512-FP16).
func detectArch() CapabilitySet {
	feats := make([]string, 0, len(x86Features))
	add := func(ok bool, tok string) {
		if ok {
			feats = append(feats, tok)
		}
	}

	// SSE is implied by the amd64 baseline.
	add(true, "sse")
	add(cpu.X86.HasSSE2, "sse2")
	add(cpu.X86.HasSSE3, "sse3")
	add(cpu.X86.HasSSSE3, "ssse3")
	add(cpu.X86.HasSSE41, "sse4.1")
	add(cpu.X86.HasSSE42, "sse4.2")
	add(cpu.X86.HasPOPCNT, "popcnt")

	add(cpu.X86.HasAVX, "avx")
	add(cpu.X86.HasAVX2, "avx2")
	add(cpu.X86.HasFMA, "fma")
	add(cpu.X86.HasBMI1, "bmi1")
	add(cpu.X86.HasBMI2, "bmi2")
	add(cpuid.CPU.Supports(cpuid.F16C), "f16c")

	add(cpu.X86.HasAVX512F, "avx512f")
	add(cpu.X86.HasAVX512BW, "avx512bw")
	add(cpu.X86.HasAVX512CD, "avx512cd")
	add(cpu.X86.HasAVX512DQ, "avx512dq")
	add(cpu.X86.HasAVX512VL, "avx512vl")
	add(cpu.X86.HasAVX512VNNI, "avx512vnni")
	add(cpu.X86.HasAVX512BF16, "avx512bf16")
	add(cpuid.CPU.Supports(cpuid.AVX512FP16), "avx512fp16")

	add(cpu.X86.HasAES, "aes")
	add(cpu.X86.HasPCLMULQDQ, "pclmulqdq")

	return NewCapabilitySet(ArchX86_64, feats...)
}
