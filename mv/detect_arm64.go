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

//go:build arm64

package mv

import "golang.org/x/sys/cpu"

// detectArch probes the arm64 CPU via golang.org/x/sys/cpu. NEON (ASIMD) is
// part of the ARMv8-A base architecture but is still read from the hwcaps
// for consistency. bf16 has no portable hwcap in x/sys/cpu yet and is left
// undetected; targets requiring it fall back.
func detectArch() CapabilitySet {
	feats := make([]string, 0, len(armFeatures))
	add := func(ok bool, tok string) {
		if ok {
			feats = append(feats, tok)
		}
	}

	add(cpu.ARM64.HasASIMD, "neon")
	add(cpu.ARM64.HasASIMDHP, "fp16")
	add(cpu.ARM64.HasASIMDFHM, "fhm")
	add(cpu.ARM64.HasSVE, "sve")
	add(cpu.ARM64.HasSVE2, "sve2")
	add(cpu.ARM64.HasASIMDDP, "dotprod")
	add(cpu.ARM64.HasAES, "aes")
	add(cpu.ARM64.HasSHA2, "sha2")
	add(cpu.ARM64.HasSHA3, "sha3")
	add(cpu.ARM64.HasCRC32, "crc32")
	add(cpu.ARM64.HasATOMICS, "atomics")

	return NewCapabilitySet(ArchARM64, feats...)
}
